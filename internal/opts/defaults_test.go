/*
 * Copyright 2022 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */


package opts

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseOrDefault(t *testing.T) {
	t.Setenv("GIR_TEST_LIMIT", "")
	require.Equal(t, 10, parseOrDefault("GIR_TEST_LIMIT", 10, 0))
	t.Setenv("GIR_TEST_LIMIT", "0x20")
	require.Equal(t, 32, parseOrDefault("GIR_TEST_LIMIT", 10, 0))
	t.Setenv("GIR_TEST_LIMIT", "0")
	require.Panics(t, func() { parseOrDefault("GIR_TEST_LIMIT", 10, 0) })
	t.Setenv("GIR_TEST_LIMIT", "many")
	require.Panics(t, func() { parseOrDefault("GIR_TEST_LIMIT", 10, 0) })
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, parseLevel("GIR_LOG_LEVEL", "debug"))
	require.Equal(t, slog.LevelWarn, parseLevel("GIR_LOG_LEVEL", "WARN"))
	require.Panics(t, func() { parseLevel("GIR_LOG_LEVEL", "loud") })
}

func TestGetDefaultOptions(t *testing.T) {
	o := GetDefaultOptions()
	require.Equal(t, MaxIterationPerNode, o.MaxIterationPerNode)
	require.True(t, o.CanonicalizeReads)
	require.NotNil(t, o.Logger)
	require.Nil(t, o.Custom)
}
