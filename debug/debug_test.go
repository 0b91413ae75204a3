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


package debug

import (
	"io"
	"log/slog"
	"testing"

	"github.com/cloudwego/gir"
	"github.com/cloudwego/gir/ir/nodes"
	"github.com/cloudwego/gir/ir/stamp"
	"github.com/stretchr/testify/require"
)

func TestGetStats(t *testing.T) {
	g := nodes.NewGraph("stats")
	x := nodes.Parameter(g, 0, stamp.Int(32))
	a := g.Add(nodes.Binary{Op: nodes.OpAdd}, x, nodes.Int(g, 32, 1))
	b := g.Add(nodes.Binary{Op: nodes.OpAdd}, x, nodes.Int(g, 32, 1))
	g.Start().SetNext(g.Add(nodes.Return{}, g.Add(nodes.Binary{Op: nodes.OpSub}, a, b)))

	/* canonicalize and compare */
	old := GetStats().Canonicalizer
	require.NoError(t, gir.Canonicalize(g, gir.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))))
	now := GetStats().Canonicalizer
	require.Greater(t, now.Processed, old.Processed)
	require.Greater(t, now.Canonicalized, old.Canonicalized)
	require.Greater(t, now.CanonicalizationConsidered, old.CanonicalizationConsidered)
	require.Greater(t, now.InferStampCalled, old.InferStampCalled)
	require.Equal(t, old.GVNHits+1, now.GVNHits)
	require.Greater(t, now.Killed, old.Killed)
}
