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
	"os"
	"strconv"

	"github.com/xyproto/env/v2"
)

const (
	_DefaultMaxIterationPerNode = 10 // revisits of a single node within one pass
	_DefaultLogLevel            = "info"
)

var (
	MaxIterationPerNode = parseOrDefault("GIR_MAX_ITERATION_PER_NODE", _DefaultMaxIterationPerNode, 0)
	LogLevel            = parseLevel("GIR_LOG_LEVEL", env.Str("GIR_LOG_LEVEL", _DefaultLogLevel))
	Verify              = env.Bool("GIR_VERIFY")
	DumpDir             = env.Str("GIR_DUMP_DIR")
)

func parseOrDefault(key string, def int, min int) int {
	if env := os.Getenv(key); env == "" {
		return def
	} else if val, err := strconv.ParseUint(env, 0, 64); err != nil {
		panic("gir: invalid value for " + key)
	} else if ret := int(val); ret <= min {
		panic("gir: value too small for " + key)
	} else {
		return ret
	}
}

func parseLevel(key string, val string) (lv slog.Level) {
	if err := lv.UnmarshalText([]byte(val)); err != nil {
		panic("gir: invalid value for " + key)
	} else {
		return
	}
}
