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

package gir

import (
	"fmt"
	"log/slog"

	"github.com/cloudwego/gir/internal/opts"
	"github.com/cloudwego/gir/ir"
)

// Option is the property setter function for opts.Options.
type Option func(*opts.Options)

// WithMaxIterationPerNode sets how many times a single node may be
// visited within one pass before the pass is considered non-terminating.
//
// Set this option to "0" disables this limit.
//
// The default value of this option is "10".
func WithMaxIterationPerNode(n int) Option {
	if n < 0 {
		panic(fmt.Sprintf("gir: invalid iteration limit: %d", n))
	} else {
		return func(o *opts.Options) { o.MaxIterationPerNode = n }
	}
}

// WithCanonicalizeReads controls whether read-like fixed nodes may be
// removed when unused, or forwarded from an identical read.
//
// The default value of this option is "true".
func WithCanonicalizeReads(v bool) Option {
	return func(o *opts.Options) { o.CanonicalizeReads = v }
}

// WithCustomCanonicalizer installs a rewrite that is tried on value nodes
// after the built-in rewrites made no change.
func WithCustomCanonicalizer(c ir.CustomCanonicalizer) Option {
	return func(o *opts.Options) { o.Custom = c }
}

// WithVerify enables graph verification before and after each pass, and
// checks that canonical rules give the same answer when asked twice.
//
// This value can also be configured with the `GIR_VERIFY` environment
// variable.
func WithVerify(v bool) Option {
	return func(o *opts.Options) { o.Verify = v }
}

// WithLogger sets the logger, rewrites are logged at the debug level.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic("gir: nil logger")
	} else {
		return func(o *opts.Options) { o.Logger = l }
	}
}

// WithDumpDir makes every pass write graphviz dumps of the graph before
// and after canonicalization into dir.
//
// This value can also be configured with the `GIR_DUMP_DIR` environment
// variable.
func WithDumpDir(dir string) Option {
	return func(o *opts.Options) { o.DumpDir = dir }
}

// SetMaxIterationPerNode sets the default revisit limit for all passes from
// now on.
//
// This value can also be configured with the `GIR_MAX_ITERATION_PER_NODE`
// environment variable.
//
// Returns the old opts.MaxIterationPerNode value.
func SetMaxIterationPerNode(n int) int {
	n, opts.MaxIterationPerNode = opts.MaxIterationPerNode, n
	return n
}
