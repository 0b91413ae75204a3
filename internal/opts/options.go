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

	"github.com/cloudwego/gir/ir"
)

type Options struct {
	MaxIterationPerNode int
	CanonicalizeReads   bool
	Verify              bool
	DumpDir             string
	Logger              *slog.Logger
	Custom              ir.CustomCanonicalizer
}

func GetDefaultOptions() Options {
	return Options{
		MaxIterationPerNode: MaxIterationPerNode,
		CanonicalizeReads:   true,
		Verify:              Verify,
		DumpDir:             DumpDir,
		Logger:              slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: LogLevel})),
	}
}
