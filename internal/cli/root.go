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


// Package cli implements the gir command line, which runs the
// canonicalizer over graphs loaded from YAML files.
package cli

import (
    `fmt`
    `log/slog`

    `github.com/cloudwego/gir`
    `github.com/spf13/cobra`
)

// RootOptions holds the flags shared by all commands.
type RootOptions struct {
    LogLevel string
    Verify   bool
}

// NewRootCommand creates the root command of the gir CLI.
func NewRootCommand() *cobra.Command {
    opts := &RootOptions{}
    cmd := &cobra.Command {
        Use           : "gir",
        Short         : "gir - graph IR canonicalizer",
        Long          : "Loads graphs from YAML files, canonicalizes them and prints them as graphviz.",
        SilenceErrors : true,
        PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
            _, err := opts.level()
            return err
        },
    }

    /* global flags */
    cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "warn", "log level (debug|info|warn|error)")
    cmd.PersistentFlags().BoolVar(&opts.Verify, "verify", false, "verify graphs before and after canonicalization")

    /* subcommands */
    cmd.AddCommand(NewCanonCommand(opts))
    cmd.AddCommand(NewDotCommand(opts))
    cmd.AddCommand(NewVerifyCommand(opts))
    return cmd
}

func (self *RootOptions) level() (lv slog.Level, err error) {
    if err = lv.UnmarshalText([]byte(self.LogLevel)); err != nil {
        return 0, fmt.Errorf("invalid log level %q", self.LogLevel)
    } else {
        return lv, nil
    }
}

func (self *RootOptions) options(cmd *cobra.Command) []gir.Option {
    lv, _ := self.level()
    hd := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions { Level: lv })
    return []gir.Option { gir.WithLogger(slog.New(hd)), gir.WithVerify(self.Verify) }
}
