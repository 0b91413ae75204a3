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


package cli

import (
    `fmt`

    `github.com/cloudwego/gir/internal/loader`
    `github.com/spf13/cobra`
)

// NewVerifyCommand creates the verify command, which checks that a graph
// is well formed.
func NewVerifyCommand(_ *RootOptions) *cobra.Command {
    return &cobra.Command {
        Use           : "verify <file>",
        Short         : "Check that a graph is well formed",
        Args          : cobra.ExactArgs(1),
        SilenceUsage  : true,
        SilenceErrors : true,
        RunE: func(cmd *cobra.Command, args []string) error {
            g, err := loader.Load(args[0])
            if err != nil {
                return err
            }
            if err = g.Verify(); err != nil {
                return fmt.Errorf("%s: %w", args[0], err)
            }
            fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d nodes)\n", g.Name, g.NodeCount())
            return nil
        },
    }
}
