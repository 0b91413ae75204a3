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
    `github.com/cloudwego/gir/internal/loader`
    `github.com/cloudwego/gir/ir`
    `github.com/spf13/cobra`
)

// NewDotCommand creates the dot command, which prints a graph as graphviz
// without changing it.
func NewDotCommand(root *RootOptions) *cobra.Command {
    return &cobra.Command {
        Use           : "dot <file>",
        Short         : "Print a graph as graphviz",
        Args          : cobra.ExactArgs(1),
        SilenceUsage  : true,
        SilenceErrors : true,
        RunE: func(cmd *cobra.Command, args []string) error {
            g, err := loader.Load(args[0])
            if err != nil {
                return err
            }
            if root.Verify {
                if err = g.Verify(); err != nil {
                    return err
                }
            }
            return ir.WriteDot(cmd.OutOrStdout(), g.Graph)
        },
    }
}
