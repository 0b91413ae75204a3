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

    `github.com/cloudwego/gir`
    `github.com/cloudwego/gir/debug`
    `github.com/cloudwego/gir/internal/loader`
    `github.com/cloudwego/gir/ir`
    `github.com/spf13/cobra`
)

// CanonOptions holds the flags of the canon command.
type CanonOptions struct {
    MaxIterations int
    NoReads       bool
    DumpDir       string
    Stats         bool
}

// NewCanonCommand creates the canon command, which canonicalizes a graph
// and prints the result as graphviz.
func NewCanonCommand(root *RootOptions) *cobra.Command {
    opts := &CanonOptions{}
    cmd := &cobra.Command {
        Use           : "canon <file>",
        Short         : "Canonicalize a graph",
        Args          : cobra.ExactArgs(1),
        SilenceUsage  : true,
        SilenceErrors : true,
        RunE: func(cmd *cobra.Command, args []string) error {
            return runCanon(cmd, root, opts, args[0])
        },
    }

    /* canonicalizer flags */
    cmd.Flags().IntVar(&opts.MaxIterations, "max-iterations", 0, "revisit limit per node (0 for the default)")
    cmd.Flags().BoolVar(&opts.NoReads, "no-canonicalize-reads", false, "keep unused and redundant reads")
    cmd.Flags().StringVar(&opts.DumpDir, "dump-dir", "", "write graphviz dumps before and after the pass into this directory")
    cmd.Flags().BoolVar(&opts.Stats, "stats", false, "print canonicalizer counters to stderr")
    return cmd
}

func runCanon(cmd *cobra.Command, root *RootOptions, opts *CanonOptions, fn string) error {
    g, err := loader.Load(fn)
    if err != nil {
        return err
    }

    /* build the options */
    ops := root.options(cmd)
    ops = append(ops, gir.WithCanonicalizeReads(!opts.NoReads), gir.WithDumpDir(opts.DumpDir))

    /* negative limits are rejected by the option itself */
    if opts.MaxIterations < 0 {
        return fmt.Errorf("invalid iteration limit: %d", opts.MaxIterations)
    } else if opts.MaxIterations != 0 {
        ops = append(ops, gir.WithMaxIterationPerNode(opts.MaxIterations))
    }

    /* canonicalize the graph */
    st := debug.GetStats()
    nb := g.NodeCount()
    if err = gir.CanonicalizeContext(cmd.Context(), g.Graph, ops...); err != nil {
        return fmt.Errorf("canonicalize %s: %w", fn, err)
    }

    /* print the result */
    if err = ir.WriteDot(cmd.OutOrStdout(), g.Graph); err != nil {
        return err
    }

    /* summary and counters go to stderr */
    fmt.Fprintf(cmd.ErrOrStderr(), "%s: %d -> %d nodes\n", g.Name, nb, g.NodeCount())
    if opts.Stats {
        printStats(cmd, st, debug.GetStats())
    }

    /* all done */
    return nil
}

func printStats(cmd *cobra.Command, old debug.Stats, now debug.Stats) {
    x, y := old.Canonicalizer, now.Canonicalizer
    w := cmd.ErrOrStderr()
    fmt.Fprintf(w, "processed                   %d\n", y.Processed - x.Processed)
    fmt.Fprintf(w, "canonicalized               %d\n", y.Canonicalized - x.Canonicalized)
    fmt.Fprintf(w, "canonicalization considered %d\n", y.CanonicalizationConsidered - x.CanonicalizationConsidered)
    fmt.Fprintf(w, "simplification considered   %d\n", y.SimplificationConsidered - x.SimplificationConsidered)
    fmt.Fprintf(w, "infer stamp called          %d\n", y.InferStampCalled - x.InferStampCalled)
    fmt.Fprintf(w, "stamp changed               %d\n", y.StampChanged - x.StampChanged)
    fmt.Fprintf(w, "gvn hits                    %d\n", y.GVNHits - x.GVNHits)
    fmt.Fprintf(w, "killed                      %d\n", y.Killed - x.Killed)
}
