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

// Package gir canonicalizes sea-of-nodes graphs: it folds constants,
// applies algebraic identities, merges duplicated values, removes dead
// code and prunes control flow that can never execute, until no rewrite
// applies anymore.
package gir

import (
    `context`
    `errors`
    `fmt`
    `sync`

    `github.com/bytedance/gopkg/util/gopool`
    `github.com/cloudwego/gir/internal/canon`
    `github.com/cloudwego/gir/internal/opts`
    `github.com/cloudwego/gir/ir`
)

func newPhase(options []Option) *canon.Phase {
    o := opts.GetDefaultOptions()
    for _, fn := range options {
        fn(&o)
    }
    return canon.NewPhase(o)
}

// Canonicalize canonicalizes every node of g.
//
// Failures are fatal for g, which is left in whatever state it was at the
// time: an *InvariantError if a rewrite would break the graph structure, a
// *RevisitLimitError if some rewrite does not terminate.
func Canonicalize(g *ir.Graph, options ...Option) error {
    return newPhase(options).Apply(g)
}

// CanonicalizeContext is like Canonicalize, but stops between two nodes
// once ctx is done, returning ctx.Err().
func CanonicalizeContext(ctx context.Context, g *ir.Graph, options ...Option) error {
    return newPhase(options).ApplyContext(ctx, g)
}

// CanonicalizeNodes canonicalizes the nodes in ns, and every node their
// rewrites affect.
func CanonicalizeNodes(ctx context.Context, g *ir.Graph, ns []*ir.Node, options ...Option) error {
    return newPhase(options).ApplyNodes(ctx, g, ns)
}

// CanonicalizeIncremental canonicalizes the nodes added to g since mark
// (see ir.Graph.Mark), and every node their rewrites affect.
func CanonicalizeIncremental(ctx context.Context, g *ir.Graph, mark int, options ...Option) error {
    return newPhase(options).ApplyIncremental(ctx, g, mark)
}

// CanonicalizeNodesIncremental combines CanonicalizeNodes and
// CanonicalizeIncremental.
func CanonicalizeNodesIncremental(ctx context.Context, g *ir.Graph, ns []*ir.Node, mark int, options ...Option) error {
    return newPhase(options).ApplyNodesIncremental(ctx, g, ns, mark)
}

// CanonicalizeAll canonicalizes independent graphs concurrently. Each graph
// is processed by exactly one goroutine, so a graph must not appear twice.
// The returned error joins the errors of every failed graph.
func CanonicalizeAll(ctx context.Context, gs []*ir.Graph, options ...Option) error {
    wg := sync.WaitGroup{}
    ph := newPhase(options)
    rs := make([]error, len(gs))
    gm := make(map[*ir.Graph]bool, len(gs))

    /* graphs are not safe for concurrent use */
    for _, g := range gs {
        if gm[g] {
            return fmt.Errorf("gir: graph %q appears more than once", g.Name)
        } else {
            gm[g] = true
        }
    }

    /* one task per graph */
    for i, g := range gs {
        i, g := i, g
        wg.Add(1)

        /* run on the pool */
        gopool.CtxGo(ctx, func() {
            defer wg.Done()
            defer func() {
                if v := recover(); v != nil {
                    rs[i] = fmt.Errorf("gir: canonicalizing %q panicked: %v", g.Name, v)
                }
            }()
            rs[i] = ph.ApplyContext(ctx, g)
        })
    }

    /* wait for all of them */
    wg.Wait()
    return errors.Join(rs...)
}
