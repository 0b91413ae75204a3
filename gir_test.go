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
    `context`
    `errors`
    `io`
    `log/slog`
    `testing`

    `github.com/cloudwego/gir/ir`
    `github.com/cloudwego/gir/ir/nodes`
    `github.com/cloudwego/gir/ir/stamp`
    `github.com/stretchr/testify/require`
)

var quiet = WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

type brokenOp struct{}

func (brokenOp) String() string  { return "broken" }
func (brokenOp) Kind() ir.Kind   { return ir.Floating }

func (brokenOp) Canonical(_ ir.Tool, n *ir.Node) *ir.Node {
    return n.Graph().Add(nodes.Deopt { Reason: "broken" })
}

func foldable(name string) (*ir.Graph, *ir.Node) {
    g := nodes.NewGraph(name)
    x := nodes.Parameter(g, 0, stamp.Int(32))
    v := g.Add(nodes.Binary { Op: nodes.OpMul }, nodes.Int(g, 32, 6), nodes.Int(g, 32, 7))
    r := g.Add(nodes.Return{}, g.Add(nodes.Binary { Op: nodes.OpAdd }, x, v))
    g.Start().SetNext(r)
    return g, r
}

func TestCanonicalize(t *testing.T) {
    g, r := foldable("canonicalize")
    require.NoError(t, Canonicalize(g, quiet, WithVerify(true)))
    v := r.Input(0)
    require.Equal(t, nodes.Binary { Op: nodes.OpAdd }, v.Op())
    require.Equal(t, nodes.Int(g, 32, 42), v.Input(1))
    require.Equal(t, 5, g.NodeCount())
}

func TestCanonicalize_RevisitLimit(t *testing.T) {
    var e *RevisitLimitError
    g, _ := foldable("swap")
    swap := ir.CustomCanonicalizerFunc(func(n *ir.Node) *ir.Node {
        if v, ok := n.Op().(nodes.Binary); ok && v.Op == nodes.OpAdd {
            return n.Graph().Unique(v, n.Input(1), n.Input(0))
        } else {
            return n
        }
    })
    err := Canonicalize(g, quiet, WithVerify(false), WithMaxIterationPerNode(5), WithCustomCanonicalizer(swap))
    require.True(t, errors.As(err, &e), "%v", err)
    require.Equal(t, 5, e.Limit)
}

func TestCanonicalize_Partial(t *testing.T) {
    g, r := foldable("partial")
    mark := g.Mark()
    x := r.Input(0).Input(0)
    v := g.Add(nodes.Binary { Op: nodes.OpSub }, x, x)
    r.SetInput(0, v)
    require.NoError(t, CanonicalizeIncremental(context.Background(), g, mark, quiet))
    require.Equal(t, nodes.Int(g, 32, 0), r.Input(0))

    /* explicit nodes */
    g, r = foldable("partial")
    require.NoError(t, CanonicalizeNodes(context.Background(), g, []*ir.Node { r.Input(0).Input(1) }, quiet))
    require.Equal(t, nodes.Int(g, 32, 42), r.Input(0).Input(1))
}

func TestCanonicalizeAll(t *testing.T) {
    var e *InvariantError
    var gs []*ir.Graph
    var rs []*ir.Node

    /* a few good graphs */
    for i := 0; i < 8; i++ {
        g, r := foldable("all")
        gs = append(gs, g)
        rs = append(rs, r)
    }

    /* and a bad one */
    bad := nodes.NewGraph("bad")
    bad.Start().SetNext(bad.Add(nodes.Return{}, bad.Add(brokenOp{})))
    gs = append(gs, bad)

    /* the bad one fails alone */
    err := CanonicalizeAll(context.Background(), gs, quiet)
    require.True(t, errors.As(err, &e), "%v", err)
    for i, r := range rs {
        require.Equal(t, nodes.Int(gs[i], 32, 42), r.Input(0).Input(1))
    }
}

func TestCanonicalizeAll_Duplicated(t *testing.T) {
    g, r := foldable("duplicated")
    err := CanonicalizeAll(context.Background(), []*ir.Graph { g, g }, quiet)
    require.Error(t, err)
    require.Contains(t, err.Error(), "more than once")
    require.Equal(t, nodes.Binary { Op: nodes.OpMul }, r.Input(0).Input(1).Op())
}

func TestOptions(t *testing.T) {
    require.Panics(t, func() { WithMaxIterationPerNode(-1) })
    require.Panics(t, func() { WithLogger(nil) })
    old := SetMaxIterationPerNode(3)
    require.Equal(t, 3, SetMaxIterationPerNode(old))
    o := newPhase(nil)
    require.NotNil(t, o)
}
