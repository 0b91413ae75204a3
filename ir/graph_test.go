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

package ir_test

import (
    `bytes`
    `testing`

    `github.com/cloudwego/gir/ir`
    `github.com/cloudwego/gir/ir/nodes`
    `github.com/cloudwego/gir/ir/stamp`
    `github.com/davecgh/go-spew/spew`
    `github.com/stretchr/testify/require`
)

type bothOp struct{}

func (bothOp) String() string                           { return "both" }
func (bothOp) Kind() ir.Kind                            { return ir.Floating }
func (bothOp) Canonical(_ ir.Tool, n *ir.Node) *ir.Node { return n }
func (bothOp) Simplify(_ ir.Tool, _ *ir.Node)           {}

type fixedValueOp struct{}

func (fixedValueOp) String() string              { return "fixed-value" }
func (fixedValueOp) Kind() ir.Kind               { return ir.FixedWithNext }
func (fixedValueOp) ValueHash() uint64           { return 0 }
func (fixedValueOp) ValueEqual(_ ir.Op) bool     { return true }

func requireInvariant(t *testing.T, fn func()) {
    defer func() {
        v := recover()
        _, ok := v.(*ir.InvariantError)
        require.True(t, ok, "expected an invariant violation, got %v", v)
    }()
    fn()
}

func TestGraph_AddChecksCapabilities(t *testing.T) {
    g := nodes.NewGraph("caps")
    requireInvariant(t, func() { g.Add(bothOp{}) })
    requireInvariant(t, func() { g.Add(fixedValueOp{}) })
    require.Equal(t, 1, g.NodeCount())
}

func TestGraph_Unique(t *testing.T) {
    g := nodes.NewGraph("unique")
    x := nodes.Parameter(g, 0, stamp.Int(32))
    a := nodes.Int(g, 32, 1)
    b := nodes.Int(g, 32, 1)
    c := nodes.Int(g, 64, 1)
    require.Same(t, a, b)
    require.NotSame(t, a, c)
    s1 := g.Unique(nodes.Binary { Op: nodes.OpAdd }, x, a)
    s2 := g.Unique(nodes.Binary { Op: nodes.OpAdd }, x, a)
    s3 := g.Unique(nodes.Binary { Op: nodes.OpSub }, x, a)
    require.Same(t, s1, s2)
    require.NotSame(t, s1, s3)
    require.Nil(t, g.FindDuplicate(s1))
}

func TestGraph_FindDuplicate(t *testing.T) {
    g := nodes.NewGraph("dup")
    x := nodes.Parameter(g, 0, stamp.Int(32))
    y := nodes.Parameter(g, 1, stamp.Int(32))
    a := g.Add(nodes.Binary { Op: nodes.OpMul }, x, y)
    b := g.Add(nodes.Binary { Op: nodes.OpMul }, x, y)
    c := g.Add(nodes.Binary { Op: nodes.OpMul }, y, x)
    require.Same(t, a, g.FindDuplicate(b))
    require.Same(t, b, g.FindDuplicate(a))
    require.Nil(t, g.FindDuplicate(c))
    require.Nil(t, g.FindDuplicate(x))
    b.ReplaceAtUsages(a)
    b.SafeDelete()
    require.Nil(t, g.FindDuplicate(a))
}

func TestNode_UsagesMirrorInputs(t *testing.T) {
    g := nodes.NewGraph("usages")
    x := nodes.Parameter(g, 0, stamp.IntRange(32, 0, 10))
    y := nodes.Parameter(g, 1, stamp.IntRange(32, 0, 5))
    b := g.Add(nodes.Binary { Op: nodes.OpAdd }, x, x)
    require.Equal(t, 2, x.UsageCount())
    require.Equal(t, []*ir.Node { b, b }, x.Usages())
    b.SetInput(1, y)
    require.Equal(t, 1, x.UsageCount())
    require.Equal(t, 1, y.UsageCount())
    require.True(t, b.InferStamp())
    require.Equal(t, stamp.Stamp(stamp.Add(stamp.IntRange(32, 0, 10), stamp.IntRange(32, 0, 5))), b.Stamp())
    require.False(t, b.InferStamp())
    b.ReplaceFirstInput(y, x)
    require.Equal(t, 2, x.UsageCount())
    require.True(t, y.HasNoUsages())
    c := g.Add(nodes.Unary { Op: nodes.OpNeg }, x)
    x.ReplaceAtUsages(y)
    require.True(t, x.HasNoUsages())
    require.Equal(t, 3, y.UsageCount())
    require.Same(t, y, c.Input(0))
    require.Same(t, y, b.Input(0))
    require.Same(t, y, b.Input(1))
}

func TestNode_Misuse(t *testing.T) {
    g := nodes.NewGraph("misuse")
    x := nodes.Parameter(g, 0, stamp.Int(32))
    b := g.Add(nodes.Unary { Op: nodes.OpNot }, x)
    requireInvariant(t, func() { x.SafeDelete() })
    requireInvariant(t, func() { x.ReplaceAtUsages(x) })
    b.SafeDelete()
    requireInvariant(t, func() { g.Add(nodes.Unary { Op: nodes.OpNot }, b) })
    requireInvariant(t, func() { b.SetInput(0, x) })
    o := nodes.Parameter(g, 1, stamp.Object())
    l := nodes.Append(g.Start(), g.Add(nodes.Load { Field: "f", Type: stamp.Int(32) }, o))
    m := g.Add(nodes.Load { Field: "g", Type: stamp.Int(32) }, o)
    requireInvariant(t, func() { m.SetNext(l) })
    requireInvariant(t, func() { l.SafeDelete() })
    requireInvariant(t, func() { x.Next() })
}

func TestGraph_Events(t *testing.T) {
    g := nodes.NewGraph("events")
    x := nodes.Parameter(g, 0, stamp.Int(32))
    y := nodes.Parameter(g, 1, stamp.Int(32))
    b := g.Add(nodes.Binary { Op: nodes.OpAdd }, x, y)
    b.SetInput(1, x)
    require.Empty(t, g.Changes())
    g.TrackChanges()
    b.SetInput(1, y)
    require.Equal(t, []ir.Event {
        { Kind: ir.EventInputChanged, Node: b.ID() },
    }, g.Changes())
    b.SetInput(0, y)
    require.Equal(t, []ir.Event {
        { Kind: ir.EventUsagesDroppedZero, Node: x.ID() },
        { Kind: ir.EventInputChanged, Node: b.ID() },
    }, g.Changes())
    require.Empty(t, g.Changes())
    g.StopTracking()
    b.SetInput(0, x)
    require.Empty(t, g.Changes())
}

func straightLine(t *testing.T) (*ir.Graph, *ir.Node, *ir.Node, *ir.Node, *ir.Node) {
    g := nodes.NewGraph("straight")
    p := nodes.Parameter(g, 0, stamp.ObjectNonNull("T", false))
    l1 := nodes.Append(g.Start(), g.Add(nodes.Load { Field: "f", Type: stamp.Int(32) }, p))
    l2 := nodes.Append(l1, g.Add(nodes.Load { Field: "g", Type: stamp.Int(32) }, p))
    rv := g.Add(nodes.Return{}, l2)
    l2.SetNext(rv)
    require.NoError(t, g.Verify())
    return g, p, l1, l2, rv
}

func TestGraph_FixedMutators(t *testing.T) {
    g, p, l1, l2, rv := straightLine(t)
    g.RemoveFixed(l1)
    require.True(t, l1.IsDeleted())
    require.Same(t, l2, g.Start().Next())
    require.NoError(t, g.Verify())

    /* replace with a new fixed node */
    l3 := g.Add(nodes.Load { Field: "h", Type: stamp.Int(32) }, p)
    g.ReplaceFixedWithFixed(l2, l3)
    require.True(t, l2.IsDeleted())
    require.Same(t, l3, g.Start().Next())
    require.Same(t, rv, l3.Next())
    require.Same(t, l3, rv.Input(0))
    require.NoError(t, g.Verify())

    /* insert before the return */
    st := g.Add(nodes.Store { Field: "f" }, p, nodes.Int(g, 32, 7))
    g.AddBeforeFixed(rv, st)
    require.Same(t, st, l3.Next())
    require.Same(t, rv, st.Next())
    require.NoError(t, g.Verify())

    /* replace with a floating node */
    c := nodes.Int(g, 32, 3)
    g.ReplaceFixedWithFloating(l3, c)
    require.Same(t, st, g.Start().Next())
    require.Same(t, c, rv.Input(0))
    require.NoError(t, g.Verify())
}

func TestGraph_FixedMutatorsMisuse(t *testing.T) {
    g, p, l1, l2, _ := straightLine(t)
    requireInvariant(t, func() { g.RemoveFixed(l2) })
    requireInvariant(t, func() { g.ReplaceFixedWithFixed(l1, l2) })
    requireInvariant(t, func() { g.RemoveFloating(l1) })
    requireInvariant(t, func() { g.ReplaceFixedWithFloating(l1, g.Add(nodes.ArrayLength{}, p)) })
}

func diamond(t *testing.T) (*ir.Graph, map[string]*ir.Node) {
    g := nodes.NewGraph("diamond")
    c := nodes.Parameter(g, 0, stamp.Bool())
    x := nodes.Parameter(g, 1, stamp.Int(32))
    br := g.Add(nodes.If{}, c)
    b0 := g.Add(nodes.Begin{})
    b1 := g.Add(nodes.Begin{})
    g.Start().SetNext(br)
    br.SetSuccessor(0, b0)
    br.SetSuccessor(1, b1)
    v := g.Add(nodes.Binary { Op: nodes.OpAdd }, x, nodes.Int(g, 32, 1))
    r0 := g.Add(nodes.Return{}, v)
    r1 := g.Add(nodes.Return{}, nodes.Int(g, 32, 0))
    b0.SetNext(r0)
    b1.SetNext(r1)
    require.NoError(t, g.Verify())
    return g, map[string]*ir.Node { "c": c, "x": x, "if": br, "b0": b0, "b1": b1, "v": v, "r0": r0, "r1": r1 }
}

func TestGraph_RemoveSplitPropagate(t *testing.T) {
    g, n := diamond(t)
    g.RemoveSplitPropagate(n["if"], n["b1"])
    for _, k := range []string { "if", "b0", "r0", "v", "x" } {
        require.True(t, n[k].IsDeleted(), "%s should be deleted", k)
    }
    for _, k := range []string { "c", "b1", "r1" } {
        require.True(t, n[k].IsAlive(), "%s should be alive", k)
    }
    require.Same(t, n["b1"], g.Start().Next())
    require.NoError(t, g.Verify(), spew.Sdump(g.Nodes()))
}

func TestGraph_RemoveSplit(t *testing.T) {
    g, n := diamond(t)
    requireInvariant(t, func() { g.RemoveSplit(n["if"], n["b0"]) })
    n["if"].ReplaceFirstSuccessor(n["b1"], nil)
    ir.KillCFG(n["b1"])
    require.True(t, n["r1"].IsDeleted())
    g.RemoveSplit(n["if"], n["b0"])
    require.Same(t, n["b0"], g.Start().Next())
    require.NoError(t, g.Verify())
}

func TestGraph_Verify(t *testing.T) {
    g, n := diamond(t)
    g.Add(nodes.Return{}, n["x"])
    require.Error(t, g.Verify())
}

func TestWriteDot(t *testing.T) {
    var buf bytes.Buffer
    g, n := diamond(t)
    require.NoError(t, ir.WriteDot(&buf, g))
    require.Contains(t, buf.String(), "digraph \"diamond\" {")
    require.Contains(t, buf.String(), "color = \"red\" label = \"1\"")
    require.Contains(t, buf.String(), n["v"].String())
}
