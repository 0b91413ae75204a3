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


package canon

import (
    `bytes`
    `fmt`
    `testing`

    `github.com/brianvoe/gofakeit/v6`
    `github.com/cloudwego/gir/internal/opts`
    `github.com/cloudwego/gir/ir`
    `github.com/cloudwego/gir/ir/nodes`
    `github.com/cloudwego/gir/ir/stamp`
    `github.com/davecgh/go-spew/spew`
    `github.com/stretchr/testify/require`
)

var (
    randomUnary   = []nodes.UnaryOp   { nodes.OpNeg, nodes.OpNot }
    randomCompare = []nodes.CompareOp { nodes.OpEq, nodes.OpLt, nodes.OpBelow }
    randomBinary  = []nodes.BinaryOp  { nodes.OpAdd, nodes.OpSub, nodes.OpMul, nodes.OpAnd, nodes.OpOr, nodes.OpXor }
)

type _Param struct {
    Lo int
    Hi int
}

func randomGraph(f *gofakeit.Faker) (*ir.Graph, []_Param) {
    var pool []*ir.Node
    var args []_Param

    /* parameters with small ranges */
    g := nodes.NewGraph("random")
    for i, np := 0, f.Number(1, 3); i < np; i++ {
        lo := f.Number(-20, 20)
        hi := lo + f.Number(0, 40)
        args = append(args, _Param { lo, hi })
        pool = append(pool, nodes.Parameter(g, i, stamp.IntRange(32, int64(lo), int64(hi))))
    }

    /* random operands */
    pick := func() *ir.Node {
        return pool[f.Number(0, len(pool) - 1)]
    }

    /* random values */
    for i, nv := 0, f.Number(4, 16); i < nv; i++ {
        var v *ir.Node
        switch f.Number(0, 5) {
            case 0  : v = i32(g, int64(f.Number(-3, 3)))
            case 1  : v = unary(randomUnary[f.Number(0, len(randomUnary) - 1)], pick())
            case 2  : v = compare(randomCompare[f.Number(0, len(randomCompare) - 1)], pick(), pick())
            case 3  : v = g.Add(nodes.Conditional{}, pick(), pick(), pick())
            default : v = binary(randomBinary[f.Number(0, len(randomBinary) - 1)], pick(), pick())
        }
        pool = append(pool, v)
    }

    /* mix a few values into the result, so most of them stay alive */
    v := pool[len(pool) - 1]
    for i := 0; i < 3; i++ {
        v = binary(nodes.OpXor, v, pick())
    }

    /* return the result */
    returns(g.Start(), v)
    return g, args
}

func b2i(v bool) int32 {
    if v {
        return 1
    } else {
        return 0
    }
}

func evaluate(n *ir.Node, args []int32, memo map[ir.ID]int32) int32 {
    if v, ok := memo[n.ID()]; ok {
        return v
    }

    /* evaluate the inputs on demand */
    var r int32
    var in = func(i int) int32 { return evaluate(n.Input(i), args, memo) }

    /* evaluate the node */
    switch op := n.Op().(type) {
        case nodes.ConstInt : r = int32(op.V)
        case nodes.Param    : r = args[op.Index]
        case nodes.Unary: {
            switch op.Op {
                case nodes.OpNeg : r = -in(0)
                case nodes.OpNot : r = ^in(0)
            }
        }
        case nodes.Binary: {
            switch x, y := in(0), in(1); op.Op {
                case nodes.OpAdd : r = x + y
                case nodes.OpSub : r = x - y
                case nodes.OpMul : r = x * y
                case nodes.OpAnd : r = x & y
                case nodes.OpOr  : r = x | y
                case nodes.OpXor : r = x ^ y
                case nodes.OpShl : r = x << (uint32(y) & 31)
                case nodes.OpSar : r = x >> (uint32(y) & 31)
                case nodes.OpShr : r = int32(uint32(x) >> (uint32(y) & 31))
            }
        }
        case nodes.Compare: {
            switch x, y := in(0), in(1); op.Op {
                case nodes.OpEq    : r = b2i(x == y)
                case nodes.OpLt    : r = b2i(x < y)
                case nodes.OpBelow : r = b2i(uint32(x) < uint32(y))
            }
        }
        case nodes.Conditional: {
            if in(0) != 0 {
                r = in(1)
            } else {
                r = in(2)
            }
        }
        default: {
            panic(fmt.Sprintf("cannot evaluate %s", n))
        }
    }

    /* memorize the result */
    memo[n.ID()] = r
    return r
}

func TestPhase_RandomGraphs(t *testing.T) {
    ph := newTestPhase(func(o *opts.Options) { o.MaxIterationPerNode = 64 })
    for seed := int64(1); seed <= 200; seed++ {
        var buf bytes.Buffer
        var envs [][]int32
        var want []int32

        /* build a graph, with a few inputs */
        f := gofakeit.New(seed)
        g, args := randomGraph(f)
        for i := 0; i < 8; i++ {
            env := make([]int32, len(args))
            for j, p := range args {
                env[j] = int32(f.Number(p.Lo, p.Hi))
            }
            envs = append(envs, env)
        }

        /* evaluate the original graph */
        r := g.Start().Next()
        require.NoError(t, ir.WriteDot(&buf, g))
        for _, env := range envs {
            want = append(want, evaluate(r.Input(0), env, map[ir.ID]int32{}))
        }

        /* canonicalize and evaluate again */
        require.NoError(t, ph.Apply(g), "seed %d\n%s", seed, buf.String())
        require.Equal(t, r, g.Start().Next(), "seed %d", seed)
        for i, env := range envs {
            got := evaluate(r.Input(0), env, map[ir.ID]int32{})
            require.Equal(t, want[i], got, "seed %d, args %s\n%s", seed, spew.Sdump(env), buf.String())
        }

        /* no duplicated values are left behind */
        for _, n := range g.Nodes() {
            if _, ok := n.Op().(ir.ValueNumberable); ok && !n.IsLeaf() {
                require.Nil(t, g.FindDuplicate(n), "seed %d, node %s", seed, n)
            }
        }

        /* a second run changes nothing */
        nc := g.NodeCount()
        cn := CanonicalizedNodes.Load()
        gh := GVNHits.Load()
        kn := KilledNodes.Load()
        sc := StampChanged.Load()
        require.NoError(t, ph.Apply(g), "seed %d", seed)
        require.Equal(t, nc, g.NodeCount(), "seed %d", seed)
        require.Equal(t, cn, CanonicalizedNodes.Load(), "seed %d", seed)
        require.Equal(t, gh, GVNHits.Load(), "seed %d", seed)
        require.Equal(t, kn, KilledNodes.Load(), "seed %d", seed)
        require.Equal(t, sc, StampChanged.Load(), "seed %d", seed)
    }
}
