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

// Package nodes is a small, runtime-agnostic node set. Every node kind
// exercises at least one capability of the canonicalizer, and between them
// they cover every case of the replacement table.
package nodes

import (
    `fmt`
    `hash/fnv`

    `github.com/cloudwego/gir/ir`
    `github.com/cloudwego/gir/ir/stamp`
)

// Anchor is implemented by fixed ops that floating nodes may be pinned to.
type Anchor interface {
    ir.Op
    anchor()
}

// NewGraph creates a graph with its Start node.
func NewGraph(name string) *ir.Graph {
    g := ir.NewGraph(name)
    g.SetStart(g.Add(Start{}))
    return g
}

// Int returns the unique nb-bit integer constant v.
func Int(g *ir.Graph, nb uint8, v int64) *ir.Node {
    return g.Unique(ConstInt { Bits: nb, V: stamp.Narrow(v, nb) })
}

// Null returns the unique null constant.
func Null(g *ir.Graph) *ir.Node {
    return g.Unique(ConstNull{})
}

// Parameter adds the i-th parameter with the declared stamp s.
func Parameter(g *ir.Graph, i int, s stamp.Stamp) *ir.Node {
    return g.Add(Param { Index: i, Type: s })
}

// ForConstant returns the unique constant node for c.
func ForConstant(g *ir.Graph, c stamp.Constant) *ir.Node {
    switch v := c.(type) {
        case stamp.IntConstant  : return Int(g, v.Bits, v.V)
        case stamp.NullConstant : return Null(g)
        default                 : panic(fmt.Sprintf("nodes: unknown constant: %v", c))
    }
}

// Append links the unlinked fixed-with-next node x after p and returns x,
// for building straight-line code.
func Append(p *ir.Node, x *ir.Node) *ir.Node {
    p.Graph().AddAfterFixed(p, x)
    return x
}

func constInt(n *ir.Node) (ConstInt, bool) {
    if n == nil {
        return ConstInt{}, false
    } else {
        v, ok := n.Op().(ConstInt)
        return v, ok
    }
}

func isConst(n *ir.Node, v int64) bool {
    c, ok := constInt(n)
    return ok && c.V == v
}

func intStamp(n *ir.Node) (stamp.IntegerStamp, bool) {
    if n == nil {
        return stamp.IntegerStamp{}, false
    } else {
        v, ok := n.Stamp().(stamp.IntegerStamp)
        return v, ok
    }
}

func objectStamp(n *ir.Node) (stamp.ObjectStamp, bool) {
    if n == nil {
        return stamp.ObjectStamp{}, false
    } else {
        v, ok := n.Stamp().(stamp.ObjectStamp)
        return v, ok
    }
}

func isBoolean(n *ir.Node) bool {
    s, ok := intStamp(n)
    return ok && s.Bits == 32 && s.Lo >= 0 && s.Hi <= 1
}

func hashString(s string) uint64 {
    h := fnv.New64a()
    _, _ = h.Write([]byte(s))
    return h.Sum64()
}

func b2i(v bool) int64 {
    if v {
        return 1
    } else {
        return 0
    }
}
