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

package nodes

import (
    `fmt`

    `github.com/cloudwego/gir/ir`
    `github.com/cloudwego/gir/ir/stamp`
)

type (
    UnaryOp  uint8
    BinaryOp uint8
)

const (
    OpNeg UnaryOp = iota
    OpNot
)

const (
    OpAdd BinaryOp = iota
    OpSub
    OpMul
    OpAnd
    OpOr
    OpXor
    OpShl
    OpSar
    OpShr
)

func (self UnaryOp) String() string {
    switch self {
        case OpNeg : return "neg"
        case OpNot : return "not"
        default    : panic("unreachable")
    }
}

func (self UnaryOp) eval(nb uint8, v int64) int64 {
    switch self {
        case OpNeg : return stamp.Narrow(-v, nb)
        case OpNot : return stamp.Narrow(^v, nb)
        default    : panic(fmt.Sprintf("nodes: invalid unary operator: %d", self))
    }
}

func (self UnaryOp) stamp(x stamp.IntegerStamp) stamp.IntegerStamp {
    switch self {
        case OpNeg : return stamp.Neg(x)
        case OpNot : return stamp.Not(x)
        default    : panic(fmt.Sprintf("nodes: invalid unary operator: %d", self))
    }
}

func (self BinaryOp) String() string {
    switch self {
        case OpAdd : return "add"
        case OpSub : return "sub"
        case OpMul : return "mul"
        case OpAnd : return "and"
        case OpOr  : return "or"
        case OpXor : return "xor"
        case OpShl : return "shl"
        case OpSar : return "sar"
        case OpShr : return "shr"
        default    : panic("unreachable")
    }
}

// IsCommutative reports whether x op y == y op x. Every commutative
// operator here is associative as well.
func (self BinaryOp) IsCommutative() bool {
    switch self {
        case OpAdd, OpMul, OpAnd, OpOr, OpXor : return true
        default                               : return false
    }
}

func (self BinaryOp) eval(nb uint8, x int64, y int64) int64 {
    switch s := uint(y) & uint(nb - 1); self {
        case OpAdd : return stamp.Narrow(x + y, nb)
        case OpSub : return stamp.Narrow(x - y, nb)
        case OpMul : return stamp.Narrow(x * y, nb)
        case OpAnd : return stamp.Narrow(x & y, nb)
        case OpOr  : return stamp.Narrow(x | y, nb)
        case OpXor : return stamp.Narrow(x ^ y, nb)
        case OpShl : return stamp.Narrow(x << s, nb)
        case OpSar : return stamp.Narrow(x >> s, nb)
        case OpShr : return stamp.Narrow(int64((uint64(x) & stamp.Mask(nb)) >> s), nb)
        default    : panic(fmt.Sprintf("nodes: invalid binary operator: %d", self))
    }
}

func (self BinaryOp) stamp(x stamp.IntegerStamp, y stamp.IntegerStamp) stamp.IntegerStamp {
    switch self {
        case OpAdd : return stamp.Add(x, y)
        case OpSub : return stamp.Sub(x, y)
        case OpMul : return stamp.Mul(x, y)
        case OpAnd : return stamp.And(x, y)
        case OpOr  : return stamp.Or(x, y)
        case OpXor : return stamp.Xor(x, y)
        case OpShl : return stamp.Shl(x, y)
        case OpSar : return stamp.Sar(x, y)
        case OpShr : return stamp.Shr(x, y)
        default    : panic(fmt.Sprintf("nodes: invalid binary operator: %d", self))
    }
}

// Unary is a single-operand integer operation.
type Unary struct {
    Op UnaryOp
}

func (self Unary) String() string               { return self.Op.String() }
func (self Unary) Kind() ir.Kind                { return ir.Floating }
func (self Unary) ValueHash() uint64            { return 0x75000 + uint64(self.Op) }
func (self Unary) ValueEqual(other ir.Op) bool  { v, ok := other.(Unary); return ok && v.Op == self.Op }

func (self Unary) InferStamp(n *ir.Node) stamp.Stamp {
    if x, ok := intStamp(n.Input(0)); !ok {
        return nil
    } else {
        return self.Op.stamp(x)
    }
}

func (self Unary) Canonical(_ ir.Tool, n *ir.Node) *ir.Node {
    x := n.Input(0)
    g := n.Graph()

    /* detached node */
    if x == nil {
        return n
    }

    /* constant folding */
    if c, ok := constInt(x); ok {
        return Int(g, c.Bits, self.Op.eval(c.Bits, c.V))
    }

    /* the operation is its own inverse */
    if v, ok := x.Op().(Unary); ok && v.Op == self.Op {
        return x.Input(0)
    }

    /* -(a - b) == b - a */
    if v, ok := x.Op().(Binary); ok && self.Op == OpNeg && v.Op == OpSub {
        return g.Unique(Binary { OpSub }, x.Input(1), x.Input(0))
    }

    /* no change */
    return n
}

// Binary is a two-operand integer operation. Both operands have the same
// width, shift amounts are taken modulo the width.
type Binary struct {
    Op BinaryOp
}

func (self Binary) String() string               { return self.Op.String() }
func (self Binary) Kind() ir.Kind                { return ir.Floating }
func (self Binary) ValueHash() uint64            { return 0xb1000 + uint64(self.Op) }
func (self Binary) ValueEqual(other ir.Op) bool  { v, ok := other.(Binary); return ok && v.Op == self.Op }

func (self Binary) InferStamp(n *ir.Node) stamp.Stamp {
    if x, ok := intStamp(n.Input(0)); !ok {
        return nil
    } else if y, ok := intStamp(n.Input(1)); !ok {
        return nil
    } else {
        return self.Op.stamp(x, y)
    }
}

func (self Binary) identity(g *ir.Graph, nb uint8, x *ir.Node, c int64) *ir.Node {
    switch self.Op {
        case OpAdd, OpSub, OpXor: {
            if c == 0 {
                return x
            }
        }

        /* shift by zero */
        case OpShl, OpSar, OpShr: {
            if uint(c) & uint(nb - 1) == 0 {
                return x
            }
        }

        /* x * 1, x * 0 */
        case OpMul: {
            if c == 1 {
                return x
            } else if c == 0 {
                return Int(g, nb, 0)
            }
        }

        /* x & -1, x & 0 */
        case OpAnd: {
            if c == -1 {
                return x
            } else if c == 0 {
                return Int(g, nb, 0)
            }
        }

        /* x | 0, x | -1 */
        case OpOr: {
            if c == 0 {
                return x
            } else if c == -1 {
                return Int(g, nb, -1)
            }
        }
    }
    return nil
}

func (self Binary) Canonical(_ ir.Tool, n *ir.Node) *ir.Node {
    g := n.Graph()
    x := n.Input(0)
    y := n.Input(1)

    /* operand width */
    s, ok := intStamp(n)
    if !ok || x == nil || y == nil {
        return n
    }

    /* constant operands */
    cx, okx := constInt(x)
    cy, oky := constInt(y)

    /* both are constants, fold the operation */
    if okx && oky {
        return Int(g, s.Bits, self.Op.eval(s.Bits, cx.V, cy.V))
    }

    /* constants go to the right */
    if okx && self.Op.IsCommutative() {
        return g.Unique(self, y, x)
    }

    /* algebraic identities */
    if oky {
        if r := self.identity(g, s.Bits, x, cy.V); r != nil {
            return r
        }
    }

    /* same operands */
    if x == y {
        switch self.Op {
            case OpSub, OpXor : return Int(g, s.Bits, 0)
            case OpAnd, OpOr  : return x
        }
    }

    /* x - c == x + (-c) */
    if oky && self.Op == OpSub {
        return g.Unique(Binary { OpAdd }, x, Int(g, s.Bits, -cy.V))
    }

    /* (a op c1) op c2 == a op (c1 op c2) */
    if oky && self.Op.IsCommutative() {
        if v, ok := x.Op().(Binary); ok && v.Op == self.Op {
            if c, ok := constInt(x.Input(1)); ok {
                return g.Unique(self, x.Input(0), Int(g, s.Bits, self.Op.eval(s.Bits, c.V, cy.V)))
            }
        }
    }

    /* no change */
    return n
}
