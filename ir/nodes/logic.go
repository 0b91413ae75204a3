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

type CompareOp uint8

const (
    OpEq CompareOp = iota
    OpLt
    OpBelow
)

func (self CompareOp) String() string {
    switch self {
        case OpEq    : return "eq"
        case OpLt    : return "lt"
        case OpBelow : return "below"
        default      : panic("unreachable")
    }
}

func (self CompareOp) eval(nb uint8, x int64, y int64) bool {
    switch self {
        case OpEq    : return x == y
        case OpLt    : return x < y
        case OpBelow : return uint64(x) & stamp.Mask(nb) < uint64(y) & stamp.Mask(nb)
        default      : panic(fmt.Sprintf("nodes: invalid comparison: %d", self))
    }
}

func (self CompareOp) fold(x stamp.IntegerStamp, y stamp.IntegerStamp) (bool, bool) {
    switch self {
        case OpEq    : return stamp.Equals(x, y)
        case OpLt    : return stamp.LessThan(x, y)
        case OpBelow : return stamp.Below(x, y)
        default      : panic(fmt.Sprintf("nodes: invalid comparison: %d", self))
    }
}

// Compare compares two integers of the same width, producing an i32 0 or 1.
type Compare struct {
    Op CompareOp
}

func (self Compare) String() string               { return "cmp." + self.Op.String() }
func (self Compare) Kind() ir.Kind                { return ir.Floating }
func (self Compare) ValueHash() uint64            { return 0xc0000 + uint64(self.Op) }
func (self Compare) ValueEqual(other ir.Op) bool  { v, ok := other.(Compare); return ok && v.Op == self.Op }

func (self Compare) InferStamp(n *ir.Node) stamp.Stamp {
    if x, ok := intStamp(n.Input(0)); !ok {
        return nil
    } else if y, ok := intStamp(n.Input(1)); !ok {
        return nil
    } else {
        return stamp.Truth(self.Op.fold(x, y))
    }
}

func (self Compare) Canonical(_ ir.Tool, n *ir.Node) *ir.Node {
    g := n.Graph()
    x := n.Input(0)
    y := n.Input(1)

    /* detached node */
    if x == nil || y == nil {
        return n
    }

    /* constant operands */
    cx, okx := constInt(x)
    cy, oky := constInt(y)

    /* both are constants */
    if okx && oky {
        return Int(g, 32, b2i(self.Op.eval(cx.Bits, cx.V, cy.V)))
    }

    /* comparing a value with itself */
    if x == y {
        return Int(g, 32, b2i(self.Op == OpEq))
    }

    /* outcome decided by the operand stamps */
    if sx, ok := intStamp(x); ok {
        if sy, ok := intStamp(y); ok {
            if r, known := self.Op.fold(sx, sy); known {
                return Int(g, 32, b2i(r))
            }
        }
    }

    /* constants go to the right */
    if okx && self.Op == OpEq {
        return g.Unique(self, y, x)
    }

    /* no change */
    return n
}

// Conditional selects its second input if the first is non-zero, its
// third input otherwise.
type Conditional struct{}

func (Conditional) String() string               { return "select" }
func (Conditional) Kind() ir.Kind                { return ir.Floating }
func (Conditional) ValueHash() uint64            { return 0x5e1ec7 }
func (Conditional) ValueEqual(other ir.Op) bool  { _, ok := other.(Conditional); return ok }

func (Conditional) InferStamp(n *ir.Node) stamp.Stamp {
    if t, f := n.Input(1), n.Input(2); t == nil || f == nil {
        return nil
    } else {
        return t.Stamp().Meet(f.Stamp())
    }
}

func (Conditional) Canonical(_ ir.Tool, n *ir.Node) *ir.Node {
    c := n.Input(0)
    t := n.Input(1)
    f := n.Input(2)

    /* detached node */
    if c == nil || t == nil || f == nil {
        return n
    }

    /* constant condition */
    if v, ok := constInt(c); ok {
        if v.V != 0 {
            return t
        } else {
            return f
        }
    }

    /* both sides are the same */
    if t == f {
        return t
    }

    /* c ? 1 : 0 is c itself for boolean conditions */
    if isBoolean(c) && isConst(t, 1) && isConst(f, 0) && isBoolean(t) {
        return c
    }

    /* no change */
    return n
}

// IsNull tests an object reference against null, producing an i32 0 or 1.
type IsNull struct{}

func (IsNull) String() string               { return "isnull" }
func (IsNull) Kind() ir.Kind                { return ir.Floating }
func (IsNull) ValueHash() uint64            { return 0x15001 }
func (IsNull) ValueEqual(other ir.Op) bool  { _, ok := other.(IsNull); return ok }

func (IsNull) fold(n *ir.Node) (bool, bool) {
    if s, ok := objectStamp(n.Input(0)); !ok || s.IsEmpty() {
        return false, false
    } else if s.AlwaysNull {
        return true, true
    } else if s.NonNull {
        return false, true
    } else {
        return false, false
    }
}

func (self IsNull) InferStamp(n *ir.Node) stamp.Stamp {
    return stamp.Truth(self.fold(n))
}

func (self IsNull) Canonical(_ ir.Tool, n *ir.Node) *ir.Node {
    if r, known := self.fold(n); known {
        return Int(n.Graph(), 32, b2i(r))
    } else {
        return n
    }
}

// Pi narrows the stamp of its first input to Type, for as long as its
// anchor (the second input, a fixed node) holds. An empty anchor means the
// narrowing holds everywhere.
type Pi struct {
    Type stamp.Stamp
}

func (self Pi) String() string               { return fmt.Sprintf("pi(%s)", self.Type) }
func (self Pi) Kind() ir.Kind                { return ir.Floating }
func (self Pi) ValueHash() uint64            { return hashString(self.Type.String()) }
func (self Pi) ValueEqual(other ir.Op) bool  { v, ok := other.(Pi); return ok && v.Type.Equal(self.Type) }

func (self Pi) InferStamp(n *ir.Node) stamp.Stamp {
    if v := n.Input(0); v == nil {
        return nil
    } else {
        return v.Stamp().Join(self.Type)
    }
}

func (self Pi) Canonical(_ ir.Tool, n *ir.Node) *ir.Node {
    v := n.Input(0)
    a := n.Input(1)

    /* detached node */
    if v == nil {
        return n
    }

    /* the narrowing adds nothing */
    if s := v.Stamp(); s.Join(self.Type).Equal(s) {
        return v
    }

    /* an always-passing guard does not need to pin us */
    if a != nil {
        if gd, ok := a.Op().(FixedGuard); ok && gd.alwaysPasses(a) {
            return n.Graph().Unique(self, v, nil)
        }
    }

    /* no change */
    return n
}
