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
    `math`

    `github.com/cloudwego/gir/ir`
    `github.com/cloudwego/gir/ir/stamp`
)

const (
    NullCheck = "null-check"
)

func isAlwaysNull(n *ir.Node) bool {
    s, ok := objectStamp(n)
    return ok && s.AlwaysNull && !s.NonNull
}

// Load reads a field of an object. The object is assumed to be null
// checked already, unless it is provably null.
type Load struct {
    Field string
    Type  stamp.Stamp
}

func (self Load) String() string                      { return fmt.Sprintf("load.%s", self.Field) }
func (self Load) Kind() ir.Kind                       { return ir.FixedWithNext }
func (self Load) InferStamp(_ *ir.Node) stamp.Stamp   { return self.Type }

func (self Load) same(p *ir.Node, obj *ir.Node) bool {
    v, ok := p.Op().(Load)
    return ok && v.Field == self.Field && v.Type.Equal(self.Type) && p.Input(0) == obj
}

func (self Load) Canonical(tool ir.Tool, n *ir.Node) *ir.Node {
    g := n.Graph()
    o := n.Input(0)

    /* reading through null */
    if isAlwaysNull(o) {
        return g.Add(Deopt { NullCheck })
    }

    /* unused reads, and reads right after an identical read */
    if tool.CanonicalizeReads() {
        if n.HasNoUsages() {
            return nil
        } else if p := n.Predecessor(); p != nil && self.same(p, o) {
            return p
        }
    }

    /* no change */
    return n
}

// Store writes a value into a field of an object.
type Store struct {
    Field string
}

func (self Store) String() string  { return fmt.Sprintf("store.%s", self.Field) }
func (self Store) Kind() ir.Kind   { return ir.FixedWithNext }

func (self Store) Canonical(_ ir.Tool, n *ir.Node) *ir.Node {
    if isAlwaysNull(n.Input(0)) {
        return n.Graph().Add(Deopt { NullCheck })
    } else {
        return n
    }
}

// NewArray allocates an array, its only input is the length.
type NewArray struct{}

func (NewArray) String() string                      { return "newarray" }
func (NewArray) Kind() ir.Kind                       { return ir.FixedWithNext }
func (NewArray) InferStamp(_ *ir.Node) stamp.Stamp   { return stamp.ObjectNonNull("array", true) }

// Simplify removes allocations nobody uses, as long as they cannot fail.
func (NewArray) Simplify(tool ir.Tool, n *ir.Node) {
    if s, ok := intStamp(n.Input(0)); ok && n.HasNoUsages() && s.IsPositive() {
        v := n.Input(0)
        n.Graph().RemoveFixed(n)
        tool.RemoveIfUnused(v)
    }
}

// ArrayLength reads the length of an array.
type ArrayLength struct{}

func (ArrayLength) String() string  { return "arraylength" }
func (ArrayLength) Kind() ir.Kind   { return ir.FixedWithNext }

func (ArrayLength) InferStamp(_ *ir.Node) stamp.Stamp {
    return stamp.IntRange(32, 0, math.MaxInt32)
}

func (ArrayLength) Canonical(_ ir.Tool, n *ir.Node) *ir.Node {
    a := n.Input(0)
    g := n.Graph()

    /* detached node */
    if a == nil {
        return n
    }

    /* reading through null */
    if isAlwaysNull(a) {
        return g.Add(Deopt { NullCheck })
    }

    /* length of a fresh allocation */
    if _, ok := a.Op().(NewArray); ok {
        if s, ok := intStamp(a.Input(0)); ok && s.Bits == 32 {
            return a.Input(0)
        }
    }

    /* no change */
    return n
}
