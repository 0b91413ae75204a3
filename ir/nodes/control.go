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
)

// Start is the entry of the control flow.
type Start struct{}

func (Start) String() string  { return "start" }
func (Start) Kind() ir.Kind   { return ir.FixedWithNext }
func (Start) anchor()         {}

// Begin starts a control flow region, typically a branch of an If.
type Begin struct{}

func (Begin) String() string  { return "begin" }
func (Begin) Kind() ir.Kind   { return ir.FixedWithNext }
func (Begin) anchor()         {}

func previousAnchor(p *ir.Node) *ir.Node {
    for ; p != nil; p = p.Predecessor() {
        if _, ok := p.Op().(Anchor); ok {
            return p
        }
    }
    return nil
}

// Simplify removes a begin node that does not start a branch. Nodes
// anchored to it move to the closest anchor above.
func (Begin) Simplify(_ ir.Tool, n *ir.Node) {
    if p := n.Predecessor(); p != nil && !p.IsSplit() {
        if !n.HasNoUsages() {
            n.ReplaceAtUsages(previousAnchor(p))
        }
        n.Graph().RemoveFixed(n)
    }
}

// If is a two-way branch on an integer condition, taking the first
// successor if it is non-zero.
type If struct{}

func (If) String() string        { return "if" }
func (If) Kind() ir.Kind         { return ir.Fixed }
func (If) SuccessorCount() int   { return 2 }

func (If) Simplify(tool ir.Tool, n *ir.Node) {
    c := n.Input(0)
    t := n.Successor(0)
    f := n.Successor(1)

    /* detached node */
    if c == nil || t == nil || f == nil {
        return
    }

    /* constant condition, keep only the taken branch */
    if v, ok := constInt(c); ok {
        if v.V == 0 {
            t, f = f, t
        }
        tool.DeleteBranch(f)
        tool.AddToWorkList(t)
        n.Graph().RemoveSplit(n, t)
        return
    }

    /* if (x == 0) is if (x) with both branches swapped */
    if v, ok := c.Op().(Compare); ok && v.Op == OpEq && isConst(c.Input(1), 0) && isBoolean(c.Input(0)) {
        n.SetSuccessor(0, nil)
        n.SetSuccessor(1, nil)
        n.SetSuccessor(0, f)
        n.SetSuccessor(1, t)
        n.SetInput(0, c.Input(0))
        tool.RemoveIfUnused(c)
    }
}

// Return leaves the compilation unit, with an optional value.
type Return struct{}

func (Return) String() string  { return "return" }
func (Return) Kind() ir.Kind   { return ir.ControlSink }

// Deopt transfers control back to the runtime.
type Deopt struct {
    Reason string
}

func (self Deopt) String() string  { return fmt.Sprintf("deopt(%s)", self.Reason) }
func (self Deopt) Kind() ir.Kind   { return ir.ControlSink }

// FixedGuard continues if its condition is non-zero (zero when Negated),
// deoptimizes otherwise.
type FixedGuard struct {
    Negated bool
    Reason  string
}

func (self FixedGuard) String() string {
    if self.Negated {
        return fmt.Sprintf("guard.not(%s)", self.Reason)
    } else {
        return fmt.Sprintf("guard(%s)", self.Reason)
    }
}

func (FixedGuard) Kind() ir.Kind  { return ir.FixedWithNext }
func (FixedGuard) anchor()        {}

func (self FixedGuard) alwaysPasses(n *ir.Node) bool {
    v, ok := constInt(n.Input(0))
    return ok && (v.V != 0) != self.Negated
}

func (self FixedGuard) Canonical(_ ir.Tool, n *ir.Node) *ir.Node {
    g := n.Graph()
    c := n.Input(0)

    /* detached node */
    if c == nil {
        return n
    }

    /* constant condition */
    if v, ok := constInt(c); ok {
        if (v.V != 0) == self.Negated {
            return g.Add(Deopt { self.Reason })
        } else if n.HasNoUsages() {
            return nil
        } else {
            return n
        }
    }

    /* guard(x == 0) is guard.not(x) */
    if v, ok := c.Op().(Compare); ok && v.Op == OpEq && isConst(c.Input(1), 0) && isBoolean(c.Input(0)) {
        return g.Add(FixedGuard { !self.Negated, self.Reason }, c.Input(0))
    }

    /* no change */
    return n
}
