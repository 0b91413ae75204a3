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

package ir

func checkKind(n *Node, kind Kind, what string) {
    if n == nil {
        panic(Violation(nil, "%s must not be nil", what))
    } else if n.dead {
        panic(Violation(n, "%s is deleted", what))
    } else if n.Kind() != kind {
        panic(Violation(n, "%s must be %s, not %s", what, kind, n.Kind()))
    }
}

func checkUnlinked(n *Node) {
    if n.pred != Nil {
        panic(Violation(n, "node is already linked into the control flow"))
    } else if n.Kind() == FixedWithNext && n.succ[0] != Nil {
        panic(Violation(n, "node already has a successor"))
    }
}

// RemoveFloating deletes an unused floating node.
func (self *Graph) RemoveFloating(n *Node) {
    checkKind(n, Floating, "node")
    n.SafeDelete()
}

// ReplaceFloating redirects all usages of a floating node to r and
// deletes it.
func (self *Graph) ReplaceFloating(n *Node, r *Node) {
    checkKind(n, Floating, "node")
    Invariant(r != nil && r.IsAlive(), n, "replacement must be a live node")
    n.ReplaceAtUsages(r)
    n.SafeDelete()
}

func unlinkFixed(n *Node) {
    next := n.Next()
    n.SetNext(nil)
    n.ReplaceAtPredecessor(next)
}

// RemoveFixed unlinks an unused fixed-with-next node from the control
// flow and deletes it.
func (self *Graph) RemoveFixed(n *Node) {
    checkKind(n, FixedWithNext, "node")
    Invariant(n.HasNoUsages(), n, "cannot remove a fixed node with %d usages", n.UsageCount())
    unlinkFixed(n)
    n.SafeDelete()
}

// ReplaceFixedWithFixed puts the unlinked node r in place of n, moving
// all usages over, and deletes n.
func (self *Graph) ReplaceFixedWithFixed(n *Node, r *Node) {
    checkKind(n, FixedWithNext, "node")
    checkKind(r, FixedWithNext, "replacement")
    checkUnlinked(r)
    next := n.Next()
    n.SetNext(nil)
    r.SetNext(next)
    n.ReplaceAndDelete(r)
}

// ReplaceFixedWithFloating unlinks n, redirects its usages to the
// floating node r, and deletes it.
func (self *Graph) ReplaceFixedWithFloating(n *Node, r *Node) {
    checkKind(n, FixedWithNext, "node")
    checkKind(r, Floating, "replacement")
    unlinkFixed(n)
    n.ReplaceAtUsages(r)
    n.SafeDelete()
}

// AddAfterFixed links the unlinked node x right after n.
func (self *Graph) AddAfterFixed(n *Node, x *Node) {
    checkKind(n, FixedWithNext, "node")
    checkKind(x, FixedWithNext, "new node")
    checkUnlinked(x)
    next := n.Next()
    n.SetNext(nil)
    x.SetNext(next)
    n.SetNext(x)
}

// AddBeforeFixed links the unlinked node x right before n.
func (self *Graph) AddBeforeFixed(n *Node, x *Node) {
    Invariant(n != nil && n.IsAlive() && n.IsFixed(), n, "node must be a live fixed node")
    Invariant(n.pred != Nil, n, "node has no predecessor")
    checkKind(x, FixedWithNext, "new node")
    checkUnlinked(x)
    n.ReplaceAtPredecessor(x)
    x.SetNext(n)
}

func checkSplit(n *Node, survivor *Node) {
    Invariant(n != nil && n.IsAlive() && n.IsSplit(), n, "node must be a live control split")
    Invariant(n.HasNoUsages(), n, "cannot remove a control split with usages")
    Invariant(survivor != nil && n.SuccessorIndex(survivor) >= 0, n, "%v is not a successor", survivor)
}

// RemoveSplit replaces a control split with its surviving successor. All
// other successor slots must already be empty.
func (self *Graph) RemoveSplit(n *Node, survivor *Node) {
    checkSplit(n, survivor)

    /* every other branch must be gone */
    for _, s := range n.succ {
        if s != Nil && s != survivor.id {
            panic(Violation(n, "branch %s is still attached", self.nodes[s]))
        }
    }

    /* replace the split */
    n.ClearSuccessors()
    n.ReplaceAtPredecessor(survivor)
    n.SafeDelete()
}

// RemoveSplitPropagate replaces a control split with its surviving
// successor and kills the control flow of every other branch.
func (self *Graph) RemoveSplitPropagate(n *Node, survivor *Node) {
    checkSplit(n, survivor)
    succ := n.Successors()

    /* replace the split */
    n.ClearSuccessors()
    n.ReplaceAtPredecessor(survivor)
    n.SafeDelete()

    /* kill the other branches */
    for _, s := range succ {
        if s != survivor && s.IsAlive() {
            KillCFG(s)
        }
    }
}
