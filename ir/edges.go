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

import (
    `golang.org/x/exp/slices`
)

func (self *Node) checkAlive() {
    if self.dead {
        panic(Violation(self, "node is deleted"))
    }
}

func (self *Node) checkEdge(v *Node) ID {
    if v == nil {
        return Nil
    } else if v.g != self.g {
        panic(Violation(v, "node belongs to another graph"))
    } else if v.dead {
        panic(Violation(v, "cannot link a deleted node"))
    } else {
        return v.id
    }
}

func (self *Node) checkReplacement(other *Node) ID {
    if other == self {
        panic(Violation(self, "cannot replace a node with itself"))
    } else {
        return self.checkEdge(other)
    }
}

func (self *Node) removeUsage(u ID) bool {
    if i := slices.Index(self.uses, u); i < 0 {
        return false
    } else {
        self.uses = slices.Delete(self.uses, i, i + 1)
        return true
    }
}

func (self *Node) dropInput(v ID) {
    p := self.g.nodes[v]
    Invariant(p.removeUsage(self.id), p, "usage list out of sync with %s", self)

    /* notify the change tracker if this was the last usage */
    if len(p.uses) == 0 {
        self.g.notify(EventUsagesDroppedZero, p)
    }
}

func (self *Node) updateUsages(old ID, new ID) {
    if old != new {
        if old != Nil {
            self.dropInput(old)
        }
        if self.g.notify(EventInputChanged, self); new != Nil {
            self.g.nodes[new].uses = append(self.g.nodes[new].uses, self.id)
        }
    }
}

func (self *Node) updatePredecessor(old ID, new ID) {
    if old == new {
        return
    }

    /* a node can only have one predecessor */
    if new != Nil {
        if p := self.g.nodes[new]; p.pred != Nil {
            panic(Violation(p, "node already has predecessor %s", self.g.nodes[p.pred]))
        }
    }

    /* unlink the old successor */
    if old != Nil {
        p := self.g.nodes[old]
        Invariant(p.pred == self.id, p, "predecessor out of sync with %s", self)
        p.pred = Nil
    }

    /* link the new one */
    if new != Nil {
        self.g.nodes[new].pred = self.id
    }
}

// SetInput sets the i-th input slot, nil clears it.
func (self *Node) SetInput(i int, v *Node) {
    self.checkAlive()
    id := self.checkEdge(v)
    old := self.ins[i]
    self.ins[i] = id
    self.updateUsages(old, id)
}

// ReplaceFirstInput replaces the first occurrence of old in the inputs.
func (self *Node) ReplaceFirstInput(old *Node, new *Node) bool {
    if i := slices.Index(self.ins, old.id); i < 0 {
        return false
    } else {
        self.SetInput(i, new)
        return true
    }
}

// SetSuccessor sets the i-th successor slot, nil clears it.
func (self *Node) SetSuccessor(i int, s *Node) {
    self.checkAlive()
    id := self.checkEdge(s)
    old := self.succ[i]
    self.updatePredecessor(old, id)
    self.succ[i] = id
}

func (self *Node) SetNext(s *Node) {
    Invariant(self.Kind() == FixedWithNext, self, "not a fixed-with-next node")
    self.SetSuccessor(0, s)
}

// ReplaceFirstSuccessor replaces the first occurrence of old in the successors.
func (self *Node) ReplaceFirstSuccessor(old *Node, new *Node) bool {
    if i := slices.Index(self.succ, old.id); i < 0 {
        return false
    } else {
        self.SetSuccessor(i, new)
        return true
    }
}

// ReplaceAtUsages redirects every usage of this node to other. A nil
// other clears the corresponding input slots.
func (self *Node) ReplaceAtUsages(other *Node) {
    self.checkAlive()
    id := self.checkReplacement(other)
    uses := self.uses

    /* rewrite one input slot per usage entry */
    for self.uses = nil; len(uses) != 0; uses = uses[1:] {
        u := self.g.nodes[uses[0]]
        i := slices.Index(u.ins, self.id)

        /* the usage multiset mirrors the input lists */
        if i < 0 {
            panic(Violation(u, "input list out of sync with %s", self))
        }

        /* update the edge */
        u.ins[i] = id
        self.g.notify(EventInputChanged, u)

        /* register the new usage */
        if other != nil {
            other.uses = append(other.uses, u.id)
        }
    }
}

// ReplaceAtPredecessor makes other take this node's place in its
// predecessor's successor slot.
func (self *Node) ReplaceAtPredecessor(other *Node) {
    self.checkAlive()
    id := self.checkReplacement(other)

    /* nothing to do for unlinked nodes */
    if self.pred == Nil {
        return
    }

    /* find our slot in the predecessor */
    p := self.g.nodes[self.pred]
    i := slices.Index(p.succ, self.id)

    /* the predecessor must agree */
    if i < 0 {
        panic(Violation(p, "successor list out of sync with %s", self))
    }

    /* relink */
    p.updatePredecessor(self.id, id)
    p.succ[i] = id
}

// ReplaceAndDelete replaces this node with other at every usage and at
// the predecessor, then deletes it.
func (self *Node) ReplaceAndDelete(other *Node) {
    Invariant(other != nil, self, "replacement must not be nil")
    self.checkReplacement(other)
    self.ClearInputs()
    self.ClearSuccessors()
    self.ReplaceAtUsages(other)
    self.ReplaceAtPredecessor(other)
    self.SafeDelete()
}

// ClearInputs empties every input slot.
func (self *Node) ClearInputs() {
    self.checkAlive()
    for i, v := range self.ins {
        if v != Nil {
            self.ins[i] = Nil
            self.dropInput(v)
        }
    }
}

// ClearSuccessors empties every successor slot.
func (self *Node) ClearSuccessors() {
    self.checkAlive()
    for i, s := range self.succ {
        if s != Nil {
            self.succ[i] = Nil
            self.g.nodes[s].pred = Nil
        }
    }
}

// SafeDelete deletes a node that has no usages and no predecessor.
func (self *Node) SafeDelete() {
    self.checkAlive()
    Invariant(len(self.uses) == 0, self, "cannot delete a node with %d usages", len(self.uses))
    Invariant(self.pred == Nil, self, "cannot delete a node that still has a predecessor")
    self.ClearInputs()
    self.ClearSuccessors()
    self.dead = true
    self.g.deleted++
}
