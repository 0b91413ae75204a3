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
    `fmt`

    `github.com/cloudwego/gir/ir/stamp`
)

// ID is the stable arena index of a node. IDs are never reused.
type ID int32

// Nil is the null edge.
const Nil ID = -1

// Node is a vertex of the graph. All edges are stored as arena IDs, the
// accessors below resolve them through the owning graph.
type Node struct {
    id    ID
    g     *Graph
    op    Op
    ins   []ID
    succ  []ID
    pred  ID
    uses  []ID
    stamp stamp.Stamp
    dead  bool
}

func (self *Node) String() string {
    return fmt.Sprintf("%d|%s", self.id, self.op)
}

func (self *Node) ID() ID               { return self.id }
func (self *Node) Op() Op               { return self.op }
func (self *Node) Kind() Kind           { return self.op.Kind() }
func (self *Node) Graph() *Graph        { return self.g }
func (self *Node) Stamp() stamp.Stamp   { return self.stamp }
func (self *Node) IsAlive() bool        { return !self.dead }
func (self *Node) IsDeleted() bool      { return self.dead }
func (self *Node) IsFloating() bool     { return self.op.Kind() == Floating }
func (self *Node) IsFixed() bool        { return self.op.Kind() != Floating }
func (self *Node) IsControlSink() bool  { return self.op.Kind() == ControlSink }

// IsLeaf reports whether the node has no inputs.
func (self *Node) IsLeaf() bool {
    for _, id := range self.ins {
        if id != Nil {
            return false
        }
    }
    return true
}

// IsValue reports whether the node produces a value, i.e. its stamp is not void.
func (self *Node) IsValue() bool {
    return !stamp.IsVoid(self.stamp)
}

// IsConstant reports whether the node is a constant producer.
func (self *Node) IsConstant() bool {
    _, ok := self.op.(ConstantOp)
    return ok
}

// IsSplit reports whether the node is a fixed node with a declared
// successor count other than FixedWithNext's single successor.
func (self *Node) IsSplit() bool {
    _, ok := self.op.(Splitter)
    return ok && self.op.Kind() == Fixed
}

// SetStamp overrides the node's stamp, used by builders declaring
// parameter or anchor stamps.
func (self *Node) SetStamp(s stamp.Stamp) {
    self.stamp = s
}

// InferStamp recomputes the stamp of a StampInferrer node and reports
// whether it changed.
func (self *Node) InferStamp() bool {
    if p, ok := self.op.(StampInferrer); !ok {
        return false
    } else if s := p.InferStamp(self); s == nil || (self.stamp != nil && s.Equal(self.stamp)) {
        return false
    } else {
        self.stamp = s
        return true
    }
}

/** Inputs **/

func (self *Node) InputCount() int {
    return len(self.ins)
}

// Input returns the i-th input, nil for an empty slot.
func (self *Node) Input(i int) *Node {
    return self.g.node(self.ins[i])
}

// Inputs returns the non-empty inputs in slot order.
func (self *Node) Inputs() []*Node {
    ret := make([]*Node, 0, len(self.ins))
    for _, id := range self.ins {
        if id != Nil {
            ret = append(ret, self.g.nodes[id])
        }
    }
    return ret
}

// HasInput reports whether v is among the node's inputs.
func (self *Node) HasInput(v *Node) bool {
    for _, id := range self.ins {
        if id == v.id {
            return true
        }
    }
    return false
}

/** Usages **/

// Usages returns a snapshot of the usage multiset. A user that refers to
// this node from k input slots appears k times.
func (self *Node) Usages() []*Node {
    ret := make([]*Node, len(self.uses))
    for i, id := range self.uses {
        ret[i] = self.g.nodes[id]
    }
    return ret
}

func (self *Node) UsageCount() int {
    return len(self.uses)
}

func (self *Node) HasNoUsages() bool {
    return len(self.uses) == 0
}

/** Control Flow **/

func (self *Node) SuccessorCount() int {
    return len(self.succ)
}

// Successor returns the i-th successor, nil for an empty slot.
func (self *Node) Successor(i int) *Node {
    return self.g.node(self.succ[i])
}

// Successors returns the non-empty successors in slot order.
func (self *Node) Successors() []*Node {
    ret := make([]*Node, 0, len(self.succ))
    for _, id := range self.succ {
        if id != Nil {
            ret = append(ret, self.g.nodes[id])
        }
    }
    return ret
}

// SuccessorIndex returns the slot holding s, or -1.
func (self *Node) SuccessorIndex(s *Node) int {
    for i, id := range self.succ {
        if id == s.id {
            return i
        }
    }
    return -1
}

// Next returns the control successor of a FixedWithNext node.
func (self *Node) Next() *Node {
    Invariant(self.Kind() == FixedWithNext, self, "not a fixed-with-next node")
    return self.g.node(self.succ[0])
}

func (self *Node) Predecessor() *Node {
    return self.g.node(self.pred)
}
