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
    `reflect`

    `github.com/cloudwego/gir/ir/stamp`
    `golang.org/x/exp/slices`
)

type _LeafKey struct {
    t reflect.Type
    h uint64
}

// Graph owns an arena of nodes. It is not safe for concurrent use.
type Graph struct {
    Name    string
    nodes   []*Node
    start   ID
    deleted int
    leaves  map[_LeafKey][]ID
    track   bool
    events  []Event
}

func NewGraph(name string) *Graph {
    return &Graph {
        Name   : name,
        start  : Nil,
        leaves : make(map[_LeafKey][]ID),
    }
}

func (self *Graph) node(id ID) *Node {
    if id == Nil {
        return nil
    } else {
        return self.nodes[id]
    }
}

// Node resolves an ID, returning nil for Nil. Deleted nodes are returned
// as well, check IsAlive before use.
func (self *Graph) Node(id ID) *Node {
    if id < 0 || int(id) >= len(self.nodes) {
        return nil
    } else {
        return self.nodes[id]
    }
}

func (self *Graph) Start() *Node {
    return self.node(self.start)
}

func (self *Graph) SetStart(n *Node) {
    Invariant(n.g == self && n.IsAlive(), n, "start node must be a live node of this graph")
    Invariant(n.IsFixed(), n, "start node must be fixed")
    self.start = n.id
}

// Mark returns the high-water mark of node IDs. Nodes created after the
// call have IDs >= the mark.
func (self *Graph) Mark() int {
    return len(self.nodes)
}

// NewNodes returns the live nodes created since mark.
func (self *Graph) NewNodes(mark int) []*Node {
    var ret []*Node
    for _, n := range self.nodes[mark:] {
        if !n.dead {
            ret = append(ret, n)
        }
    }
    return ret
}

// Nodes returns all live nodes in creation order.
func (self *Graph) Nodes() []*Node {
    return self.NewNodes(0)
}

// NodeCount returns the number of live nodes.
func (self *Graph) NodeCount() int {
    return len(self.nodes) - self.deleted
}

func (self *Graph) checkInputs(inputs []*Node) []ID {
    ret := make([]ID, len(inputs))
    for i, v := range inputs {
        if v == nil {
            ret[i] = Nil
        } else if v.g != self {
            panic(Violation(v, "input belongs to another graph"))
        } else if v.dead {
            panic(Violation(v, "input is deleted"))
        } else {
            ret[i] = v.id
        }
    }
    return ret
}

func (self *Graph) register(op Op, ins []ID) *Node {
    n := &Node {
        id    : ID(len(self.nodes)),
        g     : self,
        op    : op,
        ins   : ins,
        pred  : Nil,
        stamp : stamp.Void,
    }

    /* allocate successor slots */
    if ns := successorCount(op); ns != 0 {
        n.succ = make([]ID, ns)
        for i := range n.succ {
            n.succ[i] = Nil
        }
    }

    /* register usages */
    for _, v := range ins {
        if v != Nil {
            self.nodes[v].uses = append(self.nodes[v].uses, n.id)
        }
    }

    /* compute the initial stamp */
    self.nodes = append(self.nodes, n)
    n.InferStamp()
    return n
}

// Add creates a node with the given op and inputs. A nil input is an
// empty slot.
func (self *Graph) Add(op Op, inputs ...*Node) *Node {
    checkOp(op)
    return self.register(op, self.checkInputs(inputs))
}

// Unique returns an existing node structurally identical to op(inputs...)
// if there is one, otherwise it adds a new node.
func (self *Graph) Unique(op ValueNumberable, inputs ...*Node) *Node {
    checkOp(op)
    ins := self.checkInputs(inputs)

    /* look for an existing node first */
    if m := self.findDuplicate(op, ins, nil); m != nil {
        return m
    }

    /* leaves go into the cache */
    n := self.register(op, ins)
    if n.IsLeaf() {
        self.cacheLeaf(op, n)
    }
    return n
}

// FindDuplicate returns a live node other than n that is structurally
// identical to it, or nil. Only value-numberable nodes have duplicates.
func (self *Graph) FindDuplicate(n *Node) *Node {
    if vn, ok := n.op.(ValueNumberable); !ok || n.dead {
        return nil
    } else if m := self.findDuplicate(vn, n.ins, n); m != nil {
        return m
    } else if n.IsLeaf() {
        self.cacheLeaf(vn, n)
        return nil
    } else {
        return nil
    }
}

func (self *Graph) findDuplicate(op ValueNumberable, ins []ID, exclude *Node) *Node {
    var min *Node
    var tt = reflect.TypeOf(op)

    /* pick the least used input */
    for _, v := range ins {
        if v != Nil {
            if p := self.nodes[v]; min == nil || len(p.uses) < len(min.uses) {
                min = p
            }
        }
    }

    /* no inputs, look into the leaf cache */
    if min == nil {
        return self.findLeaf(tt, op, exclude)
    }

    /* otherwise every candidate is a user of that input */
    for _, u := range min.uses {
        if m := self.nodes[u]; m != exclude && !m.dead && reflect.TypeOf(m.op) == tt {
            if vn, ok := m.op.(ValueNumberable); ok && slices.Equal(m.ins, ins) && vn.ValueEqual(op) {
                return m
            }
        }
    }

    /* not found */
    return nil
}

func (self *Graph) findLeaf(tt reflect.Type, op ValueNumberable, exclude *Node) *Node {
    key := _LeafKey { tt, op.ValueHash() }
    bucket := self.leaves[key]

    /* drop dead entries as we go */
    for i := 0; i < len(bucket); {
        if self.nodes[bucket[i]].dead {
            bucket = slices.Delete(bucket, i, i + 1)
        } else {
            i++
        }
    }

    /* update the bucket */
    self.leaves[key] = bucket

    /* scan the bucket */
    for _, id := range bucket {
        if m := self.nodes[id]; m != exclude && m.IsLeaf() && m.op.(ValueNumberable).ValueEqual(op) {
            return m
        }
    }

    /* not found */
    return nil
}

func (self *Graph) cacheLeaf(op ValueNumberable, n *Node) {
    key := _LeafKey { reflect.TypeOf(op), op.ValueHash() }
    if !slices.Contains(self.leaves[key], n.id) {
        self.leaves[key] = append(self.leaves[key], n.id)
    }
}
