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
    `github.com/cloudwego/gir/ir`
    `github.com/oleiade/lane`
)

// WorkList is a deduplicating FIFO of nodes with a per-node visit counter.
// It grows along with the graph.
type WorkList struct {
    g      *ir.Graph
    q      *lane.Queue
    limit  int
    seen   _Bitset
    queued _Bitset
    visits []int
}

// NewWorkList creates a work list over g, a limit of 0 disables the
// revisit check.
func NewWorkList(g *ir.Graph, limit int) *WorkList {
    return &WorkList {
        g     : g,
        q     : lane.NewQueue(),
        limit : limit,
    }
}

func (self *WorkList) grow(id ir.ID) {
    for int(id) >= len(self.visits) {
        self.visits = append(self.visits, 0)
    }
}

func (self *WorkList) enqueue(n *ir.Node) {
    if id := n.ID(); !self.queued.test(id) {
        self.seen.set(id)
        self.queued.set(id)
        self.q.Enqueue(id)
    }
}

// Add queues n unless it has been queued before.
func (self *WorkList) Add(n *ir.Node) {
    if n != nil && !self.seen.test(n.ID()) {
        self.enqueue(n)
    }
}

// AddAgain queues n unless it is queued right now.
func (self *WorkList) AddAgain(n *ir.Node) {
    if n != nil {
        self.enqueue(n)
    }
}

// AddAll adds every node in ns.
func (self *WorkList) AddAll(ns []*ir.Node) {
    for _, n := range ns {
        self.Add(n)
    }
}

// Inherit makes n count at least as many visits as parent. Nodes created
// while processing a node carry on its visit count, so a rewrite that
// oscillates through fresh nodes still hits the limit.
func (self *WorkList) Inherit(n *ir.Node, parent *ir.Node) {
    self.grow(n.ID())
    self.grow(parent.ID())
    self.visits[n.ID()] = max(self.visits[n.ID()], self.visits[parent.ID()])
}

// Visits returns how many times n has been returned by Next.
func (self *WorkList) Visits(n *ir.Node) int {
    if int(n.ID()) >= len(self.visits) {
        return 0
    } else {
        return self.visits[n.ID()]
    }
}

// Len returns the number of queued entries, deleted nodes included.
func (self *WorkList) Len() int {
    return self.q.Size()
}

// Next returns the next live node, or nil once the queue is drained.
// Deleted nodes are dropped silently.
func (self *WorkList) Next() *ir.Node {
    for !self.q.Empty() {
        id := self.q.Dequeue().(ir.ID)
        self.queued.unset(id)

        /* skip deleted nodes */
        n := self.g.Node(id)
        if n == nil || n.IsDeleted() {
            continue
        }

        /* count the visit */
        self.grow(id)
        if self.visits[id]++; self.limit != 0 && self.visits[id] > self.limit {
            panic(&RevisitLimitError {
                Node   : n,
                Visits : self.visits[id],
                Limit  : self.limit,
            })
        }

        /* found one */
        return n
    }
    return nil
}
