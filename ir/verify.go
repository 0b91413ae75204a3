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
    `errors`

    `gonum.org/v1/gonum/graph/simple`
    `gonum.org/v1/gonum/graph/topo`
    `gonum.org/v1/gonum/graph/traverse`
)

func count(ids []ID, id ID) (ret int) {
    for _, v := range ids {
        if v == id {
            ret++
        }
    }
    return
}

func (self *Graph) isLive(id ID) bool {
    return id >= 0 && int(id) < len(self.nodes) && !self.nodes[id].dead
}

// Verify checks the structural invariants of the graph and returns every
// violation found, joined into a single error.
func (self *Graph) Verify() error {
    var errs []error
    for _, n := range self.Nodes() {
        errs = append(errs, self.verifyNode(n)...)
    }

    /* whole-graph properties */
    errs = append(errs, self.verifyControl()...)
    errs = append(errs, self.verifyData()...)
    return errors.Join(errs...)
}

func (self *Graph) verifyNode(n *Node) (errs []error) {
    for _, v := range n.ins {
        if v == Nil {
            continue
        } else if !self.isLive(v) {
            errs = append(errs, Violation(n, "input %d is deleted", v))
        } else if count(self.nodes[v].uses, n.id) != count(n.ins, v) {
            errs = append(errs, Violation(n, "usages of input %s out of sync", self.nodes[v]))
        }
    }

    /* usages must mirror the inputs */
    for _, u := range n.uses {
        if !self.isLive(u) {
            errs = append(errs, Violation(n, "usage %d is deleted", u))
        } else if count(self.nodes[u].ins, n.id) != count(n.uses, u) {
            errs = append(errs, Violation(n, "inputs of usage %s out of sync", self.nodes[u]))
        }
    }

    /* successors */
    for i, s := range n.succ {
        if s == Nil {
            errs = append(errs, Violation(n, "successor slot %d is empty", i))
        } else if !self.isLive(s) {
            errs = append(errs, Violation(n, "successor %d is deleted", s))
        } else if self.nodes[s].pred != n.id {
            errs = append(errs, Violation(n, "successor %s has a different predecessor", self.nodes[s]))
        }
    }

    /* predecessor */
    if n.pred != Nil {
        if n.IsFloating() {
            errs = append(errs, Violation(n, "floating node has a predecessor"))
        } else if !self.isLive(n.pred) {
            errs = append(errs, Violation(n, "predecessor %d is deleted", n.pred))
        } else if count(self.nodes[n.pred].succ, n.id) != 1 {
            errs = append(errs, Violation(n, "predecessor %s does not list this node", self.nodes[n.pred]))
        }
    } else if n.IsFixed() && n.id != self.start {
        errs = append(errs, Violation(n, "fixed node has no predecessor"))
    }

    /* all checked */
    return
}

func (self *Graph) verifyControl() (errs []error) {
    cfg := simple.NewDirectedGraph()
    fixed := make([]*Node, 0, len(self.nodes))

    /* build the control flow graph */
    for _, n := range self.Nodes() {
        if n.IsFixed() {
            fixed = append(fixed, n)
            cfg.AddNode(simple.Node(n.id))
        }
    }

    /* nothing to check */
    if len(fixed) == 0 {
        return nil
    }

    /* fixed nodes need a start node */
    if !self.isLive(self.start) {
        return []error { Violation(nil, "graph has fixed nodes but no start node") }
    }

    /* add the control edges */
    for _, n := range fixed {
        for _, s := range n.succ {
            if self.isLive(s) && s != n.id {
                cfg.SetEdge(cfg.NewEdge(simple.Node(n.id), simple.Node(s)))
            }
        }
    }

    /* every fixed node must be reachable from start */
    dfs := traverse.DepthFirst{}
    dfs.Walk(cfg, simple.Node(self.start), nil)

    /* check for unreachable nodes */
    for _, n := range fixed {
        if !dfs.Visited(simple.Node(n.id)) {
            errs = append(errs, Violation(n, "fixed node is unreachable from start"))
        }
    }

    /* all checked */
    return
}

func (self *Graph) verifyData() (errs []error) {
    dfg := simple.NewDirectedGraph()
    for _, n := range self.Nodes() {
        if n.IsFloating() {
            dfg.AddNode(simple.Node(n.id))
        }
    }

    /* floating data edges, from input to user */
    for _, n := range self.Nodes() {
        if n.IsFloating() {
            for _, v := range n.ins {
                if v == n.id {
                    errs = append(errs, Violation(n, "floating node uses itself"))
                } else if self.isLive(v) && self.nodes[v].IsFloating() {
                    dfg.SetEdge(dfg.NewEdge(simple.Node(v), simple.Node(n.id)))
                }
            }
        }
    }

    /* floating data flow must be acyclic */
    if _, err := topo.Sort(dfg); err != nil {
        errs = append(errs, Violation(nil, "floating data flow has a cycle: %v", err))
    }

    /* all checked */
    return
}
