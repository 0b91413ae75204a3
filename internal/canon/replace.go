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
)

//                                              original node
//                                 | floating | fixed, unlinked | fixed, linked |
//                   --------------+----------+-----------------+---------------+
//                   nil           |    1     |        X        |       3       |
//                   floating      |    2     |        X        |       4       |
//   replacement     fixed, new    |    X     |        X        |       5       |
//                   fixed, linked |    2     |        X        |       6       |
//                   control sink  |    X     |        X        |       7       |
//
//   X: rejected with an InvariantError
func (self *_Run) performReplacement(n *ir.Node, c *ir.Node) bool {
    if c == n {
        return false
    }

    /* the replacement must be a live node of the same graph */
    if c != nil {
        ir.Invariant(c.IsAlive(), n, "replacement %s is deleted", c)
        ir.Invariant(c.Graph() == self.g, n, "replacement %s belongs to another graph", c)
    }

    /* count the rewrite */
    CanonicalizedNodes.Add(1)
    self.log.Debug("replacing node", "node", n, "canonical", nodeName(c))

    /* floating nodes */
    if n.IsFloating() {
        if c == nil {
            self.g.RemoveFloating(n)                                    // case 1
        } else {
            ir.Invariant(!c.IsControlSink(), n, "floating node replaced by control sink %s", c)
            ir.Invariant(c.IsFloating() || c.Predecessor() != nil || c == self.g.Start(), n, "floating node replaced by unlinked fixed node %s", c)
            self.g.ReplaceFloating(n, c)                                // case 2
        }
        return true
    }

    /* fixed nodes must be on the control flow, with a successor */
    ir.Invariant(n.Kind() == ir.FixedWithNext, n, "only fixed-with-next nodes can be replaced")
    ir.Invariant(n.Predecessor() != nil, n, "fixed node is not linked into the control flow")

    /* control sinks end the path right here */
    if c != nil && c.IsControlSink() {
        ir.Invariant(c.Predecessor() == nil, n, "control sink %s is already linked", c)
        p := n.Predecessor()
        i := p.SuccessorIndex(n)
        self.kill(n)
        p.SetSuccessor(i, c)                                            // case 7
        return true
    }

    /* the successor might simplify further once we are gone */
    next := n.Next()
    ir.Invariant(next != nil, n, "fixed node has no successor")
    self.tool.AddToWorkList(next)

    /* remaining cases */
    switch {
        case c == nil: {
            self.g.RemoveFixed(n)                                       // case 3
        }
        case c.IsFloating(): {
            self.g.ReplaceFixedWithFloating(n, c)                       // case 4
        }
        case c.Predecessor() == nil: {
            ir.Invariant(c.Kind() == ir.FixedWithNext && c.Next() == nil, n, "replacement %s should not have successors", c)
            self.g.ReplaceFixedWithFixed(n, c)                          // case 5
        }
        default: {
            ir.Invariant(len(c.Successors()) != 0, n, "replacement %s should have successors", c)
            n.ReplaceAtUsages(c)
            self.g.RemoveFixed(n)                                       // case 6
        }
    }
    return true
}

// replaceUsages hands the usages of the fixed node n over to c and leaves
// n on the control flow. Whether n can go away is up to its own rules.
func (self *_Run) replaceUsages(n *ir.Node, c *ir.Node) {
    ir.Invariant(c != nil && c.IsFloating(), n, "fixed node usages must be replaced by a floating node")
    CanonicalizedNodes.Add(1)
    self.log.Debug("replacing usages", "node", n, "canonical", nodeName(c))
    n.ReplaceAtUsages(c)
    self.tool.AddToWorkList(n)
}
