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
    `github.com/oleiade/lane`
)

// KillCFG deletes the control flow region starting at n: every fixed node
// reachable from it, then every floating node only those nodes fed.
func KillCFG(n *Node) {
    st := lane.NewStack()
    st.Push(n)

    /* post-order walk, successors die before their predecessor */
    for !st.Empty() {
        p := st.Head().(*Node)
        f := false

        /* descend into the first live successor */
        for _, s := range p.Successors() {
            if s.IsAlive() {
                f = true
                st.Push(s)
                break
            }
        }

        /* no more successors, kill the node */
        if !f {
            st.Pop()
            propagateKill(p)
        }
    }
}

func propagateKill(n *Node) {
    if n == nil || n.dead {
        return
    }

    /* remember the floating users, they die with us */
    var users []*Node
    for _, u := range n.Usages() {
        if u.IsFloating() {
            users = append(users, u)
        }
    }

    /* detach and delete */
    n.ReplaceAtUsages(nil)
    n.ReplaceAtPredecessor(nil)
    KillWithUnusedFloatingInputs(n)

    /* floating users of a dead node are dead as well */
    for _, u := range users {
        propagateKill(u)
    }
}

// KillWithUnusedFloatingInputs deletes n, then every floating input that
// no longer has any usage, transitively. n must have no usages and no
// predecessor.
func KillWithUnusedFloatingInputs(n *Node) {
    st := lane.NewStack()
    st.Push(n)

    /* delete nodes as they become unused */
    for !st.Empty() {
        p := st.Pop().(*Node)
        ins := p.Inputs()

        /* the same input may be pushed more than once */
        if p.dead {
            continue
        }

        /* delete the node, and check its inputs */
        p.SafeDelete()
        for _, v := range ins {
            if v.IsFloating() && v.IsAlive() && v.HasNoUsages() {
                st.Push(v)
            }
        }
    }
}
