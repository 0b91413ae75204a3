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
)

// InvariantError is raised (as a panic) whenever a graph invariant is about
// to be violated, or a capability implementation returned something the
// engine cannot apply. It is fatal for the current compilation unit.
type InvariantError struct {
    Node   *Node
    Reason string
}

func (self *InvariantError) Error() string {
    if self.Node == nil {
        return "invariant violation: " + self.Reason
    } else {
        return fmt.Sprintf("invariant violation at %s: %s", self.Node, self.Reason)
    }
}

// Violation creates an InvariantError for n.
func Violation(n *Node, format string, args ...interface{}) *InvariantError {
    return &InvariantError {
        Node   : n,
        Reason : fmt.Sprintf(format, args...),
    }
}

// Invariant panics with an InvariantError if ok is false.
func Invariant(ok bool, n *Node, format string, args ...interface{}) {
    if !ok {
        panic(Violation(n, format, args...))
    }
}
