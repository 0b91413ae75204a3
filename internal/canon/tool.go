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

type _Tool struct {
    r *_Run
}

func (self _Tool) AddToWorkList(n *ir.Node) {
    self.r.wl.AddAgain(n)
}

func (self _Tool) RemoveIfUnused(n *ir.Node) {
    self.r.tryKillUnused(n)
}

func (self _Tool) CanonicalizeReads() bool {
    return self.r.opts.CanonicalizeReads
}

// DeleteBranch detaches branch from its control split and kills the
// region it starts.
func (self _Tool) DeleteBranch(branch *ir.Node) {
    p := branch.Predecessor()
    ir.Invariant(p != nil, branch, "branch has no predecessor")
    p.ReplaceFirstSuccessor(branch, nil)
    self.r.kill(branch)
}
