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
    `fmt`

    `github.com/cloudwego/gir/ir`
)

// RevisitLimitError is raised (as a panic) when a node is visited more
// often than allowed within one pass, which means some rewrite does not
// terminate.
type RevisitLimitError struct {
    Node   *ir.Node
    Visits int
    Limit  int
}

func (self *RevisitLimitError) Error() string {
    return fmt.Sprintf("canon: node %s visited %d times, the limit is %d", self.Node, self.Visits, self.Limit)
}
