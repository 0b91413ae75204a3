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

package gir

import (
    `github.com/cloudwego/gir/internal/canon`
    `github.com/cloudwego/gir/ir`
)

type (
    // InvariantError occurs when a rewrite would break the graph structure,
    // or a rewrite rule returned something that cannot be applied.
    InvariantError = ir.InvariantError

    // RevisitLimitError occurs when a node is revisited too many times
    // within a single pass, that is, some rewrite does not terminate.
    RevisitLimitError = canon.RevisitLimitError
)
