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
    `sync/atomic`
)

var (
    ProcessedNodes             atomic.Int64
    CanonicalizedNodes         atomic.Int64
    CanonicalizationConsidered atomic.Int64
    SimplificationConsidered   atomic.Int64
    InferStampCalled           atomic.Int64
    StampChanged               atomic.Int64
    GVNHits                    atomic.Int64
    KilledNodes                atomic.Int64
)
