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

package stamp

import (
    `fmt`
)

// Constant is a single concrete runtime value.
type Constant interface {
    fmt.Stringer
    constant()
}

// IntConstant is a Bits-wide integer value, stored sign-extended.
type IntConstant struct {
    Bits uint8
    V    int64
}

// NullConstant is the null object reference.
type NullConstant struct{}

func (IntConstant)  constant() {}
func (NullConstant) constant() {}

func (self IntConstant) String() string {
    return fmt.Sprintf("i%d %d", self.Bits, self.V)
}

func (NullConstant) String() string {
    return "null"
}
