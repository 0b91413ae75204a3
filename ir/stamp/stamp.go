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

// Stamp is an abstract description of the values a node may produce at
// runtime. Stamps form a lattice: Join narrows (the values described by both
// stamps), Meet widens (the values described by either stamp).
type Stamp interface {
    fmt.Stringer
    Join(other Stamp) Stamp
    Meet(other Stamp) Stamp
    Equal(other Stamp) bool
    IsEmpty() bool
    AsConstant() (Constant, bool)
    Unrestricted() Stamp
}

// VoidStamp is the stamp of nodes that do not produce a value.
type VoidStamp struct{}

// Void is the only VoidStamp value.
var Void Stamp = VoidStamp{}

func (VoidStamp) String() string                 { return "void" }
func (VoidStamp) IsEmpty() bool                  { return false }
func (VoidStamp) AsConstant() (Constant, bool)   { return nil, false }
func (VoidStamp) Unrestricted() Stamp            { return Void }
func (VoidStamp) Join(other Stamp) Stamp         { mustVoid(other); return Void }
func (VoidStamp) Meet(other Stamp) Stamp         { mustVoid(other); return Void }
func (VoidStamp) Equal(other Stamp) bool         { _, ok := other.(VoidStamp); return ok }

// IsVoid reports whether s describes "no value".
func IsVoid(s Stamp) bool {
    _, ok := s.(VoidStamp)
    return s == nil || ok
}

func mustVoid(other Stamp) {
    if _, ok := other.(VoidStamp); !ok {
        panic(fmt.Sprintf("stamp: incompatible stamps: void and %s", other))
    }
}

func incompatible(a Stamp, b Stamp) string {
    return fmt.Sprintf("stamp: incompatible stamps: %s and %s", a, b)
}

// ForConstant returns the most precise stamp describing the constant c.
func ForConstant(c Constant) Stamp {
    switch v := c.(type) {
        case IntConstant  : return IntConst(v.Bits, v.V)
        case NullConstant : return ObjectNull()
        default           : panic(fmt.Sprintf("stamp: unknown constant: %v", c))
    }
}
