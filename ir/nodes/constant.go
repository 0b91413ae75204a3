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

package nodes

import (
    `fmt`

    `github.com/cloudwego/gir/ir`
    `github.com/cloudwego/gir/ir/stamp`
)

// ConstInt is an integer constant, V is kept sign-extended from Bits.
type ConstInt struct {
    Bits uint8
    V    int64
}

func (self ConstInt) String() string                      { return fmt.Sprintf("const.i%d %d", self.Bits, self.V) }
func (self ConstInt) Kind() ir.Kind                       { return ir.Floating }
func (self ConstInt) Constant() stamp.Constant            { return stamp.IntConstant { Bits: self.Bits, V: self.V } }
func (self ConstInt) InferStamp(_ *ir.Node) stamp.Stamp   { return stamp.IntConst(self.Bits, self.V) }
func (self ConstInt) ValueHash() uint64                   { return uint64(self.V) * 31 + uint64(self.Bits) }
func (self ConstInt) ValueEqual(other ir.Op) bool         { v, ok := other.(ConstInt); return ok && v == self }

// ConstNull is the null reference.
type ConstNull struct{}

func (ConstNull) String() string                      { return "const.null" }
func (ConstNull) Kind() ir.Kind                       { return ir.Floating }
func (ConstNull) Constant() stamp.Constant            { return stamp.NullConstant{} }
func (ConstNull) InferStamp(_ *ir.Node) stamp.Stamp   { return stamp.ObjectNull() }
func (ConstNull) ValueHash() uint64                   { return 0x6e756c6c }
func (ConstNull) ValueEqual(other ir.Op) bool         { _, ok := other.(ConstNull); return ok }

// Param is an incoming argument with a declared stamp.
type Param struct {
    Index int
    Type  stamp.Stamp
}

func (self Param) String() string                      { return fmt.Sprintf("param.%d", self.Index) }
func (self Param) Kind() ir.Kind                       { return ir.Floating }
func (self Param) InferStamp(_ *ir.Node) stamp.Stamp   { return self.Type }
