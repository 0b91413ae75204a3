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

type _Bitset struct {
    data []uint64
}

func (self *_Bitset) set(i ir.ID) {
    x, y := int(i >> 6), uint(i & 63)   // i/64, i%64
    for x >= len(self.data) {
        self.data = append(self.data, 0)
    }
    self.data[x] |= 1 << y
}

func (self *_Bitset) unset(i ir.ID) {
    if x, y := int(i >> 6), uint(i & 63); x < len(self.data) {
        self.data[x] &^= 1 << y
    }
}

func (self *_Bitset) test(i ir.ID) bool {
    x, y := int(i >> 6), uint(i & 63)
    return x < len(self.data) && (self.data[x] & (1 << y)) != 0
}
