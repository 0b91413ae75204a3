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
	"math"
	"math/bits"
	"strconv"
)

var (
	MinInt65 = Int65{0, 1}
	MaxInt65 = Int65{math.MaxUint64, 0}
)

const (
	_MinInt65Str = "-18446744073709551616"
)

// Int65 is a 65-bit two's complement integer, wide enough to hold the sum or
// difference of any two int64 values without wrapping around.
type Int65 struct {
	u uint64
	s uint64
}

func Int65i(v int64) Int65 {
	return Int65{
		u: uint64(v),
		s: uint64(v) >> 63,
	}
}

func (self Int65) String() string {
	if self.s == 0 {
		return strconv.FormatUint(self.u, 10)
	} else if self.u != 0 {
		return "-" + strconv.FormatUint(-self.u, 10)
	} else {
		return _MinInt65Str
	}
}

func (self Int65) OneLess() (r Int65) {
	r.u, r.s = bits.Sub64(self.u, 1, 0)
	r.s = (self.s - r.s) & 1
	return
}

func (self Int65) OneMore() (r Int65) {
	r.u, r.s = bits.Add64(self.u, 1, 0)
	r.s = (self.s + r.s) & 1
	return
}

func (self Int65) Add(other Int65) (r Int65) {
	var c uint64
	r.u, c = bits.Add64(self.u, other.u, 0)
	r.s = (self.s + other.s + c) & 1
	return
}

func (self Int65) Sub(other Int65) (r Int65) {
	var b uint64
	r.u, b = bits.Sub64(self.u, other.u, 0)
	r.s = (self.s - other.s - b) & 1
	return
}

// Int64 returns the value as an int64, ok is false if it does not fit.
func (self Int65) Int64() (v int64, ok bool) {
	if self.s != self.u >> 63 {
		return 0, false
	} else {
		return int64(self.u), true
	}
}

func (self Int65) Compare(other Int65) int {
	if self.s == 0 && other.s != 0 {
		return 1
	} else if self.s != 0 && other.s == 0 {
		return -1
	} else {
		return cmpu64(self.u, other.u)
	}
}

func (self Int65) CompareZero() int {
	if self.s != 0 {
		return -1
	} else if self.u != 0 {
		return 1
	} else {
		return 0
	}
}

func cmpu64(a uint64, b uint64) int {
	if a < b {
		return -1
	} else if a > b {
		return 1
	} else {
		return 0
	}
}
