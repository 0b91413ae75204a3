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
    `math/bits`
)

// IntegerStamp describes a set of Bits-wide integers by a signed range and a
// pair of bit masks. Down holds the bits set in every value, Up holds the
// bits that may be set in some value. Values are kept sign-extended to 64
// bits, masks are truncated to Bits.
type IntegerStamp struct {
    Bits uint8
    Lo   int64
    Hi   int64
    Down uint64
    Up   uint64
}

func checkBits(nb uint8) {
    switch nb {
        case 8, 16, 32, 64 : break
        default            : panic(fmt.Sprintf("stamp: invalid integer width: %d", nb))
    }
}

// Mask returns the mask covering the lower nb bits.
func Mask(nb uint8) uint64 {
    return ^uint64(0) >> (64 - nb)
}

// MinValue returns the smallest signed nb-bit integer.
func MinValue(nb uint8) int64 {
    return int64(-1) << (nb - 1)
}

// MaxValue returns the largest signed nb-bit integer.
func MaxValue(nb uint8) int64 {
    return int64(Mask(nb) >> 1)
}

// SignExtend interprets the lower nb bits of v as a signed integer.
func SignExtend(v uint64, nb uint8) int64 {
    sh := 64 - nb
    return int64(v << sh) >> sh
}

// Narrow wraps v around to the nb-bit signed range.
func Narrow(v int64, nb uint8) int64 {
    return SignExtend(uint64(v), nb)
}

// Int returns the unrestricted nb-bit integer stamp.
func Int(nb uint8) IntegerStamp {
    checkBits(nb)
    return IntegerStamp {
        Bits : nb,
        Lo   : MinValue(nb),
        Hi   : MaxValue(nb),
        Down : 0,
        Up   : Mask(nb),
    }
}

// IntConst returns the stamp containing only v.
func IntConst(nb uint8, v int64) IntegerStamp {
    checkBits(nb)
    v = Narrow(v, nb)
    m := uint64(v) & Mask(nb)
    return IntegerStamp { Bits: nb, Lo: v, Hi: v, Down: m, Up: m }
}

// IntRange returns the stamp for the closed range [lo, hi].
func IntRange(nb uint8, lo int64, hi int64) IntegerStamp {
    return IntStamp(nb, lo, hi, 0, Mask(nb))
}

// IntEmpty returns the nb-bit stamp that contains no values.
func IntEmpty(nb uint8) IntegerStamp {
    checkBits(nb)
    return IntegerStamp { Bits: nb, Lo: MaxValue(nb), Hi: MinValue(nb), Down: Mask(nb), Up: 0 }
}

// Bool returns the stamp of a comparison result, 0 or 1.
func Bool() IntegerStamp {
    return IntRange(32, 0, 1)
}

// IntStamp builds a stamp from both a range and masks, tightening each of
// them with the information carried by the other.
func IntStamp(nb uint8, lo int64, hi int64, down uint64, up uint64) IntegerStamp {
    checkBits(nb)
    mask := Mask(nb)
    down &= mask
    up &= mask
    lo = max(lo, MinValue(nb))
    hi = min(hi, MaxValue(nb))

    /* tighten until stable, every round strictly narrows */
    for {
        if lo > hi || down &^ up != 0 {
            return IntEmpty(nb)
        }

        /* narrow the range with the masks, and the masks with the range */
        nl := max(lo, minForMasks(nb, down, up))
        nh := min(hi, maxForMasks(nb, down, up))
        rd, ru := rangeMasks(nb, nl, nh)
        nd := down | rd
        nu := up & ru

        /* check for stability */
        if nl == lo && nh == hi && nd == down && nu == up {
            return IntegerStamp { Bits: nb, Lo: lo, Hi: hi, Down: down, Up: up }
        }

        /* next round */
        lo, hi, down, up = nl, nh, nd, nu
    }
}

func minForMasks(nb uint8, down uint64, up uint64) int64 {
    if sign := uint64(1) << (nb - 1); up & sign != 0 {
        return SignExtend(down | sign, nb)
    } else {
        return SignExtend(down, nb)
    }
}

func maxForMasks(nb uint8, down uint64, up uint64) int64 {
    if sign := uint64(1) << (nb - 1); down & sign != 0 {
        return SignExtend(up, nb)
    } else {
        return SignExtend(up &^ sign, nb)
    }
}

func rangeMasks(nb uint8, lo int64, hi int64) (down uint64, up uint64) {
    if lo > hi {
        return Mask(nb), 0
    }

    /* bits above the highest differing bit are shared by every value in the range */
    mask := Mask(nb)
    diff := (uint64(lo) ^ uint64(hi)) & mask
    vary := (uint64(1) << bits.Len64(diff)) - 1
    return uint64(lo) &^ vary & mask, (uint64(lo) | vary) & mask
}

func (self IntegerStamp) String() string {
    if self.IsEmpty() {
        return fmt.Sprintf("i%d <empty>", self.Bits)
    } else if self.Lo == self.Hi {
        return fmt.Sprintf("i%d %d", self.Bits, self.Lo)
    } else {
        return fmt.Sprintf("i%d [%d, %d] #%x/%x", self.Bits, self.Lo, self.Hi, self.Down, self.Up)
    }
}

func (self IntegerStamp) other(other Stamp) IntegerStamp {
    if v, ok := other.(IntegerStamp); !ok {
        panic(incompatible(self, other))
    } else if v.Bits != self.Bits {
        panic(incompatible(self, other))
    } else {
        return v
    }
}

func (self IntegerStamp) Join(other Stamp) Stamp {
    v := self.other(other)
    return IntStamp(self.Bits, max(self.Lo, v.Lo), min(self.Hi, v.Hi), self.Down | v.Down, self.Up & v.Up)
}

func (self IntegerStamp) Meet(other Stamp) Stamp {
    if v := self.other(other); self.IsEmpty() {
        return v
    } else if v.IsEmpty() {
        return self
    } else {
        return IntStamp(self.Bits, min(self.Lo, v.Lo), max(self.Hi, v.Hi), self.Down & v.Down, self.Up | v.Up)
    }
}

func (self IntegerStamp) Equal(other Stamp) bool {
    if v, ok := other.(IntegerStamp); !ok || v.Bits != self.Bits {
        return false
    } else if self.IsEmpty() || v.IsEmpty() {
        return self.IsEmpty() && v.IsEmpty()
    } else {
        return self == v
    }
}

func (self IntegerStamp) IsEmpty() bool {
    return self.Lo > self.Hi
}

func (self IntegerStamp) AsConstant() (Constant, bool) {
    if self.IsEmpty() || self.Lo != self.Hi {
        return nil, false
    } else {
        return IntConstant { Bits: self.Bits, V: self.Lo }, true
    }
}

func (self IntegerStamp) Unrestricted() Stamp {
    return Int(self.Bits)
}

// IsUnrestricted reports whether the stamp carries no information.
func (self IntegerStamp) IsUnrestricted() bool {
    return self == Int(self.Bits)
}

// Contains reports whether v is possibly described by the stamp.
func (self IntegerStamp) Contains(v int64) bool {
    u := uint64(v) & Mask(self.Bits)
    return v >= self.Lo && v <= self.Hi && u & self.Down == self.Down && u &^ self.Up == 0
}

// IsPositive reports whether every value is greater than or equal to zero.
func (self IntegerStamp) IsPositive() bool {
    return self.Lo >= 0
}

func (self IntegerStamp) constant() (int64, bool) {
    return self.Lo, !self.IsEmpty() && self.Lo == self.Hi
}
