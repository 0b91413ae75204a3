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

func sameBits(x IntegerStamp, y IntegerStamp) uint8 {
    if x.Bits != y.Bits {
        panic(fmt.Sprintf("stamp: mismatched integer widths: %s and %s", x, y))
    } else {
        return x.Bits
    }
}

func fits(nb uint8, v Int65) (int64, bool) {
    if r, ok := v.Int64(); !ok {
        return 0, false
    } else {
        return r, r >= MinValue(nb) && r <= MaxValue(nb)
    }
}

func Add(x IntegerStamp, y IntegerStamp) IntegerStamp {
    nb := sameBits(x, y)
    if x.IsEmpty() || y.IsEmpty() {
        return IntEmpty(nb)
    }

    /* constant folding wraps around like the machine does */
    if cx, ok := x.constant(); ok {
        if cy, ok := y.constant(); ok {
            return IntConst(nb, cx + cy)
        }
    }

    /* the range survives only if neither end overflows */
    lo, lok := fits(nb, Int65i(x.Lo).Add(Int65i(y.Lo)))
    hi, hok := fits(nb, Int65i(x.Hi).Add(Int65i(y.Hi)))

    /* overflow, the result may be anything */
    if !lok || !hok {
        return Int(nb)
    } else {
        return IntRange(nb, lo, hi)
    }
}

func Sub(x IntegerStamp, y IntegerStamp) IntegerStamp {
    nb := sameBits(x, y)
    if x.IsEmpty() || y.IsEmpty() {
        return IntEmpty(nb)
    }

    /* constant folding */
    if cx, ok := x.constant(); ok {
        if cy, ok := y.constant(); ok {
            return IntConst(nb, cx - cy)
        }
    }

    /* the range survives only if neither end overflows */
    lo, lok := fits(nb, Int65i(x.Lo).Sub(Int65i(y.Hi)))
    hi, hok := fits(nb, Int65i(x.Hi).Sub(Int65i(y.Lo)))

    /* overflow, the result may be anything */
    if !lok || !hok {
        return Int(nb)
    } else {
        return IntRange(nb, lo, hi)
    }
}

const (
    _MulLimit = 1 << 31
)

func mulsafe(v IntegerStamp) bool {
    return v.Lo >= -_MulLimit && v.Hi <= _MulLimit
}

func Mul(x IntegerStamp, y IntegerStamp) IntegerStamp {
    nb := sameBits(x, y)
    if x.IsEmpty() || y.IsEmpty() {
        return IntEmpty(nb)
    }

    /* constant folding */
    if cx, ok := x.constant(); ok {
        if cy, ok := y.constant(); ok {
            return IntConst(nb, cx * cy)
        }
    }

    /* products of 32-bit magnitudes never overflow an int64 */
    if !mulsafe(x) || !mulsafe(y) {
        return Int(nb)
    }

    /* the extremes are among the products of the bounds */
    p := [4]int64 { x.Lo * y.Lo, x.Lo * y.Hi, x.Hi * y.Lo, x.Hi * y.Hi }
    lo := min(p[0], p[1], p[2], p[3])
    hi := max(p[0], p[1], p[2], p[3])

    /* check for overflow */
    if lo < MinValue(nb) || hi > MaxValue(nb) {
        return Int(nb)
    } else {
        return IntRange(nb, lo, hi)
    }
}

func Neg(x IntegerStamp) IntegerStamp {
    if x.IsEmpty() {
        return x
    } else if c, ok := x.constant(); ok {
        return IntConst(x.Bits, -c)
    } else if x.Lo == MinValue(x.Bits) {
        return Int(x.Bits)
    } else {
        return IntRange(x.Bits, -x.Hi, -x.Lo)
    }
}

func Not(x IntegerStamp) IntegerStamp {
    if x.IsEmpty() {
        return x
    } else {
        return IntStamp(x.Bits, ^x.Hi, ^x.Lo, ^x.Up, ^x.Down)
    }
}

func And(x IntegerStamp, y IntegerStamp) IntegerStamp {
    nb := sameBits(x, y)
    lo, hi := MinValue(nb), MaxValue(nb)

    /* and-ing with a positive value can only clear bits */
    if x.IsPositive() { lo, hi = 0, min(hi, x.Hi) }
    if y.IsPositive() { lo, hi = 0, min(hi, y.Hi) }

    /* combine with the masks */
    if x.IsEmpty() || y.IsEmpty() {
        return IntEmpty(nb)
    } else {
        return IntStamp(nb, lo, hi, x.Down & y.Down, x.Up & y.Up)
    }
}

func Or(x IntegerStamp, y IntegerStamp) IntegerStamp {
    nb := sameBits(x, y)
    lo := MinValue(nb)

    /* or-ing positive values can only set bits */
    if x.IsPositive() && y.IsPositive() {
        lo = max(x.Lo, y.Lo)
    }

    /* combine with the masks */
    if x.IsEmpty() || y.IsEmpty() {
        return IntEmpty(nb)
    } else {
        return IntStamp(nb, lo, MaxValue(nb), x.Down | y.Down, x.Up | y.Up)
    }
}

func Xor(x IntegerStamp, y IntegerStamp) IntegerStamp {
    nb := sameBits(x, y)
    if x.IsEmpty() || y.IsEmpty() {
        return IntEmpty(nb)
    }

    /* a bit is known iff it is known on both sides */
    one := (x.Down &^ y.Up) | (y.Down &^ x.Up)
    zero := (^x.Up & ^y.Up) | (x.Down & y.Down)
    return IntStamp(nb, MinValue(nb), MaxValue(nb), one, ^zero)
}

func shiftOf(x IntegerStamp, y IntegerStamp) (uint, bool) {
    if c, ok := y.constant(); !ok {
        return 0, false
    } else {
        return uint(c) & uint(x.Bits - 1), true
    }
}

func Shl(x IntegerStamp, y IntegerStamp) IntegerStamp {
    if x.IsEmpty() || y.IsEmpty() {
        return IntEmpty(x.Bits)
    }

    /* shift amount must be known */
    s, ok := shiftOf(x, y)
    if !ok {
        return Int(x.Bits)
    }

    /* constant folding */
    if c, ok := x.constant(); ok {
        return IntConst(x.Bits, c << s)
    }

    /* the range survives only if no significant bits are shifted out */
    lo, hi := x.Lo << s, x.Hi << s
    if lo >> s != x.Lo || hi >> s != x.Hi || lo < MinValue(x.Bits) || hi > MaxValue(x.Bits) {
        lo, hi = MinValue(x.Bits), MaxValue(x.Bits)
    }

    /* shift the masks as well */
    return IntStamp(x.Bits, lo, hi, x.Down << s, x.Up << s)
}

func Sar(x IntegerStamp, y IntegerStamp) IntegerStamp {
    if x.IsEmpty() || y.IsEmpty() {
        return IntEmpty(x.Bits)
    }

    /* unknown shift amount, the result stays between the input and -1 or 0 */
    s, ok := shiftOf(x, y)
    if !ok {
        switch {
            case x.Lo >= 0 : return IntRange(x.Bits, 0, x.Hi)
            case x.Hi < 0  : return IntRange(x.Bits, x.Lo, -1)
            default        : return IntRange(x.Bits, x.Lo, x.Hi)
        }
    }

    /* arithmetic shift is monotonic */
    return IntRange(x.Bits, x.Lo >> s, x.Hi >> s)
}

func Shr(x IntegerStamp, y IntegerStamp) IntegerStamp {
    if x.IsEmpty() || y.IsEmpty() {
        return IntEmpty(x.Bits)
    }

    /* unknown shift amount */
    s, ok := shiftOf(x, y)
    if !ok {
        if x.IsPositive() {
            return IntRange(x.Bits, 0, x.Hi)
        } else {
            return Int(x.Bits)
        }
    }

    /* positive values behave like the arithmetic shift */
    if x.IsPositive() {
        return IntStamp(x.Bits, x.Lo >> s, x.Hi >> s, x.Down >> s, x.Up >> s)
    } else if s == 0 {
        return x
    } else {
        return IntStamp(x.Bits, 0, int64(Mask(x.Bits) >> s), x.Down >> s, x.Up >> s)
    }
}

// Equals evaluates x == y over the stamps, known is false if the result
// depends on the runtime values.
func Equals(x IntegerStamp, y IntegerStamp) (result bool, known bool) {
    sameBits(x, y)
    if x.IsEmpty() || y.IsEmpty() {
        return false, false
    }

    /* both are constants */
    if cx, ok := x.constant(); ok {
        if cy, ok := y.constant(); ok {
            return cx == cy, true
        }
    }

    /* disjoint ranges or contradicting bits */
    if x.Hi < y.Lo || y.Hi < x.Lo {
        return false, true
    } else if (x.Down &^ y.Up) | (y.Down &^ x.Up) != 0 {
        return false, true
    } else {
        return false, false
    }
}

// LessThan evaluates the signed comparison x < y over the stamps.
func LessThan(x IntegerStamp, y IntegerStamp) (result bool, known bool) {
    sameBits(x, y)
    if x.IsEmpty() || y.IsEmpty() {
        return false, false
    } else if x.Hi < y.Lo {
        return true, true
    } else if x.Lo >= y.Hi {
        return false, true
    } else {
        return false, false
    }
}

// Below evaluates the unsigned comparison x < y over the stamps.
func Below(x IntegerStamp, y IntegerStamp) (result bool, known bool) {
    sameBits(x, y)
    if x.IsEmpty() || y.IsEmpty() {
        return false, false
    } else if y.Lo == 0 && y.Hi == 0 {
        return false, true
    } else if x.IsPositive() && y.IsPositive() {
        return LessThan(x, y)
    } else {
        return false, false
    }
}

// Truth returns the stamp of a comparison whose outcome may be known.
func Truth(result bool, known bool) IntegerStamp {
    if !known {
        return Bool()
    } else if result {
        return IntConst(32, 1)
    } else {
        return IntConst(32, 0)
    }
}
