// Package half decodes and encodes IEEE 754 binary16 (half-precision) values.
//
// Every binary16 value is exactly representable as a float32, so decoding
// builds the float32 bit pattern directly instead of going through math.Pow.
//
// Bit layout of a half:
//
//	bit 15      sign
//	bits 14-10  exponent, bias 15
//	bits 9-0    mantissa
package half

import "math"

const (
	signMask = 0x8000
	expMask  = 0x7C00
	mantMask = 0x03FF

	// f32 bias minus f16 bias.
	rebias = 127 - 15
)

// Float32 converts the half-precision bit pattern h to a float32.
//
// Zero keeps its sign, subnormals are renormalized, exponent 31 yields
// signed infinity (zero mantissa) or NaN (non-zero mantissa, payload kept in
// the high mantissa bits of the result).
func Float32(h uint16) float32 {
	sign := uint32(h&signMask) << 16
	exp := uint32(h&expMask) >> 10
	mant := uint32(h & mantMask)

	switch {
	case exp == 0 && mant == 0:
		return math.Float32frombits(sign)
	case exp == 0:
		// Shift until the implicit bit appears; each shift costs one exponent step.
		e := uint32(0)
		for mant&0x0400 == 0 {
			mant <<= 1
			e++
		}
		mant &= mantMask
		return math.Float32frombits(sign | (rebias+1-e)<<23 | mant<<13)
	case exp == 0x1F:
		if mant == 0 {
			return math.Float32frombits(sign | 0x7F800000)
		}
		return math.Float32frombits(sign | 0x7FC00000 | mant<<13)
	default:
		return math.Float32frombits(sign | (exp+rebias)<<23 | mant<<13)
	}
}

// Float64 converts the half-precision bit pattern h to a float64.
func Float64(h uint16) float64 {
	return float64(Float32(h))
}

// FromFloat32 converts f to the nearest half-precision value, rounding ties
// to even. Values beyond the half range become signed infinity and values
// below the smallest subnormal flush to signed zero.
func FromFloat32(f float32) uint16 {
	b := math.Float32bits(f)
	sign := uint16(b>>16) & signMask
	exp := int32(b>>23) & 0xFF
	mant := b & 0x7FFFFF

	if exp == 0xFF {
		if mant == 0 {
			return sign | expMask
		}
		m := uint16(mant >> 13)
		if m == 0 {
			m = 0x0200
		}
		return sign | expMask | m
	}

	e := exp - rebias
	if e >= 0x1F {
		return sign | expMask
	}

	if e <= 0 {
		if e < -10 {
			return sign
		}
		m := mant | 0x800000
		shift := uint32(14 - e)
		h := m >> shift
		rem := m & (1<<shift - 1)
		halfway := uint32(1) << (shift - 1)
		if rem > halfway || (rem == halfway && h&1 == 1) {
			h++
		}
		return sign | uint16(h)
	}

	h := uint32(e)<<10 | mant>>13
	rem := mant & 0x1FFF
	if rem > 0x1000 || (rem == 0x1000 && h&1 == 1) {
		// A carry out of the mantissa bumps the exponent, up to infinity.
		h++
	}
	return sign | uint16(h)
}
