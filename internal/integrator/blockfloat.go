package integrator

import (
	"math/bits"

	"github.com/doismellburning/sdrcore/internal/fixedpoint"
)

// Normalize converts a Win-bit complex mantissa sample to a Fw-bit
// mantissa plus a shared non-negative exponent e, choosing the
// smallest e in [0, Win-Fw] such that both re and im fit in Fw bits
// after an arithmetic right shift by e, per spec section 4.5.
func Normalize(sample fixedpoint.Complex, win, fw int) (mantissa fixedpoint.Complex, exp int) {
	emax := win - fw
	if emax < 0 {
		emax = 0
	}
	for e := 0; e <= emax; e++ {
		re := fixedpoint.Truncate(sample.Re, e)
		im := fixedpoint.Truncate(sample.Im, e)
		if fits(re, fw) && fits(im, fw) {
			return fixedpoint.Complex{Re: re, Im: im}, e
		}
	}
	return fixedpoint.Complex{
		Re: fixedpoint.Truncate(sample.Re, emax),
		Im: fixedpoint.Truncate(sample.Im, emax),
	}, emax
}

func fits(x int64, width int) bool {
	return x >= fixedpoint.MinValue(width) && x <= fixedpoint.MaxValue(width)
}

// Power computes the non-negative power mantissa |mantissa|^2 of a
// normalized sample; its associated exponent is the same e that
// Normalize produced, but reinterpreted as a factor of 4^e (the
// "power" block-float variant of spec section 3).
func Power(mantissa fixedpoint.Complex) int64 {
	return mantissa.Re*mantissa.Re + mantissa.Im*mantissa.Im
}

// equalize shifts the lesser-exponent operand of (aMantissa, aExp)
// and (bMantissa, bExp) down so both are expressed at the larger of
// the two exponents, returning the common exponent and both
// rescaled non-negative mantissas. Both operands here are always
// "power" quantities (mantissa squared), whose exponent is a factor
// of 4^e rather than 2^e, so the equalizing shift is doubled, per
// spec section 3/9.
func equalize(aMantissa int64, aExp int, bMantissa int64, bExp int) (common int, a, b int64) {
	if aExp >= bExp {
		return aExp, aMantissa, bMantissa >> uint(2*(aExp-bExp))
	}
	return bExp, aMantissa >> uint(2*(bExp-aExp)), bMantissa
}

// renormalize right-shifts mantissa (and advances exp) until it fits
// in width bits, so a running sum never silently overflows the
// declared accumulator mantissa width. Each operation's shift amount
// is computed once (Design Notes: precompute per operation, not per
// bit), not derived bit-serially.
func renormalize(mantissa int64, exp, width int) (int64, int) {
	maxVal := int64(1)<<uint(width) - 1
	if mantissa <= maxVal {
		return mantissa, exp
	}
	shift := bits.Len64(uint64(mantissa)) - width
	shift += shift & 1 // exp counts factors of 4, so shift by whole pairs of bits
	return mantissa >> uint(shift), exp + shift/2
}
