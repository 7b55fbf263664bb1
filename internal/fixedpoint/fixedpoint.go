// Package fixedpoint holds the two's-complement fixed-point primitives
// shared by every datapath component: width-wrapping, truncation (floor
// toward -inf), and round-half-up.
package fixedpoint

import "fmt"

// ConfigError names a configuration parameter rejected at
// model-construction time.
type ConfigError struct {
	Component string
	Param     string
	Reason    string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: parameter %q: %s", e.Component, e.Param, e.Reason)
}

// NewConfigError builds a ConfigError naming the offending parameter.
func NewConfigError(component, param, reason string) error {
	return &ConfigError{Component: component, Param: param, Reason: reason}
}

// Wrap truncates x to a signed two's-complement integer of width bits,
// wrapping on overflow rather than saturating.
func Wrap(x int64, width int) int64 {
	if width <= 0 {
		return 0
	}
	if width >= 64 {
		return x
	}
	mask := int64(1)<<uint(width) - 1
	x &= mask
	signBit := int64(1) << uint(width-1)
	if x&signBit != 0 {
		x -= int64(1) << uint(width)
	}
	return x
}

// Truncate performs an arithmetic right shift by k bits (floor toward
// -inf), equivalent to dividing by 2^k and rounding down.
func Truncate(x int64, k int) int64 {
	if k <= 0 {
		return x
	}
	if k >= 64 {
		if x < 0 {
			return -1
		}
		return 0
	}
	return x >> uint(k)
}

// RoundHalfUp adds 2^(k-1) before truncating by k bits, i.e. "round
// half up". k == 0 is a no-op.
func RoundHalfUp(x int64, k int) int64 {
	if k <= 0 {
		return x
	}
	return Truncate(x+int64(1)<<uint(k-1), k)
}

// MinValue and MaxValue give the representable range of a signed
// two's-complement integer of the given width.
func MinValue(width int) int64 {
	if width <= 0 {
		return 0
	}
	return -(int64(1) << uint(width-1))
}

func MaxValue(width int) int64 {
	if width <= 0 {
		return 0
	}
	return int64(1)<<uint(width-1) - 1
}

// Complex is a pair of independent signed integers of a declared width.
type Complex struct {
	Re, Im int64
}

// AmplitudeOK reports whether the Euclidean amplitude of c does not
// exceed the positive maximum representable at the given width, the
// constraint several stages impose to avoid overflow after
// multiplication by a unit-magnitude twiddle.
func (c Complex) AmplitudeOK(width int) bool {
	max := MaxValue(width)
	return c.Re*c.Re+c.Im*c.Im <= max*max
}

// WrapTo wraps both components of c to width bits.
func (c Complex) WrapTo(width int) Complex {
	return Complex{Re: Wrap(c.Re, width), Im: Wrap(c.Im, width)}
}
