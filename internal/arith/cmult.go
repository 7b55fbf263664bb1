// Package arith implements the bit-exact arithmetic primitives shared
// across the datapath: the complex multiplier, the real-by-complex
// multiplier, the complex power/peak unit, and the multiply-accumulate
// unit. Each primitive is a closed-form function of its declared
// cycle's inputs plus a declared pipeline latency L -- the implementer
// is free to choose L, and downstream components thread the same L
// through.
package arith

import (
	"github.com/doismellburning/sdrcore/internal/fixedpoint"
	"github.com/doismellburning/sdrcore/internal/pipeline"
)

// Cmult is the complex multiplier: Aw-bit complex times Bw-bit
// complex, truncated by T bits, producing an (Aw+Bw+1-T)-bit complex
// result after a declared latency.
type Cmult struct {
	Aw, Bw, T int
	Latency   int
	karatsuba bool

	delay *pipeline.Delay[fixedpoint.Complex]
}

// NewCmult builds a direct (4-multiply) complex multiplier.
func NewCmult(aw, bw, t, latency int) *Cmult {
	return &Cmult{Aw: aw, Bw: bw, T: t, Latency: latency, delay: pipeline.NewDelay[fixedpoint.Complex](latency)}
}

// NewCmultKaratsuba builds the three-multiply common-factor variant:
// (a-b)*d etc. It is bit-exact identical to NewCmult for every input
// -- see cmult_test.go.
func NewCmultKaratsuba(aw, bw, t, latency int) *Cmult {
	c := NewCmult(aw, bw, t, latency)
	c.karatsuba = true
	return c
}

func (c *Cmult) OutputWidth() int { return c.Aw + c.Bw + 1 - c.T }

func (c *Cmult) combine(a, b fixedpoint.Complex) fixedpoint.Complex {
	var re, im int64
	if c.karatsuba {
		k1 := b.Re * (a.Re + a.Im)
		k2 := a.Re * (b.Im - b.Re)
		k3 := a.Im * (b.Re + b.Im)
		re = k1 - k3
		im = k1 + k2
	} else {
		re = a.Re*b.Re - a.Im*b.Im
		im = a.Re*b.Im + a.Im*b.Re
	}
	re = fixedpoint.Truncate(re, c.T)
	im = fixedpoint.Truncate(im, c.T)
	return fixedpoint.Complex{Re: re, Im: im}.WrapTo(c.OutputWidth())
}

// Advance applies a*b for this cycle, pushes the result through the
// declared latency, and returns the output that is valid this cycle
// (if any).
func (c *Cmult) Advance(a, b fixedpoint.Complex) (out fixedpoint.Complex, valid bool) {
	return c.delay.Push(c.combine(a, b))
}

// Eval computes a*b with no latency modelling, for use by components
// (like the FFT controller) that already account for Cmult.Latency
// explicitly in their own scheduling.
func (c *Cmult) Eval(a, b fixedpoint.Complex) fixedpoint.Complex {
	return c.combine(a, b)
}
