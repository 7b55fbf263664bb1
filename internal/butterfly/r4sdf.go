package butterfly

import (
	"github.com/doismellburning/sdrcore/internal/fixedpoint"
	"github.com/doismellburning/sdrcore/internal/mem"
)

// R4SDF is a radix-4 single-delay-feedback butterfly: three chained
// delay lines of length 4^(order-1), draining four linear
// combinations of the last four samples once mux_control goes high.
// iControl has no meaning for a radix-4 stage; R4SDF.Advance accepts
// and ignores it so it satisfies Stage alongside R2SDF.
type R4SDF struct {
	Order     int
	Width     int
	Truncate  int
	buf0      *mem.SampleBuffer[fixedpoint.Complex]
	buf1      *mem.SampleBuffer[fixedpoint.Complex]
	buf2      *mem.SampleBuffer[fixedpoint.Complex]
	buffWidth int
}

func NewR4SDF(order, width, truncate int) (*R4SDF, error) {
	if order < 1 {
		return nil, fixedpoint.NewConfigError("R4SDF", "order", "must be >= 1")
	}
	if width < 1 {
		return nil, fixedpoint.NewConfigError("R4SDF", "width", "must be >= 1")
	}
	outWidth := width + 2 - truncate
	buffWidth := width
	if outWidth > buffWidth {
		buffWidth = outWidth
	}
	buffLen := 1 << uint(2*(order-1))
	return &R4SDF{
		Order:     order,
		Width:     width,
		Truncate:  truncate,
		buf0:      mem.NewSampleBuffer[fixedpoint.Complex](buffLen),
		buf1:      mem.NewSampleBuffer[fixedpoint.Complex](buffLen),
		buf2:      mem.NewSampleBuffer[fixedpoint.Complex](buffLen),
		buffWidth: buffWidth,
	}, nil
}

func (r *R4SDF) OutputWidth() int { return r.Width + 2 - r.Truncate }

func (r *R4SDF) Delay() int { return 3 * r.buf0.Len() }

func (r *R4SDF) Advance(muxControl, _ bool, in fixedpoint.Complex) fixedpoint.Complex {
	x0 := r.buf2.Tail()
	x1 := r.buf1.Tail()
	x2 := r.buf0.Tail()
	x3 := in

	var out, next0, next1, next2 fixedpoint.Complex
	if muxControl {
		out = fixedpoint.Complex{
			Re: fixedpoint.Truncate(x0.Re+x1.Re+x2.Re+x3.Re, r.Truncate),
			Im: fixedpoint.Truncate(x0.Im+x1.Im+x2.Im+x3.Im, r.Truncate),
		}
		next2 = fixedpoint.Complex{
			Re: fixedpoint.Truncate(x0.Re+x1.Im-x2.Re-x3.Im, r.Truncate),
			Im: fixedpoint.Truncate(x0.Im-x1.Re-x2.Im+x3.Re, r.Truncate),
		}
		next1 = fixedpoint.Complex{
			Re: fixedpoint.Truncate(x0.Re-x1.Re+x2.Re-x3.Re, r.Truncate),
			Im: fixedpoint.Truncate(x0.Im-x1.Im+x2.Im-x3.Im, r.Truncate),
		}
		next0 = fixedpoint.Complex{
			Re: fixedpoint.Truncate(x0.Re-x1.Im-x2.Re+x3.Im, r.Truncate),
			Im: fixedpoint.Truncate(x0.Im+x1.Re-x2.Im-x3.Re, r.Truncate),
		}
	} else {
		out = x0
		next2 = x1
		next1 = x2
		next0 = in
	}

	r.buf0.Shift(next0.WrapTo(r.buffWidth))
	r.buf1.Shift(next1.WrapTo(r.buffWidth))
	r.buf2.Shift(next2.WrapTo(r.buffWidth))

	return out.WrapTo(r.OutputWidth())
}
