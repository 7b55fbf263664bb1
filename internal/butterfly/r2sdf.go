package butterfly

import (
	"github.com/doismellburning/sdrcore/internal/fixedpoint"
	"github.com/doismellburning/sdrcore/internal/mem"
)

// R2SDF is a radix-2 single-delay-feedback butterfly. Its mux_control
// input should be low for the first 2^(order-1) input samples and high
// for the next 2^(order-1): low while the delay line is filling with
// raw input, high while it drains sums/differences against the
// incoming sample.
//
// When bf2ii is set, this is the second half of an R2²SDF pair: the
// -i twiddle multiplication ahead of it is absorbed by swapping which
// of the imaginary sum/difference goes to the buffer versus the
// output, keyed on iControl; the real part is not swapped.
type R2SDF struct {
	Order     int
	Width     int
	Truncate  int
	Bf2ii     bool
	buf       *mem.SampleBuffer[fixedpoint.Complex]
	buffWidth int
}

// NewR2SDF builds a radix-2 butterfly for the given order (2^order is
// the number of samples the butterfly spans).
func NewR2SDF(order, width, truncate int, bf2ii bool) (*R2SDF, error) {
	if order < 1 {
		return nil, fixedpoint.NewConfigError("R2SDF", "order", "must be >= 1")
	}
	if width < 1 {
		return nil, fixedpoint.NewConfigError("R2SDF", "width", "must be >= 1")
	}
	outWidth := width + 1 - truncate
	buffWidth := width
	if outWidth > buffWidth {
		buffWidth = outWidth
	}
	return &R2SDF{
		Order:     order,
		Width:     width,
		Truncate:  truncate,
		Bf2ii:     bf2ii,
		buf:       mem.NewSampleBuffer[fixedpoint.Complex](1 << uint(order-1)),
		buffWidth: buffWidth,
	}, nil
}

func (r *R2SDF) OutputWidth() int { return r.Width + 1 - r.Truncate }

func (r *R2SDF) Delay() int { return 1 << uint(r.Order-1) }

// Advance consumes one input sample and produces one output sample,
// advancing the internal delay line by one position.
func (r *R2SDF) Advance(muxControl, iControl bool, in fixedpoint.Complex) fixedpoint.Complex {
	tail := r.buf.Tail()

	opPlus := fixedpoint.Truncate(tail.Im+in.Im, r.Truncate)
	opMinus := fixedpoint.Truncate(tail.Im-in.Im, r.Truncate)

	var buffImNext, outIm int64
	if r.Bf2ii {
		if iControl {
			buffImNext, outIm = opPlus, opMinus
		} else {
			buffImNext, outIm = opMinus, opPlus
		}
	} else {
		buffImNext, outIm = opMinus, opPlus
	}

	var buffReIn, reOut int64
	var buffImIn, imOut int64
	if muxControl {
		buffReIn = fixedpoint.Truncate(tail.Re-in.Re, r.Truncate)
		buffImIn = buffImNext
		reOut = fixedpoint.Truncate(tail.Re+in.Re, r.Truncate)
		imOut = outIm
	} else {
		buffReIn = in.Re
		buffImIn = in.Im
		reOut = tail.Re
		imOut = tail.Im
	}

	next := fixedpoint.Complex{Re: buffReIn, Im: buffImIn}.WrapTo(r.buffWidth)
	r.buf.Shift(next)

	return fixedpoint.Complex{Re: reOut, Im: imOut}.WrapTo(r.OutputWidth())
}
