// Package window implements the window-function coefficient memory
// and real-by-complex multiplier that apply a symmetric window ahead
// of the FFT engine.
package window

import (
	"math"

	"github.com/doismellburning/sdrcore/internal/arith"
	"github.com/doismellburning/sdrcore/internal/fixedpoint"
	"github.com/doismellburning/sdrcore/internal/mem"
	"github.com/doismellburning/sdrcore/internal/pipeline"
)

// Window multiplies each input sample by a coefficient drawn from a
// symmetric window function of length 2^orderLog2, storing only the
// left half (folded addressing) and scaling coefficients to
// coeffWidth-bit non-negative integers.
//
// Like Twiddle, this absorbs the coefficient memory's declared 2-cycle
// BRAM read latency internally rather than requiring the caller to
// pre-skew coeff_index ahead of the sample stream.
type Window struct {
	OrderLog2   int
	SampleWidth int
	CoeffWidth  int
	Name        string

	mem         *mem.WindowMem
	coeffDelay  *pipeline.Delay[uint64]
	inputDelay  *pipeline.Delay[fixedpoint.Complex]
	mult        *arith.Mult2x
	readLatency int
}

// NewWindow builds a window stage for a transform of size 2^orderLog2.
// name selects the window shape; coefficients must come out
// non-negative, matching the hardware's single-quadrant storage.
func NewWindow(orderLog2, sampleWidth, coeffWidth int, name string) (*Window, error) {
	if orderLog2 < 1 {
		return nil, fixedpoint.NewConfigError("Window", "orderLog2", "must be >= 1")
	}
	v := 1 << uint(orderLog2)
	coeffs, err := generateWindow(name, v, coeffWidth)
	if err != nil {
		return nil, err
	}

	wm := mem.NewWindowMem(coeffWidth, orderLog2)
	for i := 0; i < wm.HalfLen(); i++ {
		wm.Write(i, coeffs[i])
	}

	truncate := coeffWidth // sw + cw - outw, outw == sw
	const readLatency = 2
	return &Window{
		OrderLog2:   orderLog2,
		SampleWidth: sampleWidth,
		CoeffWidth:  coeffWidth,
		Name:        name,
		mem:         wm,
		coeffDelay:  pipeline.NewDelay[uint64](readLatency),
		inputDelay:  pipeline.NewDelay[fixedpoint.Complex](readLatency),
		mult:        arith.NewMult2x(sampleWidth, coeffWidth+1, truncate, 3),
		readLatency: readLatency,
	}, nil
}

func (w *Window) OutputWidth() int { return w.SampleWidth }

func (w *Window) Delay() int { return w.readLatency + w.mult.Latency }

// Advance consumes one sample and the coefficient index for this
// position in the transform (a counter modulo 2^orderLog2) and
// returns the windowed sample.
func (w *Window) Advance(coeffIndex int, in fixedpoint.Complex) (out fixedpoint.Complex, valid bool) {
	raw := w.mem.Read(coeffIndex)
	coeff, coeffValid := w.coeffDelay.Push(raw)
	sample, sampleValid := w.inputDelay.Push(in)
	product, multValid := w.mult.Advance(sample, int64(coeff))
	return product.WrapTo(w.SampleWidth), coeffValid && sampleValid && multValid
}

// generateWindow returns the scaled, rounded, non-negative integer
// coefficients of a symmetric (non-periodic) window of length n,
// scaled by 2^coeffWidth - 1.
func generateWindow(name string, n, coeffWidth int) ([]uint64, error) {
	scale := float64((uint64(1) << uint(coeffWidth)) - 1)
	out := make([]uint64, n)
	for i := 0; i < n; i++ {
		v, err := windowValue(name, i, n)
		if err != nil {
			return nil, err
		}
		if v < 0 {
			return nil, fixedpoint.NewConfigError("Window", "window", "windows with negative coefficients not supported")
		}
		out[i] = uint64(math.Round(scale * v))
	}
	return out, nil
}

func windowValue(name string, n, length int) (float64, error) {
	if length == 1 {
		return 1, nil
	}
	phase := float64(n) / float64(length-1)
	switch name {
	case "rectangular", "boxcar":
		return 1, nil
	case "hann", "hanning":
		return 0.5 - 0.5*math.Cos(2*math.Pi*phase), nil
	case "hamming":
		return 0.54 - 0.46*math.Cos(2*math.Pi*phase), nil
	case "blackman":
		return 0.42 - 0.5*math.Cos(2*math.Pi*phase) + 0.08*math.Cos(4*math.Pi*phase), nil
	case "blackmanharris", "":
		const a0, a1, a2, a3 = 0.35875, 0.48829, 0.14128, 0.01168
		return a0 - a1*math.Cos(2*math.Pi*phase) + a2*math.Cos(4*math.Pi*phase) - a3*math.Cos(6*math.Pi*phase), nil
	default:
		return 0, fixedpoint.NewConfigError("Window", "name", "unknown window \""+name+"\"")
	}
}
