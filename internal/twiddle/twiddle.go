// Package twiddle implements the twiddle-factor multipliers that sit
// between FFT butterfly stages: the general Twiddle (LUT/BRAM table
// plus a complex multiplier) and the TwiddleI specialisation for the
// unit-magnitude x1/x(-i) factor.
package twiddle

import (
	"math"

	"github.com/doismellburning/sdrcore/internal/arith"
	"github.com/doismellburning/sdrcore/internal/fixedpoint"
	"github.com/doismellburning/sdrcore/internal/mem"
	"github.com/doismellburning/sdrcore/internal/pipeline"
)

// TwiddleI multiplies by 1, or by -i when twiddle_index == 3. It is a
// single registered mux; internal/fft places it after the final
// radix-2 butterfly.
type TwiddleI struct {
	Width int

	reReg, imReg int64
}

func NewTwiddleI(width int) *TwiddleI { return &TwiddleI{Width: width} }

func (t *TwiddleI) Delay() int { return 1 }

// Advance consumes one sample and its 2-bit twiddle index, returning
// the output from one cycle ago (the register's prior contents).
func (t *TwiddleI) Advance(twiddleIndex int, in fixedpoint.Complex) fixedpoint.Complex {
	out := fixedpoint.Complex{Re: t.reReg, Im: t.imReg}
	var newRe, newIm int64
	if twiddleIndex&3 == 3 {
		newRe, newIm = in.Im, -in.Re
	} else {
		newRe, newIm = in.Re, in.Im
	}
	t.reReg = fixedpoint.Wrap(newRe, t.Width)
	t.imReg = fixedpoint.Wrap(newIm, t.Width)
	return out
}

// Twiddle multiplies an incoming sample by a stored root-of-unity
// factor selected by twiddle_index, one full period of the butterfly
// stage it feeds.
//
// The table storage backend (LUT, latency 0, or BRAM with an output
// register, latency 2) is a modelling choice exposed through
// ReadLatency; unlike the original hardware description, which leans
// on callers pre-skewing twiddle_index ahead of the corresponding
// sample by that same latency, this type absorbs the skew internally
// by delaying the sample stream to match the table read, so Advance's
// two arguments always refer to the same logical sample.
type Twiddle struct {
	Order         int
	RadixLog2     int
	SampleWidth   int
	TwiddleWidth  int
	R22Mode       bool
	Storage       string // "lut" or "bram"
	ReadLatency   int

	table      *mem.ReadPort[fixedpoint.Complex]
	inputDelay *pipeline.Delay[fixedpoint.Complex]
	cmult      *arith.Cmult
	halfTable  bool
	fullLen    int
}

// NewTwiddle builds a twiddle multiplier. order and radixLog2 together
// determine the period (2^(radixLog2*order)) and the roots of unity
// stored; r22Mode reorders the stored table to match an R2²SDF's
// output permutation instead of a plain R4SDF's.
func NewTwiddle(order, radixLog2, sampleWidth, twiddleWidth int, storage string, r22Mode bool) (*Twiddle, error) {
	if order < 1 {
		return nil, fixedpoint.NewConfigError("Twiddle", "order", "must be >= 1")
	}
	if r22Mode && radixLog2 != 2 {
		return nil, fixedpoint.NewConfigError("Twiddle", "r22Mode", "requires radixLog2 == 2")
	}
	if storage != "lut" && storage != "bram" {
		return nil, fixedpoint.NewConfigError("Twiddle", "storage", "must be \"lut\" or \"bram\"")
	}

	trunc := twiddleWidth - 2
	fullRe, fullIm := twiddlesFull(order, radixLog2, r22Mode, twiddleWidth)
	fullLen := len(fullRe)

	halfTable := radixLog2 == 1
	re, im := fullRe, fullIm
	if halfTable {
		re, im = fullRe[fullLen/2:], fullIm[fullLen/2:]
	}
	table := make([]fixedpoint.Complex, len(re))
	for i := range re {
		table[i] = fixedpoint.Complex{Re: re[i], Im: im[i]}
	}

	readLatency := 0
	if storage == "bram" {
		readLatency = 2
	}

	return &Twiddle{
		Order:        order,
		RadixLog2:    radixLog2,
		SampleWidth:  sampleWidth,
		TwiddleWidth: twiddleWidth,
		R22Mode:      r22Mode,
		Storage:      storage,
		ReadLatency:  readLatency,
		table:        mem.NewReadPort(table, readLatency),
		inputDelay:   pipeline.NewDelay[fixedpoint.Complex](readLatency),
		cmult:        arith.NewCmult(sampleWidth, twiddleWidth, trunc, 3),
		halfTable:    halfTable,
		fullLen:      fullLen,
	}, nil
}

func (t *Twiddle) OutputWidth() int { return t.SampleWidth }

// Delay is the total sample-to-sample latency: the table read latency
// plus the complex multiplier's declared latency.
func (t *Twiddle) Delay() int { return t.ReadLatency + t.cmult.Latency }

func (t *Twiddle) address(twiddleIndex int) int {
	if !t.halfTable {
		return twiddleIndex
	}
	half := t.fullLen / 2
	msb := twiddleIndex&half != 0
	if !msb {
		return 0
	}
	return twiddleIndex & (half - 1)
}

// Advance consumes one sample and its twiddle index (a counter modulo
// 2^(radixLog2*order)) and returns the product, valid once the
// pipeline has filled.
func (t *Twiddle) Advance(twiddleIndex int, in fixedpoint.Complex) (out fixedpoint.Complex, valid bool) {
	tw, twValid := t.table.Advance(t.address(twiddleIndex))
	delayed, inValid := t.inputDelay.Push(in)
	product, cmultValid := t.cmult.Advance(delayed, tw)
	return product.WrapTo(t.SampleWidth), twValid && inValid && cmultValid
}

// twiddlesFull computes the full (unoptimised) table of scaled
// integer twiddle coefficients for the given order/radix/r22Mode.
func twiddlesFull(order, radixLog2 int, r22Mode bool, twiddleWidth int) (re, im []int64) {
	var jIter []int
	if r22Mode {
		jIter = []int{0, 2, 1, 3}
	} else {
		for j := 0; j < 1<<uint(radixLog2); j++ {
			jIter = append(jIter, j)
		}
	}
	kCount := 1 << uint(radixLog2*(order-1))
	scale := float64(int64(1) << uint(twiddleWidth-2))
	denom := float64(int64(1) << uint(radixLog2*order-1))

	for _, j := range jIter {
		for k := 0; k < kCount; k++ {
			angle := -math.Pi * float64(j*k) / denom
			re = append(re, int64(math.Round(scale*math.Cos(angle))))
			im = append(im, int64(math.Round(scale*math.Sin(angle))))
		}
	}
	return re, im
}
