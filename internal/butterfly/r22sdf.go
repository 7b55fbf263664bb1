package butterfly

import (
	"github.com/doismellburning/sdrcore/internal/fixedpoint"
	"github.com/doismellburning/sdrcore/internal/pipeline"
)

// R22SDF is a radix-4 butterfly built from two chained R2SDF stages
// with a -i twiddle between them. The -i multiplication needs no
// actual multiplier: its sign flip is absorbed into the second
// R2SDF's bf2ii operations, and the remaining real/imaginary swap is
// a one-cycle commutator sitting in the interstage register.
//
// Unlike R2SDF and R4SDF, this stage is driven by a 2-bit mux_count
// rather than a single mux_control bit, so it does not implement
// Stage; it composes two Stage-shaped R2SDFs internally.
type R22SDF struct {
	Order  int
	WidthIn int
	Trunc0 int
	Trunc1 int
	wInter int

	bfly0 *R2SDF
	bfly1 *R2SDF

	reInterReg, imInterReg int64

	swapDelayMSB    *pipeline.Delay[bool]
	swapDelaySecond *pipeline.Delay[bool]
	muxDelayMSB     *pipeline.Delay[bool]
}

func NewR22SDF(order, widthIn, trunc0, trunc1 int) (*R22SDF, error) {
	if order < 1 {
		return nil, fixedpoint.NewConfigError("R22SDF", "order", "must be >= 1")
	}
	bfly0, err := NewR2SDF(2*order, widthIn, trunc0, false)
	if err != nil {
		return nil, err
	}
	wInter := widthIn + 1 - trunc0
	bfly1, err := NewR2SDF(2*order-1, wInter, trunc1, true)
	if err != nil {
		return nil, err
	}
	bfly1InputDelay := bfly0.Delay() + 1
	return &R22SDF{
		Order:           order,
		WidthIn:         widthIn,
		Trunc0:          trunc0,
		Trunc1:          trunc1,
		wInter:          wInter,
		bfly0:           bfly0,
		bfly1:           bfly1,
		swapDelayMSB:    pipeline.NewDelay[bool](bfly1InputDelay),
		swapDelaySecond: pipeline.NewDelay[bool](bfly1InputDelay - 1),
		muxDelayMSB:     pipeline.NewDelay[bool](bfly1InputDelay),
	}, nil
}

func (r *R22SDF) OutputWidth() int { return r.WidthIn + 2 - r.Trunc0 - r.Trunc1 }

// Delay accounts for both inner butterflies plus the one-cycle
// interstage register between them.
func (r *R22SDF) Delay() int { return r.bfly0.Delay() + r.bfly1.Delay() + 1 }

// Advance consumes one sample and a 2-bit mux_count (0 for the first
// 4^(order-1) samples, 1 for the next, and so on) and produces one
// output sample.
func (r *R22SDF) Advance(muxCount int, in fixedpoint.Complex) fixedpoint.Complex {
	bit0 := muxCount&1 != 0
	bit1 := muxCount&2 != 0
	allSet := muxCount&3 == 3

	bfly0Out := r.bfly0.Advance(bit1, false, in)

	swapSecondOld, _ := r.swapDelaySecond.Push(allSet)
	swapMSBOld, _ := r.swapDelayMSB.Push(allSet)
	muxOld, _ := r.muxDelayMSB.Push(bit0)

	usedInter := fixedpoint.Complex{Re: r.reInterReg, Im: r.imInterReg}
	bfly1Out := r.bfly1.Advance(muxOld, swapMSBOld, usedInter)

	var newRe, newIm int64
	if swapSecondOld {
		newRe, newIm = bfly0Out.Im, bfly0Out.Re
	} else {
		newRe, newIm = bfly0Out.Re, bfly0Out.Im
	}
	r.reInterReg = fixedpoint.Wrap(newRe, r.wInter)
	r.imInterReg = fixedpoint.Wrap(newIm, r.wInter)

	return bfly1Out
}
