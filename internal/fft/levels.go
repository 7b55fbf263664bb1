package fft

import (
	"github.com/doismellburning/sdrcore/internal/butterfly"
	"github.com/doismellburning/sdrcore/internal/fixedpoint"
	"github.com/doismellburning/sdrcore/internal/twiddle"
	"github.com/doismellburning/sdrcore/internal/window"
)

// r2Level adapts an R2SDF (mux_control bool, derived from the top bit
// of a period-2^order counter) to the level interface.
type r2Level struct {
	bf    *butterfly.R2SDF
	order int
}

func (l *r2Level) advance(idx int, in fixedpoint.Complex) (fixedpoint.Complex, bool) {
	half := 1 << uint(l.order-1)
	return l.bf.Advance(idx >= half, false, in), true
}
func (l *r2Level) delay() int        { return l.bf.Delay() }
func (l *r2Level) period() int       { return 1 << uint(l.order) }
func (l *r2Level) outputWidth() int  { return l.bf.OutputWidth() }

// r4Level adapts an R4SDF (mux_control true only in the last quarter
// of a period-4^order counter).
type r4Level struct {
	bf    *butterfly.R4SDF
	order int
}

func (l *r4Level) advance(idx int, in fixedpoint.Complex) (fixedpoint.Complex, bool) {
	quarter := 1 << uint(2*(l.order-1))
	return l.bf.Advance(idx >= 3*quarter, false, in), true
}
func (l *r4Level) delay() int       { return l.bf.Delay() }
func (l *r4Level) period() int      { return 1 << uint(2*l.order) }
func (l *r4Level) outputWidth() int { return l.bf.OutputWidth() }

// r22Level adapts an R22SDF (2-bit mux_count, the top two bits of a
// period-4^order counter).
type r22Level struct {
	bf    *butterfly.R22SDF
	order int
}

func (l *r22Level) advance(idx int, in fixedpoint.Complex) (fixedpoint.Complex, bool) {
	quarter := 1 << uint(2*(l.order-1))
	return l.bf.Advance(idx/quarter, in), true
}
func (l *r22Level) delay() int       { return l.bf.Delay() }
func (l *r22Level) period() int      { return 1 << uint(2*l.order) }
func (l *r22Level) outputWidth() int { return l.bf.OutputWidth() }

// twiddleLevel adapts the general Twiddle multiplier.
type twiddleLevel struct {
	t   *twiddle.Twiddle
	per int
}

func (l *twiddleLevel) advance(idx int, in fixedpoint.Complex) (fixedpoint.Complex, bool) {
	return l.t.Advance(idx, in)
}
func (l *twiddleLevel) delay() int       { return l.t.Delay() }
func (l *twiddleLevel) period() int      { return l.per }
func (l *twiddleLevel) outputWidth() int { return l.t.OutputWidth() }

// twiddleILevel adapts the TwiddleI (x1/x-i) specialisation used
// after the final radix-2 butterfly; it has a fixed period-4 index.
type twiddleILevel struct {
	t *twiddle.TwiddleI
}

func (l *twiddleILevel) advance(idx int, in fixedpoint.Complex) (fixedpoint.Complex, bool) {
	return l.t.Advance(idx, in), true
}
func (l *twiddleILevel) delay() int       { return l.t.Delay() }
func (l *twiddleILevel) period() int      { return 4 }
func (l *twiddleILevel) outputWidth() int { return l.t.Width }

// windowLevel adapts the windowing stage; its coefficient index
// cycles with the same period as the overall transform size.
type windowLevel struct {
	w   *window.Window
	per int
}

func (l *windowLevel) advance(idx int, in fixedpoint.Complex) (fixedpoint.Complex, bool) {
	return l.w.Advance(idx, in)
}
func (l *windowLevel) delay() int       { return l.w.Delay() }
func (l *windowLevel) period() int      { return l.per }
func (l *windowLevel) outputWidth() int { return l.w.OutputWidth() }
