package arith

import (
	"github.com/doismellburning/sdrcore/internal/fixedpoint"
	"github.com/doismellburning/sdrcore/internal/pipeline"
)

// Mult2x multiplies a complex sample by a real scalar: same contract
// as Cmult with im_b = 0, output width Cw+Rw-T.
type Mult2x struct {
	Cw, Rw, T int
	Latency   int

	delay *pipeline.Delay[fixedpoint.Complex]
}

func NewMult2x(cw, rw, t, latency int) *Mult2x {
	return &Mult2x{Cw: cw, Rw: rw, T: t, Latency: latency, delay: pipeline.NewDelay[fixedpoint.Complex](latency)}
}

func (m *Mult2x) OutputWidth() int { return m.Cw + m.Rw - m.T }

func (m *Mult2x) Eval(sample fixedpoint.Complex, scalar int64) fixedpoint.Complex {
	re := fixedpoint.Truncate(sample.Re*scalar, m.T)
	im := fixedpoint.Truncate(sample.Im*scalar, m.T)
	return fixedpoint.Complex{Re: re, Im: im}.WrapTo(m.OutputWidth())
}

func (m *Mult2x) Advance(sample fixedpoint.Complex, scalar int64) (out fixedpoint.Complex, valid bool) {
	return m.delay.Push(m.Eval(sample, scalar))
}
