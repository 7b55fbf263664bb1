package arith

import (
	"github.com/doismellburning/sdrcore/internal/fixedpoint"
	"github.com/doismellburning/sdrcore/internal/pipeline"
)

// CpwrPeak is the complex power / peak unit used by the spectrum
// integrator: computes |sample|^2, combines it with a running
// accumulator value shifted left by s, truncates by T, and in
// peak_detect mode additionally reports whether the new power is >=
// the shifted accumulator.
type CpwrPeak struct {
	W, Rw, T int
	Latency  int

	delay *pipeline.Delay[cpwrPeakOut]
}

type cpwrPeakOut struct {
	Out        int64
	IsGreater  bool
	PeakDetect bool
}

func NewCpwrPeak(w, rw, t, latency int) *CpwrPeak {
	return &CpwrPeak{W: w, Rw: rw, T: t, Latency: latency, delay: pipeline.NewDelay[cpwrPeakOut](latency)}
}

// Eval implements the closed-form expression with no latency applied.
func (c *CpwrPeak) Eval(sample fixedpoint.Complex, r int64, s int, peakDetect bool) (out int64, isGreater bool) {
	p := sample.Re*sample.Re + sample.Im*sample.Im
	shiftedR := r << uint(s)
	avgOut := fixedpoint.Truncate(p+shiftedR, c.T)
	peakOut := fixedpoint.Truncate(p, c.T)
	if peakDetect {
		out = peakOut
		isGreater = p >= shiftedR
	} else {
		out = avgOut
	}
	return out, isGreater
}

// Advance pushes this cycle's result through the declared latency.
func (c *CpwrPeak) Advance(sample fixedpoint.Complex, r int64, s int, peakDetect bool) (out int64, isGreater bool, valid bool) {
	o, ig := c.Eval(sample, r, s, peakDetect)
	result, valid := c.delay.Push(cpwrPeakOut{Out: o, IsGreater: ig, PeakDetect: peakDetect})
	return result.Out, result.IsGreater, valid
}
