package arith

import "github.com/doismellburning/sdrcore/internal/pipeline"

// Macc is a standalone multiply-accumulate primitive; the window
// (Mult2x) and FIR stages (inline MAC) do not use it. On each valid (a, b, strobe) it either reloads the
// accumulator with round_init (first_acc) or adds a*b to it. The
// accumulator's value is only externally observable ReadLatency
// cycles after the strobe that produced it, so Step returns the
// *delayed* accumulator snapshot, not the just-updated one.
type Macc struct {
	T           int  // truncation width used to derive round_init
	RoundHalfUp bool // if true, round_init = 2^(T-1); else 0
	ReadLatency int

	acc   int64
	delay *pipeline.Delay[int64]
}

func NewMacc(t int, roundHalfUp bool, readLatency int) *Macc {
	return &Macc{T: t, RoundHalfUp: roundHalfUp, ReadLatency: readLatency, delay: pipeline.NewDelay[int64](readLatency)}
}

func (m *Macc) roundInit() int64 {
	if m.RoundHalfUp && m.T > 0 {
		return int64(1) << uint(m.T-1)
	}
	return 0
}

// Step applies one (a, b, strobe, firstAcc) cycle and returns the
// accumulator value that becomes readable this cycle (the snapshot
// from ReadLatency cycles ago), along with whether it is valid yet.
func (m *Macc) Step(a, b int64, strobe, firstAcc bool) (readable int64, valid bool) {
	if strobe {
		if firstAcc {
			m.acc = m.roundInit()
		}
		m.acc += a * b
	}
	return m.delay.Push(m.acc)
}

// Reset clears the accumulator and delay line.
func (m *Macc) Reset() {
	m.acc = 0
	m.delay.Reset()
}
