// Package ddc implements the digital down-converter: the NCO mixer
// and the three-stage polyphase FIR decimator, per spec section 4.6.
package ddc

import (
	"math"

	"github.com/doismellburning/sdrcore/internal/fixedpoint"
	"github.com/doismellburning/sdrcore/internal/mem"
	"github.com/doismellburning/sdrcore/internal/pipeline"
)

const (
	phaseWidth = 28
	lutAddrBits = 10
	lutSize     = 1 << lutAddrBits
)

// FrequencyWord converts a tuning frequency expressed in cycles per
// sample (e.g. +0.01 for a tone at 1% of the sample rate) to the
// 28-bit phase-increment word the mixer's NCO expects.
func FrequencyWord(cyclesPerSample float64) uint32 {
	const span = float64(uint32(1) << phaseWidth)
	w := math.Round(cyclesPerSample * span)
	return uint32(int64(w)) & (1<<phaseWidth - 1)
}

// Mixer is a 28-bit phase-accumulator NCO driving a complex multiply
// by the conjugate of the looked-up phasor, shifting the programmed
// frequency to DC.
type Mixer struct {
	Width        int // sample width in/out
	TwiddleWidth int

	phaseAcc uint32
	freqWord uint32

	lut        *mem.ReadPort[fixedpoint.Complex]
	inputDelay *pipeline.Delay[fixedpoint.Complex]
}

// NewMixer builds a mixer for the given sample and LUT coefficient
// width. The LUT models a BRAM with transparent=false and an output
// register, i.e. one cycle of read latency.
func NewMixer(width, twiddleWidth int) *Mixer {
	table := make([]fixedpoint.Complex, lutSize)
	scale := float64(int64(1) << uint(twiddleWidth-1) - 1)
	for k := 0; k < lutSize; k++ {
		angle := 2 * math.Pi * float64(k) / float64(lutSize)
		table[k] = fixedpoint.Complex{
			Re: int64(math.Round(scale * math.Cos(angle))),
			Im: int64(math.Round(scale * math.Sin(angle))),
		}
	}
	return &Mixer{
		Width:        width,
		TwiddleWidth: twiddleWidth,
		lut:          mem.NewReadPort(table, 1),
		inputDelay:   pipeline.NewDelay[fixedpoint.Complex](1),
	}
}

// SetFrequency programs the 28-bit frequency word (register field
// ddc_frequency).
func (m *Mixer) SetFrequency(word uint32) { m.freqWord = word & (1<<phaseWidth - 1) }

// Advance consumes one input sample, multiplies it by the conjugate
// of the current phasor, and advances the phase accumulator.
// Truncation of the extra LSB from the complex product is rounded
// half-up, per spec section 4.6.
func (m *Mixer) Advance(in fixedpoint.Complex) (out fixedpoint.Complex, valid bool) {
	addr := int(m.phaseAcc >> uint(phaseWidth-lutAddrBits))
	phasor, phValid := m.lut.Advance(addr)
	delayed, inValid := m.inputDelay.Push(in)

	conj := fixedpoint.Complex{Re: phasor.Re, Im: -phasor.Im}
	re := fixedpoint.RoundHalfUp(delayed.Re*conj.Re-delayed.Im*conj.Im, m.TwiddleWidth-1)
	im := fixedpoint.RoundHalfUp(delayed.Re*conj.Im+delayed.Im*conj.Re, m.TwiddleWidth-1)

	m.phaseAcc = (m.phaseAcc + m.freqWord) & (1<<phaseWidth - 1)

	return fixedpoint.Complex{Re: re, Im: im}.WrapTo(m.Width), phValid && inValid
}

func (m *Mixer) Delay() int { return m.lut.Latency() }
