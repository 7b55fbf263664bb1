// Package integrator implements the spectrum integrator: block-float
// accumulate (average) or peak-hold across N_int consecutive
// transforms, double-buffered bin memory with bit-reversal + fftshift
// address munging, and the host-visible abort input, per spec section
// 4.5. The mantissa/exponent widths default to the authoritative
// later-source sizing (47-bit mantissa, 3-bit exponent, packed into a
// 64-bit DMA beat by internal/core's packBin) noted as resolving the
// source's own inconsistency in spec section 9.
package integrator

import "github.com/doismellburning/sdrcore/internal/fixedpoint"

const (
	DefaultMantissaWidth = 47
	DefaultExpWidth      = 3
)

// Params configures one spectrum integrator instance.
type Params struct {
	N             int // number of bins; must equal the FFT size
	Win           int // FFT output sample width
	Fw            int // per-sample block-float mantissa width
	MantissaWidth int // accumulator mantissa width, 0 -> DefaultMantissaWidth
	ExpWidth      int // accumulator exponent width, 0 -> DefaultExpWidth
}

// Bin is one (mantissa, exponent) block-float power accumulator.
type Bin struct {
	Mantissa int64
	Exp      int
}

// Value returns the bin's represented power as a float64, for test
// assertions and host-side reporting; the datapath itself never
// computes this.
func (b Bin) Value() float64 {
	v := float64(b.Mantissa)
	for i := 0; i < b.Exp; i++ {
		v *= 4
	}
	return v
}

// Integrator accumulates |FFT output|^2 across N_int transforms (or
// holds the maximum) into a double-buffered bin memory.
type Integrator struct {
	p Params

	buffers     [2][]Bin
	writeBuf    int
	count       int
	numInt      int
	peakDetect  bool
	abortPend   bool
	firstSample bool
}

// New builds a spectrum integrator for an N-bin transform.
func New(p Params) (*Integrator, error) {
	if p.N <= 0 || p.N&(p.N-1) != 0 {
		return nil, fixedpoint.NewConfigError("integrator.Integrator", "N", "must be a positive power of two")
	}
	if p.Fw <= 0 || p.Fw > p.Win {
		return nil, fixedpoint.NewConfigError("integrator.Integrator", "Fw", "must be in (0, Win]")
	}
	if p.MantissaWidth == 0 {
		p.MantissaWidth = DefaultMantissaWidth
	}
	if p.ExpWidth == 0 {
		p.ExpWidth = DefaultExpWidth
	}
	in := &Integrator{p: p, numInt: 1024, firstSample: true}
	in.buffers[0] = make([]Bin, p.N)
	in.buffers[1] = make([]Bin, p.N)
	return in, nil
}

// SetNumIntegrations programs N_int (register field num_integrations,
// RW reset 0x3ff). 0 and 1 both mean "one integration", per the
// source's own ambiguity resolved in spec section 9.
func (in *Integrator) SetNumIntegrations(n int) {
	if n <= 0 {
		n = 1
	}
	in.numInt = n
}

// SetPeakDetect programs the peak_detect field.
func (in *Integrator) SetPeakDetect(peak bool) { in.peakDetect = peak }

// Abort (Wpulse field) ends the in-progress integration at the next
// FFT boundary without corrupting the bins already accumulated.
func (in *Integrator) Abort() { in.abortPend = true }

// WriteBuffer reports which of the two buffers the integrator is
// currently accumulating into.
func (in *Integrator) WriteBuffer() int { return in.writeBuf }

// ReadBuffer reports the buffer index currently available to the
// DMA -- the opposite of WriteBuffer, per the double-buffer ownership
// rule of spec section 3.
func (in *Integrator) ReadBuffer() int { return 1 - in.writeBuf }

// ReadBin reads a completed bin from the currently-readable buffer
// by buffer address (natural bin order, post-fftshift): address a
// holds natural bin a ^ N/2.
func (in *Integrator) ReadBin(bin int) Bin {
	return in.buffers[in.ReadBuffer()][bin]
}

func (in *Integrator) writeAddr(naturalBin int) int {
	return naturalBin ^ (in.p.N / 2)
}

// Advance consumes one FFT output sample at natural bin index
// naturalBin (i.e. fft.Engine.OutputBin(emissionIndex)), with
// outLast asserted on the last sample of its transform. Returns
// whether the integration's "done" pulse fires this cycle (asserted
// exactly the one cycle the buffer ownership flips).
func (in *Integrator) Advance(naturalBin int, sample fixedpoint.Complex, outLast bool) (done bool) {
	mantissa, sampleExp := Normalize(sample, in.p.Win, in.p.Fw)
	power := Power(mantissa)

	addr := in.writeAddr(naturalBin)
	wbuf := in.buffers[in.writeBuf]
	acc := wbuf[addr]

	first := in.firstSample
	if first {
		wbuf[addr] = Bin{Mantissa: power, Exp: sampleExp}
	} else if in.peakDetect {
		common, accM, sampM := equalize(acc.Mantissa, acc.Exp, power, sampleExp)
		_ = common
		if sampM >= accM {
			wbuf[addr] = Bin{Mantissa: power, Exp: sampleExp}
		}
	} else {
		common, accM, sampM := equalize(acc.Mantissa, acc.Exp, power, sampleExp)
		sum := accM + sampM
		m, e := renormalize(sum, common, in.p.MantissaWidth)
		wbuf[addr] = Bin{Mantissa: m, Exp: e}
	}

	if !outLast {
		return false
	}
	in.firstSample = false

	in.count++
	finished := in.abortPend || in.count >= in.numInt
	if !finished {
		return false
	}

	in.abortPend = false
	in.count = 0
	in.firstSample = true
	in.writeBuf = 1 - in.writeBuf
	return true
}
