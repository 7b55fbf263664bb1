// Package fft implements the pipelined FFT engine: an optional
// windowing stage followed by a chain of SDF butterfly stages (radix
// 2, radix 4, or radix 2^2) each (but the last) followed by a
// twiddle multiplier, per spec section 4.4. The controller logic --
// mux_control/mux_count/twiddle_index with the correct phase offset
// per stage -- is expressed as a single free-running cycle counter
// per level, offset by that level's cumulative upstream delay, rather
// than a hand-threaded state machine.
package fft

import (
	"github.com/doismellburning/sdrcore/internal/butterfly"
	"github.com/doismellburning/sdrcore/internal/fixedpoint"
	"github.com/doismellburning/sdrcore/internal/twiddle"
	"github.com/doismellburning/sdrcore/internal/window"
)

// Params fully describes one FFT engine instance. The size is fixed
// at construction, matching the "no runtime-variable FFT size"
// non-goal.
type Params struct {
	Win          int    // input sample width
	Order        int    // log2(N)
	Radix        string // "2", "4", or "r22"
	TwiddleWidth int
	Truncates    []int // one per butterfly stage

	// Window, if non-nil, prepends a windowing stage.
	Window *WindowParams

	// TwiddleStorage selects "lut" (default) or "bram" read latency
	// for every twiddle table in the engine.
	TwiddleStorage string
}

// WindowParams configures the optional windowing stage.
type WindowParams struct {
	Name       string
	CoeffWidth int
}

// level is the shared capability of every pipeline position (window,
// butterfly, twiddle): consume one sample at the given free-running
// cycle index (already offset to this level's own phase) and produce
// one output sample, Delay cycles later.
type level interface {
	advance(idx int, in fixedpoint.Complex) (fixedpoint.Complex, bool)
	delay() int
	period() int
	outputWidth() int
}

// Engine is a complete fixed-size pipelined FFT: windowing (optional)
// + chained SDF butterflies + interstage twiddles.
type Engine struct {
	N             int
	Order         int
	Radix         string
	OutWidth      int
	Delay         int
	NumStages     int
	levels        []level
	delayBefore   []int
	tick          int64
}

// New builds an FFT engine from p. Rejects configuration errors at
// construction time: order not divisible by the radix's log2, a
// truncate schedule of the wrong length, or an unrecognised radix.
func New(p Params) (*Engine, error) {
	if p.Order < 1 {
		return nil, fixedpoint.NewConfigError("fft.Engine", "Order", "must be >= 1")
	}
	radixLog2, numStages, err := radixShape(p.Radix, p.Order)
	if err != nil {
		return nil, err
	}
	if len(p.Truncates) != numStages {
		return nil, fixedpoint.NewConfigError("fft.Engine", "Truncates", "must have one entry per butterfly stage")
	}
	storage := p.TwiddleStorage
	if storage == "" {
		storage = "lut"
	}

	e := &Engine{N: 1 << uint(p.Order), Order: p.Order, Radix: p.Radix, NumStages: numStages}

	width := p.Win
	var delayAcc int

	if p.Window != nil {
		w, werr := window.NewWindow(p.Order, width, p.Window.CoeffWidth, p.Window.Name)
		if werr != nil {
			return nil, werr
		}
		e.levels = append(e.levels, &windowLevel{w: w, per: e.N})
		e.delayBefore = append(e.delayBefore, delayAcc)
		delayAcc += w.Delay()
		width = w.OutputWidth()
	}

	for s := 0; s < numStages; s++ {
		localOrder := numStages - s
		last := s == numStages-1
		trunc := p.Truncates[s]

		switch radixLog2 {
		case 1:
			bf, berr := butterfly.NewR2SDF(localOrder, width, trunc, false)
			if berr != nil {
				return nil, berr
			}
			e.levels = append(e.levels, &r2Level{bf: bf, order: localOrder})
			e.delayBefore = append(e.delayBefore, delayAcc)
			delayAcc += bf.Delay()
			width = bf.OutputWidth()

			if last {
				ti := twiddle.NewTwiddleI(width)
				e.levels = append(e.levels, &twiddleILevel{t: ti})
				e.delayBefore = append(e.delayBefore, delayAcc)
				delayAcc += ti.Delay()
			} else {
				tw, terr := twiddle.NewTwiddle(localOrder, 1, width, p.TwiddleWidth, storage, false)
				if terr != nil {
					return nil, terr
				}
				e.levels = append(e.levels, &twiddleLevel{t: tw, per: 1 << uint(localOrder)})
				e.delayBefore = append(e.delayBefore, delayAcc)
				delayAcc += tw.Delay()
				width = tw.OutputWidth()
			}

		case 2:
			if p.Radix == "r22" {
				bf, berr := butterfly.NewR22SDF(localOrder, width, trunc, trunc)
				if berr != nil {
					return nil, berr
				}
				e.levels = append(e.levels, &r22Level{bf: bf, order: localOrder})
				e.delayBefore = append(e.delayBefore, delayAcc)
				delayAcc += bf.Delay()
				width = bf.OutputWidth()
			} else {
				bf, berr := butterfly.NewR4SDF(localOrder, width, trunc)
				if berr != nil {
					return nil, berr
				}
				e.levels = append(e.levels, &r4Level{bf: bf, order: localOrder})
				e.delayBefore = append(e.delayBefore, delayAcc)
				delayAcc += bf.Delay()
				width = bf.OutputWidth()
			}

			if !last {
				tw, terr := twiddle.NewTwiddle(localOrder, 2, width, p.TwiddleWidth, storage, p.Radix == "r22")
				if terr != nil {
					return nil, terr
				}
				e.levels = append(e.levels, &twiddleLevel{t: tw, per: 1 << uint(2*localOrder)})
				e.delayBefore = append(e.delayBefore, delayAcc)
				delayAcc += tw.Delay()
				width = tw.OutputWidth()
			}
		}
	}

	e.OutWidth = width
	e.Delay = delayAcc
	return e, nil
}

func radixShape(radix string, order int) (radixLog2, numStages int, err error) {
	switch radix {
	case "2":
		return 1, order, nil
	case "4", "r22":
		if order%2 != 0 {
			return 0, 0, fixedpoint.NewConfigError("fft.Engine", "Order", "must be divisible by radix log2 (2) for radix 4/r22")
		}
		return 2, order / 2, nil
	default:
		return 0, 0, fixedpoint.NewConfigError("fft.Engine", "Radix", "must be \"2\", \"4\", or \"r22\"")
	}
}

func mod(x, m int) int {
	r := x % m
	if r < 0 {
		r += m
	}
	return r
}

// Advance consumes one sample per cycle, streaming continuously: it
// is valid to call Advance forever, with transforms pipelined back to
// back. Returns the output sample, whether it is the last sample of
// its transform (out_last), and whether the pipeline has filled
// enough to produce a valid output yet.
func (e *Engine) Advance(in fixedpoint.Complex) (out fixedpoint.Complex, outLast bool, valid bool) {
	t := e.tick
	e.tick++

	cur := in
	curValid := true
	for i, lv := range e.levels {
		idx := mod(int(t)-e.delayBefore[i], lv.period())
		o, v := lv.advance(idx, cur)
		cur = o
		curValid = curValid && v
	}

	outT := int(t) - e.Delay
	valid = curValid && outT >= 0
	outLast = valid && mod(outT, e.N) == e.N-1
	return cur, outLast, valid
}

// OutputBin maps the position of a sample within its transform's
// emission order (0..N-1, DIF order) to its natural (pre-reversal)
// bin index: bit-reversal for radix 2, digit-reversal (base 4) for
// radix 4/r22.
func (e *Engine) OutputBin(emissionIndex int) int {
	if e.Radix == "2" {
		return bitReverse(emissionIndex, e.Order)
	}
	return digitReverse(emissionIndex, e.NumStages)
}

func bitReverse(x, bits int) int {
	r := 0
	for i := 0; i < bits; i++ {
		r = (r << 1) | (x & 1)
		x >>= 1
	}
	return r
}

// digitReverse reverses nDigits base-4 digits of x.
func digitReverse(x, nDigits int) int {
	r := 0
	for i := 0; i < nDigits; i++ {
		r = (r << 2) | (x & 3)
		x >>= 2
	}
	return r
}
