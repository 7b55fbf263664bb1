package ddc

import (
	"github.com/doismellburning/sdrcore/internal/fixedpoint"
	"github.com/doismellburning/sdrcore/internal/mem"
)

// FIRStage is one polyphase-decimating FIR stage. FIR4DSP (two
// multipliers per output) and FIR2DSP (one multiplier per output) are
// the same behaviour at different throughput; per spec section 4.1's
// "throughput-reduced variant" allowance, this models both as a
// direct-form decimating filter producing one bit-accurate output
// every Decimation input samples, with the declared half-up rounded
// truncation.
type FIRStage struct {
	Decimation int
	Taps       int
	TruncBits  int

	kind        FIRKind
	coeffs      *mem.CoeffMem
	history     []fixedpoint.Complex
	pos         int
	sampleCount int
	bypass      bool
}

// FIRKind selects the DSP-slice shape used for tap-count accounting:
// FIR4DSP processes two taps per cycle (operations_minus_one +
// odd_operations suppressing the second multiply on the last
// operation); FIR2DSP processes one tap per cycle.
type FIRKind int

const (
	FIR4DSP FIRKind = iota
	FIR2DSP
)

// NewFIRStage builds a stage from the register map's runtime fields:
// operationsMinusOne (the MACC cycle count minus one) and, for
// FIR4DSP, oddOperations (true if the last operation only issues one
// of its two multiplies, for an odd total tap count).
func NewFIRStage(kind FIRKind, operationsMinusOne int, oddOperations bool, decimation, truncBits int) (*FIRStage, error) {
	if decimation < 1 {
		return nil, fixedpoint.NewConfigError("ddc.FIRStage", "decimation", "must be >= 1")
	}
	operations := operationsMinusOne + 1
	var taps int
	switch kind {
	case FIR4DSP:
		taps = 2 * operations
		if oddOperations {
			taps--
		}
	case FIR2DSP:
		taps = operations
	default:
		return nil, fixedpoint.NewConfigError("ddc.FIRStage", "kind", "unknown FIR DSP kind")
	}
	if taps < 1 {
		return nil, fixedpoint.NewConfigError("ddc.FIRStage", "operationsMinusOne", "produces zero taps")
	}
	return &FIRStage{
		Decimation: decimation,
		Taps:       taps,
		TruncBits:  truncBits,
		kind:       kind,
		coeffs:     mem.NewCoeffMem(18, taps),
		history:    make([]fixedpoint.Complex, taps),
	}, nil
}

// WriteCoeff stores a signed coefficient at the given tap index
// (host-side access, ahead of enabling the DDC).
func (f *FIRStage) WriteCoeff(tap int, value int64) { f.coeffs.Write(tap, value) }

// SetBypass bypasses this stage at runtime (stages 2 and 3 may be
// bypassed independently per spec section 4.6).
func (f *FIRStage) SetBypass(bypass bool) { f.bypass = bypass }

// SetOperations reconfigures the stage's tap count from the register
// map's operationsMinusOne/oddOperations fields, the same computation
// NewFIRStage performs at construction. Changing the tap count
// reallocates the coefficient memory and tap history and resets the
// stage's position within its decimation cycle; it is a no-op when the
// tap count is unchanged, so re-syncing unwritten (reset-value)
// registers never disturbs a running stage.
func (f *FIRStage) SetOperations(operationsMinusOne int, oddOperations bool) {
	operations := operationsMinusOne + 1
	taps := operations
	if f.kind == FIR4DSP {
		taps = 2 * operations
		if oddOperations {
			taps--
		}
	}
	if taps < 1 {
		taps = 1
	}
	if taps == f.Taps {
		return
	}
	f.Taps = taps
	f.coeffs = mem.NewCoeffMem(18, taps)
	f.history = make([]fixedpoint.Complex, taps)
	f.pos = 0
	f.sampleCount = 0
}

// Push consumes one input sample. It returns an output sample only
// once every Decimation pushes (decimation boundary); otherwise valid
// is false.
func (f *FIRStage) Push(in fixedpoint.Complex) (out fixedpoint.Complex, valid bool) {
	if f.bypass {
		return in, true
	}

	f.history[f.pos] = in
	f.pos = (f.pos + 1) % len(f.history)
	f.sampleCount++
	if f.sampleCount%f.Decimation != 0 {
		return fixedpoint.Complex{}, false
	}

	roundInit := int64(0)
	if f.TruncBits > 0 {
		roundInit = int64(1) << uint(f.TruncBits-1)
	}
	accRe, accIm := roundInit, roundInit
	for k := 0; k < len(f.history); k++ {
		idx := (f.pos + k) % len(f.history) // oldest-to-newest order
		c := f.coeffs.Read(k)
		s := f.history[idx]
		accRe += s.Re * c
		accIm += s.Im * c
	}
	return fixedpoint.Complex{
		Re: fixedpoint.Truncate(accRe, f.TruncBits),
		Im: fixedpoint.Truncate(accIm, f.TruncBits),
	}, true
}
