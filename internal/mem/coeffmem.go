package mem

import "github.com/doismellburning/sdrcore/internal/fixedpoint"

// CoeffMem is a single-write-port coefficient memory keyed by a flat
// address, as used by the FIR decimator's per-stage tap storage and
// the register bank's ddc_coeff_addr/ddc_coeff fields. It is owned and
// written by the host before the first sample is processed, then
// read-only to the datapath.
type CoeffMem struct {
	Width int
	taps  []int64
}

func NewCoeffMem(width, depth int) *CoeffMem {
	return &CoeffMem{Width: width, taps: make([]int64, depth)}
}

// Write stores a signed Cw-bit coefficient at addr (host-side access).
func (c *CoeffMem) Write(addr int, value int64) {
	c.taps[addr] = fixedpoint.Wrap(value, c.Width)
}

// Read returns the coefficient at addr (datapath-side access).
func (c *CoeffMem) Read(addr int) int64 {
	return c.taps[addr]
}

func (c *CoeffMem) Len() int { return len(c.taps) }

// WindowMem stores unsigned window coefficients for the left half of
// a symmetric window, read with address folding:
// addr_folded = msb ? ~lsbs : lsbs.
type WindowMem struct {
	Width   int // coeff width, Cw bits, unsigned
	halfLen int // number of addressable indices = 2^(order-1)
	coeffs  []uint64
}

// NewWindowMem builds a window memory for a transform of the given
// order (log2 of the number of samples). Only the left half (2^(order-1)
// entries) is stored.
func NewWindowMem(width, order int) *WindowMem {
	halfLen := 1 << uint(order-1)
	return &WindowMem{Width: width, halfLen: halfLen, coeffs: make([]uint64, halfLen)}
}

// Write stores an unsigned coefficient at the given left-half index.
// Negative coefficients are disallowed.
func (w *WindowMem) Write(index int, value uint64) {
	mask := uint64(1)<<uint(w.Width) - 1
	w.coeffs[index] = value & mask
}

// Read performs the folded lookup for a full-range index j in
// [0, 2*halfLen): addr_folded = msb ? ~lsbs : lsbs.
func (w *WindowMem) Read(j int) uint64 {
	n := len(w.coeffs) * 2
	j &= n - 1
	msb := j >= w.halfLen
	lsbs := j & (w.halfLen - 1)
	var addr int
	if msb {
		addr = (^lsbs) & (w.halfLen - 1)
	} else {
		addr = lsbs
	}
	return w.coeffs[addr]
}

func (w *WindowMem) HalfLen() int { return w.halfLen }
