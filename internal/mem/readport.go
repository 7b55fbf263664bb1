package mem

import "github.com/doismellburning/sdrcore/internal/pipeline"

// ReadPort models a read-only memory backend with a declared address-
// to-data latency: LUT (combinational, latency 0) or BRAM (address
// must be supplied `latency` cycles early), as used by the twiddle
// factor table and the DDC mixer's phasor LUT.
type ReadPort[T any] struct {
	data    []T
	latency int
	delay   *pipeline.Delay[T]
}

// NewReadPort builds a read port over data with the given latency. A
// latency of 0 is the LUT backend (combinational read); a positive
// latency models a BRAM backend whose output register advances the
// address stream `latency` cycles before the data appears.
func NewReadPort[T any](data []T, latency int) *ReadPort[T] {
	return &ReadPort[T]{data: data, latency: latency, delay: pipeline.NewDelay[T](latency)}
}

// Advance presents addr this cycle and returns the data that becomes
// valid this cycle (the read issued `latency` cycles ago), plus
// whether that data is valid yet.
func (p *ReadPort[T]) Advance(addr int) (out T, valid bool) {
	return p.delay.Push(p.data[addr])
}

// ReadCombinational performs an immediate (LUT-style) read with no
// latency applied, for callers (like the FFT controller) that already
// account for the port's declared latency in their own address
// scheduling.
func (p *ReadPort[T]) ReadCombinational(addr int) T {
	return p.data[addr]
}

func (p *ReadPort[T]) Latency() int { return p.latency }

func (p *ReadPort[T]) Len() int { return len(p.data) }
