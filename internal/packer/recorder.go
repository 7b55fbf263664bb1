package packer

import (
	"github.com/doismellburning/sdrcore/internal/fixedpoint"
	"github.com/doismellburning/sdrcore/internal/mem"
)

// Recorder drives the IQ recording datapath: bit-width packer ->
// 32-to-64 repacker -> async FIFO, feeding the stream DMA. Packer
// words are paired before they enter the FIFO, so the FIFO holds
// 64-bit words and an overflow drops a whole 64-bit word. It tracks
// the run gate and the dropped-samples sticky flag (set on FIFO
// overflow, cleared on the next run-signal rising edge), per spec
// section 4.7.
type Recorder struct {
	Packer   *Packer
	Repacker *Repacker32to64
	FIFO     *mem.AsyncFIFO

	running bool
	dropped bool
}

// NewRecorder builds a recorder for the given packer mode.
func NewRecorder(mode Mode) *Recorder {
	return &Recorder{
		Packer:   NewPacker(mode),
		Repacker: NewRepacker32to64(),
		FIFO:     mem.NewAsyncFIFO(64, 512),
	}
}

// SetRun raises or lowers the run gate. A rising edge clears the
// dropped-samples latch.
func (r *Recorder) SetRun(run bool) {
	if run && !r.running {
		r.dropped = false
		r.FIFO.ClearWriteError()
	}
	r.running = run
}

// Dropped reports whether a sample has been dropped (FIFO overflow)
// since the last run-signal rising edge.
func (r *Recorder) Dropped() bool { return r.dropped || r.FIFO.WriteError() }

// Push consumes one complex sample from the recording front-end. It
// is a no-op while the run gate is low.
func (r *Recorder) Push(sample fixedpoint.Complex) {
	if !r.running {
		return
	}
	for _, w := range r.Packer.Push(sample) {
		if word64, ok := r.Repacker.Push(w); ok {
			if r.FIFO.Full() {
				r.dropped = true
			}
			r.FIFO.Write(word64)
		}
	}
}

// Pop drains one 64-bit word from the recorder's FIFO for the stream
// DMA to burst out to host memory.
func (r *Recorder) Pop() (uint64, bool) { return r.FIFO.Read() }
