// Package dma implements the two host-memory write engines of spec
// section 4.8: a fixed-size ring-buffer writer for the spectrometer's
// double-buffered bin memory, and a variable-length stream writer for
// the recorder.
package dma

import (
	"time"

	"github.com/doismellburning/sdrcore/internal/corelog"
	"github.com/doismellburning/sdrcore/internal/fixedpoint"
	"github.com/doismellburning/sdrcore/internal/hostmem"
	"github.com/lestrrat-go/strftime"
)

// BurstBeats is the fixed burst length, in 64-bit beats, both engines
// write per transfer.
const BurstBeats = 16

const beatBytes = 8
const bufferBytes = BurstBeats * beatBytes

// RingDMA cycles spectrometer buffers through a power-of-two ring in
// host memory, incrementing the last-completed-buffer counter after
// each burst.
type RingDMA struct {
	Mem      *hostmem.Image
	BaseAddr uint64
	RingSize int // 2^B buffers

	lastBuffer int // -1 before the first completed buffer
	busy       bool

	// TimestampFormat, when non-empty, is an strftime pattern used to
	// stamp each completed buffer's log line. Log is the destination;
	// both must be set to enable logging.
	TimestampFormat string
	Log             *corelog.Logger
}

// NewRingDMA builds a ring writer of 2^ringBits buffers starting at
// baseAddr, which must be aligned to one buffer (16 beats).
func NewRingDMA(mem *hostmem.Image, baseAddr uint64, ringBits int) (*RingDMA, error) {
	if ringBits < 0 {
		return nil, fixedpoint.NewConfigError("dma.RingDMA", "ringBits", "must be >= 0")
	}
	if baseAddr%bufferBytes != 0 {
		return nil, fixedpoint.NewConfigError("dma.RingDMA", "baseAddr", "must be aligned to the buffer size")
	}
	ringSize := 1 << uint(ringBits)
	if baseAddr+uint64(ringSize*bufferBytes) > uint64(mem.Size()) {
		return nil, fixedpoint.NewConfigError("dma.RingDMA", "baseAddr", "ring extends past the end of host memory")
	}
	return &RingDMA{Mem: mem, BaseAddr: baseAddr, RingSize: ringSize, lastBuffer: -1}, nil
}

// Busy reports whether a burst write is in flight. Bursts complete
// synchronously in this model, so Busy is only ever observed false
// between WriteBuffer calls; it is exposed for register-map wiring.
func (r *RingDMA) Busy() bool { return r.busy }

// WriteBuffer writes one burst (exactly BurstBeats beats) to the next
// buffer in the ring and returns that buffer's index.
func (r *RingDMA) WriteBuffer(data [BurstBeats]uint64) int {
	r.busy = true
	next := (r.lastBuffer + 1) % r.RingSize
	addr := r.BaseAddr + uint64(next*bufferBytes)
	for i, d := range data {
		r.Mem.WriteBeat(addr+uint64(i*beatBytes), d)
	}
	r.lastBuffer = next
	r.busy = false
	r.logCompletion(next)
	return next
}

func (r *RingDMA) logCompletion(index int) {
	if r.Log == nil || r.TimestampFormat == "" {
		return
	}
	stamp, err := strftime.Format(r.TimestampFormat, time.Now())
	if err != nil {
		r.Log.Warn("ring buffer completed, timestamp format error", "index", index, "err", err)
		return
	}
	r.Log.Info("ring buffer completed", "index", index, "at", stamp)
}

// LastCompletedBuffer is the register map's "last buffer" counter.
func (r *RingDMA) LastCompletedBuffer() int { return r.lastBuffer }

// BufferAddr returns the host-memory address of the given ring slot.
func (r *RingDMA) BufferAddr(index int) uint64 {
	return r.BaseAddr + uint64(index*bufferBytes)
}
