package dma

import (
	"github.com/doismellburning/sdrcore/internal/fixedpoint"
	"github.com/doismellburning/sdrcore/internal/hostmem"
)

// StreamDMA writes a variable-length run of bursts between a base
// and end address, gated by a saturating outstanding-response counter
// for backpressure and draining on stop (or on reaching end_address).
type StreamDMA struct {
	Mem            *hostmem.Image
	StartAddr      uint64
	EndAddr        uint64
	MaxOutstanding int

	nextAddr      uint64
	outstanding   int
	running       bool
	finishedPulse bool
}

// NewStreamDMA builds a stream writer over [startAddr, endAddr), which
// must be burst-aligned, with a bounded outstanding-write-response
// counter.
func NewStreamDMA(mem *hostmem.Image, startAddr, endAddr uint64, maxOutstanding int) (*StreamDMA, error) {
	if startAddr%bufferBytes != 0 {
		return nil, fixedpoint.NewConfigError("dma.StreamDMA", "startAddr", "must be aligned to the burst size")
	}
	if endAddr <= startAddr {
		return nil, fixedpoint.NewConfigError("dma.StreamDMA", "endAddr", "must exceed startAddr")
	}
	if maxOutstanding < 1 {
		return nil, fixedpoint.NewConfigError("dma.StreamDMA", "maxOutstanding", "must be >= 1")
	}
	if endAddr > uint64(mem.Size()) {
		return nil, fixedpoint.NewConfigError("dma.StreamDMA", "endAddr", "exceeds host memory size")
	}
	return &StreamDMA{Mem: mem, StartAddr: startAddr, EndAddr: endAddr, MaxOutstanding: maxOutstanding}, nil
}

// Start begins a new run at StartAddr.
func (s *StreamDMA) Start() {
	s.running = true
	s.nextAddr = s.StartAddr
	s.outstanding = 0
	s.finishedPulse = false
}

// Ready reports stream_ready: low while the outstanding-response
// counter is saturated, implementing backpressure.
func (s *StreamDMA) Ready() bool { return s.running && s.outstanding < s.MaxOutstanding }

// Push writes one burst if the run is active and not backpressured.
// Reaching end_address drains the run and pulses finished, the same
// as an explicit Stop.
func (s *StreamDMA) Push(burst [BurstBeats]uint64) bool {
	if !s.Ready() {
		return false
	}
	addr := s.nextAddr
	for i, d := range burst {
		s.Mem.WriteBeat(addr+uint64(i*beatBytes), d)
	}
	s.nextAddr += bufferBytes
	s.outstanding++
	if s.nextAddr >= s.EndAddr {
		s.drain()
	}
	return true
}

// AckResponse retires one outstanding write response, freeing a slot
// in the saturating counter.
func (s *StreamDMA) AckResponse() {
	if s.outstanding > 0 {
		s.outstanding--
	}
}

// Stop ends the run: outstanding responses are drained (treated as
// retired) and finished is pulsed once.
func (s *StreamDMA) Stop() {
	if s.running {
		s.drain()
	}
}

func (s *StreamDMA) drain() {
	s.running = false
	s.outstanding = 0
	s.finishedPulse = true
}

// TakeFinished consumes the one-shot finished pulse.
func (s *StreamDMA) TakeFinished() bool {
	p := s.finishedPulse
	s.finishedPulse = false
	return p
}

// NextAddress is the address that would be written next; the host
// computes the recorded run length as NextAddress() - StartAddr.
func (s *StreamDMA) NextAddress() uint64 { return s.nextAddr }

// Running reports whether a run is in progress.
func (s *StreamDMA) Running() bool { return s.running }
