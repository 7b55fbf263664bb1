package dma

import (
	"testing"

	"github.com/doismellburning/sdrcore/internal/hostmem"
	"github.com/stretchr/testify/require"
)

func burstOf(v uint64) [BurstBeats]uint64 {
	var b [BurstBeats]uint64
	for i := range b {
		b[i] = v + uint64(i)
	}
	return b
}

func TestRingDMACyclesThroughBuffersAndReportsLastCompleted(t *testing.T) {
	mem := hostmem.NewImage(4 * bufferBytes)
	r, err := NewRingDMA(mem, 0, 2) // 4 buffers
	require.NoError(t, err)

	for i := 0; i < 6; i++ {
		idx := r.WriteBuffer(burstOf(uint64(i)))
		require.Equal(t, i%4, idx)
		require.Equal(t, idx, r.LastCompletedBuffer())
	}
}

// P6: the ring writer never touches the buffer the spectrometer is
// currently filling -- in this model that means a fresh buffer's
// bytes are exactly what was last written to it, never partially
// overwritten by a concurrent owner.
func TestP6RingDMABufferContentsMatchLastWrite(t *testing.T) {
	mem := hostmem.NewImage(2 * bufferBytes)
	r, err := NewRingDMA(mem, 0, 1) // 2 buffers
	require.NoError(t, err)

	r.WriteBuffer(burstOf(100))
	idx := r.WriteBuffer(burstOf(200))
	require.Equal(t, 1, idx)

	addr := r.BufferAddr(idx)
	for i := 0; i < BurstBeats; i++ {
		require.Equal(t, uint64(200+i), mem.ReadBeat(addr+uint64(i*beatBytes)))
	}
}

func TestRingDMARejectsMisalignedBase(t *testing.T) {
	mem := hostmem.NewImage(4 * bufferBytes)
	_, err := NewRingDMA(mem, 3, 1)
	require.Error(t, err)
}

func TestStreamDMABackpressureAndAck(t *testing.T) {
	mem := hostmem.NewImage(64 * bufferBytes)
	s, err := NewStreamDMA(mem, 0, uint64(64*bufferBytes), 2)
	require.NoError(t, err)

	s.Start()
	require.True(t, s.Push(burstOf(1)))
	require.True(t, s.Push(burstOf(2)))
	require.False(t, s.Ready())
	require.False(t, s.Push(burstOf(3)), "push must be refused while the outstanding counter is saturated")

	s.AckResponse()
	require.True(t, s.Ready())
	require.True(t, s.Push(burstOf(3)))
}

// P8: at the moment "finished" is pulsed, next_address - start_address
// equals the number of bytes written for the run.
func TestP8StreamDMALengthAccountingAtFinish(t *testing.T) {
	mem := hostmem.NewImage(8 * bufferBytes)
	start := uint64(0)
	s, err := NewStreamDMA(mem, start, uint64(8*bufferBytes), 4)
	require.NoError(t, err)

	s.Start()
	pushed := 0
	for s.Push(burstOf(uint64(pushed))) {
		pushed++
	}
	require.False(t, s.TakeFinished(), "reaching capacity mid-run without stopping should not have pulsed finished yet")

	s.AckResponse()
	s.AckResponse()
	s.AckResponse()
	s.AckResponse()
	for s.Push(burstOf(uint64(pushed))) {
		pushed++
	}

	require.True(t, s.TakeFinished())
	require.Equal(t, uint64(pushed*bufferBytes), s.NextAddress()-start)
	require.False(t, s.TakeFinished(), "finished must be a one-shot pulse")
}

func TestStreamDMAStopDrainsAndPulsesFinishedOnce(t *testing.T) {
	mem := hostmem.NewImage(64 * bufferBytes)
	s, err := NewStreamDMA(mem, 0, uint64(64*bufferBytes), 2)
	require.NoError(t, err)

	s.Start()
	s.Push(burstOf(1))
	s.Push(burstOf(2))
	s.Stop()

	require.False(t, s.Running())
	require.Equal(t, 0, s.outstanding)
	require.True(t, s.TakeFinished())
	require.False(t, s.TakeFinished())
}
