package mem

/*------------------------------------------------------------------
 *
 * Purpose:	Exercise the async FIFO's full/empty/error-latch
 *		behaviour and the window memory's address-folding read.
 *
 *----------------------------------------------------------------*/

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAsyncFIFOOverflowLatchesAndDrops(t *testing.T) {
	f := NewAsyncFIFO(8, 4)
	for i := 0; i < 4; i++ {
		f.Write(uint64(i))
	}
	require.True(t, f.Full())
	require.False(t, f.WriteError())

	f.Write(99) // dropped, latch set
	require.True(t, f.WriteError())

	for i := 0; i < 4; i++ {
		v, ok := f.Read()
		require.True(t, ok)
		require.Equal(t, uint64(i), v)
	}
	require.True(t, f.Empty())
}

func TestAsyncFIFOResetClearsState(t *testing.T) {
	f := NewAsyncFIFO(8, 2)
	f.Write(1)
	f.Write(2)
	f.Write(3) // overflow
	require.True(t, f.WriteError())

	f.Reset()
	require.True(t, f.Empty())
	require.False(t, f.WriteError())
}

func TestWindowMemAddressFolding(t *testing.T) {
	const order = 4 // 2^4 = 16 samples, 8 stored
	w := NewWindowMem(12, order)
	for i := 0; i < w.HalfLen(); i++ {
		w.Write(i, uint64(100+i))
	}

	// Symmetric: index j and index (n-1-j) should read the same
	// coefficient for a classic symmetric window addressing scheme.
	n := w.HalfLen() * 2
	for j := 0; j < w.HalfLen(); j++ {
		low := w.Read(j)
		high := w.Read(n - 1 - j)
		require.Equal(t, low, high, "j=%d", j)
	}
}

func TestReadPortLatency(t *testing.T) {
	data := []int{10, 20, 30, 40}
	p := NewReadPort(data, 2)

	addrs := []int{0, 1, 2, 3}
	var got []int
	var valids []bool
	for _, a := range addrs {
		v, ok := p.Advance(a)
		got = append(got, v)
		valids = append(valids, ok)
	}
	require.Equal(t, []bool{false, false, true, true}, valids)
	require.Equal(t, data[0], got[2])
	require.Equal(t, data[1], got[3])
}
