package regmap

import "testing"

import "github.com/stretchr/testify/require"

func TestRegisterResetValues(t *testing.T) {
	r := NewRegister("control", []Field{
		{Name: "sdr_reset", Kind: KindRW, Shift: 0, Width: 1, Reset: 1},
	})
	require.Equal(t, uint32(1), r.Read())
}

func TestRegisterReadOnlyWritesAreDiscarded(t *testing.T) {
	r := NewRegister("product_id", []Field{
		{Name: "product_id", Kind: KindR, Shift: 0, Width: 32, Reset: 0xdeadbeef},
	})
	r.Write(0, 0xf)
	require.Equal(t, uint32(0xdeadbeef), r.Read())
}

// P9: a Wpulse field reads its current (pre-clear) state; it clears
// only once Tick runs.
func TestP9WpulseReadsBeforeClearThenClearsOnTick(t *testing.T) {
	r := NewRegister("recorder_control", []Field{
		{Name: "start", Kind: KindWpulse, Shift: 0, Width: 1},
	})
	r.Write(1, 0x1)
	require.Equal(t, uint32(1), r.Field("start"))
	r.Tick(0)
	require.Equal(t, uint32(0), r.Field("start"))
}

// P9: an Rsticky field latches on Latch, reads the latched value, and
// clears on the cycle after a read finds the driving input low -- not
// before, and not if the input is still high.
func TestP9RstickyClearsOnlyAfterReadWithInputLow(t *testing.T) {
	r := NewRegister("interrupts", []Field{
		{Name: "spectrometer", Kind: KindRsticky, Shift: 0, Width: 1},
	})
	r.Latch(1)
	require.Equal(t, uint32(1), r.Read())

	// driving still high at the next tick: latch must stay set.
	r.Tick(1)
	require.Equal(t, uint32(1), r.Read())

	// driving low at the tick following a read: latch clears.
	r.Tick(0)
	require.Equal(t, uint32(0), r.Read())
}

func TestP9RstickyInterruptLineFollowsLogicalOr(t *testing.T) {
	r := NewRegister("interrupts", []Field{
		{Name: "spectrometer", Kind: KindRsticky, Shift: 0, Width: 1},
		{Name: "recorder", Kind: KindRsticky, Shift: 1, Width: 1},
	})
	require.False(t, r.InterruptLine())
	r.Latch(1 << 1)
	require.True(t, r.InterruptLine())
	r.Read()
	r.Tick(0)
	require.False(t, r.InterruptLine())
}

func TestMapAddressDecodeAndUnmappedReadsReturnZero(t *testing.T) {
	m := NewMap(2)
	data, done := m.Read(OffsetProductID)
	require.True(t, done)
	require.Equal(t, uint32(productIDValue), data)

	data, done = m.Read(0x999)
	require.True(t, done)
	require.Equal(t, uint32(0), data)
}
