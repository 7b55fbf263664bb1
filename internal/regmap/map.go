package regmap

// Word offsets within the peripheral, per spec section 6.
const (
	OffsetProductID            = 0x00
	OffsetVersion               = 0x04
	OffsetControl                = 0x08
	OffsetInterrupts             = 0x0c
	OffsetRecorderControl         = 0x10
	OffsetRecorderNextAddress     = 0x14
	OffsetSpectrometer            = 0x20
	OffsetDDCCoeffAddr            = 0x24
	OffsetDDCCoeff                = 0x28
	OffsetDDCDecimation           = 0x2c
	OffsetDDCFrequency            = 0x30
	OffsetDDCControl              = 0x34
)

const productIDValue = 0x6169616d

// Map is the full register bank of spec section 6, one Register per
// word offset plus address decode.
type Map struct {
	regs map[uint32]*Register

	ProductID            *Register
	Version              *Register
	Control              *Register
	Interrupts           *Register
	RecorderControl      *Register
	RecorderNextAddress  *Register
	Spectrometer         *Register
	DDCCoeffAddr         *Register
	DDCCoeff             *Register
	DDCDecimation        *Register
	DDCFrequency         *Register
	DDCControl           *Register
}

// NewMap builds the register bank with every field of spec section 6.
// ringBits is log2(B), the spectrometer ring's buffer count, sizing
// the last_buffer field's width.
func NewMap(ringBits int) *Map {
	m := &Map{regs: map[uint32]*Register{}}

	m.ProductID = NewRegister("product_id", []Field{
		{Name: "product_id", Kind: KindR, Shift: 0, Width: 32, Reset: productIDValue},
	})
	m.Version = NewRegister("version", []Field{
		{Name: "bugfix", Kind: KindR, Shift: 0, Width: 8, Reset: 0},
		{Name: "minor", Kind: KindR, Shift: 8, Width: 8, Reset: 1},
		{Name: "major", Kind: KindR, Shift: 16, Width: 8, Reset: 1},
		{Name: "platform", Kind: KindR, Shift: 24, Width: 8, Reset: 0},
	})
	m.Control = NewRegister("control", []Field{
		{Name: "sdr_reset", Kind: KindRW, Shift: 0, Width: 1, Reset: 1},
	})
	m.Interrupts = NewRegister("interrupts", []Field{
		{Name: "spectrometer", Kind: KindRsticky, Shift: 0, Width: 1},
		{Name: "recorder", Kind: KindRsticky, Shift: 1, Width: 1},
	})
	m.RecorderControl = NewRegister("recorder_control", []Field{
		{Name: "start", Kind: KindWpulse, Shift: 0, Width: 1},
		{Name: "stop", Kind: KindWpulse, Shift: 1, Width: 1},
		{Name: "mode", Kind: KindRW, Shift: 2, Width: 2},
		{Name: "dropped_samples", Kind: KindR, Shift: 4, Width: 1},
	})
	m.RecorderNextAddress = NewRegister("recorder_next_address", []Field{
		{Name: "next_address", Kind: KindR, Shift: 0, Width: 32},
	})
	m.Spectrometer = NewRegister("spectrometer", []Field{
		{Name: "use_ddc_out", Kind: KindRW, Shift: 0, Width: 1},
		{Name: "num_integrations", Kind: KindRW, Shift: 1, Width: 10, Reset: 0x3ff},
		{Name: "abort", Kind: KindWpulse, Shift: 11, Width: 1},
		{Name: "last_buffer", Kind: KindR, Shift: 12, Width: ringBits},
		{Name: "peak_detect", Kind: KindRW, Shift: 12 + ringBits, Width: 1},
	})
	m.DDCCoeffAddr = NewRegister("ddc_coeff_addr", []Field{
		{Name: "coeff_waddr", Kind: KindRW, Shift: 0, Width: 10},
	})
	m.DDCCoeff = NewRegister("ddc_coeff", []Field{
		{Name: "coeff_wren", Kind: KindWpulse, Shift: 0, Width: 1},
		{Name: "coeff_wdata", Kind: KindRW, Shift: 1, Width: 18},
	})
	m.DDCDecimation = NewRegister("ddc_decimation", []Field{
		{Name: "decimation1", Kind: KindRW, Shift: 0, Width: 7},
		{Name: "decimation2", Kind: KindRW, Shift: 7, Width: 6},
		{Name: "decimation3", Kind: KindRW, Shift: 13, Width: 7},
	})
	m.DDCFrequency = NewRegister("ddc_frequency", []Field{
		{Name: "frequency", Kind: KindRW, Shift: 0, Width: 28},
	})
	m.DDCControl = NewRegister("ddc_control", []Field{
		{Name: "bypass2", Kind: KindRW, Shift: 4, Width: 1},
		{Name: "bypass3", Kind: KindRW, Shift: 5, Width: 1},
		{Name: "enable_input", Kind: KindRW, Shift: 6, Width: 1},
		{Name: "operations_minus_one1", Kind: KindRW, Shift: 7, Width: 3, Reset: 3},
		{Name: "operations_minus_one2", Kind: KindRW, Shift: 10, Width: 3, Reset: 3},
		{Name: "operations_minus_one3", Kind: KindRW, Shift: 13, Width: 3, Reset: 1},
		{Name: "odd_operations1", Kind: KindRW, Shift: 16, Width: 1},
		{Name: "odd_operations3", Kind: KindRW, Shift: 17, Width: 1},
	})

	m.regs[OffsetProductID] = m.ProductID
	m.regs[OffsetVersion] = m.Version
	m.regs[OffsetControl] = m.Control
	m.regs[OffsetInterrupts] = m.Interrupts
	m.regs[OffsetRecorderControl] = m.RecorderControl
	m.regs[OffsetRecorderNextAddress] = m.RecorderNextAddress
	m.regs[OffsetSpectrometer] = m.Spectrometer
	m.regs[OffsetDDCCoeffAddr] = m.DDCCoeffAddr
	m.regs[OffsetDDCCoeff] = m.DDCCoeff
	m.regs[OffsetDDCDecimation] = m.DDCDecimation
	m.regs[OffsetDDCFrequency] = m.DDCFrequency
	m.regs[OffsetDDCControl] = m.DDCControl

	return m
}

// Read decodes a word offset to a register and performs its
// combinational read. Unmapped addresses return 0, done asserted --
// host misuse the core safely ignores.
func (m *Map) Read(offset uint32) (data uint32, done bool) {
	r, ok := m.regs[offset]
	if !ok {
		return 0, true
	}
	return r.Read(), true
}

// Write decodes a word offset and applies a strobed write. Writes to
// unmapped addresses are silently discarded.
func (m *Map) Write(offset uint32, value uint32, byteStrobes uint8) (done bool) {
	r, ok := m.regs[offset]
	if !ok {
		return true
	}
	r.Write(value, byteStrobes)
	return true
}

// Tick advances every register by one clock (Wpulse auto-clear,
// Rsticky scheduled-clear check). driving supplies, per register, the
// current level of its Rsticky latches' driving inputs.
func (m *Map) Tick(driving map[uint32]uint32) {
	for offset, r := range m.regs {
		r.Tick(driving[offset])
	}
}

// InterruptAsserted is the bank-wide interrupt line: high while any
// register's Rsticky latch is non-zero.
func (m *Map) InterruptAsserted() bool {
	for _, r := range m.regs {
		if r.InterruptLine() {
			return true
		}
	}
	return false
}
