package regmap

// Register is one word-addressable register: its storage splits into
// RW/R bits, Wpulse bits (set on write, auto-cleared the cycle after),
// and Rsticky bits (latched by the datapath, cleared the cycle after a
// read finds the driving input low), per spec section 4.9.
type Register struct {
	Name   string
	Fields []Field

	rw     uint32
	pulse  uint32
	sticky uint32

	rwMask, pulseMask, roMask, stickyMask uint32

	pendingClear uint32 // sticky bits awaiting the next-cycle clear check
}

// NewRegister builds a register from its field layout, applying each
// field's declared reset value.
func NewRegister(name string, fields []Field) *Register {
	r := &Register{Name: name, Fields: fields}
	for _, f := range fields {
		m := f.mask()
		switch f.Kind {
		case KindR:
			r.roMask |= m
			r.rw |= f.Pack(f.Reset)
		case KindRW:
			r.rwMask |= m
			r.rw |= f.Pack(f.Reset)
		case KindW, KindWpulse:
			r.pulseMask |= m
		case KindRsticky:
			r.stickyMask |= m
		}
	}
	return r
}

// Read is the register bank's combinational read: the concatenation
// of every field's current value. Per P9, a Wpulse field reads its
// current (pre-clear) state, and reading schedules the Rsticky clear
// check for the next Tick.
func (r *Register) Read() uint32 {
	r.pendingClear |= r.sticky
	return r.rw | r.pulse | r.sticky
}

// Write applies a host write, masked by the AXI-lite-style per-byte
// write strobes (bit i gates byte i). Writes to read-only or Rsticky
// bits are silently discarded; Wpulse bits are set directly (not
// merged) and auto-clear on the next Tick; RW bits merge normally.
func (r *Register) Write(value uint32, byteStrobes uint8) {
	var strobeMask uint32
	for b := 0; b < 4; b++ {
		if byteStrobes&(1<<uint(b)) != 0 {
			strobeMask |= 0xff << uint(8*b)
		}
	}
	rwWritable := strobeMask & r.rwMask
	r.rw = (r.rw &^ rwWritable) | (value & rwWritable)

	pulseWritable := strobeMask & r.pulseMask
	r.pulse = (r.pulse &^ pulseWritable) | (value & pulseWritable)
}

// Tick advances the register by one clock: Wpulse bits clear
// unconditionally; Rsticky bits whose clear was scheduled by a prior
// Read clear only where the corresponding bit of driving is low.
func (r *Register) Tick(driving uint32) {
	r.pulse = 0
	r.sticky &^= r.pendingClear &^ driving
	r.pendingClear = 0
}

// Latch ORs newly-asserted driving-input bits into the Rsticky latch.
func (r *Register) Latch(bits uint32) { r.sticky |= bits & r.stickyMask }

// InterruptLine is the register's interrupt-OR: high while any
// Rsticky bit is non-zero.
func (r *Register) InterruptLine() bool { return r.sticky != 0 }

// Field looks up one field's current value.
func (r *Register) Field(name string) uint32 {
	word := r.Read()
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Extract(word)
		}
	}
	return 0
}

// SetFieldValue lets the datapath (not the host bus) drive the
// present value of an R field -- last_buffer, next_address,
// dropped_samples, version and the like, none of which the host can
// write directly.
func (r *Register) SetFieldValue(name string, value uint32) {
	for _, f := range r.Fields {
		if f.Name == name {
			r.rw = (r.rw &^ f.mask()) | f.Pack(value)
			return
		}
	}
}
