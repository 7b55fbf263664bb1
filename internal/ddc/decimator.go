package ddc

import "github.com/doismellburning/sdrcore/internal/fixedpoint"

// SkidBuffer is the 2-entry AXI-stream buffer that decouples the
// sample-clock producer's ready/valid from the 3x-clock FIR domain's
// consumer, per spec section 4.6's cross-domain bridging.
type SkidBuffer struct {
	buf []fixedpoint.Complex
}

func NewSkidBuffer() *SkidBuffer { return &SkidBuffer{buf: make([]fixedpoint.Complex, 0, 2)} }

// Ready reports whether the upstream producer may push this cycle.
func (s *SkidBuffer) Ready() bool { return len(s.buf) < 2 }

// Push enqueues a sample; callers must check Ready first, matching
// the AXI-stream valid/ready contract (no silent drop on a full skid
// buffer -- that would be a protocol violation upstream, not a
// backpressure point spec section 5 names).
func (s *SkidBuffer) Push(v fixedpoint.Complex) bool {
	if !s.Ready() {
		return false
	}
	s.buf = append(s.buf, v)
	return true
}

// Pop dequeues the oldest buffered sample.
func (s *SkidBuffer) Pop() (fixedpoint.Complex, bool) {
	if len(s.buf) == 0 {
		return fixedpoint.Complex{}, false
	}
	v := s.buf[0]
	s.buf = s.buf[1:]
	return v, true
}

// ToggleSync is the output-side toggle-line handshake: a single held
// sample plus a one-shot strobe, the behavioural equivalent of a
// level-toggle CDC handshake transferring one sample back across to
// the 1x domain.
type ToggleSync struct {
	data    fixedpoint.Complex
	pending bool
}

func (t *ToggleSync) Set(v fixedpoint.Complex) { t.data = v; t.pending = true }

// TakeStrobe consumes the pending sample, if any, clearing the
// strobe (valid for exactly the one cycle it is read).
func (t *ToggleSync) TakeStrobe() (fixedpoint.Complex, bool) {
	if !t.pending {
		return fixedpoint.Complex{}, false
	}
	t.pending = false
	return t.data, true
}

// Decimator is the three-stage polyphase FIR decimator: FIR4DSP,
// FIR2DSP, FIR4DSP, with stages 2 and 3 independently bypassable and
// a single 10-bit coefficient write port shared across all three
// (top two bits select the stage, per spec section 4.6 / 6).
type Decimator struct {
	Stage1 *FIRStage
	Stage2 *FIRStage
	Stage3 *FIRStage

	skidIn  *SkidBuffer
	toggle  *ToggleSync
	enabled bool
}

// NewDecimator builds the 3-stage polyphase decimator. truncBits is
// shared by all three stages' half-up-rounded MACC output.
func NewDecimator(truncBits int) (*Decimator, error) {
	s1, err := NewFIRStage(FIR4DSP, 3, false, 5, truncBits)
	if err != nil {
		return nil, err
	}
	s2, err := NewFIRStage(FIR2DSP, 3, false, 4, truncBits)
	if err != nil {
		return nil, err
	}
	s3, err := NewFIRStage(FIR4DSP, 1, false, 2, truncBits)
	if err != nil {
		return nil, err
	}
	return &Decimator{
		Stage1: s1, Stage2: s2, Stage3: s3,
		skidIn: NewSkidBuffer(), toggle: &ToggleSync{},
	}, nil
}

func (d *Decimator) SetEnabled(enabled bool) { d.enabled = enabled }

// stage routes a 10-bit coefficient address's top two bits to the
// target stage; the remainder is the tap index within that stage.
func (d *Decimator) stage(addr int) (*FIRStage, int) {
	switch (addr >> 8) & 3 {
	case 0:
		return d.Stage1, addr & 0xff
	case 1:
		return d.Stage2, addr & 0xff
	default:
		return d.Stage3, addr & 0xff
	}
}

// WriteCoeff implements the ddc_coeff_addr/ddc_coeff register pair:
// coeff_waddr selects the (stage, tap), coeff_wdata is the signed
// value.
func (d *Decimator) WriteCoeff(addr int, value int64) {
	s, tap := d.stage(addr)
	if tap < s.Taps {
		s.WriteCoeff(tap, value)
	}
}

// Push feeds one sample-clock-domain input sample through the skid
// buffer into the FIR chain, returning a decimated output sample
// (valid on average once every D1*D2*D3 pushes) crossed back to the
// 1x domain via the toggle handshake.
func (d *Decimator) Push(in fixedpoint.Complex) (out fixedpoint.Complex, valid bool) {
	if !d.enabled {
		return in, true
	}
	if !d.skidIn.Push(in) {
		return fixedpoint.Complex{}, false
	}
	s, ok := d.skidIn.Pop()
	if !ok {
		return fixedpoint.Complex{}, false
	}

	o1, v1 := d.Stage1.Push(s)
	if !v1 {
		return d.toggle.TakeStrobe()
	}
	o2, v2 := d.Stage2.Push(o1)
	if !v2 {
		return d.toggle.TakeStrobe()
	}
	o3, v3 := d.Stage3.Push(o2)
	if v3 {
		d.toggle.Set(o3)
	}
	return d.toggle.TakeStrobe()
}
