package ddc

import "github.com/doismellburning/sdrcore/internal/fixedpoint"

// DDC composes the NCO mixer and the 3-stage polyphase decimator,
// the complete digital down-converter of spec section 4.6.
type DDC struct {
	Mixer     *Mixer
	Decimator *Decimator
}

// New builds a DDC for the given sample/twiddle widths and FIR
// truncation.
func New(width, twiddleWidth, firTruncBits int) (*DDC, error) {
	dec, err := NewDecimator(firTruncBits)
	if err != nil {
		return nil, err
	}
	return &DDC{Mixer: NewMixer(width, twiddleWidth), Decimator: dec}, nil
}

// Advance mixes one input sample to baseband and feeds it through the
// decimator, returning a decimated output sample on average once
// every overall decimation factor (D1*D2*D3) inputs.
func (d *DDC) Advance(in fixedpoint.Complex) (out fixedpoint.Complex, valid bool) {
	mixed, mixValid := d.Mixer.Advance(in)
	if !mixValid {
		return fixedpoint.Complex{}, false
	}
	return d.Decimator.Push(mixed)
}
