package hostio

/*------------------------------------------------------------------
 *
 * Purpose:	Translate a Hamlib rig's "set frequency" request into the
 *		DDC's 28-bit NCO frequency word, so tuning the "radio" in
 *		a Hamlib client reprograms the mixer, via the pure-Go
 *		github.com/xylo04/goHamlib binding.
 *
 *----------------------------------------------------------------*/

import (
	"fmt"

	"github.com/doismellburning/sdrcore/internal/ddc"
	"github.com/xylo04/goHamlib"
)

// RigTuner bridges a Hamlib-controlled rig to the core's DDC: each
// SetFreq call from a Hamlib client reprograms the mixer's NCO so the
// simulated front-end tracks the rig's displayed frequency.
type RigTuner struct {
	rig goHamlib.Rig

	centerHz   float64
	sampleRate float64
}

// NewRigTuner opens a Hamlib rig of the given model over the given
// device path, and records the core's assumed band center and sample
// rate so SetFreq can derive a mixer offset.
func NewRigTuner(model int, device string, centerHz, sampleRate float64) (*RigTuner, error) {
	rig := goHamlib.Rig{Model: model} //nolint:exhaustruct
	if err := rig.Open(device); err != nil {
		return nil, fmt.Errorf("hostio: open rig model %d on %s: %w", model, device, err)
	}
	return &RigTuner{rig: rig, centerHz: centerHz, sampleRate: sampleRate}, nil
}

// SetFreq tunes the rig and returns the DDC frequency word that shifts
// the band center to the requested frequency.
func (t *RigTuner) SetFreq(hz float64) (uint32, error) {
	if err := t.rig.SetFreq(goHamlib.VFOCurrent, hz); err != nil {
		return 0, fmt.Errorf("hostio: set rig frequency: %w", err)
	}
	offsetCycles := (hz - t.centerHz) / t.sampleRate
	return ddc.FrequencyWord(offsetCycles), nil
}

// Close releases the rig connection.
func (t *RigTuner) Close() error { return t.rig.Close() }
