package hostio

/*------------------------------------------------------------------
 *
 * Purpose:	Drive an external GPIO line as the host-visible analogue
 *		of the register bank's sdr_reset / interrupt line, the
 *		same kind of GPIO line used to key a radio's transmitter
 *		or latch an external reset.
 *
 *----------------------------------------------------------------*/

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// ResetLine is the GPIO line driving the core's external reset/abort
// button and mirroring its interrupt output.
type ResetLine struct {
	line *gpiocdev.Line
}

// NewResetLine requests the given offset on the named gpiochip as an
// output, initially deasserted.
func NewResetLine(chip string, offset int) (*ResetLine, error) {
	line, err := gpiocdev.RequestLine(chip, offset, gpiocdev.AsOutput(0))
	if err != nil {
		return nil, fmt.Errorf("hostio: request gpio line %s:%d: %w", chip, offset, err)
	}
	return &ResetLine{line: line}, nil
}

// Assert drives the reset line high.
func (r *ResetLine) Assert() error { return r.line.SetValue(1) }

// Deassert drives the reset line low, releasing the core from reset.
func (r *ResetLine) Deassert() error { return r.line.SetValue(0) }

// Close releases the line.
func (r *ResetLine) Close() error { return r.line.Close() }

// AbortButton watches an input line and calls onPress each time it
// reads asserted, driving the spectrometer's abort field the way an
// external panic button would.
type AbortButton struct {
	line *gpiocdev.Line
}

// NewAbortButton requests offset on chip as an input with edge
// detection, invoking onPress on each rising edge.
func NewAbortButton(chip string, offset int, onPress func()) (*AbortButton, error) {
	line, err := gpiocdev.RequestLine(chip, offset,
		gpiocdev.AsInput,
		gpiocdev.WithEventHandler(func(evt gpiocdev.LineEvent) {
			if evt.Type == gpiocdev.LineEventRisingEdge {
				onPress()
			}
		}),
		gpiocdev.WithBothEdges,
	)
	if err != nil {
		return nil, fmt.Errorf("hostio: request gpio line %s:%d: %w", chip, offset, err)
	}
	return &AbortButton{line: line}, nil
}

// Close releases the line.
func (b *AbortButton) Close() error { return b.line.Close() }
