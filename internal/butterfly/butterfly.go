// Package butterfly implements the SDF (single-delay-feedback)
// butterflies that make up a pipelined FFT: R2SDF, R4SDF and R2²SDF.
// The three variants are separate concrete types. R2SDF and R4SDF
// implement the common Stage interface; R22SDF takes a 2-bit mux
// count instead and does not. The FFT engine (internal/fft) holds
// each pipeline level behind an interface and calls it through that
// interface on every cycle.
package butterfly

import "github.com/doismellburning/sdrcore/internal/fixedpoint"

// Stage is the shared capability of every butterfly variant: consume
// one input sample, mux_control, and (for bf2ii-role butterflies)
// i_control, produce one output sample. Variants that don't need
// i_control simply ignore it.
type Stage interface {
	Advance(muxControl, iControl bool, in fixedpoint.Complex) fixedpoint.Complex
	Delay() int
	OutputWidth() int
}
