// Package simharness drives a Core's input with the coroutine-style
// producer/consumer shape spec.md section 9 calls for: one goroutine
// pushes DUT inputs while the calling goroutine drains them into the
// DUT, synchronised over channels rather than a cooperative-suspension
// scheduler. Simulation time here is the explicit tick counter a
// caller advances by calling Core.Step once per channel receive --
// there is no wall-clock sleep anywhere in this package.
package simharness

import (
	"context"
	"math"

	"github.com/doismellburning/sdrcore/internal/fixedpoint"
)

// SampleSource produces one IQ sample per call; it returns ok=false
// once exhausted (end of a finite tone, or a cancelled live capture).
type SampleSource interface {
	Next() (sample fixedpoint.Complex, ok bool)
}

// SourceFunc adapts a plain function to SampleSource.
type SourceFunc func() (fixedpoint.Complex, bool)

func (f SourceFunc) Next() (fixedpoint.Complex, bool) { return f() }

// Stepper is the subset of *core.Core the harness drives: one sample
// in per tick.
type Stepper interface {
	Step(in fixedpoint.Complex)
}

// Feed runs a producer goroutine that pulls samples from src and
// posts them to a buffered channel, and a consumer that drains the
// channel and calls dut.Step once per sample -- the single-producer
// single-consumer channel spec.md section 9 describes standing in for
// the source's coroutine-suspension test benches. Feed returns once
// src is exhausted or ctx is cancelled, after the producer goroutine
// has exited; ticks reports the number of samples actually stepped.
func Feed(ctx context.Context, dut Stepper, src SampleSource, bufferDepth int) (ticks int) {
	if bufferDepth <= 0 {
		bufferDepth = 1
	}
	samples := make(chan fixedpoint.Complex, bufferDepth)

	go func() {
		defer close(samples)
		for {
			s, ok := src.Next()
			if !ok {
				return
			}
			select {
			case samples <- s:
			case <-ctx.Done():
				return
			}
		}
	}()

	for ctx.Err() == nil {
		select {
		case s, open := <-samples:
			if !open {
				return ticks
			}
			dut.Step(s)
			ticks++
		case <-ctx.Done():
		}
	}
	for range samples {
	}
	return ticks
}

// ToneSource generates a complex exponential at the given frequency
// (cycles per sample) and peak amplitude, quantised to the given
// sample width, for exactly n samples; it is the simulator's input.
type ToneSource struct {
	FreqCyclesPerSample float64
	Amplitude           int64
	Width               int
	N                   int

	k int
}

func (t *ToneSource) Next() (fixedpoint.Complex, bool) {
	if t.k >= t.N {
		return fixedpoint.Complex{}, false
	}
	phase := 2 * math.Pi * t.FreqCyclesPerSample * float64(t.k)
	re := fixedpoint.Wrap(int64(float64(t.Amplitude)*math.Cos(phase)), t.Width)
	im := fixedpoint.Wrap(int64(float64(t.Amplitude)*math.Sin(phase)), t.Width)
	t.k++
	return fixedpoint.Complex{Re: re, Im: im}, true
}
