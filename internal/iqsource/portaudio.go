//go:build sdrcore_portaudio

package iqsource

/*------------------------------------------------------------------
 *
 * Purpose:	Feed the simulator's core from a live stereo soundcard
 *		capture instead of the generated test tone, treating left/right
 *		channels as I/Q the way an SDR dongle's audio-style
 *		output is often consumed. Gated behind a build tag since
 *		it links PortAudio's native library.
 *
 *----------------------------------------------------------------*/

import (
	"fmt"

	"github.com/doismellburning/sdrcore/internal/fixedpoint"
	"github.com/gordonklaus/portaudio"
)

// PortAudioSource reads stereo float32 frames from the default input
// device and requantizes them to signed 12-bit IQ samples.
type PortAudioSource struct {
	stream *portaudio.Stream
	buf    []float32
	out    chan fixedpoint.Complex
}

// NewPortAudioSource opens the default input device at sampleRate with
// the given per-callback frame count.
func NewPortAudioSource(sampleRate float64, framesPerBuffer int) (*PortAudioSource, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("iqsource: portaudio init: %w", err)
	}

	s := &PortAudioSource{
		buf: make([]float32, framesPerBuffer*2),
		out: make(chan fixedpoint.Complex, framesPerBuffer*4),
	}

	stream, err := portaudio.OpenDefaultStream(2, 0, sampleRate, framesPerBuffer, s.buf)
	if err != nil {
		_ = portaudio.Terminate() //nolint:errcheck
		return nil, fmt.Errorf("iqsource: open default stream: %w", err)
	}
	s.stream = stream

	if err := stream.Start(); err != nil {
		return nil, fmt.Errorf("iqsource: start stream: %w", err)
	}
	return s, nil
}

// Poll reads the next buffer of frames and pushes them onto the output
// channel as quantized IQ samples, returning the count produced.
func (s *PortAudioSource) Poll() (int, error) {
	if err := s.stream.Read(); err != nil {
		return 0, fmt.Errorf("iqsource: read stream: %w", err)
	}
	n := 0
	for i := 0; i+1 < len(s.buf); i += 2 {
		re := requantize12(s.buf[i])
		im := requantize12(s.buf[i+1])
		s.out <- fixedpoint.Complex{Re: re, Im: im}
		n++
	}
	return n, nil
}

// Samples exposes the produced sample channel.
func (s *PortAudioSource) Samples() <-chan fixedpoint.Complex { return s.out }

// Close stops the stream and releases PortAudio.
func (s *PortAudioSource) Close() error {
	close(s.out)
	if err := s.stream.Close(); err != nil {
		return fmt.Errorf("iqsource: close stream: %w", err)
	}
	if err := portaudio.Terminate(); err != nil {
		return fmt.Errorf("iqsource: terminate: %w", err)
	}
	return nil
}

func requantize12(f float32) int64 {
	v := int64(f * 2047)
	switch {
	case v > 2047:
		return 2047
	case v < -2048:
		return -2048
	default:
		return v
	}
}
