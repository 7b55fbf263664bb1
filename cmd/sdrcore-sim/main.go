// Command sdrcore-sim drives a fully wired core.Core from a generated
// test tone (or a YAML register-preset file), the behavioural
// simulator standing in for the RTL testbench / vendor simulator
// spec.md section 1 puts out of scope: parse flags with pflag, load
// an optional config file, wire the pieces together, and run until
// the input is exhausted.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/doismellburning/sdrcore/internal/core"
	"github.com/doismellburning/sdrcore/internal/corelog"
	"github.com/doismellburning/sdrcore/internal/fft"
	"github.com/doismellburning/sdrcore/internal/hostmem"
	"github.com/doismellburning/sdrcore/internal/integrator"
	"github.com/doismellburning/sdrcore/internal/packer"
	"github.com/doismellburning/sdrcore/internal/regmap"
	"github.com/doismellburning/sdrcore/internal/simharness"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// regPreset is the YAML shape of a register-preset file: a handful of
// host-writable fields the simulator applies at startup.
type regPreset struct {
	DDCFrequencyWord   *uint32 `yaml:"ddc_frequency_word"`
	DDCDecimation1     *uint32 `yaml:"ddc_decimation1"`
	DDCDecimation2     *uint32 `yaml:"ddc_decimation2"`
	DDCDecimation3     *uint32 `yaml:"ddc_decimation3"`
	DDCEnableInput     *bool   `yaml:"ddc_enable_input"`
	SpectrometerUseDDC *bool   `yaml:"spectrometer_use_ddc_out"`
	NumIntegrations    *uint32 `yaml:"num_integrations"`
	PeakDetect         *bool   `yaml:"peak_detect"`
	RecorderMode       *uint32 `yaml:"recorder_mode"`
}

func loadPreset(path string) (regPreset, error) {
	var p regPreset
	if path == "" {
		return p, nil
	}
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return p, fmt.Errorf("sdrcore-sim: read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("sdrcore-sim: parse config %s: %w", path, err)
	}
	return p, nil
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "sdrcore-sim:", err)
		os.Exit(1)
	}
}

// run parses args against a fresh FlagSet (rather than the package-
// global pflag.CommandLine) so tests can invoke it more than once
// without a "flag redefined" panic.
func run(args []string) error {
	fs := pflag.NewFlagSet("sdrcore-sim", pflag.ContinueOnError)
	var (
		order         = fs.Int("fft-order", 6, "log2(N) of the FFT size")
		radix         = fs.String("fft-radix", "2", `butterfly radix: "2", "4", or "r22"`)
		win           = fs.Int("sample-width", 16, "input sample width in bits")
		twiddleWidth  = fs.Int("twiddle-width", 18, "twiddle coefficient width in bits")
		firTrunc      = fs.Int("fir-trunc", 2, "per-stage FIR MACC truncation bits")
		numSamples    = fs.Int("n", 1<<16, "number of input samples to generate and run")
		toneFreq      = fs.Float64("tone-freq", 0.01, "test-tone frequency in cycles/sample")
		toneAmplitude = fs.Int64("tone-amplitude", 20000, "test-tone peak amplitude")
		configPath    = fs.String("config", "", "optional YAML register-preset file")
		ringBits      = fs.Int("ring-bits", 2, "log2(B) spectrometer ring buffer count")
		logLevel      = fs.String("log-level", "info", "debug, info, warn, or error")
	)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("sdrcore-sim: parse flags: %w", err)
	}

	if err := corelog.SetGlobalLevel(*logLevel); err != nil {
		return err
	}
	log := corelog.New("sdrcore-sim")

	preset, err := loadPreset(*configPath)
	if err != nil {
		return err
	}

	numStages := *order
	if *radix == "4" || *radix == "r22" {
		numStages = *order / 2
	}
	truncates := make([]int, numStages)
	for i := range truncates {
		truncates[i] = *firTrunc
	}

	ringBeats := 1 << uint(*order)
	ringBytes := (1 << uint(*ringBits)) * ringBeats * 8
	streamBytes := 1 << 20

	image := hostmem.NewImage(ringBytes + streamBytes)

	c, err := core.New(core.Params{
		FFT: fft.Params{
			Win: *win, Order: *order, Radix: *radix,
			TwiddleWidth: *twiddleWidth, Truncates: truncates,
		},
		Integrator: integrator.Params{Fw: *win - 2},
		DDCWidth:   *win,
		TwiddleW:   *twiddleWidth,
		FIRTrunc:   *firTrunc,
		PackerMode: packer.Mode16,
		Mem:        image,
		RingBase:   0,
		RingBits:   *ringBits,
		StreamBase: uint64(ringBytes),
		StreamEnd:  uint64(ringBytes + streamBytes),
		StreamMaxOutstanding: 8,
	})
	if err != nil {
		return fmt.Errorf("sdrcore-sim: build core: %w", err)
	}

	if err := applyPreset(c, preset); err != nil {
		return err
	}
	c.SyncRegisters()

	src := &simharness.ToneSource{
		FreqCyclesPerSample: *toneFreq,
		Amplitude:           *toneAmplitude,
		Width:               *win,
		N:                   *numSamples,
	}

	ticks := simharness.Feed(context.Background(), c, src, 256)
	log.Info("run complete", "ticks", ticks, "dropped_samples", c.DroppedSamples())

	return nil
}

// applyPreset submits each present preset field as a register write
// across the host/core bridge, stepping the bridge's synchroniser
// pipeline to completion between writes -- the same sequencing
// core_test.go's writeReg helper uses.
func applyPreset(c *core.Core, p regPreset) error {
	write := func(addr uint32, value uint32) error {
		for !c.Bridge.Submit(regmap.Request{Addr: addr, WData: value, ByteStrobes: 0xf}) {
			c.Bridge.Step()
		}
		for i := 0; i < 8; i++ {
			c.Bridge.Step()
			if _, ok := c.Bridge.ReceiveResponse(); ok {
				return nil
			}
		}
		return fmt.Errorf("sdrcore-sim: register write to 0x%02x never completed", addr)
	}

	if p.DDCFrequencyWord != nil {
		if err := write(regmap.OffsetDDCFrequency, *p.DDCFrequencyWord); err != nil {
			return err
		}
	}
	var dec uint32
	if p.DDCDecimation1 != nil {
		dec |= *p.DDCDecimation1 & 0x7f
	}
	if p.DDCDecimation2 != nil {
		dec |= (*p.DDCDecimation2 & 0x3f) << 7
	}
	if p.DDCDecimation3 != nil {
		dec |= (*p.DDCDecimation3 & 0x7f) << 13
	}
	if p.DDCDecimation1 != nil || p.DDCDecimation2 != nil || p.DDCDecimation3 != nil {
		if err := write(regmap.OffsetDDCDecimation, dec); err != nil {
			return err
		}
	}
	if p.DDCEnableInput != nil && *p.DDCEnableInput {
		if err := write(regmap.OffsetDDCControl, 1<<6); err != nil {
			return err
		}
	}

	var spec uint32
	touched := false
	if p.SpectrometerUseDDC != nil && *p.SpectrometerUseDDC {
		spec |= 1
		touched = true
	}
	if p.NumIntegrations != nil {
		spec |= (*p.NumIntegrations & 0x3ff) << 1
		touched = true
	}
	if p.PeakDetect != nil && *p.PeakDetect {
		for _, f := range c.Regs.Spectrometer.Fields {
			if f.Name == "peak_detect" {
				spec |= f.Pack(1)
			}
		}
		touched = true
	}
	if touched {
		if err := write(regmap.OffsetSpectrometer, spec); err != nil {
			return err
		}
	}

	if p.RecorderMode != nil {
		if err := write(regmap.OffsetRecorderControl, (*p.RecorderMode&0x3)<<2); err != nil {
			return err
		}
	}
	if err := write(regmap.OffsetRecorderControl, 1); err != nil { // start pulse
		return err
	}

	return nil
}
