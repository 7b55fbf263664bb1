// Package core wires the full data path end to end: IQ in -> CDC FIFO
// -> DDC -> { spectrometer front -> windowed FFT -> integrator -> bin
// double buffer -> ring DMA; recorder front -> packer -> 64-bit
// repacker -> async FIFO -> stream DMA }, plus the register bank that
// programs DDC/spectrometer/recorder and reports status back to the
// host, per spec sections 2, 4.10 and 6.
package core

import (
	"github.com/doismellburning/sdrcore/internal/corelog"
	"github.com/doismellburning/sdrcore/internal/ddc"
	"github.com/doismellburning/sdrcore/internal/dma"
	"github.com/doismellburning/sdrcore/internal/fft"
	"github.com/doismellburning/sdrcore/internal/fixedpoint"
	"github.com/doismellburning/sdrcore/internal/hostmem"
	"github.com/doismellburning/sdrcore/internal/integrator"
	"github.com/doismellburning/sdrcore/internal/mem"
	"github.com/doismellburning/sdrcore/internal/packer"
	"github.com/doismellburning/sdrcore/internal/regmap"
)

// Params configures every sub-component of a Core instance.
type Params struct {
	FFT fft.Params
	// Integrator.N and .Win are overwritten from the built FFT engine;
	// set only Fw/MantissaWidth/ExpWidth here.
	Integrator integrator.Params
	DDCWidth    int
	TwiddleW    int
	FIRTrunc    int
	PackerMode  packer.Mode

	Mem *hostmem.Image

	RingBase uint64
	RingBits int

	StreamBase, StreamEnd uint64
	StreamMaxOutstanding  int

	// RingTimestampFormat, when set, is an strftime pattern applied to
	// each completed ring buffer's log line.
	RingTimestampFormat string
}

// Core is the top-level composition of spec section 4.10.
type Core struct {
	Regs   *regmap.Map
	Bridge *regmap.Bridge

	ddc        *ddc.DDC
	fft        *fft.Engine
	integrator *integrator.Integrator
	recorder   *packer.Recorder
	ring       *dma.RingDMA
	stream     *dma.StreamDMA
	cdcFIFO    *mem.AsyncFIFO

	outIdx      int // spectrometer output-side position within the current transform
	wasDropped  bool

	log *corelog.Logger
}

func boolToBit(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

func packSample(s fixedpoint.Complex) uint64 {
	return uint64(uint32(s.Re)) | uint64(uint32(s.Im))<<32
}

func unpackSample(w uint64) fixedpoint.Complex {
	return fixedpoint.Complex{Re: int64(int32(uint32(w))), Im: int64(int32(uint32(w >> 32)))}
}

// New builds a fully wired Core.
func New(p Params) (*Core, error) {
	d, err := ddc.New(p.DDCWidth, p.TwiddleW, p.FIRTrunc)
	if err != nil {
		return nil, err
	}
	f, err := fft.New(p.FFT)
	if err != nil {
		return nil, err
	}
	p.Integrator.N = f.N
	p.Integrator.Win = f.OutWidth
	in, err := integrator.New(p.Integrator)
	if err != nil {
		return nil, err
	}
	ring, err := dma.NewRingDMA(p.Mem, p.RingBase, p.RingBits)
	if err != nil {
		return nil, err
	}
	stream, err := dma.NewStreamDMA(p.Mem, p.StreamBase, p.StreamEnd, p.StreamMaxOutstanding)
	if err != nil {
		return nil, err
	}

	ring.TimestampFormat = p.RingTimestampFormat
	ring.Log = corelog.New("ring")

	regs := regmap.NewMap(p.RingBits)
	c := &Core{
		Regs:       regs,
		Bridge:     regmap.NewBridge(regs, 2),
		ddc:        d,
		fft:        f,
		integrator: in,
		recorder:   packer.NewRecorder(p.PackerMode),
		ring:       ring,
		stream:     stream,
		cdcFIFO:    mem.NewAsyncFIFO(64, 64),
		log:        corelog.New("core"),
	}
	return c, nil
}

// SyncRegisters reads the register bank's current programming and
// applies it to the datapath. Call once per register-bus tick (or
// whenever a register write has been applied), the behavioural
// equivalent of the datapath continuously sampling its control
// registers.
func (c *Core) SyncRegisters() {
	c.ddc.Mixer.SetFrequency(c.Regs.DDCFrequency.Field("frequency"))

	dec := c.Regs.DDCDecimation
	c.ddc.Decimator.Stage1.Decimation = int(dec.Field("decimation1"))
	c.ddc.Decimator.Stage2.Decimation = int(dec.Field("decimation2"))
	c.ddc.Decimator.Stage3.Decimation = int(dec.Field("decimation3"))

	ctrl := c.Regs.DDCControl
	c.ddc.Decimator.Stage2.SetBypass(ctrl.Field("bypass2") != 0)
	c.ddc.Decimator.Stage3.SetBypass(ctrl.Field("bypass3") != 0)
	c.ddc.Decimator.SetEnabled(ctrl.Field("enable_input") != 0)

	c.ddc.Decimator.Stage1.SetOperations(int(ctrl.Field("operations_minus_one1")), ctrl.Field("odd_operations1") != 0)
	c.ddc.Decimator.Stage2.SetOperations(int(ctrl.Field("operations_minus_one2")), false)
	c.ddc.Decimator.Stage3.SetOperations(int(ctrl.Field("operations_minus_one3")), ctrl.Field("odd_operations3") != 0)

	if c.Regs.DDCCoeff.Field("coeff_wren") != 0 {
		addr := int(c.Regs.DDCCoeffAddr.Field("coeff_waddr"))
		value := fixedpoint.Wrap(int64(c.Regs.DDCCoeff.Field("coeff_wdata")), 18)
		c.ddc.Decimator.WriteCoeff(addr, value)
	}

	spec := c.Regs.Spectrometer
	c.integrator.SetNumIntegrations(int(spec.Field("num_integrations")))
	c.integrator.SetPeakDetect(spec.Field("peak_detect") != 0)
	if spec.Field("abort") != 0 {
		c.integrator.Abort()
	}

	switch c.Regs.RecorderControl.Field("mode") {
	case 0:
		c.recorder.Packer.Mode = packer.Mode16
	case 1:
		c.recorder.Packer.Mode = packer.Mode12
	default:
		c.recorder.Packer.Mode = packer.Mode8
	}
	rc := c.Regs.RecorderControl
	if rc.Field("start") != 0 {
		c.recorder.SetRun(true)
		c.stream.Start()
	}
	if rc.Field("stop") != 0 {
		c.recorder.SetRun(false)
		c.stream.Stop()
	}
}

// Step advances the core one tick of the fastest (3x) clock: one
// sample is mixed/decimated, the spectrometer and recorder fronts
// consume whatever the DDC produces this tick (the decimator's own
// decimation factors mean most ticks produce nothing downstream), and
// completed DMA bursts drain to host memory.
func (c *Core) Step(in fixedpoint.Complex) {
	c.cdcFIFO.Write(packSample(in))
	word, ok := c.cdcFIFO.Read()
	if !ok {
		return
	}
	sample := unpackSample(word)

	ddcOut, ddcValid := c.ddc.Advance(sample)
	if !ddcValid {
		return
	}

	specIn := sample
	if c.Regs.Spectrometer.Field("use_ddc_out") != 0 {
		specIn = ddcOut
	}
	c.stepSpectrometer(specIn)
	c.recorder.Push(ddcOut)
	if c.recorder.Dropped() {
		c.Regs.Interrupts.Latch(1 << 1) // recorder bit
		if !c.wasDropped {
			c.log.Warn("recorder dropped sample")
		}
	}
	c.wasDropped = c.recorder.Dropped()
	c.drainRecorderToStream()
	c.Regs.RecorderControl.SetFieldValue("dropped_samples", boolToBit(c.recorder.Dropped()))
	c.Regs.RecorderNextAddress.SetFieldValue("next_address", uint32(c.stream.NextAddress()))
}

func (c *Core) stepSpectrometer(in fixedpoint.Complex) {
	out, outLast, valid := c.fft.Advance(in)
	if !valid {
		return
	}
	naturalBin := c.fft.OutputBin(c.outIdx)
	c.outIdx = (c.outIdx + 1) % c.fft.N

	done := c.integrator.Advance(naturalBin, out, outLast)
	if !done {
		return
	}
	c.flushBinsToRing()
	c.Regs.Interrupts.Latch(1) // spectrometer bit
	c.Regs.Spectrometer.SetFieldValue("last_buffer", uint32(c.ring.LastCompletedBuffer()))
	c.log.Info("spectrometer buffer done", "ring_buffer", c.ring.LastCompletedBuffer())
}

func (c *Core) flushBinsToRing() {
	var burst [dma.BurstBeats]uint64
	n := c.fft.N
	for base := 0; base < n; base += dma.BurstBeats {
		for i := 0; i < dma.BurstBeats; i++ {
			b := c.integrator.ReadBin(base + i)
			burst[i] = packBin(b)
		}
		c.ring.WriteBuffer(burst)
	}
}

func packBin(b integrator.Bin) uint64 {
	const mantissaBits = 47
	mask := uint64(1)<<mantissaBits - 1
	return (uint64(b.Mantissa) & mask) | uint64(uint8(b.Exp))<<56
}

func (c *Core) drainRecorderToStream() {
	for c.stream.Ready() {
		w, ok := c.recorder.Pop()
		if !ok {
			return
		}
		var burst [dma.BurstBeats]uint64
		burst[0] = w
		if !c.stream.Push(burst) {
			return
		}
	}
}

// DroppedSamples reports the recorder's dropped-sample sticky latch.
func (c *Core) DroppedSamples() bool { return c.recorder.Dropped() }
