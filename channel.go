package modvolt

import (
	"math"
	"sync/atomic"

	intchan "github.com/modvolt/modvolt-go/internal/channel"
	"github.com/modvolt/modvolt-go/internal/lfo"
	"github.com/modvolt/modvolt-go/internal/vco"
)

type atomicFloat struct{ bits atomic.Uint64 }

func (a *atomicFloat) Store(v float64) { a.bits.Store(math.Float64bits(v)) }
func (a *atomicFloat) Load() float64   { return math.Float64frombits(a.bits.Load()) }

// Channel is the control surface of one output channel: a VCO driven by the
// frequency model and the channel's signal chain. All methods are
// control-rate, non-blocking and idempotent; they retarget ramps or write
// atomics that the render context picks up on its next block.
type Channel struct {
	index int
	model vco.Model
	osc   *vco.Oscillator
	chain *intchan.Chain

	dial     atomicFloat
	cv       atomicFloat
	rangeLow atomic.Bool
	wave     atomic.Int32

	lfoDepth atomicFloat
	lfoRate  atomicFloat
	lfoShape atomic.Int32

	// render-owned
	mod      lfo.LFO
	modVolts float64 // CV-matrix contribution, written by the rack's control tick
}

func newChannel(index, sampleRate int, model vco.Model, chainCfg intchan.Config) *Channel {
	c := &Channel{
		index: index,
		model: model,
		osc:   vco.NewOscillator(sampleRate, vco.WaveSine, model.ReferenceFreqHz),
		chain: intchan.New(chainCfg),
	}
	c.dial.Store(5)
	return c
}

// Index returns the channel's position in the rack.
func (c *Channel) Index() int { return c.index }

// SetDial moves the VCO's front-panel dial. The dial domain is 0..10 but
// the value is passed through raw; the frequency law clamps at its physical
// range bounds, not here.
func (c *Channel) SetDial(dial float64) { c.dial.Store(dial) }

// Dial returns the last requested dial position.
func (c *Channel) Dial() float64 { return c.dial.Load() }

// SetCV sets the summed external control voltage fed to the VCO, on top of
// whatever the re-entry matrix and the channel LFO contribute.
func (c *Channel) SetCV(volts float64) { c.cv.Store(volts) }

// SetRangeLow switches between the HI range and the decade-divided LO range.
func (c *Channel) SetRangeLow(low bool) { c.rangeLow.Store(low) }

// SetWaveform selects the oscillator shape by name ("sine", "triangle",
// "saw", "square"). Unknown names fall back to sine.
func (c *Channel) SetWaveform(name string) {
	c.wave.Store(int32(vco.ParseWaveform(name)))
}

// SetLFO configures the channel's pitch LFO: depth in volts, rate in Hz,
// shape by name. Depth 0 disables it.
func (c *Channel) SetLFO(depthVolts, rateHz float64, shape string) {
	c.lfoDepth.Store(depthVolts)
	c.lfoRate.Store(rateHz)
	c.lfoShape.Store(int32(parseLFOShape(shape)))
}

func parseLFOShape(name string) lfo.Shape {
	switch name {
	case "triangle":
		return lfo.ShapeTriangle
	case "saw", "sawtooth":
		return lfo.ShapeSaw
	case "square", "pulse":
		return lfo.ShapeSquare
	}
	return lfo.ShapeSine
}

// SetLevel retargets the level stage with a normalized gain in [0,1].
func (c *Channel) SetLevel(gain float64) { c.chain.SetLevel(gain) }

// SetLevelVolts drives the level stage with a control voltage through the
// VCA saturation law.
func (c *Channel) SetLevelVolts(v float64) { c.chain.SetLevelVolts(v) }

// SetMuted opens or closes the channel output. The re-entry tap keeps
// carrying signal regardless.
func (c *Channel) SetMuted(muted bool) { c.chain.SetMuted(muted) }

// Muted reports the requested mute state.
func (c *Channel) Muted() bool { return c.chain.Muted() }

// SetFilterEngaged crossfades the filter branch in or out.
func (c *Channel) SetFilterEngaged(engaged bool) { c.chain.SetFilterEngaged(engaged) }

// SetFilterCutoffs sets the filter branch's low and high cutoffs in Hz.
func (c *Channel) SetFilterCutoffs(lowHz, highHz float64) {
	c.chain.SetFilterCutoffs(lowHz, highHz)
}

// SetResonance sets the filter branch's resonance (Q).
func (c *Channel) SetResonance(q float64) { c.chain.SetResonance(q) }

// ReEntryLevel returns the block-mean level of the channel's re-entry tap,
// the value the CV matrix consumes. Unaffected by mute and filter state.
func (c *Channel) ReEntryLevel() float64 { return c.chain.ReEntryLevel() }

// Frequency returns the oscillator's current target frequency in Hz.
func (c *Channel) Frequency() float64 { return c.osc.Frequency() }

// controlTick runs once per render block on the render context: it folds
// the dial, external CV, LFO and matrix contributions through the frequency
// law and retargets the oscillator.
func (c *Channel) controlTick(dt float64) {
	c.osc.SetWaveform(vco.Waveform(c.wave.Load()))
	c.mod.Set(c.lfoDepth.Load(), c.lfoRate.Load(), lfo.Shape(c.lfoShape.Load()))
	lfoVolts := c.mod.Advance(dt)

	rng := vco.RangeHigh
	if c.rangeLow.Load() {
		rng = vco.RangeLow
	}
	freq := c.model.DialToFrequency(c.dial.Load(), c.cv.Load()+lfoVolts+c.modVolts, rng)
	c.osc.SetFrequency(freq)
}
