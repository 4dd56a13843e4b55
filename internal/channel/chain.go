// Package channel implements one output channel's real-time signal chain:
//
//	busInput -> level stage (VCA) -> split -> filter branch \
//	                                  |       bypass branch  >- sum -> mute -> output
//	                                  +------------------------------------> re-entry tap
//
// The re-entry tap always carries the post-level, pre-filter, pre-mute
// signal so the channel can double as a controllable attenuation stage
// feeding the control-voltage matrix, even while its own output is muted.
//
// Every parameter change is a control-rate retarget of a ramp; the render
// context advances the ramps per sample. Filter engage/disengage is a
// crossfade between the filter and bypass branches along one shared time
// constant, never a hard switch.
package channel

import (
	"sync/atomic"

	"github.com/modvolt/modvolt-go/internal/ramp"
	"github.com/modvolt/modvolt-go/internal/vca"
)

// Config calibrates one channel. Start from DefaultConfig.
type Config struct {
	SampleRate int

	// Ramp time constants. Level is the slowest (levels ride continuous
	// performance gestures), mute the fastest (binary, but still must
	// not click), crossfade in between.
	LevelTimeConstMs     float64
	MuteTimeConstMs      float64
	CrossfadeTimeConstMs float64
	CutoffTimeConstMs    float64

	// Physical filter band and resonance limits; requests outside are
	// clamped, never rejected.
	CutoffMinHz, CutoffMaxHz float64
	QMin, QMax               float64

	// Level stage voltage law for SetLevelVolts.
	Law vca.Law

	// OnDiagnostic, when set, receives non-fatal reports (clamped
	// out-of-range requests). Called from the control context only.
	OnDiagnostic func(msg string)
}

func DefaultConfig(sampleRate int) Config {
	return Config{
		SampleRate:           sampleRate,
		LevelTimeConstMs:     30,
		MuteTimeConstMs:      8,
		CrossfadeTimeConstMs: 25,
		CutoffTimeConstMs:    15,
		CutoffMinHz:          20,
		CutoffMaxHz:          12000,
		QMin:                 0.5,
		QMax:                 10,
		Law:                  vca.DefaultLaw(),
	}
}

// Chain is one channel's signal chain. Setters are control-rate,
// non-blocking and idempotent; Process and ProcessBlock belong to the
// render context. Neither side ever blocks the other.
type Chain struct {
	cfg    Config
	filter filterBranch

	level      *ramp.Ramp // VCA gain [0,1]
	mute       *ramp.Ramp // 1 open, 0 muted
	filterGain *ramp.Ramp // engaged branch weight
	bypassGain *ramp.Ramp // complementary branch weight
	cutoffLow  *ramp.Ramp
	cutoffHigh *ramp.Ramp
	resonance  *ramp.Ramp

	engaged atomic.Bool
	muted   atomic.Bool

	// Last block's mean re-entry level, readable from the control
	// context for CV-matrix consumption.
	reEntryLevel atomic.Uint64
}

func New(cfg Config) *Chain {
	sr := cfg.SampleRate
	c := &Chain{
		cfg:        cfg,
		filter:     filterBranch{sampleRate: float64(sr)},
		level:      ramp.New(1, cfg.LevelTimeConstMs, sr),
		mute:       ramp.New(1, cfg.MuteTimeConstMs, sr),
		filterGain: ramp.New(0, cfg.CrossfadeTimeConstMs, sr),
		bypassGain: ramp.New(1, cfg.CrossfadeTimeConstMs, sr),
		cutoffLow:  ramp.New(cfg.CutoffMinHz, cfg.CutoffTimeConstMs, sr),
		cutoffHigh: ramp.New(cfg.CutoffMaxHz, cfg.CutoffTimeConstMs, sr),
		resonance:  ramp.New(0.707, cfg.CutoffTimeConstMs, sr),
	}
	return c
}

func (c *Chain) clampReport(what string, v, lo, hi float64) float64 {
	if v >= lo && v <= hi {
		return v
	}
	if c.cfg.OnDiagnostic != nil {
		c.cfg.OnDiagnostic("clamped out-of-range " + what + " request")
	}
	if v < lo {
		return lo
	}
	return hi
}

// SetLevel retargets the level stage with a normalized gain in [0,1].
func (c *Chain) SetLevel(gain float64) {
	c.level.SetTarget(c.clampReport("level", gain, 0, 1))
}

// SetLevelVolts drives the level stage with a control voltage through the
// VCA law, so the channel responds to CV overdrive the way the analog
// amplifier does (soft saturation rather than runaway gain).
func (c *Chain) SetLevelVolts(v float64) {
	c.level.SetTarget(c.cfg.Law.VoltageToGain(v))
}

// Level returns the level ramp's target gain.
func (c *Chain) Level() float64 { return c.level.Target() }

// SetMuted opens or closes the mute stage. The re-entry tap is unaffected.
func (c *Chain) SetMuted(muted bool) {
	c.muted.Store(muted)
	if muted {
		c.mute.SetTarget(0)
	} else {
		c.mute.SetTarget(1)
	}
}

// Muted reports the requested mute state (the ramp may still be moving).
func (c *Chain) Muted() bool { return c.muted.Load() }

// SetFilterEngaged crossfades between the filter and bypass branches. Both
// gains move along the same time constant toward complementary targets, so
// their sum stays within a small epsilon of 1 throughout the transition.
func (c *Chain) SetFilterEngaged(engaged bool) {
	c.engaged.Store(engaged)
	if engaged {
		c.filterGain.SetTarget(1)
		c.bypassGain.SetTarget(0)
	} else {
		c.filterGain.SetTarget(0)
		c.bypassGain.SetTarget(1)
	}
}

// FilterEngaged reports the requested engage state.
func (c *Chain) FilterEngaged() bool { return c.engaged.Load() }

// SetFilterCutoffs retargets the low (highpass) and high (resonant lowpass)
// cutoffs from their separate panel controls. Requests outside the physical
// band clamp; an inverted pair is reordered.
func (c *Chain) SetFilterCutoffs(lowHz, highHz float64) {
	lo := c.clampReport("low cutoff", lowHz, c.cfg.CutoffMinHz, c.cfg.CutoffMaxHz)
	hi := c.clampReport("high cutoff", highHz, c.cfg.CutoffMinHz, c.cfg.CutoffMaxHz)
	if lo > hi {
		lo, hi = hi, lo
	}
	c.cutoffLow.SetTarget(lo)
	c.cutoffHigh.SetTarget(hi)
}

// SetResonance retargets the lowpass resonance (Q), clamped to the
// configured limits.
func (c *Chain) SetResonance(q float64) {
	c.resonance.SetTarget(c.clampReport("resonance", q, c.cfg.QMin, c.cfg.QMax))
}

// Process runs one input sample through the chain and returns the channel
// output and the re-entry tap. Render context only.
func (c *Chain) Process(in float64) (out, reEntry float64) {
	split := in * c.level.Next()

	fg := c.filterGain.Next()
	bg := c.bypassGain.Next()
	lo := c.cutoffLow.Next()
	hi := c.cutoffHigh.Next()
	q := c.resonance.Next()

	// The filter keeps running even while faded out so engaging it never
	// replays a stale transient.
	filtered := c.filter.process(split, lo, hi, q)

	summed := filtered*fg + split*bg
	out = summed * c.mute.Next()
	return out, split
}

// ProcessBlock runs a block through the chain. out and reEntry must be the
// same length as in (reEntry may be nil when the tap is unrouted). The
// block's mean absolute re-entry level is published for control-rate
// readers.
func (c *Chain) ProcessBlock(in, out, reEntry []float64) {
	var acc float64
	for i := range in {
		o, re := c.Process(in[i])
		out[i] = o
		if reEntry != nil {
			reEntry[i] = re
		}
		if re < 0 {
			acc -= re
		} else {
			acc += re
		}
	}
	if len(in) > 0 {
		storeFloat(&c.reEntryLevel, acc/float64(len(in)))
	}
}

// ReEntryLevel returns the mean absolute level of the re-entry tap over the
// most recent block. Safe from the control context; this is what the
// CV matrix samples when the channel is patched as a control source.
func (c *Chain) ReEntryLevel() float64 {
	return loadFloat(&c.reEntryLevel)
}

// Reset clears filter state. Not for live use.
func (c *Chain) Reset() {
	c.filter.reset()
}
