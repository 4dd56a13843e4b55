// Package modvolt emulates the control and signal path of a large analog
// modular synthesizer: the reversible response-curve mapping between panel
// positions and physical units, the nonlinear voltage law of its VCOs, and
// per-channel output signal chains whose parameters can be automated live
// without audible discontinuities.
//
// A Rack owns one oscillator-plus-signal-chain per output channel and
// renders them continuously. All setters are control-rate, non-blocking and
// idempotent; the render context never takes a lock.
package modvolt

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	intaudio "github.com/modvolt/modvolt-go/internal/audio"
	intchan "github.com/modvolt/modvolt-go/internal/channel"
	"github.com/modvolt/modvolt-go/internal/ramp"
	"github.com/modvolt/modvolt-go/internal/vco"
)

// Backend selects the realtime output device layer.
type Backend int

const (
	// BackendEbiten plays through the shared ebiten audio context.
	BackendEbiten Backend = iota
	// BackendPortAudio plays through the default portaudio device; it
	// needs no ebiten context and suits headless use.
	BackendPortAudio
)

type Option func(*rackConfig)

type rackConfig struct {
	channels   int
	model      vco.Model
	backend    Backend
	masterGain float64
	diag       func(string)
}

func defaultRackConfig() rackConfig {
	return rackConfig{
		channels:   1,
		model:      vco.DefaultModel(),
		backend:    BackendEbiten,
		masterGain: 0.5,
	}
}

// WithChannels sets the number of output channels.
func WithChannels(n int) Option {
	return func(cfg *rackConfig) { cfg.channels = n }
}

// WithBackend selects the realtime output backend used by Play.
func WithBackend(b Backend) Option {
	return func(cfg *rackConfig) { cfg.backend = b }
}

// WithMasterGain sets the initial master gain.
func WithMasterGain(g float64) Option {
	return func(cfg *rackConfig) { cfg.masterGain = g }
}

// WithOscillatorModel substitutes a different VCO calibration for the
// stock one (for instance a zero-alpha ideal model, or a recalibrated
// units-per-octave).
func WithOscillatorModel(m vco.Model) Option {
	return func(cfg *rackConfig) { cfg.model = m }
}

// WithDiagnostics installs a sink for non-fatal diagnostics (clamped
// out-of-range requests, unknown identifiers). The sink is called from the
// control context.
func WithDiagnostics(fn func(msg string)) Option {
	return func(cfg *rackConfig) { cfg.diag = fn }
}

type route struct {
	src, dst int
	depth    float64 // volts per unit of re-entry level
}

type devicePlayer interface {
	Stop() error
}

// Rack is a bank of output channels plus the modulation plumbing between
// them. It implements the audio Source contract, so it can be handed to
// either realtime backend or rendered offline.
type Rack struct {
	mu         sync.Mutex
	sampleRate int
	model      vco.Model
	backend    Backend
	channels   []*Channel
	master     *ramp.Ramp
	masterSet  atomicFloat
	routes     atomic.Value // []route
	player     devicePlayer
	diag       func(string)

	// render-owned scratch buffers
	oscBuf []float64
	chBuf  []float64
	mixBuf []float64
}

func NewRack(sampleRate int, opts ...Option) (*Rack, error) {
	if sampleRate <= 0 {
		return nil, errors.New("sampleRate must be positive")
	}
	cfg := defaultRackConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.channels < 1 {
		return nil, fmt.Errorf("channel count %d, need at least 1", cfg.channels)
	}
	if cfg.masterGain < 0 {
		cfg.masterGain = 0
	}
	r := &Rack{
		sampleRate: sampleRate,
		model:      cfg.model,
		backend:    cfg.backend,
		master:     ramp.New(cfg.masterGain, 30, sampleRate),
		diag:       cfg.diag,
	}
	r.masterSet.Store(cfg.masterGain)
	r.routes.Store([]route(nil))
	for i := 0; i < cfg.channels; i++ {
		chainCfg := intchan.DefaultConfig(sampleRate)
		chainCfg.OnDiagnostic = cfg.diag
		r.channels = append(r.channels, newChannel(i, sampleRate, cfg.model, chainCfg))
	}
	return r, nil
}

// SampleRate returns the rack's render rate in Hz.
func (r *Rack) SampleRate() int { return r.sampleRate }

// NumChannels returns the number of output channels.
func (r *Rack) NumChannels() int { return len(r.channels) }

// Channel returns the control surface for one output channel.
func (r *Rack) Channel(i int) (*Channel, error) {
	if i < 0 || i >= len(r.channels) {
		return nil, fmt.Errorf("channel %d out of range 0..%d", i, len(r.channels)-1)
	}
	return r.channels[i], nil
}

// MasterGain returns the master gain target.
func (r *Rack) MasterGain() float64 { return r.masterSet.Load() }

// SetMasterGain retargets the master gain ramp. Negative requests clamp
// to silence.
func (r *Rack) SetMasterGain(g float64) {
	if g < 0 {
		g = 0
		if r.diag != nil {
			r.diag("clamped negative master gain request")
		}
	}
	r.masterSet.Store(g)
	r.master.SetTarget(g)
}

// DialToFrequency exposes the rack's frequency law for parameter binding
// and patch import/export.
func (r *Rack) DialToFrequency(dial, cvVolts float64, rangeLow bool) float64 {
	return r.model.DialToFrequency(dial, cvVolts, rackRange(rangeLow))
}

// FrequencyToDial is the approximate inverse of DialToFrequency: it ignores
// tracking distortion, so it is exact only inside the linear tracking zone.
func (r *Rack) FrequencyToDial(freqHz float64, rangeLow bool) float64 {
	return r.model.FrequencyToDial(freqHz, rackRange(rangeLow))
}

func rackRange(low bool) vco.Range {
	if low {
		return vco.RangeLow
	}
	return vco.RangeHigh
}

// RouteReEntry patches the src channel's re-entry tap into the dst
// channel's external CV input. depthVolts scales the tap's block-mean level
// into volts; one unit of tap level at depth 1 shifts dst one octave.
// Routing src to itself is allowed (it behaves as a one-block-delayed
// feedback path). A second route for the same pair replaces the first;
// depth 0 removes it.
func (r *Rack) RouteReEntry(src, dst int, depthVolts float64) error {
	if src < 0 || src >= len(r.channels) || dst < 0 || dst >= len(r.channels) {
		return fmt.Errorf("route %d->%d out of range", src, dst)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	old := r.routes.Load().([]route)
	next := make([]route, 0, len(old)+1)
	for _, rt := range old {
		if rt.src == src && rt.dst == dst {
			continue
		}
		next = append(next, rt)
	}
	if depthVolts != 0 {
		next = append(next, route{src: src, dst: dst, depth: depthVolts})
	}
	r.routes.Store(next)
	return nil
}

// Process renders one interleaved stereo block. It belongs to the render
// context: the audio backend calls it, or offline callers drive it
// directly. It never blocks and never fails; malformed parameter state has
// already been clamped at the control boundary.
func (r *Rack) Process(dst []float32) {
	frames := len(dst) / 2
	if frames == 0 {
		return
	}
	r.ensureScratch(frames)
	dt := float64(frames) / float64(r.sampleRate)

	// Control-rate tick: resolve the CV matrix from last block's re-entry
	// levels and retarget every oscillator.
	routes := r.routes.Load().([]route)
	for _, ch := range r.channels {
		ch.modVolts = 0
	}
	for _, rt := range routes {
		r.channels[rt.dst].modVolts += r.channels[rt.src].chain.ReEntryLevel() * rt.depth
	}
	for _, ch := range r.channels {
		ch.controlTick(dt)
	}

	for i := range r.mixBuf {
		r.mixBuf[i] = 0
	}
	for _, ch := range r.channels {
		for f := 0; f < frames; f++ {
			r.oscBuf[f] = ch.osc.Sample()
		}
		ch.chain.ProcessBlock(r.oscBuf[:frames], r.chBuf[:frames], nil)
		for f := 0; f < frames; f++ {
			r.mixBuf[f] += r.chBuf[f]
		}
	}
	for f := 0; f < frames; f++ {
		v := float32(r.mixBuf[f] * r.master.Next())
		dst[2*f] = v
		dst[2*f+1] = v
	}
}

func (r *Rack) ensureScratch(frames int) {
	if cap(r.oscBuf) < frames {
		r.oscBuf = make([]float64, frames)
		r.chBuf = make([]float64, frames)
		r.mixBuf = make([]float64, frames)
	}
	r.oscBuf = r.oscBuf[:frames]
	r.chBuf = r.chBuf[:frames]
	r.mixBuf = r.mixBuf[:frames]
}

// Play starts continuous playback on the configured backend.
func (r *Rack) Play() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.player != nil {
		return errors.New("rack already playing")
	}
	switch r.backend {
	case BackendPortAudio:
		pl, err := intaudio.NewPortAudioPlayer(r.sampleRate, r)
		if err != nil {
			return err
		}
		if err := pl.Play(); err != nil {
			pl.Stop()
			return err
		}
		r.player = pl
	default:
		pl, err := intaudio.NewPlayer(r.sampleRate, r)
		if err != nil {
			return err
		}
		pl.Play()
		r.player = pl
	}
	return nil
}

// Stop ends playback and releases the output device. The rack itself stays
// usable; Play may be called again.
func (r *Rack) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.player == nil {
		return nil
	}
	err := r.player.Stop()
	r.player = nil
	return err
}
