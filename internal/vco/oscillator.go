package vco

import (
	"math"

	"github.com/modvolt/modvolt-go/internal/ramp"
)

const twoPi = math.Pi * 2

// Waveform selects the oscillator's output shape.
type Waveform int

const (
	WaveSine Waveform = iota
	WaveTriangle
	WaveSaw
	WaveSquare
)

// ParseWaveform maps a stored waveform name to a Waveform, falling back to
// sine for unknown names.
func ParseWaveform(name string) Waveform {
	switch name {
	case "triangle":
		return WaveTriangle
	case "saw", "sawtooth":
		return WaveSaw
	case "square", "pulse":
		return WaveSquare
	}
	return WaveSine
}

// Oscillator renders an audio-rate waveform at a frequency supplied by the
// frequency model. Frequency changes are ramped so pitch automation glides
// instead of stepping; the phase accumulator itself is never reset by a
// frequency change, so the output stays continuous.
type Oscillator struct {
	sampleRate float64
	wave       Waveform
	phase      float64
	freq       *ramp.Ramp
}

// frequency glide time constant; short enough to feel immediate on a dial
// gesture, long enough to suppress stepping from block-rate CV updates.
const freqGlideMs = 5.0

func NewOscillator(sampleRate int, wave Waveform, initialHz float64) *Oscillator {
	return &Oscillator{
		sampleRate: float64(sampleRate),
		wave:       wave,
		freq:       ramp.New(initialHz, freqGlideMs, sampleRate),
	}
}

// SetFrequency retargets the oscillator's frequency ramp. Safe to call from
// the control context while the render context is running.
func (o *Oscillator) SetFrequency(hz float64) {
	if hz < 0 {
		hz = 0
	}
	o.freq.SetTarget(hz)
}

// Frequency returns the ramp's target frequency in Hz.
func (o *Oscillator) Frequency() float64 {
	return o.freq.Target()
}

// SetWaveform switches the output shape. The phase is preserved, so for
// zero-crossing-aligned shapes the switch is modest in amplitude; callers
// wanting a fully click-free morph should crossfade two oscillators.
func (o *Oscillator) SetWaveform(w Waveform) {
	o.wave = w
}

// Sample advances the oscillator one frame and returns a value in [-1,1].
func (o *Oscillator) Sample() float64 {
	hz := o.freq.Next()
	var out float64
	switch o.wave {
	case WaveTriangle:
		if o.phase < 0.5 {
			out = 4*o.phase - 1
		} else {
			out = 3 - 4*o.phase
		}
	case WaveSaw:
		out = 1 - 2*o.phase
	case WaveSquare:
		if o.phase < 0.5 {
			out = 1
		} else {
			out = -1
		}
	default:
		out = math.Sin(o.phase * twoPi)
	}
	o.phase += hz / o.sampleRate
	for o.phase >= 1 {
		o.phase -= 1
	}
	return out
}
