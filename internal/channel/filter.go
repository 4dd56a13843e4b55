package channel

import "math"

// filterBranch is the engaged path of the chain: a one-pole highpass at the
// low cutoff followed by a topology-preserving state-variable lowpass at the
// high cutoff carrying the resonance. Both cutoffs and the resonance are fed
// per sample from ramps, so sweeps are continuous rather than stepped.
type filterBranch struct {
	sampleRate float64

	// one-pole highpass state
	hpState float64

	// SVF integrator state
	ic1, ic2 float64
}

// svfCoefficient maps a cutoff to the SVF's g term, limiting the ratio just
// below Nyquist where tan blows up.
func svfCoefficient(cutoffHz, sampleRate float64) float64 {
	ratio := cutoffHz / sampleRate
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 0.499 {
		ratio = 0.499
	}
	return math.Tan(math.Pi * ratio)
}

// process runs one sample through highpass then resonant lowpass.
func (f *filterBranch) process(in, lowCutHz, highCutHz, q float64) float64 {
	// RC highpass: retain what the lowpass at lowCutHz would remove.
	rc := 1 / (2 * math.Pi * lowCutHz)
	dt := 1 / f.sampleRate
	alpha := dt / (rc + dt)
	f.hpState += alpha * (in - f.hpState)
	hp := in - f.hpState

	g := svfCoefficient(highCutHz, f.sampleRate)
	k := 1 / q
	v1 := (f.ic1 + g*(hp-f.ic2)) / (1 + g*(g+k))
	v2 := f.ic2 + g*v1
	f.ic1 = 2*v1 - f.ic1
	f.ic2 = 2*v2 - f.ic2
	return v2
}

func (f *filterBranch) reset() {
	f.hpState = 0
	f.ic1 = 0
	f.ic2 = 0
}
