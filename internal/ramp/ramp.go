// Package ramp provides click-free parameter automation: each parameter
// carries an explicit ramp state (current value, target value, time constant)
// advanced once per audio frame by the render context, while control-rate
// callers retarget it through a lock-free atomic write.
package ramp

import (
	"math"
	"sync/atomic"
)

// snapEpsilon is the residual below which a ramp latches onto its target.
const snapEpsilon = 1e-6

// Ramp moves a value toward a target along a one-pole exponential.
// SetTarget may be called from any goroutine; Next and Value must only be
// called from the render context. A retarget mid-ramp redirects the ramp
// from its current value, it never resets discontinuously.
type Ramp struct {
	target  atomic.Uint64 // float64 bits
	current float64
	coeff   float64
}

// New returns a ramp resting at initial. timeConstMs is the exponential time
// constant: after one time constant the remaining distance to the target has
// decayed to 1/e.
func New(initial, timeConstMs float64, sampleRate int) *Ramp {
	r := &Ramp{current: initial}
	r.target.Store(math.Float64bits(initial))
	r.SetTimeConstant(timeConstMs, sampleRate)
	return r
}

// SetTimeConstant recomputes the per-sample coefficient. A zero or negative
// time constant makes the ramp instantaneous.
func (r *Ramp) SetTimeConstant(timeConstMs float64, sampleRate int) {
	tauSamples := timeConstMs / 1000.0 * float64(sampleRate)
	if tauSamples <= 0 {
		r.coeff = 1
		return
	}
	r.coeff = 1 - math.Exp(-1/tauSamples)
}

// SetTarget retargets the ramp. Issuing the same target twice is a no-op
// after the first ramp completes.
func (r *Ramp) SetTarget(v float64) {
	r.target.Store(math.Float64bits(v))
}

// Target returns the value the ramp is heading toward.
func (r *Ramp) Target() float64 {
	return math.Float64frombits(r.target.Load())
}

// Jump forces both the current value and the target, skipping the ramp.
// Intended for initialization, not for live automation.
func (r *Ramp) Jump(v float64) {
	r.target.Store(math.Float64bits(v))
	r.current = v
}

// Next advances the ramp by one sample and returns the new current value.
func (r *Ramp) Next() float64 {
	target := math.Float64frombits(r.target.Load())
	r.current += (target - r.current) * r.coeff
	if math.Abs(target-r.current) < snapEpsilon {
		r.current = target
	}
	return r.current
}

// Value returns the current value without advancing the ramp.
func (r *Ramp) Value() float64 {
	return r.current
}

// Done reports whether the ramp has settled on its target.
func (r *Ramp) Done() bool {
	return r.current == math.Float64frombits(r.target.Load())
}
