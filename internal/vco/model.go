// Package vco models a voltage-controlled oscillator's frequency law: dial
// scaling, control-voltage summation, the nonlinear departure from ideal
// 1 V/octave tracking at the extremes of the voltage range, the exponential
// volt-to-frequency law, and a decade (HI/LO) range switch. The model is a
// pure function of its inputs; it holds no state and is safe to share.
package vco

import "math"

// Range selects the decade frequency range.
type Range int

const (
	RangeHigh Range = iota
	RangeLow
)

func (r Range) String() string {
	if r == RangeLow {
		return "lo"
	}
	return "hi"
}

// Bounds is a closed physical frequency interval in Hz.
type Bounds struct {
	MinHz, MaxHz float64
}

func (b Bounds) clamp(hz float64) float64 {
	if hz < b.MinHz {
		return b.MinHz
	}
	if hz > b.MaxHz {
		return b.MaxHz
	}
	return hz
}

// Model holds the calibration of one oscillator's frequency law.
// The zero value is not useful; start from DefaultModel.
type Model struct {
	// ReferenceFreqHz is the frequency produced at ReferenceVoltage.
	ReferenceFreqHz float64
	// ReferenceVoltage is the center of the tracking law's linear zone.
	ReferenceVoltage float64
	// UnitsPerOctave is how many dial units move the pitch one octave.
	UnitsPerOctave float64
	// TrackingAlpha scales the quadratic tracking error outside the
	// linear zone. Zero gives an ideal 1 V/octave oscillator.
	TrackingAlpha float64
	// LinearHalfRangeV is the half-width of the zone around
	// ReferenceVoltage inside which tracking is exact.
	LinearHalfRangeV float64
	// HighBounds and LowBounds clamp the output frequency per range.
	// LowBounds is exactly HighBounds/10 in a faithful calibration.
	HighBounds Bounds
	LowBounds  Bounds
}

// DefaultModel returns the stock calibration: middle C at the dial center,
// 0.95 dial units per octave (the measured miscalibration of the original
// hardware, not a bug), and a gentle quadratic tracking error beyond
// +-2.5 V of center.
func DefaultModel() Model {
	return Model{
		ReferenceFreqHz:  261,
		ReferenceVoltage: 5.0,
		UnitsPerOctave:   0.95,
		TrackingAlpha:    0.01,
		LinearHalfRangeV: 2.5,
		HighBounds:       Bounds{MinHz: 8, MaxHz: 8000},
		LowBounds:        Bounds{MinHz: 0.8, MaxHz: 800},
	}
}

// DialVoltage converts a front-panel dial position (0..10 domain, passed
// through unclamped) to the oscillator's control voltage.
func (m Model) DialVoltage(dial float64) float64 {
	return m.ReferenceVoltage + (dial-5)/m.UnitsPerOctave
}

// DistortVoltage applies the tracking nonlinearity. Inside the linear zone
// the voltage passes through unmodified; outside it, sensitivity degrades
// quadratically with the excess, preserving the sign of the deviation. The
// sensitivity floor is zero: far beyond the tracking range the deviation
// collapses toward center rather than inverting.
func (m Model) DistortVoltage(v float64) float64 {
	deviation := v - m.ReferenceVoltage
	excess := math.Abs(deviation) - m.LinearHalfRangeV
	if excess <= 0 {
		return v
	}
	reduction := 1 - m.TrackingAlpha*excess*excess
	if reduction < 0 {
		reduction = 0
	}
	return m.ReferenceVoltage + deviation*reduction
}

// DialToFrequency runs the full pipeline: dial to volts, CV summation,
// tracking distortion, exponential law, decade divide, clamp. cvVolts is
// the caller's already-summed external control voltage.
func (m Model) DialToFrequency(dial, cvVolts float64, rng Range) float64 {
	total := m.DialVoltage(dial) + cvVolts
	distorted := m.DistortVoltage(total)
	freq := m.ReferenceFreqHz * math.Exp2(distorted-m.ReferenceVoltage)
	bounds := m.HighBounds
	if rng == RangeLow {
		freq /= 10
		bounds = m.LowBounds
	}
	return bounds.clamp(freq)
}

// FrequencyToDial inverts the frequency law ignoring tracking distortion:
// it assumes ideal 1 V/octave behavior, so it agrees with DialToFrequency
// only inside the linear zone (and for TrackingAlpha zero). The result is
// clamped to the dial's 0..10 domain. Exact inversion through the
// distortion is deliberately not provided; see the tracking table for
// quantifying the error at the extremes.
func (m Model) FrequencyToDial(freqHz float64, rng Range) float64 {
	if rng == RangeLow {
		freqHz *= 10
	}
	if freqHz <= 0 {
		return 0
	}
	voltage := m.ReferenceVoltage + math.Log2(freqHz/m.ReferenceFreqHz)
	dial := 5 + (voltage-m.ReferenceVoltage)*m.UnitsPerOctave
	if dial < 0 {
		return 0
	}
	if dial > 10 {
		return 10
	}
	return dial
}
