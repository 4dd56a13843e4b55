// Package lfo provides a low-frequency oscillator used as a control-voltage
// source in the rack's modulation matrix. Output is in volts (summed into a
// VCO's external CV), advanced at control rate once per render block rather
// than per sample.
package lfo

import "math"

// Shape selects the LFO waveform.
type Shape int

const (
	ShapeSine Shape = iota
	ShapeTriangle
	ShapeSaw
	ShapeSquare
)

// LFO generates a slowly varying control voltage. Depth is in volts, so a
// depth of 1 swings a connected VCO one octave either way at the peaks.
type LFO struct {
	depthVolts float64
	rateHz     float64
	shape      Shape
	phase      float64 // [0,1)
}

// Set configures the LFO. Negative depth inverts the output; a negative
// rate is treated as zero (stopped).
func (l *LFO) Set(depthVolts, rateHz float64, shape Shape) {
	l.depthVolts = depthVolts
	if rateHz < 0 {
		rateHz = 0
	}
	l.rateHz = rateHz
	if shape < ShapeSine || shape > ShapeSquare {
		shape = ShapeSine
	}
	l.shape = shape
}

// Advance moves the LFO forward by dt seconds and returns the control
// voltage at the new phase. Returns 0 when depth or rate is zero.
func (l *LFO) Advance(dt float64) float64 {
	if l.depthVolts == 0 || l.rateHz == 0 {
		return 0
	}
	l.phase += l.rateHz * dt
	for l.phase >= 1 {
		l.phase -= 1
	}

	var v float64
	switch l.shape {
	case ShapeTriangle:
		if l.phase < 0.5 {
			v = 4*l.phase - 1
		} else {
			v = 3 - 4*l.phase
		}
	case ShapeSaw:
		v = 1 - 2*l.phase
	case ShapeSquare:
		if l.phase < 0.5 {
			v = 1
		} else {
			v = -1
		}
	default:
		v = math.Sin(l.phase * 2 * math.Pi)
	}
	return v * l.depthVolts
}

// Active reports whether the LFO contributes any voltage.
func (l *LFO) Active() bool {
	return l.depthVolts != 0 && l.rateHz != 0
}

// Reset zeros the phase.
func (l *LFO) Reset() {
	l.phase = 0
}
