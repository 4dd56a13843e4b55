// Package vca models the control-voltage response of the channel level
// stage's amplifier (a CEM 3330 style exponential VCA): unity gain at 0 V,
// 10 dB per volt below that down to a hard cutoff, and a soft-knee
// saturation zone for positive control voltages where the effective voltage
// is compressed instead of letting the gain grow without bound.
package vca

import "math"

// Law holds the calibration of the voltage-to-gain curve. Use DefaultLaw;
// the fields are exported so a measured calibration can be substituted.
type Law struct {
	// DBPerVolt is the slope of the exponential zone.
	DBPerVolt float64
	// CutoffVoltage is where the amplifier stops conducting entirely.
	CutoffVoltage float64
	// LinearThreshold is the top of the exponential zone; above it the
	// control voltage is soft-limited.
	LinearThreshold float64
	// HardLimit bounds the saturation zone; the compressed voltage
	// approaches LinearThreshold + (HardLimit-LinearThreshold)/Softness
	// asymptotically.
	HardLimit float64
	// Softness sets how quickly the saturation knee closes.
	Softness float64
}

func DefaultLaw() Law {
	return Law{
		DBPerVolt:       10,
		CutoffVoltage:   -12,
		LinearThreshold: 0,
		HardLimit:       3.0,
		Softness:        2.0,
	}
}

// VoltageToGain converts a control voltage to a linear gain factor.
// At or below CutoffVoltage the gain is exactly zero; between cutoff and
// LinearThreshold it follows DBPerVolt; above LinearThreshold the excess
// voltage is compressed toward the knee before the exponential applies.
func (l Law) VoltageToGain(v float64) float64 {
	if v <= l.CutoffVoltage {
		return 0
	}
	if v <= l.LinearThreshold {
		return math.Pow(10, v*l.DBPerVolt/20)
	}
	width := l.HardLimit - l.LinearThreshold
	ratio := (v - l.LinearThreshold) / width
	compressed := width * ratio / (1 + ratio*l.Softness)
	return math.Pow(10, (l.LinearThreshold+compressed)*l.DBPerVolt/20)
}

// GainToVoltage inverts VoltageToGain. Non-positive gains map to
// CutoffVoltage. Gains above the saturation asymptote (unreachable by the
// forward curve) clamp to HardLimit.
func (l Law) GainToVoltage(gain float64) float64 {
	if gain <= 0 {
		return l.CutoffVoltage
	}
	v := 20 * math.Log10(gain) / l.DBPerVolt
	if v <= l.LinearThreshold {
		if v < l.CutoffVoltage {
			return l.CutoffVoltage
		}
		return v
	}
	// Invert the soft knee: s = w*r/(1+r*softness) => r = s/(w - s*softness).
	width := l.HardLimit - l.LinearThreshold
	s := v - l.LinearThreshold
	denom := width - s*l.Softness
	if denom <= 0 {
		return l.HardLimit
	}
	r := s / denom
	return l.LinearThreshold + r*width
}
