package vco

import "math"

// TablePoint is one row of the tracking diagnostic table.
type TablePoint struct {
	Dial        float64
	Voltage     float64 // summed, pre-distortion control voltage
	FreqHz      float64 // frequency with tracking distortion applied
	IdealFreqHz float64 // frequency with TrackingAlpha forced to zero
	ErrorCents  float64 // 1200*log2(FreqHz/IdealFreqHz)
}

// TrackingTable sweeps the dial from 0 to 10 at the given step and reports
// the distorted frequency, the ideal frequency, and the tracking error in
// cents at each position. It exists for calibration and regression work,
// not for the render path. A step <= 0 falls back to 0.5.
func (m Model) TrackingTable(step float64, rng Range) []TablePoint {
	if step <= 0 {
		step = 0.5
	}
	ideal := m
	ideal.TrackingAlpha = 0

	var points []TablePoint
	for dial := 0.0; dial <= 10+1e-9; dial += step {
		freq := m.DialToFrequency(dial, 0, rng)
		freqIdeal := ideal.DialToFrequency(dial, 0, rng)
		points = append(points, TablePoint{
			Dial:        dial,
			Voltage:     m.DialVoltage(dial),
			FreqHz:      freq,
			IdealFreqHz: freqIdeal,
			ErrorCents:  1200 * math.Log2(freq/freqIdeal),
		})
	}
	return points
}
