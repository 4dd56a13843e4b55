package vca

import (
	"math"
	"testing"
)

func TestUnityGainAtZeroVolts(t *testing.T) {
	l := DefaultLaw()
	if got := l.VoltageToGain(0); math.Abs(got-1) > 1e-12 {
		t.Fatalf("VoltageToGain(0) = %v, want 1", got)
	}
}

func TestExponentialZoneTenDBPerVolt(t *testing.T) {
	l := DefaultLaw()
	cases := []struct {
		volts float64
		want  float64
	}{
		{-1, math.Pow(10, -10.0/20)}, // -10 dB
		{-2, math.Pow(10, -20.0/20)}, // -20 dB
		{-6, math.Pow(10, -60.0/20)}, // -60 dB
	}
	for _, tc := range cases {
		got := l.VoltageToGain(tc.volts)
		if math.Abs(got-tc.want) > 1e-12 {
			t.Errorf("VoltageToGain(%v) = %v, want %v", tc.volts, got, tc.want)
		}
	}
}

func TestCutoffIsSilent(t *testing.T) {
	l := DefaultLaw()
	for _, v := range []float64{-12, -12.001, -100} {
		if got := l.VoltageToGain(v); got != 0 {
			t.Errorf("VoltageToGain(%v) = %v, want 0", v, got)
		}
	}
}

func TestSaturationCompressesPositiveVoltage(t *testing.T) {
	l := DefaultLaw()
	for _, v := range []float64{0.5, 1, 2, 3, 5} {
		got := l.VoltageToGain(v)
		ideal := math.Pow(10, v*l.DBPerVolt/20)
		if got <= 1 {
			t.Errorf("VoltageToGain(%v) = %v, want above unity", v, got)
		}
		if got >= ideal {
			t.Errorf("VoltageToGain(%v) = %v, want below ideal %v", v, got, ideal)
		}
	}
}

func TestSaturationMonotonicAndBounded(t *testing.T) {
	l := DefaultLaw()
	// Asymptotic gain: compressed excess approaches width/softness = 1.5 V.
	asymptote := math.Pow(10, (l.HardLimit-l.LinearThreshold)/l.Softness*l.DBPerVolt/20)
	prev := 0.0
	for v := 0.0; v <= 20; v += 0.1 {
		g := l.VoltageToGain(v)
		if g < prev {
			t.Fatalf("gain not monotonic at %v V: %v < %v", v, g, prev)
		}
		if g >= asymptote {
			t.Fatalf("gain %v at %v V exceeds asymptote %v", g, v, asymptote)
		}
		prev = g
	}
}

func TestGainToVoltageRoundTrip(t *testing.T) {
	l := DefaultLaw()
	for v := -11.5; v <= 6; v += 0.25 {
		g := l.VoltageToGain(v)
		back := l.GainToVoltage(g)
		if math.Abs(back-v) > 1e-9 {
			t.Fatalf("round trip %v V -> gain %v -> %v V", v, g, back)
		}
	}
}

func TestGainToVoltageEdges(t *testing.T) {
	l := DefaultLaw()
	if got := l.GainToVoltage(0); got != l.CutoffVoltage {
		t.Errorf("GainToVoltage(0) = %v, want %v", got, l.CutoffVoltage)
	}
	if got := l.GainToVoltage(-1); got != l.CutoffVoltage {
		t.Errorf("GainToVoltage(-1) = %v, want %v", got, l.CutoffVoltage)
	}
	if got := l.GainToVoltage(1e12); got != l.HardLimit {
		t.Errorf("GainToVoltage above asymptote = %v, want %v", got, l.HardLimit)
	}
}
