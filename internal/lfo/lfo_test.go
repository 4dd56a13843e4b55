package lfo

import (
	"math"
	"testing"
)

func TestTriangleShape(t *testing.T) {
	l := &LFO{}
	l.Set(1.0, 1.0, ShapeTriangle)

	// Advance in 1/100 s steps: one full cycle in 100 steps.
	var samples [100]float64
	for i := range samples {
		samples[i] = l.Advance(0.01)
	}
	// Quarter cycle: triangle crosses zero.
	if math.Abs(samples[24]) > 0.05 {
		t.Errorf("triangle at quarter cycle = %v, want ~0", samples[24])
	}
	// Half cycle: positive peak.
	if math.Abs(samples[49]-1.0) > 0.05 {
		t.Errorf("triangle at half cycle = %v, want ~1", samples[49])
	}
}

func TestSquareSwingsFullDepth(t *testing.T) {
	l := &LFO{}
	l.Set(2.0, 1.0, ShapeSquare)
	if v := l.Advance(0.01); math.Abs(v-2.0) > 1e-9 {
		t.Fatalf("square first half = %v, want 2", v)
	}
	for i := 0; i < 55; i++ {
		l.Advance(0.01)
	}
	if v := l.Advance(0.01); math.Abs(v+2.0) > 1e-9 {
		t.Fatalf("square second half = %v, want -2", v)
	}
}

func TestSineVoltsBounded(t *testing.T) {
	l := &LFO{}
	l.Set(0.5, 3.0, ShapeSine)
	for i := 0; i < 1000; i++ {
		v := l.Advance(0.001)
		if v < -0.5 || v > 0.5 {
			t.Fatalf("sine output %v outside +-0.5 V", v)
		}
	}
}

func TestZeroDepthOrRateIsSilent(t *testing.T) {
	l := &LFO{}
	l.Set(0, 5, ShapeSine)
	if v := l.Advance(0.01); v != 0 {
		t.Fatalf("zero depth: %v, want 0", v)
	}
	if l.Active() {
		t.Fatal("zero depth should be inactive")
	}
	l.Set(1, 0, ShapeSine)
	if v := l.Advance(0.01); v != 0 {
		t.Fatalf("zero rate: %v, want 0", v)
	}
}

func TestNegativeRateStops(t *testing.T) {
	l := &LFO{}
	l.Set(1, -4, ShapeSaw)
	if l.Active() {
		t.Fatal("negative rate should leave the LFO stopped")
	}
}

func TestResetReturnsToPhaseZero(t *testing.T) {
	l := &LFO{}
	l.Set(1, 1, ShapeSaw)
	for i := 0; i < 37; i++ {
		l.Advance(0.01)
	}
	l.Reset()
	// Saw right after phase 0 is near its positive peak.
	if v := l.Advance(0.001); v < 0.9 {
		t.Fatalf("saw after reset = %v, want near 1", v)
	}
}
