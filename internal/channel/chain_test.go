package channel

import (
	"math"
	"testing"
)

const testSR = 48000

func settle(c *Chain, frames int) {
	for i := 0; i < frames; i++ {
		c.Process(0)
	}
}

func renderSine(c *Chain, freq, amp float64, frames int, onFrame func(i int)) []float64 {
	out := make([]float64, frames)
	phase := 0.0
	for i := 0; i < frames; i++ {
		if onFrame != nil {
			onFrame(i)
		}
		in := amp * math.Sin(phase*2*math.Pi)
		out[i], _ = c.Process(in)
		phase += freq / testSR
		if phase >= 1 {
			phase -= 1
		}
	}
	return out
}

func maxSampleStep(samples []float64) float64 {
	maxStep := 0.0
	for i := 1; i < len(samples); i++ {
		if step := math.Abs(samples[i] - samples[i-1]); step > maxStep {
			maxStep = step
		}
	}
	return maxStep
}

func TestCrossfadeConservation(t *testing.T) {
	c := New(DefaultConfig(testSR))
	check := func() {
		sum := c.filterGain.Value() + c.bypassGain.Value()
		if math.Abs(sum-1) > 1e-3 {
			t.Fatalf("filterGain+bypassGain = %v, want ~1", sum)
		}
	}
	c.SetFilterEngaged(true)
	for i := 0; i < testSR/2; i++ {
		c.Process(0.5)
		check()
	}
	c.SetFilterEngaged(false)
	for i := 0; i < testSR/4; i++ {
		c.Process(0.5)
		check()
		if i == 100 {
			// Re-engage mid-fade; both ramps redirect from their
			// current values along the same constant.
			c.SetFilterEngaged(true)
		}
	}
}

func TestMuteDoesNotClick(t *testing.T) {
	c := New(DefaultConfig(testSR))
	settle(c, testSR/10)
	out := renderSine(c, 220, 0.8, testSR/5, func(i int) {
		if i == 1000 {
			c.SetMuted(true)
		}
	})
	if got := maxSampleStep(out); got > 0.1 {
		t.Fatalf("max sample-to-sample delta across mute = %v, want < 0.1", got)
	}
	// Output must actually reach silence.
	tail := out[len(out)-100:]
	for _, v := range tail {
		if math.Abs(v) > 1e-3 {
			t.Fatalf("output not silent after mute: %v", v)
		}
	}
}

func TestFilterEngageDoesNotClick(t *testing.T) {
	c := New(DefaultConfig(testSR))
	c.SetFilterCutoffs(100, 2000)
	settle(c, testSR/10)
	out := renderSine(c, 220, 0.8, testSR/5, func(i int) {
		if i == 1000 {
			c.SetFilterEngaged(true)
		}
		if i == 6000 {
			c.SetFilterEngaged(false)
		}
	})
	if got := maxSampleStep(out); got > 0.1 {
		t.Fatalf("max sample-to-sample delta across filter toggles = %v, want < 0.1", got)
	}
}

func TestLevelChangeDoesNotClick(t *testing.T) {
	c := New(DefaultConfig(testSR))
	settle(c, testSR/10)
	out := renderSine(c, 220, 0.8, testSR/5, func(i int) {
		if i == 1000 {
			c.SetLevel(0.1)
		}
		if i == 5000 {
			c.SetLevel(1)
		}
	})
	if got := maxSampleStep(out); got > 0.1 {
		t.Fatalf("max sample-to-sample delta across level changes = %v, want < 0.1", got)
	}
}

func TestReEntryUnaffectedByMute(t *testing.T) {
	c := New(DefaultConfig(testSR))
	c.SetLevel(0.5)
	settle(c, testSR/2)

	_, rePre := c.Process(1)
	c.SetMuted(true)
	var out, re float64
	for i := 0; i < testSR/2; i++ {
		out, re = c.Process(1)
	}
	if math.Abs(out) > 1e-3 {
		t.Fatalf("muted output = %v, want silence", out)
	}
	if math.Abs(re-rePre) > 1e-6 {
		t.Fatalf("re-entry moved across mute: %v -> %v", rePre, re)
	}
	if math.Abs(re-0.5) > 1e-3 {
		t.Fatalf("re-entry = %v, want ~0.5 (post-level)", re)
	}
}

func TestReEntryScalesWithLevel(t *testing.T) {
	c := New(DefaultConfig(testSR))
	settle(c, testSR/10)
	out1, re1 := c.Process(1)
	c.SetLevel(0.25)
	var out2, re2 float64
	for i := 0; i < testSR; i++ {
		out2, re2 = c.Process(1)
	}
	if math.Abs(re2-0.25*re1) > 1e-3 {
		t.Fatalf("re-entry did not scale with level: %v -> %v", re1, re2)
	}
	if math.Abs(out2-0.25*out1) > 1e-3 {
		t.Fatalf("output did not scale with level: %v -> %v", out1, out2)
	}
}

func TestSettersClampAndReport(t *testing.T) {
	var diags []string
	cfg := DefaultConfig(testSR)
	cfg.OnDiagnostic = func(msg string) { diags = append(diags, msg) }
	c := New(cfg)

	c.SetLevel(-2)
	if got := c.level.Target(); got != 0 {
		t.Errorf("level target = %v, want clamp to 0", got)
	}
	c.SetLevel(7)
	if got := c.level.Target(); got != 1 {
		t.Errorf("level target = %v, want clamp to 1", got)
	}
	c.SetFilterCutoffs(-100, 1e9)
	if got := c.cutoffLow.Target(); got != cfg.CutoffMinHz {
		t.Errorf("low cutoff target = %v, want %v", got, cfg.CutoffMinHz)
	}
	if got := c.cutoffHigh.Target(); got != cfg.CutoffMaxHz {
		t.Errorf("high cutoff target = %v, want %v", got, cfg.CutoffMaxHz)
	}
	c.SetResonance(1e6)
	if got := c.resonance.Target(); got != cfg.QMax {
		t.Errorf("resonance target = %v, want %v", got, cfg.QMax)
	}
	if len(diags) != 5 {
		t.Fatalf("diagnostics = %d, want 5: %v", len(diags), diags)
	}
}

func TestInvertedCutoffsReorder(t *testing.T) {
	c := New(DefaultConfig(testSR))
	c.SetFilterCutoffs(5000, 200)
	if lo, hi := c.cutoffLow.Target(), c.cutoffHigh.Target(); lo != 200 || hi != 5000 {
		t.Fatalf("cutoff targets = %v/%v, want 200/5000", lo, hi)
	}
}

func TestSetMutedIsIdempotent(t *testing.T) {
	c := New(DefaultConfig(testSR))
	c.SetMuted(true)
	settle(c, testSR)
	var before float64
	before, _ = c.Process(1)
	c.SetMuted(true)
	after, _ := c.Process(1)
	if before != after {
		t.Fatalf("repeated SetMuted changed output: %v -> %v", before, after)
	}
}

func TestFilterBandPassesMidBand(t *testing.T) {
	cfg := DefaultConfig(testSR)
	c := New(cfg)
	c.SetFilterCutoffs(50, 4000)
	c.SetFilterEngaged(true)
	settle(c, testSR/2)

	// 440 Hz lies well inside the 50..4000 band, 10 kHz well above it.
	inBand := peakAmplitude(renderSine(c, 440, 0.5, testSR/4, nil))
	c.Reset()
	settle(c, testSR/10)
	above := peakAmplitude(renderSine(c, 10000, 0.5, testSR/4, nil))
	if inBand < 0.3 {
		t.Fatalf("in-band peak = %v, want mostly passed", inBand)
	}
	if above > inBand/2 {
		t.Fatalf("above-band peak = %v vs in-band %v, want attenuation", above, inBand)
	}
}

func TestProcessBlockPublishesReEntryLevel(t *testing.T) {
	c := New(DefaultConfig(testSR))
	settle(c, testSR/10)
	in := make([]float64, 512)
	out := make([]float64, 512)
	for i := range in {
		in[i] = 0.5
	}
	c.ProcessBlock(in, out, nil)
	if got := c.ReEntryLevel(); math.Abs(got-0.5) > 1e-3 {
		t.Fatalf("ReEntryLevel = %v, want ~0.5", got)
	}
	c.SetMuted(true)
	for i := 0; i < 100; i++ {
		c.ProcessBlock(in, out, nil)
	}
	if got := c.ReEntryLevel(); math.Abs(got-0.5) > 1e-3 {
		t.Fatalf("ReEntryLevel after mute = %v, want ~0.5", got)
	}
}

func peakAmplitude(samples []float64) float64 {
	peak := 0.0
	for _, v := range samples {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	return peak
}
