// Command modvolt_drone builds a small rack and plays a drone, optionally
// sweeping the dial and toggling the filter and mute along the way, to hear
// that parameter automation stays click-free. With -wav it renders offline
// instead of opening an audio device.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/modvolt/modvolt-go"
)

func main() {
	var (
		sampleRate = flag.Int("sample-rate", 48000, "output sample rate")
		backend    = flag.String("backend", "ebiten", "audio backend: ebiten|portaudio")
		dial       = flag.Float64("dial", 5, "VCO dial position (0..10)")
		cv         = flag.Float64("cv", 0, "external control voltage in volts")
		rangeLow   = flag.Bool("lo", false, "select the LO (decade-divided) range")
		wave       = flag.String("wave", "saw", "waveform: sine|triangle|saw|square")
		level      = flag.Float64("level", 0.8, "channel level (0..1)")
		filterLow  = flag.Float64("filter-low", 80, "filter low cutoff in Hz")
		filterHigh = flag.Float64("filter-high", 2500, "filter high cutoff in Hz")
		resonance  = flag.Float64("q", 1.2, "filter resonance")
		lfoDepth   = flag.Float64("lfo-depth", 0, "pitch LFO depth in volts")
		lfoRate    = flag.Float64("lfo-rate", 0.5, "pitch LFO rate in Hz")
		seconds    = flag.Float64("seconds", 8, "playback duration")
		gestures   = flag.Bool("gestures", true, "sweep dial and toggle filter/mute during playback")
		wavPath    = flag.String("wav", "", "render offline to this WAV file instead of playing")
	)
	flag.Parse()

	opts := []modvolt.Option{
		modvolt.WithDiagnostics(func(msg string) { log.Printf("diagnostic: %s", msg) }),
	}
	if *backend == "portaudio" {
		opts = append(opts, modvolt.WithBackend(modvolt.BackendPortAudio))
	}
	rack, err := modvolt.NewRack(*sampleRate, opts...)
	if err != nil {
		log.Fatal(err)
	}
	ch, err := rack.Channel(0)
	if err != nil {
		log.Fatal(err)
	}
	ch.SetDial(*dial)
	ch.SetCV(*cv)
	ch.SetRangeLow(*rangeLow)
	ch.SetWaveform(*wave)
	ch.SetLevel(*level)
	ch.SetFilterCutoffs(*filterLow, *filterHigh)
	ch.SetResonance(*resonance)
	if *lfoDepth != 0 {
		ch.SetLFO(*lfoDepth, *lfoRate, "triangle")
	}

	if *wavPath != "" {
		renderToWAV(rack, ch, *wavPath, *sampleRate, *seconds, *gestures)
		return
	}

	if err := rack.Play(); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("playing: dial=%.2f cv=%.2fV range=%s -> %.1f Hz\n",
		*dial, *cv, rangeName(*rangeLow), rack.DialToFrequency(*dial, *cv, *rangeLow))

	start := time.Now()
	if *gestures {
		runGestures(ch, *dial, *seconds)
	} else {
		time.Sleep(secondsToDuration(*seconds))
	}
	if err := rack.Stop(); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("stopped after %v\n", time.Since(start).Round(time.Millisecond))
}

// runGestures exercises the control surface while audio runs: a slow dial
// sweep, a filter engage/disengage, and a mute toggle near the end.
func runGestures(ch *modvolt.Channel, dial, seconds float64) {
	steps := int(seconds * 20) // 50 ms control rate
	for i := 0; i < steps; i++ {
		frac := float64(i) / float64(steps)
		ch.SetDial(dial + 2*frac)
		switch {
		case frac > 0.85:
			ch.SetMuted(true)
		case frac > 0.3 && frac < 0.6:
			ch.SetFilterEngaged(true)
		default:
			ch.SetFilterEngaged(false)
		}
		time.Sleep(50 * time.Millisecond)
	}
}

func renderToWAV(rack *modvolt.Rack, ch *modvolt.Channel, path string, sampleRate int, seconds float64, gestures bool) {
	var samples []float32
	if gestures {
		// Render in slices so the same gestures land at the same spots.
		third := seconds / 3
		samples = append(samples, rack.RenderSeconds(third, 512)...)
		ch.SetFilterEngaged(true)
		samples = append(samples, rack.RenderSeconds(third, 512)...)
		ch.SetFilterEngaged(false)
		ch.SetMuted(true)
		samples = append(samples, rack.RenderSeconds(third, 512)...)
	} else {
		samples = rack.RenderSeconds(seconds, 512)
	}
	wav := modvolt.EncodeWAVFloat32LE(samples, sampleRate, 2)
	if err := os.WriteFile(path, wav, 0o644); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("wrote %s (%d frames)\n", path, len(samples)/2)
}

func rangeName(low bool) string {
	if low {
		return "LO"
	}
	return "HI"
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
