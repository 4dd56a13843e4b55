// Package audio bridges the rack's render loop to a realtime output device.
// Two backends are provided: the ebiten audio context (oto under the hood)
// and portaudio for headless rigs. Both pull interleaved stereo float32
// blocks from a Source on the device's own schedule; the Source is expected
// to be non-blocking and render-context safe.
package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sync"

	ebitaudio "github.com/hajimehoshi/ebiten/v2/audio"
)

// Source renders interleaved stereo float32 frames. Process must fill dst
// completely and must never block; it runs on the audio backend's thread.
type Source interface {
	Process(dst []float32)
}

// FinishingSource is a Source with a bounded life. When Finished reports
// true the stream ends after the current block (used for timed drones and
// offline-style playback through the realtime path).
type FinishingSource interface {
	Source
	Finished() bool
}

// LimitedSource wraps a continuous Source with a frame budget, turning it
// into a FinishingSource.
type LimitedSource struct {
	Source
	remaining int
}

func NewLimitedSource(src Source, frames int) *LimitedSource {
	return &LimitedSource{Source: src, remaining: frames}
}

func (s *LimitedSource) Process(dst []float32) {
	s.Source.Process(dst)
	s.remaining -= len(dst) / 2
}

func (s *LimitedSource) Finished() bool { return s.remaining <= 0 }

// StreamReader adapts a Source to the io.Reader the ebiten float32 player
// consumes: interleaved stereo little-endian float32.
type StreamReader struct {
	mu     sync.Mutex
	source Source
	buf    []float32
}

func NewStreamReader(source Source) *StreamReader {
	return &StreamReader{source: source}
}

func (r *StreamReader) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	frames := len(p) / 8
	if frames == 0 {
		return 0, nil
	}
	need := frames * 2
	if cap(r.buf) < need {
		r.buf = make([]float32, need)
	}
	r.buf = r.buf[:need]
	r.source.Process(r.buf)
	for i := 0; i < need; i++ {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(r.buf[i]))
	}
	n := frames * 8
	if fs, ok := r.source.(FinishingSource); ok && fs.Finished() {
		return n, io.EOF
	}
	return n, nil
}

func (r *StreamReader) Close() error { return nil }

var (
	contextOnce sync.Once
	context     *ebitaudio.Context
	contextRate int
)

// sharedContext returns the process-wide ebiten audio context. The context
// is created once; a later request at a different rate is an error rather
// than a silent resample.
func sharedContext(sampleRate int) (*ebitaudio.Context, error) {
	contextOnce.Do(func() {
		contextRate = sampleRate
		context = ebitaudio.NewContext(sampleRate)
	})
	if contextRate != sampleRate {
		return nil, fmt.Errorf("audio context already initialized at %d Hz (requested %d Hz)", contextRate, sampleRate)
	}
	return context, nil
}

// Player plays a Source through the shared ebiten audio context.
type Player struct {
	player *ebitaudio.Player
	reader io.ReadCloser
}

func NewPlayer(sampleRate int, source Source) (*Player, error) {
	ctx, err := sharedContext(sampleRate)
	if err != nil {
		return nil, err
	}
	reader := NewStreamReader(source)
	pl, err := ctx.NewPlayerF32(reader)
	if err != nil {
		return nil, err
	}
	return &Player{player: pl, reader: reader}, nil
}

func (p *Player) Play()  { p.player.Play() }
func (p *Player) Pause() { p.player.Pause() }

func (p *Player) IsPlaying() bool { return p.player.IsPlaying() }

func (p *Player) Stop() error {
	p.player.Pause()
	p.player.Close()
	return p.reader.Close()
}
