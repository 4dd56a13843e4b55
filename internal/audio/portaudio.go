package audio

import (
	"fmt"

	pa "github.com/gordonklaus/portaudio"
)

// PortAudioPlayer plays a Source through the default portaudio output
// device. Unlike the ebiten backend it needs no shared context, so it suits
// headless rigs; the trade-off is that Initialize/Terminate are process
// global in portaudio itself, handled here behind New/Stop.
type PortAudioPlayer struct {
	stream *pa.Stream
	buf    []float32
	source Source
	done   bool
}

const paFramesPerBuffer = 512

// NewPortAudioPlayer opens a stereo float32 stream on the default device.
// The caller owns the player and must call Stop to release the device.
func NewPortAudioPlayer(sampleRate int, source Source) (*PortAudioPlayer, error) {
	if err := pa.Initialize(); err != nil {
		return nil, fmt.Errorf("portaudio init: %w", err)
	}
	p := &PortAudioPlayer{
		source: source,
		buf:    make([]float32, paFramesPerBuffer*2),
	}
	stream, err := pa.OpenDefaultStream(0, 2, float64(sampleRate), paFramesPerBuffer, p.fill)
	if err != nil {
		pa.Terminate()
		return nil, fmt.Errorf("portaudio open stream: %w", err)
	}
	p.stream = stream
	return p, nil
}

// fill is the portaudio callback: pull one interleaved block from the
// Source and deinterleave it into the device's channel buffers.
func (p *PortAudioPlayer) fill(out [][]float32) {
	frames := len(out[0])
	need := frames * 2
	if cap(p.buf) < need {
		p.buf = make([]float32, need)
	}
	buf := p.buf[:need]
	if p.done {
		for i := range buf {
			buf[i] = 0
		}
	} else {
		p.source.Process(buf)
		if fs, ok := p.source.(FinishingSource); ok && fs.Finished() {
			p.done = true
		}
	}
	for i := 0; i < frames; i++ {
		out[0][i] = buf[i*2]
		out[1][i] = buf[i*2+1]
	}
}

func (p *PortAudioPlayer) Play() error {
	return p.stream.Start()
}

func (p *PortAudioPlayer) Finished() bool {
	return p.done
}

func (p *PortAudioPlayer) Stop() error {
	stopErr := p.stream.Stop()
	closeErr := p.stream.Close()
	termErr := pa.Terminate()
	if stopErr != nil {
		return stopErr
	}
	if closeErr != nil {
		return closeErr
	}
	return termErr
}
