package modvolt

import (
	"encoding/binary"
	"math"
)

// RenderSeconds drives the rack's render loop offline and returns the
// interleaved stereo output. The rack's parameter state advances exactly as
// it would under a realtime backend, so this is also how the no-click
// regression checks render transitions.
func (r *Rack) RenderSeconds(seconds float64, blockFrames int) []float32 {
	if blockFrames <= 0 {
		blockFrames = 512
	}
	frames := int(float64(r.sampleRate) * seconds)
	out := make([]float32, 0, frames*2)
	block := make([]float32, blockFrames*2)
	for frames > 0 {
		n := blockFrames
		if n > frames {
			n = frames
		}
		r.Process(block[:n*2])
		out = append(out, block[:n*2]...)
		frames -= n
	}
	return out
}

// EncodeWAVFloat32LE wraps interleaved float32 samples in a minimal WAV
// container (format 3, IEEE float).
func EncodeWAVFloat32LE(samples []float32, sampleRate, channels int) []byte {
	dataSize := len(samples) * 4
	byteRate := sampleRate * channels * 4
	blockAlign := channels * 4
	out := make([]byte, 44+dataSize)
	copy(out[0:], []byte("RIFF"))
	binary.LittleEndian.PutUint32(out[4:], uint32(36+dataSize))
	copy(out[8:], []byte("WAVE"))
	copy(out[12:], []byte("fmt "))
	binary.LittleEndian.PutUint32(out[16:], 16)
	binary.LittleEndian.PutUint16(out[20:], 3)
	binary.LittleEndian.PutUint16(out[22:], uint16(channels))
	binary.LittleEndian.PutUint32(out[24:], uint32(sampleRate))
	binary.LittleEndian.PutUint32(out[28:], uint32(byteRate))
	binary.LittleEndian.PutUint16(out[32:], uint16(blockAlign))
	binary.LittleEndian.PutUint16(out[34:], 32)
	copy(out[36:], []byte("data"))
	binary.LittleEndian.PutUint32(out[40:], uint32(dataSize))
	for i, s := range samples {
		binary.LittleEndian.PutUint32(out[44+i*4:], math.Float32bits(s))
	}
	return out
}
