package modvolt

import (
	"encoding/binary"
	"testing"
)

func TestRenderSecondsLength(t *testing.T) {
	r, err := NewRack(48000)
	if err != nil {
		t.Fatalf("new rack: %v", err)
	}
	out := r.RenderSeconds(0.25, 512)
	if want := 48000 / 4 * 2; len(out) != want {
		t.Fatalf("rendered %d samples, want %d", len(out), want)
	}
	// An odd block size must not change the total.
	out = r.RenderSeconds(0.25, 353)
	if want := 48000 / 4 * 2; len(out) != want {
		t.Fatalf("rendered %d samples with odd blocks, want %d", len(out), want)
	}
}

func TestEncodeWAVFloat32LEHeader(t *testing.T) {
	r, err := NewRack(48000)
	if err != nil {
		t.Fatalf("new rack: %v", err)
	}
	samples := r.RenderSeconds(0.1, 512)
	wav := EncodeWAVFloat32LE(samples, 48000, 2)

	if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
		t.Fatal("missing RIFF/WAVE markers")
	}
	if got := binary.LittleEndian.Uint16(wav[20:]); got != 3 {
		t.Fatalf("format tag = %d, want 3 (IEEE float)", got)
	}
	if got := binary.LittleEndian.Uint16(wav[22:]); got != 2 {
		t.Fatalf("channels = %d, want 2", got)
	}
	if got := binary.LittleEndian.Uint32(wav[24:]); got != 48000 {
		t.Fatalf("sample rate = %d, want 48000", got)
	}
	if got := binary.LittleEndian.Uint32(wav[40:]); got != uint32(len(samples)*4) {
		t.Fatalf("data size = %d, want %d", got, len(samples)*4)
	}
	if len(wav) != 44+len(samples)*4 {
		t.Fatalf("wav length = %d, want %d", len(wav), 44+len(samples)*4)
	}
}
