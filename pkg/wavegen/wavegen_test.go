package wavegen

import (
	"math"
	"testing"
)

func TestSinePeakAmplitude(t *testing.T) {
	buf := Sine(4096, 44100, 441, 0.5)

	var peak int16
	for _, s := range buf {
		if s > peak {
			peak = s
		}
	}

	amp := 0.5
	want := int16(amp * float64(math.MaxInt16))
	if peak < want-400 || peak > want {
		t.Errorf("peak amplitude = %d, want close to %d", peak, want)
	}
}

func TestConstantLevel(t *testing.T) {
	buf := Constant(256, 50)
	for i, s := range buf {
		if s != 50 {
			t.Fatalf("sample %d = %d, want 50", i, s)
		}
	}
}

func TestBeatChunkClampsIntensity(t *testing.T) {
	for _, intensity := range []float64{-1, 0, 0.5, 1, 2} {
		buf := BeatChunk(512, 44100, intensity)
		if len(buf) != 512 {
			t.Fatalf("intensity %v: len = %d, want 512", intensity, len(buf))
		}
	}

	if s := BeatChunk(512, 44100, -1); s[100] != 0 {
		t.Errorf("negative intensity should produce silence, got sample %d", s[100])
	}
}
