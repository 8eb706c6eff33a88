// SPDX-License-Identifier: MIT
package audio

import (
	"os"
	"path/filepath"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// writeWAV encodes samples as a 16-bit WAV file and returns its path.
func writeWAV(t *testing.T, sampleRate, channels int, samples []int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, channels, 1)
	buf := &goaudio.IntBuffer{
		Data:   samples,
		Format: &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
	}
	if err := enc.Write(buf); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestProbeWAV(t *testing.T) {
	path := writeWAV(t, 22050, 2, make([]int, 400))

	info, err := ProbeWAV(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.SampleRate != 22050 || info.Channels != 2 || info.BitDepth != 16 {
		t.Errorf("info = %+v, want 22050Hz 2ch 16bit", info)
	}
}

func TestProbeWAVRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "noise.wav")
	if err := os.WriteFile(path, []byte("not a riff header"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ProbeWAV(path); err == nil {
		t.Error("garbage file accepted")
	}
}

func TestStreamWAVMonoChunking(t *testing.T) {
	samples := make([]int, 1000)
	for i := range samples {
		samples[i] = i
	}
	path := writeWAV(t, 8000, 1, samples)

	var chunks [][]int16
	err := StreamWAV(path, 256, func(chunk []int16) {
		c := make([]int16, len(chunk))
		copy(c, chunk)
		chunks = append(chunks, c)
	})
	if err != nil {
		t.Fatal(err)
	}

	wantLens := []int{256, 256, 256, 232}
	if len(chunks) != len(wantLens) {
		t.Fatalf("got %d chunks, want %d", len(chunks), len(wantLens))
	}
	for i, want := range wantLens {
		if len(chunks[i]) != want {
			t.Errorf("chunk %d length = %d, want %d", i, len(chunks[i]), want)
		}
	}
	if chunks[0][0] != 0 || chunks[1][0] != 256 || chunks[3][231] != 999 {
		t.Errorf("sample values not preserved: %d %d %d",
			chunks[0][0], chunks[1][0], chunks[3][231])
	}
}

func TestStreamWAVStereoDownmix(t *testing.T) {
	// Interleaved L=100, R=300 downmixes to 200.
	samples := make([]int, 512*2)
	for i := 0; i < 512; i++ {
		samples[2*i] = 100
		samples[2*i+1] = 300
	}
	path := writeWAV(t, 8000, 2, samples)

	var got []int16
	err := StreamWAV(path, 256, func(chunk []int16) {
		got = append(got, chunk...)
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 512 {
		t.Fatalf("got %d frames, want 512", len(got))
	}
	for i, v := range got {
		if v != 200 {
			t.Fatalf("frame %d = %d, want 200", i, v)
		}
	}
}

func TestStreamWAVValidation(t *testing.T) {
	path := writeWAV(t, 8000, 1, make([]int, 100))
	if err := StreamWAV(path, 0, func([]int16) {}); err == nil {
		t.Error("zero chunk size accepted")
	}
	if err := StreamWAV(filepath.Join(t.TempDir(), "missing.wav"), 256, func([]int16) {}); err == nil {
		t.Error("missing file accepted")
	}
}
