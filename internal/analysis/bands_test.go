// SPDX-License-Identifier: MIT
package analysis

import (
	"math"
	"testing"

	"lightbeat/pkg/wavegen"
)

func TestNewBandAnalyzerValidation(t *testing.T) {
	tests := []struct {
		name       string
		chunkSize  int
		sampleRate float64
		wantErr    bool
	}{
		{"valid", 1024, 44100, false},
		{"non power of two", 1000, 44100, true},
		{"zero chunk", 0, 44100, true},
		{"zero rate", 1024, 0, true},
		{"negative rate", 1024, -44100, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBandAnalyzer(tt.chunkSize, tt.sampleRate)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewBandAnalyzer(%d, %g) error = %v, wantErr %v",
					tt.chunkSize, tt.sampleRate, err, tt.wantErr)
			}
		})
	}
}

func TestAnalyzeBandSeparation(t *testing.T) {
	a, err := NewBandAnalyzer(1024, 44100)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("bass tone lands in bass band", func(t *testing.T) {
		be := a.Analyze(wavegen.Sine(1024, 44100, 100, 0.8))
		if be.Bass <= be.Mid || be.Bass <= be.High {
			t.Errorf("100Hz tone: bass=%.1f should dominate mid=%.1f high=%.1f",
				be.Bass, be.Mid, be.High)
		}
	})

	t.Run("mid tone lands in mid and vocal bands", func(t *testing.T) {
		be := a.Analyze(wavegen.Sine(1024, 44100, 1000, 0.8))
		if be.Mid <= be.Bass || be.Mid <= be.High {
			t.Errorf("1kHz tone: mid=%.1f should dominate bass=%.1f high=%.1f",
				be.Mid, be.Bass, be.High)
		}
		// 1kHz sits inside the overlapping vocal range too.
		if be.Vocal <= be.Bass {
			t.Errorf("1kHz tone: vocal=%.1f should exceed bass=%.1f", be.Vocal, be.Bass)
		}
	})

	t.Run("high tone lands in high band", func(t *testing.T) {
		be := a.Analyze(wavegen.Sine(1024, 44100, 3000, 0.8))
		if be.High <= be.Bass || be.High <= be.Mid {
			t.Errorf("3kHz tone: high=%.1f should dominate bass=%.1f mid=%.1f",
				be.High, be.Bass, be.Mid)
		}
	})
}

func TestAnalyzeEnergyScale(t *testing.T) {
	// Band energies must stay on the raw int16 scale the classifier
	// floors (5000/3000/2000) are expressed on. A full-scale sine on an
	// exact bin concentrates its energy in one coefficient of magnitude
	// peak * chunkSize/2, so bass energy lands near 32767 * 512.
	a, err := NewBandAnalyzer(1024, 44100)
	if err != nil {
		t.Fatal(err)
	}

	binFreq := 2 * 44100.0 / 1024 // 86.13Hz, inside the bass band
	be := a.Analyze(wavegen.Sine(1024, 44100, binFreq, 1.0))

	want := float64(math.MaxInt16) * 512
	if be.Bass < want*0.99 || be.Bass > want*1.01 {
		t.Errorf("full-scale bass energy = %.0f, want within 1%% of %.0f", be.Bass, want)
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	a, err := NewBandAnalyzer(1024, 44100)
	if err != nil {
		t.Fatal(err)
	}

	chunk := wavegen.Sine(1024, 44100, 220, 0.5)
	first := a.Analyze(chunk)
	second := a.Analyze(chunk)
	if first != second {
		t.Errorf("Analyze not deterministic: %+v != %+v", first, second)
	}
}

func TestAnalyzeSilence(t *testing.T) {
	a, err := NewBandAnalyzer(512, 44100)
	if err != nil {
		t.Fatal(err)
	}

	be := a.Analyze(wavegen.Silence(512))
	if be.Bass != 0 || be.Mid != 0 || be.High != 0 || be.Vocal != 0 {
		t.Errorf("silence should yield zero energies, got %+v", be)
	}
}

func TestAnalyzeShortChunkZeroPadded(t *testing.T) {
	a, err := NewBandAnalyzer(1024, 44100)
	if err != nil {
		t.Fatal(err)
	}

	be := a.Analyze(wavegen.Sine(300, 44100, 100, 0.8))
	if math.IsNaN(be.Bass) || be.Bass <= 0 {
		t.Errorf("short chunk should still produce bass energy, got %+v", be)
	}
}

func TestRMS(t *testing.T) {
	tests := []struct {
		name  string
		chunk []int16
		want  float64
		tol   float64
	}{
		{"empty", nil, 0, 0},
		{"silence", wavegen.Silence(256), 0, 0},
		{"constant 50", wavegen.Constant(256, 50), 50, 0.001},
		{"full sine", wavegen.Sine(4096, 44100, 441, 1.0), float64(math.MaxInt16) / math.Sqrt2, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RMS(tt.chunk)
			if math.Abs(got-tt.want) > tt.tol {
				t.Errorf("RMS = %.2f, want %.2f (±%.2f)", got, tt.want, tt.tol)
			}
		})
	}
}

func BenchmarkAnalyzeHotPath(b *testing.B) {
	a, err := NewBandAnalyzer(1024, 44100)
	if err != nil {
		b.Fatal(err)
	}
	chunk := wavegen.Sine(1024, 44100, 100, 0.8)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = a.Analyze(chunk)
	}
}
