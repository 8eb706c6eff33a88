// SPDX-License-Identifier: MIT
/*
Package analysis implements the per-chunk detection primitives: frequency
band energy extraction, rolling statistics, adaptive threshold gating,
event classification and intensity mapping.

Everything here runs inside the real-time audio callback. The rules are
the same as the rest of the hot path:
- Pre-allocated buffers, no allocations per chunk
- No locks, no I/O
- Pure decision functions so each stage is testable in isolation
*/
package analysis

import (
	"fmt"
	"math"
	"math/cmplx"

	"lightbeat/pkg/bitint"

	"gonum.org/v1/gonum/dsp/fourier"
)

// FrequencyBand names an inclusive frequency range in Hz.
type FrequencyBand struct {
	Name   string
	LowHz  float64
	HighHz float64
}

// Band definitions are fixed; thresholds downstream are relative to rolling
// means, so the absolute energy scale of a band never needs retuning.
var bands = []FrequencyBand{
	{Name: "bass", LowHz: 20, HighHz: 250},
	{Name: "mid", LowHz: 250, HighHz: 2000},
	{Name: "high", LowHz: 2000, HighHz: 8000},
	{Name: "vocal", LowHz: 300, HighHz: 3400}, // Human voice, overlaps mid by design
}

// BandEnergy holds the summed magnitude per band for one chunk.
type BandEnergy struct {
	Bass  float64
	Mid   float64
	High  float64
	Vocal float64
}

// BandAnalyzer computes per-band spectral energy from an int16 chunk.
// Analyze reuses internal workspace buffers, so a single analyzer must not
// be shared between goroutines.
type BandAnalyzer struct {
	chunkSize  int
	sampleRate float64
	fftObj     *fourier.FFT

	input  []float64    // ...for normalized input samples
	coeffs []complex128 // ...for FFT complex output

	// Band membership per bin, resolved once at construction so the per
	// chunk loop is a flat walk with no frequency math.
	binBands [][]int
}

// NewBandAnalyzer creates an analyzer for chunks of the given size.
// chunkSize must be a power of 2 and sampleRate positive.
func NewBandAnalyzer(chunkSize int, sampleRate float64) (*BandAnalyzer, error) {
	if !bitint.IsPowerOfTwo(chunkSize) {
		return nil, fmt.Errorf("chunk size %d must be a power of 2", chunkSize)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %g", sampleRate)
	}

	fftObj := fourier.NewFFT(chunkSize)
	outputSize := chunkSize/2 + 1

	binBands := make([][]int, outputSize)
	for i := 0; i < outputSize; i++ {
		freq := fftObj.Freq(i) * sampleRate
		for b, band := range bands {
			if freq >= band.LowHz && freq <= band.HighHz {
				binBands[i] = append(binBands[i], b)
			}
		}
	}

	return &BandAnalyzer{
		chunkSize:  chunkSize,
		sampleRate: sampleRate,
		fftObj:     fftObj,
		input:      make([]float64, chunkSize),
		coeffs:     make([]complex128, outputSize),
		binBands:   binBands,
	}, nil
}

// ChunkSize returns the configured chunk length in samples.
func (a *BandAnalyzer) ChunkSize() int { return a.chunkSize }

// SampleRate returns the configured sample rate in Hz.
func (a *BandAnalyzer) SampleRate() float64 { return a.sampleRate }

// Analyze computes the band energies for one chunk. Samples are normalized
// to [-1, 1] for the transform and the magnitudes are scaled back to the
// raw int16 range, so band energies and the configured classifier floors
// share one scale. Chunks shorter than the configured size are zero-padded.
// Deterministic: the same chunk always yields the same energies.
func (a *BandAnalyzer) Analyze(chunk []int16) BandEnergy {
	for i := range a.input {
		if i < len(chunk) {
			a.input[i] = float64(chunk[i]) / 32768.0
		} else {
			a.input[i] = 0
		}
	}

	_ = a.fftObj.Coefficients(a.coeffs, a.input)

	var sums [4]float64
	for i, members := range a.binBands {
		if len(members) == 0 {
			continue
		}
		// Undo the input normalization so energies stay on the int16
		// scale the absolute floors are expressed on.
		mag := cmplx.Abs(a.coeffs[i]) * 32768.0
		for _, b := range members {
			sums[b] += mag
		}
	}

	return BandEnergy{Bass: sums[0], Mid: sums[1], High: sums[2], Vocal: sums[3]}
}

// RMS returns the root mean square level of a chunk on the raw int16
// scale. Volume thresholds (min_volume, max_volume) are expressed on this
// scale.
func RMS(chunk []int16) float64 {
	if len(chunk) == 0 {
		return 0
	}
	var sumSquare float64
	for _, s := range chunk {
		f := float64(s)
		sumSquare += f * f
	}
	return math.Sqrt(sumSquare / float64(len(chunk)))
}
