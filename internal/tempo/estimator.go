// SPDX-License-Identifier: MIT
/*
Package tempo provides beats-per-minute estimation on a reduced cadence.

Estimation is expensive relative to the per-chunk budget, so the Scheduler
runs it on a worker goroutine over a rolling window of recent audio and
publishes the result through an atomic. The estimator itself is an
interface; the built-in implementation autocorrelates a per-frame energy
envelope. Tempo is advisory: estimates may be stale between updates and
estimation failure never surfaces past the scheduler.
*/
package tempo

import (
	"errors"
	"math/cmplx"

	"lightbeat/pkg/bitint"

	"github.com/mjibson/go-dsp/fft"
)

// Estimator computes a BPM estimate from a block of normalized samples.
// Implementations may be slow and may fail; callers treat both as routine.
type Estimator interface {
	EstimateTempo(samples []float64, sampleRate int) (float64, error)
}

var (
	errShortSignal   = errors.New("tempo: signal too short for estimation")
	errNoPeriodicity = errors.New("tempo: no periodic energy pattern found")
)

// AutocorrEstimator estimates tempo by autocorrelating the mean-square
// energy envelope of the signal and picking the strongest lag in the
// plausible beat range.
type AutocorrEstimator struct {
	FrameDur float64 // Envelope frame duration in seconds
	MinBPM   float64
	MaxBPM   float64
}

// NewAutocorrEstimator returns an estimator with 10ms envelope frames
// searching 40-240 BPM.
func NewAutocorrEstimator() *AutocorrEstimator {
	return &AutocorrEstimator{FrameDur: 0.01, MinBPM: 40, MaxBPM: 240}
}

// EstimateTempo implements Estimator.
func (e *AutocorrEstimator) EstimateTempo(samples []float64, sampleRate int) (float64, error) {
	if sampleRate <= 0 {
		return 0, errors.New("tempo: sample rate must be positive")
	}
	frame := int(e.FrameDur * float64(sampleRate))
	if frame < 1 {
		return 0, errShortSignal
	}
	frameDur := float64(frame) / float64(sampleRate)

	numFrames := len(samples) / frame
	minLag := int(60 / (e.MaxBPM * frameDur))
	maxLag := int(60 / (e.MinBPM * frameDur))
	if maxLag > numFrames/2 {
		maxLag = numFrames / 2
	}
	if minLag < 1 {
		minLag = 1
	}
	if maxLag <= minLag {
		return 0, errShortSignal
	}

	envelope := energyEnvelope(samples, frame, numFrames)

	// Remove the mean so silence between beats does not correlate.
	var mean float64
	for _, v := range envelope {
		mean += v
	}
	mean /= float64(len(envelope))
	for i := range envelope {
		envelope[i] -= mean
	}

	ac := autocorrelate(envelope)

	bestLag, bestVal := 0, 0.0
	for lag := minLag; lag <= maxLag; lag++ {
		if ac[lag] > bestVal {
			bestVal = ac[lag]
			bestLag = lag
		}
	}
	if bestLag == 0 || bestVal <= 0 {
		return 0, errNoPeriodicity
	}

	return 60 / (float64(bestLag) * frameDur), nil
}

// energyEnvelope computes the per-frame mean-square energy envelope.
// No square root; only the autocorrelation lag matters downstream.
func energyEnvelope(samples []float64, frame, numFrames int) []float64 {
	envelope := make([]float64, numFrames)
	for i := 0; i < numFrames; i++ {
		var sum float64
		for _, s := range samples[i*frame : (i+1)*frame] {
			sum += s * s
		}
		envelope[i] = sum / float64(frame)
	}
	return envelope
}

// autocorrelate computes the biased autocorrelation of x via FFT
// (Wiener-Khinchin). The bias toward small lags is deliberate: it prefers
// the fundamental beat period over its multiples.
func autocorrelate(x []float64) []float64 {
	n := bitint.NextPowerOfTwo(2 * len(x))
	padded := make([]float64, n)
	copy(padded, x)

	spec := fft.FFTReal(padded)
	for i, c := range spec {
		m := cmplx.Abs(c)
		spec[i] = complex(m*m, 0)
	}
	inv := fft.IFFT(spec)

	ac := make([]float64, len(x))
	for i := range ac {
		ac[i] = real(inv[i])
	}
	return ac
}
