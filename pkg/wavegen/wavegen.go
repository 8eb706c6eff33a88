// Package wavegen synthesizes int16 PCM test signals. It is shared by the
// package tests and by the simulated pattern demo.
package wavegen

import "math"

// Sine returns n samples of a sine wave at the given frequency.
// Amplitude is a fraction of full scale in [0,1].
func Sine(n int, sampleRate, freq, amplitude float64) []int16 {
	buf := make([]int16, n)
	peak := amplitude * float64(math.MaxInt16)
	for i := range buf {
		t := float64(i) / sampleRate
		buf[i] = int16(math.Sin(2*math.Pi*freq*t) * peak)
	}
	return buf
}

// Constant returns n samples all set to v. Useful for exercising RMS floors
// with an exactly known level.
func Constant(n int, v int16) []int16 {
	buf := make([]int16, n)
	for i := range buf {
		buf[i] = v
	}
	return buf
}

// Silence returns n zero samples.
func Silence(n int) []int16 {
	return make([]int16, n)
}

// BeatChunk synthesizes one chunk of a kick-like beat: a low sine whose
// amplitude tracks the requested intensity in [0,1].
func BeatChunk(n int, sampleRate, intensity float64) []int16 {
	if intensity < 0 {
		intensity = 0
	}
	if intensity > 1 {
		intensity = 1
	}
	return Sine(n, sampleRate, 60, 0.8*intensity)
}

// Pattern is a named sequence of beat intensities for the demo mode.
type Pattern struct {
	Name  string
	Beats []float64
}

// Patterns returns the built-in demo patterns.
func Patterns() []Pattern {
	return []Pattern{
		{Name: "Steady beat", Beats: []float64{0.8, 0.8, 0.8, 0.8, 0.8, 0.8}},
		{Name: "Build-up", Beats: []float64{0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0}},
		{Name: "Drop", Beats: []float64{1.0, 0.2, 1.0, 0.2, 1.0, 0.2}},
		{Name: "Breakdown", Beats: []float64{0.8, 0.3, 0.8, 0.3, 0.8, 0.3}},
	}
}
