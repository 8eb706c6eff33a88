// SPDX-License-Identifier: MIT
package tempo

import (
	"errors"
	"sync"
	"testing"
)

// stubEstimator records calls and replays scripted results.
type stubEstimator struct {
	mu      sync.Mutex
	calls   int
	lastLen int
	first   float64
	last    float64
	results []float64
	errs    []error
}

func (s *stubEstimator) EstimateTempo(samples []float64, sampleRate int) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.calls
	s.calls++
	s.lastLen = len(samples)
	if len(samples) > 0 {
		s.first = samples[0]
		s.last = samples[len(samples)-1]
	}
	if i >= len(s.results) {
		i = len(s.results) - 1
	}
	return s.results[i], s.errs[i]
}

func (s *stubEstimator) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestSchedulerCadence(t *testing.T) {
	stub := &stubEstimator{results: []float64{128}, errs: []error{nil}}
	s := NewScheduler(stub, 8000, 4, 0.05)
	chunk := make([]int16, 64)

	for i := 0; i < 3; i++ {
		s.Observe(chunk)
	}
	s.Stop()
	if got := stub.callCount(); got != 0 {
		t.Fatalf("estimator ran %d times before the cadence tick", got)
	}
	if bpm := s.Current(); bpm != 0 {
		t.Fatalf("Current() = %g before first estimation, want 0", bpm)
	}

	s.Observe(chunk) // 4th chunk triggers estimation
	s.Stop()
	if got := stub.callCount(); got != 1 {
		t.Fatalf("estimator ran %d times, want 1", got)
	}
	if bpm := s.Current(); bpm != 128 {
		t.Errorf("Current() = %g, want 128", bpm)
	}
}

func TestSchedulerRetainsValueOnFailure(t *testing.T) {
	stub := &stubEstimator{
		results: []float64{128, 0},
		errs:    []error{nil, errors.New("no beat")},
	}
	s := NewScheduler(stub, 8000, 2, 0.05)
	chunk := make([]int16, 64)

	s.Observe(chunk)
	s.Observe(chunk)
	s.Stop()
	if bpm := s.Current(); bpm != 128 {
		t.Fatalf("Current() = %g after success, want 128", bpm)
	}

	s.Observe(chunk)
	s.Observe(chunk)
	s.Stop()
	if got := stub.callCount(); got != 2 {
		t.Fatalf("estimator ran %d times, want 2", got)
	}
	if bpm := s.Current(); bpm != 128 {
		t.Errorf("Current() = %g after failure, want previous value 128", bpm)
	}
}

func TestSchedulerWindowSnapshot(t *testing.T) {
	stub := &stubEstimator{results: []float64{100}, errs: []error{nil}}
	// 250-sample window at a nominal 1000 Hz rate, estimating on chunk 4.
	s := NewScheduler(stub, 1000, 4, 0.25)

	chunk := func(v int16) []int16 {
		c := make([]int16, 100)
		for i := range c {
			c[i] = v
		}
		return c
	}

	s.Observe(chunk(100))
	s.Observe(chunk(200))
	s.Observe(chunk(300))
	s.Observe(chunk(400))
	s.Stop()

	stub.mu.Lock()
	defer stub.mu.Unlock()
	if stub.lastLen != 250 {
		t.Fatalf("snapshot length = %d, want full 250-sample window", stub.lastLen)
	}
	// Oldest surviving sample is from the second chunk; newest from the fourth.
	if want := 200.0 / 32768.0; stub.first != want {
		t.Errorf("oldest sample = %g, want %g", stub.first, want)
	}
	if want := 400.0 / 32768.0; stub.last != want {
		t.Errorf("newest sample = %g, want %g", stub.last, want)
	}
}

func TestSchedulerPartialWindow(t *testing.T) {
	stub := &stubEstimator{results: []float64{90}, errs: []error{nil}}
	s := NewScheduler(stub, 1000, 1, 1.0) // 1000-sample window, estimate every chunk

	s.Observe(make([]int16, 100))
	s.Stop()

	stub.mu.Lock()
	defer stub.mu.Unlock()
	if stub.lastLen != 100 {
		t.Errorf("snapshot length = %d, want the 100 samples observed so far", stub.lastLen)
	}
}

func TestNewSchedulerPanics(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
	}{
		{"nil estimator", func() { NewScheduler(nil, 8000, 4, 1) }},
		{"zero cadence", func() { NewScheduler(&stubEstimator{results: []float64{0}, errs: []error{nil}}, 8000, 0, 1) }},
		{"zero window", func() { NewScheduler(&stubEstimator{results: []float64{0}, errs: []error{nil}}, 8000, 4, 0) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			tt.fn()
		})
	}
}
