// SPDX-License-Identifier: MIT
package tempo

import (
	"math"
	"sync"
	"sync/atomic"

	applog "lightbeat/internal/log"
)

// Scheduler invokes an Estimator every Nth observed chunk, off the audio
// callback path. It keeps a rolling window of recent samples; on the Nth
// chunk the window is snapshotted and handed to a worker goroutine. At most
// one estimation runs at a time, and a cadence tick that lands while one is
// in flight is skipped rather than queued.
//
// Observe must be called from a single goroutine (the audio path). Current
// may be called from anywhere.
type Scheduler struct {
	estimator  Estimator
	sampleRate int
	every      uint64

	// Rolling sample window, written only by Observe.
	window []float64
	write  int
	filled int

	counter uint64

	scratch []float64 // Worker-owned snapshot; guarded by busy
	busy    atomic.Bool
	bpmBits atomic.Uint64
	wg      sync.WaitGroup
}

// NewScheduler creates a scheduler estimating every 'every' chunks over a
// window of windowSec seconds of audio.
func NewScheduler(est Estimator, sampleRate float64, every int, windowSec float64) *Scheduler {
	if est == nil {
		panic("tempo: estimator must not be nil")
	}
	if every <= 0 || windowSec <= 0 || sampleRate <= 0 {
		panic("tempo: scheduler parameters must be positive")
	}
	size := int(windowSec * sampleRate)
	if size < 1 {
		size = 1
	}
	return &Scheduler{
		estimator:  est,
		sampleRate: int(sampleRate),
		every:      uint64(every),
		window:     make([]float64, size),
		scratch:    make([]float64, size),
	}
}

// Observe feeds one chunk into the rolling window and, on every Nth call,
// dispatches an estimation. Never blocks.
func (s *Scheduler) Observe(chunk []int16) {
	for _, sample := range chunk {
		s.window[s.write] = float64(sample) / 32768.0
		s.write++
		if s.write == len(s.window) {
			s.write = 0
		}
	}
	if s.filled < len(s.window) {
		s.filled += len(chunk)
		if s.filled > len(s.window) {
			s.filled = len(s.window)
		}
	}

	s.counter++
	if s.counter%s.every != 0 {
		return
	}
	if !s.busy.CompareAndSwap(false, true) {
		// Previous estimation still running; skip this tick.
		return
	}

	n := s.snapshot()
	s.wg.Add(1)
	go s.estimate(n)
}

// snapshot unrolls the ring into scratch, oldest sample first, returning
// the number of valid samples.
func (s *Scheduler) snapshot() int {
	if s.filled < len(s.window) {
		copy(s.scratch, s.window[:s.filled])
		return s.filled
	}
	head := copy(s.scratch, s.window[s.write:])
	copy(s.scratch[head:], s.window[:s.write])
	return len(s.window)
}

// estimate runs on the worker goroutine. On failure the previous BPM value
// is retained; staleness is acceptable by design.
func (s *Scheduler) estimate(n int) {
	defer s.wg.Done()
	defer s.busy.Store(false)

	bpm, err := s.estimator.EstimateTempo(s.scratch[:n], s.sampleRate)
	if err != nil || bpm <= 0 {
		if err != nil {
			applog.Debugf("Tempo: estimation skipped: %v", err)
		}
		return
	}
	s.bpmBits.Store(math.Float64bits(bpm))
}

// Current returns the most recent BPM estimate, or 0 before the first
// successful estimation.
func (s *Scheduler) Current() float64 {
	return math.Float64frombits(s.bpmBits.Load())
}

// Stop waits for any in-flight estimation to finish. The caller must have
// stopped calling Observe first.
func (s *Scheduler) Stop() {
	s.wg.Wait()
}
