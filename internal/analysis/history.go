// SPDX-License-Identifier: MIT
package analysis

import "gonum.org/v1/gonum/stat"

// History is a fixed-capacity FIFO of past scalar values (volume or band
// energy) with rolling mean access. One instance exists per monitored
// quantity; instances never share buffers and are not safe for concurrent
// use.
type History struct {
	values   []float64
	capacity int
}

// NewHistory creates a history holding at most capacity values.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		panic("analysis: history capacity must be positive")
	}
	return &History{
		values:   make([]float64, 0, capacity),
		capacity: capacity,
	}
}

// Push appends a value, evicting the oldest when full.
func (h *History) Push(v float64) {
	if len(h.values) == h.capacity {
		copy(h.values, h.values[1:])
		h.values[len(h.values)-1] = v
		return
	}
	h.values = append(h.values, v)
}

// Mean returns the mean of the stored values, or 0 when empty. Callers
// must check Len against the warm-up floor before trusting any threshold
// derived from it.
func (h *History) Mean() float64 {
	if len(h.values) == 0 {
		return 0
	}
	return stat.Mean(h.values, nil)
}

// Len returns the number of stored values.
func (h *History) Len() int { return len(h.values) }

// Capacity returns the maximum number of stored values.
func (h *History) Capacity() int { return h.capacity }

// Tail returns up to n of the most recent values in chronological order.
// The returned slice aliases internal storage and is only valid until the
// next Push.
func (h *History) Tail(n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n > len(h.values) {
		n = len(h.values)
	}
	return h.values[len(h.values)-n:]
}
