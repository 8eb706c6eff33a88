// SPDX-License-Identifier: MIT
package analysis

// Gate decides whether a signal value constitutes a candidate event. The
// threshold adapts to the rolling mean of the signal's history, clamped to
// [Floor, Ceiling]. A Gate is a pure decision function: it reads the
// cooldown clock but never mutates it. The caller records the event time
// only when an event is actually emitted, so a gate firing that the
// classifier later vetoes does not consume the cooldown window.
//
// Several gates (volume, bass, mid) typically share one cooldown clock:
// only one physical flash should fire per window no matter which signal
// tripped it.
type Gate struct {
	Multiplier float64 // Threshold as a multiple of the history mean
	Floor      float64 // Lower clamp, doubles as the absolute silence floor
	Ceiling    float64 // Upper clamp; <= 0 disables the cap
	Warmup     int     // Minimum history length before thresholds are trusted
	CooldownMs int64   // Minimum gap between emitted events
}

// Threshold computes the current adaptive threshold for the given history.
func (g Gate) Threshold(hist *History) float64 {
	t := hist.Mean() * g.Multiplier
	if t < g.Floor {
		t = g.Floor
	}
	if g.Ceiling > 0 && t > g.Ceiling {
		t = g.Ceiling
	}
	return t
}

// ShouldFire reports whether value constitutes a candidate event at nowMs,
// given the rolling history and the shared last-event timestamp.
func (g Gate) ShouldFire(value float64, hist *History, lastEventMs, nowMs int64) bool {
	if hist.Len() < g.Warmup {
		return false
	}
	if nowMs-lastEventMs < g.CooldownMs {
		return false
	}
	// The floor check is redundant with the clamp when Multiplier*mean is
	// below Floor, but it also suppresses near-silence spikes when the
	// history mean is high.
	return value > g.Threshold(hist) && value > g.Floor
}
