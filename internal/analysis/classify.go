// SPDX-License-Identifier: MIT
package analysis

// EventKind tags a classified musical event. The string values are the
// wire format used by downstream light controllers.
type EventKind string

const (
	KindBassDrop EventKind = "bass_drop" // Sudden large bass spike
	KindRhythm   EventKind = "rhythm"    // Moderate repeated bass pulse
	KindVocal    EventKind = "vocal"     // Mid band dominating over bass
	KindBuild    EventKind = "build"     // Gradual bass intensification
)

// Classifier assigns an event kind from band energies and their histories.
// It runs only after a gate has fired, and may still return no kind: a
// volume spike with nothing recognizable in it is dropped, not an error.
type Classifier struct {
	DropMultiplier   float64 // Bass drop: bass > mean * this
	DropFloor        float64 // ...and above this absolute energy
	RhythmMultiplier float64
	RhythmFloor      float64
	VocalMultiplier  float64 // Vocal: mid > mean * this
	VocalBassRatio   float64 // ...and mid > bass * this
	BuildWindow      int     // Build: this many strictly increasing bass samples
	MinSamples       int     // Warm-up floor for both histories
}

// Classify returns the event kind for the current chunk, if any. The
// priority order (drop, rhythm, vocal, build) expresses event importance:
// a chunk qualifying as both drop and rhythm is always a drop.
func (c Classifier) Classify(bass, mid float64, bassHist, midHist *History) (EventKind, bool) {
	if bassHist.Len() < c.MinSamples || midHist.Len() < c.MinSamples {
		return "", false
	}

	avgBass := bassHist.Mean()
	avgMid := midHist.Mean()

	if bass > avgBass*c.DropMultiplier && bass > c.DropFloor {
		return KindBassDrop, true
	}
	if bass > avgBass*c.RhythmMultiplier && bass > c.RhythmFloor {
		return KindRhythm, true
	}
	if mid > avgMid*c.VocalMultiplier && mid > bass*c.VocalBassRatio {
		return KindVocal, true
	}
	if c.isBuild(bassHist) {
		return KindBuild, true
	}
	return "", false
}

// isBuild reports whether the most recent BuildWindow bass samples are
// strictly monotonically increasing.
func (c Classifier) isBuild(bassHist *History) bool {
	recent := bassHist.Tail(c.BuildWindow)
	if len(recent) < c.BuildWindow {
		return false
	}
	for i := 0; i < len(recent)-1; i++ {
		if recent[i] >= recent[i+1] {
			return false
		}
	}
	return true
}
