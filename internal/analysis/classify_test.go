// SPDX-License-Identifier: MIT
package analysis

import "testing"

func defaultClassifier() Classifier {
	return Classifier{
		DropMultiplier:   2.0,
		DropFloor:        5000,
		RhythmMultiplier: 1.5,
		RhythmFloor:      3000,
		VocalMultiplier:  1.3,
		VocalBassRatio:   1.2,
		BuildWindow:      5,
		MinSamples:       5,
	}
}

func TestClassifyBassDrop(t *testing.T) {
	c := defaultClassifier()
	// Bass history mean 2000, current bass 6000: ratio 3.0 > 2.0 and above
	// the 5000 floor.
	bassHist := histOf(2000, 2000, 2000, 2000, 2000)
	midHist := histOf(500, 500, 500, 500, 500)

	kind, ok := c.Classify(6000, 400, bassHist, midHist)
	if !ok || kind != KindBassDrop {
		t.Errorf("Classify = (%q, %v), want bass_drop", kind, ok)
	}
}

func TestClassifyPriorityDropBeatsRhythm(t *testing.T) {
	c := defaultClassifier()
	// 8000 against a mean of 2000 satisfies both the drop (x2.0, >5000)
	// and rhythm (x1.5, >3000) criteria. Priority says drop.
	bassHist := histOf(2000, 2000, 2000, 2000, 2000)
	midHist := histOf(500, 500, 500, 500, 500)

	kind, ok := c.Classify(8000, 400, bassHist, midHist)
	if !ok || kind != KindBassDrop {
		t.Errorf("Classify = (%q, %v), want bass_drop to win over rhythm", kind, ok)
	}
}

func TestClassifyRhythm(t *testing.T) {
	c := defaultClassifier()
	// Ratio 1.75 clears rhythm but not drop.
	bassHist := histOf(2000, 2000, 2000, 2000, 2000)
	midHist := histOf(500, 500, 500, 500, 500)

	kind, ok := c.Classify(3500, 400, bassHist, midHist)
	if !ok || kind != KindRhythm {
		t.Errorf("Classify = (%q, %v), want rhythm", kind, ok)
	}
}

func TestClassifyVocal(t *testing.T) {
	c := defaultClassifier()
	bassHist := histOf(2000, 2000, 2000, 2000, 2000)
	midHist := histOf(1000, 1000, 1000, 1000, 1000)

	// Mid 1500 > mean(1000)*1.3 and > bass(1000)*1.2; bass quiet.
	kind, ok := c.Classify(1000, 1500, bassHist, midHist)
	if !ok || kind != KindVocal {
		t.Errorf("Classify = (%q, %v), want vocal", kind, ok)
	}
}

func TestClassifyBuild(t *testing.T) {
	c := defaultClassifier()
	// Strictly increasing bass below the drop and rhythm floors.
	bassHist := histOf(100, 200, 300, 400, 500)
	midHist := histOf(50, 50, 50, 50, 50)

	kind, ok := c.Classify(500, 40, bassHist, midHist)
	if !ok || kind != KindBuild {
		t.Errorf("Classify = (%q, %v), want build", kind, ok)
	}
}

func TestClassifyBuildRequiresStrictIncrease(t *testing.T) {
	c := defaultClassifier()
	midHist := histOf(50, 50, 50, 50, 50)

	tests := []struct {
		name string
		hist *History
	}{
		{"plateau", histOf(100, 200, 300, 300, 400)},
		{"dip", histOf(100, 200, 150, 300, 400)},
		{"flat", histOf(200, 200, 200, 200, 200)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if kind, ok := c.Classify(100, 40, tt.hist, midHist); ok {
				t.Errorf("Classify = %q, want no event", kind)
			}
		})
	}
}

func TestClassifyWarmup(t *testing.T) {
	c := defaultClassifier()
	if kind, ok := c.Classify(9000, 400, histOf(2000, 2000), histOf(500, 500)); ok {
		t.Errorf("Classify before warm-up = %q, want no event", kind)
	}
}

func TestClassifyVeto(t *testing.T) {
	c := defaultClassifier()
	// Nothing qualifies even though a gate may have fired on raw volume.
	bassHist := histOf(2000, 1900, 2100, 2000, 1950)
	midHist := histOf(500, 500, 500, 500, 500)

	if kind, ok := c.Classify(2100, 400, bassHist, midHist); ok {
		t.Errorf("Classify = %q, want veto (no event)", kind)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	c := defaultClassifier()
	bassHist := histOf(2000, 2000, 2000, 2000, 2000)
	midHist := histOf(500, 500, 500, 500, 500)

	k1, ok1 := c.Classify(6000, 400, bassHist, midHist)
	k2, ok2 := c.Classify(6000, 400, bassHist, midHist)
	if k1 != k2 || ok1 != ok2 {
		t.Errorf("Classify not deterministic: (%q,%v) != (%q,%v)", k1, ok1, k2, ok2)
	}
}
