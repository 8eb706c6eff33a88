// SPDX-License-Identifier: MIT
package analysis

// Intensity mapping policies.
const (
	PolicyContinuous = "continuous"
	PolicyFixed      = "fixed"
)

// fixedIntensity is the per-kind table policy. The continuous mapping is
// the default as it degrades better across playback volume levels.
var fixedIntensity = map[EventKind]float64{
	KindBassDrop: 1.0,
	KindRhythm:   0.8,
	KindVocal:    0.7,
	KindBuild:    0.5,
}

// IntensityMapper maps a raw signal magnitude to a normalized [0, 1]
// flash intensity.
type IntensityMapper struct {
	Policy string
	Scale  float64               // Divisor for the continuous mapping, tuned empirically
	Floors map[EventKind]float64 // Per-kind lower bound for the continuous mapping
}

// Intensity returns the flash intensity for a signal value of the given
// event kind. The result is always in [0, 1], for any non-negative input.
func (m IntensityMapper) Intensity(value float64, kind EventKind) float64 {
	if m.Policy == PolicyFixed {
		if v, ok := fixedIntensity[kind]; ok {
			return v
		}
		return 0.6
	}

	if m.Scale <= 0 {
		return 0
	}
	v := value / m.Scale
	if floor, ok := m.Floors[kind]; ok && v < floor {
		v = floor
	}
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return v
}
