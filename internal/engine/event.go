// SPDX-License-Identifier: MIT
package engine

import "lightbeat/internal/analysis"

// Event is one detected musical event, ready for emission. The JSON field
// names are the wire contract with downstream light controllers.
type Event struct {
	Kind      analysis.EventKind `json:"event_type"`
	Intensity float64            `json:"intensity"` // Normalized [0, 1]
	Tempo     int                `json:"bpm"`       // 0 until the first estimate lands

	BassEnergy int `json:"bass_energy"`
	MidEnergy  int `json:"mid_energy"`
	HighEnergy int `json:"high_energy"`

	Timestamp float64 `json:"timestamp"` // Seconds since the Unix epoch
}
