// SPDX-License-Identifier: MIT
/*
Package engine wires the per-chunk detection pipeline: band analysis,
rolling statistics, adaptive gates, classification, intensity mapping and
event emission. ProcessChunk is called from the audio callback, so the
whole path is allocation-free after construction except for emitted events.
*/
package engine

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"lightbeat/internal/analysis"
	"lightbeat/internal/config"
	applog "lightbeat/internal/log"
	"lightbeat/internal/tempo"
)

// State is the engine lifecycle state.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateStopped
)

// Sink receives emitted events. Implementations must not block; slow
// consumers drop rather than stall the audio path.
type Sink interface {
	Send(v any) error
}

// nowMs is the cooldown clock, replaceable in tests.
var nowMs = func() int64 { return time.Now().UnixMilli() }

// Engine runs the detection pipeline over a stream of PCM chunks.
// ProcessChunk must be called from a single goroutine.
type Engine struct {
	analyzer *analysis.BandAnalyzer

	volumeHist *analysis.History
	bassHist   *analysis.History
	midHist    *analysis.History

	volumeGate analysis.Gate
	bassGate   analysis.Gate
	midGate    analysis.Gate

	classifier analysis.Classifier
	mapper     analysis.IntensityMapper

	scheduler *tempo.Scheduler // nil when tempo estimation is disabled
	sink      Sink

	state       atomic.Int32
	lastEventMs int64 // Shared cooldown clock, advanced only on emission
	events      atomic.Uint64
}

// New builds an engine from a validated configuration. The sink may be nil;
// events are then only returned to the caller.
func New(cfg *config.Config, sink Sink) (*Engine, error) {
	if cfg == nil {
		return nil, errors.New("engine: config must not be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	analyzer, err := analysis.NewBandAnalyzer(cfg.Audio.ChunkSize, cfg.Audio.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	d := cfg.Detection
	e := &Engine{
		analyzer:   analyzer,
		volumeHist: analysis.NewHistory(d.HistorySize),
		bassHist:   analysis.NewHistory(d.HistorySize),
		midHist:    analysis.NewHistory(d.HistorySize),
		volumeGate: analysis.Gate{
			Multiplier: d.VolumeMultiplier,
			Floor:      d.MinVolume,
			Ceiling:    d.MaxVolume,
			Warmup:     d.WarmupSamples,
			CooldownMs: d.CooldownMs,
		},
		bassGate: analysis.Gate{
			Multiplier: d.RhythmMultiplier,
			Floor:      d.RhythmFloor,
			Warmup:     d.WarmupSamples,
			CooldownMs: d.CooldownMs,
		},
		midGate: analysis.Gate{
			Multiplier: d.VocalMultiplier,
			Floor:      d.MidFloor,
			Warmup:     d.WarmupSamples,
			CooldownMs: d.CooldownMs,
		},
		classifier: analysis.Classifier{
			DropMultiplier:   d.BassDropMultiplier,
			DropFloor:        d.BassDropFloor,
			RhythmMultiplier: d.RhythmMultiplier,
			RhythmFloor:      d.RhythmFloor,
			VocalMultiplier:  d.VocalMultiplier,
			VocalBassRatio:   d.VocalBassRatio,
			BuildWindow:      d.BuildWindow,
			MinSamples:       d.WarmupSamples,
		},
		mapper: analysis.IntensityMapper{
			Policy: cfg.Intensity.Policy,
			Scale:  cfg.Intensity.Scale,
			Floors: kindFloors(cfg.Intensity.Floors),
		},
		sink: sink,
	}

	if cfg.Tempo.Enabled {
		e.scheduler = tempo.NewScheduler(
			tempo.NewAutocorrEstimator(),
			cfg.Audio.SampleRate,
			cfg.Tempo.Interval,
			cfg.Tempo.WindowSeconds,
		)
	}

	return e, nil
}

func kindFloors(floors map[string]float64) map[analysis.EventKind]float64 {
	out := make(map[analysis.EventKind]float64, len(floors))
	for k, v := range floors {
		out[analysis.EventKind(k)] = v
	}
	return out
}

// Start transitions the engine from idle to running.
func (e *Engine) Start() error {
	if !e.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		return fmt.Errorf("engine: cannot start from state %d", e.state.Load())
	}
	applog.Debugf("Engine: running (chunk=%d, rate=%.0f)",
		e.analyzer.ChunkSize(), e.analyzer.SampleRate())
	return nil
}

// Stop halts processing and waits for any in-flight tempo estimation.
// Chunks arriving after Stop are ignored.
func (e *Engine) Stop() {
	if !e.state.CompareAndSwap(int32(StateRunning), int32(StateStopped)) {
		return
	}
	if e.scheduler != nil {
		e.scheduler.Stop()
	}
	applog.Debugf("Engine: stopped after %d events", e.events.Load())
}

// State returns the current lifecycle state.
func (e *Engine) State() State { return State(e.state.Load()) }

// EventCount returns the number of events emitted so far.
func (e *Engine) EventCount() uint64 { return e.events.Load() }

// Tempo returns the most recent BPM estimate, or 0 when estimation is
// disabled or has not produced a value yet.
func (e *Engine) Tempo() float64 {
	if e.scheduler == nil {
		return 0
	}
	return e.scheduler.Current()
}

// ProcessChunk runs one chunk through the pipeline and returns the emitted
// event, or nil when the chunk produced none. Chunks shorter than two
// samples and chunks arriving outside the running state are ignored.
func (e *Engine) ProcessChunk(chunk []int16) *Event {
	if State(e.state.Load()) != StateRunning {
		return nil
	}
	if len(chunk) < 2 {
		return nil
	}

	volume := analysis.RMS(chunk)
	energy := e.analyzer.Analyze(chunk)

	e.volumeHist.Push(volume)
	e.bassHist.Push(energy.Bass)
	e.midHist.Push(energy.Mid)

	if e.scheduler != nil {
		e.scheduler.Observe(chunk)
	}

	now := nowMs()
	fired := e.volumeGate.ShouldFire(volume, e.volumeHist, e.lastEventMs, now) ||
		e.bassGate.ShouldFire(energy.Bass, e.bassHist, e.lastEventMs, now) ||
		e.midGate.ShouldFire(energy.Mid, e.midHist, e.lastEventMs, now)
	if !fired {
		return nil
	}

	kind, ok := e.classifier.Classify(energy.Bass, energy.Mid, e.bassHist, e.midHist)
	if !ok {
		// A gate fired on raw level but nothing recognizable was in the
		// chunk. The cooldown clock is untouched so the next real event
		// is not delayed.
		return nil
	}

	e.lastEventMs = now
	e.events.Add(1)

	ev := &Event{
		Kind:       kind,
		Intensity:  e.mapper.Intensity(volume, kind),
		Tempo:      int(e.Tempo()),
		BassEnergy: int(energy.Bass),
		MidEnergy:  int(energy.Mid),
		HighEnergy: int(energy.High),
		Timestamp:  float64(now) / 1000.0,
	}

	if e.sink != nil {
		if err := e.sink.Send(ev); err != nil {
			// Delivery failure never breaks detection.
			applog.Debugf("Engine: event delivery failed: %v", err)
		}
	}
	return ev
}
