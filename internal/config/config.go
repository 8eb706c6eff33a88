package config

import (
	"fmt"

	"lightbeat/pkg/bitint"
)

// Defaults and limits for the detection engine configuration.
const (
	DefaultSampleRate = 44100 // CD-quality audio
	DefaultChunkSize  = 1024  // ~23ms per chunk at 44.1kHz
	DefaultChannels   = 1     // Mono input
	DefaultDeviceID   = MinDeviceID

	DefaultHistorySize   = 10  // Chunks kept for rolling averages
	DefaultWarmupSamples = 5   // Minimum history before thresholds are trusted
	DefaultCooldownMs    = 250 // Max 4 events/sec

	DefaultVolumeMultiplier = 1.5
	DefaultMinVolume        = 500   // RMS floor, filters out silence
	DefaultMaxVolume        = 10000 // RMS cap, prevents over-sensitivity

	DefaultBassDropMultiplier = 2.0
	DefaultBassDropFloor      = 5000
	DefaultRhythmMultiplier   = 1.5
	DefaultRhythmFloor        = 3000
	DefaultVocalMultiplier    = 1.3
	DefaultVocalBassRatio     = 1.2
	DefaultMidFloor           = 2000
	DefaultBuildWindow        = 5

	DefaultIntensityScale = 4000.0

	DefaultTempoInterval  = 20  // Estimate every Nth chunk, ~2s at defaults
	DefaultTempoWindowSec = 4.0 // Rolling sample window fed to the estimator

	MinDeviceID   = -1 // -1 selects the system default input device
	MinSampleRate = 8000
	MaxSampleRate = 192000
	MaxChunkSize  = 8192
)

// Intensity mapping policies.
const (
	PolicyContinuous = "continuous" // clamp(rms/scale, floor, 1.0)
	PolicyFixed      = "fixed"      // fixed value per event kind
)

// Config holds all runtime configuration. It is built from defaults or a
// preset, optionally overlaid with a YAML file and command line flags.
type Config struct {
	Debug    bool   `yaml:"debug"`
	LogLevel string `yaml:"log_level"`

	Audio     AudioConfig     `yaml:"audio"`
	Detection DetectionConfig `yaml:"detection"`
	Intensity IntensityConfig `yaml:"intensity"`
	Tempo     TempoConfig     `yaml:"tempo"`
	Transport TransportConfig `yaml:"transport"`

	// CLI state, never read from YAML.
	Command  string `yaml:"-"` // One-off subcommand ("list", "analyze", "demo")
	FilePath string `yaml:"-"` // WAV path for the analyze command
	Meter    bool   `yaml:"-"` // Show the live TUI meter
}

// AudioConfig holds audio capture settings.
type AudioConfig struct {
	InputDevice int     `yaml:"input_device"`     // PortAudio device index, -1 for default
	SampleRate  float64 `yaml:"sample_rate"`      // Hz
	ChunkSize   int     `yaml:"chunk_size"`       // Frames per processing chunk, power of 2
	Channels    int     `yaml:"channels"`         // 1=mono, 2=stereo (downmixed before analysis)
	LowLatency  bool    `yaml:"low_latency"`      // Request low latency from the device
}

// DetectionConfig holds the adaptive threshold and classifier tuning. All
// values are deployment-tunable; room acoustics and genre change what works.
type DetectionConfig struct {
	HistorySize   int   `yaml:"history_size"`
	WarmupSamples int   `yaml:"warmup_samples"`
	CooldownMs    int64 `yaml:"cooldown_ms"`

	VolumeMultiplier float64 `yaml:"volume_multiplier"`
	MinVolume        float64 `yaml:"min_volume"`
	MaxVolume        float64 `yaml:"max_volume"`

	BassDropMultiplier float64 `yaml:"bass_drop_multiplier"`
	BassDropFloor      float64 `yaml:"bass_drop_floor"`
	RhythmMultiplier   float64 `yaml:"rhythm_multiplier"`
	RhythmFloor        float64 `yaml:"rhythm_floor"`
	VocalMultiplier    float64 `yaml:"vocal_multiplier"`
	VocalBassRatio     float64 `yaml:"vocal_bass_ratio"`
	MidFloor           float64 `yaml:"mid_floor"`
	BuildWindow        int     `yaml:"build_window"`
}

// IntensityConfig selects and tunes the intensity mapping policy.
type IntensityConfig struct {
	Policy string             `yaml:"policy"` // "continuous" or "fixed"
	Scale  float64            `yaml:"scale"`  // Divisor for the continuous mapping
	Floors map[string]float64 `yaml:"floors"` // Per-kind lower bound for the continuous mapping
}

// TempoConfig controls the reduced-cadence tempo estimation.
type TempoConfig struct {
	Enabled       bool    `yaml:"enabled"`
	Interval      int     `yaml:"interval"`       // Estimate every Nth chunk
	WindowSeconds float64 `yaml:"window_seconds"` // Audio window handed to the estimator
}

// TransportConfig holds event emission settings.
type TransportConfig struct {
	WebSocketEnabled bool   `yaml:"websocket_enabled"`
	WebSocketAddr    string `yaml:"websocket_addr"`
	UDPEnabled       bool   `yaml:"udp_enabled"`
	UDPTargetAddress string `yaml:"udp_target_address"`
	UDPQueueSize     int    `yaml:"udp_queue_size"`
}

// NewConfig returns a Config populated with the canonical defaults.
func NewConfig() *Config {
	return &Config{
		Debug:    false,
		LogLevel: "info",
		Audio: AudioConfig{
			InputDevice: DefaultDeviceID,
			SampleRate:  DefaultSampleRate,
			ChunkSize:   DefaultChunkSize,
			Channels:    DefaultChannels,
			LowLatency:  false,
		},
		Detection: DetectionConfig{
			HistorySize:        DefaultHistorySize,
			WarmupSamples:      DefaultWarmupSamples,
			CooldownMs:         DefaultCooldownMs,
			VolumeMultiplier:   DefaultVolumeMultiplier,
			MinVolume:          DefaultMinVolume,
			MaxVolume:          DefaultMaxVolume,
			BassDropMultiplier: DefaultBassDropMultiplier,
			BassDropFloor:      DefaultBassDropFloor,
			RhythmMultiplier:   DefaultRhythmMultiplier,
			RhythmFloor:        DefaultRhythmFloor,
			VocalMultiplier:    DefaultVocalMultiplier,
			VocalBassRatio:     DefaultVocalBassRatio,
			MidFloor:           DefaultMidFloor,
			BuildWindow:        DefaultBuildWindow,
		},
		Intensity: IntensityConfig{
			Policy: PolicyContinuous,
			Scale:  DefaultIntensityScale,
			Floors: map[string]float64{
				"bass_drop": 0.4,
				"rhythm":    0.35,
				"vocal":     0.3,
				"build":     0.3,
			},
		},
		Tempo: TempoConfig{
			Enabled:       true,
			Interval:      DefaultTempoInterval,
			WindowSeconds: DefaultTempoWindowSec,
		},
		Transport: TransportConfig{
			WebSocketEnabled: false,
			WebSocketAddr:    ":8080",
			UDPEnabled:       false,
			UDPTargetAddress: "127.0.0.1:9090",
			UDPQueueSize:     64,
		},
	}
}

// Preset returns a named configuration preset. Presets pin the numeric
// behavior of earlier deployments that were tuned by hand.
func Preset(name string) (*Config, error) {
	cfg := NewConfig()
	switch name {
	case "", "default":
		return cfg, nil
	case "club":
		// Longer memory and gentler multipliers for loud, dense mixes.
		cfg.Detection.HistorySize = 30
		cfg.Detection.VolumeMultiplier = 1.6
		cfg.Detection.MinVolume = 800
		cfg.Detection.BassDropMultiplier = 1.9
		cfg.Detection.RhythmFloor = 2000
		cfg.Intensity.Scale = 4000
		cfg.Intensity.Floors = map[string]float64{
			"bass_drop": 0.4, "rhythm": 0.4, "vocal": 0.4, "build": 0.4,
		}
		return cfg, nil
	case "quiet-room":
		// Higher gain mapping for low playback volume.
		cfg.Detection.MinVolume = 300
		cfg.Intensity.Scale = 5000
		cfg.Intensity.Floors = map[string]float64{
			"bass_drop": 0.3, "rhythm": 0.3, "vocal": 0.3, "build": 0.3,
		}
		return cfg, nil
	default:
		return nil, fmt.Errorf("unknown preset %q", name)
	}
}

// Validate rejects configurations that would corrupt the engine. A failure
// here is fatal at startup; the pipeline never enters Running with a bad
// config.
func (c *Config) Validate() error {
	if c.Audio.SampleRate < MinSampleRate || c.Audio.SampleRate > MaxSampleRate {
		return fmt.Errorf("audio.sample_rate %.0f out of range [%d, %d]",
			c.Audio.SampleRate, MinSampleRate, MaxSampleRate)
	}
	if c.Audio.ChunkSize < 2 || c.Audio.ChunkSize > MaxChunkSize {
		return fmt.Errorf("audio.chunk_size %d out of range [2, %d]", c.Audio.ChunkSize, MaxChunkSize)
	}
	if !bitint.IsPowerOfTwo(c.Audio.ChunkSize) {
		return fmt.Errorf("audio.chunk_size %d must be a power of 2", c.Audio.ChunkSize)
	}
	if c.Audio.Channels != 1 && c.Audio.Channels != 2 {
		return fmt.Errorf("audio.channels must be 1 or 2, got %d", c.Audio.Channels)
	}
	if c.Detection.HistorySize <= 0 {
		return fmt.Errorf("detection.history_size must be positive, got %d", c.Detection.HistorySize)
	}
	if c.Detection.WarmupSamples <= 0 || c.Detection.WarmupSamples > c.Detection.HistorySize {
		return fmt.Errorf("detection.warmup_samples %d must be in [1, history_size=%d]",
			c.Detection.WarmupSamples, c.Detection.HistorySize)
	}
	if c.Detection.CooldownMs < 0 {
		return fmt.Errorf("detection.cooldown_ms must not be negative, got %d", c.Detection.CooldownMs)
	}
	if c.Detection.BuildWindow < 2 || c.Detection.BuildWindow > c.Detection.HistorySize {
		return fmt.Errorf("detection.build_window %d must be in [2, history_size=%d]",
			c.Detection.BuildWindow, c.Detection.HistorySize)
	}
	for name, v := range map[string]float64{
		"detection.volume_multiplier":    c.Detection.VolumeMultiplier,
		"detection.bass_drop_multiplier": c.Detection.BassDropMultiplier,
		"detection.rhythm_multiplier":    c.Detection.RhythmMultiplier,
		"detection.vocal_multiplier":     c.Detection.VocalMultiplier,
		"detection.vocal_bass_ratio":     c.Detection.VocalBassRatio,
	} {
		if v <= 0 {
			return fmt.Errorf("%s must be positive, got %g", name, v)
		}
	}
	if c.Detection.MaxVolume > 0 && c.Detection.MaxVolume < c.Detection.MinVolume {
		return fmt.Errorf("detection.max_volume %g below min_volume %g",
			c.Detection.MaxVolume, c.Detection.MinVolume)
	}
	switch c.Intensity.Policy {
	case PolicyContinuous, PolicyFixed:
	default:
		return fmt.Errorf("intensity.policy must be %q or %q, got %q",
			PolicyContinuous, PolicyFixed, c.Intensity.Policy)
	}
	if c.Intensity.Policy == PolicyContinuous && c.Intensity.Scale <= 0 {
		return fmt.Errorf("intensity.scale must be positive, got %g", c.Intensity.Scale)
	}
	for kind, floor := range c.Intensity.Floors {
		if floor < 0 || floor > 1 {
			return fmt.Errorf("intensity.floors[%s] %g out of range [0, 1]", kind, floor)
		}
	}
	if c.Tempo.Enabled {
		if c.Tempo.Interval <= 0 {
			return fmt.Errorf("tempo.interval must be positive, got %d", c.Tempo.Interval)
		}
		if c.Tempo.WindowSeconds <= 0 {
			return fmt.Errorf("tempo.window_seconds must be positive, got %g", c.Tempo.WindowSeconds)
		}
	}
	if c.Transport.UDPEnabled && c.Transport.UDPQueueSize <= 0 {
		return fmt.Errorf("transport.udp_queue_size must be positive, got %d", c.Transport.UDPQueueSize)
	}
	return nil
}
