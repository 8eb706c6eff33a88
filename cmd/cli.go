// SPDX-License-Identifier: MIT
package cmd

import (
	"os"

	"lightbeat/internal/config"
	"lightbeat/pkg/build"

	"github.com/spf13/cobra"
)

// ParseArgs builds the runtime configuration from presets, an optional
// YAML file and command line flags. Precedence, lowest to highest:
// defaults, config file, environment, explicit flags. --preset replaces
// the defaults and skips the config file; environment and flags still
// apply on top of it.
func ParseArgs() (*config.Config, error) {
	buildInfo := build.GetInfo()

	var (
		configPath string
		presetName string

		deviceID   int
		channels   int
		sampleRate float64
		chunkSize  int
		lowLatency bool

		cooldownMs int64
		policy     string

		wsAddr    string
		udpTarget string

		meter   bool
		verbose bool

		command  string
		filePath string
	)

	rootCmd := &cobra.Command{
		Use:           buildInfo.Name,
		Short:         "Real-time musical event detection for light control",
		Version:       buildInfo.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd:   true,
			DisableDescriptions: true,
			DisableNoDescFlag:   true,
			HiddenDefaultCmd:    true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand: live capture mode.
			return nil
		},
	}
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List available audio input devices",
		Run: func(cmd *cobra.Command, args []string) {
			command = "list"
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "analyze <file.wav>",
		Short: "Run detection over a WAV file instead of live input",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			command = "analyze"
			filePath = args[0]
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "demo",
		Short: "Run detection over built-in synthetic beat patterns",
		Run: func(cmd *cobra.Command, args []string) {
			command = "demo"
		},
	})

	f := rootCmd.PersistentFlags()

	f.StringVar(&configPath, "config", "",
		"Path to a YAML config file (default: lightbeat.yaml if present)")
	f.StringVar(&presetName, "preset", "",
		"Start from a named preset: default, club, quiet-room")

	f.IntVarP(&deviceID, "device", "d", config.DefaultDeviceID,
		"Input device ID. Use 'list' to see available devices.")
	f.IntVarP(&channels, "channels", "c", config.DefaultChannels,
		"Number of capture channels (1=mono, 2=stereo)")
	f.Float64VarP(&sampleRate, "sample-rate", "s", config.DefaultSampleRate,
		"Sample rate, measured in Hertz (Hz)")
	f.IntVarP(&chunkSize, "chunk", "b", config.DefaultChunkSize,
		"Samples per processing chunk (power of 2)")
	f.BoolVarP(&lowLatency, "low-latency", "l", false,
		"Request low latency from the capture device")

	f.Int64Var(&cooldownMs, "cooldown", config.DefaultCooldownMs,
		"Minimum milliseconds between emitted events")
	f.StringVar(&policy, "policy", config.PolicyContinuous,
		"Intensity mapping policy: continuous or fixed")

	f.StringVar(&wsAddr, "ws-addr", "",
		"Serve events over WebSocket on this address (e.g. :8080)")
	f.StringVar(&udpTarget, "udp-target", "",
		"Send binary event packets to this UDP address (e.g. 127.0.0.1:9090)")

	f.BoolVarP(&meter, "meter", "m", false,
		"Show the live terminal meter")
	f.BoolVarP(&verbose, "verbose", "v", false,
		"Show verbose output")

	rootCmd.SetArgs(os.Args[1:])
	if err := rootCmd.Execute(); err != nil {
		return nil, err
	}

	var cfg *config.Config
	var err error
	if presetName != "" {
		cfg, err = config.Preset(presetName)
		if err != nil {
			return nil, err
		}
		cfg.ApplyEnvOverrides()
	} else {
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
	}

	// Only flags the user actually set override the preset or file.
	if f.Changed("device") {
		cfg.Audio.InputDevice = deviceID
	}
	if f.Changed("channels") {
		cfg.Audio.Channels = channels
	}
	if f.Changed("sample-rate") {
		cfg.Audio.SampleRate = sampleRate
	}
	if f.Changed("chunk") {
		cfg.Audio.ChunkSize = chunkSize
	}
	if f.Changed("low-latency") {
		cfg.Audio.LowLatency = lowLatency
	}
	if f.Changed("cooldown") {
		cfg.Detection.CooldownMs = cooldownMs
	}
	if f.Changed("policy") {
		cfg.Intensity.Policy = policy
	}
	if f.Changed("ws-addr") {
		cfg.Transport.WebSocketAddr = wsAddr
		cfg.Transport.WebSocketEnabled = true
	}
	if f.Changed("udp-target") {
		cfg.Transport.UDPTargetAddress = udpTarget
		cfg.Transport.UDPEnabled = true
	}
	if verbose {
		cfg.Debug = true
		cfg.LogLevel = "debug"
	}

	cfg.Command = command
	cfg.FilePath = filePath
	cfg.Meter = meter

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
