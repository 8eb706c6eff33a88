// SPDX-License-Identifier: MIT
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file, starting from the
// defaults so partial files are fine. If path is empty it tries
// "lightbeat.yaml" in the working directory and silently falls back to the
// defaults when no file exists. Environment overrides are applied after the
// file, then the result is validated.
func LoadConfig(path string) (*Config, error) {
	cfg := NewConfig()

	explicit := path != ""
	if path == "" {
		path = "lightbeat.yaml"
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// No file, defaults apply.
	default:
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg.ApplyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// ApplyEnvOverrides maps LIGHTBEAT_* environment variables onto the config.
// Env wins over file and preset values so deployments can tune without
// editing YAML. LoadConfig calls this; preset-based construction must call
// it separately.
func (c *Config) ApplyEnvOverrides() {
	if v, ok := os.LookupEnv("LIGHTBEAT_DEBUG"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Debug = b
		}
	}
	if v, ok := os.LookupEnv("LIGHTBEAT_LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	if v, ok := os.LookupEnv("LIGHTBEAT_COOLDOWN_MS"); ok {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Detection.CooldownMs = n
		}
	}
	if v, ok := os.LookupEnv("LIGHTBEAT_MIN_VOLUME"); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Detection.MinVolume = f
		}
	}
	if v, ok := os.LookupEnv("LIGHTBEAT_WS_ADDR"); ok {
		c.Transport.WebSocketAddr = v
		c.Transport.WebSocketEnabled = true
	}
	if v, ok := os.LookupEnv("LIGHTBEAT_UDP_TARGET"); ok {
		c.Transport.UDPTargetAddress = v
		c.Transport.UDPEnabled = true
	}
}
