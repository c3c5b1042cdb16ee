package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the search directories.
const FileName = "appledash.yaml"

// Load loads, overrides and validates the configuration.
// Search order: customPath -> ~/.appledash/configs/appledash.yaml ->
// ./configs/appledash.yaml -> embedded default.
// Environment variables are applied on top of whichever source was used.
func Load(customPath string) (Config, error) {
	var cfg Config
	var err error

	if path := Resolve(customPath); path != "" {
		cfg, err = LoadFile(path)
	} else {
		cfg, err = Parse(defaultYAML)
		if err != nil {
			cfg, err = DefaultConfig(), nil // Fallback to hardcoded if embed fails
		}
	}
	if err != nil {
		return cfg, err
	}

	if err := ParseEnv(&cfg); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadFile reads one YAML file over the defaults. Keys missing from the file
// keep their default values.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultConfig(), fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults without env overrides or validation.
func Parse(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Resolve returns the file Load would read, or "" for the embedded default.
// A custom path is returned even if it does not exist so that Load reports it.
func Resolve(customPath string) string {
	if customPath != "" {
		return customPath
	}
	if p := userConfigPath(FileName); p != "" && fileExists(p) {
		return p
	}
	if p := filepath.Join("configs", FileName); fileExists(p) {
		return p
	}
	return ""
}

// Marshal renders cfg as YAML.
func Marshal(cfg Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("config: marshal: %w", err)
	}
	return data, nil
}

// RespawnDelay returns the pickup respawn delay as a duration.
func (c Config) RespawnDelay() time.Duration {
	return time.Duration(c.Pickups.RespawnDelayMS) * time.Millisecond
}

func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".appledash", "configs", filename)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
