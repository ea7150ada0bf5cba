// Package config loads runtime settings for the cadence host.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config holds host settings
type Config struct {
	FPS             int
	PollingInterval time.Duration // offload completion polling
	AutoQuit        bool          // Escape and Ctrl-C end the run
	Debug           bool
	LogDir          string
	Audio           bool
	QueueWarn       int // queue depth logged as a warning
}

// Default returns the built-in settings
func Default() Config {
	return Config{
		FPS:             60,
		PollingInterval: 50 * time.Millisecond,
		AutoQuit:        true,
		LogDir:          "logs",
		Audio:           true,
		QueueWarn:       192,
	}
}

// FrameInterval is the target time between frames
func (c Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.FPS)
}

// Validate rejects settings the host cannot run with
func (c Config) Validate() error {
	var errs []error
	if c.FPS <= 0 {
		errs = append(errs, fmt.Errorf("fps must be positive, got %d", c.FPS))
	}
	if c.PollingInterval < 0 {
		errs = append(errs, fmt.Errorf("polling_interval must not be negative, got %s", c.PollingInterval))
	}
	if c.QueueWarn < 0 {
		errs = append(errs, fmt.Errorf("queue_warn must not be negative, got %d", c.QueueWarn))
	}
	return errors.Join(errs...)
}

type fileConfig struct {
	FPS             int    `toml:"fps" yaml:"fps"`
	PollingInterval string `toml:"polling_interval" yaml:"polling_interval"`
	AutoQuit        bool   `toml:"auto_quit" yaml:"auto_quit"`
	Debug           bool   `toml:"debug" yaml:"debug"`
	LogDir          string `toml:"log_dir" yaml:"log_dir"`
	Audio           bool   `toml:"audio" yaml:"audio"`
	QueueWarn       int    `toml:"queue_warn" yaml:"queue_warn"`
}

// Load reads path over the defaults. Files ending in .yaml or .yml are YAML, anything else TOML.
// Keys missing from the file keep their default values
func Load(path string) (Config, error) {
	var (
		raw     fileConfig
		defined func(key string) bool
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		keys, err := decodeYAML(path, &raw)
		if err != nil {
			return Config{}, err
		}
		defined = func(key string) bool { _, ok := keys[key]; return ok }
	default:
		meta, err := toml.DecodeFile(path, &raw)
		if err != nil {
			return Config{}, fmt.Errorf("load config: %w", err)
		}
		defined = func(key string) bool { return meta.IsDefined(key) }
	}

	cfg, err := overlay(Default(), raw, defined)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func decodeYAML(path string, raw *fileConfig) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	keys := map[string]any{}
	if err := yaml.Unmarshal(data, &keys); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := yaml.Unmarshal(data, raw); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return keys, nil
}

func overlay(cfg Config, raw fileConfig, defined func(string) bool) (Config, error) {
	if defined("fps") {
		cfg.FPS = raw.FPS
	}
	if defined("polling_interval") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.PollingInterval))
		if err != nil {
			return Config{}, fmt.Errorf("parse polling_interval: %w", err)
		}
		cfg.PollingInterval = d
	}
	if defined("auto_quit") {
		cfg.AutoQuit = raw.AutoQuit
	}
	if defined("debug") {
		cfg.Debug = raw.Debug
	}
	if defined("log_dir") {
		if dir := strings.TrimSpace(raw.LogDir); dir != "" {
			cfg.LogDir = dir
		}
	}
	if defined("audio") {
		cfg.Audio = raw.Audio
	}
	if defined("queue_warn") {
		cfg.QueueWarn = raw.QueueWarn
	}
	return cfg, nil
}
