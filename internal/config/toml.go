// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Study  StudyConfig  `toml:"study"`
	UI     UIConfig     `toml:"ui"`
	Server ServerConfig `toml:"server"`
}

// StudyConfig maps study session settings.
type StudyConfig struct {
	Server      *string `toml:"server"`
	Deck        *int64  `toml:"deck"`
	Quiz        *bool   `toml:"quiz"`
	Seed        *int64  `toml:"seed"`
	AutoAdvance *string `toml:"auto-advance"`
	FocusWeak   *bool   `toml:"focus-weak"`
	WeakTop     *int    `toml:"weak-top"`
	WeakWindow  *int    `toml:"weak-window"`
}

// UIConfig maps presentation settings.
type UIConfig struct {
	Theme    *string `toml:"theme"`
	LogLevel *string `toml:"log-level"`
}

// ServerConfig maps backend connection settings.
type ServerConfig struct {
	Timeout *string `toml:"timeout"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

// ParseDuration converts an optional duration string such as "500ms".
func ParseDuration(key string, value *string) (*time.Duration, error) {
	if value == nil {
		return nil, nil
	}
	d, err := time.ParseDuration(*value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: %w", key, *value, err)
	}
	if d < 0 {
		return nil, fmt.Errorf("invalid %s %q: must not be negative", key, *value)
	}
	return &d, nil
}
