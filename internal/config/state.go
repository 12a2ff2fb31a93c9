package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// State is UI state persisted between runs.
type State struct {
	Theme string `toml:"theme"`
}

// LoadState reads the state file. A missing file yields the zero State.
func LoadState(path string) (State, error) {
	var st State
	if _, err := toml.DecodeFile(path, &st); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return State{}, nil
		}
		return State{}, fmt.Errorf("failed to decode state: %w", err)
	}
	return st, nil
}

// SaveState writes the state file atomically.
func SaveState(path string, st State) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create state dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(dir, "state-*.toml")
	if err != nil {
		return fmt.Errorf("failed to create temp state: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if err := toml.NewEncoder(tmpFile).Encode(st); err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close state: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write state: %w", err)
	}
	return nil
}
