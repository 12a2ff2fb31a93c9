package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables read on top of the config file.
const (
	EnvServer = "STUDYBUDDY_SERVER"
	EnvToken  = "STUDYBUDDY_TOKEN"
	EnvTheme  = "STUDYBUDDY_THEME"
)

// Env holds settings taken from the process environment. Nil means unset.
type Env struct {
	Server *string
	Token  *string
	Theme  *string
}

// LoadEnv merges the given .env files into the process environment without
// overriding variables that are already set, then reads the overlay.
// Missing files are skipped.
func LoadEnv(paths ...string) (Env, error) {
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return Env{}, err
		}
	}
	return ReadEnv(os.LookupEnv), nil
}

// ReadEnv builds an Env from a lookup function. Blank values count as unset.
func ReadEnv(lookup func(string) (string, bool)) Env {
	get := func(key string) *string {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		if !ok || v == "" {
			return nil
		}
		return &v
	}
	return Env{
		Server: get(EnvServer),
		Token:  get(EnvToken),
		Theme:  get(EnvTheme),
	}
}

// First returns the first non-nil value. Callers list sources from highest
// to lowest precedence.
func First[T any](values ...*T) *T {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}
