package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	EnvLogLevel = "GRIDWALK_LOG_LEVEL"
	EnvMarker   = "GRIDWALK_MARKER"
	EnvQuitKey  = "GRIDWALK_QUIT_KEY"
)

// LoadDotEnv copies variables from a dotenv file into the process
// environment without overriding ones already set. A missing file is fine.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvLogLevel); ok && strings.TrimSpace(v) != "" {
		if err := cfg.Log.Level.UnmarshalText([]byte(strings.TrimSpace(v))); err != nil {
			return fmt.Errorf("%s: %w", EnvLogLevel, err)
		}
	}
	if v, ok := lookup(EnvMarker); ok && v != "" {
		r, err := singleRune(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMarker, err)
		}
		cfg.Client.Marker = r
	}
	if v, ok := lookup(EnvQuitKey); ok && v != "" {
		r, err := singleRune(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvQuitKey, err)
		}
		cfg.Client.QuitKey = r
	}
	return nil
}
