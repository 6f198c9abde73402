// Package config loads the engine's optional TOML configuration file.
// A missing file is not an error: every field has a sensible zero-config
// default, matching the engine's "stateless across process launches"
// external-interface contract.
package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds the engine's tunable, non-protocol settings.
type Config struct {
	Hash         int    `toml:"hash_size"`
	DefaultDepth int    `toml:"default_depth"`
	LogLevel     string `toml:"log_level"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Hash:         100000,
		DefaultDepth: 9,
		LogLevel:     "info",
	}
}

// Load reads path and overlays its fields onto the defaults. If path
// does not exist, the defaults are returned unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
