// Package config loads the optional TOML configuration for a backend server
// launched with 'transpiletest serve'. A missing file is not an error; the
// defaults produce a working local backend.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	// DefaultAddr is the bind address used when no config or flag supplies one.
	DefaultAddr = "localhost:8090"

	// DefaultRuntime is the backend label reported in invocation metadata.
	DefaultRuntime = "go"
)

// Config holds the settings for one backend server process.
type Config struct {
	Server ServerConfig `toml:"server"`
	CORS   CORSConfig   `toml:"cors"`
}

// ServerConfig holds bind and identification settings.
type ServerConfig struct {
	// Addr is the host:port the API server binds to.
	Addr string `toml:"addr"`

	// Runtime labels this backend in invocation metadata (e.g. "go").
	Runtime string `toml:"runtime"`
}

// CORSConfig holds cross-origin settings for the API server.
type CORSConfig struct {
	// Origins enables CORS for the listed origins when non-empty.
	Origins []string `toml:"origins"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:    DefaultAddr,
			Runtime: DefaultRuntime,
		},
	}
}

// Load reads the config file at path. A missing file yields the defaults;
// a present but invalid file is an error.
func Load(path string) (*Config, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to stat config file (%s): %w", path, err)
	}

	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config from file (%s): %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config (%s): %w", path, err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return fmt.Errorf("server.addr cannot be empty")
	}
	if strings.TrimSpace(c.Server.Runtime) == "" {
		return fmt.Errorf("server.runtime cannot be empty")
	}
	return nil
}
