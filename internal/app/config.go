package app

import (
	"errors"
	"fmt"
)

// Config holds everything one solex invocation needs to run.
type Config struct {
	// Path is the root configuration file.
	Path string
	// Address optionally names the node to resolve instead of the root.
	Address string
	// UnitDirs are extra search roots for the load modifiers. The root
	// file's directory is always searched first.
	UnitDirs []string
	// Overrides are assignment statements, e.g. `model.size = "large"`.
	Overrides []string

	Format    string // yaml or json
	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.Path == "" {
		return nil, errors.New("Path is a required configuration field and cannot be empty")
	}
	if cfg.Format == "" {
		cfg.Format = "yaml"
	}
	if cfg.Format != "yaml" && cfg.Format != "json" {
		return nil, fmt.Errorf("invalid format %q: must be 'yaml' or 'json'", cfg.Format)
	}
	return &cfg, nil
}
