package app

import (
	"fmt"

	"github.com/specialistvlad/recipekit/internal/pkgset"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// PackagesFile is an optional TOML package set. The built-in package is
	// always present.
	PackagesFile string
	// Packages are added next to the built-in one. Used when packages are
	// assembled in code rather than read from a file.
	Packages []*pkgset.Package

	LogFormat string
	LogLevel  string
}

func NewConfig(cfg Config) (*Config, error) {
	if _, err := parseLevel(cfg.LogLevel); err != nil {
		return nil, err
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	switch cfg.LogFormat {
	case "":
		cfg.LogFormat = "text"
	case "text", "json":
	default:
		return nil, fmt.Errorf("invalid log format '%s': must be 'text' or 'json'", cfg.LogFormat)
	}

	if cfg.PackagesFile != "" && len(cfg.Packages) > 0 {
		return nil, fmt.Errorf("PackagesFile and Packages are mutually exclusive")
	}

	return &cfg, nil
}
