package app

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/slotkit/internal/component"
	"github.com/specialistvlad/slotkit/internal/deps"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ComponentsPath string // manifests (.hcl) and their template files
	TemplatePath   string // the page template to render
	ContextPath    string // optional .hcl or .json root context

	// Behavior and Deps override the manifest settings when set.
	Behavior string
	Deps     string

	LogFormat string
	LogLevel  string
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.TemplatePath == "" {
		return nil, errors.New("TemplatePath is a required configuration field and cannot be empty")
	}
	if cfg.Behavior != "" {
		if _, err := component.ParseBehavior(cfg.Behavior); err != nil {
			return nil, err
		}
	}
	if cfg.Deps != "" {
		if _, err := deps.ParseStrategy(cfg.Deps); err != nil {
			return nil, err
		}
	}
	switch cfg.LogFormat {
	case "", "text", "json":
	default:
		return nil, fmt.Errorf("invalid log format %q: must be 'text' or 'json'", cfg.LogFormat)
	}
	switch cfg.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}
	return &cfg, nil
}
