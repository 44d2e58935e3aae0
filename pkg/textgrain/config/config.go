// Package config loads the textgrain tool configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/textgrain/textgrain/pkg/textgrain/internalerr"
)

// FilterConfig configures the word-vector filter.
type FilterConfig struct {
	// WordsToKeep is the target dictionary size, per label value when
	// a label column is set.
	WordsToKeep int `yaml:"words_to_keep"`
	// Label names the column treated as the label attribute; empty
	// means no label.
	Label string `yaml:"label,omitempty"`
}

// StoreConfig selects where frozen models are persisted.
type StoreConfig struct {
	Type string `yaml:"type"` // "memory" or "sqlite"
	Path string `yaml:"path,omitempty"`
}

// Config is the root configuration structure.
type Config struct {
	Filter FilterConfig `yaml:"filter"`
	Store  StoreConfig  `yaml:"store"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Filter: FilterConfig{WordsToKeep: 1000},
		Store:  StoreConfig{Type: "memory"},
	}
}

// Load reads a config from path. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the config to path, creating directories as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func applyDefaults(cfg *Config) {
	if cfg.Filter.WordsToKeep == 0 {
		cfg.Filter.WordsToKeep = 1000
	}
	if cfg.Store.Type == "" {
		cfg.Store.Type = "memory"
	}
}

func validate(cfg *Config) error {
	if cfg.Filter.WordsToKeep < 0 {
		return fmt.Errorf("words_to_keep %d: %w", cfg.Filter.WordsToKeep, internalerr.ErrInvalidConfig)
	}
	switch cfg.Store.Type {
	case "memory":
	case "sqlite":
		if cfg.Store.Path == "" {
			return fmt.Errorf("sqlite store needs a path: %w", internalerr.ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("unknown store type %q: %w", cfg.Store.Type, internalerr.ErrInvalidConfig)
	}
	return nil
}
