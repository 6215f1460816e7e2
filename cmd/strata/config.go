package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

const defaultConfigFile = "strata.yaml"

// Config holds the file-based settings of the CLI. Command-line flags
// override the file values.
type Config struct {
	// Path is the directory holding the XML mapping descriptors.
	Path string `yaml:"path,omitempty"`
	// Dialect is the SQL dialect used for DDL output.
	Dialect string `yaml:"dialect,omitempty"`
	// Package is the Go package path of generated descriptors.
	Package string `yaml:"package,omitempty"`
	// Target is the output directory of generated descriptors.
	Target string `yaml:"target,omitempty"`
	// Schema is the default database schema of the generated tables.
	Schema string `yaml:"schema,omitempty"`
	// Cache is the snapshot cache directory. Empty disables caching.
	Cache string `yaml:"cache,omitempty"`
}

// loadConfig reads the config file. A missing default file yields an
// empty config; a missing explicit file is an error.
func loadConfig(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}
	buf, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		return &Config{}, nil
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(buf, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// overlay returns the flag value when set, the config value otherwise.
func overlay(flag, cfg string) string {
	if flag != "" {
		return flag
	}
	return cfg
}
