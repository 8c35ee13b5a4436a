// Package config loads grain.json, the application configuration file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "grain.json"

	// DefaultAddress is the default listen address.
	DefaultAddress = ":8420"

	// DefaultDatabase is the default SQLite database path.
	DefaultDatabase = "grain.db"
)

// Config represents the grain.json configuration.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty"`

	// Address is the listen address, e.g. ":8420".
	Address string `json:"address,omitempty"`

	// Database is the SQLite database path.
	Database string `json:"database,omitempty"`

	// Title is the page title.
	Title string `json:"title,omitempty"`

	// Metrics exposes Prometheus metrics on /metrics.
	Metrics bool `json:"metrics,omitempty"`

	// S3 holds optional object-store persistence settings.
	S3 S3Config `json:"s3,omitempty"`
}

// S3Config configures object-store persistence. When Bucket is set it takes
// precedence over the SQLite database.
type S3Config struct {
	Bucket string `json:"bucket,omitempty"`
	Prefix string `json:"prefix,omitempty"`
}

// New returns a Config with defaults applied.
func New() *Config {
	return &Config{
		Address:  DefaultAddress,
		Database: DefaultDatabase,
		Metrics:  true,
	}
}

// Load reads grain.json from dir. A missing file is not an error; defaults
// are returned.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, ConfigFileName)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(), nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	cfg.applyDefaults()

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Address == "" {
		c.Address = DefaultAddress
	}
	if c.Database == "" {
		c.Database = DefaultDatabase
	}
}
