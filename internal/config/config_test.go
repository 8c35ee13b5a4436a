package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewDefaults(t *testing.T) {
	cfg := New()
	if cfg.Address != DefaultAddress {
		t.Errorf("address %q", cfg.Address)
	}
	if cfg.Database != DefaultDatabase {
		t.Errorf("database %q", cfg.Database)
	}
	if !cfg.Metrics {
		t.Errorf("metrics disabled by default")
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Address != DefaultAddress {
		t.Errorf("address %q", cfg.Address)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	data := `{
		"name": "demo",
		"address": ":3000",
		"title": "Demo",
		"s3": {"bucket": "state", "prefix": "demo/"}
	}`
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Name != "demo" || cfg.Address != ":3000" || cfg.Title != "Demo" {
		t.Errorf("loaded %+v", cfg)
	}
	if cfg.S3.Bucket != "state" || cfg.S3.Prefix != "demo/" {
		t.Errorf("s3 section %+v", cfg.S3)
	}
	// Unset fields still get defaults.
	if cfg.Database != DefaultDatabase {
		t.Errorf("database not defaulted: %q", cfg.Database)
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("{oops"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(dir); err == nil {
		t.Errorf("invalid JSON accepted")
	}
}
