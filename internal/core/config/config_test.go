package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "loom.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatal(err)
	}

	if len(cfg.ScanPaths) != 1 || cfg.ScanPaths[0] != "." {
		t.Errorf("unexpected scan paths: %v", cfg.ScanPaths)
	}
	if cfg.Watch.Debounce.Duration != 500*time.Millisecond {
		t.Errorf("unexpected debounce: %v", cfg.Watch.Debounce)
	}
	if cfg.TemplatesPath != "templates/swift" {
		t.Errorf("unexpected templates path: %q", cfg.TemplatesPath)
	}
	if cfg.History.Path != ".loom/history.db" {
		t.Errorf("unexpected history path: %q", cfg.History.Path)
	}
}

func TestLoad_Values(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
scan_paths = ["Sources", "App"]
templates_path = "bundle"
output_dir = "Sources/Generated"

[exclude]
dirs = ["Pods"]
files = ["*.generated.swift"]

[watch]
debounce = "250ms"
rate = 5.0
burst = 10

[history]
enabled = true
path = "state/history.db"
`))
	if err != nil {
		t.Fatal(err)
	}

	if len(cfg.ScanPaths) != 2 {
		t.Fatalf("unexpected scan paths: %v", cfg.ScanPaths)
	}
	if cfg.Watch.Debounce.Duration != 250*time.Millisecond {
		t.Errorf("unexpected debounce: %v", cfg.Watch.Debounce)
	}
	if cfg.Watch.Rate != 5.0 || cfg.Watch.Burst != 10 {
		t.Errorf("unexpected limiter settings: %v/%v", cfg.Watch.Rate, cfg.Watch.Burst)
	}
	if !cfg.History.Enabled || cfg.History.Path != "state/history.db" {
		t.Errorf("unexpected history config: %+v", cfg.History)
	}
}

func TestLoad_InvalidGlob(t *testing.T) {
	_, err := Load(writeConfig(t, `
[exclude]
dirs = ["[unclosed"]
`))
	if err == nil {
		t.Fatal("expected validation error for bad glob")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
