package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	ScanPaths     []string `toml:"scan_paths"`
	TemplatesPath string   `toml:"templates_path"`
	OutputDir     string   `toml:"output_dir"`
	Exclude       Exclude  `toml:"exclude"`
	Watch         Watch    `toml:"watch"`
	History       History  `toml:"history"`
	Tracing       Tracing  `toml:"tracing"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

// Duration decodes TOML strings like "500ms" into a time.Duration.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

type Watch struct {
	Debounce Duration `toml:"debounce"`
	// Rate/Burst bound how often churn may trigger a regeneration.
	Rate  float64 `toml:"rate"`
	Burst int     `toml:"burst"`
}

type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

type Tracing struct {
	Enabled  bool   `toml:"enabled"`
	Endpoint string `toml:"endpoint"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if len(cfg.ScanPaths) == 0 {
		cfg.ScanPaths = []string{"."}
	}
	if cfg.TemplatesPath == "" {
		cfg.TemplatesPath = "templates/swift"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "Generated"
	}
	if cfg.Watch.Debounce.Duration == 0 {
		cfg.Watch.Debounce.Duration = 500 * time.Millisecond
	}
	if cfg.Watch.Rate == 0 {
		cfg.Watch.Rate = 2
	}
	if cfg.Watch.Burst == 0 {
		cfg.Watch.Burst = 3
	}
	if cfg.History.Path == "" {
		cfg.History.Path = ".loom/history.db"
	}
	if len(cfg.Exclude.Dirs) == 0 {
		cfg.Exclude.Dirs = []string{".git", ".build", "Pods", "Carthage"}
	}
}
