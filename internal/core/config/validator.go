package config

import (
	"fmt"

	"github.com/gobwas/glob"
)

// Validate rejects configurations the scanner or watcher could not act
// on: unparsable exclude globs and empty scan paths.
func Validate(cfg *Config) error {
	for _, pattern := range cfg.Exclude.Dirs {
		if _, err := glob.Compile(pattern); err != nil {
			return fmt.Errorf("invalid exclude dir pattern %q: %w", pattern, err)
		}
	}
	for _, pattern := range cfg.Exclude.Files {
		if _, err := glob.Compile(pattern); err != nil {
			return fmt.Errorf("invalid exclude file pattern %q: %w", pattern, err)
		}
	}
	for _, path := range cfg.ScanPaths {
		if path == "" {
			return fmt.Errorf("scan path must not be empty")
		}
	}
	if cfg.Watch.Rate < 0 {
		return fmt.Errorf("watch rate must not be negative")
	}
	return nil
}
