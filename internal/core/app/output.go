package app

import (
	"bytes"
	"os"
	"path/filepath"

	"log/slog"

	"loom/internal/engine/generator"
)

// WriteOutputs persists generated files under the output directory.
// Unchanged files are left untouched so build systems see no spurious
// modifications.
func WriteOutputs(dir string, outputs []generator.GeneratedFile) error {
	if len(outputs) == 0 {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	for _, output := range outputs {
		target := filepath.Join(dir, output.Path)
		content := []byte(output.Content)

		if existing, err := os.ReadFile(target); err == nil && bytes.Equal(existing, content) {
			continue
		}

		if err := os.WriteFile(target, content, 0o644); err != nil {
			return err
		}
		slog.Debug("wrote wiring file", "path", target)
	}
	return nil
}
