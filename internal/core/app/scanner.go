package app

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// ScanDirectories walks the scan roots and returns every Swift source in
// deterministic (sorted) order. Previously generated wiring files are
// never re-read as inputs.
func ScanDirectories(paths []string, excludeDirs, excludeFiles []string) ([]string, error) {
	compiledDirs := make([]glob.Glob, 0, len(excludeDirs))
	for _, pattern := range excludeDirs {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, err
		}
		compiledDirs = append(compiledDirs, g)
	}

	compiledFiles := make([]glob.Glob, 0, len(excludeFiles))
	for _, pattern := range excludeFiles {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, err
		}
		compiledFiles = append(compiledFiles, g)
	}

	seen := make(map[string]bool)
	var files []string

	for _, root := range paths {
		err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				// Missing roots are a configuration problem; transient
				// errors inside the tree are skipped.
				if path == root {
					return err
				}
				return nil
			}

			if info.IsDir() {
				base := filepath.Base(path)
				for _, g := range compiledDirs {
					if g.Match(base) {
						return filepath.SkipDir
					}
				}
				return nil
			}

			if !isSourceFile(path, compiledFiles) {
				return nil
			}

			if abs, err := filepath.Abs(path); err == nil {
				path = abs
			}
			if !seen[path] {
				seen[path] = true
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
	}

	sort.Strings(files)
	return files, nil
}

func isSourceFile(path string, excludeFiles []glob.Glob) bool {
	base := filepath.Base(path)
	if !strings.HasSuffix(base, ".swift") {
		return false
	}
	if strings.HasPrefix(base, "Loom.") {
		return false
	}
	for _, g := range excludeFiles {
		if g.Match(base) {
			return false
		}
	}
	return true
}
