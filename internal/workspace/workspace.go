// Package workspace locates the project root for an open file. The
// root anchors the language server's rootUri, so relative-path
// features (diagnostics sources, workspace symbols) resolve sensibly.
package workspace

import (
	"os"
	"path/filepath"
)

// rootMarkers identify a project root, checked in order while walking
// toward the filesystem root.
var rootMarkers = []string{".git", "go.mod", "pyproject.toml", "package.json"}

// FindRoot walks up from the file's directory looking for a root
// marker. Without one, the file's own directory is the root.
func FindRoot(path string) string {
	dir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return filepath.Dir(path)
	}

	for probe := dir; ; {
		for _, marker := range rootMarkers {
			if _, err := os.Stat(filepath.Join(probe, marker)); err == nil {
				return probe
			}
		}
		parent := filepath.Dir(probe)
		if parent == probe {
			return dir
		}
		probe = parent
	}
}

// URI converts a path to the file:// form used on the wire.
func URI(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return "file://" + filepath.ToSlash(abs)
}
