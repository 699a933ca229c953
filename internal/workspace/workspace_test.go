package workspace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFindRootByMarker(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "go.mod"), []byte("module x\n"), 0o644); err != nil {
		t.Fatalf("seed go.mod: %v", err)
	}
	nested := filepath.Join(root, "internal", "deep")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	got := FindRoot(filepath.Join(nested, "file.go"))
	if got != root {
		t.Errorf("root = %q, want %q", got, root)
	}
}

func TestFindRootFallsBackToFileDir(t *testing.T) {
	dir := t.TempDir()
	got := FindRoot(filepath.Join(dir, "lonely.txt"))
	// Without markers the walk may still hit one above the temp dir;
	// either the file dir or an ancestor is acceptable, never empty.
	if got == "" {
		t.Error("root must not be empty")
	}
	if !strings.HasPrefix(dir, got) && got != dir {
		t.Errorf("root %q unrelated to %q", got, dir)
	}
}

func TestURI(t *testing.T) {
	got := URI("/tmp/x/file.go")
	if got != "file:///tmp/x/file.go" {
		t.Errorf("uri = %q", got)
	}
}
