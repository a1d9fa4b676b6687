package validation

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExpandAndValidatePath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	ph := NewPathHandler()

	got, err := ph.ExpandAndValidatePath("~/.flix/flix.log")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != filepath.Join(home, ".flix", "flix.log") {
		t.Errorf("expected tilde expansion, got %s", got)
	}

	rejected := []struct {
		input string
		want  string
	}{
		{input: "", want: "empty"},
		{input: "/tmp/../etc/passwd", want: "traversal"},
		{input: "~other/file", want: "tilde"},
		{input: "/tmp/bad\x00name", want: "control"},
		{input: "/tmp/" + strings.Repeat("a", 5000), want: "too long"},
	}
	for _, tt := range rejected {
		_, err := ph.ExpandAndValidatePath(tt.input)
		if err == nil {
			t.Errorf("expected %q to be rejected", tt.input)
			continue
		}
		if !strings.Contains(err.Error(), tt.want) {
			t.Errorf("error for %q = %v, want mention of %q", tt.input, err, tt.want)
		}
	}
}

func TestPathHandler_BaseDirs(t *testing.T) {
	base := t.TempDir()
	ph := NewPathHandler(base)

	if _, err := ph.ExpandAndValidatePath(filepath.Join(base, "flix.db")); err != nil {
		t.Errorf("expected path inside base dir to pass: %v", err)
	}
	if _, err := ph.ExpandAndValidatePath(filepath.Join(filepath.Dir(base), "elsewhere.db")); err == nil {
		t.Error("expected path outside base dir to be rejected")
	}
}

func TestPathHandler_FilePath(t *testing.T) {
	base := t.TempDir()
	ph := NewPathHandler()

	target := filepath.Join(base, "nested", "flix.db")
	got, err := ph.FilePath(target)
	if err != nil {
		t.Fatalf("FilePath() error = %v", err)
	}
	if got != target {
		t.Errorf("FilePath() = %s, want %s", got, target)
	}
	if info, err := os.Stat(filepath.Join(base, "nested")); err != nil || !info.IsDir() {
		t.Error("expected parent directory to be created")
	}

	if _, err := ph.FilePath(base); err == nil {
		t.Error("expected a directory to be rejected as a file path")
	}
}

func TestPathHandler_DirectoryPath(t *testing.T) {
	base := t.TempDir()
	ph := NewPathHandler()

	indexPath := filepath.Join(base, "index", "library.bleve")
	got, err := ph.DirectoryPath(indexPath)
	if err != nil {
		t.Fatalf("DirectoryPath() error = %v", err)
	}
	if got != indexPath {
		t.Errorf("DirectoryPath() = %s, want %s", got, indexPath)
	}
	if _, err := os.Stat(indexPath); !os.IsNotExist(err) {
		t.Error("index directory itself must not be created")
	}

	file := filepath.Join(base, "plain.txt")
	if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := ph.DirectoryPath(file); err == nil {
		t.Error("expected a regular file to be rejected as a directory")
	}
}
