package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PathHandler validates the on-disk locations flix writes to: the database
// file, the library index directory, the log file and the config file.
type PathHandler struct {
	// AllowedBaseDirs restricts paths to these roots; empty allows any.
	AllowedBaseDirs []string
	MaxPathLength   int
}

func NewPathHandler(allowedBaseDirs ...string) *PathHandler {
	return &PathHandler{
		AllowedBaseDirs: allowedBaseDirs,
		MaxPathLength:   4096,
	}
}

// ExpandAndValidatePath expands "~/", makes the path absolute and rejects
// traversal or control characters.
func (ph *PathHandler) ExpandAndValidatePath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}
	if len(path) > ph.MaxPathLength {
		return "", fmt.Errorf("path too long (max %d characters)", ph.MaxPathLength)
	}
	for _, char := range path {
		if char < 32 && char != '\t' {
			return "", fmt.Errorf("path contains control characters")
		}
	}
	for _, component := range strings.Split(filepath.ToSlash(path), "/") {
		if component == ".." {
			return "", fmt.Errorf("directory traversal not allowed")
		}
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	} else if strings.HasPrefix(path, "~") {
		return "", fmt.Errorf("invalid tilde usage")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("cannot make path absolute: %w", err)
	}

	if err := ph.checkBaseDirs(abs); err != nil {
		return "", err
	}
	return abs, nil
}

func (ph *PathHandler) checkBaseDirs(path string) error {
	if len(ph.AllowedBaseDirs) == 0 {
		return nil
	}
	for _, base := range ph.AllowedBaseDirs {
		absBase, err := filepath.Abs(base)
		if err != nil {
			continue
		}
		rel, err := filepath.Rel(absBase, path)
		if err != nil {
			continue
		}
		if rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return nil
		}
	}
	return fmt.Errorf("path not within allowed directories: %v", ph.AllowedBaseDirs)
}

// FilePath validates a file location and creates its parent directory.
func (ph *PathHandler) FilePath(path string) (string, error) {
	validated, err := ph.ExpandAndValidatePath(path)
	if err != nil {
		return "", err
	}
	if info, statErr := os.Stat(validated); statErr == nil && info.IsDir() {
		return "", fmt.Errorf("path is a directory, not a file: %s", validated)
	}
	if err := os.MkdirAll(filepath.Dir(validated), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}
	return validated, nil
}

// DirectoryPath validates a directory location without creating it; bleve
// refuses to create an index in an existing empty directory.
func (ph *PathHandler) DirectoryPath(path string) (string, error) {
	validated, err := ph.ExpandAndValidatePath(path)
	if err != nil {
		return "", err
	}
	if info, statErr := os.Stat(validated); statErr == nil && !info.IsDir() {
		return "", fmt.Errorf("path exists but is not a directory: %s", validated)
	}
	if err := os.MkdirAll(filepath.Dir(validated), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}
	return validated, nil
}
