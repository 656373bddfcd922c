package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ValidateFilePath expands ~, rejects control characters and traversal
// segments, and returns an absolute clean path. Used for the cache database
// and log file locations, which both come from user config.
func ValidateFilePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}
	if strings.ContainsAny(path, "\x00\n\r") {
		return "", fmt.Errorf("path contains invalid characters")
	}

	for _, segment := range strings.FieldsFunc(path, isSeparator) {
		if segment == ".." {
			return "", fmt.Errorf("path traversal not allowed: %s", path)
		}
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}
	return filepath.Clean(abs), nil
}

// EnsureParentDir validates path and creates its parent directory.
func EnsureParentDir(path string) (string, error) {
	clean, err := ValidateFilePath(path)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(clean), 0o755); err != nil {
		return "", fmt.Errorf("creating directory for %s: %w", clean, err)
	}
	return clean, nil
}

func isSeparator(r rune) bool {
	return r == '/' || r == filepath.Separator
}
