package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// SelectionFile persists the last selected workspace id as a bare
// string, independent of the main document. It is a fast-path restore
// hint only; the main document carries the selection too.
type SelectionFile struct {
	path string
}

// NewSelectionFile creates a SelectionFile at the given path.
func NewSelectionFile(path string) *SelectionFile {
	return &SelectionFile{path: path}
}

// Load returns the stored workspace id, or "" if none is stored.
func (f *SelectionFile) Load() (string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// Save stores the workspace id, creating the directory if needed.
func (f *SelectionFile) Save(id string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return err
	}
	return os.WriteFile(f.path, []byte(id+"\n"), 0644)
}

// DefaultSelectionPath returns the default path: ~/.config/wb/selected
func DefaultSelectionPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "wb", "selected"), nil
}
