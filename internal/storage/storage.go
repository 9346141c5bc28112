package storage

import (
	"os"
	"path/filepath"

	"github.com/nikbrunner/wb/internal/model"
)

// Storage defines the interface for persisting the full app state.
type Storage interface {
	Load() (*model.AppState, error)
	Save(state *model.AppState) error
}

// DefaultStatePath returns the default state path: ~/.config/wb/workspaces.json
func DefaultStatePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "wb", "workspaces.json"), nil
}

// OpenStorage opens the appropriate storage backend.
// Prefers SQLite if the database file exists, otherwise falls back to JSON.
func OpenStorage() (Storage, error) {
	sqlitePath, err := DefaultSQLitePath()
	if err != nil {
		return nil, err
	}

	// If SQLite database exists, use it
	if _, err := os.Stat(sqlitePath); err == nil {
		return NewSQLiteStorage(sqlitePath)
	}

	// Fall back to JSON
	jsonPath, err := DefaultStatePath()
	if err != nil {
		return nil, err
	}
	return NewJSONStorage(jsonPath), nil
}
