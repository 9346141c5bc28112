package storage

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/nikbrunner/wb/internal/model"
)

// JSONStorage implements Storage using a single JSON document.
type JSONStorage struct {
	path string
}

// NewJSONStorage creates a new JSONStorage with the given file path.
func NewJSONStorage(path string) *JSONStorage {
	return &JSONStorage{path: path}
}

// Path returns the storage file path.
func (s *JSONStorage) Path() string {
	return s.path
}

// Load reads the state from the JSON file.
// Returns a fresh default state if the file doesn't exist. A malformed
// document is an error; use LoadOrDefault where losing one corrupt
// file is preferable to an unusable application.
func (s *JSONStorage) Load() (*model.AppState, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.NewAppState(), nil
		}
		return nil, err
	}

	var state model.AppState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}

	// Older documents may lack pinnedLinks or workspaces entirely
	state.Normalize()

	return &state, nil
}

// LoadOrDefault loads the state, falling back to a fresh default state
// when the persisted document cannot be decoded.
func (s *JSONStorage) LoadOrDefault() *model.AppState {
	state, err := s.Load()
	if err != nil {
		return model.NewAppState()
	}
	return state
}

// Save writes the state to the JSON file.
// Creates the directory if it doesn't exist.
func (s *JSONStorage) Save(state *model.AppState) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.path, data, 0644)
}
