package db

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Document keys of the three collections.
const (
	TrackDaysKey   = "track_sessions.json"
	VehiclesKey    = "vehicles.json"
	MaintenanceKey = "maintenance_entries.json"
)

// DefaultBaseDir returns the per-user storage directory.
func DefaultBaseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".local", "racing-companion", ".rcstorage"), nil
}

// FileStore reads and writes named JSON documents below BaseDir. Each Save
// rewrites the whole document; concurrent processes sharing BaseDir race
// and the last writer wins.
type FileStore struct {
	BaseDir string
}

// NewFileStore creates a store rooted at baseDir.
func NewFileStore(baseDir string) *FileStore {
	return &FileStore{BaseDir: baseDir}
}

// Path returns the file path backing key.
func (s *FileStore) Path(key string) string {
	return filepath.Join(s.BaseDir, key)
}

// Load decodes the document stored under key into out. A missing document
// leaves out untouched and reports found == false without an error.
func (s *FileStore) Load(key string, out interface{}) (bool, error) {
	data, err := os.ReadFile(s.Path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return true, nil
}

// Save writes v as an indented JSON document under key, creating the parent
// directory if needed.
func (s *FileStore) Save(key string, v interface{}) error {
	path := s.Path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create storage directory: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
