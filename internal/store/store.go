package store

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultDir is the artifact directory used when no cacheDir is configured.
const DefaultDir = ".conjure"

// Store is a directory of generated source artifacts, one file per
// (identifier, key hash) pair. Entries are bare source text with no metadata
// envelope, persist until removed externally, and carry no locking: two
// processes racing on the same path is an accepted risk.
type Store struct {
	dir string
}

// New creates a Store rooted at dir, creating the directory eagerly. An empty
// dir falls back to DefaultDir.
func New(dir string) (*Store, error) {
	if dir == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating artifact directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the artifact directory path.
func (s *Store) Dir() string {
	return s.dir
}

// Exists reports whether an artifact is present at path.
func (s *Store) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Read returns the source text of the artifact at path.
func (s *Store) Read(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading artifact: %w", err)
	}
	return string(data), nil
}

// Write persists source text at path. Partial writes are not guarded against.
func (s *Store) Write(path, source string) error {
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		return fmt.Errorf("writing artifact: %w", err)
	}
	return nil
}

// Clear removes all artifact files from the store directory.
func (s *Store) Clear() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading artifact directory: %w", err)
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".go" {
			if err := os.Remove(filepath.Join(s.dir, e.Name())); err != nil {
				return fmt.Errorf("removing artifact: %w", err)
			}
		}
	}
	return nil
}

// Stats describes the store contents.
type Stats struct {
	Dir        string `json:"dir"`
	Entries    int    `json:"entries"`
	TotalBytes int64  `json:"totalBytes"`
}

// GetStats returns information about the store.
func (s *Store) GetStats() (Stats, error) {
	stats := Stats{Dir: s.dir}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return stats, nil
		}
		return stats, fmt.Errorf("reading artifact directory: %w", err)
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) != ".go" {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		stats.Entries++
		stats.TotalBytes += info.Size()
	}
	return stats, nil
}
