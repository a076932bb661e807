package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/wolfeidau/adminconsole/internal/storage"
)

const (
	fileName      = "session.json"
	formatVersion = 1
)

// ErrCorrupt is returned by Get when the document cannot be parsed. Set and
// Delete replace a corrupt document instead of failing.
var ErrCorrupt = errors.New("storage file is corrupt")

// document is the on-disk layout.
type document struct {
	Version int               `json:"version"`
	Values  map[string]string `json:"values"`
}

// Storage implements storage.Storage as a single JSON document in a
// directory readable only by the current user. Every write replaces the
// document atomically.
type Storage struct {
	mu      sync.Mutex
	baseDir string
}

var _ storage.Storage = (*Storage)(nil)

// DefaultDir returns ~/.adminconsole/session.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".adminconsole", "session"), nil
}

// New creates a file storage rooted at baseDir.
// If baseDir is empty, uses ~/.adminconsole/session/
func New(baseDir string) (*Storage, error) {
	if baseDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		baseDir = dir
	}

	// Create directory with 0700 permissions
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	log.Debug().Str("baseDir", baseDir).Msg("session storage initialized")

	return &Storage{baseDir: baseDir}, nil
}

// Path returns the document path.
func (s *Storage) Path() string {
	return filepath.Join(s.baseDir, fileName)
}

// Get returns the value for key.
func (s *Storage) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return "", false, err
	}

	v, ok := doc.Values[key]
	return v, ok, nil
}

// Set writes all entries in one atomic replacement.
func (s *Storage) Set(ctx context.Context, entries map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.loadForWrite()
	if err != nil {
		return err
	}

	maps.Copy(doc.Values, entries)

	return s.save(doc)
}

// Delete removes keys. The document is removed once empty.
func (s *Storage) Delete(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.loadForWrite()
	if err != nil {
		return err
	}

	for _, k := range keys {
		delete(doc.Values, k)
	}

	if len(doc.Values) == 0 {
		if err := os.Remove(s.Path()); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove storage file: %w", err)
		}
		return nil
	}

	return s.save(doc)
}

// load reads the document. A missing file is an empty document.
func (s *Storage) load() (*document, error) {
	data, err := os.ReadFile(s.Path())
	if errors.Is(err, os.ErrNotExist) {
		return &document{Version: formatVersion, Values: make(map[string]string)}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read storage file: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: failed to parse storage file: %w", ErrCorrupt, err)
	}

	// Ensure values map is initialized
	if doc.Values == nil {
		doc.Values = make(map[string]string)
	}

	return &doc, nil
}

// loadForWrite reads the document, starting over from an empty one when the
// file on disk is corrupt.
func (s *Storage) loadForWrite() (*document, error) {
	doc, err := s.load()
	if errors.Is(err, ErrCorrupt) {
		log.Warn().Err(err).Str("path", s.Path()).Msg("discarding corrupt session storage")
		return &document{Version: formatVersion, Values: make(map[string]string)}, nil
	}
	return doc, err
}

// save writes the document atomically.
func (s *Storage) save(doc *document) error {
	doc.Version = formatVersion

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal storage file: %w", err)
	}

	// Write to temp file first
	path := s.Path()
	tempPath := path + ".tmp"

	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage file: %w", err)
	}

	// Atomic rename
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to save storage file: %w", err)
	}

	return nil
}
