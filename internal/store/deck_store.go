package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/amterp/elysian/internal/config"
	"github.com/amterp/elysian/internal/model"
)

// ErrNoDecks marks a document that parsed but holds no decks.
var ErrNoDecks = errors.New("document contains no decks")

// FileDeckStore implements DeckStore as a single JSON document.
type FileDeckStore struct {
	path     string
	warnings io.Writer

	mu sync.Mutex
	// rejected is set when Load fell back on a document that exists but
	// could not be used. The next Save moves that document aside first.
	rejected bool
}

// NewDeckStore creates a deck store for the resolved deck file.
func NewDeckStore(paths *config.Paths) *FileDeckStore {
	return &FileDeckStore{path: paths.DeckFilePath(), warnings: os.Stderr}
}

// Path returns the deck document path.
func (s *FileDeckStore) Path() string {
	return s.path
}

// Load reads the collection. Missing, unreadable, malformed and empty
// documents all fall back to the starter collection; only the missing
// case goes unreported.
func (s *FileDeckStore) Load() *model.Collection {
	c, err := s.Read()
	if err == nil {
		return c
	}

	if !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(s.warnings, "Warning: using starter deck, could not load %s: %v\n", s.path, err)
	}
	if !errors.Is(err, os.ErrNotExist) && !errors.Is(err, ErrNoDecks) {
		s.mu.Lock()
		s.rejected = true
		s.mu.Unlock()
	}
	return model.StarterCollection()
}

// BackupPath is where a rejected document is kept before it is replaced.
func (s *FileDeckStore) BackupPath() string {
	return s.path + ".bak"
}

// Read parses the document without any fallback.
func (s *FileDeckStore) Read() (*model.Collection, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}

	c := model.NewCollection()
	if err := json.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if c.Len() == 0 {
		return nil, ErrNoDecks
	}

	s.mu.Lock()
	s.rejected = false
	s.mu.Unlock()
	return c, nil
}

// Save writes the whole collection. The document is written to a temp file
// in the same directory and renamed into place, so readers never observe a
// partial write.
func (s *FileDeckStore) Save(c *model.Collection) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal decks: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create deck directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to write deck file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write deck file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write deck file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("failed to write deck file: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rejected {
		err := os.Rename(s.path, s.BackupPath())
		switch {
		case err == nil:
			fmt.Fprintf(s.warnings, "Warning: kept the unreadable deck file as %s\n", s.BackupPath())
		case !errors.Is(err, os.ErrNotExist):
			return fmt.Errorf("failed to back up unreadable deck file: %w", err)
		}
		s.rejected = false
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("failed to replace deck file: %w", err)
	}
	return nil
}
