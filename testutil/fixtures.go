package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/amterp/elysian/internal/config"
	"github.com/amterp/elysian/internal/model"
)

// TestCollection returns a collection with two decks:
// "Bio" with two cards and "Empty" with none.
func TestCollection() *model.Collection {
	c := model.NewCollection()
	c.Set("Bio", []model.Card{
		{Q: "Powerhouse of the cell?", A: "Mitochondria"},
		{Q: "Basic unit of life?", A: "Cell"},
	})
	c.Set("Empty", nil)
	return c
}

// TempDeckDir creates a temporary directory for deck files.
// Returns the temp dir path and a cleanup function.
func TempDeckDir(t *testing.T) (string, func()) {
	t.Helper()

	dir, err := os.MkdirTemp("", "elysian-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}

	cleanup := func() {
		os.RemoveAll(dir)
	}

	return dir, cleanup
}

// WriteDeckFile writes raw content to the deck file under dir.
// Returns the Paths pointing at it.
func WriteDeckFile(t *testing.T, dir, content string) *config.Paths {
	t.Helper()

	paths := NewTestPaths(dir)
	if err := os.WriteFile(paths.DeckFilePath(), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write deck file: %v", err)
	}
	return paths
}

// NewTestPaths creates a Paths for testing with the given temp directory.
func NewTestPaths(baseDir string) *config.Paths {
	return config.NewPaths(baseDir, model.DefaultDeckFile)
}

// UnwritablePaths returns Paths whose deck file sits below a regular file,
// so every save fails.
func UnwritablePaths(t *testing.T, dir string) *config.Paths {
	t.Helper()

	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatalf("failed to create blocker file: %v", err)
	}
	return config.NewPaths(dir, filepath.Join("blocker", model.DefaultDeckFile))
}
