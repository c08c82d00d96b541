package store

import "github.com/amterp/elysian/internal/model"

// DeckStore handles deck collection persistence.
type DeckStore interface {
	// Load never fails: a missing or unreadable document yields the
	// starter collection.
	Load() *model.Collection
	// Read parses the document without any fallback.
	Read() (*model.Collection, error)
	// Save overwrites the document with the entire collection.
	Save(c *model.Collection) error
	Path() string
}

// GlobalStore handles global config persistence.
type GlobalStore interface {
	Load() (*model.GlobalConfig, error)
	Save(config *model.GlobalConfig) error
	EnsureExists() error
}
