package store

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/amterp/elysian/internal/config"
	"github.com/amterp/elysian/internal/model"
	"github.com/amterp/elysian/internal/version"
)

// FileGlobalStore implements GlobalStore using the filesystem.
type FileGlobalStore struct {
	path string
}

// NewGlobalStore creates a global store at the default location.
func NewGlobalStore() *FileGlobalStore {
	return &FileGlobalStore{path: config.GlobalConfigPath()}
}

// NewGlobalStoreAt creates a global store backed by the given file.
func NewGlobalStoreAt(path string) *FileGlobalStore {
	return &FileGlobalStore{path: path}
}

// Load reads the global config from disk.
// Returns an empty config if the file doesn't exist.
func (s *FileGlobalStore) Load() (*model.GlobalConfig, error) {
	if s.path == "" {
		return &model.GlobalConfig{}, nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &model.GlobalConfig{}, nil
		}
		return nil, err
	}

	var cfg model.GlobalConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Strict version validation (only if file exists)
	if cfg.ElysianSchema == "" {
		return nil, version.MissingGlobalSchema(s.path)
	}
	if cfg.ElysianSchema != version.CurrentGlobalSchema() {
		return nil, version.InvalidGlobalSchema(s.path, cfg.ElysianSchema)
	}

	return &cfg, nil
}

// Save writes the global config to disk.
func (s *FileGlobalStore) Save(cfg *model.GlobalConfig) error {
	// Stamp current schema version
	cfg.ElysianSchema = version.CurrentGlobalSchema()

	if s.path == "" {
		return nil
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	f, err := os.Create(s.path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// EnsureExists creates the global config file if it doesn't exist.
func (s *FileGlobalStore) EnsureExists() error {
	if s.path == "" {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return s.Save(&model.GlobalConfig{})
	}
	return nil
}
