package config

import (
	"os"
	"path/filepath"
)

const (
	ConfigFileName  = "config.toml"
	GlobalConfigDir = ".config/elysian"
)

// Paths provides path resolution for Elysian data files.
type Paths struct {
	workDir  string
	deckFile string // From flag or config; relative paths resolve against workDir
}

// NewPaths creates a new Paths resolver.
// An empty deckFile leaves DeckFilePath to fall back on the caller's default.
func NewPaths(workDir string, deckFile string) *Paths {
	return &Paths{
		workDir:  workDir,
		deckFile: deckFile,
	}
}

// DeckFilePath returns the absolute path of the deck document.
func (p *Paths) DeckFilePath() string {
	if filepath.IsAbs(p.deckFile) {
		return p.deckFile
	}
	return filepath.Join(p.workDir, p.deckFile)
}

// DeckDir returns the directory holding the deck document.
func (p *Paths) DeckDir() string {
	return filepath.Dir(p.DeckFilePath())
}

// GlobalConfigPath returns the path to the global config file.
func GlobalConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, GlobalConfigDir, ConfigFileName)
}

// GlobalConfigDirPath returns the directory for global config.
func GlobalConfigDirPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, GlobalConfigDir)
}
