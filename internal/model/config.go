package model

// Defaults applied when the global config leaves a setting unset.
const (
	DefaultDeckFile     = "decks.json"
	DefaultDailyGoal    = 20
	DefaultTimerSeconds = 1500
	DefaultPort         = 8501
)

// GlobalConfig represents the user's global Elysian configuration.
// Stored at ~/.config/elysian/config.toml
// Schema changes require a version bump; see internal/version/version.go.
type GlobalConfig struct {
	ElysianSchema string `toml:"elysian_schema"`
	DeckFile      string `toml:"deck_file,omitempty"`
	DefaultDeck   string `toml:"default_deck,omitempty"`
	DailyGoal     int    `toml:"daily_goal,omitempty"`
	TimerSeconds  int    `toml:"timer_seconds,omitempty"`
	Editor        string `toml:"editor,omitempty"`
	Port          int    `toml:"port,omitempty"`
}

// GetDeckFile returns the configured deck file, or the default.
func (g *GlobalConfig) GetDeckFile() string {
	if g == nil || g.DeckFile == "" {
		return DefaultDeckFile
	}
	return g.DeckFile
}

// GetDailyGoal returns the configured daily goal, or the default.
// Values below one are ignored.
func (g *GlobalConfig) GetDailyGoal() int {
	if g == nil || g.DailyGoal < 1 {
		return DefaultDailyGoal
	}
	return g.DailyGoal
}

// GetTimerSeconds returns the configured timer length, or the default.
func (g *GlobalConfig) GetTimerSeconds() int {
	if g == nil || g.TimerSeconds < 1 {
		return DefaultTimerSeconds
	}
	return g.TimerSeconds
}

// GetPort returns the configured server port, or the default.
func (g *GlobalConfig) GetPort() int {
	if g == nil || g.Port < 1 {
		return DefaultPort
	}
	return g.Port
}
