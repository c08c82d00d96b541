package id

import (
	"time"

	fid "github.com/amterp/flexid"
)

// sessionPrefix marks IDs handed out for study sessions.
const sessionPrefix = "s_"

var generator *fid.Generator

func init() {
	epoch := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	config := fid.NewConfig().
		WithEpoch(epoch).
		WithTickSize(100 * time.Millisecond).
		WithNumRandomChars(4)

	generator = fid.MustNewGenerator(config)
}

// NewSessionID returns a new unique study session ID.
func NewSessionID() string {
	return sessionPrefix + generator.MustGenerate()
}

// IsSessionID reports whether s looks like an ID from NewSessionID.
func IsSessionID(s string) bool {
	return len(s) > len(sessionPrefix) && s[:len(sessionPrefix)] == sessionPrefix
}
