package api

import (
	"log"

	"github.com/amterp/elysian/internal/service"
	"github.com/amterp/elysian/internal/session"
)

// Broadcaster pushes typed messages to connected clients, either to all of
// them or to the clients watching one session.
type Broadcaster interface {
	Broadcast(msgType string, data any)
	Publish(sessionID, msgType string, data any)
}

// DeckChangeMessage is the payload of a deck_change message.
type DeckChangeMessage struct {
	Change   DeckFileChange `json:"change"`
	Decks    []string       `json:"decks"`
	Sessions []session.View `json:"sessions,omitempty"` // Sessions whose view moved
}

// DeckSync reloads the shared collection when the deck file changes on
// disk, re-validates live sessions against it, and tells clients.
type DeckSync struct {
	decks    *service.DeckService
	sessions *SessionRegistry
	hub      Broadcaster
}

// NewDeckSync creates a watcher subscriber.
func NewDeckSync(decks *service.DeckService, sessions *SessionRegistry, hub Broadcaster) *DeckSync {
	return &DeckSync{decks: decks, sessions: sessions, hub: hub}
}

// OnDeckFileChange implements FileWatcherSubscriber. A change that leaves
// the file unreadable, such as a half-finished edit, is logged and
// otherwise ignored until the next change.
func (d *DeckSync) OnDeckFileChange(change DeckFileChange) {
	if err := d.decks.Reload(); err != nil {
		log.Printf("Deck file %s: keeping loaded decks: %v", change.Type, err)
		return
	}
	moved := d.sessions.RefreshAll()

	log.Printf("Deck file %s: %d decks, %d sessions adjusted", change.Type, len(d.decks.Decks()), len(moved))

	d.hub.Broadcast(MessageDeckChange, DeckChangeMessage{
		Change:   change,
		Decks:    d.decks.Decks(),
		Sessions: moved,
	})
}
