package api

import (
	"os"
	"testing"

	"github.com/amterp/elysian/internal/model"
)

func TestDeckSync_ReloadsAndRefreshesSessions(t *testing.T) {
	api := setupTestAPI(t)
	hub := &recordingHub{}
	deckSync := NewDeckSync(api.decks, api.sessions, hub)

	onEmpty, _ := api.sessions.Create("Empty", 0)
	onBio, _ := api.sessions.Create("Bio", 0)

	// Another process rewrites the file without "Empty"
	c := model.NewCollection()
	c.Set("Bio", []model.Card{{Q: "Only card", A: "Yes"}})
	if err := api.deckStore.Save(c); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	deckSync.OnDeckFileChange(DeckFileChange{Type: FileChangeModified, Path: api.deckStore.Path()})

	if api.decks.Has("Empty") {
		t.Error("collection should have been reloaded")
	}
	if got := onEmpty.View().Deck; got != "Bio" {
		t.Errorf("session on a removed deck should fall back to Bio, got %q", got)
	}
	if got := onBio.View().Total; got != 1 {
		t.Errorf("Total = %d, want 1", got)
	}

	msgs := hub.snapshot()
	if len(msgs) != 1 || msgs[0].Type != MessageDeckChange {
		t.Fatalf("messages = %+v", msgs)
	}
	payload := msgs[0].Data.(DeckChangeMessage)
	if len(payload.Decks) != 1 || len(payload.Sessions) != 1 || payload.Sessions[0].SessionID != onEmpty.ID() {
		t.Errorf("payload = %+v", payload)
	}
}

func TestDeckSync_IgnoresUnreadableFile(t *testing.T) {
	api := setupTestAPI(t)
	hub := &recordingHub{}
	deckSync := NewDeckSync(api.decks, api.sessions, hub)

	onEmpty, _ := api.sessions.Create("Empty", 0)

	// A half-written save from another editor
	if err := os.WriteFile(api.deckStore.Path(), []byte(`{"Bio": [`), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	deckSync.OnDeckFileChange(DeckFileChange{Type: FileChangeModified, Path: api.deckStore.Path()})

	if !api.decks.Has("Bio") || !api.decks.Has("Empty") {
		t.Errorf("Decks() = %v, loaded decks should be kept", api.decks.Decks())
	}
	if got := onEmpty.View().Deck; got != "Empty" {
		t.Errorf("session moved to %q", got)
	}
	if msgs := hub.snapshot(); len(msgs) != 0 {
		t.Errorf("expected no broadcast, got %+v", msgs)
	}
}

func TestSessionRegistry(t *testing.T) {
	api := setupTestAPI(t)
	registry := NewSessionRegistry(api.decks, 7, 600)

	first, err := registry.Create("", 0)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	view := first.View()
	if view.Deck != "Bio" || view.Goal != 7 || view.TimerSeconds != 600 {
		t.Errorf("view = %+v", view)
	}

	second, _ := registry.Create("Empty", 3)
	if first.ID() == second.ID() {
		t.Error("session IDs should be unique")
	}

	all := registry.All()
	if len(all) != 2 || all[0] != first || all[1] != second {
		t.Errorf("All() out of creation order")
	}

	if err := registry.Remove(first.ID()); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, err := registry.Get(first.ID()); err == nil {
		t.Error("removed session should not be found")
	}
	if err := registry.Remove(first.ID()); err == nil {
		t.Error("second Remove should fail")
	}
	if registry.Len() != 1 {
		t.Errorf("Len = %d", registry.Len())
	}
}
