package service

import (
	"fmt"
	"strings"
	"sync"

	elyerr "github.com/amterp/elysian/internal/errors"
	"github.com/amterp/elysian/internal/model"
	"github.com/amterp/elysian/internal/store"
	"github.com/amterp/elysian/internal/util"
)

// importSeparator splits a bulk import line into question and answer.
const importSeparator = ":"

// DeckService handles deck and card operations.
//
// The collection is loaded once and held in memory. Every mutation writes
// the whole collection back through the store before returning. If the
// write fails the in-memory change is rolled back, so memory and disk never
// disagree about what was saved.
type DeckService struct {
	deckStore  store.DeckStore
	mu         sync.RWMutex
	collection *model.Collection
}

// NewDeckService creates a deck service and loads the collection.
func NewDeckService(deckStore store.DeckStore) *DeckService {
	return &DeckService{
		deckStore:  deckStore,
		collection: deckStore.Load(),
	}
}

// Reload replaces the in-memory collection with what's on disk.
// Used when another process has written the deck file. The read happens
// under the write lock so a concurrent save can't be overwritten by an
// older copy. A document that can't be read leaves the loaded collection
// in place.
func (s *DeckService) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.deckStore.Read()
	if err != nil {
		return fmt.Errorf("failed to reload decks: %w", err)
	}
	s.collection = c
	return nil
}

// Decks returns deck names in collection order.
func (s *DeckService) Decks() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collection.Names()
}

// Has returns true if the deck exists.
func (s *DeckService) Has(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collection.Has(name)
}

// Cards returns a copy of a deck's cards.
func (s *DeckService) Cards(deck string) ([]model.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cards, ok := s.collection.Cards(deck)
	if !ok {
		return nil, elyerr.UnknownDeck(deck)
	}
	return cards, nil
}

// AddDeck creates an empty deck. Blank and taken names are rejected.
func (s *DeckService) AddDeck(name string) (string, error) {
	name = util.Normalize(name)

	s.mu.Lock()
	defer s.mu.Unlock()

	if name == "" || s.collection.Has(name) {
		return "", elyerr.DuplicateName(name)
	}

	s.collection.Set(name, nil)
	if err := s.save(); err != nil {
		s.collection.Remove(name)
		return "", err
	}
	return name, nil
}

// AddNextDeck creates an empty deck named "Deck N", where N starts at the
// deck count plus one and climbs until the name is free.
func (s *DeckService) AddNextDeck() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := nextDeckName(s.collection)
	s.collection.Set(name, nil)
	if err := s.save(); err != nil {
		s.collection.Remove(name)
		return "", err
	}
	return name, nil
}

// AddCard appends a card to a deck.
func (s *DeckService) AddCard(deck, question, answer string) (model.Card, error) {
	card, err := newCard(question, answer)
	if err != nil {
		return model.Card{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cards, ok := s.collection.Cards(deck)
	if !ok {
		return model.Card{}, elyerr.UnknownDeck(deck)
	}

	if err := s.replace(deck, cards, append(cards, card)); err != nil {
		return model.Card{}, err
	}
	return card, nil
}

// UpdateCard replaces the card at index. Returns false, without writing,
// when the new text matches the old.
func (s *DeckService) UpdateCard(deck string, index int, question, answer string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cards, err := s.cardsAt(deck, index)
	if err != nil {
		return false, err
	}

	text, err := newCard(question, answer)
	if err != nil {
		return false, err
	}
	card := cards[index].WithText(text.Q, text.A)
	if cards[index] == card {
		return false, nil
	}

	updated := append([]model.Card(nil), cards...)
	updated[index] = card
	if err := s.replace(deck, cards, updated); err != nil {
		return false, err
	}
	return true, nil
}

// DeleteCard removes the card at index; later cards shift down by one.
// Callers holding a card position for this deck must re-clamp it.
func (s *DeckService) DeleteCard(deck string, index int) (model.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cards, err := s.cardsAt(deck, index)
	if err != nil {
		return model.Card{}, err
	}

	removed := cards[index]
	updated := make([]model.Card, 0, len(cards)-1)
	updated = append(updated, cards[:index]...)
	updated = append(updated, cards[index+1:]...)

	if err := s.replace(deck, cards, updated); err != nil {
		return model.Card{}, err
	}
	return removed, nil
}

// BulkImport appends one card per "question: answer" line of raw, split on
// the first separator. Lines without a separator, or with a blank side, are
// skipped. The deck is saved once at the end; nothing is saved when no line
// qualified. Returns the number of cards added.
func (s *DeckService) BulkImport(deck, raw string) (int, error) {
	parsed := ParseImport(raw)

	s.mu.Lock()
	defer s.mu.Unlock()

	cards, ok := s.collection.Cards(deck)
	if !ok {
		return 0, elyerr.UnknownDeck(deck)
	}
	if len(parsed) == 0 {
		return 0, nil
	}

	if err := s.replace(deck, cards, append(cards, parsed...)); err != nil {
		return 0, err
	}
	return len(parsed), nil
}

// ParseImport turns "question: answer" lines into cards.
func ParseImport(raw string) []model.Card {
	var cards []model.Card
	for _, line := range strings.Split(raw, "\n") {
		q, a, found := strings.Cut(line, importSeparator)
		if !found {
			continue
		}
		card, err := newCard(q, a)
		if err != nil {
			continue
		}
		cards = append(cards, card)
	}
	return cards
}

// cardsAt returns the deck's cards after checking index is in range.
// Caller must hold the lock.
func (s *DeckService) cardsAt(deck string, index int) ([]model.Card, error) {
	cards, ok := s.collection.Cards(deck)
	if !ok {
		return nil, elyerr.UnknownDeck(deck)
	}
	if index < 0 || index >= len(cards) {
		return nil, elyerr.IndexOutOfRange(deck, index, len(cards))
	}
	return cards, nil
}

// replace swaps a deck's cards and persists, restoring previous on failure.
// Caller must hold the lock.
func (s *DeckService) replace(deck string, previous, next []model.Card) error {
	s.collection.Set(deck, next)
	if err := s.save(); err != nil {
		s.collection.Set(deck, previous)
		return err
	}
	return nil
}

func (s *DeckService) save() error {
	if err := s.deckStore.Save(s.collection); err != nil {
		return fmt.Errorf("failed to save decks: %w", err)
	}
	return nil
}

// newCard trims both sides and rejects blanks. The text is otherwise
// stored as typed.
func newCard(question, answer string) (model.Card, error) {
	q := strings.TrimSpace(question)
	a := strings.TrimSpace(answer)
	if q == "" {
		return model.Card{}, elyerr.EmptyField("question")
	}
	if a == "" {
		return model.Card{}, elyerr.EmptyField("answer")
	}
	return model.Card{Q: q, A: a}, nil
}

func nextDeckName(c *model.Collection) string {
	for n := c.Len() + 1; ; n++ {
		name := fmt.Sprintf("Deck %d", n)
		if !c.Has(name) {
			return name
		}
	}
}
