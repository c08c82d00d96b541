package service

import (
	"sync"

	elyerr "github.com/amterp/elysian/internal/errors"
	"github.com/amterp/elysian/internal/session"
)

// StudyService drives one study session against the shared deck service.
// Operations return the view to render next and what changed.
type StudyService struct {
	decks *DeckService
	mu    sync.Mutex
	sess  *session.Session
}

// NewStudyService starts a session. An empty or unknown deck falls back
// to the first deck in the collection.
func NewStudyService(decks *DeckService, id, deck string, goal int) *StudyService {
	if deck == "" || !decks.Has(deck) {
		deck = firstDeck(decks)
	}
	return &StudyService{
		decks: decks,
		sess:  session.New(id, deck, goal),
	}
}

// ID returns the session ID.
func (s *StudyService) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sess.ID
}

// View renders the current state.
func (s *StudyService) View() session.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view()
}

// Select switches to another deck.
func (s *StudyService) Select(deck string) (session.View, session.Change, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	change, err := s.sess.SelectDeck(s.decks, deck)
	if err != nil {
		return s.view(), session.ChangeNone, err
	}
	return s.view(), change, nil
}

// Next moves to the following card.
func (s *StudyService) Next() (session.View, session.Change) {
	return s.navigate(session.Forward)
}

// Prev moves to the preceding card.
func (s *StudyService) Prev() (session.View, session.Change) {
	return s.navigate(session.Backward)
}

// Flip shows the other side of the current card.
func (s *StudyService) Flip() (session.View, session.Change) {
	s.mu.Lock()
	defer s.mu.Unlock()

	change := s.sess.Flip()
	return s.view(), change
}

// AddCard appends a card to the active deck. The position is unchanged.
func (s *StudyService) AddCard(question, answer string) (session.View, session.Change, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.decks.AddCard(s.sess.SelectedDeck, question, answer); err != nil {
		return s.view(), session.ChangeNone, err
	}
	return s.view(), session.ChangeDeck, nil
}

// EditCurrent replaces the text of the card being shown.
func (s *StudyService) EditCurrent(question, answer string) (session.View, session.Change, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed, err := s.decks.UpdateCard(s.sess.SelectedDeck, s.sess.CardIndex, question, answer)
	if err != nil || !changed {
		return s.view(), session.ChangeNone, err
	}
	return s.view(), session.ChangeDeck, nil
}

// DeleteCurrent removes the card being shown and re-clamps the position.
func (s *StudyService) DeleteCurrent() (session.View, session.Change, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.decks.DeleteCard(s.sess.SelectedDeck, s.sess.CardIndex); err != nil {
		return s.view(), session.ChangeNone, err
	}

	cards, err := s.decks.Cards(s.sess.SelectedDeck)
	if err != nil {
		return s.view(), session.ChangeDeck, err
	}
	change := session.ChangeDeck | s.sess.ClampIndex(cards)
	s.sess.Revealed = false
	return s.view(), change | session.ChangeRevealed, nil
}

// Import bulk-adds cards to the active deck.
func (s *StudyService) Import(raw string) (session.View, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.decks.BulkImport(s.sess.SelectedDeck, raw)
	return s.view(), n, err
}

// SetGoal sets the daily goal.
func (s *StudyService) SetGoal(n int) (session.View, session.Change, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	change, err := s.sess.SetDailyGoal(n)
	return s.view(), change, err
}

// ResetTimer stops the timer and sets its length. Non-positive lengths are
// rejected here, at the edge, rather than in the session.
func (s *StudyService) ResetTimer(seconds int) (session.View, session.Change, error) {
	if !session.ValidTimerSeconds(seconds) {
		return s.View(), session.ChangeNone, elyerr.InvalidField("timer", "length must be a positive number of seconds")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	change := s.sess.ResetTimer(seconds)
	return s.view(), change, nil
}

// StartTimer starts the countdown.
func (s *StudyService) StartTimer() (session.View, session.Change) {
	s.mu.Lock()
	defer s.mu.Unlock()

	change := s.sess.StartTimer()
	return s.view(), change
}

// StopTimer pauses the countdown.
func (s *StudyService) StopTimer() (session.View, session.Change) {
	s.mu.Lock()
	defer s.mu.Unlock()

	change := s.sess.StopTimer()
	return s.view(), change
}

// Tick advances a running timer by one second. Stopped timers are left
// alone, so a scheduler can call this unconditionally.
func (s *StudyService) Tick() (session.View, session.Change) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.sess.TimerRunning {
		return s.view(), session.ChangeNone
	}
	change := s.sess.Tick()
	return s.view(), change
}

// Refresh re-validates the session after the collection was reloaded.
// A vanished deck falls back to the first deck.
func (s *StudyService) Refresh() (session.View, session.Change) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var change session.Change
	if !s.decks.Has(s.sess.SelectedDeck) {
		c, err := s.sess.SelectDeck(s.decks, firstDeck(s.decks))
		if err == nil {
			change |= c
		}
	}

	cards, _ := s.decks.Cards(s.sess.SelectedDeck)
	change |= s.sess.ClampIndex(cards)
	return s.view(), change
}

func (s *StudyService) navigate(dir session.Direction) (session.View, session.Change) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cards, _ := s.decks.Cards(s.sess.SelectedDeck)
	s.sess.ClampIndex(cards)
	change := s.sess.Navigate(cards, dir)
	return s.sess.Snapshot(cards), change
}

// view renders against the current deck. Caller must hold the lock.
func (s *StudyService) view() session.View {
	cards, _ := s.decks.Cards(s.sess.SelectedDeck)
	return s.sess.Snapshot(cards)
}

func firstDeck(decks *DeckService) string {
	names := decks.Decks()
	if len(names) == 0 {
		return ""
	}
	return names[0]
}
