// Package session holds the ephemeral per-user study state: which deck is
// active, the card position, the flip flag, the daily goal counters and the
// focus timer. Nothing here is persisted and nothing here does IO; callers
// pass the deck contents in and decide when to re-render from the returned
// Change.
package session

import (
	elyerr "github.com/amterp/elysian/internal/errors"
	"github.com/amterp/elysian/internal/model"
)

// Defaults for a fresh session.
const (
	DefaultDailyGoal    = model.DefaultDailyGoal
	DefaultTimerSeconds = model.DefaultTimerSeconds
)

// TimerPresets are the countdown lengths offered to users, in seconds.
var TimerPresets = []int{300, 600, 1500, 3000}

// Direction is a navigation direction.
type Direction int

const (
	Forward Direction = iota
	Backward
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// Change reports which parts of the session an operation touched.
type Change uint8

const (
	ChangeDeck Change = 1 << iota
	ChangeIndex
	ChangeRevealed
	ChangeProgress
	ChangeGoal
	ChangeTimer

	ChangeNone Change = 0
)

// Has returns true if any of the given bits are set.
func (c Change) Has(bits Change) bool {
	return c&bits != 0
}

var changeNames = []struct {
	bit  Change
	name string
}{
	{ChangeDeck, "deck"},
	{ChangeIndex, "index"},
	{ChangeRevealed, "revealed"},
	{ChangeProgress, "progress"},
	{ChangeGoal, "goal"},
	{ChangeTimer, "timer"},
}

// Names lists the set bits, in declaration order.
func (c Change) Names() []string {
	names := []string{}
	for _, cn := range changeNames {
		if c.Has(cn.bit) {
			names = append(names, cn.name)
		}
	}
	return names
}

// DeckLookup reports whether a deck exists.
type DeckLookup interface {
	Has(name string) bool
}

// Session is one user's study state.
type Session struct {
	ID               string `json:"id"`
	SelectedDeck     string `json:"selected_deck"`
	CardIndex        int    `json:"card_index"`
	Revealed         bool   `json:"revealed"`
	CardsViewedToday int    `json:"cards_viewed_today"`
	DailyGoal        int    `json:"daily_goal"`
	TimerRemaining   int    `json:"timer_remaining"`
	TimerRunning     bool   `json:"timer_running"`
}

// New creates a session positioned on the first card of deck.
// A goal below one falls back to DefaultDailyGoal.
func New(id, deck string, goal int) *Session {
	if goal < 1 {
		goal = DefaultDailyGoal
	}
	return &Session{
		ID:             id,
		SelectedDeck:   deck,
		DailyGoal:      goal,
		TimerRemaining: DefaultTimerSeconds,
	}
}

// SelectDeck makes name the active deck and rewinds to its first card.
func (s *Session) SelectDeck(decks DeckLookup, name string) (Change, error) {
	if !decks.Has(name) {
		return ChangeNone, elyerr.UnknownDeck(name)
	}

	s.SelectedDeck = name
	s.CardIndex = 0
	s.Revealed = false
	return ChangeDeck | ChangeIndex | ChangeRevealed, nil
}

// Navigate moves one card in dir with wraparound and hides the answer.
// Only forward moves count toward the daily goal. An empty deck is left
// untouched.
func (s *Session) Navigate(deck []model.Card, dir Direction) Change {
	n := len(deck)
	if n == 0 {
		return ChangeNone
	}

	delta := 1
	if dir == Backward {
		delta = -1
	}
	s.CardIndex = mod(s.CardIndex+delta, n)
	s.Revealed = false

	change := ChangeIndex | ChangeRevealed
	if dir == Forward {
		s.CardsViewedToday++
		change |= ChangeProgress
	}
	return change
}

// Flip toggles between question and answer.
func (s *Session) Flip() Change {
	s.Revealed = !s.Revealed
	return ChangeRevealed
}

// ClampIndex brings CardIndex back into range after the deck shrank or
// changed. An empty deck pins the index to zero.
func (s *Session) ClampIndex(deck []model.Card) Change {
	before := s.CardIndex

	switch n := len(deck); {
	case n == 0, s.CardIndex < 0:
		s.CardIndex = 0
	case s.CardIndex >= n:
		s.CardIndex = s.CardIndex % n
	}

	if s.CardIndex != before {
		return ChangeIndex
	}
	return ChangeNone
}

// SetDailyGoal sets the number of cards to view today.
func (s *Session) SetDailyGoal(n int) (Change, error) {
	if n < 1 {
		return ChangeNone, elyerr.InvalidGoal(n)
	}
	s.DailyGoal = n
	return ChangeGoal, nil
}

// Progress returns the share of the daily goal reached, capped at 1.
func (s *Session) Progress() float64 {
	if s.DailyGoal < 1 {
		return 0
	}
	p := float64(s.CardsViewedToday) / float64(s.DailyGoal)
	if p > 1 {
		return 1
	}
	return p
}

// GoalMet returns true once the daily goal has been reached.
func (s *Session) GoalMet() bool {
	return s.DailyGoal > 0 && s.CardsViewedToday >= s.DailyGoal
}

// ResetTimer stops the timer and sets it to seconds. Values below one are
// accepted but meaningless; callers should check ValidTimerSeconds first.
func (s *Session) ResetTimer(seconds int) Change {
	s.TimerRemaining = seconds
	s.TimerRunning = false
	return ChangeTimer
}

// StartTimer starts the countdown. Starting a finished timer is allowed.
func (s *Session) StartTimer() Change {
	s.TimerRunning = true
	return ChangeTimer
}

// StopTimer pauses the countdown.
func (s *Session) StopTimer() Change {
	s.TimerRunning = false
	return ChangeTimer
}

// Tick removes one second from the timer, flooring at zero. It is called
// by an external clock while the timer runs and never stops the timer
// itself; the caller decides what reaching zero means.
func (s *Session) Tick() Change {
	if s.TimerRemaining < 0 {
		s.TimerRemaining = 0
		return ChangeTimer
	}
	if s.TimerRemaining == 0 {
		return ChangeNone
	}
	s.TimerRemaining--
	return ChangeTimer
}

// TimerDone returns true when the countdown has reached zero.
func (s *Session) TimerDone() bool {
	return s.TimerRemaining <= 0
}

// ValidTimerSeconds reports whether seconds is a usable timer length.
func ValidTimerSeconds(seconds int) bool {
	return seconds > 0
}

// mod returns a non-negative remainder.
func mod(a, n int) int {
	return ((a % n) + n) % n
}
