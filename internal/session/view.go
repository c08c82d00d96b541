package session

import (
	"github.com/amterp/elysian/internal/model"
	"github.com/amterp/elysian/internal/util"
)

// Face labels shown above the card text.
const (
	LabelQuestion = "THE QUESTION"
	LabelAnswer   = "THE ANSWER"
)

// View is a render-ready snapshot of a session and its active deck.
type View struct {
	SessionID    string  `json:"session_id"`
	Deck         string  `json:"deck"`
	Empty        bool    `json:"empty"`
	Position     int     `json:"position"` // 1-based; 0 when the deck is empty
	Total        int     `json:"total"`
	Revealed     bool    `json:"revealed"`
	Label        string  `json:"label,omitempty"`
	Text         string  `json:"text,omitempty"`
	Viewed       int     `json:"viewed"`
	Goal         int     `json:"goal"`
	Progress     float64 `json:"progress"`
	GoalMet      bool    `json:"goal_met"`
	TimerSeconds int     `json:"timer_seconds"`
	TimerText    string  `json:"timer_text"`
	TimerRunning bool    `json:"timer_running"`
}

// Snapshot builds a View against the given deck contents. The index is
// clamped on a copy so a stale index never panics.
func (s *Session) Snapshot(deck []model.Card) View {
	v := View{
		SessionID:    s.ID,
		Deck:         s.SelectedDeck,
		Total:        len(deck),
		Revealed:     s.Revealed,
		Viewed:       s.CardsViewedToday,
		Goal:         s.DailyGoal,
		Progress:     s.Progress(),
		GoalMet:      s.GoalMet(),
		TimerSeconds: s.TimerRemaining,
		TimerText:    util.FormatCountdown(s.TimerRemaining),
		TimerRunning: s.TimerRunning,
	}

	if len(deck) == 0 {
		v.Empty = true
		return v
	}

	clamped := *s
	clamped.ClampIndex(deck)
	card := deck[clamped.CardIndex]

	v.Position = clamped.CardIndex + 1
	if s.Revealed {
		v.Label, v.Text = LabelAnswer, card.A
	} else {
		v.Label, v.Text = LabelQuestion, card.Q
	}
	return v
}
