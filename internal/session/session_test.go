package session

import (
	"errors"
	"testing"

	elyerr "github.com/amterp/elysian/internal/errors"
	"github.com/amterp/elysian/internal/model"
)

type deckSet map[string]bool

func (d deckSet) Has(name string) bool { return d[name] }

func cards(n int) []model.Card {
	out := make([]model.Card, n)
	for i := range out {
		out[i] = model.Card{Q: string(rune('A' + i)), A: string(rune('a' + i))}
	}
	return out
}

func TestNew_Defaults(t *testing.T) {
	s := New("s1", "Bio", 0)

	if s.DailyGoal != DefaultDailyGoal {
		t.Errorf("DailyGoal = %d, want %d", s.DailyGoal, DefaultDailyGoal)
	}
	if s.TimerRemaining != DefaultTimerSeconds || s.TimerRunning {
		t.Errorf("unexpected timer state: %d running=%v", s.TimerRemaining, s.TimerRunning)
	}
	if s.CardIndex != 0 || s.Revealed || s.CardsViewedToday != 0 {
		t.Errorf("unexpected navigation state: %+v", s)
	}
}

func TestSelectDeck(t *testing.T) {
	s := New("s1", "Bio", 10)
	s.CardIndex = 3
	s.Revealed = true

	change, err := s.SelectDeck(deckSet{"Bio": true, "Chem": true}, "Chem")
	if err != nil {
		t.Fatalf("SelectDeck failed: %v", err)
	}
	if s.SelectedDeck != "Chem" || s.CardIndex != 0 || s.Revealed {
		t.Errorf("unexpected state after select: %+v", s)
	}
	if !change.Has(ChangeDeck) {
		t.Errorf("expected ChangeDeck, got %b", change)
	}
}

func TestSelectDeck_Unknown(t *testing.T) {
	s := New("s1", "Bio", 10)
	s.CardIndex = 1

	_, err := s.SelectDeck(deckSet{"Bio": true}, "Nope")

	var unknown *elyerr.UnknownDeckError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownDeckError, got %v", err)
	}
	if s.SelectedDeck != "Bio" || s.CardIndex != 1 {
		t.Errorf("failed select should not change state: %+v", s)
	}
}

func TestNavigate_ForwardWrapsAround(t *testing.T) {
	for n := 1; n <= 5; n++ {
		deck := cards(n)
		for start := 0; start < n; start++ {
			s := New("s", "d", 10)
			s.CardIndex = start

			for i := 0; i < n; i++ {
				s.Navigate(deck, Forward)
			}
			if s.CardIndex != start {
				t.Errorf("len %d start %d: ended at %d", n, start, s.CardIndex)
			}
			if s.CardsViewedToday != n {
				t.Errorf("len %d: viewed %d, want %d", n, s.CardsViewedToday, n)
			}
		}
	}
}

func TestNavigate_BackwardFromZeroGoesToLast(t *testing.T) {
	s := New("s", "d", 10)
	deck := cards(4)

	change := s.Navigate(deck, Backward)

	if s.CardIndex != 3 {
		t.Errorf("CardIndex = %d, want 3", s.CardIndex)
	}
	if s.CardsViewedToday != 0 {
		t.Errorf("backward navigation should not count, got %d", s.CardsViewedToday)
	}
	if change.Has(ChangeProgress) {
		t.Error("backward navigation should not report progress")
	}
}

func TestNavigate_EmptyDeckIsNoop(t *testing.T) {
	s := New("s", "d", 10)
	s.CardIndex = 2
	s.Revealed = true

	for _, dir := range []Direction{Forward, Backward} {
		if change := s.Navigate(nil, dir); change != ChangeNone {
			t.Errorf("%s on empty deck reported %b", dir, change)
		}
	}
	if s.CardIndex != 2 || !s.Revealed || s.CardsViewedToday != 0 {
		t.Errorf("empty deck navigation changed state: %+v", s)
	}
}

func TestNavigate_AlwaysHidesAnswer(t *testing.T) {
	deck := cards(3)
	for _, dir := range []Direction{Forward, Backward} {
		s := New("s", "d", 10)
		s.Revealed = true
		s.Navigate(deck, dir)
		if s.Revealed {
			t.Errorf("%s navigation left answer revealed", dir)
		}
	}
}

func TestFlip_TwiceRestores(t *testing.T) {
	s := New("s", "d", 10)

	s.Flip()
	if !s.Revealed {
		t.Fatal("first flip should reveal")
	}
	s.Flip()
	if s.Revealed {
		t.Error("second flip should hide")
	}

	// Harmless on an empty deck
	empty := New("s", "d", 10)
	if change := empty.Flip(); change != ChangeRevealed {
		t.Errorf("Flip change = %b", change)
	}
}

func TestClampIndex(t *testing.T) {
	tests := []struct {
		name     string
		index    int
		deckLen  int
		expected int
	}{
		{"in range", 1, 3, 1},
		{"at length", 3, 3, 0},
		{"past length", 5, 3, 2},
		{"empty deck", 4, 0, 0},
		{"negative", -1, 3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New("s", "d", 10)
			s.CardIndex = tt.index
			s.ClampIndex(cards(tt.deckLen))
			if s.CardIndex != tt.expected {
				t.Errorf("CardIndex = %d, want %d", s.CardIndex, tt.expected)
			}
		})
	}
}

func TestClampIndex_AfterDeletingLastCard(t *testing.T) {
	deck := cards(3)
	s := New("s", "d", 10)
	s.CardIndex = 2

	deck = deck[:2] // last card deleted
	s.ClampIndex(deck)

	if s.CardIndex >= len(deck) {
		t.Errorf("CardIndex %d out of range for %d cards", s.CardIndex, len(deck))
	}
}

func TestSetDailyGoal(t *testing.T) {
	s := New("s", "d", 10)

	for _, bad := range []int{0, -3} {
		_, err := s.SetDailyGoal(bad)
		var invalid *elyerr.InvalidGoalError
		if !errors.As(err, &invalid) {
			t.Errorf("SetDailyGoal(%d) expected InvalidGoalError, got %v", bad, err)
		}
	}
	if s.DailyGoal != 10 {
		t.Errorf("invalid goals changed DailyGoal to %d", s.DailyGoal)
	}

	if _, err := s.SetDailyGoal(1); err != nil || s.DailyGoal != 1 {
		t.Errorf("SetDailyGoal(1) = %v, goal %d", err, s.DailyGoal)
	}
}

func TestProgress(t *testing.T) {
	s := New("s", "d", 4)
	deck := cards(2)

	s.Navigate(deck, Forward)
	if got := s.Progress(); got != 0.25 {
		t.Errorf("Progress = %v, want 0.25", got)
	}

	for i := 0; i < 5; i++ {
		s.Navigate(deck, Forward)
	}
	if got := s.Progress(); got != 1 {
		t.Errorf("Progress should cap at 1, got %v", got)
	}
	if !s.GoalMet() {
		t.Error("GoalMet should be true")
	}
}

func TestTimer(t *testing.T) {
	s := New("s", "d", 10)

	s.StartTimer()
	s.ResetTimer(300)
	if s.TimerRemaining != 300 || s.TimerRunning {
		t.Errorf("reset should set 300 and stop, got %d running=%v", s.TimerRemaining, s.TimerRunning)
	}

	s.StartTimer()
	s.Tick()
	s.Tick()
	if s.TimerRemaining != 298 {
		t.Errorf("TimerRemaining = %d, want 298", s.TimerRemaining)
	}

	s.StopTimer()
	if s.TimerRunning {
		t.Error("StopTimer should stop")
	}
}

func TestTick_FloorsAtZeroAndKeepsRunning(t *testing.T) {
	s := New("s", "d", 10)
	s.ResetTimer(1)
	s.StartTimer()

	s.Tick()
	if change := s.Tick(); change != ChangeNone {
		t.Errorf("tick at zero reported %b", change)
	}

	if s.TimerRemaining != 0 {
		t.Errorf("TimerRemaining = %d, want 0", s.TimerRemaining)
	}
	if !s.TimerRunning {
		t.Error("reaching zero must not stop the timer")
	}
	if !s.TimerDone() {
		t.Error("TimerDone should be true at zero")
	}
}

func TestStartTimer_AtZeroIsAllowed(t *testing.T) {
	s := New("s", "d", 10)
	s.ResetTimer(0)

	s.StartTimer()
	s.Tick()

	if !s.TimerRunning || s.TimerRemaining != 0 {
		t.Errorf("unexpected timer: %d running=%v", s.TimerRemaining, s.TimerRunning)
	}
}

func TestValidTimerSeconds(t *testing.T) {
	for _, preset := range TimerPresets {
		if !ValidTimerSeconds(preset) {
			t.Errorf("preset %d should be valid", preset)
		}
	}
	if ValidTimerSeconds(0) || ValidTimerSeconds(-60) {
		t.Error("non-positive lengths should be invalid")
	}
}

func TestEndToEnd_TwoCardDeck(t *testing.T) {
	s := New("s", "Bio", 10)
	deck := cards(2)

	var seq []int
	for i := 0; i < 3; i++ {
		s.Navigate(deck, Forward)
		seq = append(seq, s.CardIndex)
	}

	want := []int{1, 0, 1}
	for i := range want {
		if seq[i] != want[i] {
			t.Fatalf("index sequence = %v, want %v", seq, want)
		}
	}
	if s.CardsViewedToday != 3 {
		t.Errorf("CardsViewedToday = %d, want 3", s.CardsViewedToday)
	}
}

func TestChange_Names(t *testing.T) {
	got := (ChangeIndex | ChangeTimer).Names()
	if len(got) != 2 || got[0] != "index" || got[1] != "timer" {
		t.Errorf("Names() = %v", got)
	}
	if got := ChangeNone.Names(); len(got) != 0 {
		t.Errorf("ChangeNone.Names() = %v", got)
	}
}
