package service

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/amterp/elysian/internal/model"
	"github.com/amterp/elysian/internal/store"
)

// IssueSeverity indicates how critical an issue is.
type IssueSeverity string

const (
	SeverityError   IssueSeverity = "error"
	SeverityWarning IssueSeverity = "warning"
)

// Issue codes for diagnostic results.
const (
	// Priority 1: Document integrity (errors)
	CodeMalformedDeckFile = "MALFORMED_DECK_FILE"
	CodeNoDecks           = "NO_DECKS"
	CodeEmptyDeckName     = "EMPTY_DECK_NAME"

	// Priority 2: Card hygiene (warnings)
	CodeMissingDeckFile = "MISSING_DECK_FILE"
	CodeBlankCardField  = "BLANK_CARD_FIELD"
	CodeUntrimmedCard   = "UNTRIMMED_CARD"
	CodeDuplicateCard   = "DUPLICATE_CARD"

	// Priority 3: Global config (warnings)
	CodeMalformedGlobalConfig = "MALFORMED_GLOBAL_CONFIG"
)

// Issue represents a single diagnostic finding.
type Issue struct {
	Severity  IssueSeverity `json:"severity"`
	Code      string        `json:"code"`
	Deck      string        `json:"deck,omitempty"`
	Card      *int          `json:"card,omitempty"` // Index within the deck
	Message   string        `json:"message"`
	Fixable   bool          `json:"fixable"`
	FixAction string        `json:"fix_action,omitempty"`
	FixError  string        `json:"fix_error,omitempty"` // Populated if fix was attempted but failed
}

// DeckDiagnostic contains stats for a single deck.
type DeckDiagnostic struct {
	Name  string `json:"name"`
	Cards int    `json:"cards"`
}

// ReportSummary summarizes the diagnostic results.
type ReportSummary struct {
	Errors    int `json:"errors"`
	Warnings  int `json:"warnings"`
	Fixed     int `json:"fixed"`
	FixFailed int `json:"fix_failed,omitempty"`
}

// DiagnosticReport contains all diagnostic results.
type DiagnosticReport struct {
	DeckFile string           `json:"deck_file"`
	Decks    []DeckDiagnostic `json:"decks"`
	Issues   []Issue          `json:"issues"`
	Summary  ReportSummary    `json:"summary"`
}

// HasErrors returns true if there are any error-level issues.
func (r *DiagnosticReport) HasErrors() bool {
	return r.Summary.Errors > 0
}

// DoctorService validates the deck document for problems that Load would
// otherwise paper over with the starter deck.
type DoctorService struct {
	deckStore   *store.FileDeckStore
	globalStore store.GlobalStore
}

// NewDoctorService creates a new diagnostic service.
func NewDoctorService(deckStore *store.FileDeckStore, globalStore store.GlobalStore) *DoctorService {
	return &DoctorService{deckStore: deckStore, globalStore: globalStore}
}

// Diagnose reads the deck document strictly and reports issues.
func (s *DoctorService) Diagnose() *DiagnosticReport {
	report := &DiagnosticReport{
		DeckFile: s.deckStore.Path(),
		Decks:    []DeckDiagnostic{},
		Issues:   []Issue{},
	}

	s.checkGlobalConfig(report)

	c, err := s.deckStore.Read()
	switch {
	case err == nil:
		s.checkCollection(report, c)
	case errors.Is(err, os.ErrNotExist):
		report.Issues = append(report.Issues, Issue{
			Severity:  SeverityWarning,
			Code:      CodeMissingDeckFile,
			Message:   "deck file does not exist; the starter deck will be used",
			Fixable:   true,
			FixAction: "write the starter deck",
		})
	case errors.Is(err, store.ErrNoDecks):
		report.Issues = append(report.Issues, Issue{
			Severity:  SeverityError,
			Code:      CodeNoDecks,
			Message:   "deck file contains no decks",
			Fixable:   true,
			FixAction: "write the starter deck",
		})
	default:
		report.Issues = append(report.Issues, Issue{
			Severity: SeverityError,
			Code:     CodeMalformedDeckFile,
			Message:  err.Error(),
		})
	}

	report.tally()
	return report
}

// Fix applies automatic fixes for issues that have deterministic solutions.
// Returns a new report showing remaining issues and what was fixed.
func (s *DoctorService) Fix(report *DiagnosticReport) (*DiagnosticReport, error) {
	c, err := s.deckStore.Read()
	if err != nil {
		c = nil
	}

	fixed := 0
	fixFailed := 0
	dirty := false
	remaining := []Issue{}
	var dropped []Issue

	for _, issue := range report.Issues {
		if !issue.Fixable {
			remaining = append(remaining, issue)
			continue
		}

		var err error
		switch issue.Code {
		case CodeMissingDeckFile, CodeNoDecks:
			c = model.StarterCollection()
			dirty = true
		case CodeUntrimmedCard:
			err = fixUntrimmedCard(c, issue)
			dirty = dirty || err == nil
		case CodeBlankCardField:
			// Applied after the loop so earlier indices stay valid
			dropped = append(dropped, issue)
			continue
		default:
			remaining = append(remaining, issue)
			continue
		}

		if err != nil {
			issue.FixError = err.Error()
			remaining = append(remaining, issue)
			fixFailed++
		} else {
			fixed++
		}
	}

	if len(dropped) > 0 {
		if c == nil {
			for _, issue := range dropped {
				issue.FixError = "deck file could not be read"
				remaining = append(remaining, issue)
				fixFailed++
			}
		} else {
			fixed += dropBlankCards(c, dropped)
			dirty = true
		}
	}

	if dirty {
		if err := s.deckStore.Save(c); err != nil {
			return nil, err
		}
	}

	newReport := &DiagnosticReport{
		DeckFile: report.DeckFile,
		Decks:    report.Decks,
		Issues:   remaining,
		Summary: ReportSummary{
			Fixed:     fixed,
			FixFailed: fixFailed,
		},
	}
	newReport.tally()
	return newReport, nil
}

func (r *DiagnosticReport) tally() {
	r.Summary.Errors = 0
	r.Summary.Warnings = 0
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			r.Summary.Errors++
		} else {
			r.Summary.Warnings++
		}
	}
}

func (s *DoctorService) checkGlobalConfig(report *DiagnosticReport) {
	if s.globalStore == nil {
		return
	}
	if _, err := s.globalStore.Load(); err != nil {
		report.Issues = append(report.Issues, Issue{
			Severity: SeverityWarning,
			Code:     CodeMalformedGlobalConfig,
			Message:  err.Error(),
		})
	}
}

func (s *DoctorService) checkCollection(report *DiagnosticReport, c *model.Collection) {
	for _, name := range c.Names() {
		cards, _ := c.Cards(name)
		report.Decks = append(report.Decks, DeckDiagnostic{Name: name, Cards: len(cards)})

		if strings.TrimSpace(name) == "" {
			report.Issues = append(report.Issues, Issue{
				Severity: SeverityError,
				Code:     CodeEmptyDeckName,
				Deck:     name,
				Message:  "deck has a blank name and cannot be selected",
			})
		}

		seen := make(map[model.Card]int)
		for i, card := range cards {
			idx := i
			q, a := strings.TrimSpace(card.Q), strings.TrimSpace(card.A)

			switch {
			case q == "" || a == "":
				report.Issues = append(report.Issues, Issue{
					Severity:  SeverityWarning,
					Code:      CodeBlankCardField,
					Deck:      name,
					Card:      &idx,
					Message:   fmt.Sprintf("card %d has a blank question or answer", i),
					Fixable:   true,
					FixAction: "delete the card",
				})
			case q != card.Q || a != card.A:
				report.Issues = append(report.Issues, Issue{
					Severity:  SeverityWarning,
					Code:      CodeUntrimmedCard,
					Deck:      name,
					Card:      &idx,
					Message:   fmt.Sprintf("card %d has surrounding whitespace", i),
					Fixable:   true,
					FixAction: "trim the card text",
				})
			}

			key := model.Card{Q: q, A: a}
			if first, ok := seen[key]; ok {
				report.Issues = append(report.Issues, Issue{
					Severity: SeverityWarning,
					Code:     CodeDuplicateCard,
					Deck:     name,
					Card:     &idx,
					Message:  fmt.Sprintf("card %d repeats card %d", i, first),
				})
			} else {
				seen[key] = i
			}
		}
	}
}

func fixUntrimmedCard(c *model.Collection, issue Issue) error {
	if c == nil || issue.Card == nil {
		return fmt.Errorf("deck file could not be read")
	}
	cards, ok := c.Cards(issue.Deck)
	if !ok || *issue.Card >= len(cards) {
		return fmt.Errorf("card %s/%d no longer exists", issue.Deck, *issue.Card)
	}
	i := *issue.Card
	cards[i] = cards[i].WithText(strings.TrimSpace(cards[i].Q), strings.TrimSpace(cards[i].A))
	c.Set(issue.Deck, cards)
	return nil
}

// dropBlankCards removes the flagged cards, highest index first per deck.
// Returns the number removed.
func dropBlankCards(c *model.Collection, issues []Issue) int {
	byDeck := make(map[string]map[int]bool)
	for _, issue := range issues {
		if issue.Card == nil {
			continue
		}
		if byDeck[issue.Deck] == nil {
			byDeck[issue.Deck] = make(map[int]bool)
		}
		byDeck[issue.Deck][*issue.Card] = true
	}

	removed := 0
	for deck, drop := range byDeck {
		cards, ok := c.Cards(deck)
		if !ok {
			continue
		}
		kept := make([]model.Card, 0, len(cards))
		for i, card := range cards {
			if drop[i] {
				removed++
				continue
			}
			kept = append(kept, card)
		}
		c.Set(deck, kept)
	}
	return removed
}
