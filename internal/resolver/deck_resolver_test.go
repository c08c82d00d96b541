package resolver

import (
	"strings"
	"testing"

	elyerr "github.com/amterp/elysian/internal/errors"
	"github.com/amterp/elysian/internal/model"
	"github.com/amterp/elysian/internal/prompt"
	"github.com/amterp/elysian/internal/store"
)

// ============================================================================
// Mocks
// ============================================================================

type mockDecks []string

func (m mockDecks) Decks() []string { return m }

// mockGlobalStore implements store.GlobalStore for testing.
type mockGlobalStore struct {
	config *model.GlobalConfig
}

func newMockGlobalStore(defaultDeck string) *mockGlobalStore {
	return &mockGlobalStore{config: &model.GlobalConfig{DefaultDeck: defaultDeck}}
}

func (m *mockGlobalStore) Load() (*model.GlobalConfig, error) {
	return m.config, nil
}

func (m *mockGlobalStore) Save(config *model.GlobalConfig) error {
	m.config = config
	return nil
}

func (m *mockGlobalStore) EnsureExists() error {
	return nil
}

var _ store.GlobalStore = (*mockGlobalStore)(nil)

// mockPrompter implements prompt.Prompter for testing.
type mockPrompter struct {
	selectResult string
	selectError  error
}

func (m *mockPrompter) Select(title string, options []string) (string, error) {
	if m.selectError != nil {
		return "", m.selectError
	}
	return m.selectResult, nil
}

func (m *mockPrompter) Input(title string, defaultValue string) (string, error) {
	return "", nil
}

func (m *mockPrompter) Text(title string, placeholder string) (string, error) {
	return "", nil
}

func (m *mockPrompter) Confirm(title string, defaultValue bool) (bool, error) {
	return false, nil
}

var _ prompt.Prompter = (*mockPrompter)(nil)

// ============================================================================
// DeckResolver Tests
// ============================================================================

func TestDeckResolver_Resolve_Explicit(t *testing.T) {
	resolver := NewDeckResolver(mockDecks{"Bio 101", "Chem"}, newMockGlobalStore(""), &prompt.NoopPrompter{})

	tests := []struct {
		query    string
		expected string
	}{
		{"Chem", "Chem"},
		{"  Chem ", "Chem"},
		{"bio-101", "Bio 101"},
		{"BIO 101", "Bio 101"},
	}

	for _, tt := range tests {
		got, err := resolver.Resolve(tt.query, false)
		if err != nil {
			t.Errorf("Resolve(%q) failed: %v", tt.query, err)
			continue
		}
		if got != tt.expected {
			t.Errorf("Resolve(%q) = %q, want %q", tt.query, got, tt.expected)
		}
	}
}

func TestDeckResolver_Resolve_ExplicitNotFound(t *testing.T) {
	resolver := NewDeckResolver(mockDecks{"Bio"}, newMockGlobalStore(""), &prompt.NoopPrompter{})

	for _, query := range []string{"Physics", "!!!"} {
		if _, err := resolver.Resolve(query, true); !elyerr.IsNotFound(err) {
			t.Errorf("Resolve(%q) expected not found, got %v", query, err)
		}
	}
}

func TestMatch_AccentsAndAmbiguity(t *testing.T) {
	got, err := Match([]string{"Caf\u00e9 Words"}, "Cafe\u0301 Words")
	if err != nil || got != "Caf\u00e9 Words" {
		t.Errorf("decomposed query: %q, %v", got, err)
	}

	got, err = Match([]string{"Caf\u00e9", "Cafe"}, "cafe")
	if err == nil || !strings.Contains(err.Error(), "ambiguous") {
		t.Errorf("expected ambiguity error, got %q, %v", got, err)
	}
}

func TestDeckResolver_Resolve_SingleDeck(t *testing.T) {
	resolver := NewDeckResolver(mockDecks{"Only"}, newMockGlobalStore(""), &prompt.NoopPrompter{})

	deck, err := resolver.Resolve("", false)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if deck != "Only" {
		t.Errorf("Expected 'Only', got %q", deck)
	}
}

func TestDeckResolver_Resolve_NoDecks(t *testing.T) {
	resolver := NewDeckResolver(mockDecks{}, newMockGlobalStore(""), &prompt.NoopPrompter{})

	_, err := resolver.Resolve("", false)
	if err == nil {
		t.Fatal("Expected error when no decks exist")
	}
	expected := "no decks found; run 'elysian deck create' first"
	if err.Error() != expected {
		t.Errorf("Expected error %q, got %q", expected, err.Error())
	}
}

func TestDeckResolver_Resolve_DefaultFromConfig(t *testing.T) {
	resolver := NewDeckResolver(mockDecks{"Bio", "Chem", "Physics"}, newMockGlobalStore("chem"), &prompt.NoopPrompter{})

	deck, err := resolver.Resolve("", false)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if deck != "Chem" {
		t.Errorf("Expected 'Chem' (default), got %q", deck)
	}
}

func TestDeckResolver_Resolve_DefaultDoesNotExist(t *testing.T) {
	resolver := NewDeckResolver(mockDecks{"Bio", "Chem"}, newMockGlobalStore("Deleted"), &prompt.NoopPrompter{})

	// Missing default falls through to prompting, which fails non-interactive
	if _, err := resolver.Resolve("", false); err == nil {
		t.Fatal("Expected error when default deck doesn't exist and not interactive")
	}
}

func TestDeckResolver_Resolve_MultipleDecks_NonInteractive(t *testing.T) {
	resolver := NewDeckResolver(mockDecks{"Bio", "Chem"}, newMockGlobalStore(""), &prompt.NoopPrompter{})

	_, err := resolver.Resolve("", false)
	if err == nil {
		t.Fatal("Expected error for multiple decks in non-interactive mode")
	}
	expected := "multiple decks exist; specify with -d or set default_deck in config"
	if err.Error() != expected {
		t.Errorf("Expected error %q, got %q", expected, err.Error())
	}
}

func TestDeckResolver_Resolve_MultipleDecks_Interactive(t *testing.T) {
	prompter := &mockPrompter{selectResult: "Chem"}
	resolver := NewDeckResolver(mockDecks{"Bio", "Chem"}, newMockGlobalStore(""), prompter)

	deck, err := resolver.Resolve("", true)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if deck != "Chem" {
		t.Errorf("Expected 'Chem' (selected), got %q", deck)
	}
}

func TestDeckResolver_Resolve_Interactive_PromptError(t *testing.T) {
	prompter := &mockPrompter{selectError: prompt.ErrNonInteractive}
	resolver := NewDeckResolver(mockDecks{"Bio", "Chem"}, newMockGlobalStore(""), prompter)

	_, err := resolver.Resolve("", true)
	if err != prompt.ErrNonInteractive {
		t.Errorf("Expected ErrNonInteractive, got %v", err)
	}
}
