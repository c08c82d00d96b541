package cli

import (
	"reflect"
	"testing"
)

func TestFlagFromArgs_LongFlagEquals(t *testing.T) {
	args := []string{"elysian", "list", "--deck=Bio"}
	if got := flagFromArgs(args, "deck", "d"); got != "Bio" {
		t.Errorf("Expected 'Bio', got %q", got)
	}
}

func TestFlagFromArgs_ShortFlagEquals(t *testing.T) {
	args := []string{"elysian", "list", "-d=Bio"}
	if got := flagFromArgs(args, "deck", "d"); got != "Bio" {
		t.Errorf("Expected 'Bio', got %q", got)
	}
}

func TestFlagFromArgs_LongFlagSpace(t *testing.T) {
	args := []string{"elysian", "list", "--file", "cards.json"}
	if got := flagFromArgs(args, "file", "F"); got != "cards.json" {
		t.Errorf("Expected 'cards.json', got %q", got)
	}
}

func TestFlagFromArgs_ShortFlagSpace(t *testing.T) {
	args := []string{"elysian", "-F", "cards.json", "list"}
	if got := flagFromArgs(args, "file", "F"); got != "cards.json" {
		t.Errorf("Expected 'cards.json', got %q", got)
	}
}

func TestFlagFromArgs_NoFlag(t *testing.T) {
	args := []string{"elysian", "list"}
	if got := flagFromArgs(args, "deck", "d"); got != "" {
		t.Errorf("Expected empty string, got %q", got)
	}
}

func TestFlagFromArgs_EmptyArgs(t *testing.T) {
	if got := flagFromArgs(nil, "deck", "d"); got != "" {
		t.Errorf("Expected empty string for nil args, got %q", got)
	}
	if got := flagFromArgs([]string{}, "deck", "d"); got != "" {
		t.Errorf("Expected empty string for empty args, got %q", got)
	}
}

func TestFlagFromArgs_EmptyEqualsValue(t *testing.T) {
	// --deck= with no value should fall through (not return "")
	args := []string{"elysian", "list", "--deck="}
	if got := flagFromArgs(args, "deck", "d"); got != "" {
		t.Errorf("Expected empty string for --deck= (no value), got %q", got)
	}

	args = []string{"elysian", "list", "-d="}
	if got := flagFromArgs(args, "deck", "d"); got != "" {
		t.Errorf("Expected empty string for -d= (no value), got %q", got)
	}
}

func TestFlagFromArgs_FlagAtEnd(t *testing.T) {
	args := []string{"elysian", "list", "--deck"}
	if got := flagFromArgs(args, "deck", "d"); got != "" {
		t.Errorf("Expected empty string for --deck at end, got %q", got)
	}
}

func TestFlagFromArgs_FirstFlagWins(t *testing.T) {
	args := []string{"elysian", "list", "-d", "first", "-d", "second"}
	if got := flagFromArgs(args, "deck", "d"); got != "first" {
		t.Errorf("Expected 'first' (first flag wins), got %q", got)
	}
}

func TestFlagFromArgs_DistinguishesFlags(t *testing.T) {
	// -F must not be mistaken for -d, and vice versa
	args := []string{"elysian", "-F", "cards.json", "list", "-d", "Bio"}
	if got := flagFromArgs(args, "deck", "d"); got != "Bio" {
		t.Errorf("deck = %q, want 'Bio'", got)
	}
	if got := flagFromArgs(args, "file", "F"); got != "cards.json" {
		t.Errorf("file = %q, want 'cards.json'", got)
	}
}

func TestMatchPrefix(t *testing.T) {
	names := []string{"Bio 101", "biology", "Chemistry"}

	tests := []struct {
		prefix string
		want   []string
	}{
		{"", names},
		{"bio", []string{"Bio 101", "biology"}},
		{"Ch", []string{"Chemistry"}},
		{"x", nil},
	}

	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			got := matchPrefix(names, tt.prefix)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("matchPrefix(%q) = %v, want %v", tt.prefix, got, tt.want)
			}
		})
	}
}
