package cli

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/amterp/elysian/internal/model"
	"github.com/amterp/elysian/testutil"
)

// TestCardJsonFieldSync ensures cardJson stays in sync with model.Card.
// If this test fails, you probably added a field to model.Card but forgot
// to add it to cardJson in json_output.go.
func TestCardJsonFieldSync(t *testing.T) {
	cardType := reflect.TypeOf(model.Card{})
	cardJsonType := reflect.TypeOf(cardJson{})

	// Fields that exist in cardJson but not in model.Card
	cardJsonOnly := map[string]bool{
		"Number": true, // Position within the deck; cards have no ID
	}

	for i := 0; i < cardType.NumField(); i++ {
		field := cardType.Field(i)
		if !field.IsExported() {
			continue
		}

		jsonField, found := cardJsonType.FieldByName(field.Name)
		if !found {
			t.Errorf("model.Card has field %q but cardJson does not. "+
				"Add it to cardJson and cardToJson().", field.Name)
			continue
		}
		if field.Type != jsonField.Type {
			t.Errorf("Field %q has type %v in model.Card but %v in cardJson",
				field.Name, field.Type, jsonField.Type)
		}
		if field.Tag.Get("json") != jsonField.Tag.Get("json") {
			t.Errorf("Field %q has json tag %q in model.Card but %q in cardJson",
				field.Name, field.Tag.Get("json"), jsonField.Tag.Get("json"))
		}
	}

	for i := 0; i < cardJsonType.NumField(); i++ {
		field := cardJsonType.Field(i)
		if cardJsonOnly[field.Name] {
			continue
		}
		if _, found := cardType.FieldByName(field.Name); !found {
			t.Errorf("cardJson has field %q that doesn't exist in model.Card. "+
				"If this is intentional, add it to cardJsonOnly map.", field.Name)
		}
	}
}

func TestCardToJson(t *testing.T) {
	cj := cardToJson(3, model.Card{Q: "Capital of France?", A: "Paris"})

	if cj.Number != 3 {
		t.Errorf("Number = %d, want 3", cj.Number)
	}
	if cj.Q != "Capital of France?" || cj.A != "Paris" {
		t.Errorf("Card text mismatch: %+v", cj)
	}
}

type fakeDecks struct {
	c *model.Collection
}

func (f fakeDecks) Decks() []string { return f.c.Names() }

func (f fakeDecks) Cards(deck string) ([]model.Card, error) {
	cards, _ := f.c.Cards(deck)
	return cards, nil
}

func TestNewDecksOutput(t *testing.T) {
	out := NewDecksOutput(fakeDecks{c: testutil.TestCollection()})

	want := []deckJson{{Name: "Bio", Cards: 2}, {Name: "Empty", Cards: 0}}
	if !reflect.DeepEqual(out.Decks, want) {
		t.Errorf("Decks = %+v, want %+v", out.Decks, want)
	}
}

func TestNewDecksOutput_EmptyIsArray(t *testing.T) {
	out := NewDecksOutput(fakeDecks{c: model.NewCollection()})

	data, err := json.Marshal(out)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !strings.Contains(string(data), `"decks":[]`) {
		t.Errorf("Expected empty array, got %s", data)
	}
}

func TestNewCardsOutput(t *testing.T) {
	cards, _ := testutil.TestCollection().Cards("Bio")
	out := NewCardsOutput("Bio", cards)

	if out.Deck != "Bio" {
		t.Errorf("Deck = %q, want %q", out.Deck, "Bio")
	}
	if len(out.Cards) != 2 {
		t.Fatalf("Expected 2 cards, got %d", len(out.Cards))
	}
	if out.Cards[0].Number != 1 || out.Cards[1].Number != 2 {
		t.Errorf("Cards should be numbered from 1: %+v", out.Cards)
	}
	if out.Cards[1].A != "Cell" {
		t.Errorf("Second answer = %q, want %q", out.Cards[1].A, "Cell")
	}
}

func TestNewCardsOutput_EmptyIsArray(t *testing.T) {
	data, err := json.Marshal(NewCardsOutput("Empty", nil))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !strings.Contains(string(data), `"cards":[]`) {
		t.Errorf("Expected empty array, got %s", data)
	}
}
