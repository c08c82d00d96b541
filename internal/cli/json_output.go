package cli

import (
	"encoding/json"
	"fmt"

	"github.com/amterp/elysian/internal/model"
)

// cardJson represents a card for JSON output. Number is the 1-based
// position the other commands accept.
//
// SYNC WARNING: This struct must stay in sync with model.Card fields.
// If you add fields to model.Card, add them here too. See TestCardJsonFieldSync.
type cardJson struct {
	Number int    `json:"number"`
	Q      string `json:"q"`
	A      string `json:"a"`
}

func cardToJson(number int, c model.Card) cardJson {
	return cardJson{
		Number: number,
		Q:      c.Q,
		A:      c.A,
	}
}

// deckJson summarizes a deck for JSON output.
type deckJson struct {
	Name  string `json:"name"`
	Cards int    `json:"cards"`
}

// DeckOutput wraps a single deck for JSON output.
type DeckOutput struct {
	Deck deckJson `json:"deck"`
}

// DecksOutput wraps the deck list for JSON output.
type DecksOutput struct {
	Decks []deckJson `json:"decks"`
}

// deckCounter is the slice of DeckService the deck list needs.
type deckCounter interface {
	Decks() []string
	Cards(deck string) ([]model.Card, error)
}

// NewDecksOutput summarizes every deck in collection order.
// Always returns an empty array (not null) when there are no decks.
func NewDecksOutput(decks deckCounter) DecksOutput {
	names := decks.Decks()
	out := DecksOutput{Decks: make([]deckJson, 0, len(names))}
	for _, name := range names {
		cards, _ := decks.Cards(name)
		out.Decks = append(out.Decks, deckJson{Name: name, Cards: len(cards)})
	}
	return out
}

// CardOutput wraps a single card for JSON output.
type CardOutput struct {
	Deck string   `json:"deck"`
	Card cardJson `json:"card"`
}

// CardsOutput wraps a deck's cards for JSON output.
type CardsOutput struct {
	Deck  string     `json:"deck"`
	Cards []cardJson `json:"cards"`
}

// NewCardsOutput numbers the cards from 1.
// Always returns an empty array (not null) when the deck is empty.
func NewCardsOutput(deck string, cards []model.Card) CardsOutput {
	out := CardsOutput{Deck: deck, Cards: make([]cardJson, 0, len(cards))}
	for i, card := range cards {
		out.Cards = append(out.Cards, cardToJson(i+1, card))
	}
	return out
}

// ImportOutput reports a bulk import for JSON output.
type ImportOutput struct {
	Deck  string `json:"deck"`
	Added int    `json:"added"`
}

// printJson marshals the value as indented JSON and prints it to stdout.
func printJson(v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(output))
	return nil
}
