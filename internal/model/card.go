package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

// StarterDeckName is the deck seeded on first run or after a failed load.
const StarterDeckName = "Starter Deck"

// Card is a question/answer pair. A card has no ID; it is identified by
// its position within its deck.
//
// A card read from disk that carries more than a string q and a string a
// keeps its original JSON, so saving it writes the extra fields and any
// non-string values back untouched.
type Card struct {
	Q string `json:"q"`
	A string `json:"a"`

	raw string
}

// cardText is the plain on-disk shape of a card.
type cardText struct {
	Q string `json:"q"`
	A string `json:"a"`
}

// WithText returns a copy with new question and answer text. Fields
// outside q and a are kept.
func (c Card) WithText(question, answer string) Card {
	c.Q, c.A = question, answer
	return c
}

// MarshalJSON writes q and a as strings. A card loaded with other fields
// is written in its original member order, with q or a replaced only if
// the text was edited.
func (c Card) MarshalJSON() ([]byte, error) {
	if c.raw == "" {
		return json.Marshal(cardText{Q: c.Q, A: c.A})
	}

	raw := []byte(c.raw)
	if raw[0] != '{' {
		if text, _ := valueText(raw); text == c.Q && c.A == "" {
			return raw, nil
		}
		return json.Marshal(cardText{Q: c.Q, A: c.A})
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	seen := make(map[string]bool, 2)
	writeMember := func(key string, value []byte) error {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(value)
		return nil
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := keyTok.(string)

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		switch key {
		case "q":
			value, err = keepOrReplace(value, c.Q)
		case "a":
			value, err = keepOrReplace(value, c.A)
		}
		if err != nil {
			return nil, err
		}
		seen[key] = true
		if err := writeMember(key, value); err != nil {
			return nil, err
		}
	}

	for _, side := range []struct{ key, text string }{{"q", c.Q}, {"a", c.A}} {
		if seen[side.key] || side.text == "" {
			continue
		}
		value, err := json.Marshal(side.text)
		if err != nil {
			return nil, err
		}
		if err := writeMember(side.key, value); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON accepts any JSON value. Non-string q or a values are shown
// as their JSON text; a card that isn't an object is shown as its question.
func (c *Card) UnmarshalJSON(data []byte) error {
	var compact bytes.Buffer
	if err := json.Compact(&compact, data); err != nil {
		return err
	}
	data = compact.Bytes()

	if data[0] != '{' {
		text, _ := valueText(data)
		*c = Card{Q: text, raw: string(data)}
		return nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	q, qString := valueText(fields["q"])
	a, aString := valueText(fields["a"])

	card := Card{Q: q, A: a}
	if len(fields) != 2 || !qString || !aString {
		card.raw = string(data)
	}
	*c = card
	return nil
}

// valueText returns the display text of a JSON value and whether it was a
// string. Null and missing values read as empty.
func valueText(value []byte) (string, bool) {
	if len(value) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(value, &s); err == nil && value[0] == '"' {
		return s, true
	}
	if string(value) == "null" {
		return "", false
	}
	return string(value), false
}

// keepOrReplace returns the original value unless text no longer matches it.
func keepOrReplace(value json.RawMessage, text string) (json.RawMessage, error) {
	if current, _ := valueText(value); current == text {
		return value, nil
	}
	return json.Marshal(text)
}

// Collection maps deck names to ordered card lists.
// Deck order follows the order keys appear in the JSON document, then
// creation order for decks added at runtime.
type Collection struct {
	names []string
	decks map[string][]Card
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{decks: make(map[string][]Card)}
}

// StarterCollection returns the fallback collection used when nothing
// usable is on disk.
func StarterCollection() *Collection {
	c := NewCollection()
	c.Set(StarterDeckName, []Card{
		{Q: "Welcome to Elysian", A: "Clear, bold, and focused study."},
	})
	return c
}

// Names returns deck names in collection order.
func (c *Collection) Names() []string {
	return slices.Clone(c.names)
}

// Len returns the number of decks.
func (c *Collection) Len() int {
	return len(c.names)
}

// Has returns true if the deck exists.
func (c *Collection) Has(name string) bool {
	_, ok := c.decks[name]
	return ok
}

// Cards returns a copy of the deck's cards.
func (c *Collection) Cards(name string) ([]Card, bool) {
	cards, ok := c.decks[name]
	if !ok {
		return nil, false
	}
	return slices.Clone(cards), true
}

// Set replaces a deck's cards, appending the deck if it is new.
func (c *Collection) Set(name string, cards []Card) {
	if c.decks == nil {
		c.decks = make(map[string][]Card)
	}
	if _, ok := c.decks[name]; !ok {
		c.names = append(c.names, name)
	}
	if cards == nil {
		cards = []Card{}
	}
	c.decks[name] = cards
}

// Remove deletes a deck. Returns false if it didn't exist.
func (c *Collection) Remove(name string) bool {
	if _, ok := c.decks[name]; !ok {
		return false
	}
	delete(c.decks, name)
	c.names = slices.DeleteFunc(c.names, func(n string) bool { return n == name })
	return true
}

// Clone returns a deep copy.
func (c *Collection) Clone() *Collection {
	out := &Collection{
		names: slices.Clone(c.names),
		decks: make(map[string][]Card, len(c.decks)),
	}
	for name, cards := range c.decks {
		out.decks[name] = slices.Clone(cards)
	}
	return out
}

// MarshalJSON writes the collection as a plain object keyed by deck name,
// keeping deck order.
func (c *Collection) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range c.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		cards := c.decks[name]
		if cards == nil {
			cards = []Card{}
		}
		value, err := json.Marshal(cards)
		if err != nil {
			return nil, fmt.Errorf("deck %q: %w", name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a plain object keyed by deck name. Key order becomes
// deck order; a repeated key keeps its first position and its last value.
func (c *Collection) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil // null leaves the collection untouched
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("deck collection must be a JSON object, got %v", tok)
	}

	fresh := NewCollection()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("unexpected deck key %v", keyTok)
		}

		var cards []Card
		if err := dec.Decode(&cards); err != nil {
			return fmt.Errorf("deck %q: %w", name, err)
		}
		fresh.Set(name, cards)
	}

	// Consume the closing brace
	if _, err := dec.Token(); err != nil {
		return err
	}

	*c = *fresh
	return nil
}
