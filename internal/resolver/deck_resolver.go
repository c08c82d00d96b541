package resolver

import (
	"fmt"

	elyerr "github.com/amterp/elysian/internal/errors"
	"github.com/amterp/elysian/internal/prompt"
	"github.com/amterp/elysian/internal/store"
	"github.com/amterp/elysian/internal/util"
)

// DeckLister lists deck names in collection order.
type DeckLister interface {
	Decks() []string
}

// DeckResolver handles deck selection logic.
type DeckResolver struct {
	decks       DeckLister
	globalStore store.GlobalStore
	prompter    prompt.Prompter
}

// NewDeckResolver creates a new deck resolver.
func NewDeckResolver(decks DeckLister, globalStore store.GlobalStore, prompter prompt.Prompter) *DeckResolver {
	return &DeckResolver{
		decks:       decks,
		globalStore: globalStore,
		prompter:    prompter,
	}
}

// Resolve determines which deck to use:
// 1. If explicit deck provided, match it exactly, then normalized, then by slug
// 2. If only one deck exists, use it
// 3. If default_deck configured, use it
// 4. If interactive, prompt user
// 5. Otherwise, fail with error
func (r *DeckResolver) Resolve(explicitDeck string, interactive bool) (string, error) {
	names := r.decks.Decks()

	if explicitDeck != "" {
		return Match(names, explicitDeck)
	}

	if len(names) == 0 {
		return "", fmt.Errorf("no decks found; run 'elysian deck create' first")
	}

	if len(names) == 1 {
		return names[0], nil
	}

	if globalCfg, _ := r.globalStore.Load(); globalCfg != nil && globalCfg.DefaultDeck != "" {
		if name, err := Match(names, globalCfg.DefaultDeck); err == nil {
			return name, nil
		}
	}

	if !interactive {
		return "", fmt.Errorf("multiple decks exist; specify with -d or set default_deck in config")
	}

	return r.prompter.Select("Select deck", names)
}

// Match finds query among names. An exact match wins, then a match after
// normalizing whitespace and Unicode form, then a unique slug match.
func Match(names []string, query string) (string, error) {
	for _, name := range names {
		if name == query {
			return name, nil
		}
	}

	normalized := util.Normalize(query)
	for _, name := range names {
		if util.Normalize(name) == normalized {
			return name, nil
		}
	}

	slug := util.Slugify(query)
	if slug == "" {
		return "", elyerr.UnknownDeck(query)
	}

	var matches []string
	for _, name := range names {
		if util.Slugify(name) == slug {
			matches = append(matches, name)
		}
	}

	switch len(matches) {
	case 0:
		return "", elyerr.UnknownDeck(query)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("deck %q is ambiguous: matches %q", query, matches)
	}
}
