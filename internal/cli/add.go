package cli

import (
	"fmt"

	"github.com/amterp/ra"
)

func registerAdd(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("add")
	cmd.SetDescription("Add a card to a deck")

	ctx.AddQuestion, _ = ra.NewString("question").
		SetOptional(true).
		SetUsage("Question side (prompted if omitted)").
		Register(cmd)

	ctx.AddAnswer, _ = ra.NewString("answer").
		SetOptional(true).
		SetUsage("Answer side (prompted if omitted)").
		Register(cmd)

	ctx.AddDeck, _ = ra.NewString("deck").
		SetShort("d").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Target deck").
		SetCompletionFunc(completeDecks).
		Register(cmd)

	ctx.AddUsed, _ = parent.RegisterCmd(cmd)
}

func runAdd(question, answer, deck string, g GlobalOptions) {
	app := mustApp(g)

	deckName, err := app.ResolveDeck(deck)
	if err != nil {
		Fatal(err)
	}

	if question == "" {
		if question, err = app.Prompter.Input("Question", ""); err != nil {
			Fatal(fmt.Errorf("question is required: %w", err))
		}
	}
	if answer == "" {
		if answer, err = app.Prompter.Input("Answer", ""); err != nil {
			Fatal(fmt.Errorf("answer is required: %w", err))
		}
	}

	card, err := app.DeckService.AddCard(deckName, question, answer)
	if err != nil {
		Fatal(err)
	}

	cards, _ := app.DeckService.Cards(deckName)
	position := len(cards)

	if g.Json {
		if err := printJson(CardOutput{Deck: deckName, Card: cardToJson(position, card)}); err != nil {
			Fatal(err)
		}
		return
	}

	PrintSuccess("Added card %s to %q", RenderID(fmt.Sprintf("#%d", position)), deckName)
}
