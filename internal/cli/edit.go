package cli

import (
	"fmt"

	"github.com/amterp/ra"
)

func registerEdit(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("edit")
	cmd.SetDescription("Edit a card")

	ctx.EditIndex, _ = ra.NewInt("number").
		SetUsage("Card number, as shown by 'elysian list'").
		Register(cmd)

	ctx.EditQuestion, _ = ra.NewString("question").
		SetShort("q").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("New question").
		Register(cmd)

	ctx.EditAnswer, _ = ra.NewString("answer").
		SetShort("a").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("New answer").
		Register(cmd)

	ctx.EditDeck, _ = ra.NewString("deck").
		SetShort("d").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Deck name").
		SetCompletionFunc(completeDecks).
		Register(cmd)

	ctx.EditUsed, _ = parent.RegisterCmd(cmd)
}

func runEdit(number int, question, answer, deck string, g GlobalOptions) {
	app := mustApp(g)

	deckName, err := app.ResolveDeck(deck)
	if err != nil {
		Fatal(err)
	}

	cards, err := app.DeckService.Cards(deckName)
	if err != nil {
		Fatal(err)
	}

	index := number - 1
	if index < 0 || index >= len(cards) {
		Fatal(fmt.Errorf("card #%d not found in %q (%d cards)", number, deckName, len(cards)))
	}
	current := cards[index]

	// With no flags, prompt for both sides prefilled with the current text
	if question == "" && answer == "" {
		if !app.Interactive {
			Fatal(fmt.Errorf("nothing to edit: pass -q and/or -a in non-interactive mode"))
		}
		if question, err = app.Prompter.Input("Question", current.Q); err != nil {
			Fatal(err)
		}
		if answer, err = app.Prompter.Input("Answer", current.A); err != nil {
			Fatal(err)
		}
	}
	if question == "" {
		question = current.Q
	}
	if answer == "" {
		answer = current.A
	}

	changed, err := app.DeckService.UpdateCard(deckName, index, question, answer)
	if err != nil {
		Fatal(err)
	}

	if !changed {
		PrintInfo("No changes made")
		return
	}

	PrintSuccess("Updated card %s in %q", RenderID(fmt.Sprintf("#%d", number)), deckName)
}
