package cli

import (
	"fmt"

	"github.com/amterp/ra"
)

func registerDelete(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("delete")
	cmd.SetDescription("Delete a card")

	ctx.DeleteIndex, _ = ra.NewInt("number").
		SetUsage("Card number, as shown by 'elysian list'").
		Register(cmd)

	ctx.DeleteDeck, _ = ra.NewString("deck").
		SetShort("d").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Deck name").
		SetCompletionFunc(completeDecks).
		Register(cmd)

	ctx.DeleteForce, _ = ra.NewBool("force").
		SetShort("f").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Skip confirmation (required in non-interactive mode)").
		Register(cmd)

	ctx.DeleteUsed, _ = parent.RegisterCmd(cmd)
}

func runDelete(number int, deck string, force bool, g GlobalOptions) {
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
	card := cards[index]

	if !force {
		if !app.Interactive {
			Fatal(fmt.Errorf("deleting card #%d (%q) requires --force in non-interactive mode", number, card.Q))
		}

		confirmed, err := app.Prompter.Confirm(
			fmt.Sprintf("Delete card #%d (%q)?", number, card.Q),
			false,
		)
		if err != nil {
			Fatal(err)
		}
		if !confirmed {
			PrintInfo("Cancelled")
			return
		}
	}

	if _, err := app.DeckService.DeleteCard(deckName, index); err != nil {
		Fatal(err)
	}

	PrintSuccess("Deleted card #%d (%q) from %q", number, card.Q, deckName)
}
