package cli

import (
	"fmt"

	"github.com/amterp/elysian/internal/model"
	"github.com/amterp/ra"
)

func registerList(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("list")
	cmd.SetDescription("List the cards in a deck")

	ctx.ListDeck, _ = ra.NewString("deck").
		SetShort("d").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Deck to list").
		SetCompletionFunc(completeDecks).
		Register(cmd)

	ctx.ListUsed, _ = parent.RegisterCmd(cmd)
}

func runList(deck string, g GlobalOptions) {
	app := mustApp(g)

	deckName, err := app.ResolveDeck(deck)
	if err != nil {
		Fatal(err)
	}

	cards, err := app.DeckService.Cards(deckName)
	if err != nil {
		Fatal(err)
	}

	if g.Json {
		if err := printJson(NewCardsOutput(deckName, cards)); err != nil {
			Fatal(err)
		}
		return
	}

	header := RenderBold(deckName)
	countStr := RenderMuted(fmt.Sprintf("(%d)", len(cards)))
	fmt.Printf("%s %s\n", header, countStr)

	if len(cards) == 0 {
		PrintInfo("No cards yet; add one with 'elysian add'")
		return
	}

	width := len(fmt.Sprintf("#%d", len(cards)))
	for i, card := range cards {
		printCardLine(i+1, card, width)
	}
}

func printCardLine(position int, card model.Card, width int) {
	number := fmt.Sprintf("%-*s", width, fmt.Sprintf("#%d", position))
	fmt.Printf("  %s  %s %s %s\n", RenderID(number), card.Q, RenderMuted(IconInfo), card.A)
}
