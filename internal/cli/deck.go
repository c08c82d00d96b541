package cli

import (
	"fmt"

	"github.com/amterp/ra"
)

func registerDeck(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("deck")
	cmd.SetDescription("Manage decks")

	// deck create
	createCmd := ra.NewCmd("create")
	createCmd.SetDescription("Create a new deck")

	ctx.DeckCreateName, _ = ra.NewString("name").
		SetOptional(true).
		SetUsage("Name of the deck to create (default: next free 'Deck N')").
		Register(createCmd)

	ctx.DeckCreateUsed, _ = cmd.RegisterCmd(createCmd)

	// deck list
	listCmd := ra.NewCmd("list")
	listCmd.SetDescription("List all decks")

	ctx.DeckListUsed, _ = cmd.RegisterCmd(listCmd)

	ctx.DeckUsed, _ = parent.RegisterCmd(cmd)
}

func runDeckCreate(name string, g GlobalOptions) {
	app := mustApp(g)

	var (
		created string
		err     error
	)
	if name == "" {
		created, err = app.DeckService.AddNextDeck()
	} else {
		created, err = app.DeckService.AddDeck(name)
	}
	if err != nil {
		Fatal(err)
	}

	if g.Json {
		if err := printJson(DeckOutput{Deck: deckJson{Name: created, Cards: 0}}); err != nil {
			Fatal(err)
		}
		return
	}

	PrintSuccess("Created deck %q", created)
}

func runDeckList(g GlobalOptions) {
	app := mustApp(g)

	output := NewDecksOutput(app.DeckService)
	if g.Json {
		if err := printJson(output); err != nil {
			Fatal(err)
		}
		return
	}

	if len(output.Decks) == 0 {
		PrintInfo("No decks found")
		return
	}

	for _, deck := range output.Decks {
		fmt.Printf("%s %s\n", deck.Name, RenderMuted(fmt.Sprintf("(%d)", deck.Cards)))
	}
}
