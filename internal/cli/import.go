package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/amterp/elysian/internal/editor"
	"github.com/amterp/ra"
)

func registerImport(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("import")
	cmd.SetDescription("Bulk import 'question: answer' lines into a deck")

	ctx.ImportFile, _ = ra.NewString("file").
		SetOptional(true).
		SetUsage("File to import ('-' reads stdin)").
		Register(cmd)

	ctx.ImportDeck, _ = ra.NewString("deck").
		SetShort("d").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Target deck").
		SetCompletionFunc(completeDecks).
		Register(cmd)

	ctx.ImportEdit, _ = ra.NewBool("edit").
		SetShort("e").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Compose the lines in $EDITOR (prefilled with the file, if given)").
		Register(cmd)

	ctx.ImportUsed, _ = parent.RegisterCmd(cmd)
}

func runImport(file, deck string, edit bool, g GlobalOptions) {
	app := mustApp(g)

	deckName, err := app.ResolveDeck(deck)
	if err != nil {
		Fatal(err)
	}

	raw, err := readImportSource(file, os.Stdin)
	if err != nil {
		Fatal(err)
	}

	switch {
	case edit:
		if !app.Interactive {
			Fatal(fmt.Errorf("--edit cannot be used in non-interactive mode"))
		}
		content := editor.ImportTemplate
		if raw != "" {
			content += raw
		}
		if raw, err = app.Editor().Edit(content); err != nil {
			Fatal(err)
		}
	case file == "":
		if raw, err = app.Prompter.Text("Paste cards, one 'question: answer' per line", ""); err != nil {
			Fatal(fmt.Errorf("no import source: pass a file, '-' for stdin, or --edit: %w", err))
		}
	}

	added, err := app.DeckService.BulkImport(deckName, raw)
	if err != nil {
		Fatal(err)
	}

	if g.Json {
		if err := printJson(ImportOutput{Deck: deckName, Added: added}); err != nil {
			Fatal(err)
		}
		return
	}

	if added == 0 {
		PrintWarning("No cards imported; expected lines like 'question: answer'")
		return
	}
	PrintSuccess("Imported %d card(s) into %q", added, deckName)
}

// readImportSource returns the raw import text for the file argument.
// An empty argument yields no text so the caller can fall back to a prompt.
func readImportSource(file string, stdin io.Reader) (string, error) {
	switch file {
	case "":
		return "", nil
	case "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	default:
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read import file: %w", err)
		}
		return string(data), nil
	}
}
