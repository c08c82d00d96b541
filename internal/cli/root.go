package cli

import (
	"os"

	"github.com/amterp/ra"
)

// CommandContext holds parsed values and used flags for all commands.
type CommandContext struct {
	// Global flags
	NonInteractive *bool
	DeckFile       *string
	Json           *bool

	// deck command
	DeckUsed       *bool
	DeckCreateUsed *bool
	DeckCreateName *string
	DeckListUsed   *bool

	// add command
	AddUsed     *bool
	AddQuestion *string
	AddAnswer   *string
	AddDeck     *string

	// list command
	ListUsed *bool
	ListDeck *string

	// edit command
	EditUsed     *bool
	EditIndex    *int
	EditQuestion *string
	EditAnswer   *string
	EditDeck     *string

	// delete command
	DeleteUsed  *bool
	DeleteIndex *int
	DeleteDeck  *string
	DeleteForce *bool

	// import command
	ImportUsed *bool
	ImportFile *string
	ImportDeck *string
	ImportEdit *bool

	// study command
	StudyUsed *bool
	StudyDeck *string
	StudyGoal *int

	// timer command
	TimerUsed    *bool
	TimerSeconds *int

	// doctor command
	DoctorUsed   *bool
	DoctorFix    *bool
	DoctorDryRun *bool

	// serve command
	ServeUsed *bool
	ServePort *int

	// completion command
	CompletionUsed  *bool
	CompletionShell *string
}

// GlobalOptions carries the global flags into each command.
type GlobalOptions struct {
	DeckFile       string
	NonInteractive bool
	Json           bool
}

func (ctx *CommandContext) globals() GlobalOptions {
	return GlobalOptions{
		DeckFile:       *ctx.DeckFile,
		NonInteractive: *ctx.NonInteractive,
		Json:           *ctx.Json,
	}
}

// Run is the main entry point for the CLI.
func Run() {
	ctx := &CommandContext{}

	cmd := ra.NewCmd("elysian")
	cmd.SetDescription("Flashcards in a single JSON file")

	// Global flag for non-interactive mode
	ctx.NonInteractive, _ = ra.NewBool("non-interactive").
		SetShort("I").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Fail instead of prompting for missing input").
		Register(cmd, ra.WithGlobal(true))

	ctx.DeckFile, _ = ra.NewString("file").
		SetShort("F").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Deck file to use (default: deck_file from config, or decks.json)").
		Register(cmd, ra.WithGlobal(true))

	ctx.Json, _ = ra.NewBool("json").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Print machine-readable JSON where supported").
		Register(cmd, ra.WithGlobal(true))

	// Register all subcommands
	registerDeck(cmd, ctx)
	registerAdd(cmd, ctx)
	registerList(cmd, ctx)
	registerEdit(cmd, ctx)
	registerDelete(cmd, ctx)
	registerImport(cmd, ctx)
	registerStudy(cmd, ctx)
	registerTimer(cmd, ctx)
	registerDoctor(cmd, ctx)
	registerServe(cmd, ctx)
	registerCompletion(cmd, ctx)

	// Parse command line
	cmd.ParseOrExit(os.Args[1:])

	// Execute the appropriate command
	executeCommand(ctx, cmd)
}

func executeCommand(ctx *CommandContext, rootCmd *ra.Cmd) {
	g := ctx.globals()

	switch {
	case *ctx.DeckCreateUsed:
		runDeckCreate(*ctx.DeckCreateName, g)

	case *ctx.DeckListUsed:
		runDeckList(g)

	case *ctx.AddUsed:
		runAdd(*ctx.AddQuestion, *ctx.AddAnswer, *ctx.AddDeck, g)

	case *ctx.ListUsed:
		runList(*ctx.ListDeck, g)

	case *ctx.EditUsed:
		runEdit(*ctx.EditIndex, *ctx.EditQuestion, *ctx.EditAnswer, *ctx.EditDeck, g)

	case *ctx.DeleteUsed:
		runDelete(*ctx.DeleteIndex, *ctx.DeleteDeck, *ctx.DeleteForce, g)

	case *ctx.ImportUsed:
		runImport(*ctx.ImportFile, *ctx.ImportDeck, *ctx.ImportEdit, g)

	case *ctx.StudyUsed:
		runStudy(*ctx.StudyDeck, *ctx.StudyGoal, g)

	case *ctx.TimerUsed:
		runTimer(*ctx.TimerSeconds, g)

	case *ctx.DoctorUsed:
		runDoctor(*ctx.DoctorFix, *ctx.DoctorDryRun, g)

	case *ctx.ServeUsed:
		runServe(*ctx.ServePort, g)

	case *ctx.CompletionUsed:
		runCompletion(*ctx.CompletionShell, rootCmd)
	}
}
