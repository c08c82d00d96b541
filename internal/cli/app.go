package cli

import (
	"fmt"
	"os"

	"github.com/amterp/elysian/internal/config"
	"github.com/amterp/elysian/internal/editor"
	"github.com/amterp/elysian/internal/model"
	"github.com/amterp/elysian/internal/prompt"
	"github.com/amterp/elysian/internal/resolver"
	"github.com/amterp/elysian/internal/service"
	"github.com/amterp/elysian/internal/store"
)

// App holds all the dependencies for the CLI.
type App struct {
	GlobalStore  store.GlobalStore
	GlobalConfig *model.GlobalConfig
	Paths        *config.Paths
	DeckStore    *store.FileDeckStore
	DeckService  *service.DeckService
	Prompter     prompt.Prompter
	DeckResolver *resolver.DeckResolver
	Interactive  bool
}

// NewApp creates a new App with all dependencies wired up.
// If interactive is false, uses NoopPrompter that fails on prompts.
func NewApp(g GlobalOptions) (*App, error) {
	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to determine working directory: %w", err)
	}

	var prompter prompt.Prompter
	if g.NonInteractive {
		prompter = &prompt.NoopPrompter{}
	} else {
		prompter = prompt.NewHuhPrompter()
	}

	return newApp(store.NewGlobalStore(), workDir, g.DeckFile, prompter, !g.NonInteractive), nil
}

func newApp(globalStore store.GlobalStore, workDir, deckFile string, prompter prompt.Prompter, interactive bool) *App {
	// Load global config with warnings (don't silently ignore errors)
	globalCfg, err := globalStore.Load()
	if err != nil {
		PrintWarning("failed to load global config: %v", err)
		globalCfg = nil
	}

	if deckFile == "" {
		deckFile = globalCfg.GetDeckFile()
	}

	paths := config.NewPaths(workDir, deckFile)
	deckStore := store.NewDeckStore(paths)
	deckService := service.NewDeckService(deckStore)

	return &App{
		GlobalStore:  globalStore,
		GlobalConfig: globalCfg,
		Paths:        paths,
		DeckStore:    deckStore,
		DeckService:  deckService,
		Prompter:     prompter,
		DeckResolver: resolver.NewDeckResolver(deckService, globalStore, prompter),
		Interactive:  interactive,
	}
}

// ResolveDeck picks the deck a command operates on.
func (a *App) ResolveDeck(explicit string) (string, error) {
	return a.DeckResolver.Resolve(explicit, a.Interactive)
}

// Editor returns an editor honoring the global config.
func (a *App) Editor() *editor.Editor {
	return editor.NewEditor(a.GlobalConfig)
}

// Fatal prints an error and exits.
func Fatal(err error) {
	PrintError("%v", err)
	os.Exit(1)
}

func mustApp(g GlobalOptions) *App {
	app, err := NewApp(g)
	if err != nil {
		Fatal(err)
	}
	return app
}
