package cli

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/amterp/elysian/internal/config"
	"github.com/amterp/elysian/internal/store"
	"github.com/amterp/ra"
)

// completionCtx provides lightweight store access for shell completion.
// Completion functions run during ParseOrExit, before NewApp() is called,
// so we can't use the full App. This initializes just enough to list decks.
type completionCtx struct {
	once      sync.Once
	deckStore *store.FileDeckStore
	err       error
}

var compCtx completionCtx

func initCompletionCtx() {
	compCtx.once.Do(func() {
		workDir, err := os.Getwd()
		if err != nil {
			compCtx.err = err
			return
		}

		deckFile := flagFromArgs(os.Args, "file", "F")
		if deckFile == "" {
			// Graceful degradation: a broken global config falls back to defaults
			globalCfg, _ := store.NewGlobalStore().Load()
			deckFile = globalCfg.GetDeckFile()
		}

		compCtx.deckStore = store.NewDeckStore(config.NewPaths(workDir, deckFile))
	})
}

// completeDecks returns deck names matching the given prefix.
func completeDecks(toComplete string) ([]string, ra.CompletionDirective) {
	initCompletionCtx()
	if compCtx.err != nil {
		return nil, ra.CompletionDirectiveNoFileComp
	}

	// Strict read: completion should not offer the starter deck for a broken file
	collection, err := compCtx.deckStore.Read()
	if err != nil {
		return nil, ra.CompletionDirectiveNoFileComp
	}

	return matchPrefix(collection.Names(), toComplete), ra.CompletionDirectiveNoFileComp
}

// matchPrefix filters names to those starting with prefix, ignoring case.
func matchPrefix(names []string, prefix string) []string {
	var result []string
	lower := strings.ToLower(prefix)
	for _, name := range names {
		if strings.HasPrefix(strings.ToLower(name), lower) {
			result = append(result, name)
		}
	}
	return result
}

// flagFromArgs scans the argument list for an explicit --long/-short flag value.
func flagFromArgs(args []string, long, short string) string {
	longFlag, shortFlag := "--"+long, "-"+short
	for i, arg := range args {
		// --flag=value or -f=value (skip empty values so fallback logic runs)
		if strings.HasPrefix(arg, longFlag+"=") {
			if v := strings.TrimPrefix(arg, longFlag+"="); v != "" {
				return v
			}
		}
		if strings.HasPrefix(arg, shortFlag+"=") {
			if v := strings.TrimPrefix(arg, shortFlag+"="); v != "" {
				return v
			}
		}
		// --flag value or -f value
		if (arg == longFlag || arg == shortFlag) && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

// registerCompletion adds the "elysian completion <shell>" command.
func registerCompletion(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("completion")
	cmd.SetDescription("Output shell completion script")

	ctx.CompletionShell, _ = ra.NewString("shell").
		SetUsage("Shell type").
		SetEnumConstraint([]string{"bash", "zsh"}).
		Register(cmd)

	ctx.CompletionUsed, _ = parent.RegisterCmd(cmd)
}

// runCompletion outputs the shell completion script to stdout.
func runCompletion(shell string, rootCmd *ra.Cmd) {
	var err error
	switch shell {
	case "bash":
		err = rootCmd.GenBashCompletion(os.Stdout)
	case "zsh":
		err = rootCmd.GenZshCompletion(os.Stdout)
	default:
		Fatal(fmt.Errorf("unsupported shell: %s (supported: bash, zsh)", shell))
	}
	if err != nil {
		Fatal(fmt.Errorf("failed to generate completion script: %w", err))
	}
}
