package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/amterp/elysian/internal/id"
	"github.com/amterp/elysian/internal/prompt"
	"github.com/amterp/elysian/internal/service"
	"github.com/amterp/elysian/internal/session"
	"github.com/amterp/ra"
)

// Study loop actions, in menu order.
const (
	actionReveal  = "Show answer"
	actionHide    = "Show question"
	actionNext    = "Next"
	actionPrev    = "Previous"
	actionAdd     = "Add card"
	actionEdit    = "Edit card"
	actionDelete  = "Delete card"
	actionImport  = "Import cards"
	actionSwitch  = "Switch deck"
	actionNewDeck = "New deck"
	actionGoal    = "Set daily goal"
	actionQuit    = "Quit"
)

const progressBarWidth = 20

func registerStudy(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("study")
	cmd.SetDescription("Study a deck interactively")

	ctx.StudyDeck, _ = ra.NewString("deck").
		SetShort("d").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Deck to start with").
		SetCompletionFunc(completeDecks).
		Register(cmd)

	ctx.StudyGoal, _ = ra.NewInt("goal").
		SetShort("g").
		SetOptional(true).
		SetDefault(0).
		SetFlagOnly(true).
		SetUsage("Cards to view today (default: daily_goal from config)").
		Register(cmd)

	ctx.StudyUsed, _ = parent.RegisterCmd(cmd)
}

func runStudy(deck string, goal int, g GlobalOptions) {
	app := mustApp(g)

	if !app.Interactive {
		Fatal(fmt.Errorf("study needs an interactive terminal"))
	}

	deckName, err := app.ResolveDeck(deck)
	if err != nil {
		Fatal(err)
	}

	study := service.NewStudyService(app.DeckService, id.NewSessionID(), deckName, app.GlobalConfig.GetDailyGoal())
	if goal != 0 {
		if _, _, err := study.SetGoal(goal); err != nil {
			Fatal(err)
		}
	}

	loop := &studyLoop{
		study:    study,
		decks:    app.DeckService,
		prompter: app.Prompter,
		out:      os.Stdout,
	}
	if err := loop.run(); err != nil {
		Fatal(err)
	}
}

// studyLoop renders the session and applies one menu action per turn.
type studyLoop struct {
	study    *service.StudyService
	decks    *service.DeckService
	prompter prompt.Prompter
	out      io.Writer
}

func (l *studyLoop) run() error {
	view := l.study.View()
	for {
		fmt.Fprintln(l.out, renderView(view))

		action, err := l.prompter.Select("What next?", studyActions(view))
		if prompt.IsAborted(err) || action == actionQuit {
			fmt.Fprintf(l.out, "%s Viewed %d card(s) this session\n", RenderMuted(IconInfo), view.Viewed)
			return nil
		}
		if err != nil {
			return err
		}

		next, err := l.apply(action, view)
		if err != nil {
			if prompt.IsAborted(err) {
				continue
			}
			fmt.Fprintf(l.out, "%s %v\n", StyleError.Render(IconError), err)
			next = l.study.View()
		}
		view = next
	}
}

func (l *studyLoop) apply(action string, view session.View) (session.View, error) {
	switch action {
	case actionReveal, actionHide:
		v, _ := l.study.Flip()
		return v, nil

	case actionNext:
		v, _ := l.study.Next()
		return v, nil

	case actionPrev:
		v, _ := l.study.Prev()
		return v, nil

	case actionAdd:
		question, err := l.prompter.Input("Question", "")
		if err != nil {
			return view, err
		}
		answer, err := l.prompter.Input("Answer", "")
		if err != nil {
			return view, err
		}
		v, _, err := l.study.AddCard(question, answer)
		return v, err

	case actionEdit:
		cards, err := l.decks.Cards(view.Deck)
		if err != nil {
			return view, err
		}
		if view.Position < 1 || view.Position > len(cards) {
			return view, fmt.Errorf("no card to edit")
		}
		current := cards[view.Position-1]
		question, err := l.prompter.Input("Question", current.Q)
		if err != nil {
			return view, err
		}
		answer, err := l.prompter.Input("Answer", current.A)
		if err != nil {
			return view, err
		}
		v, _, err := l.study.EditCurrent(question, answer)
		return v, err

	case actionDelete:
		confirmed, err := l.prompter.Confirm(fmt.Sprintf("Delete card %d of %d?", view.Position, view.Total), false)
		if err != nil || !confirmed {
			return view, err
		}
		v, _, err := l.study.DeleteCurrent()
		return v, err

	case actionImport:
		raw, err := l.prompter.Text("One 'question: answer' per line", "")
		if err != nil {
			return view, err
		}
		v, added, err := l.study.Import(raw)
		if err == nil {
			fmt.Fprintf(l.out, "%s Imported %d card(s)\n", StyleSuccess.Render(IconSuccess), added)
		}
		return v, err

	case actionSwitch:
		name, err := l.prompter.Select("Select deck", l.decks.Decks())
		if err != nil {
			return view, err
		}
		v, _, err := l.study.Select(name)
		return v, err

	case actionNewDeck:
		name, err := l.decks.AddNextDeck()
		if err != nil {
			return view, err
		}
		v, _, err := l.study.Select(name)
		return v, err

	case actionGoal:
		raw, err := l.prompter.Input("Cards per day", strconv.Itoa(view.Goal))
		if err != nil {
			return view, err
		}
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return view, fmt.Errorf("daily goal must be a whole number")
		}
		v, _, err := l.study.SetGoal(n)
		return v, err
	}

	return view, fmt.Errorf("unknown action %q", action)
}

// studyActions lists the menu for the current view. Card actions are
// hidden while the deck is empty.
func studyActions(v session.View) []string {
	var actions []string
	if !v.Empty {
		flip := actionReveal
		if v.Revealed {
			flip = actionHide
		}
		actions = append(actions, flip, actionNext, actionPrev)
	}
	actions = append(actions, actionAdd)
	if !v.Empty {
		actions = append(actions, actionEdit, actionDelete)
	}
	return append(actions, actionImport, actionSwitch, actionNewDeck, actionGoal, actionQuit)
}

// renderView draws the card box and the progress line.
func renderView(v session.View) string {
	var b strings.Builder

	header := RenderBold(v.Deck)
	if v.Empty {
		header += " " + RenderMuted("(empty)")
	} else {
		header += " " + RenderMuted(fmt.Sprintf("%d/%d", v.Position, v.Total))
	}
	b.WriteString(header)
	b.WriteString("\n")

	var body string
	if v.Empty {
		body = RenderMuted("No cards yet. Add one to start studying.")
	} else {
		labelStyle := StyleInfo
		if v.Revealed {
			labelStyle = StyleSuccess
		}
		body = labelStyle.Render(v.Label) + "\n\n" + RenderBold(v.Text)
	}
	b.WriteString(cardBox(body))
	b.WriteString("\n")

	b.WriteString(progressLine(v))
	return b.String()
}

func progressLine(v session.View) string {
	line := fmt.Sprintf("%s %d/%d today", progressBar(v.Progress, progressBarWidth), v.Viewed, v.Goal)
	if v.GoalMet {
		line += " " + StyleSuccess.Render(IconSuccess+" goal met")
	}
	return line
}
