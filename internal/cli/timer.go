package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amterp/elysian/internal/id"
	"github.com/amterp/elysian/internal/service"
	"github.com/amterp/elysian/internal/session"
	"github.com/amterp/ra"
)

func registerTimer(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("timer")
	cmd.SetDescription("Run a focus countdown in the terminal")

	ctx.TimerSeconds, _ = ra.NewInt("seconds").
		SetShort("s").
		SetOptional(true).
		SetDefault(0).
		SetFlagOnly(true).
		SetUsage(fmt.Sprintf("Countdown length in seconds (presets: %v; default: timer_seconds from config)", session.TimerPresets)).
		Register(cmd)

	ctx.TimerUsed, _ = parent.RegisterCmd(cmd)
}

func runTimer(seconds int, g GlobalOptions) {
	app := mustApp(g)

	if seconds == 0 {
		seconds = app.GlobalConfig.GetTimerSeconds()
	}

	study := service.NewStudyService(app.DeckService, id.NewSessionID(), "", app.GlobalConfig.GetDailyGoal())
	if _, _, err := study.ResetTimer(seconds); err != nil {
		Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	if runCountdown(ctx, study, ticker.C, os.Stdout) {
		fmt.Println()
		PrintSuccess("Time's up")
		return
	}
	fmt.Println()
	PrintInfo("Stopped with %s left", study.View().TimerText)
}

// runCountdown starts the session timer and ticks it once per value on
// tick until it reaches zero or ctx is cancelled. Returns true if the
// countdown finished.
func runCountdown(ctx context.Context, study *service.StudyService, tick <-chan time.Time, out io.Writer) bool {
	view, _ := study.StartTimer()
	fmt.Fprintf(out, "\r%s %s", RenderMuted("Focus"), RenderBold(view.TimerText))

	for view.TimerSeconds > 0 {
		select {
		case <-ctx.Done():
			study.StopTimer()
			return false
		case <-tick:
			var change session.Change
			view, change = study.Tick()
			if change.Has(session.ChangeTimer) {
				fmt.Fprintf(out, "\r%s %s", RenderMuted("Focus"), RenderBold(view.TimerText))
			}
		}
	}

	study.StopTimer()
	return true
}
