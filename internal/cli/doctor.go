package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/amterp/elysian/internal/service"
	"github.com/amterp/ra"
)

func registerDoctor(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("doctor")
	cmd.SetDescription("Check the deck file for problems. Exit 0 if healthy, 1 if errors found.")

	ctx.DoctorFix, _ = ra.NewBool("fix").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Apply automatic fixes for issues with deterministic solutions").
		Register(cmd)

	ctx.DoctorDryRun, _ = ra.NewBool("dry-run").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Show what fixes would be applied without making changes").
		Register(cmd)

	ctx.DoctorUsed, _ = parent.RegisterCmd(cmd)
}

func runDoctor(fix bool, dryRun bool, g GlobalOptions) {
	// --fix and --dry-run are mutually exclusive
	if fix && dryRun {
		Fatal(fmt.Errorf("--fix and --dry-run cannot be used together"))
	}

	app := mustApp(g)
	doctorService := service.NewDoctorService(app.DeckStore, app.GlobalStore)

	report := doctorService.Diagnose()

	// Apply fixes if requested (not in dry-run mode)
	if fix && len(report.Issues) > 0 {
		var err error
		report, err = doctorService.Fix(report)
		if err != nil {
			Fatal(err)
		}
	}

	if g.Json {
		if err := printJson(report); err != nil {
			Fatal(err)
		}
	} else {
		printDoctorReport(report, fix, dryRun)
	}

	// Exit with status 1 if there are errors
	if report.HasErrors() {
		os.Exit(1)
	}
}

func printDoctorReport(report *service.DiagnosticReport, didFix bool, dryRun bool) {
	fmt.Printf("Checking %s...\n", RenderBold(report.DeckFile))
	for _, deck := range report.Decks {
		fmt.Printf("  %s %s\n", deck.Name, RenderMuted(fmt.Sprintf("(%d cards)", deck.Cards)))
	}
	fmt.Println()

	fixedCount := 0
	if didFix {
		fixedCount = report.Summary.Fixed
	}

	if fixedCount > 0 {
		PrintSuccess("Fixed %d issue(s)", fixedCount)
		fmt.Println()
	}

	fixableCount := 0
	for _, issue := range report.Issues {
		if issue.Fixable {
			fixableCount++
		}
	}

	if dryRun && fixableCount > 0 {
		PrintInfo("Dry run: %d issue(s) would be fixed", fixableCount)
		fmt.Println()
	}

	if len(report.Issues) == 0 {
		if fixedCount == 0 {
			PrintSuccess("No issues found")
		} else {
			PrintSuccess("All issues resolved")
		}
		return
	}

	// Errors first, then warnings
	for _, issue := range report.Issues {
		if issue.Severity == service.SeverityError {
			printIssue(issue)
		}
	}
	for _, issue := range report.Issues {
		if issue.Severity != service.SeverityError {
			printIssue(issue)
		}
	}

	fmt.Println()
	summaryParts := []string{}
	if report.Summary.Errors > 0 {
		summaryParts = append(summaryParts, StyleError.Render(fmt.Sprintf("%d error(s)", report.Summary.Errors)))
	}
	if report.Summary.Warnings > 0 {
		summaryParts = append(summaryParts, StyleWarning.Render(fmt.Sprintf("%d warning(s)", report.Summary.Warnings)))
	}
	if fixedCount > 0 {
		summaryParts = append(summaryParts, StyleSuccess.Render(fmt.Sprintf("%d fixed", fixedCount)))
	}
	if report.Summary.FixFailed > 0 {
		summaryParts = append(summaryParts, StyleError.Render(fmt.Sprintf("%d fix failed", report.Summary.FixFailed)))
	}

	fmt.Printf("Summary: %s\n", strings.Join(summaryParts, ", "))

	if !didFix && fixableCount > 0 {
		fmt.Println()
		if dryRun {
			PrintInfo("Run 'elysian doctor --fix' to apply these fixes")
		} else {
			PrintInfo("Run 'elysian doctor --fix' to apply automatic fixes")
		}
	}
}

func printIssue(issue service.Issue) {
	style, icon := StyleWarning, IconWarning
	if issue.Severity == service.SeverityError {
		style, icon = StyleError, IconError
	}

	fmt.Printf("%s %s%s %s\n", style.Render(icon), style.Render(fmt.Sprintf("[%s]", issue.Code)), issueLocation(issue), issue.Message)

	if issue.FixError != "" {
		fmt.Printf("  %s Fix failed: %s\n", StyleError.Render(IconInfo), issue.FixError)
	} else if issue.FixAction != "" {
		if issue.Fixable {
			fmt.Printf("  %s Fix: %s\n", RenderMuted(IconInfo), issue.FixAction)
		} else {
			fmt.Printf("  %s %s\n", RenderMuted(IconInfo), issue.FixAction)
		}
	}
}

// issueLocation renders " deck/#n" for issues tied to a deck or card.
func issueLocation(issue service.Issue) string {
	if issue.Deck == "" {
		return ""
	}
	location := " " + RenderMuted(issue.Deck)
	if issue.Card != nil {
		location += "/" + RenderID(fmt.Sprintf("#%d", *issue.Card+1))
	}
	return location
}
