package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette. Each color adapts to light and dark terminals.
var (
	ColorSuccess = lipgloss.AdaptiveColor{Dark: "#34d399", Light: "#059669"}
	ColorError   = lipgloss.AdaptiveColor{Dark: "#f87171", Light: "#dc2626"}
	ColorWarning = lipgloss.AdaptiveColor{Dark: "#fbbf24", Light: "#b45309"}
	ColorInfo    = lipgloss.AdaptiveColor{Dark: "#60a5fa", Light: "#1d4ed8"}
	ColorMuted   = lipgloss.AdaptiveColor{Dark: "#6b7280", Light: "#9ca3af"}
	ColorAccent  = lipgloss.AdaptiveColor{Dark: "#c4b5fd", Light: "#6d28d9"} // card numbers, card border
	ColorURL     = lipgloss.AdaptiveColor{Dark: "#38bdf8", Light: "#0284c7"}
)

var (
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)
	StyleInfo    = lipgloss.NewStyle().Foreground(ColorInfo)
	StyleMuted   = lipgloss.NewStyle().Foreground(ColorMuted)
	StyleID      = lipgloss.NewStyle().Foreground(ColorAccent)
	StyleURL     = lipgloss.NewStyle().Foreground(ColorURL).Underline(true)
	StyleBold    = lipgloss.NewStyle().Bold(true)

	styleCard = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorAccent).
			Padding(1, 3).
			Width(cardWidth)
)

const (
	IconSuccess = "✓"
	IconError   = "✗"
	IconWarning = "!"
	IconInfo    = "→"

	cardWidth = 60
)

func printStatus(w io.Writer, icon string, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", icon, fmt.Sprintf(format, args...))
}

// PrintSuccess prints a green check line to stdout.
func PrintSuccess(format string, args ...any) {
	printStatus(os.Stdout, StyleSuccess.Render(IconSuccess), format, args...)
}

// PrintError prints a red cross line to stderr.
func PrintError(format string, args ...any) {
	printStatus(os.Stderr, StyleError.Render(IconError), format, args...)
}

// PrintWarning prints an amber line to stderr.
func PrintWarning(format string, args ...any) {
	printStatus(os.Stderr, StyleWarning.Render(IconWarning), format, args...)
}

// PrintInfo prints a muted arrow line to stdout.
func PrintInfo(format string, args ...any) {
	printStatus(os.Stdout, StyleMuted.Render(IconInfo), format, args...)
}

func RenderID(id string) string {
	return StyleID.Render(id)
}

func RenderURL(url string) string {
	return StyleURL.Render(url)
}

func RenderMuted(text string) string {
	return StyleMuted.Render(text)
}

func RenderBold(text string) string {
	return StyleBold.Render(text)
}

// cardBox frames a card face.
func cardBox(content string) string {
	return styleCard.Render(content)
}

// progressBar renders a fraction in [0, 1] as a fixed-width bar.
// Out-of-range fractions are clamped.
func progressBar(fraction float64, width int) string {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	filled := int(fraction*float64(width) + 0.5)
	return StyleSuccess.Render(strings.Repeat("█", filled)) +
		StyleMuted.Render(strings.Repeat("░", width-filled))
}
