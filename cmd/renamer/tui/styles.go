// Package tui renders the progress view shown while renamer scans, runs its
// rules and renames files. It uses Charmbracelet's Bubble Tea, Lip Gloss and
// Bubbles.
package tui

import "github.com/charmbracelet/lipgloss"

// Color palette for the TUI.
var (
	primaryColor = lipgloss.Color("#7D56F4")
	warningColor = lipgloss.Color("#FFC107")
	mutedColor   = lipgloss.Color("#666666")
)

// Text styles.
var (
	// titleStyle for main titles.
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	// mutedTextStyle for less important text.
	mutedTextStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	// warningTextStyle for warning messages.
	warningTextStyle = lipgloss.NewStyle().
				Foreground(warningColor)

	// pathStyle for the path being scanned.
	pathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CCCCCC"))

	// statsValueStyle for counters.
	statsValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF"))
)

// truncatePath truncates a path to fit within maxLen, preserving the end.
func truncatePath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	if maxLen <= 3 {
		return path[:maxLen]
	}
	return "..." + path[len(path)-(maxLen-3):]
}
