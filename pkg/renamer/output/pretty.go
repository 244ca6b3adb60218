package output

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// arrow separates the original and proposed names in the pretty table.
const arrow = "→"

// PrettyFormatter formats output with colors and styling using lipgloss.
// Only rows that change or fail are listed; unchanged rows are counted in
// the footer.
type PrettyFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PrettyFormatter) Format(w *bytes.Buffer, r *Result) error {
	w.WriteString(f.formatHeader(r))
	w.WriteString("\n")

	w.WriteString(f.formatTable(r))

	w.WriteString(f.formatFooter(r))

	if len(r.Warnings) > 0 {
		w.WriteString("\n")
		w.WriteString(f.formatWarnings(r.Warnings))
	}

	return nil
}

// formatHeader builds the header box with run metadata.
func (f *PrettyFormatter) formatHeader(r *Result) string {
	var lines []string

	lines = append(lines, fmt.Sprintf("%s %s", LabelStyle.Render("Source:"), ValueStyle.Render(r.Source)))
	if r.Rule != "" {
		lines = append(lines, fmt.Sprintf("%s %s", LabelStyle.Render("Rule:"), ValueStyle.Render(r.Rule)))
	}

	var infoParts []string
	infoParts = append(infoParts, fmt.Sprintf("%s %s",
		LabelStyle.Render("Items:"),
		ValueStyle.Render(fmt.Sprintf("%s in %s",
			humanize.Comma(int64(r.Stats.Items)),
			formatDuration(r.Stats.ScanDuration+r.Stats.RuleDuration)))))
	if r.Stats.CacheHits > 0 {
		infoParts = append(infoParts, MutedStyle.Render(fmt.Sprintf("%s cached", humanize.Comma(r.Stats.CacheHits))))
	}
	infoParts = append(infoParts, f.formatMode(r))
	lines = append(lines, strings.Join(infoParts, "  "))

	if r.Interrupted {
		lines = append(lines, WarningStyle.Bold(true).Render("Run interrupted by user"))
	}

	return HeaderBox.Render(strings.Join(lines, "\n"))
}

// formatMode returns a styled string telling whether files were renamed.
func (f *PrettyFormatter) formatMode(r *Result) string {
	if r.Applied {
		return SuccessStyle.Render("applied")
	}
	return WarningStyle.Render("preview")
}

// formatTable builds the rename table.
func (f *PrettyFormatter) formatTable(r *Result) string {
	var rows []Row
	for _, row := range r.Rows {
		if row.Changed || row.Status == StatusFailed || row.Status == StatusInvalid {
			rows = append(rows, row)
		}
	}

	if len(rows) == 0 {
		return MutedStyle.Render("  No names change\n")
	}

	width := 8
	for _, row := range rows {
		width = max(width, lipgloss.Width(displayPath(r, row)))
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("  %s  %s\n",
		TableHeaderStyle.Render(padRight("ORIGINAL", width)),
		TableHeaderStyle.Render("PROPOSED")))

	for _, row := range rows {
		original := PathStyle.Render(padRight(displayPath(r, row), width))
		sb.WriteString(fmt.Sprintf("  %s %s %s\n", original, MutedStyle.Render(arrow), f.formatTarget(row)))
	}

	return sb.String()
}

// formatTarget renders the proposed name, styled by status.
func (f *PrettyFormatter) formatTarget(row Row) string {
	switch row.Status {
	case StatusFailed, StatusInvalid:
		return ErrorStyle.Render(row.Proposed) + " " + MutedStyle.Render("("+row.Reason+")")
	case StatusRenamed:
		return SuccessStyle.Render(row.Proposed)
	}
	target := ProposedStyle.Render(row.Proposed)
	if row.Reason != "" {
		target += " " + MutedStyle.Render("("+row.Reason+")")
	}
	return target
}

// formatFooter builds the footer box with summary information.
func (f *PrettyFormatter) formatFooter(r *Result) string {
	var parts []string

	label := "Changes:"
	if r.Applied {
		label = "Renamed:"
	}
	parts = append(parts, fmt.Sprintf("%s %s", LabelStyle.Render(label), ValueStyle.Render(humanize.Comma(int64(r.Stats.Changed)))))

	unchanged := r.Stats.Items - r.Stats.Changed
	parts = append(parts, fmt.Sprintf("%s %s", LabelStyle.Render("Unchanged:"), MutedStyle.Render(humanize.Comma(int64(unchanged)))))

	if r.Stats.Failed > 0 {
		parts = append(parts, fmt.Sprintf("%s %s", LabelStyle.Render("Failed:"), ErrorStyle.Render(humanize.Comma(int64(r.Stats.Failed)))))
	}

	parts = append(parts, fmt.Sprintf("%s %s", LabelStyle.Render("Size:"), SizeStyle.Render(humanize.IBytes(uint64(r.TotalSize())))))

	switch {
	case r.Applied && r.ManifestID != "":
		parts = append(parts, MutedStyle.Render("Undo with: renamer undo "+r.ManifestID))
	case !r.Applied && r.Stats.Changed > 0:
		parts = append(parts, MutedStyle.Render("Use --apply to rename"))
	}

	return FooterBox.Render(strings.Join(parts, "  "))
}

// formatWarnings builds a warning block.
func (f *PrettyFormatter) formatWarnings(warnings []string) string {
	var sb strings.Builder

	sb.WriteString(WarningStyle.Bold(true).Render("Warnings:"))
	sb.WriteString("\n")

	for _, warning := range warnings {
		sb.WriteString(WarningStyle.Render("  " + warning))
		sb.WriteString("\n")
	}

	return sb.String()
}

// padRight pads a string with spaces on the right to the given display width.
func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// formatDuration formats a time.Duration as a human-friendly string.
func formatDuration(d time.Duration) string {
	sec := d.Seconds()
	if sec < 1 {
		return fmt.Sprintf("%.0fms", sec*1000)
	}
	if sec < 60 {
		return fmt.Sprintf("%.1fs", sec)
	}
	minutes := int(sec) / 60
	seconds := int(sec) % 60
	if minutes < 60 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	hours := minutes / 60
	minutes = minutes % 60
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

func init() {
	Register("pretty", func() Formatter {
		return &PrettyFormatter{}
	})
}

// Ensure PrettyFormatter implements Formatter.
var _ Formatter = (*PrettyFormatter)(nil)
