package formatter

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/ganttboard/internal/dateutil"
)

// RenderBox wraps content in a rounded border with an optional title.
func RenderBox(title, content string) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		Padding(1, 2)

	if title != "" {
		return box.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return box.Render(content)
}

// TruncID shortens a uuid to its first eight characters.
func TruncID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// DateRange renders "Jan 2 - Jan 9, 2024" style spans.
func DateRange(start, end time.Time) string {
	if start.Year() == end.Year() {
		return dateutil.FormatDateShort(start) + " - " + dateutil.FormatDate(end)
	}
	return dateutil.FormatDate(start) + " - " + dateutil.FormatDate(end)
}

// Truncate cuts s to n visible runes, marking the cut with an ellipsis.
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 {
		return ""
	}
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

// PadRight pads s with spaces to n visible columns.
func PadRight(s string, n int) string {
	return s + strings.Repeat(" ", max(0, n-lipgloss.Width(s)))
}
