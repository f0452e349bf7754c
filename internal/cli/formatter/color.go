// Package formatter renders board data for the terminal with lipgloss.
package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/ganttboard/internal/domain"
	"github.com/alexanderramin/ganttboard/internal/palette"
)

// Chrome colours. Item, status and priority colours come from palette.
var (
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
	ColorGreen  = lipgloss.Color(palette.Green)
	ColorRed    = lipgloss.Color(palette.Red)
	ColorAmber  = lipgloss.Color(palette.Amber)
)

var (
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleAmber  = lipgloss.NewStyle().Foreground(ColorAmber)
)

// Hex returns a foreground style for a #RRGGBB colour.
func Hex(color string) lipgloss.Style {
	if color == "" {
		color = palette.Default
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

// Header renders a section header with an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}

var statusGlyphs = map[domain.ItemStatus]string{
	domain.StatusNotStarted: "○",
	domain.StatusInProgress: "◐",
	domain.StatusCompleted:  "✔",
	domain.StatusOnHold:     "‖",
	domain.StatusCancelled:  "✖",
}

// StatusPill renders a glyph and the status name in the status colour.
func StatusPill(s domain.ItemStatus) string {
	glyph, ok := statusGlyphs[s]
	if !ok {
		glyph = "?"
	}
	return Hex(palette.StatusColor(s)).Render(glyph + " " + string(s))
}

func PriorityPill(p domain.Priority) string {
	return Hex(palette.PriorityColor(p)).Render("▲ " + string(p))
}

func ApprovalPill(a domain.Approval) string {
	return Hex(palette.ApprovalColor(a)).Render(string(a))
}

func TypeBadge(t domain.ItemType) string {
	return Hex(palette.TypeColor(t)).Render(string(t))
}
