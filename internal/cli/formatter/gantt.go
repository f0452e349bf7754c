package formatter

import (
	"fmt"
	"math"
	"strings"

	"github.com/alexanderramin/ganttboard/internal/domain"
	"github.com/alexanderramin/ganttboard/internal/timeline"
	"github.com/alexanderramin/ganttboard/internal/viewmodel"
)

const (
	labelWidth   = 28
	minChartCols = 20
	barGlyph     = "█"
	restGlyph    = "▒"
	milestone    = "◆"
)

// GanttOptions tunes RenderGantt. Cursor is the row index to highlight,
// or -1 for none.
type GanttOptions struct {
	Width  int
	Cursor int
}

// RenderGantt draws the view as a terminal chart: one label column and
// a bar track scaled from the axis pixel width to the available columns.
func RenderGantt(v viewmodel.View, opts GanttOptions) string {
	var b strings.Builder

	title := CoalesceTitle(v.Project.Name)
	b.WriteString(StyleHeader.Render(title))
	b.WriteString(Dim(fmt.Sprintf("  %d of %d items · %s · zoom %.2fx", v.Visible, v.Total, v.Scale, v.Zoom)))
	b.WriteString("\n")

	cols := max(minChartCols, opts.Width-labelWidth-1)
	if v.Total == 0 {
		b.WriteString("\n" + Dim("No work items yet. Add one with `ganttboard item add`.") + "\n")
		return b.String()
	}

	scale := float64(cols) / math.Max(1, v.Axis.PixelWidth)
	b.WriteString(PadRight("", labelWidth+1))
	b.WriteString(renderRuler(v.Buckets, cols, scale))
	b.WriteString("\n")

	row := 0
	writeRow := func(iv viewmodel.ItemView, indent bool, note string) {
		label := iv.Item.Name
		if indent {
			label = "  " + label
		}
		label = PadRight(Truncate(label, labelWidth), labelWidth)
		if row == opts.Cursor {
			label = StyleBold.Reverse(true).Render(label)
		} else if !indent {
			label = StyleBold.Render(label)
		}
		b.WriteString(label + " " + renderTrack(iv, cols, scale))
		if note != "" {
			b.WriteString(" " + StyleAmber.Render(note))
		}
		b.WriteString("\n")
		row++
	}

	for _, g := range v.Groups {
		writeRow(g.Parent, false, "")
		for _, c := range g.Children {
			writeRow(c, true, "")
		}
	}
	if len(v.Unresolved) > 0 {
		b.WriteString(Dim(strings.Repeat("·", labelWidth)) + "\n")
		for _, u := range v.Unresolved {
			writeRow(u.ItemView, false, "("+string(u.Reason)+")")
		}
	}

	if v.Visible == 0 {
		b.WriteString(Dim("No items match the current filter.") + "\n")
	}
	b.WriteString(Dim(DateRange(v.Axis.VisibleStart, v.Axis.VisibleEnd)) + "\n")
	return b.String()
}

// CoalesceTitle returns name or a generic board title.
func CoalesceTitle(name string) string {
	return domain.CoalesceStr(name, "Project Board")
}

func renderRuler(buckets []timeline.Bucket, cols int, scale float64) string {
	line := []rune(strings.Repeat(" ", cols))
	next := 0
	for _, bk := range buckets {
		at := int(bk.Left * scale)
		if at < next || at >= cols {
			continue
		}
		line[at] = '│'
		for i, r := range []rune(bk.Label) {
			p := at + 1 + i
			if p >= cols || p-at > int(bk.Width*scale) {
				break
			}
			line[p] = r
			next = p + 2
		}
	}
	return Dim(string(line))
}

func renderTrack(iv viewmodel.ItemView, cols int, scale float64) string {
	start, width := barCols(iv.Bar, cols, scale)
	style := Hex(iv.Item.Color)
	lead := strings.Repeat(" ", start)

	if iv.Item.Type == domain.ItemMilestone {
		return lead + style.Render(milestone)
	}

	done := width * domain.ClampProgress(iv.Item.Progress) / 100
	return lead +
		style.Render(strings.Repeat(barGlyph, done)) +
		style.Faint(true).Render(strings.Repeat(restGlyph, width-done))
}

// barCols maps pixel geometry onto the terminal grid. Every bar keeps at
// least one column and stays inside the track.
func barCols(bar timeline.Bar, cols int, scale float64) (start, width int) {
	start = int(math.Round(bar.Left * scale))
	start = max(0, min(cols-1, start))
	width = int(math.Round(bar.Width * scale))
	width = max(1, min(cols-start, width))
	return start, width
}
