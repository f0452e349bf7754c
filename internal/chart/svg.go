// Package chart renders a board view as a standalone SVG Gantt chart.
package chart

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/alexanderramin/ganttboard/internal/config"
	"github.com/alexanderramin/ganttboard/internal/dateutil"
	"github.com/alexanderramin/ganttboard/internal/domain"
	"github.com/alexanderramin/ganttboard/internal/palette"
	"github.com/alexanderramin/ganttboard/internal/viewmodel"
)

// rowKind controls label indentation and row background.
type rowKind int

const (
	rowParent rowKind = iota
	rowChild
	rowUnresolved
)

type row struct {
	view viewmodel.ItemView
	kind rowKind
	note string
}

func rows(v viewmodel.View) []row {
	var out []row
	for _, g := range v.Groups {
		out = append(out, row{view: g.Parent, kind: rowParent})
		for _, c := range g.Children {
			out = append(out, row{view: c, kind: rowChild})
		}
	}
	for _, u := range v.Unresolved {
		out = append(out, row{view: u.ItemView, kind: rowUnresolved, note: string(u.Reason)})
	}
	return out
}

// RenderSVG writes the chart for v to w.
func RenderSVG(w io.Writer, v viewmodel.View, style config.ChartConfig) error {
	var svg strings.Builder

	lay := style.Layout
	rs := rows(v)
	chartX := lay.Margin + lay.LabelWidth
	chartY := lay.Margin + lay.HeaderHeight
	width := chartX + int(v.Axis.PixelWidth) + lay.Margin
	height := chartY + max(1, len(rs))*lay.RowHeight + lay.Margin + lay.RowHeight

	fmt.Fprintf(&svg, `<?xml version="1.0" encoding="UTF-8"?>
<svg width="%d" height="%d" viewBox="0 0 %d %d" xmlns="http://www.w3.org/2000/svg">
<rect width="100%%" height="100%%" fill="%s"/>
<defs>
<style>
.title { font-family: %s; font-size: %dpx; font-weight: bold; fill: %s; }
.label { font-family: %s; font-size: %dpx; fill: %s; }
.bucket { font-family: %s; font-size: %dpx; fill: %s; }
.note { font-family: %s; font-size: %dpx; fill: %s; font-style: italic; }
</style>
</defs>
`, width, height, width, height, style.Colors.Background,
		style.Font.Family, style.Font.Size+2, style.Colors.Text,
		style.Font.Family, style.Font.Size, style.Colors.Text,
		style.Font.Family, style.Font.Size-2, style.Colors.Text,
		style.Font.Family, style.Font.Size-2, palette.Gray)

	title := v.Project.Name
	if title == "" {
		title = "Timeline"
	}
	fmt.Fprintf(&svg, `<text class="title" x="%d" y="%d">%s</text>`+"\n",
		lay.Margin, lay.Margin+style.Font.Size, escape(title))
	fmt.Fprintf(&svg, `<text class="label" x="%d" y="%d">%d of %d items</text>`+"\n",
		lay.Margin, chartY-lay.HeaderHeight/4, v.Visible, v.Total)

	// Header buckets and vertical grid.
	fmt.Fprintf(&svg, `<rect x="%d" y="%d" width="%.1f" height="%d" fill="%s"/>`+"\n",
		chartX, lay.Margin, v.Axis.PixelWidth, lay.HeaderHeight, style.Colors.Header)
	gridBottom := chartY + len(rs)*lay.RowHeight
	for _, b := range v.Buckets {
		x := float64(chartX) + b.Left
		fmt.Fprintf(&svg, `<line x1="%.1f" y1="%d" x2="%.1f" y2="%d" stroke="%s" stroke-width="1"/>`+"\n",
			x, lay.Margin, x, gridBottom, style.Colors.Grid)
		fmt.Fprintf(&svg, `<text class="bucket" x="%.1f" y="%d">%s</text>`+"\n",
			x+3, chartY-6, escape(b.Label))
	}

	for i, r := range rs {
		y := chartY + i*lay.RowHeight
		writeRow(&svg, r, chartX, y, style)
	}

	fmt.Fprintf(&svg, `<text class="note" x="%d" y="%d">%s - %s</text>`+"\n",
		chartX, gridBottom+lay.RowHeight/2+style.Font.Size/2,
		dateutil.FormatDate(v.Axis.VisibleStart), dateutil.FormatDate(v.Axis.VisibleEnd))

	svg.WriteString("</svg>\n")
	_, err := io.WriteString(w, svg.String())
	if err != nil {
		return fmt.Errorf("writing svg: %w", err)
	}
	return nil
}

func writeRow(svg *strings.Builder, r row, chartX, y int, style config.ChartConfig) {
	lay := style.Layout
	item := r.view.Item

	if r.kind == rowParent {
		fmt.Fprintf(svg, `<rect x="%d" y="%d" width="%d" height="%d" fill="%s"/>`+"\n",
			lay.Margin, y, chartX-lay.Margin, lay.RowHeight, style.Colors.GroupRow)
	}
	fmt.Fprintf(svg, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-width="1"/>`+"\n",
		lay.Margin, y+lay.RowHeight, chartX+int(r.view.Bar.Right())+lay.Margin, y+lay.RowHeight, style.Colors.Grid)

	indent := 4
	if r.kind == rowChild {
		indent = 20
	}
	textY := y + lay.RowHeight/2 + style.Font.Size/3
	label := escape(truncate(item.Name, (lay.LabelWidth-indent)/max(1, style.Font.Size*6/10)))
	if r.kind == rowParent {
		label = "<tspan font-weight=\"bold\">" + label + "</tspan>"
	}
	fmt.Fprintf(svg, `<text class="label" x="%d" y="%d">%s</text>`+"\n", lay.Margin+indent, textY, label)

	barX := float64(chartX) + r.view.Bar.Left
	barH := float64(lay.RowHeight) * 0.6
	barY := float64(y) + (float64(lay.RowHeight)-barH)/2
	fill := item.Color
	if fill == "" {
		fill = palette.Default
	}

	if item.Type == domain.ItemMilestone {
		cx, cy, h := barX, barY+barH/2, barH/2
		fmt.Fprintf(svg, `<polygon points="%.1f,%.1f %.1f,%.1f %.1f,%.1f %.1f,%.1f" fill="%s"><title>%s</title></polygon>`+"\n",
			cx, cy-h, cx+h, cy, cx, cy+h, cx-h, cy, fill, escape(tooltip(item)))
	} else {
		fmt.Fprintf(svg, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%d" fill="%s"><title>%s</title></rect>`+"\n",
			barX, barY, r.view.Bar.Width, barH, lay.BarRadius, fill, escape(tooltip(item)))
		if item.Progress > 0 {
			fmt.Fprintf(svg, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%d" fill="%s" fill-opacity="0.25"/>`+"\n",
				barX, barY, r.view.Bar.Width*float64(item.Progress)/100, barH, lay.BarRadius, style.Colors.Progress)
		}
	}

	if r.note != "" {
		fmt.Fprintf(svg, `<text class="note" x="%.1f" y="%d">%s</text>`+"\n",
			barX+r.view.Bar.Width+6, textY, escape(r.note))
	}
}

func tooltip(w domain.WorkItem) string {
	return fmt.Sprintf("%s (%s, %d%%) %s - %s",
		w.Name, w.Status, w.Progress, dateutil.FormatDate(w.StartDate), dateutil.FormatDate(w.EndDate))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 1 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func escape(s string) string {
	var b bytes.Buffer
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
