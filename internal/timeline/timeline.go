// Package timeline computes chart geometry: the visible axis, per-item bar
// placement, header buckets and zoom steps.
package timeline

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/alexanderramin/ganttboard/internal/dateutil"
	"github.com/alexanderramin/ganttboard/internal/domain"
)

const (
	// MinPixelWidth is the narrowest canvas ever produced.
	MinPixelWidth = 800.0
	// PixelsPerDay is the canvas width per day at zoom 1.0.
	PixelsPerDay = 30.0
	// MinBarWidth keeps very short items visible and clickable.
	MinBarWidth = 20.0
)

type Axis struct {
	VisibleStart time.Time
	VisibleEnd   time.Time
	TotalDays    int
	PixelWidth   float64
	Scale        domain.Scale
	Zoom         float64
}

type Bar struct {
	Left  float64
	Width float64
}

// Right returns the bar's right edge.
func (b Bar) Right() float64 { return b.Left + b.Width }

type Bucket struct {
	Start time.Time
	Label string
	Left  float64
	Width float64
}

// ComputeAxis spans the earliest start to the latest end of items. Pass the
// unfiltered snapshot so the ruler stays put while filters change.
func ComputeAxis(items []domain.WorkItem, scale domain.Scale, zoom float64) Axis {
	axis := Axis{Scale: scale, Zoom: zoom, PixelWidth: MinPixelWidth}
	if len(items) == 0 {
		return axis
	}

	start, end := items[0].StartDate, items[0].EndDate
	for _, item := range items[1:] {
		if item.StartDate.Before(start) {
			start = item.StartDate
		}
		if item.EndDate.After(end) {
			end = item.EndDate
		}
	}

	axis.VisibleStart = start
	axis.VisibleEnd = end
	axis.TotalDays = dateutil.DaysBetween(start, end)
	axis.PixelWidth = math.Max(MinPixelWidth, float64(axis.TotalDays)*PixelsPerDay*zoom)
	return axis
}

// Config returns the TimelineConfig the axis was built from.
func (a Axis) Config() domain.TimelineConfig {
	return domain.TimelineConfig{StartDate: a.VisibleStart, EndDate: a.VisibleEnd, Scale: a.Scale, Zoom: a.Zoom}
}

// ComputeBarGeometry places item on axis. On a zero-span axis both
// fractions are zero, so bars sit at the left edge with the minimum width.
func ComputeBarGeometry(item domain.WorkItem, axis Axis) Bar {
	if axis.TotalDays == 0 {
		return Bar{Left: 0, Width: MinBarWidth}
	}
	total := float64(axis.TotalDays)
	offset := float64(dateutil.DaysBetween(axis.VisibleStart, item.StartDate))
	if item.StartDate.Before(axis.VisibleStart) {
		offset = -offset
	}
	duration := float64(dateutil.DaysBetween(item.StartDate, item.EndDate))

	return Bar{
		Left:  math.Max(0, offset/total*axis.PixelWidth),
		Width: math.Max(MinBarWidth, duration/total*axis.PixelWidth),
	}
}

// Buckets slices the axis into header cells for its scale. Cells share the
// pixel width evenly.
func Buckets(axis Axis) []Bucket {
	if axis.VisibleStart.IsZero() && axis.VisibleEnd.IsZero() {
		return nil
	}

	var starts []time.Time
	var label func(i int, t time.Time) string
	switch axis.Scale {
	case domain.ScaleWeeks:
		starts = dateutil.WeeksInRange(axis.VisibleStart, axis.VisibleEnd)
		label = func(i int, _ time.Time) string { return fmt.Sprintf("Week %d", i+1) }
	case domain.ScaleMonths:
		starts = dateutil.MonthsInRange(axis.VisibleStart, axis.VisibleEnd)
		label = func(_ int, t time.Time) string { return dateutil.FormatMonth(t) }
	default:
		starts = dateutil.DaysInRange(axis.VisibleStart, axis.VisibleEnd)
		label = func(_ int, t time.Time) string { return dateutil.FormatDateShort(t) }
	}
	if len(starts) == 0 {
		return nil
	}

	width := axis.PixelWidth / float64(len(starts))
	out := make([]Bucket, len(starts))
	for i, s := range starts {
		out[i] = Bucket{Start: s, Label: label(i, s), Left: float64(i) * width, Width: width}
	}
	return out
}

// ZoomIn steps zoom up by ZoomStep, capped at MaxZoom.
func ZoomIn(z float64) float64 {
	return math.Min(z*domain.ZoomStep, domain.MaxZoom)
}

// ZoomOut steps zoom down by ZoomStep, floored at MinZoom.
func ZoomOut(z float64) float64 {
	return math.Max(z/domain.ZoomStep, domain.MinZoom)
}

// ClampZoom limits z to [MinZoom, MaxZoom]. Non-positive or NaN values fall
// back to DefaultZoom.
func ClampZoom(z float64) float64 {
	if math.IsNaN(z) || z <= 0 {
		return domain.DefaultZoom
	}
	return math.Max(domain.MinZoom, math.Min(domain.MaxZoom, z))
}

// ParseScale accepts a scale name, case-insensitively. Singular forms and
// the first letter are accepted too ("week", "w").
func ParseScale(s string) (domain.Scale, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "days", "day", "d":
		return domain.ScaleDays, nil
	case "weeks", "week", "w":
		return domain.ScaleWeeks, nil
	case "months", "month", "m":
		return domain.ScaleMonths, nil
	}
	return "", domain.NewValidationError("scale", "%q is not one of days, weeks, months", s)
}
