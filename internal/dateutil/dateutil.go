// Package dateutil holds the calendar arithmetic shared by the timeline
// layout and the presentation layers.
package dateutil

import (
	"math"
	"time"
)

const day = 24 * time.Hour

// DaysBetween returns the number of days separating a and b, rounded up.
// Order does not matter. Any partial day counts as a whole one, so a
// same-instant pair is 0 and a one-hour span is 1.
func DaysBetween(a, b time.Time) int {
	d := b.Sub(a)
	if d < 0 {
		d = -d
	}
	return int(math.Ceil(float64(d) / float64(day)))
}

// AddDays shifts t by n calendar days, keeping the wall-clock time.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns the Sunday on or before t, at t's wall-clock time.
func StartOfWeek(t time.Time) time.Time {
	return AddDays(t, -int(t.Weekday()))
}

// StartOfMonth returns midnight on the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// DaysInRange returns one time per calendar day from start while <= end.
func DaysInRange(start, end time.Time) []time.Time {
	var days []time.Time
	for cur := start; !cur.After(end); cur = AddDays(cur, 1) {
		days = append(days, cur)
	}
	return days
}

// WeeksInRange returns week anchors starting at the Sunday on or before
// start, stepping seven days while <= end.
func WeeksInRange(start, end time.Time) []time.Time {
	var weeks []time.Time
	for cur := StartOfWeek(start); !cur.After(end); cur = AddDays(cur, 7) {
		weeks = append(weeks, cur)
	}
	return weeks
}

// MonthsInRange returns the first of every month from start's month while
// <= end.
func MonthsInRange(start, end time.Time) []time.Time {
	var months []time.Time
	for cur := StartOfMonth(start); !cur.After(end); cur = cur.AddDate(0, 1, 0) {
		months = append(months, cur)
	}
	return months
}

// IsDateInRange reports whether t lies within [start, end].
func IsDateInRange(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}

// FormatDate renders t as "Jan 2, 2006".
func FormatDate(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

// FormatDateShort renders t as "Jan 2".
func FormatDateShort(t time.Time) string {
	return t.Format("Jan 2")
}

// FormatMonth renders t as "Jan 2006".
func FormatMonth(t time.Time) string {
	return t.Format("Jan 2006")
}

// DateLayout is the layout used for date inputs on the CLI and HTTP API.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD string as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// ParseTimestamp accepts either RFC3339 or YYYY-MM-DD.
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse(DateLayout, s)
}
