package domain

import "time"

// DateRange is an inclusive overlap window; either bound may be open.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// FilterConfig selects which work items are shown. Empty allowed-value lists
// never exclude anything.
type FilterConfig struct {
	Search     string
	Types      []ItemType
	Statuses   []ItemStatus
	Priorities []Priority
	Assignees  []string
	Approvals  []Approval
	DateRange  DateRange

	// Where is an optional expression evaluated per item in addition to the
	// fields above, e.g. `priority == "high" && progress < 50`.
	Where string
}

// IsZero reports whether the filter lets every item through.
func (f FilterConfig) IsZero() bool {
	return f.Search == "" && len(f.Types) == 0 && len(f.Statuses) == 0 &&
		len(f.Priorities) == 0 && len(f.Assignees) == 0 && len(f.Approvals) == 0 &&
		f.DateRange.Start == nil && f.DateRange.End == nil && f.Where == ""
}
