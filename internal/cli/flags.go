package cli

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/alexanderramin/ganttboard/internal/dateutil"
	"github.com/alexanderramin/ganttboard/internal/domain"
	"github.com/alexanderramin/ganttboard/internal/timeline"
)

// scaleValue is a pflag.Value accepting days/weeks/months and their short
// forms.
type scaleValue struct {
	scale domain.Scale
	set   bool
}

var _ pflag.Value = (*scaleValue)(nil)

func (s *scaleValue) String() string { return string(s.scale) }
func (s *scaleValue) Type() string   { return "scale" }

func (s *scaleValue) Set(v string) error {
	scale, err := timeline.ParseScale(v)
	if err != nil {
		return err
	}
	s.scale, s.set = scale, true
	return nil
}

// enumListValue collects comma-separated or repeated values, each checked
// against a fixed set.
type enumListValue[T ~string] struct {
	name    string
	allowed []T
	values  []T
}

func newEnumList[T ~string](name string, allowed []T) *enumListValue[T] {
	return &enumListValue[T]{name: name, allowed: allowed}
}

func (e *enumListValue[T]) String() string {
	parts := make([]string, len(e.values))
	for i, v := range e.values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ",")
}

func (e *enumListValue[T]) Type() string { return e.name + "s" }

func (e *enumListValue[T]) Set(v string) error {
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(strings.ToLower(part))
		if part == "" {
			continue
		}
		if !slices.Contains(e.allowed, T(part)) {
			return domain.NewValidationError(e.name, "%q is not one of %s", part, joinValues(e.allowed))
		}
		if !slices.Contains(e.values, T(part)) {
			e.values = append(e.values, T(part))
		}
	}
	return nil
}

func joinValues[T ~string](vals []T) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}

// dateValue parses YYYY-MM-DD or RFC3339. Unset leaves the pointer nil.
type dateValue struct {
	t *time.Time
}

func (d *dateValue) String() string {
	if d.t == nil {
		return ""
	}
	return d.t.Format(dateutil.DateLayout)
}

func (d *dateValue) Type() string { return "date" }

func (d *dateValue) Set(v string) error {
	t, err := dateutil.ParseTimestamp(strings.TrimSpace(v))
	if err != nil {
		return domain.NewValidationError("date", "%q is not YYYY-MM-DD or RFC3339", v)
	}
	d.t = &t
	return nil
}

// filterFlags binds the filter flags shared by gantt, export and query.
type filterFlags struct {
	search     string
	types      *enumListValue[domain.ItemType]
	statuses   *enumListValue[domain.ItemStatus]
	priorities *enumListValue[domain.Priority]
	approvals  *enumListValue[domain.Approval]
	assignees  []string
	from, to   dateValue
	where      string
}

func addFilterFlags(cmd *cobra.Command) *filterFlags {
	f := &filterFlags{
		types:      newEnumList("type", domain.ItemTypes),
		statuses:   newEnumList("status", domain.Statuses),
		priorities: newEnumList("priority", domain.Priorities),
		approvals:  newEnumList("approval", domain.Approvals),
	}
	fs := cmd.Flags()
	fs.StringVar(&f.search, "search", "", "Case-insensitive match on name or description")
	fs.Var(f.types, "type", "Only these item types ("+joinValues(domain.ItemTypes)+")")
	fs.Var(f.statuses, "status", "Only these statuses")
	fs.Var(f.priorities, "priority", "Only these priorities")
	fs.Var(f.approvals, "approval", "Only these approval states")
	fs.StringSliceVar(&f.assignees, "assignee", nil, "Only these assignees (unassigned items always pass)")
	fs.Var(&f.from, "from", "Only items overlapping from this date")
	fs.Var(&f.to, "to", "Only items overlapping up to this date")
	fs.StringVar(&f.where, "where", "", `Expression filter, e.g. 'priority == "high" && progress < 50'`)
	return f
}

func (f *filterFlags) config() domain.FilterConfig {
	return domain.FilterConfig{
		Search:     f.search,
		Types:      f.types.values,
		Statuses:   f.statuses.values,
		Priorities: f.priorities.values,
		Approvals:  f.approvals.values,
		Assignees:  f.assignees,
		DateRange:  domain.DateRange{Start: f.from.t, End: f.to.t},
		Where:      f.where,
	}
}

// timelineFlags adjusts scale and zoom before rendering.
type timelineFlags struct {
	scale   scaleValue
	zoomIn  int
	zoomOut int
}

func addTimelineFlags(cmd *cobra.Command) *timelineFlags {
	t := &timelineFlags{}
	cmd.Flags().Var(&t.scale, "scale", "Timeline scale (days|weeks|months)")
	cmd.Flags().IntVar(&t.zoomIn, "zoom-in", 0, "Zoom in N steps")
	cmd.Flags().IntVar(&t.zoomOut, "zoom-out", 0, "Zoom out N steps")
	return t
}

func (t *timelineFlags) apply(app *App) error {
	if t.zoomIn < 0 || t.zoomOut < 0 {
		return fmt.Errorf("--zoom-in and --zoom-out take a non-negative step count")
	}
	if t.scale.set {
		if err := app.Board.SetScale(t.scale.scale); err != nil {
			return err
		}
	}
	for range t.zoomIn {
		app.Board.ZoomIn()
	}
	for range t.zoomOut {
		app.Board.ZoomOut()
	}
	return nil
}
