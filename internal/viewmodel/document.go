package viewmodel

import (
	"time"

	"github.com/alexanderramin/ganttboard/internal/dateutil"
	"github.com/alexanderramin/ganttboard/internal/domain"
)

// The *Doc types are the JSON shapes of the view and its parts. They are
// what the HTTP API serves, what `export json` writes and what `query`
// runs jq programs against.

type ItemDoc struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Type         string    `json:"type"`
	Status       string    `json:"status"`
	Progress     int       `json:"progress"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	Description  string    `json:"description"`
	Assignee     string    `json:"assignee"`
	Priority     string    `json:"priority"`
	Blockers     []string  `json:"blockers"`
	Approval     string    `json:"approval"`
	Dependencies []string  `json:"dependencies"`
	ParentID     *string   `json:"parent_id"`
	Color        string    `json:"color"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type BarDoc struct {
	Left  float64 `json:"left"`
	Width float64 `json:"width"`
}

type RowDoc struct {
	Item                ItemDoc  `json:"item"`
	Bar                 BarDoc   `json:"bar"`
	Dependencies        []string `json:"dependencies"`
	MissingDependencies []string `json:"missing_dependencies"`
}

type GroupDoc struct {
	Parent   RowDoc   `json:"parent"`
	Children []RowDoc `json:"children"`
}

type UnresolvedDoc struct {
	RowDoc
	Reason string `json:"reason"`
}

type AxisDoc struct {
	VisibleStart time.Time `json:"visible_start"`
	VisibleEnd   time.Time `json:"visible_end"`
	TotalDays    int       `json:"total_days"`
	PixelWidth   float64   `json:"pixel_width"`
}

type BucketDoc struct {
	Start time.Time `json:"start"`
	Label string    `json:"label"`
	Left  float64   `json:"left"`
	Width float64   `json:"width"`
}

type ProjectDoc struct {
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	StartDate        string   `json:"start_date,omitempty"`
	EndDate          string   `json:"end_date,omitempty"`
	DefaultAssignees []string `json:"default_assignees"`
	Theme            string   `json:"theme"`
}

// FilterDoc is both the filter echoed in a view and the body of a filter
// update. Dates use YYYY-MM-DD.
type FilterDoc struct {
	Search     string   `json:"search"`
	Types      []string `json:"types"`
	Statuses   []string `json:"statuses"`
	Priorities []string `json:"priorities"`
	Assignees  []string `json:"assignees"`
	Approvals  []string `json:"approvals"`
	From       string   `json:"from,omitempty"`
	To         string   `json:"to,omitempty"`
	Where      string   `json:"where,omitempty"`
}

type ViewDoc struct {
	Project    ProjectDoc      `json:"project"`
	Scale      string          `json:"scale"`
	Zoom       float64         `json:"zoom"`
	Axis       AxisDoc         `json:"axis"`
	Buckets    []BucketDoc     `json:"buckets"`
	Groups     []GroupDoc      `json:"groups"`
	Unresolved []UnresolvedDoc `json:"unresolved"`
	Total      int             `json:"total"`
	Visible    int             `json:"visible"`
	Filter     FilterDoc       `json:"filter"`
}

func NewItemDoc(w domain.WorkItem) ItemDoc {
	c := w.Clone()
	return ItemDoc{
		ID:           c.ID,
		Name:         c.Name,
		Type:         string(c.Type),
		Status:       string(c.Status),
		Progress:     c.Progress,
		StartDate:    c.StartDate,
		EndDate:      c.EndDate,
		Description:  c.Description,
		Assignee:     c.Assignee,
		Priority:     string(c.Priority),
		Blockers:     nonNil(c.Blockers),
		Approval:     string(c.Approval),
		Dependencies: nonNil(c.Dependencies),
		ParentID:     c.ParentID,
		Color:        c.Color,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func newRowDoc(r ItemView) RowDoc {
	deps := make([]string, len(r.Dependencies))
	for i, d := range r.Dependencies {
		deps[i] = d.ID
	}
	return RowDoc{
		Item:                NewItemDoc(r.Item),
		Bar:                 BarDoc{Left: r.Bar.Left, Width: r.Bar.Width},
		Dependencies:        deps,
		MissingDependencies: nonNil(r.MissingDependencies),
	}
}

func NewProjectDoc(p domain.ProjectSettings) ProjectDoc {
	doc := ProjectDoc{
		Name:             p.Name,
		Description:      p.Description,
		DefaultAssignees: nonNil(p.DefaultAssignees),
		Theme:            p.Theme,
	}
	if !p.StartDate.IsZero() {
		doc.StartDate = p.StartDate.Format(dateutil.DateLayout)
	}
	if !p.EndDate.IsZero() {
		doc.EndDate = p.EndDate.Format(dateutil.DateLayout)
	}
	return doc
}

// NewFilterDoc renders cfg in its wire form.
func NewFilterDoc(cfg domain.FilterConfig) FilterDoc {
	doc := FilterDoc{
		Search:     cfg.Search,
		Types:      toStrings(cfg.Types),
		Statuses:   toStrings(cfg.Statuses),
		Priorities: toStrings(cfg.Priorities),
		Assignees:  nonNil(cfg.Assignees),
		Approvals:  toStrings(cfg.Approvals),
		Where:      cfg.Where,
	}
	if cfg.DateRange.Start != nil {
		doc.From = cfg.DateRange.Start.Format(dateutil.DateLayout)
	}
	if cfg.DateRange.End != nil {
		doc.To = cfg.DateRange.End.Format(dateutil.DateLayout)
	}
	return doc
}

// Config parses the document into a filter. Enum values are not checked
// here; Orchestrator.UpdateFilter validates.
func (d FilterDoc) Config() (domain.FilterConfig, error) {
	cfg := domain.FilterConfig{
		Search:     d.Search,
		Types:      fromStrings[domain.ItemType](d.Types),
		Statuses:   fromStrings[domain.ItemStatus](d.Statuses),
		Priorities: fromStrings[domain.Priority](d.Priorities),
		Assignees:  d.Assignees,
		Approvals:  fromStrings[domain.Approval](d.Approvals),
		Where:      d.Where,
	}
	if d.From != "" {
		t, err := dateutil.ParseDate(d.From)
		if err != nil {
			return domain.FilterConfig{}, domain.NewValidationError("date range", "invalid start date %q", d.From)
		}
		cfg.DateRange.Start = &t
	}
	if d.To != "" {
		t, err := dateutil.ParseDate(d.To)
		if err != nil {
			return domain.FilterConfig{}, domain.NewValidationError("date range", "invalid end date %q", d.To)
		}
		cfg.DateRange.End = &t
	}
	return cfg, nil
}

// Document converts v to its JSON shape.
func (v View) Document() ViewDoc {
	doc := ViewDoc{
		Project: NewProjectDoc(v.Project),
		Scale: string(v.Scale),
		Zoom:  v.Zoom,
		Axis: AxisDoc{
			VisibleStart: v.Axis.VisibleStart,
			VisibleEnd:   v.Axis.VisibleEnd,
			TotalDays:    v.Axis.TotalDays,
			PixelWidth:   v.Axis.PixelWidth,
		},
		Buckets:    make([]BucketDoc, len(v.Buckets)),
		Groups:     make([]GroupDoc, len(v.Groups)),
		Unresolved: make([]UnresolvedDoc, len(v.Unresolved)),
		Total:      v.Total,
		Visible:    v.Visible,
		Filter:     NewFilterDoc(v.Filter),
	}
	for i, b := range v.Buckets {
		doc.Buckets[i] = BucketDoc{Start: b.Start, Label: b.Label, Left: b.Left, Width: b.Width}
	}
	for i, g := range v.Groups {
		children := make([]RowDoc, len(g.Children))
		for j, c := range g.Children {
			children[j] = newRowDoc(c)
		}
		doc.Groups[i] = GroupDoc{Parent: newRowDoc(g.Parent), Children: children}
	}
	for i, u := range v.Unresolved {
		doc.Unresolved[i] = UnresolvedDoc{RowDoc: newRowDoc(u.ItemView), Reason: string(u.Reason)}
	}
	return doc
}

// ItemInput is the body of item create and patch requests. Absent fields
// are left unset in the resulting patch. Dates accept YYYY-MM-DD or
// RFC3339; a parent_id of "" clears the parent.
type ItemInput struct {
	Name         *string   `json:"name"`
	Type         *string   `json:"type"`
	Status       *string   `json:"status"`
	Progress     *int      `json:"progress"`
	StartDate    *string   `json:"start_date"`
	EndDate      *string   `json:"end_date"`
	Description  *string   `json:"description"`
	Assignee     *string   `json:"assignee"`
	Priority     *string   `json:"priority"`
	Blockers     *[]string `json:"blockers"`
	Approval     *string   `json:"approval"`
	Dependencies *[]string `json:"dependencies"`
	ParentID     *string   `json:"parent_id"`
	Color        *string   `json:"color"`
}

// Patch converts the input. Only dates can fail here; enums are checked by
// the store.
func (in ItemInput) Patch() (domain.WorkItemPatch, error) {
	p := domain.WorkItemPatch{
		Name:         in.Name,
		Progress:     in.Progress,
		Description:  in.Description,
		Assignee:     in.Assignee,
		Blockers:     in.Blockers,
		Dependencies: in.Dependencies,
		Color:        in.Color,
	}
	if in.Type != nil {
		p.Type = domain.Ptr(domain.ItemType(*in.Type))
	}
	if in.Status != nil {
		p.Status = domain.Ptr(domain.ItemStatus(*in.Status))
	}
	if in.Priority != nil {
		p.Priority = domain.Ptr(domain.Priority(*in.Priority))
	}
	if in.Approval != nil {
		p.Approval = domain.Ptr(domain.Approval(*in.Approval))
	}
	if in.ParentID != nil {
		pid := in.ParentID
		p.ParentID = &pid
	}
	var err error
	if p.StartDate, err = parseDatePtr("start_date", in.StartDate); err != nil {
		return domain.WorkItemPatch{}, err
	}
	if p.EndDate, err = parseDatePtr("end_date", in.EndDate); err != nil {
		return domain.WorkItemPatch{}, err
	}
	return p, nil
}

func parseDatePtr(field string, s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := dateutil.ParseTimestamp(*s)
	if err != nil {
		return nil, domain.NewValidationError(field, "invalid date %q", *s)
	}
	return &t, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return append([]T(nil), s...)
}

func toStrings[T ~string](in []T) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = string(v)
	}
	return out
}

func fromStrings[T ~string](in []string) []T {
	if len(in) == 0 {
		return nil
	}
	out := make([]T, len(in))
	for i, v := range in {
		out[i] = T(v)
	}
	return out
}
