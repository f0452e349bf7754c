package viewmodel

import (
	"github.com/alexanderramin/ganttboard/internal/domain"
	"github.com/alexanderramin/ganttboard/internal/hierarchy"
	"github.com/alexanderramin/ganttboard/internal/timeline"
)

// ItemView is one chart row: the item, its bar, and its dependencies split
// into the ones still present and the dangling ids.
type ItemView struct {
	Item                domain.WorkItem
	Bar                 timeline.Bar
	Dependencies        []domain.WorkItem
	MissingDependencies []string
}

type GroupView struct {
	Parent   ItemView
	Children []ItemView
}

type UnresolvedView struct {
	ItemView
	Reason hierarchy.Reason
}

// View is a self-contained snapshot of everything a presentation surface
// needs. It shares no memory with the orchestrator.
type View struct {
	Project    domain.ProjectSettings
	Axis       timeline.Axis
	Buckets    []timeline.Bucket
	Groups     []GroupView
	Unresolved []UnresolvedView
	Total      int
	Visible    int
	Zoom       float64
	Scale      domain.Scale
	Filter     domain.FilterConfig
}

// Rows returns every item view in display order: each parent followed by
// its children, then unresolved items.
func (v View) Rows() []ItemView {
	var rows []ItemView
	for _, g := range v.Groups {
		rows = append(rows, g.Parent)
		rows = append(rows, g.Children...)
	}
	for _, u := range v.Unresolved {
		rows = append(rows, u.ItemView)
	}
	return rows
}

// Draft is an item being added or edited, plus the parent choices offered.
type Draft struct {
	Item    domain.WorkItem
	Parents []domain.WorkItem
	isNew   bool
}

// IsNew reports whether saving the draft creates an item.
func (d Draft) IsNew() bool { return d.isNew }
