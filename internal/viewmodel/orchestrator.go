// Package viewmodel composes filtering, grouping and layout into the view
// consumed by every presentation surface, and routes edits to the store.
package viewmodel

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/alexanderramin/ganttboard/internal/domain"
	"github.com/alexanderramin/ganttboard/internal/filter"
	"github.com/alexanderramin/ganttboard/internal/hierarchy"
	"github.com/alexanderramin/ganttboard/internal/timeline"
)

// Orchestrator owns the current snapshot, timeline config and filter.
// Every View call recomputes derived state from scratch. Safe for
// concurrent use.
type Orchestrator struct {
	store Store
	now   func() time.Time

	mu       sync.RWMutex
	items    []domain.WorkItem
	timeline domain.TimelineConfig
	filter   domain.FilterConfig
	project  domain.ProjectSettings
	lastErr  error
}

type Option func(*Orchestrator)

// WithProject sets the settings shown in the view header and the default
// assignee list.
func WithProject(p domain.ProjectSettings) Option {
	return func(o *Orchestrator) { o.project = p }
}

// WithClock overrides time.Now for new drafts.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// WithTimeline sets the initial scale and zoom.
func WithTimeline(scale domain.Scale, zoom float64) Option {
	return func(o *Orchestrator) {
		o.timeline.Scale = scale
		o.timeline.Zoom = timeline.ClampZoom(zoom)
	}
}

// WithFilter sets the initial filter. It is not validated.
func WithFilter(f domain.FilterConfig) Option {
	return func(o *Orchestrator) { o.filter = cloneFilter(f) }
}

func New(store Store, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		store:    store,
		now:      func() time.Time { return time.Now().UTC() },
		timeline: domain.DefaultTimelineConfig(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// SetSnapshot replaces the item collection and re-derives the visible range.
func (o *Orchestrator) SetSnapshot(items []domain.WorkItem) {
	snap := make([]domain.WorkItem, len(items))
	for i, it := range items {
		snap[i] = it.Clone()
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	o.items = snap
	axis := timeline.ComputeAxis(snap, o.timeline.Scale, o.timeline.Zoom)
	o.timeline.StartDate = axis.VisibleStart
	o.timeline.EndDate = axis.VisibleEnd
}

// Items returns a copy of the current snapshot.
func (o *Orchestrator) Items() []domain.WorkItem {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make([]domain.WorkItem, len(o.items))
	for i, it := range o.items {
		out[i] = it.Clone()
	}
	return out
}

// Item returns the item with id from the current snapshot.
func (o *Orchestrator) Item(id string) (domain.WorkItem, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.findLocked(id)
}

func (o *Orchestrator) findLocked(id string) (domain.WorkItem, error) {
	for _, it := range o.items {
		if it.ID == id {
			return it.Clone(), nil
		}
	}
	return domain.WorkItem{}, fmt.Errorf("work item %s: %w", id, domain.ErrNotFound)
}

// UpdateFilter validates and installs cfg. An invalid filter leaves the
// current one in place.
func (o *Orchestrator) UpdateFilter(cfg domain.FilterConfig) error {
	if err := filter.Validate(cfg); err != nil {
		return err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.filter = cloneFilter(cfg)
	return nil
}

func (o *Orchestrator) Filter() domain.FilterConfig {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return cloneFilter(o.filter)
}

func (o *Orchestrator) Config() domain.TimelineConfig {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.timeline
}

func (o *Orchestrator) Project() domain.ProjectSettings {
	o.mu.RLock()
	defer o.mu.RUnlock()
	p := o.project
	p.DefaultAssignees = slices.Clone(p.DefaultAssignees)
	return p
}

func (o *Orchestrator) ZoomIn() domain.TimelineConfig {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.timeline.Zoom = timeline.ZoomIn(o.timeline.Zoom)
	return o.timeline
}

func (o *Orchestrator) ZoomOut() domain.TimelineConfig {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.timeline.Zoom = timeline.ZoomOut(o.timeline.Zoom)
	return o.timeline
}

// SetScale changes bucket granularity. Zoom is untouched.
func (o *Orchestrator) SetScale(scale domain.Scale) error {
	if !slices.Contains(domain.Scales, scale) {
		return domain.NewValidationError("scale", "%q is not one of days, weeks, months", scale)
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.timeline.Scale = scale
	return nil
}

// Assignees lists the project's default assignees plus everyone assigned
// in the snapshot.
func (o *Orchestrator) Assignees() []string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return filter.Assignees(o.items, o.project.DefaultAssignees)
}

// View runs filter, grouping and layout over the current state. The axis
// always spans the unfiltered snapshot.
func (o *Orchestrator) View() View {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.viewLocked(o.filter)
}

// ViewWith builds a view under cfg without installing it as the current
// filter.
func (o *Orchestrator) ViewWith(cfg domain.FilterConfig) (View, error) {
	if err := filter.Validate(cfg); err != nil {
		return View{}, err
	}
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.viewLocked(cfg), nil
}

func (o *Orchestrator) viewLocked(cfg domain.FilterConfig) View {
	axis := timeline.ComputeAxis(o.items, o.timeline.Scale, o.timeline.Zoom)
	visible := filter.Apply(o.items, cfg)
	grouping := hierarchy.GroupItems(visible)
	all := hierarchy.Index(o.items)

	row := func(item domain.WorkItem) ItemView {
		deps, missing := hierarchy.ResolveDependencies(item, all)
		for i := range deps {
			deps[i] = deps[i].Clone()
		}
		return ItemView{
			Item:                item.Clone(),
			Bar:                 timeline.ComputeBarGeometry(item, axis),
			Dependencies:        deps,
			MissingDependencies: missing,
		}
	}

	v := View{
		Project: o.project,
		Axis:    axis,
		Buckets: timeline.Buckets(axis),
		Total:   len(o.items),
		Visible: len(visible),
		Zoom:    o.timeline.Zoom,
		Scale:   o.timeline.Scale,
		Filter:  cloneFilter(cfg),
	}
	v.Project.DefaultAssignees = slices.Clone(o.project.DefaultAssignees)

	for _, g := range grouping.Groups {
		gv := GroupView{Parent: row(g.Parent)}
		for _, c := range g.Children {
			gv.Children = append(gv.Children, row(c))
		}
		v.Groups = append(v.Groups, gv)
	}
	for _, u := range grouping.Unresolved {
		reason := u.Reason
		if parent, ok := all[u.Item.Parent()]; ok && reason == hierarchy.ReasonParentMissing {
			// The parent exists but the filter hid it.
			if parent.IsRoot() {
				reason = hierarchy.ReasonParentFiltered
			} else {
				reason = hierarchy.ReasonParentNotRoot
			}
		}
		v.Unresolved = append(v.Unresolved, UnresolvedView{ItemView: row(u.Item), Reason: reason})
	}
	return v
}

// LastError returns the most recent persistence failure, if any.
func (o *Orchestrator) LastError() error {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.lastErr
}

func (o *Orchestrator) DismissError() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.lastErr = nil
}

// Refresh reloads the snapshot from the store. On failure the previous
// snapshot stays in place.
func (o *Orchestrator) Refresh(ctx context.Context) error {
	items, err := o.store.FetchAll(ctx)
	if err != nil {
		return o.fail("fetching work items", err)
	}
	o.SetSnapshot(items)
	return nil
}

// RequestAdd returns a draft with creation defaults, optionally under
// parentID.
func (o *Orchestrator) RequestAdd(parentID *string) Draft {
	now := o.now()
	item := domain.WorkItem{
		Name:      "New Item",
		Type:      domain.ItemTask,
		Status:    domain.StatusNotStarted,
		StartDate: now,
		EndDate:   now,
		Priority:  domain.PriorityMedium,
		Approval:  domain.ApprovalNotRequired,
	}
	if parentID != nil && *parentID != "" {
		pid := *parentID
		item.ParentID = &pid
	}

	o.mu.RLock()
	defer o.mu.RUnlock()
	return Draft{Item: item, Parents: hierarchy.RootCandidates(o.items, ""), isNew: true}
}

// RequestEdit returns a draft of an existing item.
func (o *Orchestrator) RequestEdit(id string) (Draft, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	item, err := o.findLocked(id)
	if err != nil {
		return Draft{}, err
	}
	return Draft{Item: item, Parents: hierarchy.RootCandidates(o.items, id)}, nil
}

// Save creates or updates the draft's item and refreshes. The created item
// is returned; for updates it is the refreshed copy.
func (o *Orchestrator) Save(ctx context.Context, d Draft) (domain.WorkItem, error) {
	if err := d.Item.Validate(); err != nil {
		return domain.WorkItem{}, err
	}

	patch := domain.PatchFrom(d.Item)
	id := d.Item.ID
	if d.IsNew() {
		created, err := o.store.Create(ctx, patch)
		if err != nil {
			return domain.WorkItem{}, o.fail("creating work item", err)
		}
		id = created.ID
	} else if err := o.store.Update(ctx, id, patch); err != nil {
		return domain.WorkItem{}, o.fail("updating work item", err)
	}

	if err := o.Refresh(ctx); err != nil {
		return domain.WorkItem{}, err
	}
	return o.Item(id)
}

// Update applies patch to item id and refreshes.
func (o *Orchestrator) Update(ctx context.Context, id string, patch domain.WorkItemPatch) error {
	if err := o.store.Update(ctx, id, patch); err != nil {
		return o.fail("updating work item", err)
	}
	return o.Refresh(ctx)
}

func (o *Orchestrator) Delete(ctx context.Context, id string) error {
	if err := o.store.Delete(ctx, id); err != nil {
		return o.fail("deleting work item", err)
	}
	return o.Refresh(ctx)
}

// RequestProgressUpdate clamps progress to 0-100, derives the matching
// status and persists both.
func (o *Orchestrator) RequestProgressUpdate(ctx context.Context, id string, progress int) error {
	if err := o.store.Update(ctx, id, domain.ProgressPatch(progress)); err != nil {
		return o.fail("updating progress", err)
	}
	return o.Refresh(ctx)
}

// fail records err as the last error. Not-found and validation errors pass
// through unchanged; anything else is reported as data unavailable.
func (o *Orchestrator) fail(action string, err error) error {
	if !errors.Is(err, domain.ErrNotFound) && !domain.IsValidation(err) && !errors.Is(err, domain.ErrDataUnavailable) {
		err = fmt.Errorf("%w: %w", domain.ErrDataUnavailable, err)
	}
	err = fmt.Errorf("%s: %w", action, err)

	o.mu.Lock()
	o.lastErr = err
	o.mu.Unlock()
	return err
}

func cloneFilter(f domain.FilterConfig) domain.FilterConfig {
	f.Types = slices.Clone(f.Types)
	f.Statuses = slices.Clone(f.Statuses)
	f.Priorities = slices.Clone(f.Priorities)
	f.Assignees = slices.Clone(f.Assignees)
	f.Approvals = slices.Clone(f.Approvals)
	if f.DateRange.Start != nil {
		s := *f.DateRange.Start
		f.DateRange.Start = &s
	}
	if f.DateRange.End != nil {
		e := *f.DateRange.End
		f.DateRange.End = &e
	}
	return f
}
