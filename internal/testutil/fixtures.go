package testutil

import (
	"time"

	"github.com/alexanderramin/ganttboard/internal/domain"
	"github.com/google/uuid"
)

// BaseDate anchors fixture dates so geometry assertions are stable.
var BaseDate = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// Day returns BaseDate shifted by n days.
func Day(n int) time.Time {
	return BaseDate.AddDate(0, 0, n)
}

// Date builds a UTC midnight time.
func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// WorkItem options
type WorkItemOption func(*domain.WorkItem)

func WithID(id string) WorkItemOption {
	return func(w *domain.WorkItem) {
		w.ID = id
	}
}

func WithType(t domain.ItemType) WorkItemOption {
	return func(w *domain.WorkItem) {
		w.Type = t
	}
}

func WithStatus(s domain.ItemStatus) WorkItemOption {
	return func(w *domain.WorkItem) {
		w.Status = s
	}
}

func WithProgress(p int) WorkItemOption {
	return func(w *domain.WorkItem) {
		w.Progress = p
	}
}

func WithDates(start, end time.Time) WorkItemOption {
	return func(w *domain.WorkItem) {
		w.StartDate = start
		w.EndDate = end
	}
}

func WithDescription(d string) WorkItemOption {
	return func(w *domain.WorkItem) {
		w.Description = d
	}
}

func WithAssignee(a string) WorkItemOption {
	return func(w *domain.WorkItem) {
		w.Assignee = a
	}
}

func WithPriority(p domain.Priority) WorkItemOption {
	return func(w *domain.WorkItem) {
		w.Priority = p
	}
}

func WithApproval(a domain.Approval) WorkItemOption {
	return func(w *domain.WorkItem) {
		w.Approval = a
	}
}

func WithBlockers(b ...string) WorkItemOption {
	return func(w *domain.WorkItem) {
		w.Blockers = b
	}
}

func WithDependencies(ids ...string) WorkItemOption {
	return func(w *domain.WorkItem) {
		w.Dependencies = ids
	}
}

func WithParentID(id string) WorkItemOption {
	return func(w *domain.WorkItem) {
		w.ParentID = &id
	}
}

func WithColor(c string) WorkItemOption {
	return func(w *domain.WorkItem) {
		w.Color = c
	}
}

// NewTestWorkItem returns a week-long not-started task starting at BaseDate.
func NewTestWorkItem(name string, opts ...WorkItemOption) domain.WorkItem {
	w := domain.WorkItem{
		ID:        uuid.New().String(),
		Name:      name,
		Type:      domain.ItemTask,
		Status:    domain.StatusNotStarted,
		StartDate: BaseDate,
		EndDate:   Day(7),
		Priority:  domain.PriorityMedium,
		Approval:  domain.ApprovalNotRequired,
		Color:     "#3B82F6",
		CreatedAt: BaseDate,
		UpdatedAt: BaseDate,
	}
	for _, opt := range opts {
		opt(&w)
	}
	return w
}
