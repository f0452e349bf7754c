package domain

import (
	"slices"
	"time"
)

type WorkItem struct {
	ID          string
	Name        string
	Type        ItemType
	Status      ItemStatus
	Progress    int
	StartDate   time.Time
	EndDate     time.Time
	Description string
	Assignee    string
	Priority    Priority
	Blockers    []string
	Approval    Approval

	// Dependencies holds ids of other work items. They are weak references
	// and may dangle after the referent is deleted.
	Dependencies []string

	// ParentID is a non-owning back-reference. Only one level of nesting is
	// rendered.
	ParentID *string

	Color     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsRoot reports whether the item has no parent.
func (w WorkItem) IsRoot() bool {
	return w.ParentID == nil || *w.ParentID == ""
}

// Parent returns the parent id or "".
func (w WorkItem) Parent() string {
	if w.ParentID == nil {
		return ""
	}
	return *w.ParentID
}

// HasAssignee reports whether someone is assigned.
func (w WorkItem) HasAssignee() bool {
	return w.Assignee != ""
}

// Clone returns a deep copy so derived views never share slices with the
// snapshot they came from.
func (w WorkItem) Clone() WorkItem {
	c := w
	c.Blockers = slices.Clone(w.Blockers)
	c.Dependencies = slices.Clone(w.Dependencies)
	if w.ParentID != nil {
		pid := *w.ParentID
		c.ParentID = &pid
	}
	return c
}

// WorkItemPatch carries optional field values. Create fills unset fields
// with defaults; Update changes only the fields that are set.
type WorkItemPatch struct {
	Name         *string
	Type         *ItemType
	Status       *ItemStatus
	Progress     *int
	StartDate    *time.Time
	EndDate      *time.Time
	Description  *string
	Assignee     *string
	Priority     *Priority
	Blockers     *[]string
	Approval     *Approval
	Dependencies *[]string

	// ParentID set to a pointer to "" clears the parent.
	ParentID **string

	Color *string
}

// IsEmpty reports whether the patch changes nothing.
func (p WorkItemPatch) IsEmpty() bool {
	return p.Name == nil && p.Type == nil && p.Status == nil && p.Progress == nil &&
		p.StartDate == nil && p.EndDate == nil && p.Description == nil &&
		p.Assignee == nil && p.Priority == nil && p.Blockers == nil &&
		p.Approval == nil && p.Dependencies == nil && p.ParentID == nil &&
		p.Color == nil
}

// Apply returns a copy of w with the patch's set fields applied.
func (p WorkItemPatch) Apply(w WorkItem) WorkItem {
	out := w.Clone()
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Type != nil {
		out.Type = *p.Type
	}
	if p.Status != nil {
		out.Status = *p.Status
	}
	if p.Progress != nil {
		out.Progress = *p.Progress
	}
	if p.StartDate != nil {
		out.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		out.EndDate = *p.EndDate
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.Assignee != nil {
		out.Assignee = *p.Assignee
	}
	if p.Priority != nil {
		out.Priority = *p.Priority
	}
	if p.Blockers != nil {
		out.Blockers = slices.Clone(*p.Blockers)
	}
	if p.Approval != nil {
		out.Approval = *p.Approval
	}
	if p.Dependencies != nil {
		out.Dependencies = slices.Clone(*p.Dependencies)
	}
	if p.ParentID != nil {
		pid := *p.ParentID
		if pid == nil || *pid == "" {
			out.ParentID = nil
		} else {
			v := *pid
			out.ParentID = &v
		}
	}
	if p.Color != nil {
		out.Color = *p.Color
	}
	return out
}

// PatchFrom builds a patch that sets every field of w. Used to turn an
// edited draft back into an update.
func PatchFrom(w WorkItem) WorkItemPatch {
	c := w.Clone()
	parent := c.ParentID
	return WorkItemPatch{
		Name:         &c.Name,
		Type:         &c.Type,
		Status:       &c.Status,
		Progress:     &c.Progress,
		StartDate:    &c.StartDate,
		EndDate:      &c.EndDate,
		Description:  &c.Description,
		Assignee:     &c.Assignee,
		Priority:     &c.Priority,
		Blockers:     &c.Blockers,
		Approval:     &c.Approval,
		Dependencies: &c.Dependencies,
		ParentID:     &parent,
		Color:        &c.Color,
	}
}

// ClampProgress limits p to [0, 100].
func ClampProgress(p int) int {
	return max(0, min(100, p))
}

// StatusForProgress derives the status implied by a progress edit:
// 100 is completed, anything above zero is in progress, zero is not started.
func StatusForProgress(p int) ItemStatus {
	switch {
	case p >= 100:
		return StatusCompleted
	case p > 0:
		return StatusInProgress
	default:
		return StatusNotStarted
	}
}

// ProgressPatch clamps progress and pairs it with the derived status.
func ProgressPatch(progress int) WorkItemPatch {
	p := ClampProgress(progress)
	s := StatusForProgress(p)
	return WorkItemPatch{Progress: &p, Status: &s}
}

// Validate checks the enum fields, progress range and name. Dates are not
// ordered-checked; an end before the start still renders.
func (w WorkItem) Validate() error {
	if w.Name == "" {
		return NewValidationError("name", "must not be empty")
	}
	if !ValidItemTypes[string(w.Type)] {
		return NewValidationError("type", "unknown item type %q", w.Type)
	}
	if !ValidStatuses[string(w.Status)] {
		return NewValidationError("status", "unknown status %q", w.Status)
	}
	if !ValidPriorities[string(w.Priority)] {
		return NewValidationError("priority", "unknown priority %q", w.Priority)
	}
	if !ValidApprovals[string(w.Approval)] {
		return NewValidationError("approval", "unknown approval %q", w.Approval)
	}
	if w.Progress < 0 || w.Progress > 100 {
		return NewValidationError("progress", "%d is outside 0-100", w.Progress)
	}
	return nil
}
