package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressPatch_DerivesStatus(t *testing.T) {
	tests := []struct {
		name         string
		progress     int
		wantProgress int
		wantStatus   ItemStatus
	}{
		{"complete", 100, 100, StatusCompleted},
		{"zero", 0, 0, StatusNotStarted},
		{"partial", 45, 45, StatusInProgress},
		{"over 100 clamps", 140, 100, StatusCompleted},
		{"negative clamps", -5, 0, StatusNotStarted},
		{"one percent", 1, 1, StatusInProgress},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ProgressPatch(tt.progress)
			require.NotNil(t, p.Progress)
			require.NotNil(t, p.Status)
			assert.Equal(t, tt.wantProgress, *p.Progress)
			assert.Equal(t, tt.wantStatus, *p.Status)
		})
	}
}

func TestWorkItemPatch_ApplyLeavesOriginalUntouched(t *testing.T) {
	parent := "root"
	orig := WorkItem{
		ID:           "a",
		Name:         "Design",
		Blockers:     []string{"waiting on legal"},
		Dependencies: []string{"b"},
		ParentID:     &parent,
	}

	newName := "Design v2"
	blockers := []string{"none"}
	var cleared *string
	patch := WorkItemPatch{Name: &newName, Blockers: &blockers, ParentID: &cleared}

	got := patch.Apply(orig)

	assert.Equal(t, "Design v2", got.Name)
	assert.Equal(t, []string{"none"}, got.Blockers)
	assert.True(t, got.IsRoot())

	assert.Equal(t, "Design", orig.Name)
	assert.Equal(t, []string{"waiting on legal"}, orig.Blockers)
	assert.Equal(t, "root", orig.Parent())
}

func TestWorkItemPatch_EmptyParentClears(t *testing.T) {
	parent := "root"
	item := WorkItem{ParentID: &parent}
	empty := ""
	pp := &empty

	got := WorkItemPatch{ParentID: &pp}.Apply(item)
	assert.Nil(t, got.ParentID)
}

func TestWorkItem_CloneIsDeep(t *testing.T) {
	parent := "p"
	w := WorkItem{Blockers: []string{"x"}, Dependencies: []string{"y"}, ParentID: &parent}
	c := w.Clone()
	c.Blockers[0] = "changed"
	c.Dependencies[0] = "changed"
	*c.ParentID = "changed"

	assert.Equal(t, "x", w.Blockers[0])
	assert.Equal(t, "y", w.Dependencies[0])
	assert.Equal(t, "p", *w.ParentID)
}

func TestPatchFrom_RoundTripsThroughApply(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	w := WorkItem{
		ID: "a", Name: "Build", Type: ItemTask, Status: StatusOnHold, Progress: 30,
		StartDate: now, EndDate: now.AddDate(0, 0, 5), Assignee: "Mike Chen",
		Priority: PriorityHigh, Approval: ApprovalPending, Color: "#10B981",
	}
	got := PatchFrom(w).Apply(WorkItem{ID: "a"})
	assert.Equal(t, w, got)
}

func TestWorkItemPatch_IsEmpty(t *testing.T) {
	assert.True(t, WorkItemPatch{}.IsEmpty())
	name := "x"
	assert.False(t, WorkItemPatch{Name: &name}.IsEmpty())
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("type", "unknown value %q", "epic")
	assert.Equal(t, `invalid type: unknown value "epic"`, err.Error())
	assert.True(t, IsValidation(err))
	assert.False(t, IsValidation(ErrNotFound))
}

func TestCoalesceHelpers(t *testing.T) {
	assert.Equal(t, "b", CoalesceStr("", "b", "c"))
	assert.Equal(t, 7, ValueOr[int](nil, 7))
	assert.Equal(t, "New Item", NonEmptyOr(Ptr(""), "New Item"))
	assert.Equal(t, "x", NonEmptyOr(Ptr("x"), "New Item"))
	now := time.Now()
	assert.Equal(t, now, TimeOr(&time.Time{}, now))
}

func TestWorkItem_Validate(t *testing.T) {
	valid := WorkItem{Name: "x", Type: ItemTask, Status: StatusNotStarted, Priority: PriorityLow, Approval: ApprovalPending}
	require.NoError(t, valid.Validate())

	tests := []struct {
		field  string
		mutate func(*WorkItem)
	}{
		{"name", func(w *WorkItem) { w.Name = "" }},
		{"type", func(w *WorkItem) { w.Type = "epic" }},
		{"status", func(w *WorkItem) { w.Status = "done" }},
		{"priority", func(w *WorkItem) { w.Priority = "" }},
		{"approval", func(w *WorkItem) { w.Approval = "maybe" }},
		{"progress", func(w *WorkItem) { w.Progress = 101 }},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			w := valid
			tt.mutate(&w)
			var ve *ValidationError
			require.ErrorAs(t, w.Validate(), &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}
