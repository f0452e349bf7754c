package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/ganttboard/internal/domain"
	"github.com/alexanderramin/ganttboard/internal/palette"
	"github.com/alexanderramin/ganttboard/internal/repository"
	"github.com/alexanderramin/ganttboard/internal/testutil"
	"github.com/alexanderramin/ganttboard/internal/viewmodel"
)

var _ viewmodel.Store = (WorkItemService)(nil)

func newTestWorkItemService(t *testing.T, observers ...UseCaseObserver) (WorkItemService, *sql.DB) {
	t.Helper()
	database := testutil.NewTestDB(t)
	svc := NewWorkItemService(
		repository.NewSQLiteWorkItemRepo(database),
		testutil.NewTestUoW(database),
		palette.NewRoundRobin(),
		observers...,
	)
	return svc, database
}

func TestWorkItemService_CreateAppliesDefaults(t *testing.T) {
	svc, _ := newTestWorkItemService(t)
	ctx := context.Background()

	before := time.Now().UTC().Add(-time.Second)
	w, err := svc.Create(ctx, domain.WorkItemPatch{})
	require.NoError(t, err)

	assert.NotEmpty(t, w.ID)
	assert.Equal(t, "New Item", w.Name)
	assert.Equal(t, domain.ItemTask, w.Type)
	assert.Equal(t, domain.StatusNotStarted, w.Status)
	assert.Equal(t, 0, w.Progress)
	assert.Equal(t, domain.PriorityMedium, w.Priority)
	assert.Equal(t, domain.ApprovalNotRequired, w.Approval)
	assert.Equal(t, palette.Default, w.Color)
	assert.Empty(t, w.Blockers)
	assert.Empty(t, w.Dependencies)
	assert.True(t, w.IsRoot())
	assert.True(t, w.StartDate.After(before))
	assert.True(t, w.StartDate.Equal(w.EndDate))

	all, err := svc.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, w.ID, all[0].ID)
	assert.True(t, w.CreatedAt.Equal(all[0].CreatedAt))
}

func TestWorkItemService_CreateUsesAssignerPerItem(t *testing.T) {
	svc, _ := newTestWorkItemService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, domain.WorkItemPatch{})
	require.NoError(t, err)
	second, err := svc.Create(ctx, domain.WorkItemPatch{})
	require.NoError(t, err)
	explicit, err := svc.Create(ctx, domain.WorkItemPatch{Color: domain.Ptr("#000000")})
	require.NoError(t, err)

	assert.Equal(t, palette.ItemColors[0], first.Color)
	assert.Equal(t, palette.ItemColors[1], second.Color)
	assert.Equal(t, "#000000", explicit.Color)
}

func TestWorkItemService_CreateRejects(t *testing.T) {
	svc, _ := newTestWorkItemService(t)
	ctx := context.Background()

	root, err := svc.Create(ctx, domain.WorkItemPatch{Name: domain.Ptr("Root")})
	require.NoError(t, err)
	rootID := root.ID
	child, err := svc.Create(ctx, domain.WorkItemPatch{Name: domain.Ptr("Child"), ParentID: ptrPtr(rootID)})
	require.NoError(t, err)

	tests := []struct {
		name  string
		patch domain.WorkItemPatch
		field string
	}{
		{"unknown status", domain.WorkItemPatch{Status: domain.Ptr(domain.ItemStatus("done"))}, "status"},
		{"progress out of range", domain.WorkItemPatch{Progress: domain.Ptr(101)}, "progress"},
		{"missing parent", domain.WorkItemPatch{ParentID: ptrPtr("ghost")}, "parent"},
		{"parent is a child", domain.WorkItemPatch{ParentID: ptrPtr(child.ID)}, "parent"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.patch)
			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}

	all, err := svc.FetchAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2, "rejected creates persist nothing")
}

func TestWorkItemService_Update(t *testing.T) {
	svc, _ := newTestWorkItemService(t)
	ctx := context.Background()

	w, err := svc.Create(ctx, domain.WorkItemPatch{Name: domain.Ptr("Draft")})
	require.NoError(t, err)

	require.NoError(t, svc.Update(ctx, w.ID, domain.ProgressPatch(45)))

	got, err := svc.Get(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, "Draft", got.Name, "unset fields untouched")
	assert.Equal(t, 45, got.Progress)
	assert.Equal(t, domain.StatusInProgress, got.Status)
	assert.True(t, w.CreatedAt.Equal(got.CreatedAt))
	assert.False(t, got.UpdatedAt.Before(w.UpdatedAt))
}

func TestWorkItemService_UpdateErrors(t *testing.T) {
	svc, _ := newTestWorkItemService(t)
	ctx := context.Background()

	parent, err := svc.Create(ctx, domain.WorkItemPatch{Name: domain.Ptr("Parent")})
	require.NoError(t, err)
	other, err := svc.Create(ctx, domain.WorkItemPatch{Name: domain.Ptr("Other")})
	require.NoError(t, err)
	_, err = svc.Create(ctx, domain.WorkItemPatch{Name: domain.Ptr("Child"), ParentID: ptrPtr(parent.ID)})
	require.NoError(t, err)

	t.Run("missing item", func(t *testing.T) {
		err := svc.Update(ctx, "ghost", domain.ProgressPatch(10))
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
	t.Run("self parent", func(t *testing.T) {
		err := svc.Update(ctx, other.ID, domain.WorkItemPatch{ParentID: ptrPtr(other.ID)})
		assert.True(t, domain.IsValidation(err))
	})
	t.Run("nesting a parent", func(t *testing.T) {
		err := svc.Update(ctx, parent.ID, domain.WorkItemPatch{ParentID: ptrPtr(other.ID)})
		assert.True(t, domain.IsValidation(err))
	})
	t.Run("empty name", func(t *testing.T) {
		err := svc.Update(ctx, other.ID, domain.WorkItemPatch{Name: domain.Ptr("")})
		assert.True(t, domain.IsValidation(err))

		got, err := svc.Get(ctx, other.ID)
		require.NoError(t, err)
		assert.Equal(t, "Other", got.Name)
	})
}

func TestWorkItemService_DeleteLeavesChildrenDangling(t *testing.T) {
	svc, _ := newTestWorkItemService(t)
	ctx := context.Background()

	parent, err := svc.Create(ctx, domain.WorkItemPatch{Name: domain.Ptr("Parent")})
	require.NoError(t, err)
	child, err := svc.Create(ctx, domain.WorkItemPatch{
		Name:         domain.Ptr("Child"),
		ParentID:     ptrPtr(parent.ID),
		Dependencies: &[]string{parent.ID},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, parent.ID))
	assert.ErrorIs(t, svc.Delete(ctx, parent.ID), domain.ErrNotFound)

	got, err := svc.Get(ctx, child.ID)
	require.NoError(t, err)
	assert.Equal(t, parent.ID, got.Parent())
	assert.Equal(t, []string{parent.ID}, got.Dependencies)
}

func TestWorkItemService_Blockers(t *testing.T) {
	svc, _ := newTestWorkItemService(t)
	ctx := context.Background()

	w, err := svc.Create(ctx, domain.WorkItemPatch{})
	require.NoError(t, err)

	require.NoError(t, svc.AddBlocker(ctx, w.ID, "  vendor contract "))
	require.NoError(t, svc.AddBlocker(ctx, w.ID, "vendor contract"))
	require.NoError(t, svc.AddBlocker(ctx, w.ID, "budget"))

	got, err := svc.Get(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"vendor contract", "budget"}, got.Blockers)

	require.NoError(t, svc.RemoveBlocker(ctx, w.ID, "vendor contract"))
	got, err = svc.Get(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"budget"}, got.Blockers)

	assert.True(t, domain.IsValidation(svc.RemoveBlocker(ctx, w.ID, "nope")))
	assert.True(t, domain.IsValidation(svc.AddBlocker(ctx, w.ID, "   ")))
	assert.ErrorIs(t, svc.AddBlocker(ctx, "ghost", "x"), domain.ErrNotFound)
}

func TestWorkItemService_RollsBackFailedUpdate(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteWorkItemRepo(database)
	ctx := context.Background()

	seed := testutil.NewTestWorkItem("Seed", testutil.WithID("w1"))
	require.NoError(t, repo.Create(ctx, &seed))

	failing := NewWorkItemService(repo, &testutil.FailOnNthExecUoW{
		DB:     database,
		FailOn: 1,
		Err:    errors.New("injected update failure"),
	}, nil)

	err := failing.Update(ctx, "w1", domain.ProgressPatch(80))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "injected update failure")

	got, err := repo.GetByID(ctx, "w1")
	require.NoError(t, err)
	assert.Equal(t, 0, got.Progress)
}

func TestWorkItemService_ObservesUseCases(t *testing.T) {
	rec := &RecordingObserver{}
	svc, _ := newTestWorkItemService(t, rec)
	ctx := context.Background()

	w, err := svc.Create(ctx, domain.WorkItemPatch{})
	require.NoError(t, err)
	_ = svc.Update(ctx, "ghost", domain.ProgressPatch(1))
	require.NoError(t, svc.Delete(ctx, w.ID))

	events := rec.Events()
	require.Len(t, events, 3)
	assert.Equal(t, "create-work-item", events[0].Name)
	assert.True(t, events[0].Success)
	assert.Equal(t, w.ID, events[0].Fields["id"])
	assert.Equal(t, "update-work-item", events[1].Name)
	assert.False(t, events[1].Success)
	assert.ErrorIs(t, events[1].Err, domain.ErrNotFound)
	assert.Equal(t, "delete-work-item", events[2].Name)
}

func ptrPtr(s string) **string {
	p := &s
	return &p
}
