package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/ganttboard/internal/domain"
	"github.com/alexanderramin/ganttboard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkItemRepo_CreateAndGetByID(t *testing.T) {
	repo := NewSQLiteWorkItemRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	w := testutil.NewTestWorkItem("Design",
		testutil.WithType(domain.ItemPhase),
		testutil.WithAssignee("Alice"),
		testutil.WithBlockers("legal review", "budget"),
		testutil.WithDependencies("x", "y"),
		testutil.WithApproval(domain.ApprovalPending),
		testutil.WithColor("#10B981"),
	)
	require.NoError(t, repo.Create(ctx, &w))

	got, err := repo.GetByID(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, w, *got)
}

func TestWorkItemRepo_EmptyListsAndParent(t *testing.T) {
	repo := NewSQLiteWorkItemRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	w := testutil.NewTestWorkItem("Plain", testutil.WithParentID(""))
	require.NoError(t, repo.Create(ctx, &w))

	got, err := repo.GetByID(ctx, w.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Blockers)
	assert.Nil(t, got.Dependencies)
	assert.Nil(t, got.ParentID)
}

func TestWorkItemRepo_GetByID_NotFound(t *testing.T) {
	repo := NewSQLiteWorkItemRepo(testutil.NewTestDB(t))
	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestWorkItemRepo_ListKeepsInsertionOrder(t *testing.T) {
	repo := NewSQLiteWorkItemRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	names := []string{"Zeta", "Alpha", "Mid"}
	for i, n := range names {
		// Later inserts get earlier dates; order must still follow insertion.
		w := testutil.NewTestWorkItem(n, testutil.WithDates(testutil.Day(10-i), testutil.Day(20-i)))
		require.NoError(t, repo.Create(ctx, &w))
	}

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	for i, w := range list {
		assert.Equal(t, names[i], w.Name)
	}
}

func TestWorkItemRepo_ListChildren(t *testing.T) {
	repo := NewSQLiteWorkItemRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	parent := testutil.NewTestWorkItem("Parent")
	c1 := testutil.NewTestWorkItem("C1", testutil.WithParentID(parent.ID))
	c2 := testutil.NewTestWorkItem("C2", testutil.WithParentID(parent.ID))
	other := testutil.NewTestWorkItem("Other")
	for _, w := range []*domain.WorkItem{&parent, &c1, &other, &c2} {
		require.NoError(t, repo.Create(ctx, w))
	}

	children, err := repo.ListChildren(ctx, parent.ID)
	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.Equal(t, "C1", children[0].Name)
	assert.Equal(t, "C2", children[1].Name)
}

func TestWorkItemRepo_Update(t *testing.T) {
	repo := NewSQLiteWorkItemRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	parent := testutil.NewTestWorkItem("Parent")
	w := testutil.NewTestWorkItem("Task", testutil.WithParentID(parent.ID))
	require.NoError(t, repo.Create(ctx, &parent))
	require.NoError(t, repo.Create(ctx, &w))

	w.Progress = 60
	w.Status = domain.StatusInProgress
	w.Blockers = []string{"waiting on vendor"}
	w.ParentID = nil
	w.UpdatedAt = testutil.Day(3)
	require.NoError(t, repo.Update(ctx, &w))

	got, err := repo.GetByID(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, 60, got.Progress)
	assert.Equal(t, domain.StatusInProgress, got.Status)
	assert.Equal(t, []string{"waiting on vendor"}, got.Blockers)
	assert.True(t, got.IsRoot())
	assert.Equal(t, testutil.Day(3), got.UpdatedAt)
}

func TestWorkItemRepo_UpdateAndDeleteMissing(t *testing.T) {
	repo := NewSQLiteWorkItemRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	w := testutil.NewTestWorkItem("Ghost")
	assert.ErrorIs(t, repo.Update(ctx, &w), domain.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "ghost"), domain.ErrNotFound)
}

func TestWorkItemRepo_DeleteLeavesChildrenDangling(t *testing.T) {
	repo := NewSQLiteWorkItemRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	parent := testutil.NewTestWorkItem("Parent")
	child := testutil.NewTestWorkItem("Child", testutil.WithParentID(parent.ID))
	require.NoError(t, repo.Create(ctx, &parent))
	require.NoError(t, repo.Create(ctx, &child))

	require.NoError(t, repo.Delete(ctx, parent.ID))

	got, err := repo.GetByID(ctx, child.ID)
	require.NoError(t, err)
	assert.Equal(t, parent.ID, got.Parent())
}

func TestWorkItemRepo_InvalidEnumRejectedByStore(t *testing.T) {
	repo := NewSQLiteWorkItemRepo(testutil.NewTestDB(t))
	w := testutil.NewTestWorkItem("Bad", testutil.WithStatus("done"))
	assert.Error(t, repo.Create(context.Background(), &w))
}
