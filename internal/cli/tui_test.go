package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/ganttboard/internal/domain"
	"github.com/alexanderramin/ganttboard/internal/teatest"
	"github.com/alexanderramin/ganttboard/internal/testutil"
	"github.com/alexanderramin/ganttboard/internal/viewmodel"
)

func newTUIDriver(t *testing.T, store viewmodel.Store) (*teatest.Driver, *App) {
	t.Helper()
	app := &App{Board: viewmodel.New(store, viewmodel.WithProject(domain.ProjectSettings{Name: "Relaunch"}))}
	d := teatest.New(t, newBoardModel(context.Background(), app), teatest.WithSize(120, 30))
	d.DrainInit()
	return d, app
}

func tuiItems() []domain.WorkItem {
	design := testutil.NewTestWorkItem("Design", testutil.WithID("design-1"), testutil.WithType(domain.ItemPhase))
	return []domain.WorkItem{
		design,
		testutil.NewTestWorkItem("Wireframes", testutil.WithID("wire-1"), testutil.WithParentID(design.ID)),
		testutil.NewTestWorkItem("Ship", testutil.WithID("ship-1"), testutil.WithType(domain.ItemMilestone)),
	}
}

func boardModelOf(t *testing.T, d *teatest.Driver) boardModel {
	t.Helper()
	m, ok := d.Model.(boardModel)
	require.True(t, ok)
	return m
}

func TestTUI_InitialRender(t *testing.T) {
	d, _ := newTUIDriver(t, testutil.NewMemStore(tuiItems()...))

	view := d.View()
	assert.Contains(t, view, "Relaunch")
	assert.Contains(t, view, "3 of 3 items")
	assert.Contains(t, view, "Wireframes")
	assert.Contains(t, view, "zoom in")
	assert.NotContains(t, view, "Loading")
}

func TestTUI_ZoomAndScale(t *testing.T) {
	d, app := newTUIDriver(t, testutil.NewMemStore(tuiItems()...))

	d.Keys("+++")
	assert.InDelta(t, 1.728, app.Board.Config().Zoom, 1e-9)
	assert.Contains(t, d.View(), "zoom 1.73x")

	d.Keys("--")
	assert.InDelta(t, 1.2, app.Board.Config().Zoom, 1e-9)

	d.PressKey('w')
	assert.Equal(t, domain.ScaleWeeks, app.Board.Config().Scale)
	d.PressKey('m')
	assert.Equal(t, domain.ScaleMonths, app.Board.Config().Scale)
	d.PressKey('d')
	assert.Equal(t, domain.ScaleDays, app.Board.Config().Scale)
}

func TestTUI_CursorStaysInBounds(t *testing.T) {
	d, _ := newTUIDriver(t, testutil.NewMemStore(tuiItems()...))

	d.PressKey('k')
	assert.Equal(t, 0, boardModelOf(t, d).cursor)

	d.Keys("jjjjj")
	assert.Equal(t, 2, boardModelOf(t, d).cursor)
}

func TestTUI_EditProgress(t *testing.T) {
	store := testutil.NewMemStore(tuiItems()...)
	d, app := newTUIDriver(t, store)

	d.Keys("jp")
	m := boardModelOf(t, d)
	require.True(t, m.editing)
	assert.Equal(t, "wire-1", m.editID)

	d.PressBackspace()
	d.Type("100")
	d.PressEnter()

	m = boardModelOf(t, d)
	assert.False(t, m.editing)
	assert.Contains(t, d.View(), "Saved progress for Wireframes")

	it, err := app.Board.Item("wire-1")
	require.NoError(t, err)
	assert.Equal(t, 100, it.Progress)
	assert.Equal(t, domain.StatusCompleted, it.Status)
}

func TestTUI_EditProgressCancel(t *testing.T) {
	d, app := newTUIDriver(t, testutil.NewMemStore(tuiItems()...))

	d.PressKey('p')
	d.Type("5")
	d.PressEsc()

	assert.False(t, boardModelOf(t, d).editing)
	it, err := app.Board.Item("design-1")
	require.NoError(t, err)
	assert.Equal(t, 0, it.Progress)
}

func TestTUI_EditProgressRejectsText(t *testing.T) {
	d, _ := newTUIDriver(t, testutil.NewMemStore(tuiItems()...))

	d.PressKey('p')
	d.PressBackspace()
	d.Type("ab")
	d.PressEnter()

	m := boardModelOf(t, d)
	assert.True(t, m.editing)
	assert.Contains(t, d.View(), "not a whole number")
}

func TestTUI_StoreFailureShowsErrorAndKeepsSnapshot(t *testing.T) {
	store := testutil.NewFailingStore(tuiItems()...)
	d, app := newTUIDriver(t, store)

	store.SetFailing(true)
	d.PressKey('r')

	view := d.View()
	assert.Contains(t, view, "esc to dismiss")
	assert.Contains(t, view, "Wireframes")
	assert.ErrorIs(t, app.Board.LastError(), domain.ErrDataUnavailable)

	d.PressEsc()
	assert.NoError(t, app.Board.LastError())
	assert.NotContains(t, d.View(), "esc to dismiss")
}

func TestTUI_EmptyBoard(t *testing.T) {
	d, _ := newTUIDriver(t, testutil.NewMemStore())

	assert.Contains(t, d.View(), "No work items yet")
	d.PressKey('p')
	assert.False(t, boardModelOf(t, d).editing)
}

func TestTUI_Quit(t *testing.T) {
	d, _ := newTUIDriver(t, testutil.NewMemStore(tuiItems()...))
	d.PressKey('q')
	assert.True(t, d.Quitting)
}
