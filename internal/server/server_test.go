package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/ganttboard/internal/config"
	"github.com/alexanderramin/ganttboard/internal/domain"
	"github.com/alexanderramin/ganttboard/internal/logging"
	"github.com/alexanderramin/ganttboard/internal/palette"
	"github.com/alexanderramin/ganttboard/internal/repository"
	"github.com/alexanderramin/ganttboard/internal/service"
	"github.com/alexanderramin/ganttboard/internal/testutil"
	"github.com/alexanderramin/ganttboard/internal/viewmodel"
)

type fixture struct {
	board   *viewmodel.Orchestrator
	handler http.Handler
}

func newFixture(t *testing.T, store viewmodel.Store) fixture {
	t.Helper()
	board := viewmodel.New(store, viewmodel.WithProject(domain.ProjectSettings{
		Name:             "Relaunch",
		DefaultAssignees: []string{"Zoe"},
	}))
	require.NoError(t, board.Refresh(context.Background()))

	srv, err := New(Options{Board: board, Chart: config.Default().Chart, Logger: logging.Discard(), Mode: gin.TestMode})
	require.NoError(t, err)
	return fixture{board: board, handler: srv.Handler()}
}

func newDBFixture(t *testing.T) fixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	svc := service.NewWorkItemService(
		repository.NewSQLiteWorkItemRepo(database),
		testutil.NewTestUoW(database),
		palette.NewRoundRobin(),
	)
	return newFixture(t, svc)
}

func (f fixture) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestNew_RequiresBoard(t *testing.T) {
	_, err := New(Options{})
	assert.ErrorContains(t, err, "board is required")
}

func TestItemLifecycle(t *testing.T) {
	f := newDBFixture(t)

	rec := f.do(t, http.MethodPost, "/api/items", `{"name":"Design","type":"phase","start_date":"2024-01-01","end_date":"2024-01-31"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	parent := decode[viewmodel.ItemDoc](t, rec)
	assert.Equal(t, "phase", parent.Type)
	assert.Equal(t, palette.Default, parent.Color)

	rec = f.do(t, http.MethodPost, "/api/items",
		`{"name":"Wireframes","start_date":"2024-01-02","end_date":"2024-01-09","parent_id":"`+parent.ID+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	child := decode[viewmodel.ItemDoc](t, rec)

	rec = f.do(t, http.MethodPut, "/api/items/"+child.ID+"/progress", `{"progress":100}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "completed", decode[viewmodel.ItemDoc](t, rec).Status)

	rec = f.do(t, http.MethodPatch, "/api/items/"+child.ID, `{"assignee":"Ann"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Ann", decode[viewmodel.ItemDoc](t, rec).Assignee)

	rec = f.do(t, http.MethodGet, "/api/view", "")
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[viewmodel.ViewDoc](t, rec)
	assert.Equal(t, "Relaunch", view.Project.Name)
	require.Len(t, view.Groups, 1)
	require.Len(t, view.Groups[0].Children, 1)
	assert.Equal(t, 30, view.Axis.TotalDays)

	rec = f.do(t, http.MethodGet, "/api/assignees", "")
	assert.JSONEq(t, `{"assignees":["Ann","Zoe"]}`, rec.Body.String())

	rec = f.do(t, http.MethodDelete, "/api/items/"+parent.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/view", "")
	view = decode[viewmodel.ViewDoc](t, rec)
	assert.Empty(t, view.Groups)
	require.Len(t, view.Unresolved, 1)
	assert.Equal(t, "parent-missing", view.Unresolved[0].Reason)
}

func TestErrors(t *testing.T) {
	f := newDBFixture(t)

	tests := []struct {
		name   string
		method string
		target string
		body   string
		status int
	}{
		{"unknown item", http.MethodGet, "/api/items/nope", "", http.StatusNotFound},
		{"patch unknown item", http.MethodPatch, "/api/items/nope", `{"name":"x"}`, http.StatusNotFound},
		{"empty patch", http.MethodPatch, "/api/items/nope", `{}`, http.StatusBadRequest},
		{"invalid enum", http.MethodPost, "/api/items", `{"status":"done"}`, http.StatusBadRequest},
		{"invalid date", http.MethodPost, "/api/items", `{"start_date":"tomorrow"}`, http.StatusBadRequest},
		{"malformed body", http.MethodPost, "/api/items", `{`, http.StatusBadRequest},
		{"progress body missing", http.MethodPut, "/api/items/x/progress", `{}`, http.StatusBadRequest},
		{"bad scale", http.MethodPut, "/api/timeline/scale", `{"scale":"years"}`, http.StatusBadRequest},
		{"bad filter", http.MethodPut, "/api/filter", `{"statuses":["done"]}`, http.StatusBadRequest},
		{"bad view query", http.MethodGet, "/api/view?where=progress%20%3E", "", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, tt.method, tt.target, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Body.String(), `"error"`)
		})
	}
}

func TestTimelineAndFilter(t *testing.T) {
	f := newFixture(t, testutil.NewMemStore(
		testutil.NewTestWorkItem("Alpha", testutil.WithID("a"), testutil.WithPriority(domain.PriorityHigh)),
		testutil.NewTestWorkItem("Beta", testutil.WithID("b"), testutil.WithDates(testutil.Day(3), testutil.Day(40))),
	))

	rec := f.do(t, http.MethodPost, "/api/timeline/zoom-in", "")
	assert.JSONEq(t, `{"scale":"days","zoom":1.2}`, rec.Body.String())

	rec = f.do(t, http.MethodPut, "/api/timeline/scale", `{"scale":"weeks"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.ScaleWeeks, f.board.Config().Scale)

	rec = f.do(t, http.MethodGet, "/api/view?priority=high", "")
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[viewmodel.ViewDoc](t, rec)
	assert.Equal(t, 1, view.Visible)
	assert.Equal(t, 2, view.Total)
	assert.True(t, f.board.Filter().IsZero(), "query filters are not sticky")

	rec = f.do(t, http.MethodPut, "/api/filter", `{"search":"beta"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "beta", f.board.Filter().Search)

	rec = f.do(t, http.MethodGet, "/api/settings", "")
	settings := decode[map[string]any](t, rec)
	assert.Equal(t, "weeks", settings["timeline"].(map[string]any)["scale"])
	assert.Equal(t, "beta", settings["filter"].(map[string]any)["search"])
}

func TestExportSVG(t *testing.T) {
	f := newFixture(t, testutil.NewMemStore(testutil.NewTestWorkItem("Alpha")))

	rec := f.do(t, http.MethodGet, "/api/export.svg", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<svg")
	assert.Contains(t, rec.Body.String(), "Alpha")
}

func TestHealthAndUnavailableStore(t *testing.T) {
	store := testutil.NewFailingStore(testutil.NewTestWorkItem("Alpha", testutil.WithID("a")))
	f := newFixture(t, store)

	rec := f.do(t, http.MethodGet, "/healthz", "")
	assert.JSONEq(t, `{"status":"ok","items":1}`, rec.Body.String())

	store.SetFailing(true)
	rec = f.do(t, http.MethodPut, "/api/items/a/progress", `{"progress":10}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = f.do(t, http.MethodGet, "/healthz", "")
	health := decode[map[string]any](t, rec)
	assert.Equal(t, "degraded", health["status"])
	assert.Contains(t, health["last_error"], "updating progress")
}

func TestRefresher(t *testing.T) {
	store := testutil.NewMemStore()
	board := viewmodel.New(store)

	_, err := NewRefresher(board, "not a schedule", logging.Discard())
	require.Error(t, err)

	r, err := NewRefresher(board, "@every 1h", logging.Discard())
	require.NoError(t, err)

	_, err = store.Create(context.Background(), domain.WorkItemPatch{Name: domain.Ptr("Late arrival")})
	require.NoError(t, err)
	assert.Empty(t, board.Items())

	r.Tick()
	assert.Len(t, board.Items(), 1)

	r.Start()
	r.Stop()
}
