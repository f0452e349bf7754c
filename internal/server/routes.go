package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/ganttboard/internal/chart"
	"github.com/alexanderramin/ganttboard/internal/domain"
	"github.com/alexanderramin/ganttboard/internal/viewmodel"
)

func (s *Server) registerRoutes() {
	s.router.GET("/healthz", s.handleHealth)

	api := s.router.Group("/api")
	api.GET("/view", s.handleView)
	api.GET("/export.svg", s.handleExportSVG)
	api.GET("/assignees", s.handleAssignees)
	api.GET("/settings", s.handleSettings)
	api.PUT("/filter", s.handleSetFilter)

	api.POST("/timeline/zoom-in", s.handleZoom(true))
	api.POST("/timeline/zoom-out", s.handleZoom(false))
	api.PUT("/timeline/scale", s.handleSetScale)

	items := api.Group("/items")
	items.GET("", s.handleListItems)
	items.POST("", s.handleCreateItem)
	items.GET("/:id", s.handleGetItem)
	items.PATCH("/:id", s.handlePatchItem)
	items.DELETE("/:id", s.handleDeleteItem)
	items.PUT("/:id/progress", s.handleSetProgress)
}

// writeError maps domain errors onto status codes.
func (s *Server) writeError(c *gin.Context, err error) {
	_ = c.Error(err)

	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Message, "field": ve.Field})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrDataUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	body := gin.H{"status": "ok", "items": len(s.board.Items())}
	if err := s.board.LastError(); err != nil {
		body["status"] = "degraded"
		body["last_error"] = err.Error()
	}
	c.JSON(http.StatusOK, body)
}

// filterFromQuery builds a filter from query parameters. ok is false when
// no filter parameter is present.
func filterFromQuery(c *gin.Context) (domain.FilterConfig, bool, error) {
	q := c.Request.URL.Query()
	keys := []string{"search", "type", "status", "priority", "assignee", "approval", "from", "to", "where"}
	present := false
	for _, k := range keys {
		if q.Has(k) {
			present = true
			break
		}
	}
	if !present {
		return domain.FilterConfig{}, false, nil
	}

	doc := viewmodel.FilterDoc{
		Search:     q.Get("search"),
		Types:      splitValues(q["type"]),
		Statuses:   splitValues(q["status"]),
		Priorities: splitValues(q["priority"]),
		Assignees:  splitValues(q["assignee"]),
		Approvals:  splitValues(q["approval"]),
		From:       q.Get("from"),
		To:         q.Get("to"),
		Where:      q.Get("where"),
	}
	cfg, err := doc.Config()
	return cfg, true, err
}

// splitValues accepts both repeated parameters and comma lists.
func splitValues(vals []string) []string {
	var out []string
	for _, v := range vals {
		for _, part := range strings.Split(v, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

func (s *Server) currentView(c *gin.Context) (viewmodel.View, error) {
	cfg, ok, err := filterFromQuery(c)
	if err != nil {
		return viewmodel.View{}, err
	}
	if !ok {
		return s.board.View(), nil
	}
	return s.board.ViewWith(cfg)
}

func (s *Server) handleView(c *gin.Context) {
	v, err := s.currentView(c)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, v.Document())
}

func (s *Server) handleExportSVG(c *gin.Context) {
	v, err := s.currentView(c)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.Header("Content-Type", "image/svg+xml")
	c.Status(http.StatusOK)
	if err := chart.RenderSVG(c.Writer, v, s.chart); err != nil {
		_ = c.Error(err)
	}
}

func (s *Server) handleAssignees(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"assignees": s.board.Assignees()})
}

func (s *Server) handleSettings(c *gin.Context) {
	cfg := s.board.Config()
	c.JSON(http.StatusOK, gin.H{
		"project": viewmodel.NewProjectDoc(s.board.Project()),
		"timeline": gin.H{
			"scale": cfg.Scale,
			"zoom":  cfg.Zoom,
		},
		"filter": viewmodel.NewFilterDoc(s.board.Filter()),
	})
}

func (s *Server) handleSetFilter(c *gin.Context) {
	var doc viewmodel.FilterDoc
	if err := c.ShouldBindJSON(&doc); err != nil {
		s.writeError(c, domain.NewValidationError("filter", "invalid body: %v", err))
		return
	}
	cfg, err := doc.Config()
	if err != nil {
		s.writeError(c, err)
		return
	}
	if err := s.board.UpdateFilter(cfg); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, viewmodel.NewFilterDoc(s.board.Filter()))
}

func (s *Server) handleZoom(in bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var cfg domain.TimelineConfig
		if in {
			cfg = s.board.ZoomIn()
		} else {
			cfg = s.board.ZoomOut()
		}
		c.JSON(http.StatusOK, gin.H{"scale": cfg.Scale, "zoom": cfg.Zoom})
	}
}

func (s *Server) handleSetScale(c *gin.Context) {
	var body struct {
		Scale string `json:"scale"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		s.writeError(c, domain.NewValidationError("scale", "invalid body: %v", err))
		return
	}
	if err := s.board.SetScale(domain.Scale(body.Scale)); err != nil {
		s.writeError(c, err)
		return
	}
	cfg := s.board.Config()
	c.JSON(http.StatusOK, gin.H{"scale": cfg.Scale, "zoom": cfg.Zoom})
}

func (s *Server) handleListItems(c *gin.Context) {
	items := s.board.Items()
	docs := make([]viewmodel.ItemDoc, len(items))
	for i, w := range items {
		docs[i] = viewmodel.NewItemDoc(w)
	}
	c.JSON(http.StatusOK, gin.H{"items": docs})
}

func (s *Server) handleGetItem(c *gin.Context) {
	w, err := s.board.Item(c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, viewmodel.NewItemDoc(w))
}

func bindItemInput(c *gin.Context) (domain.WorkItemPatch, error) {
	var in viewmodel.ItemInput
	if err := c.ShouldBindJSON(&in); err != nil {
		return domain.WorkItemPatch{}, domain.NewValidationError("item", "invalid body: %v", err)
	}
	return in.Patch()
}

func (s *Server) handleCreateItem(c *gin.Context) {
	patch, err := bindItemInput(c)
	if err != nil {
		s.writeError(c, err)
		return
	}
	draft := s.board.RequestAdd(nil)
	draft.Item = patch.Apply(draft.Item)

	created, err := s.board.Save(c.Request.Context(), draft)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, viewmodel.NewItemDoc(created))
}

func (s *Server) handlePatchItem(c *gin.Context) {
	patch, err := bindItemInput(c)
	if err != nil {
		s.writeError(c, err)
		return
	}
	id := c.Param("id")
	if patch.IsEmpty() {
		s.writeError(c, domain.NewValidationError("item", "no fields to update"))
		return
	}
	if err := s.board.Update(c.Request.Context(), id, patch); err != nil {
		s.writeError(c, err)
		return
	}
	s.handleGetItem(c)
}

func (s *Server) handleDeleteItem(c *gin.Context) {
	if err := s.board.Delete(c.Request.Context(), c.Param("id")); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleSetProgress(c *gin.Context) {
	var body struct {
		Progress *int `json:"progress"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Progress == nil {
		s.writeError(c, domain.NewValidationError("progress", "body must be {\"progress\": 0-100}"))
		return
	}
	if err := s.board.RequestProgressUpdate(c.Request.Context(), c.Param("id"), *body.Progress); err != nil {
		s.writeError(c, err)
		return
	}
	s.handleGetItem(c)
}
