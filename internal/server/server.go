// Package server exposes the board over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/ganttboard/internal/config"
	"github.com/alexanderramin/ganttboard/internal/viewmodel"
)

// Options wires the server to the board.
type Options struct {
	Board  *viewmodel.Orchestrator
	Chart  config.ChartConfig
	Logger *slog.Logger
	// Mode is the gin mode; empty means release.
	Mode string
}

type Server struct {
	board  *viewmodel.Orchestrator
	chart  config.ChartConfig
	logger *slog.Logger
	router *gin.Engine
}

func New(opts Options) (*Server, error) {
	if opts.Board == nil {
		return nil, fmt.Errorf("server: board is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Mode == "" {
		opts.Mode = gin.ReleaseMode
	}
	gin.SetMode(opts.Mode)

	s := &Server{
		board:  opts.Board,
		chart:  opts.Chart,
		logger: opts.Logger.With("component", "http"),
		router: gin.New(),
	}
	s.router.Use(gin.Recovery(), requestLogger(s.logger))
	s.registerRoutes()
	return s, nil
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string, out io.Writer) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if out != nil {
		fmt.Fprintf(out, "ganttboard listening on http://%s\n", addr)
	}
	s.logger.Info("server started", "addr", addr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "error", c.Errors.String())
		}
		switch {
		case status >= 500:
			logger.ErrorContext(c.Request.Context(), "request", attrs...)
		case status >= 400:
			logger.WarnContext(c.Request.Context(), "request", attrs...)
		default:
			logger.DebugContext(c.Request.Context(), "request", attrs...)
		}
	}
}
