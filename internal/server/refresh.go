package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/alexanderramin/ganttboard/internal/viewmodel"
)

// Refresher reloads the board snapshot on a cron schedule so edits made by
// other processes show up.
type Refresher struct {
	cron   *cron.Cron
	board  *viewmodel.Orchestrator
	logger *slog.Logger
	// timeout bounds a single reload.
	timeout time.Duration
}

// NewRefresher parses schedule, a standard five-field cron expression or a
// descriptor such as "@every 30s".
func NewRefresher(board *viewmodel.Orchestrator, schedule string, logger *slog.Logger) (*Refresher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Refresher{
		cron:    cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor))),
		board:   board,
		logger:  logger.With("component", "refresh"),
		timeout: 30 * time.Second,
	}
	if _, err := r.cron.AddFunc(schedule, r.Tick); err != nil {
		return nil, fmt.Errorf("refresh schedule %q: %w", schedule, err)
	}
	return r, nil
}

// Tick reloads once. Failures are logged and kept on the board as its last
// error; the previous snapshot stays visible.
func (r *Refresher) Tick() {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	if err := r.board.Refresh(ctx); err != nil {
		r.logger.Error("scheduled refresh failed", "error", err)
		return
	}
	r.logger.Debug("scheduled refresh", "items", len(r.board.Items()))
}

func (r *Refresher) Start() {
	r.cron.Start()
}

// Stop halts the schedule and waits for a running reload to finish.
func (r *Refresher) Stop() {
	<-r.cron.Stop().Done()
}
