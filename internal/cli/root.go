package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/ganttboard/internal/config"
	"github.com/alexanderramin/ganttboard/internal/logging"
	"github.com/alexanderramin/ganttboard/internal/service"
	"github.com/alexanderramin/ganttboard/internal/viewmodel"
)

// App holds the services and board state shared by all commands.
type App struct {
	Items  service.WorkItemService
	Import service.ImportService
	Board  *viewmodel.Orchestrator
	Config config.Config
	Logger *slog.Logger

	// IsInteractive reports whether stdin/stdout are a terminal. Commands
	// only open forms when it returns true. Nil means never.
	IsInteractive func() bool
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// loadBoard reloads the board snapshot from the store.
func (a *App) loadBoard(ctx context.Context) error {
	return a.Board.Refresh(ctx)
}

// NewRootCmd creates the top-level "ganttboard" command and registers all
// subcommands against app.
func NewRootCmd(app *App) *cobra.Command {
	if app.Logger == nil {
		app.Logger = logging.Discard()
	}

	root := &cobra.Command{
		Use:           "ganttboard",
		Short:         "Project Gantt board for phases, tasks and milestones",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newItemCmd(app),
		newGanttCmd(app),
		newTUICmd(app),
		newImportCmd(app),
		newExportCmd(app),
		newQueryCmd(app),
		newServeCmd(app),
	)

	return root
}
