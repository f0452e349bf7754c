package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/alexanderramin/ganttboard/internal/cli"
	"github.com/alexanderramin/ganttboard/internal/config"
	"github.com/alexanderramin/ganttboard/internal/db"
	"github.com/alexanderramin/ganttboard/internal/logging"
	"github.com/alexanderramin/ganttboard/internal/palette"
	"github.com/alexanderramin/ganttboard/internal/repository"
	"github.com/alexanderramin/ganttboard/internal/service"
	"github.com/alexanderramin/ganttboard/internal/viewmodel"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Config file comes from GANTTBOARD_CONFIG; everything else can be
	// overridden with GANTTBOARD_* variables.
	cfg, err := config.Load("")
	if err != nil {
		return err
	}
	logger := logging.New(os.Stderr, cfg.Log)

	database, err := db.OpenDB(cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	workItemRepo := repository.NewSQLiteWorkItemRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)
	colors := palette.FromConfig(cfg.Palette.Mode, cfg.Palette.Seed)
	observer := service.NewSlogUseCaseObserver(logger)

	items := service.NewWorkItemService(workItemRepo, uow, colors, observer)
	board := viewmodel.New(items,
		viewmodel.WithProject(cfg.ProjectSettings()),
		viewmodel.WithTimeline(cfg.Scale(), cfg.Timeline.Zoom),
	)

	app := &cli.App{
		Items:  items,
		Import: service.NewImportService(uow, colors, observer),
		Board:  board,
		Config: cfg,
		Logger: logger,
	}
	app.IsInteractive = func() bool {
		in, out := os.Stdin.Fd(), os.Stdout.Fd()
		return (isatty.IsTerminal(in) || isatty.IsCygwinTerminal(in)) &&
			(isatty.IsTerminal(out) || isatty.IsCygwinTerminal(out))
	}

	return cli.NewRootCmd(app).ExecuteContext(context.Background())
}
