package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/ganttboard/internal/server"
)

func newServeCmd(app *App) *cobra.Command {
	var addr, schedule string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the board over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := app.loadBoard(ctx); err != nil {
				// The server still starts; /healthz reports the failure.
				app.Logger.Warn("initial load failed", "error", err)
			}

			srv, err := server.New(server.Options{
				Board:  app.Board,
				Chart:  app.Config.Chart,
				Logger: app.Logger,
				Mode:   app.Config.Server.Mode,
			})
			if err != nil {
				return err
			}

			if schedule != "" {
				refresher, err := server.NewRefresher(app.Board, schedule, app.Logger)
				if err != nil {
					return err
				}
				refresher.Start()
				defer refresher.Stop()
			}

			return srv.Run(ctx, addr, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", app.Config.Server.Addr(), "Listen address")
	cmd.Flags().StringVar(&schedule, "refresh", app.Config.Server.RefreshSchedule, `Cron schedule for reloading from the database, e.g. "@every 30s"`)
	return cmd
}
