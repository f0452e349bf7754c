package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/ganttboard/internal/cli/formatter"
)

const defaultTermWidth = 100

func newGanttCmd(app *App) *cobra.Command {
	var (
		ff    *filterFlags
		tf    *timelineFlags
		width int
	)

	cmd := &cobra.Command{
		Use:   "gantt",
		Short: "Print the Gantt chart",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.loadBoard(cmd.Context()); err != nil {
				return err
			}
			if err := tf.apply(app); err != nil {
				return err
			}
			v, err := app.Board.ViewWith(ff.config())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderGantt(v, formatter.GanttOptions{Width: width, Cursor: -1}))
			return nil
		},
	}

	ff = addFilterFlags(cmd)
	tf = addTimelineFlags(cmd)
	cmd.Flags().IntVar(&width, "width", defaultTermWidth, "Output width in columns")
	return cmd
}
