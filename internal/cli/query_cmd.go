package cli

import (
	"github.com/spf13/cobra"

	"github.com/alexanderramin/ganttboard/internal/query"
)

func newQueryCmd(app *App) *cobra.Command {
	var (
		compact, raw bool
		ff           *filterFlags
	)

	cmd := &cobra.Command{
		Use:   "query PROGRAM",
		Short: "Run a jq program against the JSON view",
		Example: `  ganttboard query '.groups[].parent.item.name'
  ganttboard query -r '.unresolved[] | "\(.item.name): \(.reason)"'
  ganttboard query '[.groups[].children[] | select(.item.progress < 50)] | length'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.loadBoard(ctx); err != nil {
				return err
			}
			v, err := app.Board.ViewWith(ff.config())
			if err != nil {
				return err
			}
			results, err := query.NewEngine().Run(ctx, args[0], v.Document())
			if err != nil {
				return err
			}
			return query.Write(cmd.OutOrStdout(), results, compact, raw)
		},
	}

	cmd.Flags().BoolVarP(&compact, "compact", "c", false, "One line per result")
	cmd.Flags().BoolVarP(&raw, "raw", "r", false, "Print strings without quotes")
	ff = addFilterFlags(cmd)
	return cmd
}
