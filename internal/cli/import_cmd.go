package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/ganttboard/internal/cli/formatter"
)

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Create work items from a JSON import document",
		Long: `Create work items from a JSON import document.

The document is checked against the import schema and for broken
references before anything is written. Items are created in a single
transaction: either all of them are stored or none are.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			res, err := app.Import.ImportFile(ctx, args[0])
			if err != nil {
				return err
			}
			if err := app.loadBoard(ctx); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported %d items (%d top-level, %d nested, %d dependencies)\n",
				len(res.Items), res.RootCount, res.ChildCount, res.Dependencies)
			fmt.Fprint(out, formatter.FormatItemList(res.Items))
			return nil
		},
	}
}
