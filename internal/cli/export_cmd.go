package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/ganttboard/internal/chart"
	"github.com/alexanderramin/ganttboard/internal/importer"
)

func newExportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the board as JSON or SVG",
	}
	cmd.AddCommand(newExportJSONCmd(app), newExportSVGCmd(app))
	return cmd
}

// withOutput runs fn against the -o file, or stdout when path is empty.
func withOutput(cmd *cobra.Command, path string, fn func(io.Writer) error) error {
	if path == "" {
		return fn(cmd.OutOrStdout())
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := fn(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", path)
	return nil
}

func newExportJSONCmd(app *App) *cobra.Command {
	var (
		out    string
		asView bool
		ff     *filterFlags
		tf     *timelineFlags
	)

	cmd := &cobra.Command{
		Use:   "json",
		Short: "Export items as an import document, or the computed view with --view",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.loadBoard(cmd.Context()); err != nil {
				return err
			}

			var doc any
			if asView {
				if err := tf.apply(app); err != nil {
					return err
				}
				v, err := app.Board.ViewWith(ff.config())
				if err != nil {
					return err
				}
				doc = v.Document()
			} else {
				p := app.Board.Project()
				doc = importer.Export(app.Board.Items(), &importer.ProjectImport{Name: p.Name, Description: p.Description})
			}

			return withOutput(cmd, out, func(w io.Writer) error {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				if err := enc.Encode(doc); err != nil {
					return fmt.Errorf("encoding export: %w", err)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&out, "output", "o", "", "Write to file instead of stdout")
	cmd.Flags().BoolVar(&asView, "view", false, "Export the computed chart view")
	ff = addFilterFlags(cmd)
	tf = addTimelineFlags(cmd)
	return cmd
}

func newExportSVGCmd(app *App) *cobra.Command {
	var (
		out string
		ff  *filterFlags
		tf  *timelineFlags
	)

	cmd := &cobra.Command{
		Use:   "svg",
		Short: "Render the chart as SVG",
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
			return withOutput(cmd, out, func(w io.Writer) error {
				return chart.RenderSVG(w, v, app.Config.Chart)
			})
		},
	}

	cmd.Flags().StringVarP(&out, "output", "o", "", "Write to file instead of stdout")
	ff = addFilterFlags(cmd)
	tf = addTimelineFlags(cmd)
	return cmd
}
