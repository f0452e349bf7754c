package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/ganttboard/internal/cli/formatter"
	"github.com/alexanderramin/ganttboard/internal/domain"
)

func newItemCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "item",
		Aliases: []string{"items"},
		Short:   "Manage work items",
	}

	cmd.AddCommand(
		newItemAddCmd(app),
		newItemListCmd(app),
		newItemShowCmd(app),
		newItemUpdateCmd(app),
		newItemRemoveCmd(app),
		newItemProgressCmd(app),
		newItemBlockCmd(app),
	)

	return cmd
}

// itemFlags are the editable fields shared by add and update.
type itemFlags struct {
	name, itemType, status, description, assignee string
	priority, approval, parent, color             string
	progress                                      int
	start, end                                    dateValue
	dependsOn                                     []string
}

func addItemFlags(cmd *cobra.Command) *itemFlags {
	f := &itemFlags{}
	fs := cmd.Flags()
	fs.StringVar(&f.name, "name", "", "Item name")
	fs.StringVar(&f.itemType, "type", "", "Item type ("+joinValues(domain.ItemTypes)+")")
	fs.StringVar(&f.status, "status", "", "Status ("+joinValues(domain.Statuses)+")")
	fs.IntVar(&f.progress, "progress", 0, "Progress 0-100")
	fs.Var(&f.start, "start", "Start date (YYYY-MM-DD)")
	fs.Var(&f.end, "end", "End date (YYYY-MM-DD)")
	fs.StringVar(&f.description, "description", "", "Description")
	fs.StringVar(&f.assignee, "assignee", "", "Assignee")
	fs.StringVar(&f.priority, "priority", "", "Priority ("+joinValues(domain.Priorities)+")")
	fs.StringVar(&f.approval, "approval", "", "Approval ("+joinValues(domain.Approvals)+")")
	fs.StringVar(&f.parent, "parent", "", `Parent item id, id prefix or name ("" clears)`)
	fs.StringSliceVar(&f.dependsOn, "depends-on", nil, "Items this one depends on")
	fs.StringVar(&f.color, "color", "", "Bar colour (#RRGGBB)")
	return f
}

// patch builds a patch from the flags the user actually set.
func (f *itemFlags) patch(app *App, cmd *cobra.Command) (domain.WorkItemPatch, error) {
	changed := cmd.Flags().Changed
	var p domain.WorkItemPatch

	if changed("name") {
		p.Name = domain.Ptr(strings.TrimSpace(f.name))
	}
	if changed("type") {
		p.Type = domain.Ptr(domain.ItemType(f.itemType))
	}
	if changed("status") {
		p.Status = domain.Ptr(domain.ItemStatus(f.status))
	}
	if changed("progress") {
		p.Progress = domain.Ptr(f.progress)
	}
	if changed("start") {
		p.StartDate = f.start.t
	}
	if changed("end") {
		p.EndDate = f.end.t
	}
	if changed("description") {
		p.Description = domain.Ptr(f.description)
	}
	if changed("assignee") {
		p.Assignee = domain.Ptr(f.assignee)
	}
	if changed("priority") {
		p.Priority = domain.Ptr(domain.Priority(f.priority))
	}
	if changed("approval") {
		p.Approval = domain.Ptr(domain.Approval(f.approval))
	}
	if changed("color") {
		p.Color = domain.Ptr(f.color)
	}
	if changed("parent") {
		var pid *string
		if f.parent != "" {
			parent, err := resolveItem(app, f.parent)
			if err != nil {
				return domain.WorkItemPatch{}, fmt.Errorf("resolving parent: %w", err)
			}
			pid = &parent.ID
		}
		p.ParentID = &pid
	}
	if changed("depends-on") {
		deps := make([]string, 0, len(f.dependsOn))
		for _, ref := range f.dependsOn {
			dep, err := resolveItem(app, ref)
			if err != nil {
				return domain.WorkItemPatch{}, fmt.Errorf("resolving dependency: %w", err)
			}
			deps = append(deps, dep.ID)
		}
		p.Dependencies = &deps
	}
	return p, nil
}

func newItemAddCmd(app *App) *cobra.Command {
	var f *itemFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a work item",
		Long:  "Create a work item. Unset fields take defaults; run without flags in a terminal to fill in a form.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.loadBoard(ctx); err != nil {
				return err
			}

			patch, err := f.patch(app, cmd)
			if err != nil {
				return err
			}
			var parentID *string
			if patch.ParentID != nil {
				parentID = *patch.ParentID
			}
			draft := app.Board.RequestAdd(parentID)
			draft.Item = patch.Apply(draft.Item)

			if cmd.Flags().NFlag() == 0 && app.interactive() {
				if err := runItemForm(&draft); err != nil {
					return err
				}
			}

			created, err := app.Board.Save(ctx, draft)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s %s %s\n",
				created.Type, formatter.Bold(created.Name), formatter.Dim("("+formatter.TruncID(created.ID)+")"))
			return nil
		},
	}
	f = addItemFlags(cmd)
	return cmd
}

func newItemListCmd(app *App) *cobra.Command {
	var ff *filterFlags

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List work items in chart order",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.loadBoard(cmd.Context()); err != nil {
				return err
			}
			v, err := app.Board.ViewWith(ff.config())
			if err != nil {
				return err
			}
			rows := v.Rows()
			items := make([]domain.WorkItem, len(rows))
			for i, r := range rows {
				items[i] = r.Item
			}
			out := cmd.OutOrStdout()
			fmt.Fprint(out, formatter.FormatItemList(items))
			if v.Visible != v.Total {
				fmt.Fprintln(out, formatter.Dim(fmt.Sprintf("%d of %d items", v.Visible, v.Total)))
			}
			return nil
		},
	}
	ff = addFilterFlags(cmd)
	return cmd
}

func newItemShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ITEM",
		Short: "Show one work item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.loadBoard(cmd.Context()); err != nil {
				return err
			}
			item, err := resolveItem(app, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatItemDetail(item, itemNames(app.Board.Items())))
			return nil
		},
	}
}

func newItemUpdateCmd(app *App) *cobra.Command {
	var f *itemFlags

	cmd := &cobra.Command{
		Use:   "update ITEM",
		Short: "Change fields of a work item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.loadBoard(ctx); err != nil {
				return err
			}
			item, err := resolveItem(app, args[0])
			if err != nil {
				return err
			}
			patch, err := f.patch(app, cmd)
			if err != nil {
				return err
			}
			if patch.IsEmpty() {
				return domain.NewValidationError("update", "no fields given; see --help")
			}
			if err := app.Board.Update(ctx, item.ID, patch); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", formatter.Bold(item.Name))
			return nil
		},
	}
	f = addItemFlags(cmd)
	return cmd
}

func newItemRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm ITEM",
		Aliases: []string{"remove", "delete"},
		Short:   "Delete a work item",
		Long:    "Delete a work item. Its children and dependants are kept and show up as unresolved.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.loadBoard(ctx); err != nil {
				return err
			}
			item, err := resolveItem(app, args[0])
			if err != nil {
				return err
			}
			if err := app.Board.Delete(ctx, item.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", formatter.Bold(item.Name))
			return nil
		},
	}
}

func newItemProgressCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "progress ITEM [PERCENT]",
		Short: "Set progress; status follows (0 not started, 100 completed)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.loadBoard(ctx); err != nil {
				return err
			}
			item, err := resolveItem(app, args[0])
			if err != nil {
				return err
			}

			var raw string
			switch {
			case len(args) == 2:
				raw = args[1]
			case app.interactive():
				raw = strconv.Itoa(item.Progress)
				if err := progressForm(item.Name, &raw).Run(); err != nil {
					return err
				}
			default:
				return domain.NewValidationError("progress", "missing PERCENT argument")
			}

			pct, err := parsePercent(raw)
			if err != nil {
				return err
			}
			if err := app.Board.RequestProgressUpdate(ctx, item.ID, pct); err != nil {
				return err
			}
			updated, err := app.Board.Item(item.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s\n",
				formatter.Bold(updated.Name), formatter.RenderProgress(updated.Progress, 20), formatter.StatusPill(updated.Status))
			return nil
		},
	}
}

func parsePercent(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if err != nil {
		return 0, domain.NewValidationError("progress", "%q is not a whole number", s)
	}
	return n, nil
}

func newItemBlockCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "block",
		Short: "Add or remove blockers on a work item",
	}

	run := func(add bool) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.loadBoard(ctx); err != nil {
				return err
			}
			item, err := resolveItem(app, args[0])
			if err != nil {
				return err
			}
			text := strings.Join(args[1:], " ")
			verb := "Added"
			if add {
				err = app.Items.AddBlocker(ctx, item.ID, text)
			} else {
				verb = "Removed"
				err = app.Items.RemoveBlocker(ctx, item.ID, text)
			}
			if err != nil {
				return err
			}
			if err := app.loadBoard(ctx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s blocker on %s: %s\n", verb, formatter.Bold(item.Name), strings.TrimSpace(text))
			return nil
		}
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add ITEM TEXT...",
			Short: "Add a blocker",
			Args:  cobra.MinimumNArgs(2),
			RunE:  run(true),
		},
		&cobra.Command{
			Use:     "rm ITEM TEXT...",
			Aliases: []string{"remove"},
			Short:   "Remove a blocker",
			Args:    cobra.MinimumNArgs(2),
			RunE:    run(false),
		},
	)
	return cmd
}
