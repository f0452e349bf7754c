package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/ganttboard/internal/cli/formatter"
	"github.com/alexanderramin/ganttboard/internal/dateutil"
	"github.com/alexanderramin/ganttboard/internal/domain"
	"github.com/alexanderramin/ganttboard/internal/viewmodel"
)

// boardHuhTheme returns a huh theme in the board's terminal colours.
func boardHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

func validateDate(s string) error {
	if _, err := dateutil.ParseDate(strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("use YYYY-MM-DD")
	}
	return nil
}

func validatePercent(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 || n > 100 {
		return fmt.Errorf("enter a whole number from 0 to 100")
	}
	return nil
}

func enumOptions[T ~string](vals []T) []huh.Option[T] {
	opts := make([]huh.Option[T], len(vals))
	for i, v := range vals {
		opts[i] = huh.NewOption(string(v), v)
	}
	return opts
}

// itemFormValues is the editable subset of a draft, as form strings.
type itemFormValues struct {
	name     string
	itemType domain.ItemType
	priority domain.Priority
	start    string
	end      string
	assignee string
	parent   string
}

func newItemFormValues(d viewmodel.Draft) *itemFormValues {
	return &itemFormValues{
		name:     d.Item.Name,
		itemType: d.Item.Type,
		priority: d.Item.Priority,
		start:    d.Item.StartDate.Format(dateutil.DateLayout),
		end:      d.Item.EndDate.Format(dateutil.DateLayout),
		assignee: d.Item.Assignee,
		parent:   d.Item.Parent(),
	}
}

// apply copies the form values back onto the draft. Dates were validated
// by the form.
func (v *itemFormValues) apply(d *viewmodel.Draft) {
	d.Item.Name = strings.TrimSpace(v.name)
	d.Item.Type = v.itemType
	d.Item.Priority = v.priority
	d.Item.Assignee = strings.TrimSpace(v.assignee)
	if t, err := dateutil.ParseDate(strings.TrimSpace(v.start)); err == nil {
		d.Item.StartDate = t
	}
	if t, err := dateutil.ParseDate(strings.TrimSpace(v.end)); err == nil {
		d.Item.EndDate = t
	}
	d.Item.ParentID = nil
	if v.parent != "" {
		pid := v.parent
		d.Item.ParentID = &pid
	}
}

func itemForm(d viewmodel.Draft, v *itemFormValues) *huh.Form {
	parents := []huh.Option[string]{huh.NewOption("(none)", "")}
	for _, p := range d.Parents {
		parents = append(parents, huh.NewOption(p.Name, p.ID))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(&v.name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name is required")
					}
					return nil
				}),
			huh.NewSelect[domain.ItemType]().Title("Type").
				Options(enumOptions(domain.ItemTypes)...).Value(&v.itemType),
			huh.NewSelect[domain.Priority]().Title("Priority").
				Options(enumOptions(domain.Priorities)...).Value(&v.priority),
		),
		huh.NewGroup(
			huh.NewInput().Title("Start (YYYY-MM-DD)").Value(&v.start).Validate(validateDate),
			huh.NewInput().Title("End (YYYY-MM-DD)").Value(&v.end).Validate(validateDate),
			huh.NewInput().Title("Assignee").Placeholder("unassigned").Value(&v.assignee),
			huh.NewSelect[string]().Title("Parent").Options(parents...).Value(&v.parent),
		),
	).WithTheme(boardHuhTheme()).WithShowHelp(false)
}

func runItemForm(d *viewmodel.Draft) error {
	v := newItemFormValues(*d)
	if err := itemForm(*d, v).Run(); err != nil {
		return err
	}
	v.apply(d)
	return nil
}

// progressForm asks for a percentage for the named item.
func progressForm(name string, value *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Progress for " + name).
				Description("0 marks it not started, 100 completed").
				Value(value).
				Validate(validatePercent),
		),
	).WithTheme(boardHuhTheme()).WithShowHelp(false)
}
