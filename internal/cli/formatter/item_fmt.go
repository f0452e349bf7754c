package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/ganttboard/internal/dateutil"
	"github.com/alexanderramin/ganttboard/internal/domain"
)

// FormatItemList renders items as a table. Child names are indented
// under their parent when the parent is part of items.
func FormatItemList(items []domain.WorkItem) string {
	if len(items) == 0 {
		return Dim("No work items.") + "\n"
	}

	headers := []string{"ID", "NAME", "TYPE", "STATUS", "PROGRESS", "DATES", "ASSIGNEE"}
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		name := it.Name
		if !it.IsRoot() {
			name = "└ " + name
		}
		rows = append(rows, []string{
			Dim(TruncID(it.ID)),
			Hex(it.Color).Render("■") + " " + Truncate(name, 32),
			TypeBadge(it.Type),
			StatusPill(it.Status),
			RenderProgress(it.Progress, 10),
			DateRange(it.StartDate, it.EndDate),
			domain.CoalesceStr(it.Assignee, Dim("-")),
		})
	}
	return RenderTable(headers, rows)
}

// FormatItemDetail renders one item with resolved names for its parent
// and dependencies. names maps ids to item names; unknown ids are shown
// as missing.
func FormatItemDetail(it domain.WorkItem, names map[string]string) string {
	var b strings.Builder
	field := func(label, value string) {
		fmt.Fprintf(&b, "%s %s\n", StyleDim.Render(PadRight(label+":", 13)), value)
	}

	field("ID", it.ID)
	field("Type", TypeBadge(it.Type))
	field("Status", StatusPill(it.Status))
	field("Progress", RenderProgress(it.Progress, 20))
	field("Priority", PriorityPill(it.Priority))
	field("Approval", ApprovalPill(it.Approval))
	field("Dates", fmt.Sprintf("%s (%s to %s)",
		DateRange(it.StartDate, it.EndDate),
		it.StartDate.Format(dateutil.DateLayout), it.EndDate.Format(dateutil.DateLayout)))
	if it.Assignee != "" {
		field("Assignee", it.Assignee)
	}
	if !it.IsRoot() {
		field("Parent", refName(it.Parent(), names))
	}
	field("Color", Hex(it.Color).Render("■ "+it.Color))

	if it.Description != "" {
		b.WriteString("\n" + it.Description + "\n")
	}
	if len(it.Dependencies) > 0 {
		b.WriteString("\n" + Bold("Depends on") + "\n")
		for _, id := range it.Dependencies {
			b.WriteString("  • " + refName(id, names) + "\n")
		}
	}
	if len(it.Blockers) > 0 {
		b.WriteString("\n" + StyleRed.Bold(true).Render("Blockers") + "\n")
		for _, bl := range it.Blockers {
			b.WriteString("  ✖ " + bl + "\n")
		}
	}

	return RenderBox(it.Name, strings.TrimRight(b.String(), "\n"))
}

func refName(id string, names map[string]string) string {
	if name, ok := names[id]; ok {
		return fmt.Sprintf("%s %s", name, Dim(TruncID(id)))
	}
	return StyleAmber.Render(TruncID(id) + " (missing)")
}
