package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/ganttboard/internal/domain"
)

// resolveItem finds an item in the board snapshot. The input may be:
//   - a full id
//   - a unique id prefix (as printed by `item list`)
//   - a unique case-insensitive name
func resolveItem(app *App, input string) (domain.WorkItem, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return domain.WorkItem{}, domain.NewValidationError("item", "empty item reference")
	}
	items := app.Board.Items()

	for _, it := range items {
		if it.ID == input {
			return it, nil
		}
	}

	var byPrefix, byName []domain.WorkItem
	for _, it := range items {
		if strings.HasPrefix(it.ID, input) {
			byPrefix = append(byPrefix, it)
		}
		if strings.EqualFold(it.Name, input) {
			byName = append(byName, it)
		}
	}

	switch {
	case len(byPrefix) == 1:
		return byPrefix[0], nil
	case len(byPrefix) > 1:
		return domain.WorkItem{}, ambiguous(input, byPrefix)
	case len(byName) == 1:
		return byName[0], nil
	case len(byName) > 1:
		return domain.WorkItem{}, ambiguous(input, byName)
	}
	return domain.WorkItem{}, fmt.Errorf("work item %q: %w", input, domain.ErrNotFound)
}

func ambiguous(input string, matches []domain.WorkItem) error {
	ids := make([]string, len(matches))
	for i, m := range matches {
		ids[i] = m.ID[:min(8, len(m.ID))]
	}
	return domain.NewValidationError("item", "%q matches %d items (%s); use a longer id", input, len(matches), strings.Join(ids, ", "))
}

// itemNames maps every snapshot id to its name.
func itemNames(items []domain.WorkItem) map[string]string {
	names := make(map[string]string, len(items))
	for _, it := range items {
		names[it.ID] = it.Name
	}
	return names
}
