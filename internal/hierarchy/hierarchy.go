// Package hierarchy turns a flat work item snapshot into the two-level
// parent/children grouping shown on the chart.
package hierarchy

import "github.com/alexanderramin/ganttboard/internal/domain"

// Group is a root item and its direct children in snapshot order.
type Group struct {
	Parent   domain.WorkItem
	Children []domain.WorkItem
}

type Reason string

const (
	// ReasonParentMissing means ParentID names no item in the snapshot.
	ReasonParentMissing Reason = "parent-missing"
	// ReasonParentNotRoot means the parent is itself a child. Only one level
	// of nesting is rendered.
	ReasonParentNotRoot Reason = "parent-not-root"
	// ReasonParentFiltered means the parent exists but was grouped out by a
	// filter. GroupItems never sets it; callers grouping a filtered subset do.
	ReasonParentFiltered Reason = "parent-filtered"
)

// UnresolvedItem is an item that could not be placed in any group.
type UnresolvedItem struct {
	Item   domain.WorkItem
	Reason Reason
}

type Grouping struct {
	Groups     []Group
	Unresolved []UnresolvedItem
}

// GroupItems groups items under their root parents. Roots keep their order
// of first appearance; children keep snapshot order regardless of whether
// they appear before or after their parent.
func GroupItems(items []domain.WorkItem) Grouping {
	byID := Index(items)
	slot := make(map[string]int)

	var g Grouping
	for _, item := range items {
		if !item.IsRoot() {
			continue
		}
		if _, dup := slot[item.ID]; dup {
			continue
		}
		slot[item.ID] = len(g.Groups)
		g.Groups = append(g.Groups, Group{Parent: item})
	}

	for _, item := range items {
		if item.IsRoot() {
			continue
		}
		if i, ok := slot[item.Parent()]; ok {
			g.Groups[i].Children = append(g.Groups[i].Children, item)
			continue
		}
		reason := ReasonParentMissing
		if _, exists := byID[item.Parent()]; exists {
			reason = ReasonParentNotRoot
		}
		g.Unresolved = append(g.Unresolved, UnresolvedItem{Item: item, Reason: reason})
	}
	return g
}

// Flatten lists each group's parent followed by its children.
func Flatten(groups []Group) []domain.WorkItem {
	var out []domain.WorkItem
	for _, g := range groups {
		out = append(out, g.Parent)
		out = append(out, g.Children...)
	}
	return out
}

// Index maps item ids to items. Later duplicates do not replace earlier ones.
func Index(items []domain.WorkItem) map[string]domain.WorkItem {
	idx := make(map[string]domain.WorkItem, len(items))
	for _, item := range items {
		if _, ok := idx[item.ID]; !ok {
			idx[item.ID] = item
		}
	}
	return idx
}

// ResolveDependencies looks up item's dependencies in index. Ids that no
// longer exist are returned in missing, in declaration order.
func ResolveDependencies(item domain.WorkItem, index map[string]domain.WorkItem) (resolved []domain.WorkItem, missing []string) {
	for _, id := range item.Dependencies {
		if dep, ok := index[id]; ok {
			resolved = append(resolved, dep)
		} else {
			missing = append(missing, id)
		}
	}
	return resolved, missing
}

// RootCandidates returns the root items that can be offered as a parent,
// excluding the item being edited.
func RootCandidates(items []domain.WorkItem, excludeID string) []domain.WorkItem {
	var out []domain.WorkItem
	for _, item := range items {
		if item.IsRoot() && item.ID != excludeID {
			out = append(out, item)
		}
	}
	return out
}
