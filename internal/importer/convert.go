package importer

import (
	"fmt"
	"slices"
	"time"

	"github.com/alexanderramin/ganttboard/internal/dateutil"
	"github.com/alexanderramin/ganttboard/internal/domain"
	"github.com/google/uuid"
)

// Convert turns a validated document into work items with fresh ids. Refs
// are resolved to those ids; unset fields take the usual creation
// defaults. Colour is left empty when the document has none.
func Convert(doc *Document, now time.Time) ([]domain.WorkItem, error) {
	ids := make(map[string]string, len(doc.Items))
	for _, it := range doc.Items {
		ids[it.Ref] = uuid.New().String()
	}

	items := make([]domain.WorkItem, 0, len(doc.Items))
	for _, it := range doc.Items {
		start, err := dateutil.ParseTimestamp(it.StartDate)
		if err != nil {
			return nil, fmt.Errorf("parsing start_date of %q: %w", it.Ref, err)
		}
		end, err := dateutil.ParseTimestamp(it.EndDate)
		if err != nil {
			return nil, fmt.Errorf("parsing end_date of %q: %w", it.Ref, err)
		}

		w := domain.WorkItem{
			ID:          ids[it.Ref],
			Name:        it.Name,
			Type:        domain.ItemType(domain.CoalesceStr(it.Type, string(domain.ItemTask))),
			Status:      domain.ItemStatus(domain.CoalesceStr(it.Status, string(domain.StatusNotStarted))),
			Progress:    domain.ValueOr(it.Progress, 0),
			StartDate:   start,
			EndDate:     end,
			Description: it.Description,
			Assignee:    it.Assignee,
			Priority:    domain.Priority(domain.CoalesceStr(it.Priority, string(domain.PriorityMedium))),
			Approval:    domain.Approval(domain.CoalesceStr(it.Approval, string(domain.ApprovalNotRequired))),
			Blockers:    slices.Clone(it.Blockers),
			Color:       it.Color,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if it.ParentRef != "" {
			pid, ok := ids[it.ParentRef]
			if !ok {
				return nil, fmt.Errorf("resolving parent_ref %q of %q", it.ParentRef, it.Ref)
			}
			w.ParentID = &pid
		}
		for _, dep := range it.DependsOn {
			id, ok := ids[dep]
			if !ok {
				return nil, fmt.Errorf("resolving depends_on %q of %q", dep, it.Ref)
			}
			w.Dependencies = append(w.Dependencies, id)
		}
		items = append(items, w)
	}
	return items, nil
}

// Export builds a document from a snapshot, using item ids as refs.
// Parent and dependency references to items outside the snapshot are
// dropped so the result always re-imports.
func Export(items []domain.WorkItem, project *ProjectImport) *Document {
	present := make(map[string]bool, len(items))
	for _, w := range items {
		present[w.ID] = true
	}

	doc := &Document{Version: CurrentVersion, Project: project, Items: make([]ItemImport, 0, len(items))}
	for _, w := range items {
		progress := w.Progress
		it := ItemImport{
			Ref:         w.ID,
			Name:        w.Name,
			Type:        string(w.Type),
			Status:      string(w.Status),
			Progress:    &progress,
			StartDate:   w.StartDate.UTC().Format(time.RFC3339),
			EndDate:     w.EndDate.UTC().Format(time.RFC3339),
			Description: w.Description,
			Assignee:    w.Assignee,
			Priority:    string(w.Priority),
			Approval:    string(w.Approval),
			Blockers:    slices.Clone(w.Blockers),
			Color:       w.Color,
		}
		if pid := w.Parent(); pid != "" && present[pid] {
			it.ParentRef = pid
		}
		for _, dep := range w.Dependencies {
			if present[dep] {
				it.DependsOn = append(it.DependsOn, dep)
			}
		}
		doc.Items = append(doc.Items, it)
	}
	return doc
}
