package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/alexanderramin/ganttboard/internal/db"
	"github.com/alexanderramin/ganttboard/internal/domain"
	"github.com/alexanderramin/ganttboard/internal/palette"
	"github.com/alexanderramin/ganttboard/internal/repository"
	"github.com/google/uuid"
)

const defaultItemName = "New Item"

type workItemService struct {
	workItems repository.WorkItemRepo
	uow       db.UnitOfWork
	colors    palette.Assigner
	observer  UseCaseObserver
}

func NewWorkItemService(
	workItems repository.WorkItemRepo,
	uow db.UnitOfWork,
	colors palette.Assigner,
	observers ...UseCaseObserver,
) WorkItemService {
	if colors == nil {
		colors = palette.NewRoundRobin()
	}
	return &workItemService{
		workItems: workItems,
		uow:       uow,
		colors:    colors,
		observer:  useCaseObserverOrNoop(observers),
	}
}

// now is second-aligned so values returned by Create equal what a later
// read parses back from storage.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

func (s *workItemService) FetchAll(ctx context.Context) ([]domain.WorkItem, error) {
	rows, err := s.workItems.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching work items: %w", err)
	}
	items := make([]domain.WorkItem, len(rows))
	for i, w := range rows {
		items[i] = *w
	}
	return items, nil
}

func (s *workItemService) Get(ctx context.Context, id string) (domain.WorkItem, error) {
	w, err := s.workItems.GetByID(ctx, id)
	if err != nil {
		return domain.WorkItem{}, err
	}
	return *w, nil
}

// newItem fills unset patch fields with the creation defaults.
func (s *workItemService) newItem(patch domain.WorkItemPatch, at time.Time) domain.WorkItem {
	w := patch.Apply(domain.WorkItem{
		Name:     defaultItemName,
		Type:     domain.ItemTask,
		Status:   domain.StatusNotStarted,
		Priority: domain.PriorityMedium,
		Approval: domain.ApprovalNotRequired,
	})
	w.ID = uuid.New().String()
	if w.Name == "" {
		w.Name = defaultItemName
	}
	if w.StartDate.IsZero() {
		w.StartDate = at
	}
	if w.EndDate.IsZero() {
		w.EndDate = at
	}
	if w.Color == "" {
		w.Color = s.colors.Next()
	}
	w.CreatedAt = at
	w.UpdatedAt = at
	return w
}

func (s *workItemService) Create(ctx context.Context, patch domain.WorkItemPatch) (item domain.WorkItem, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "create-work-item",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	w := s.newItem(patch, now())
	fields["id"] = w.ID
	fields["type"] = string(w.Type)
	if err = w.Validate(); err != nil {
		return domain.WorkItem{}, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txWorkItems := repository.NewSQLiteWorkItemRepo(tx)
		if err := checkParent(ctx, txWorkItems, w); err != nil {
			return err
		}
		if err := txWorkItems.Create(ctx, &w); err != nil {
			return fmt.Errorf("creating work item %q: %w", w.Name, err)
		}
		return nil
	})
	if err != nil {
		return domain.WorkItem{}, err
	}
	return w, nil
}

func (s *workItemService) Update(ctx context.Context, id string, patch domain.WorkItemPatch) (err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "update-work-item",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"id": id},
		})
	}()

	return s.mutate(ctx, id, func(w domain.WorkItem) (domain.WorkItem, error) {
		return patch.Apply(w), nil
	})
}

func (s *workItemService) Delete(ctx context.Context, id string) (err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "delete-work-item",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"id": id},
		})
	}()

	// Children and dependants keep their references; the view reports them
	// as unresolved or missing.
	return s.workItems.Delete(ctx, id)
}

func (s *workItemService) AddBlocker(ctx context.Context, id, blocker string) error {
	blocker = strings.TrimSpace(blocker)
	if blocker == "" {
		return domain.NewValidationError("blocker", "must not be empty")
	}
	return s.mutate(ctx, id, func(w domain.WorkItem) (domain.WorkItem, error) {
		if !slices.Contains(w.Blockers, blocker) {
			w.Blockers = append(w.Blockers, blocker)
		}
		return w, nil
	})
}

func (s *workItemService) RemoveBlocker(ctx context.Context, id, blocker string) error {
	return s.mutate(ctx, id, func(w domain.WorkItem) (domain.WorkItem, error) {
		idx := slices.Index(w.Blockers, blocker)
		if idx < 0 {
			return w, domain.NewValidationError("blocker", "%q is not a blocker of this item", blocker)
		}
		w.Blockers = slices.Delete(w.Blockers, idx, idx+1)
		return w, nil
	})
}

// mutate reads, changes, validates and writes one item in a transaction.
func (s *workItemService) mutate(ctx context.Context, id string, change func(domain.WorkItem) (domain.WorkItem, error)) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txWorkItems := repository.NewSQLiteWorkItemRepo(tx)

		current, err := txWorkItems.GetByID(ctx, id)
		if err != nil {
			return err
		}
		next, err := change(current.Clone())
		if err != nil {
			return err
		}
		next.ID = current.ID
		next.CreatedAt = current.CreatedAt
		next.UpdatedAt = now()

		if err := next.Validate(); err != nil {
			return err
		}
		if next.Parent() != current.Parent() {
			if err := checkParent(ctx, txWorkItems, next); err != nil {
				return err
			}
			if err := checkNoChildren(ctx, txWorkItems, next); err != nil {
				return err
			}
		}
		if err := txWorkItems.Update(ctx, &next); err != nil {
			return fmt.Errorf("updating work item %s: %w", id, err)
		}
		return nil
	})
}

// checkParent accepts only an existing root item other than w itself as
// parent. Deeper nesting would not render.
func checkParent(ctx context.Context, repo repository.WorkItemRepo, w domain.WorkItem) error {
	pid := w.Parent()
	if pid == "" {
		return nil
	}
	if pid == w.ID {
		return domain.NewValidationError("parent", "an item cannot be its own parent")
	}
	parent, err := repo.GetByID(ctx, pid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.NewValidationError("parent", "no item with id %s", pid)
		}
		return fmt.Errorf("loading parent %s: %w", pid, err)
	}
	if !parent.IsRoot() {
		return domain.NewValidationError("parent", "%q is itself a child item", parent.Name)
	}
	return nil
}

// checkNoChildren stops an item that has children from becoming a child.
func checkNoChildren(ctx context.Context, repo repository.WorkItemRepo, w domain.WorkItem) error {
	if w.IsRoot() {
		return nil
	}
	children, err := repo.ListChildren(ctx, w.ID)
	if err != nil {
		return fmt.Errorf("listing children of %s: %w", w.ID, err)
	}
	if len(children) > 0 {
		return domain.NewValidationError("parent", "%q has %d child item(s) and cannot be nested", w.Name, len(children))
	}
	return nil
}
