package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/ganttboard/internal/db"
	"github.com/alexanderramin/ganttboard/internal/domain"
	"github.com/alexanderramin/ganttboard/internal/importer"
	"github.com/alexanderramin/ganttboard/internal/palette"
	"github.com/alexanderramin/ganttboard/internal/repository"
)

type importService struct {
	uow      db.UnitOfWork
	colors   palette.Assigner
	observer UseCaseObserver
}

func NewImportService(uow db.UnitOfWork, colors palette.Assigner, observers ...UseCaseObserver) ImportService {
	if colors == nil {
		colors = palette.NewRoundRobin()
	}
	return &importService{uow: uow, colors: colors, observer: useCaseObserverOrNoop(observers)}
}

func (s *importService) ImportFile(ctx context.Context, path string) (*ImportResult, error) {
	doc, err := importer.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.ImportDocument(ctx, doc)
}

// ImportDocument validates doc and creates all of its items in a single
// transaction. Nothing is written when any item fails.
func (s *importService) ImportDocument(ctx context.Context, doc *importer.Document) (result *ImportResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"items": len(doc.Items)}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "import-document",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	if errs := importer.ValidateDocument(doc); len(errs) > 0 {
		return nil, importer.JoinErrors(errs)
	}

	items, err := importer.Convert(doc, now())
	if err != nil {
		return nil, fmt.Errorf("converting import document: %w", err)
	}

	result = &ImportResult{}
	for i := range items {
		if items[i].Color == "" {
			items[i].Color = s.colors.Next()
		}
		if err := items[i].Validate(); err != nil {
			return nil, fmt.Errorf("item %q: %w", items[i].Name, err)
		}
		if items[i].IsRoot() {
			result.RootCount++
		} else {
			result.ChildCount++
		}
		result.Dependencies += len(items[i].Dependencies)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txWorkItems := repository.NewSQLiteWorkItemRepo(tx)
		for i := range items {
			if err := txWorkItems.Create(ctx, &items[i]); err != nil {
				return fmt.Errorf("creating work item %q: %w", items[i].Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Items = make([]domain.WorkItem, len(items))
	copy(result.Items, items)
	fields["roots"] = result.RootCount
	return result, nil
}
