package service

import (
	"context"

	"github.com/alexanderramin/ganttboard/internal/domain"
	"github.com/alexanderramin/ganttboard/internal/importer"
)

// WorkItemService is the persistence-facing use-case layer. It satisfies
// viewmodel.Store.
type WorkItemService interface {
	FetchAll(ctx context.Context) ([]domain.WorkItem, error)
	Get(ctx context.Context, id string) (domain.WorkItem, error)
	Create(ctx context.Context, patch domain.WorkItemPatch) (domain.WorkItem, error)
	Update(ctx context.Context, id string, patch domain.WorkItemPatch) error
	Delete(ctx context.Context, id string) error
	AddBlocker(ctx context.Context, id, blocker string) error
	RemoveBlocker(ctx context.Context, id, blocker string) error
}

// ImportResult holds the outcome of an import.
type ImportResult struct {
	Items        []domain.WorkItem
	RootCount    int
	ChildCount   int
	Dependencies int
}

type ImportService interface {
	ImportFile(ctx context.Context, path string) (*ImportResult, error)
	ImportDocument(ctx context.Context, doc *importer.Document) (*ImportResult, error)
}
