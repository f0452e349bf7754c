package viewmodel

import (
	"context"

	"github.com/alexanderramin/ganttboard/internal/domain"
)

// Store is the persistence collaborator behind the orchestrator.
type Store interface {
	FetchAll(ctx context.Context) ([]domain.WorkItem, error)
	Create(ctx context.Context, patch domain.WorkItemPatch) (domain.WorkItem, error)
	Update(ctx context.Context, id string, patch domain.WorkItemPatch) error
	Delete(ctx context.Context, id string) error
}
