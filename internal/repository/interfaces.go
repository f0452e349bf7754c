package repository

import (
	"context"

	"github.com/alexanderramin/ganttboard/internal/domain"
)

// ErrNotFound is domain.ErrNotFound, re-exported for repository callers.
var ErrNotFound = domain.ErrNotFound

type WorkItemRepo interface {
	Create(ctx context.Context, w *domain.WorkItem) error
	GetByID(ctx context.Context, id string) (*domain.WorkItem, error)
	// List returns every item in insertion order.
	List(ctx context.Context) ([]*domain.WorkItem, error)
	ListChildren(ctx context.Context, parentID string) ([]*domain.WorkItem, error)
	Update(ctx context.Context, w *domain.WorkItem) error
	Delete(ctx context.Context, id string) error
}
