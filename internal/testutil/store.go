package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/alexanderramin/ganttboard/internal/domain"
	"github.com/google/uuid"
)

// MemStore is an in-memory work item store for tests that don't need
// SQLite. It applies patches the same way the real service does, minus
// defaults beyond the zero value.
type MemStore struct {
	mu    sync.Mutex
	items []domain.WorkItem
}

func NewMemStore(items ...domain.WorkItem) *MemStore {
	s := &MemStore{}
	for _, it := range items {
		s.items = append(s.items, it.Clone())
	}
	return s
}

func (s *MemStore) FetchAll(_ context.Context) ([]domain.WorkItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.WorkItem, len(s.items))
	for i, it := range s.items {
		out[i] = it.Clone()
	}
	return out, nil
}

func (s *MemStore) Create(_ context.Context, patch domain.WorkItemPatch) (domain.WorkItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w := patch.Apply(domain.WorkItem{})
	w.ID = uuid.New().String()
	s.items = append(s.items, w)
	return w.Clone(), nil
}

func (s *MemStore) Update(_ context.Context, id string, patch domain.WorkItemPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, it := range s.items {
		if it.ID == id {
			s.items[i] = patch.Apply(it)
			return nil
		}
	}
	return fmt.Errorf("work item %s: %w", id, domain.ErrNotFound)
}

func (s *MemStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, it := range s.items {
		if it.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("work item %s: %w", id, domain.ErrNotFound)
}

// ErrStoreDown is the default failure returned by FailingStore.
var ErrStoreDown = errors.New("store down")

// FailingStore wraps a MemStore and fails every call while failing mode is on.
type FailingStore struct {
	*MemStore

	mu   sync.Mutex
	fail bool
	Err  error
}

func NewFailingStore(items ...domain.WorkItem) *FailingStore {
	return &FailingStore{MemStore: NewMemStore(items...), Err: ErrStoreDown}
}

// SetFailing toggles failure mode.
func (f *FailingStore) SetFailing(on bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = on
}

func (f *FailingStore) err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return f.Err
	}
	return nil
}

func (f *FailingStore) FetchAll(ctx context.Context) ([]domain.WorkItem, error) {
	if err := f.err(); err != nil {
		return nil, err
	}
	return f.MemStore.FetchAll(ctx)
}

func (f *FailingStore) Create(ctx context.Context, patch domain.WorkItemPatch) (domain.WorkItem, error) {
	if err := f.err(); err != nil {
		return domain.WorkItem{}, err
	}
	return f.MemStore.Create(ctx, patch)
}

func (f *FailingStore) Update(ctx context.Context, id string, patch domain.WorkItemPatch) error {
	if err := f.err(); err != nil {
		return err
	}
	return f.MemStore.Update(ctx, id, patch)
}

func (f *FailingStore) Delete(ctx context.Context, id string) error {
	if err := f.err(); err != nil {
		return err
	}
	return f.MemStore.Delete(ctx, id)
}
