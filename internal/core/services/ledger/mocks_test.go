package ledger

import (
	"context"
	"sync"
	"testing"

	"guild-progression/internal/core/domain"
)

type mockStore struct {
	mu       sync.Mutex
	loadFunc func(ctx context.Context) (*domain.Document, error)
	saveFunc func(ctx context.Context, doc *domain.Document) error
	saved    []*domain.Document
}

func (m *mockStore) Load(ctx context.Context) (*domain.Document, error) {
	if m.loadFunc != nil {
		return m.loadFunc(ctx)
	}
	return domain.NewDocument(), nil
}

func (m *mockStore) Save(ctx context.Context, doc *domain.Document) error {
	m.mu.Lock()
	m.saved = append(m.saved, doc)
	m.mu.Unlock()

	if m.saveFunc != nil {
		return m.saveFunc(ctx, doc)
	}
	return nil
}

func (m *mockStore) Close() {}

func (m *mockStore) saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.saved)
}

func (m *mockStore) last() *domain.Document {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.saved) == 0 {
		return nil
	}
	return m.saved[len(m.saved)-1]
}

func assertEqual[T comparable](t *testing.T, name string, expected, actual T) {
	t.Helper()
	if expected != actual {
		t.Errorf("%s: expected %v, got %v", name, expected, actual)
	}
}
