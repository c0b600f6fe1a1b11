package catalog

import (
	"context"
	"sync"
	"testing"

	"github.com/kailas-cloud/facetdex/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	mu         sync.Mutex
	scans      int
	scanFn     func(ctx context.Context, pattern string) ([]string, error)
	getMultiFn func(ctx context.Context, keys []string) ([][]byte, error)
	setMultiFn func(ctx context.Context, items []db.KVSetItem) error
}

func (m *mockStore) Scan(ctx context.Context, pattern string) ([]string, error) {
	m.mu.Lock()
	m.scans++
	m.mu.Unlock()
	if m.scanFn != nil {
		return m.scanFn(ctx, pattern)
	}
	return nil, nil
}

func (m *mockStore) GetMulti(ctx context.Context, keys []string) ([][]byte, error) {
	if m.getMultiFn != nil {
		return m.getMultiFn(ctx, keys)
	}
	return make([][]byte, len(keys)), nil
}

func (m *mockStore) SetMulti(ctx context.Context, items []db.KVSetItem) error {
	if m.setMultiFn != nil {
		return m.setMultiFn(ctx, items)
	}
	return nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, "", nil), ms
}
