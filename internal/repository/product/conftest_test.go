package product

import (
	"context"
	"maps"
	"testing"
	"time"

	"github.com/kailas-cloud/shopdex/internal/db"
	domprod "github.com/kailas-cloud/shopdex/internal/domain/product"
)

// mockStore keeps hashes and strings in memory; search calls are scripted.
type mockStore struct {
	hashes  map[string]map[string]string
	strings map[string]string
	seq     int64

	hsetErr   error
	incrErr   error
	searchFn  func(ctx context.Context, q *db.Query) (*db.SearchResult, error)
	countFn   func(ctx context.Context, q *db.Query) (int, error)
	indexes   map[string]*db.IndexDefinition
	lastQuery *db.Query
}

func newMockStore() *mockStore {
	return &mockStore{
		hashes:  map[string]map[string]string{},
		strings: map[string]string{},
		indexes: map[string]*db.IndexDefinition{},
	}
}

func (m *mockStore) HSet(_ context.Context, key string, fields map[string]string) error {
	if m.hsetErr != nil {
		return m.hsetErr
	}
	h, ok := m.hashes[key]
	if !ok {
		h = map[string]string{}
		m.hashes[key] = h
	}
	maps.Copy(h, fields)
	return nil
}

func (m *mockStore) HGetAll(_ context.Context, key string) (map[string]string, error) {
	return maps.Clone(m.hashes[key]), nil
}

func (m *mockStore) Del(_ context.Context, key string) error {
	delete(m.hashes, key)
	delete(m.strings, key)
	return nil
}

func (m *mockStore) SetNX(_ context.Context, key string, value []byte) (bool, error) {
	if _, ok := m.strings[key]; ok {
		return false, nil
	}
	m.strings[key] = string(value)
	return true, nil
}

func (m *mockStore) Incr(_ context.Context, _ string) (int64, error) {
	if m.incrErr != nil {
		return 0, m.incrErr
	}
	m.seq++
	return m.seq, nil
}

func (m *mockStore) CreateIndex(_ context.Context, def *db.IndexDefinition) error {
	if _, ok := m.indexes[def.Name]; ok {
		return db.ErrIndexExists
	}
	m.indexes[def.Name] = def
	return nil
}

func (m *mockStore) IndexExists(_ context.Context, name string) (bool, error) {
	_, ok := m.indexes[name]
	return ok, nil
}

func (m *mockStore) Search(ctx context.Context, q *db.Query) (*db.SearchResult, error) {
	m.lastQuery = q
	if m.searchFn != nil {
		return m.searchFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) Count(ctx context.Context, q *db.Query) (int, error) {
	m.lastQuery = q
	if m.countFn != nil {
		return m.countFn(ctx, q)
	}
	return 0, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := newMockStore()
	return New(ms, "test:"), ms
}

func testProduct(t *testing.T, sku string) domprod.Product {
	t.Helper()
	p, err := domprod.New(domprod.Draft{
		Name:        "Sony WH-1000XM5",
		Description: "降噪耳机",
		Price:       2499,
		Category:    "耳机",
		Stock:       5,
		SKU:         sku,
		Tags:        []string{"Sony", "降噪"},
		Attributes:  map[string]any{"color": "black"},
	}, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	if err != nil {
		t.Fatalf("product.New: %v", err)
	}
	return p
}
