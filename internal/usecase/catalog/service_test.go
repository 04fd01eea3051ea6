package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kailas-cloud/shopdex/internal/domain"
	domprod "github.com/kailas-cloud/shopdex/internal/domain/product"
	"github.com/kailas-cloud/shopdex/internal/domain/product/patch"
)

// --- Mocks ---

type mockRepo struct {
	products map[int64]domprod.Product
	nextID   int64
	err      error // returned by every call when set

	lastSkip, lastLimit int
	lastCategory        string
}

func newMockRepo() *mockRepo {
	return &mockRepo{products: make(map[int64]domprod.Product)}
}

func (m *mockRepo) Create(_ context.Context, p *domprod.Product) (domprod.Product, error) {
	if m.err != nil {
		return domprod.Product{}, m.err
	}
	for _, existing := range m.products {
		if existing.SKU() == p.SKU() {
			return domprod.Product{}, domain.ErrSKUConflict
		}
	}
	m.nextID++
	saved := p.WithID(m.nextID)
	m.products[m.nextID] = saved
	return saved, nil
}

func (m *mockRepo) Get(_ context.Context, id int64) (domprod.Product, error) {
	if m.err != nil {
		return domprod.Product{}, m.err
	}
	p, ok := m.products[id]
	if !ok {
		return domprod.Product{}, domain.ErrProductNotFound
	}
	return p, nil
}

func (m *mockRepo) Update(_ context.Context, p *domprod.Product) error {
	if m.err != nil {
		return m.err
	}
	m.products[p.ID()] = *p
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id int64) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, category string, skip, limit int) ([]domprod.Product, error) {
	m.lastCategory, m.lastSkip, m.lastLimit = category, skip, limit
	return nil, m.err
}

func (m *mockRepo) Count(_ context.Context) (int, error) {
	return len(m.products), m.err
}

func draft(sku string) domprod.Draft {
	return domprod.Draft{Name: "Sony WH-1000XM5", Price: 2499, Category: "耳机", SKU: sku, Tags: []string{"Sony"}}
}

func fixedClock(s *Service) {
	s.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
}

// --- CRUD ---

func TestCreate(t *testing.T) {
	svc := New(newMockRepo(), nil)
	fixedClock(svc)

	p, err := svc.Create(context.Background(), draft("SKU-1"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.ID() != 1 || p.Currency() != domprod.DefaultCurrency {
		t.Errorf("unexpected product: id=%d currency=%s", p.ID(), p.Currency())
	}
	if !p.CreatedAt().Equal(svc.now()) {
		t.Errorf("CreatedAt = %v", p.CreatedAt())
	}
}

func TestCreate_Errors(t *testing.T) {
	svc := New(newMockRepo(), nil)

	bad := draft("SKU-1")
	bad.Price = -1
	if _, err := svc.Create(context.Background(), bad); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest, got %v", err)
	}

	if _, err := svc.Create(context.Background(), draft("SKU-1")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(context.Background(), draft("SKU-1")); !errors.Is(err, domain.ErrSKUConflict) {
		t.Errorf("expected ErrSKUConflict, got %v", err)
	}
}

func TestGet_NotFound(t *testing.T) {
	svc := New(newMockRepo(), nil)

	for _, id := range []int64{0, -1, 42} {
		if _, err := svc.Get(context.Background(), id); !errors.Is(err, domain.ErrProductNotFound) {
			t.Errorf("Get(%d): expected ErrProductNotFound, got %v", id, err)
		}
	}
}

func TestUpdate_Partial(t *testing.T) {
	repo := newMockRepo()
	svc := New(repo, nil)
	created, err := svc.Create(context.Background(), draft("SKU-1"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	price := 1999.0
	pt, err := patch.New(patch.Fields{Price: &price})
	if err != nil {
		t.Fatalf("patch.New: %v", err)
	}
	updated, err := svc.Update(context.Background(), created.ID(), pt)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Price() != 1999 || updated.Name() != created.Name() || !updated.HasTag("sony") {
		t.Errorf("unexpected update: price=%v name=%q tags=%v", updated.Price(), updated.Name(), updated.Tags())
	}
	stored := repo.products[created.ID()]
	if stored.Price() != 1999 {
		t.Errorf("stored price = %v", stored.Price())
	}
}

func TestUpdate_Errors(t *testing.T) {
	svc := New(newMockRepo(), nil)
	created, _ := svc.Create(context.Background(), draft("SKU-1"))

	stock := -3
	pt, _ := patch.New(patch.Fields{Stock: &stock})
	if _, err := svc.Update(context.Background(), created.ID(), pt); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest, got %v", err)
	}

	name := "x"
	pt, _ = patch.New(patch.Fields{Name: &name})
	if _, err := svc.Update(context.Background(), 99, pt); !errors.Is(err, domain.ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	svc := New(newMockRepo(), nil)
	created, _ := svc.Create(context.Background(), draft("SKU-1"))

	if err := svc.Delete(context.Background(), created.ID()); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(context.Background(), created.ID()); !errors.Is(err, domain.ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound, got %v", err)
	}
}

func TestList_Limits(t *testing.T) {
	tests := []struct {
		skip, limit         int
		wantSkip, wantLimit int
	}{
		{0, 0, 0, 50},
		{-5, 10, 0, 10},
		{20, 5000, 20, 200},
	}

	for _, tc := range tests {
		repo := newMockRepo()
		svc := New(repo, nil).WithPagination(50, 200)

		if _, err := svc.List(context.Background(), "手机", tc.skip, tc.limit); err != nil {
			t.Fatalf("List: %v", err)
		}
		if repo.lastSkip != tc.wantSkip || repo.lastLimit != tc.wantLimit || repo.lastCategory != "手机" {
			t.Errorf("List(%d, %d) passed skip=%d limit=%d", tc.skip, tc.limit, repo.lastSkip, repo.lastLimit)
		}
	}
}

func TestList_StoreError(t *testing.T) {
	repo := newMockRepo()
	repo.err = errors.New("down")
	if _, err := New(repo, nil).List(context.Background(), "", 0, 10); err == nil {
		t.Error("expected error")
	}
}

// --- Seed ---

func TestSeed(t *testing.T) {
	repo := newMockRepo()
	svc := New(repo, nil)

	records := []SeedRecord{
		{Title: "AirPods Pro", Price: 1899, Category: "耳机"},
		{Name: "小米14", Price: 3999, Category: "手机", SKU: "MI-14"},
		{Name: "", Price: 10, Category: "食品"}, // no name or title
	}
	report, err := svc.Seed(context.Background(), records)
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if report.Created != 2 || report.Failed != 1 || report.Skipped {
		t.Errorf("report = %+v", report)
	}

	first := repo.products[1]
	if first.Name() != "AirPods Pro" {
		t.Errorf("title not mapped to name: %q", first.Name())
	}
	if !strings.HasPrefix(first.SKU(), "SKU-") || len(first.SKU()) != len("SKU-")+8 {
		t.Errorf("generated SKU = %q", first.SKU())
	}
	explicit := repo.products[2]
	if explicit.SKU() != "MI-14" {
		t.Errorf("explicit SKU replaced: %q", explicit.SKU())
	}
}

func TestSeed_SkipsNonEmptyCatalog(t *testing.T) {
	repo := newMockRepo()
	svc := New(repo, nil)
	if _, err := svc.Create(context.Background(), draft("SKU-1")); err != nil {
		t.Fatal(err)
	}

	report, err := svc.Seed(context.Background(), []SeedRecord{{Name: "x", Category: "y"}})
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if !report.Skipped || report.Existing != 1 || report.Created != 0 {
		t.Errorf("report = %+v", report)
	}
	if len(repo.products) != 1 {
		t.Errorf("catalog modified: %d products", len(repo.products))
	}
}

func TestSeed_CountError(t *testing.T) {
	repo := newMockRepo()
	repo.err = errors.New("down")
	if _, err := New(repo, nil).Seed(context.Background(), nil); err == nil {
		t.Error("expected error")
	}
}

func TestLoadSeedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "products.json")
	body := `[{"title": "Kindle", "price": 998, "category": "电子书", "tags": ["Amazon"], "attributes": {"color": "black"}}]`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	records, err := LoadSeedFile(path)
	if err != nil {
		t.Fatalf("LoadSeedFile: %v", err)
	}
	if len(records) != 1 || records[0].Title != "Kindle" || records[0].Attributes["color"] != "black" {
		t.Errorf("records = %+v", records)
	}

	bad := filepath.Join(dir, "bad.json")
	_ = os.WriteFile(bad, []byte("{"), 0o600)
	if _, err := LoadSeedFile(bad); err == nil {
		t.Error("expected parse error")
	}
	if _, err := LoadSeedFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected read error")
	}
}
