package product

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/shopdex/internal/db"
	"github.com/kailas-cloud/shopdex/internal/domain"
	"github.com/kailas-cloud/shopdex/internal/domain/product/patch"
	"github.com/kailas-cloud/shopdex/internal/domain/search/filter"
	"github.com/kailas-cloud/shopdex/internal/domain/search/order"
	"github.com/kailas-cloud/shopdex/internal/domain/search/query"
	"github.com/kailas-cloud/shopdex/internal/domain/search/request"
)

func TestCreate_AssignsIDAndWritesHash(t *testing.T) {
	repo, ms := newTestRepo(t)
	p := testProduct(t, "SKU-1")

	saved, err := repo.Create(context.Background(), &p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.ID() != 1 {
		t.Errorf("ID() = %d, want 1", saved.ID())
	}
	h := ms.hashes["test:product:1"]
	if h["name"] != "Sony WH-1000XM5" || h["tags"] != "Sony,降噪" || h["price"] != "2499" {
		t.Errorf("unexpected hash: %v", h)
	}
	if ms.strings["test:sku:SKU-1"] != "1" {
		t.Errorf("sku reservation = %q", ms.strings["test:sku:SKU-1"])
	}
}

func TestCreate_DuplicateSKU(t *testing.T) {
	repo, _ := newTestRepo(t)
	p := testProduct(t, "SKU-1")
	if _, err := repo.Create(context.Background(), &p); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := repo.Create(context.Background(), &p)
	if !errors.Is(err, domain.ErrSKUConflict) {
		t.Errorf("expected ErrSKUConflict, got %v", err)
	}
}

func TestCreate_WriteFailureReleasesSKU(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.hsetErr = &db.Error{Op: db.OpHSet, Err: errors.New("boom")}
	p := testProduct(t, "SKU-1")

	if _, err := repo.Create(context.Background(), &p); err == nil {
		t.Fatal("expected error")
	}
	if _, ok := ms.strings["test:sku:SKU-1"]; ok {
		t.Error("sku reservation should be released")
	}
}

func TestGet_RoundTrip(t *testing.T) {
	repo, _ := newTestRepo(t)
	p := testProduct(t, "SKU-1")
	saved, _ := repo.Create(context.Background(), &p)

	got, err := repo.Get(context.Background(), saved.ID())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name() != p.Name() || got.Category() != "耳机" || got.Stock() != 5 {
		t.Errorf("unexpected product: %+v", got)
	}
	if !got.HasTag("sony") || len(got.Tags()) != 2 {
		t.Errorf("tags = %v", got.Tags())
	}
	if got.Attributes()["color"] != "black" {
		t.Errorf("attributes = %v", got.Attributes())
	}
	if !got.CreatedAt().Equal(p.CreatedAt()) {
		t.Errorf("created_at = %v, want %v", got.CreatedAt(), p.CreatedAt())
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, _ := newTestRepo(t)
	_, err := repo.Get(context.Background(), 99)
	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound, got %v", err)
	}
}

func TestUpdate_MovesSKU(t *testing.T) {
	repo, ms := newTestRepo(t)
	p := testProduct(t, "SKU-1")
	saved, _ := repo.Create(context.Background(), &p)

	newSKU := "SKU-2"
	pt, _ := patch.New(patch.Fields{SKU: &newSKU})
	updated, err := saved.Apply(pt, saved.CreatedAt())
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if err := repo.Update(context.Background(), &updated); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := ms.strings["test:sku:SKU-1"]; ok {
		t.Error("old sku should be released")
	}
	if ms.strings["test:sku:SKU-2"] != "1" {
		t.Error("new sku should be reserved")
	}
}

func TestUpdate_SKUConflict(t *testing.T) {
	repo, _ := newTestRepo(t)
	a := testProduct(t, "SKU-A")
	b := testProduct(t, "SKU-B")
	if _, err := repo.Create(context.Background(), &a); err != nil {
		t.Fatalf("create a: %v", err)
	}
	savedB, err := repo.Create(context.Background(), &b)
	if err != nil {
		t.Fatalf("create b: %v", err)
	}

	taken := "SKU-A"
	pt, _ := patch.New(patch.Fields{SKU: &taken})
	updated, _ := savedB.Apply(pt, savedB.CreatedAt())
	if err := repo.Update(context.Background(), &updated); !errors.Is(err, domain.ErrSKUConflict) {
		t.Errorf("expected ErrSKUConflict, got %v", err)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	repo, _ := newTestRepo(t)
	p := testProduct(t, "SKU-1")
	ghost := p.WithID(42)
	if err := repo.Update(context.Background(), &ghost); !errors.Is(err, domain.ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	repo, ms := newTestRepo(t)
	p := testProduct(t, "SKU-1")
	saved, _ := repo.Create(context.Background(), &p)

	if err := repo.Delete(context.Background(), saved.ID()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ms.hashes) != 0 || len(ms.strings) != 0 {
		t.Errorf("leftover keys: %v %v", ms.hashes, ms.strings)
	}
	if err := repo.Delete(context.Background(), saved.ID()); !errors.Is(err, domain.ErrProductNotFound) {
		t.Errorf("second delete: expected ErrProductNotFound, got %v", err)
	}
}

func TestFind_TranslatesQuery(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.searchFn = func(_ context.Context, _ *db.Query) (*db.SearchResult, error) {
		return &db.SearchResult{Total: 2, Entries: []db.SearchEntry{
			{Key: "test:product:7", Fields: map[string]string{"name": "iPhone 15", "price": "5999"}},
			{Key: "garbage", Fields: map[string]string{}},
		}}, nil
	}

	cat, _ := filter.NewContains(filter.FieldCategory, "手机")
	expr, _ := filter.NewExpression(cat)
	got, err := repo.Find(context.Background(), &query.Compiled{
		Filters: expr,
		Order:   order.Order{Field: order.Price, Direction: order.Desc},
		Page:    request.Page{Number: 2, Size: 5},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID() != 7 || got[0].Price() != 5999 {
		t.Fatalf("unexpected products: %+v", got)
	}

	q := ms.lastQuery
	if q.IndexName != "test:product:idx" || q.SortBy != "price" || !q.Descending || q.Offset != 5 || q.Limit != 5 {
		t.Errorf("unexpected db query: %+v", q)
	}
	if q.FieldTypes["category"] != db.IndexFieldTag || q.FieldTypes["name"] != db.IndexFieldText {
		t.Errorf("field types = %v", q.FieldTypes)
	}
}

func TestFind_StoreError(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.searchFn = func(_ context.Context, _ *db.Query) (*db.SearchResult, error) {
		return nil, &db.Error{Op: db.OpSearch, Err: errors.New("down")}
	}
	_, err := repo.Find(context.Background(), &query.Compiled{Order: order.Newest, Page: request.Page{Number: 1, Size: 10}})
	var dbErr *db.Error
	if !errors.As(err, &dbErr) {
		t.Errorf("expected wrapped db.Error, got %v", err)
	}
}

func TestList_CategoryFilter(t *testing.T) {
	repo, ms := newTestRepo(t)
	if _, err := repo.List(context.Background(), "服装", 20, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	q := ms.lastQuery
	conds := q.Filters.Conditions()
	if len(conds) != 1 || conds[0].Kind() != filter.KindIn || conds[0].Values()[0] != "服装" {
		t.Errorf("filters = %s", q.Filters)
	}
	if q.Offset != 20 || q.Limit != 10 || q.SortBy != "created_at" || q.Descending {
		t.Errorf("unexpected db query: %+v", q)
	}
}

func TestList_ZeroLimitSkipsStore(t *testing.T) {
	repo, ms := newTestRepo(t)
	got, err := repo.List(context.Background(), "", 0, 0)
	if err != nil || len(got) != 0 {
		t.Fatalf("List = %v, %v", got, err)
	}
	if ms.lastQuery != nil {
		t.Error("store should not be called")
	}
}

func TestCount(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.countFn = func(_ context.Context, q *db.Query) (int, error) {
		if !q.Filters.IsEmpty() {
			t.Errorf("Count should not filter: %s", q.Filters)
		}
		return 12, nil
	}
	n, err := repo.Count(context.Background())
	if err != nil || n != 12 {
		t.Errorf("Count = %d, %v", n, err)
	}
}

func TestNewest(t *testing.T) {
	repo, ms := newTestRepo(t)
	if _, err := repo.Newest(context.Background(), 4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	q := ms.lastQuery
	if q.SortBy != "created_at" || !q.Descending || q.Limit != 4 || q.Offset != 0 {
		t.Errorf("unexpected db query: %+v", q)
	}
}

func TestEnsureIndex_Idempotent(t *testing.T) {
	repo, ms := newTestRepo(t)
	for range 2 {
		if err := repo.EnsureIndex(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	def := ms.indexes["test:product:idx"]
	if def == nil || def.Prefixes[0] != "test:product:" {
		t.Fatalf("index not created: %+v", def)
	}
	if len(def.Fields) != 7 {
		t.Errorf("fields = %d, want 7", len(def.Fields))
	}
}

func TestParseHashFields_Tolerant(t *testing.T) {
	p := parseHashFields(3, map[string]string{
		"name": "x", "price": "NaN?", "stock": "", "attributes": "{not json",
	})
	if p.ID() != 3 || p.Price() != 0 || p.Stock() != 0 {
		t.Errorf("unexpected product: %+v", p)
	}
}
