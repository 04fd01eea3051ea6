package product

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/shopdex/internal/db"
	"github.com/kailas-cloud/shopdex/internal/domain"
	domprod "github.com/kailas-cloud/shopdex/internal/domain/product"
	"github.com/kailas-cloud/shopdex/internal/domain/search/filter"
	"github.com/kailas-cloud/shopdex/internal/domain/search/order"
	"github.com/kailas-cloud/shopdex/internal/domain/search/query"
	"github.com/kailas-cloud/shopdex/internal/domain/search/request"
)

// DefaultKeyPrefix namespaces every key the repository writes.
const DefaultKeyPrefix = "shopdex:"

// store is the consumer interface for products (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Del(ctx context.Context, key string) error
	SetNX(ctx context.Context, key string, value []byte) (bool, error)
	Incr(ctx context.Context, key string) (int64, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	Search(ctx context.Context, q *db.Query) (*db.SearchResult, error)
	Count(ctx context.Context, q *db.Query) (int, error)
}

// Repo stores products as Redis hashes indexed by the Query Engine.
// It implements both the catalog and the search repository contracts.
type Repo struct {
	store  store
	prefix string
	index  *db.IndexDefinition
}

// New creates a product repository. An empty prefix uses DefaultKeyPrefix.
func New(s store, prefix string) *Repo {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Repo{
		store:  s,
		prefix: prefix,
		index:  buildIndex(prefix+"product:idx", prefix+"product:"),
	}
}

// Create assigns an id, reserves the SKU and writes the hash.
func (r *Repo) Create(ctx context.Context, p *domprod.Product) (domprod.Product, error) {
	id, err := r.store.Incr(ctx, r.seqKey())
	if err != nil {
		return domprod.Product{}, fmt.Errorf("next product id: %w", err)
	}
	saved := p.WithID(id)

	if err := r.reserveSKU(ctx, saved.SKU(), id); err != nil {
		return domprod.Product{}, err
	}
	if err := r.write(ctx, &saved); err != nil {
		_ = r.store.Del(ctx, r.skuKey(saved.SKU()))
		return domprod.Product{}, err
	}
	return saved, nil
}

// Get returns a product by id.
func (r *Repo) Get(ctx context.Context, id int64) (domprod.Product, error) {
	key := r.productKey(id)
	m, err := r.store.HGetAll(ctx, key)
	if err != nil {
		return domprod.Product{}, fmt.Errorf("hgetall %s: %w", key, err)
	}
	if len(m) == 0 {
		return domprod.Product{}, domain.ErrProductNotFound
	}
	return parseHashFields(id, m), nil
}

// Update overwrites a stored product, moving the SKU reservation if it changed.
func (r *Repo) Update(ctx context.Context, p *domprod.Product) error {
	current, err := r.Get(ctx, p.ID())
	if err != nil {
		return err
	}

	skuChanged := current.SKU() != p.SKU()
	if skuChanged {
		if err := r.reserveSKU(ctx, p.SKU(), p.ID()); err != nil {
			return err
		}
	}
	if err := r.write(ctx, p); err != nil {
		return err
	}
	if skuChanged {
		if err := r.store.Del(ctx, r.skuKey(current.SKU())); err != nil {
			return fmt.Errorf("release sku %s: %w", current.SKU(), err)
		}
	}
	return nil
}

// Delete removes a product and releases its SKU.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	current, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	key := r.productKey(id)
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	if err := r.store.Del(ctx, r.skuKey(current.SKU())); err != nil {
		return fmt.Errorf("release sku %s: %w", current.SKU(), err)
	}
	return nil
}

// List returns products in creation order, optionally restricted to one category.
func (r *Repo) List(ctx context.Context, category string, skip, limit int) ([]domprod.Product, error) {
	var conds []filter.Condition
	if strings.TrimSpace(category) != "" {
		c, err := filter.NewIn(filter.FieldCategory, []string{category})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
		}
		conds = append(conds, c)
	}
	expr, err := filter.NewExpression(conds...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}
	return r.find(ctx, &db.Query{
		IndexName:  r.index.Name,
		Filters:    expr,
		FieldTypes: r.index.FieldTypes(),
		SortBy:     fieldCreatedAt,
		Offset:     max(skip, 0),
		Limit:      limit,
	})
}

// Count returns the total number of products.
func (r *Repo) Count(ctx context.Context) (int, error) {
	return r.CountMatching(ctx, filter.Expression{})
}

// Newest returns the most recently created products.
func (r *Repo) Newest(ctx context.Context, limit int) ([]domprod.Product, error) {
	return r.Find(ctx, &query.Compiled{
		Order: order.Newest,
		Page:  request.Page{Number: 1, Size: limit},
	})
}

// Find runs a compiled catalog query.
func (r *Repo) Find(ctx context.Context, q *query.Compiled) ([]domprod.Product, error) {
	return r.find(ctx, &db.Query{
		IndexName:  r.index.Name,
		Filters:    q.Filters,
		FieldTypes: r.index.FieldTypes(),
		SortBy:     string(q.Order.Field),
		Descending: q.Order.Descending(),
		Offset:     q.Offset(),
		Limit:      q.Limit(),
	})
}

// CountMatching counts products satisfying filters, ignoring pagination.
func (r *Repo) CountMatching(ctx context.Context, filters filter.Expression) (int, error) {
	n, err := r.store.Count(ctx, &db.Query{
		IndexName:  r.index.Name,
		Filters:    filters,
		FieldTypes: r.index.FieldTypes(),
	})
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", r.index.Name, err)
	}
	return n, nil
}

func (r *Repo) find(ctx context.Context, q *db.Query) ([]domprod.Product, error) {
	if q.Limit <= 0 {
		return []domprod.Product{}, nil
	}
	sr, err := r.store.Search(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", q.IndexName, err)
	}
	if sr == nil {
		return []domprod.Product{}, nil
	}
	out := make([]domprod.Product, 0, len(sr.Entries))
	for _, e := range sr.Entries {
		id, ok := r.idFromKey(e.Key)
		if !ok {
			continue
		}
		out = append(out, parseHashFields(id, e.Fields))
	}
	return out, nil
}

func (r *Repo) write(ctx context.Context, p *domprod.Product) error {
	fields, err := buildHashFields(p)
	if err != nil {
		return err
	}
	key := r.productKey(p.ID())
	if err := r.store.HSet(ctx, key, fields); err != nil {
		return fmt.Errorf("hset %s: %w", key, err)
	}
	return nil
}

func (r *Repo) reserveSKU(ctx context.Context, sku string, id int64) error {
	ok, err := r.store.SetNX(ctx, r.skuKey(sku), []byte(strconv.FormatInt(id, 10)))
	if err != nil {
		return fmt.Errorf("reserve sku %s: %w", sku, err)
	}
	if !ok {
		return domain.ErrSKUConflict
	}
	return nil
}

func (r *Repo) productKey(id int64) string {
	return r.prefix + "product:" + strconv.FormatInt(id, 10)
}

func (r *Repo) seqKey() string { return r.prefix + "product:seq" }

func (r *Repo) skuKey(sku string) string { return r.prefix + "sku:" + sku }

func (r *Repo) idFromKey(key string) (int64, bool) {
	raw, found := strings.CutPrefix(key, r.prefix+"product:")
	if !found {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
