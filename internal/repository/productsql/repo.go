package productsql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kailas-cloud/shopdex/internal/domain"
	domprod "github.com/kailas-cloud/shopdex/internal/domain/product"
	"github.com/kailas-cloud/shopdex/internal/domain/search/filter"
	"github.com/kailas-cloud/shopdex/internal/domain/search/order"
	"github.com/kailas-cloud/shopdex/internal/domain/search/query"
	"github.com/kailas-cloud/shopdex/internal/domain/search/request"
)

const selectColumns = `id, name, description, price, currency, category, stock, image_url, sku,
	tags, attributes, created_at, updated_at`

// Repo stores products in a single SQLite table.
// It implements both the catalog and the search repository contracts.
type Repo struct {
	db *sql.DB
}

// Create inserts a product and returns it with the assigned id.
func (r *Repo) Create(ctx context.Context, p *domprod.Product) (domprod.Product, error) {
	tags, attrs, err := encodeCollections(p)
	if err != nil {
		return domprod.Product{}, err
	}
	res, err := r.db.ExecContext(ctx, `INSERT INTO products
		(name, description, price, currency, category, stock, image_url, sku, tags, attributes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Name(), p.Description(), p.Price(), p.Currency(), p.Category(), p.Stock(), p.ImageURL(), p.SKU(),
		tags, attrs, p.CreatedAt().UnixMilli(), p.UpdatedAt().UnixMilli(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domprod.Product{}, domain.ErrSKUConflict
		}
		return domprod.Product{}, fmt.Errorf("insert product: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domprod.Product{}, fmt.Errorf("last insert id: %w", err)
	}
	return p.WithID(id), nil
}

// Get returns a product by id.
func (r *Repo) Get(ctx context.Context, id int64) (domprod.Product, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM products WHERE id = ?`, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domprod.Product{}, domain.ErrProductNotFound
		}
		return domprod.Product{}, fmt.Errorf("get product %d: %w", id, err)
	}
	return p, nil
}

// Update overwrites every mutable column of a stored product.
func (r *Repo) Update(ctx context.Context, p *domprod.Product) error {
	tags, attrs, err := encodeCollections(p)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `UPDATE products SET
		name = ?, description = ?, price = ?, currency = ?, category = ?, stock = ?, image_url = ?, sku = ?,
		tags = ?, attributes = ?, updated_at = ?
		WHERE id = ?`,
		p.Name(), p.Description(), p.Price(), p.Currency(), p.Category(), p.Stock(), p.ImageURL(), p.SKU(),
		tags, attrs, p.UpdatedAt().UnixMilli(), p.ID(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrSKUConflict
		}
		return fmt.Errorf("update product %d: %w", p.ID(), err)
	}
	return expectOneRow(res)
}

// Delete removes a product.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	return expectOneRow(res)
}

// List returns products in insertion order, optionally restricted to one category.
func (r *Repo) List(ctx context.Context, category string, skip, limit int) ([]domprod.Product, error) {
	if limit <= 0 {
		return []domprod.Product{}, nil
	}
	where, args := "1=1", []any{}
	if c := strings.TrimSpace(category); c != "" {
		where, args = "lower(category) = lower(?)", []any{c}
	}
	args = append(args, limit, max(skip, 0))
	return r.query(ctx, `SELECT `+selectColumns+` FROM products WHERE `+where+` ORDER BY id ASC LIMIT ? OFFSET ?`, args...)
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
	if q.Limit() <= 0 {
		return []domprod.Product{}, nil
	}
	where, args, err := buildWhere(q.Filters)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}
	args = append(args, q.Limit(), q.Offset())
	stmt := `SELECT ` + selectColumns + ` FROM products WHERE ` + where +
		` ORDER BY ` + buildOrderBy(q.Order) + ` LIMIT ? OFFSET ?`
	return r.query(ctx, stmt, args...)
}

// CountMatching counts products satisfying filters, ignoring pagination.
func (r *Repo) CountMatching(ctx context.Context, filters filter.Expression) (int, error) {
	where, args, err := buildWhere(filters)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products WHERE `+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

func (r *Repo) query(ctx context.Context, stmt string, args ...any) ([]domprod.Product, error) {
	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	out := []domprod.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(s scanner) (domprod.Product, error) {
	var (
		id                   int64
		d                    domprod.Draft
		tags, attrs          string
		createdAt, updatedAt int64
	)
	if err := s.Scan(&id, &d.Name, &d.Description, &d.Price, &d.Currency, &d.Category, &d.Stock,
		&d.ImageURL, &d.SKU, &tags, &attrs, &createdAt, &updatedAt); err != nil {
		return domprod.Product{}, err
	}
	if err := json.Unmarshal([]byte(tags), &d.Tags); err != nil {
		return domprod.Product{}, fmt.Errorf("decode tags of product %d: %w", id, err)
	}
	if err := json.Unmarshal([]byte(attrs), &d.Attributes); err != nil {
		return domprod.Product{}, fmt.Errorf("decode attributes of product %d: %w", id, err)
	}
	return domprod.Reconstruct(id, d, time.UnixMilli(createdAt).UTC(), time.UnixMilli(updatedAt).UTC()), nil
}

func encodeCollections(p *domprod.Product) (tags, attrs string, err error) {
	t, err := json.Marshal(p.Tags())
	if err != nil {
		return "", "", fmt.Errorf("marshal tags: %w", err)
	}
	a, err := json.Marshal(p.Attributes())
	if err != nil {
		return "", "", fmt.Errorf("marshal attributes: %w", err)
	}
	return string(t), string(a), nil
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// isUniqueViolation reports a SQLite UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
