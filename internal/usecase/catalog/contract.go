package catalog

import (
	"context"

	domprod "github.com/kailas-cloud/shopdex/internal/domain/product"
)

// Repository defines the storage contract for products.
type Repository interface {
	Create(ctx context.Context, p *domprod.Product) (domprod.Product, error)
	Get(ctx context.Context, id int64) (domprod.Product, error)
	Update(ctx context.Context, p *domprod.Product) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, category string, skip, limit int) ([]domprod.Product, error)
	Count(ctx context.Context) (int, error)
}
