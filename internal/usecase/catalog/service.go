package catalog

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/shopdex/internal/domain"
	domprod "github.com/kailas-cloud/shopdex/internal/domain/product"
	"github.com/kailas-cloud/shopdex/internal/domain/product/patch"
)

// Listing defaults.
const (
	DefaultListLimit = 100
	MaxListLimit     = 1000
)

// Service handles product CRUD.
type Service struct {
	repo         Repository
	logger       *zap.Logger
	now          func() time.Time
	defaultLimit int
	maxLimit     int
}

// New creates a catalog service.
func New(repo Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:         repo,
		logger:       logger,
		now:          time.Now,
		defaultLimit: DefaultListLimit,
		maxLimit:     MaxListLimit,
	}
}

// WithPagination configures listing limits.
func (s *Service) WithPagination(defaultLimit, maxLimit int) *Service {
	if defaultLimit > 0 {
		s.defaultLimit = defaultLimit
	}
	if maxLimit > 0 {
		s.maxLimit = maxLimit
	}
	return s
}

// Create validates a draft and stores it.
func (s *Service) Create(ctx context.Context, d domprod.Draft) (domprod.Product, error) {
	p, err := domprod.New(d, s.now())
	if err != nil {
		return domprod.Product{}, err
	}
	created, err := s.repo.Create(ctx, &p)
	if err != nil {
		return domprod.Product{}, fmt.Errorf("create product: %w", err)
	}
	return created, nil
}

// Get returns a product by ID.
func (s *Service) Get(ctx context.Context, id int64) (domprod.Product, error) {
	if id <= 0 {
		return domprod.Product{}, domain.ErrProductNotFound
	}
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return domprod.Product{}, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// Update applies a partial patch. Only supplied fields change.
func (s *Service) Update(ctx context.Context, id int64, pt patch.Patch) (domprod.Product, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return domprod.Product{}, err
	}
	updated, err := current.Apply(pt, s.now())
	if err != nil {
		return domprod.Product{}, err
	}
	if err := s.repo.Update(ctx, &updated); err != nil {
		return domprod.Product{}, fmt.Errorf("update product: %w", err)
	}
	return updated, nil
}

// Delete removes a product.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return domain.ErrProductNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

// List returns products in insertion order, optionally restricted to one category.
func (s *Service) List(ctx context.Context, category string, skip, limit int) ([]domprod.Product, error) {
	skip = max(skip, 0)
	if limit <= 0 {
		limit = s.defaultLimit
	}
	limit = min(limit, s.maxLimit)

	products, err := s.repo.List(ctx, category, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// Count returns the number of stored products.
func (s *Service) Count(ctx context.Context) (int, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}
