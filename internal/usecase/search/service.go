package search

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/shopdex/internal/domain"
	domprod "github.com/kailas-cloud/shopdex/internal/domain/product"
	domintent "github.com/kailas-cloud/shopdex/internal/domain/search/intent"
	"github.com/kailas-cloud/shopdex/internal/domain/search/query"
	"github.com/kailas-cloud/shopdex/internal/domain/search/request"
	"github.com/kailas-cloud/shopdex/internal/domain/search/result"
	"github.com/kailas-cloud/shopdex/internal/metrics"
)

// Search kinds, used as metric labels.
const (
	KindNatural  = "natural"
	KindFaceted  = "faceted"
	KindFeatured = "featured"
)

// NaturalResult is the outcome of a natural-language search.
type NaturalResult struct {
	Envelope result.Envelope
	Outcome  domintent.Outcome
	Query    query.Compiled
}

// Service runs catalog searches.
type Service struct {
	repo    Repository
	intents IntentResolver
	logger  *zap.Logger
}

// New creates a search service.
func New(repo Repository, intents IntentResolver, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, intents: intents, logger: logger}
}

// Natural extracts an intent from free text, compiles it and runs it.
func (s *Service) Natural(ctx context.Context, req *request.Natural) (NaturalResult, error) {
	outcome := s.intents.Resolve(ctx, req.Query())

	compiled, err := Compile(outcome.Intent, req.Page())
	if err != nil {
		s.record(KindNatural, err)
		return NaturalResult{}, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}

	items, total, err := s.run(ctx, &compiled)
	if err != nil {
		s.record(KindNatural, err)
		return NaturalResult{}, err
	}

	keywords := outcome.Intent.Keywords()
	for i := range items {
		items[i].RelevanceScore = result.Score(items[i], keywords)
	}

	s.logger.Debug("Natural search",
		zap.String("source", string(outcome.Source)),
		zap.String("filters", compiled.Filters.String()),
		zap.Stringer("sort", compiled.Order),
		zap.Int("total", total),
	)
	s.record(KindNatural, nil)

	return NaturalResult{
		Envelope: result.NewEnvelope(items, total, compiled.Page.Number, compiled.Page.Size),
		Outcome:  outcome,
		Query:    compiled,
	}, nil
}

// Faceted runs an explicit field-filter search without intent extraction.
func (s *Service) Faceted(ctx context.Context, req *request.Faceted) ([]result.Item, error) {
	compiled, err := compileFaceted(req)
	if err != nil {
		s.record(KindFaceted, err)
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}

	products, err := s.repo.Find(ctx, &compiled)
	if err != nil {
		err = fmt.Errorf("%w: %w", domain.ErrSearchFailed, err)
		s.record(KindFaceted, err)
		return nil, err
	}
	s.record(KindFaceted, nil)
	return project(products), nil
}

// Featured returns the newest products as a single page.
func (s *Service) Featured(ctx context.Context, limit int) (result.Envelope, error) {
	if limit <= 0 {
		limit = request.DefaultLimit
	}
	limit = min(limit, request.MaxLimit)

	products, err := s.repo.Newest(ctx, limit)
	if err != nil {
		err = fmt.Errorf("%w: %w", domain.ErrSearchFailed, err)
		s.record(KindFeatured, err)
		return result.Envelope{}, err
	}
	items := project(products)
	s.record(KindFeatured, nil)
	return result.NewEnvelope(items, len(items), 1, limit), nil
}

// run fetches one page and the total using the same filters.
func (s *Service) run(ctx context.Context, q *query.Compiled) ([]result.Item, int, error) {
	products, err := s.repo.Find(ctx, q)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: find: %w", domain.ErrSearchFailed, err)
	}
	total, err := s.repo.CountMatching(ctx, q.Filters)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: count: %w", domain.ErrSearchFailed, err)
	}
	return project(products), total, nil
}

func (s *Service) record(kind string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.SearchRequestsTotal.WithLabelValues(kind, status).Inc()
}

func project(products []domprod.Product) []result.Item {
	items := make([]result.Item, len(products))
	for i := range products {
		items[i] = result.FromProduct(&products[i])
	}
	return items
}
