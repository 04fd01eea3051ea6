package search

import (
	"context"

	domprod "github.com/kailas-cloud/shopdex/internal/domain/product"
	domintent "github.com/kailas-cloud/shopdex/internal/domain/search/intent"
	"github.com/kailas-cloud/shopdex/internal/domain/search/filter"
	"github.com/kailas-cloud/shopdex/internal/domain/search/query"
)

// Repository is the catalog store contract for search.
type Repository interface {
	Find(ctx context.Context, q *query.Compiled) ([]domprod.Product, error)
	CountMatching(ctx context.Context, filters filter.Expression) (int, error)
	Newest(ctx context.Context, limit int) ([]domprod.Product, error)
}

// IntentResolver turns free text into a SearchIntent with provenance.
type IntentResolver interface {
	Resolve(ctx context.Context, query string) domintent.Outcome
}
