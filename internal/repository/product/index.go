package product

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/shopdex/internal/db"
)

// buildIndex describes the catalog FT index over product hashes.
func buildIndex(name, prefix string) *db.IndexDefinition {
	return db.NewIndex(name).
		Prefix(prefix).
		Text(fieldName, db.Sortable()).
		Text(fieldDescription).
		Tag(fieldCategory).
		Tag(fieldTags, db.Separator(",")).
		Tag(fieldSKU, db.CaseSensitive()).
		Numeric(fieldPrice, db.Sortable()).
		Numeric(fieldCreatedAt, db.Sortable()).
		MustBuild()
}

// EnsureIndex creates the catalog index unless it already exists.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	exists, err := r.store.IndexExists(ctx, r.index.Name)
	if err != nil {
		return fmt.Errorf("check index %s: %w", r.index.Name, err)
	}
	if exists {
		return nil
	}
	if err := r.store.CreateIndex(ctx, r.index); err != nil && !errors.Is(err, db.ErrIndexExists) {
		return fmt.Errorf("create index %s: %w", r.index.Name, err)
	}
	return nil
}
