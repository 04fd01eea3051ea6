package productsql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	// Register the CGO-free sqlite driver.
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS products (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	name        TEXT    NOT NULL,
	description TEXT    NOT NULL DEFAULT '',
	price       REAL    NOT NULL,
	currency    TEXT    NOT NULL DEFAULT 'CNY',
	category    TEXT    NOT NULL,
	stock       INTEGER NOT NULL DEFAULT 0,
	image_url   TEXT    NOT NULL DEFAULT '',
	sku         TEXT    NOT NULL UNIQUE,
	tags        TEXT    NOT NULL DEFAULT '[]',
	attributes  TEXT    NOT NULL DEFAULT '{}',
	created_at  INTEGER NOT NULL,
	updated_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);
CREATE INDEX IF NOT EXISTS idx_products_price ON products(price);
CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at);
`

// Open opens (or creates) the SQLite database at dsn and applies the schema.
func Open(ctx context.Context, dsn string) (*Repo, error) {
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dsn, err)
	}
	// A single connection keeps ":memory:" databases shared across calls.
	conn.SetMaxOpenConns(1)

	for _, pragma := range []string{
		`PRAGMA journal_mode=WAL`,
		`PRAGMA busy_timeout=5000`,
		`PRAGMA synchronous=NORMAL`,
	} {
		if _, err := conn.ExecContext(ctx, pragma); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}
	if _, err := conn.ExecContext(ctx, schema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Repo{db: conn}, nil
}

// Ping checks connectivity.
func (r *Repo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// WaitForReady pings once within timeout; a local file is either usable or not.
func (r *Repo) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("sqlite not ready: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (r *Repo) Close() {
	_ = r.db.Close()
}
