package db

import "github.com/kailas-cloud/shopdex/internal/domain/search/filter"

// Query is the input for a filtered scan over an FT index.
type Query struct {
	IndexName string
	Filters   filter.Expression
	// FieldTypes tells the renderer how each filtered field is indexed.
	// Unknown fields are treated as TAG, except free-text clauses which use TEXT.
	FieldTypes   map[string]IndexFieldType
	SortBy       string
	Descending   bool
	Offset       int
	Limit        int
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Fields map[string]string
}
