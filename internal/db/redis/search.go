package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/shopdex/internal/db"
	"github.com/kailas-cloud/shopdex/internal/domain/search/filter"
)

// Search runs a filtered, sorted, paginated FT.SEARCH.
func (s *Store) Search(ctx context.Context, q *db.Query) (*db.SearchResult, error) {
	if q.IndexName == "" {
		return nil, errors.New("index name is required")
	}
	if q.Limit <= 0 {
		return nil, errors.New("limit must be positive")
	}
	if q.Offset < 0 {
		return nil, errors.New("offset must be non-negative")
	}

	args := []string{q.IndexName, buildQuery(q)}

	if len(q.ReturnFields) > 0 {
		args = append(args, "RETURN", strconv.Itoa(len(q.ReturnFields)))
		args = append(args, q.ReturnFields...)
	}
	if q.SortBy != "" {
		dir := "ASC"
		if q.Descending {
			dir = "DESC"
		}
		args = append(args, "SORTBY", q.SortBy, dir)
	}
	args = append(args,
		"LIMIT", strconv.Itoa(q.Offset), strconv.Itoa(q.Limit),
		"DIALECT", "2",
	)

	cmd := s.b().Arbitrary("FT.SEARCH").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}
	return parseListResult(raw)
}

// Count returns the number of matching documents via FT.SEARCH ... LIMIT 0 0.
func (s *Store) Count(ctx context.Context, q *db.Query) (int, error) {
	if q.IndexName == "" {
		return 0, errors.New("index name is required")
	}
	cmd := s.b().Arbitrary("FT.SEARCH").
		Args(q.IndexName, buildQuery(q), "LIMIT", "0", "0", "DIALECT", "2").
		Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return 0, &db.Error{Op: db.OpSearch, Err: err}
	}
	if len(raw) == 0 {
		return 0, nil
	}
	total, err := raw[0].AsInt64()
	if err != nil {
		return 0, fmt.Errorf("parse count: %w", err)
	}
	return int(total), nil
}

// --- Result parsing ---

func parseListResult(raw []rueidis.RedisMessage) (*db.SearchResult, error) {
	if len(raw) == 0 {
		return &db.SearchResult{}, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}
	if total == 0 {
		return &db.SearchResult{}, nil
	}

	entries := make([]db.SearchEntry, 0, (len(raw)-1)/2)
	// 2-stride: [total, key1, fields1, key2, fields2, ...]
	for i := 1; i+1 < len(raw); i += 2 {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}
		fields, err := raw[i+1].ToArray()
		if err != nil {
			continue
		}
		entries = append(entries, db.SearchEntry{
			Key:    key,
			Fields: parseFieldPairs(fields),
		})
	}

	return &db.SearchResult{Total: int(total), Entries: entries}, nil
}

func parseFieldPairs(fields []rueidis.RedisMessage) map[string]string {
	m := make(map[string]string, len(fields)/2)
	for j := 0; j+1 < len(fields); j += 2 {
		name, err := fields[j].ToString()
		if err != nil {
			continue
		}
		value, err := fields[j+1].ToString()
		if err != nil {
			continue
		}
		m[name] = value
	}
	return m
}

// --- Query building ---

// buildQuery renders the AND of all clauses; an empty filter matches everything.
func buildQuery(q *db.Query) string {
	conds := q.Filters.Conditions()
	if len(conds) == 0 {
		return "*"
	}
	parts := make([]string, 0, len(conds))
	for _, c := range conds {
		if p := buildCondition(c, q.FieldTypes); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return "*"
	}
	return strings.Join(parts, " ")
}

func buildCondition(c filter.Condition, types map[string]db.IndexFieldType) string {
	switch c.Kind() {
	case filter.KindContains:
		if fieldType(types, c.Field(), db.IndexFieldTag) == db.IndexFieldText {
			return fmt.Sprintf("@%s:(%s)", c.Field(), infix(c.Value()))
		}
		return fmt.Sprintf("@%s:{*%s*}", c.Field(), tagEscaper.Replace(c.Value()))
	case filter.KindTag:
		return fmt.Sprintf("@%s:{%s}", c.Field(), tagEscaper.Replace(c.Value()))
	case filter.KindIn:
		vals := make([]string, len(c.Values()))
		for i, v := range c.Values() {
			vals[i] = tagEscaper.Replace(v)
		}
		return fmt.Sprintf("@%s:{%s}", c.Field(), strings.Join(vals, " | "))
	case filter.KindRange:
		return buildNumericFilter(c.Field(), *c.Range())
	case filter.KindAnyText:
		terms := make([]string, len(c.Values()))
		for i, v := range c.Values() {
			terms[i] = infix(v)
		}
		return fmt.Sprintf("(@%s:(%s))", strings.Join(c.Fields(), "|"), strings.Join(terms, " | "))
	default:
		return ""
	}
}

func fieldType(types map[string]db.IndexFieldType, field string, def db.IndexFieldType) db.IndexFieldType {
	if t, ok := types[field]; ok {
		return t
	}
	return def
}

func buildNumericFilter(key string, r filter.Range) string {
	minBound := "-inf"
	maxBound := "+inf"
	if r.GTE() != nil {
		minBound = strconv.FormatFloat(*r.GTE(), 'f', -1, 64)
	}
	if r.LTE() != nil {
		maxBound = strconv.FormatFloat(*r.LTE(), 'f', -1, 64)
	}
	return fmt.Sprintf("@%s:[%s %s]", key, minBound, maxBound)
}

// infix renders a substring match on a TEXT field.
func infix(term string) string {
	return "*" + escapeQuery(term) + "*"
}

// --- Query helpers ---

// Characters the query parser treats as syntax inside TAG braces and TEXT terms.
const (
	tagSpecials   = ",.<>{}[]\"':;!@#$%^&*()-+=~|/ "
	querySpecials = `\'"@{}()|-~*[]!%^$<>=;+:,. `
)

var (
	tagEscaper   = backslashEscaper(tagSpecials)
	queryEscaper = backslashEscaper(querySpecials)
)

func backslashEscaper(specials string) *strings.Replacer {
	pairs := make([]string, 0, 2*len(specials))
	for _, r := range specials {
		pairs = append(pairs, string(r), `\`+string(r))
	}
	return strings.NewReplacer(pairs...)
}

func escapeQuery(s string) string {
	return queryEscaper.Replace(s)
}
