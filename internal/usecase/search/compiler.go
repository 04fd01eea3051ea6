package search

import (
	"fmt"
	"strings"

	domintent "github.com/kailas-cloud/shopdex/internal/domain/search/intent"
	"github.com/kailas-cloud/shopdex/internal/domain/search/filter"
	"github.com/kailas-cloud/shopdex/internal/domain/search/order"
	"github.com/kailas-cloud/shopdex/internal/domain/search/query"
	"github.com/kailas-cloud/shopdex/internal/domain/search/request"
)

// Sort-preference vocabulary, matched case-insensitively as substrings.
var (
	priceWords      = []string{"价格", "价钱", "售价", "便宜", "贵", "price", "cheap", "expensive"}
	highToLowPhrase = []string{"从高到低", "高到低", "由高到低", "降序", "最贵", "high to low", "high-to-low", "descending", "expensive"}
)

// textFields are the fields a keyword clause searches.
var textFields = []string{filter.FieldName, filter.FieldDescription}

// Compile turns an intent into a store-neutral query. Brand clauses are
// AND-combined, so an intent naming two brands only matches products tagged with both.
func Compile(in domintent.SearchIntent, page request.Page) (query.Compiled, error) {
	var conds []filter.Condition

	if in.HasCategory() {
		c, err := filter.NewContains(filter.FieldCategory, in.ProductType())
		if err != nil {
			return query.Compiled{}, fmt.Errorf("category clause: %w", err)
		}
		conds = append(conds, c)
	}

	priceConds, err := priceClauses(in.PriceRange().Min, in.PriceRange().Max)
	if err != nil {
		return query.Compiled{}, err
	}
	conds = append(conds, priceConds...)

	for _, b := range in.Brands() {
		c, err := filter.NewTag(filter.FieldTags, b)
		if err != nil {
			return query.Compiled{}, fmt.Errorf("brand clause: %w", err)
		}
		conds = append(conds, c)
	}

	if kw := in.Keywords(); len(kw) > 0 {
		c, err := filter.NewAnyText(textFields, kw)
		if err != nil {
			return query.Compiled{}, fmt.Errorf("keyword clause: %w", err)
		}
		conds = append(conds, c)
	}

	expr, err := filter.NewExpression(conds...)
	if err != nil {
		return query.Compiled{}, fmt.Errorf("compile intent: %w", err)
	}
	return query.Compiled{Filters: expr, Order: sortFor(in.SortPreference()), Page: page}, nil
}

// priceClauses emits one clause per positive bound. An inverted pair is kept as is.
func priceClauses(lo, hi float64) ([]filter.Condition, error) {
	var out []filter.Condition
	if lo > 0 {
		c, err := filter.NewRange(filter.FieldPrice, filter.AtLeast(lo))
		if err != nil {
			return nil, fmt.Errorf("price clause: %w", err)
		}
		out = append(out, c)
	}
	if hi > 0 {
		c, err := filter.NewRange(filter.FieldPrice, filter.AtMost(hi))
		if err != nil {
			return nil, fmt.Errorf("price clause: %w", err)
		}
		out = append(out, c)
	}
	return out, nil
}

func sortFor(pref *string) order.Order {
	if pref == nil {
		return order.Newest
	}
	p := strings.ToLower(*pref)
	if !containsAny(p, priceWords) {
		return order.Newest
	}
	if containsAny(p, highToLowPhrase) {
		return order.Order{Field: order.Price, Direction: order.Desc}
	}
	return order.Order{Field: order.Price, Direction: order.Asc}
}

// compileFaceted builds the query for a field-filter search.
func compileFaceted(req *request.Faceted) (query.Compiled, error) {
	var conds []filter.Condition

	if len(req.Categories()) > 0 {
		c, err := filter.NewIn(filter.FieldCategory, req.Categories())
		if err != nil {
			return query.Compiled{}, fmt.Errorf("category clause: %w", err)
		}
		conds = append(conds, c)
	}
	if terms := strings.Fields(req.Query()); len(terms) > 0 {
		c, err := filter.NewAnyText(textFields, terms)
		if err != nil {
			return query.Compiled{}, fmt.Errorf("keyword clause: %w", err)
		}
		conds = append(conds, c)
	}
	priceConds, err := priceClauses(req.MinPrice(), req.MaxPrice())
	if err != nil {
		return query.Compiled{}, err
	}
	conds = append(conds, priceConds...)

	expr, err := filter.NewExpression(conds...)
	if err != nil {
		return query.Compiled{}, fmt.Errorf("compile faceted search: %w", err)
	}
	return query.Compiled{Filters: expr, Order: req.Order(), Page: req.Page()}, nil
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
