package request

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/shopdex/internal/domain/search/order"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed query length in characters.
	MaxQueryLength = 512
	DefaultLimit   = 10
	MaxLimit       = 100
	MaxCategories  = 20
)

// Page is a 1-indexed pagination window.
type Page struct {
	Number int `json:"number"`
	Size   int `json:"size"`
}

// NewPage normalises a page window: number < 1 becomes 1, size < 1 becomes
// defaultSize, size above maxSize is clamped.
func NewPage(number, size, defaultSize, maxSize int) Page {
	if defaultSize <= 0 {
		defaultSize = DefaultLimit
	}
	if maxSize <= 0 {
		maxSize = MaxLimit
	}
	if number < 1 {
		number = 1
	}
	if size < 1 {
		size = defaultSize
	}
	if size > maxSize {
		size = maxSize
	}
	return Page{Number: number, Size: size}
}

// Offset returns the number of records skipped before this page.
func (p Page) Offset() int {
	if p.Number < 1 || p.Size < 1 {
		return 0
	}
	return (p.Number - 1) * p.Size
}

// Natural is a validated natural-language search request.
type Natural struct {
	query string
	page  Page
}

// NewNatural validates a natural-language query.
func NewNatural(query string, page Page) (Natural, error) {
	q, err := validateQuery(query, true)
	if err != nil {
		return Natural{}, err
	}
	return Natural{query: q, page: page}, nil
}

// Query returns the raw query text (trimmed).
func (r *Natural) Query() string { return r.query }

// Page returns the requested window.
func (r *Natural) Page() Page { return r.page }

// Faceted is a validated field-filter search request.
type Faceted struct {
	query      string
	categories []string
	minPrice   float64
	maxPrice   float64
	order      order.Order
	page       Page
}

// NewFaceted validates a faceted search. Nil or zero prices mean unbounded;
// blank categories (an empty "categories=" parameter) are dropped.
func NewFaceted(
	query string, categories []string, minPrice, maxPrice *float64, ord order.Order, page Page,
) (Faceted, error) {
	q, err := validateQuery(query, false)
	if err != nil {
		return Faceted{}, err
	}
	if len(categories) > MaxCategories {
		return Faceted{}, fmt.Errorf("too many categories (max %d)", MaxCategories)
	}
	f := Faceted{query: q, categories: nonBlankCategories(categories), order: ord, page: page}
	if minPrice != nil {
		if *minPrice < 0 {
			return Faceted{}, fmt.Errorf("min_price must be non-negative")
		}
		f.minPrice = *minPrice
	}
	if maxPrice != nil {
		if *maxPrice < 0 {
			return Faceted{}, fmt.Errorf("max_price must be non-negative")
		}
		f.maxPrice = *maxPrice
	}
	return f, nil
}

// Query returns the free-text part of the request.
func (r *Faceted) Query() string { return r.query }

// Categories returns the category whitelist (empty = any).
func (r *Faceted) Categories() []string { return r.categories }

// MinPrice returns the lower price bound (0 = unbounded).
func (r *Faceted) MinPrice() float64 { return r.minPrice }

// MaxPrice returns the upper price bound (0 = unbounded).
func (r *Faceted) MaxPrice() float64 { return r.maxPrice }

// Order returns the requested sort.
func (r *Faceted) Order() order.Order { return r.order }

// Page returns the requested window.
func (r *Faceted) Page() Page { return r.page }

func validateQuery(query string, required bool) (string, error) {
	q := strings.TrimSpace(query)
	if q == "" && required {
		return "", fmt.Errorf("query is required")
	}
	if utf8.RuneCountInString(q) > MaxQueryLength {
		return "", fmt.Errorf("query too long (max %d chars)", MaxQueryLength)
	}
	return q, nil
}

func nonBlankCategories(in []string) []string {
	var out []string
	for _, c := range in {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}
