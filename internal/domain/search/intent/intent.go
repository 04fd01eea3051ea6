package intent

import (
	"slices"
	"strings"
)

// Unconstrained is the product type meaning "any category".
const Unconstrained = "其他"

// unconstrainedAliases are product types treated like Unconstrained.
var unconstrainedAliases = map[string]bool{
	"":        true,
	"其他":      true,
	"other":   true,
	"unknown": true,
	"未知":      true,
	"null":    true,
	"none":    true,
}

// PriceRange bounds a price search. A zero bound means "unbounded in that direction".
// Min <= Max is not enforced here.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// IsZero reports whether neither bound is set.
func (r PriceRange) IsZero() bool { return r.Min == 0 && r.Max == 0 }

// IsInverted reports whether both bounds are set and Min exceeds Max.
func (r PriceRange) IsInverted() bool { return r.Min > 0 && r.Max > 0 && r.Min > r.Max }

// SearchIntent is the structured form of a natural-language query.
// It is request-scoped and must not be mutated after construction.
type SearchIntent struct {
	productType    string
	priceRange     PriceRange
	brands         []string
	keywords       []string
	sortPreference *string
}

// New creates a normalised SearchIntent: blank product types collapse to
// Unconstrained, negative bounds to 0, blank list entries are dropped.
func New(productType string, pr PriceRange, brands, keywords []string, sortPreference *string) SearchIntent {
	productType = strings.TrimSpace(productType)
	if IsUnconstrained(productType) {
		productType = Unconstrained
	}
	pr.Min = max(pr.Min, 0)
	pr.Max = max(pr.Max, 0)

	var sp *string
	if sortPreference != nil {
		if v := strings.TrimSpace(*sortPreference); v != "" {
			sp = &v
		}
	}

	return SearchIntent{
		productType:    productType,
		priceRange:     pr,
		brands:         compact(brands),
		keywords:       compact(keywords),
		sortPreference: sp,
	}
}

// IsUnconstrained reports whether a product type places no category constraint.
func IsUnconstrained(productType string) bool {
	return unconstrainedAliases[strings.ToLower(strings.TrimSpace(productType))]
}

// ProductType returns the category label or Unconstrained.
func (i SearchIntent) ProductType() string { return i.productType }

// HasCategory reports whether the intent constrains the category.
func (i SearchIntent) HasCategory() bool { return !IsUnconstrained(i.productType) }

// PriceRange returns the price bounds.
func (i SearchIntent) PriceRange() PriceRange { return i.priceRange }

// Brands returns a copy of the brand names.
func (i SearchIntent) Brands() []string { return slices.Clone(i.brands) }

// Keywords returns a copy of the free-text keywords.
func (i SearchIntent) Keywords() []string { return slices.Clone(i.keywords) }

// SortPreference returns the free-text sort hint, or nil.
func (i SearchIntent) SortPreference() *string {
	if i.sortPreference == nil {
		return nil
	}
	v := *i.sortPreference
	return &v
}

// ClauseCount is the number of filter clauses the intent compiles to:
// category, each price bound, one per brand and one for all keywords.
func (i SearchIntent) ClauseCount() int {
	n := len(i.brands)
	if i.HasCategory() {
		n++
	}
	if i.priceRange.Min > 0 {
		n++
	}
	if i.priceRange.Max > 0 {
		n++
	}
	if len(i.keywords) > 0 {
		n++
	}
	return n
}

func compact(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
