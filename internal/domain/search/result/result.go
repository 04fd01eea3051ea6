package result

import (
	"strings"

	"github.com/kailas-cloud/shopdex/internal/domain/product"
)

// Item is the search projection of a product.
type Item struct {
	ID             int64    `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Price          float64  `json:"price"`
	Category       string   `json:"category"`
	ImageURL       string   `json:"image_url"`
	RelevanceScore *float64 `json:"relevance_score,omitempty"`
}

// FromProduct projects a product into a search item without a score.
func FromProduct(p *product.Product) Item {
	return Item{
		ID:          p.ID(),
		Name:        p.Name(),
		Description: p.Description(),
		Price:       p.Price(),
		Category:    p.Category(),
		ImageURL:    p.ImageURL(),
	}
}

// Score returns the fraction of keywords found (case-insensitively) in the
// item's name or description. Nil when there are no keywords.
func Score(it Item, keywords []string) *float64 {
	if len(keywords) == 0 {
		return nil
	}
	hay := strings.ToLower(it.Name + "\n" + it.Description)
	hits := 0
	for _, kw := range keywords {
		if strings.Contains(hay, strings.ToLower(kw)) {
			hits++
		}
	}
	s := float64(hits) / float64(len(keywords))
	return &s
}

// Envelope is one page of results plus pagination metadata.
type Envelope struct {
	Items []Item `json:"items"`
	Total int    `json:"total"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Pages int    `json:"pages"`
}

// NewEnvelope builds an envelope; pages is ceil(total/limit), 0 when limit <= 0.
func NewEnvelope(items []Item, total, page, limit int) Envelope {
	if items == nil {
		items = []Item{}
	}
	return Envelope{
		Items: items,
		Total: total,
		Page:  page,
		Limit: limit,
		Pages: PageCount(total, limit),
	}
}

// PageCount returns ceil(total/limit), or 0 when limit <= 0.
func PageCount(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
