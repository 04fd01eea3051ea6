package query

import (
	"encoding/json"

	"github.com/kailas-cloud/shopdex/internal/domain/search/filter"
	"github.com/kailas-cloud/shopdex/internal/domain/search/order"
	"github.com/kailas-cloud/shopdex/internal/domain/search/request"
)

// Compiled is a store-neutral catalog query: AND-combined filters,
// a single sort key and a page window.
type Compiled struct {
	Filters filter.Expression
	Order   order.Order
	Page    request.Page
}

// Offset returns the number of rows to skip.
func (c Compiled) Offset() int { return c.Page.Offset() }

// Limit returns the page size.
func (c Compiled) Limit() int { return c.Page.Size }

// MarshalJSON renders filters in their debug form.
func (c Compiled) MarshalJSON() ([]byte, error) {
	conds := c.Filters.Conditions()
	filters := make([]string, len(conds))
	for i, cond := range conds {
		filters[i] = cond.String()
	}
	return json.Marshal(struct {
		Filters []string     `json:"filters"`
		Sort    order.Order  `json:"sort"`
		Page    request.Page `json:"page"`
	}{filters, c.Order, c.Page})
}
