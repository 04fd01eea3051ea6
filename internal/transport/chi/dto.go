package chi

import (
	"time"

	domprod "github.com/kailas-cloud/shopdex/internal/domain/product"
	"github.com/kailas-cloud/shopdex/internal/domain/product/patch"
)

type productCreateRequest struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Price       float64        `json:"price"`
	Currency    string         `json:"currency"`
	Category    string         `json:"category"`
	Stock       int            `json:"stock"`
	ImageURL    string         `json:"image_url"`
	SKU         string         `json:"sku"`
	Tags        []string       `json:"tags"`
	Attributes  map[string]any `json:"attributes"`
}

func (r *productCreateRequest) draft() domprod.Draft {
	return domprod.Draft{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Currency:    r.Currency,
		Category:    r.Category,
		Stock:       r.Stock,
		ImageURL:    r.ImageURL,
		SKU:         r.SKU,
		Tags:        r.Tags,
		Attributes:  r.Attributes,
	}
}

type productUpdateRequest struct {
	Name        *string         `json:"name"`
	Description *string         `json:"description"`
	Price       *float64        `json:"price"`
	Currency    *string         `json:"currency"`
	Category    *string         `json:"category"`
	Stock       *int            `json:"stock"`
	ImageURL    *string         `json:"image_url"`
	SKU         *string         `json:"sku"`
	Tags        *[]string       `json:"tags"`
	Attributes  *map[string]any `json:"attributes"`
}

func (r *productUpdateRequest) patch() (patch.Patch, error) {
	return patch.New(patch.Fields{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Currency:    r.Currency,
		Category:    r.Category,
		Stock:       r.Stock,
		ImageURL:    r.ImageURL,
		SKU:         r.SKU,
		Tags:        r.Tags,
		Attributes:  r.Attributes,
	})
}

type productResponse struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Price       float64        `json:"price"`
	Currency    string         `json:"currency"`
	Category    string         `json:"category"`
	Stock       int            `json:"stock"`
	ImageURL    string         `json:"image_url"`
	SKU         string         `json:"sku"`
	Tags        []string       `json:"tags"`
	Attributes  map[string]any `json:"attributes"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func toProductResponse(p *domprod.Product) productResponse {
	tags := p.Tags()
	if tags == nil {
		tags = []string{}
	}
	attrs := p.Attributes()
	if attrs == nil {
		attrs = map[string]any{}
	}
	return productResponse{
		ID:          p.ID(),
		Name:        p.Name(),
		Description: p.Description(),
		Price:       p.Price(),
		Currency:    p.Currency(),
		Category:    p.Category(),
		Stock:       p.Stock(),
		ImageURL:    p.ImageURL(),
		SKU:         p.SKU(),
		Tags:        tags,
		Attributes:  attrs,
		CreatedAt:   p.CreatedAt(),
		UpdatedAt:   p.UpdatedAt(),
	}
}

type naturalSearchRequest struct {
	Query string `json:"query"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
}
