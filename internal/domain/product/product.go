package product

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/kailas-cloud/shopdex/internal/domain"
	"github.com/kailas-cloud/shopdex/internal/domain/product/patch"
)

// Field length limits mirror the catalog table columns.
const (
	MaxNameLength     = 255
	MaxCategoryLength = 100
	MaxSKULength      = 50
	MaxImageURLLength = 512
	MaxTags           = 64
	DefaultCurrency   = "CNY"
)

// Draft carries the caller-supplied fields of a product.
type Draft struct {
	Name        string
	Description string
	Price       float64
	Currency    string
	Category    string
	Stock       int
	ImageURL    string
	SKU         string
	Tags        []string
	Attributes  map[string]any
}

// Product is the catalog aggregate (immutable value object).
type Product struct {
	id          int64
	name        string
	description string
	price       float64
	currency    string
	category    string
	stock       int
	imageURL    string
	sku         string
	tags        []string
	attributes  map[string]any
	createdAt   time.Time
	updatedAt   time.Time
}

// New validates a draft and creates an unsaved Product (ID 0).
func New(d Draft, now time.Time) (Product, error) {
	d.Name = strings.TrimSpace(d.Name)
	d.Category = strings.TrimSpace(d.Category)
	d.SKU = strings.TrimSpace(d.SKU)
	if d.Currency == "" {
		d.Currency = DefaultCurrency
	}
	if err := validate(&d); err != nil {
		return Product{}, err
	}
	now = now.UTC()
	return fromDraft(0, d, now, now), nil
}

// Reconstruct creates a Product without validation (storage hydration).
func Reconstruct(id int64, d Draft, createdAt, updatedAt time.Time) Product {
	return fromDraft(id, d, createdAt, updatedAt)
}

func fromDraft(id int64, d Draft, createdAt, updatedAt time.Time) Product {
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	attrs := d.Attributes
	if attrs == nil {
		attrs = map[string]any{}
	}
	return Product{
		id:          id,
		name:        d.Name,
		description: d.Description,
		price:       d.Price,
		currency:    d.Currency,
		category:    d.Category,
		stock:       d.Stock,
		imageURL:    d.ImageURL,
		sku:         d.SKU,
		tags:        slices.Clone(tags),
		attributes:  maps.Clone(attrs),
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func validate(d *Draft) error {
	switch {
	case d.Name == "":
		return domain.NewValidationError("name", "is required")
	case len(d.Name) > MaxNameLength:
		return domain.NewValidationError("name", fmt.Sprintf("too long (max %d)", MaxNameLength))
	case d.Category == "":
		return domain.NewValidationError("category", "is required")
	case len(d.Category) > MaxCategoryLength:
		return domain.NewValidationError("category", fmt.Sprintf("too long (max %d)", MaxCategoryLength))
	case d.SKU == "":
		return domain.NewValidationError("sku", "is required")
	case len(d.SKU) > MaxSKULength:
		return domain.NewValidationError("sku", fmt.Sprintf("too long (max %d)", MaxSKULength))
	case d.Price < 0:
		return domain.NewValidationError("price", "must be non-negative")
	case d.Stock < 0:
		return domain.NewValidationError("stock", "must be non-negative")
	case len(d.ImageURL) > MaxImageURLLength:
		return domain.NewValidationError("image_url", fmt.Sprintf("too long (max %d)", MaxImageURLLength))
	case len(d.Currency) != 3:
		return domain.NewValidationError("currency", "must be a 3-letter code")
	case len(d.Tags) > MaxTags:
		return domain.NewValidationError("tags", fmt.Sprintf("too many (max %d)", MaxTags))
	}
	for _, t := range d.Tags {
		if strings.TrimSpace(t) == "" {
			return domain.NewValidationError("tags", "must not contain empty values")
		}
		if strings.Contains(t, ",") {
			return domain.NewValidationError("tags", "must not contain commas")
		}
	}
	return nil
}

// ID returns the store-assigned identifier (0 before the first save).
func (p *Product) ID() int64 { return p.id }

// Name returns the display name.
func (p *Product) Name() string { return p.name }

// Description returns the free-text description.
func (p *Product) Description() string { return p.description }

// Price returns the unit price in Currency.
func (p *Product) Price() float64 { return p.price }

// Currency returns the ISO currency code.
func (p *Product) Currency() string { return p.currency }

// Category returns the catalog category label.
func (p *Product) Category() string { return p.category }

// Stock returns the units on hand.
func (p *Product) Stock() int { return p.stock }

// ImageURL returns the product image location.
func (p *Product) ImageURL() string { return p.imageURL }

// SKU returns the stock keeping unit.
func (p *Product) SKU() string { return p.sku }

// Tags returns the tag/label collection (brands live here).
func (p *Product) Tags() []string { return p.tags }

// Attributes returns free-form product attributes.
func (p *Product) Attributes() map[string]any { return p.attributes }

// CreatedAt returns the creation time.
func (p *Product) CreatedAt() time.Time { return p.createdAt }

// UpdatedAt returns the last modification time.
func (p *Product) UpdatedAt() time.Time { return p.updatedAt }

// Draft returns the mutable fields as a Draft.
func (p *Product) Draft() Draft {
	return Draft{
		Name:        p.name,
		Description: p.description,
		Price:       p.price,
		Currency:    p.currency,
		Category:    p.category,
		Stock:       p.stock,
		ImageURL:    p.imageURL,
		SKU:         p.sku,
		Tags:        slices.Clone(p.tags),
		Attributes:  maps.Clone(p.attributes),
	}
}

// WithID returns a copy carrying the given identifier.
func (p *Product) WithID(id int64) Product {
	c := *p
	c.id = id
	return c
}

// HasTag reports whether the product carries tag t (case-insensitive).
func (p *Product) HasTag(t string) bool {
	for _, own := range p.tags {
		if strings.EqualFold(own, t) {
			return true
		}
	}
	return false
}

// Apply returns a copy with the patch applied and re-validated.
func (p *Product) Apply(pt patch.Patch, now time.Time) (Product, error) {
	d := p.Draft()
	if v := pt.Name(); v != nil {
		d.Name = strings.TrimSpace(*v)
	}
	if v := pt.Description(); v != nil {
		d.Description = *v
	}
	if v := pt.Price(); v != nil {
		d.Price = *v
	}
	if v := pt.Currency(); v != nil {
		d.Currency = *v
	}
	if v := pt.Category(); v != nil {
		d.Category = strings.TrimSpace(*v)
	}
	if v := pt.Stock(); v != nil {
		d.Stock = *v
	}
	if v := pt.ImageURL(); v != nil {
		d.ImageURL = *v
	}
	if v := pt.SKU(); v != nil {
		d.SKU = strings.TrimSpace(*v)
	}
	if pt.HasTags() {
		d.Tags = pt.Tags()
	}
	if pt.HasAttributes() {
		d.Attributes = pt.Attributes()
	}
	if err := validate(&d); err != nil {
		return Product{}, err
	}
	return fromDraft(p.id, d, p.createdAt, now.UTC()), nil
}
