package patch

import "fmt"

// Patch is a partial product update. Nil fields are unchanged.
type Patch struct {
	name        *string
	description *string
	price       *float64
	currency    *string
	category    *string
	stock       *int
	imageURL    *string
	sku         *string
	tags        []string
	hasTags     bool
	attributes  map[string]any
	hasAttrs    bool
}

// Fields is the raw input of a Patch; nil pointers and nil collections mean "unchanged".
type Fields struct {
	Name        *string
	Description *string
	Price       *float64
	Currency    *string
	Category    *string
	Stock       *int
	ImageURL    *string
	SKU         *string
	Tags        *[]string
	Attributes  *map[string]any
}

// New validates and creates a Patch. At least one field must be provided.
func New(f Fields) (Patch, error) {
	p := Patch{
		name:        f.Name,
		description: f.Description,
		price:       f.Price,
		currency:    f.Currency,
		category:    f.Category,
		stock:       f.Stock,
		imageURL:    f.ImageURL,
		sku:         f.SKU,
	}
	if f.Tags != nil {
		p.tags = *f.Tags
		if p.tags == nil {
			p.tags = []string{}
		}
		p.hasTags = true
	}
	if f.Attributes != nil {
		p.attributes = *f.Attributes
		p.hasAttrs = true
	}
	if p.IsEmpty() {
		return Patch{}, fmt.Errorf("at least one field must be provided")
	}
	return p, nil
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.name == nil && p.description == nil && p.price == nil && p.currency == nil &&
		p.category == nil && p.stock == nil && p.imageURL == nil && p.sku == nil &&
		!p.hasTags && !p.hasAttrs
}

// Name returns the new name, or nil if unchanged.
func (p Patch) Name() *string { return p.name }

// Description returns the new description, or nil if unchanged.
func (p Patch) Description() *string { return p.description }

// Price returns the new price, or nil if unchanged.
func (p Patch) Price() *float64 { return p.price }

// Currency returns the new currency, or nil if unchanged.
func (p Patch) Currency() *string { return p.currency }

// Category returns the new category, or nil if unchanged.
func (p Patch) Category() *string { return p.category }

// Stock returns the new stock level, or nil if unchanged.
func (p Patch) Stock() *int { return p.stock }

// ImageURL returns the new image URL, or nil if unchanged.
func (p Patch) ImageURL() *string { return p.imageURL }

// SKU returns the new SKU, or nil if unchanged.
func (p Patch) SKU() *string { return p.sku }

// Tags returns the replacement tag list.
func (p Patch) Tags() []string { return p.tags }

// HasTags reports whether the tag list is replaced.
func (p Patch) HasTags() bool { return p.hasTags }

// Attributes returns the replacement attribute map.
func (p Patch) Attributes() map[string]any { return p.attributes }

// HasAttributes reports whether the attribute map is replaced.
func (p Patch) HasAttributes() bool { return p.hasAttrs }
