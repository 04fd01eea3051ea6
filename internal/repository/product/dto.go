package product

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	domprod "github.com/kailas-cloud/shopdex/internal/domain/product"
)

// Hash field names. They double as FT index attribute names.
const (
	fieldID          = "id"
	fieldName        = "name"
	fieldDescription = "description"
	fieldPrice       = "price"
	fieldCurrency    = "currency"
	fieldCategory    = "category"
	fieldStock       = "stock"
	fieldImageURL    = "image_url"
	fieldSKU         = "sku"
	fieldTags        = "tags"
	fieldAttributes  = "attributes"
	fieldCreatedAt   = "created_at"
	fieldUpdatedAt   = "updated_at"
)

// buildHashFields flattens a product into HSET field/value pairs.
func buildHashFields(p *domprod.Product) (map[string]string, error) {
	attrs, err := json.Marshal(p.Attributes())
	if err != nil {
		return nil, fmt.Errorf("marshal attributes: %w", err)
	}
	return map[string]string{
		fieldID:          strconv.FormatInt(p.ID(), 10),
		fieldName:        p.Name(),
		fieldDescription: p.Description(),
		fieldPrice:       strconv.FormatFloat(p.Price(), 'f', -1, 64),
		fieldCurrency:    p.Currency(),
		fieldCategory:    p.Category(),
		fieldStock:       strconv.Itoa(p.Stock()),
		fieldImageURL:    p.ImageURL(),
		fieldSKU:         p.SKU(),
		fieldTags:        strings.Join(p.Tags(), ","),
		fieldAttributes:  string(attrs),
		fieldCreatedAt:   strconv.FormatInt(p.CreatedAt().UnixMilli(), 10),
		fieldUpdatedAt:   strconv.FormatInt(p.UpdatedAt().UnixMilli(), 10),
	}, nil
}

// parseHashFields rebuilds a product from a stored hash. Unparsable numbers
// decode as zero rather than failing the whole read.
func parseHashFields(id int64, m map[string]string) domprod.Product {
	d := domprod.Draft{
		Name:        m[fieldName],
		Description: m[fieldDescription],
		Currency:    m[fieldCurrency],
		Category:    m[fieldCategory],
		ImageURL:    m[fieldImageURL],
		SKU:         m[fieldSKU],
	}
	d.Price, _ = strconv.ParseFloat(m[fieldPrice], 64)
	d.Stock, _ = strconv.Atoi(m[fieldStock])
	if tags := m[fieldTags]; tags != "" {
		d.Tags = strings.Split(tags, ",")
	}
	if raw := m[fieldAttributes]; raw != "" {
		_ = json.Unmarshal([]byte(raw), &d.Attributes)
	}
	return domprod.Reconstruct(id, d, parseMillis(m[fieldCreatedAt]), parseMillis(m[fieldUpdatedAt]))
}

func parseMillis(s string) time.Time {
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
