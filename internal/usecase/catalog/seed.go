package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domprod "github.com/kailas-cloud/shopdex/internal/domain/product"
)

// SeedRecord is one entry of a sample-data file. Title is accepted as an
// alias of Name.
type SeedRecord struct {
	Name        string         `json:"name"`
	Title       string         `json:"title"`
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

// SeedReport summarises a Seed run.
type SeedReport struct {
	Skipped  bool `json:"skipped"`
	Existing int  `json:"existing"`
	Created  int  `json:"created"`
	Failed   int  `json:"failed"`
}

// LoadSeedFile reads a JSON array of SeedRecord.
func LoadSeedFile(path string) ([]SeedRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var records []SeedRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	return records, nil
}

// Seed loads records into an empty catalog. A non-empty catalog is left
// untouched. Invalid records are logged and skipped.
func (s *Service) Seed(ctx context.Context, records []SeedRecord) (SeedReport, error) {
	existing, err := s.Count(ctx)
	if err != nil {
		return SeedReport{}, err
	}
	if existing > 0 {
		s.logger.Info("Catalog not empty, skipping sample data", zap.Int("existing", existing))
		return SeedReport{Skipped: true, Existing: existing}, nil
	}

	var report SeedReport
	for i := range records {
		d := records[i].draft()
		if _, err := s.Create(ctx, d); err != nil {
			report.Failed++
			s.logger.Warn("Sample product rejected",
				zap.Int("index", i),
				zap.String("sku", d.SKU),
				zap.Error(err),
			)
			continue
		}
		report.Created++
	}
	s.logger.Info("Sample data loaded",
		zap.Int("created", report.Created),
		zap.Int("failed", report.Failed),
	)
	return report, nil
}

func (r *SeedRecord) draft() domprod.Draft {
	name := r.Name
	if name == "" {
		name = r.Title
	}
	sku := r.SKU
	if sku == "" {
		sku = "SKU-" + uuid.NewString()[:8]
	}
	return domprod.Draft{
		Name:        name,
		Description: r.Description,
		Price:       r.Price,
		Currency:    r.Currency,
		Category:    r.Category,
		Stock:       r.Stock,
		ImageURL:    r.ImageURL,
		SKU:         sku,
		Tags:        r.Tags,
		Attributes:  r.Attributes,
	}
}
