package intent

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var defaultRules []byte

// Rules are the lookup tables of the rule-based extractor.
type Rules struct {
	Categories []CategoryRule `yaml:"categories"`
	Price      PriceWords     `yaml:"price"`
}

// CategoryRule maps trigger words to a canonical category and lists the
// brands recognised within it.
type CategoryRule struct {
	Name     string      `yaml:"name"`
	Triggers []string    `yaml:"triggers"`
	Brands   []BrandRule `yaml:"brands"`
}

// BrandRule is a canonical brand name with the spellings that identify it.
type BrandRule struct {
	Name    string   `yaml:"name"`
	Aliases []string `yaml:"aliases"`
}

// PriceWords are the directional phrases around a price magnitude.
type PriceWords struct {
	Below      []string `yaml:"below"`
	Above      []string `yaml:"above"`
	Approx     []string `yaml:"approx"`
	RangeJoins []string `yaml:"range_joins"`
	Currency   []string `yaml:"currency"`
}

// DefaultRules returns the built-in tables.
func DefaultRules() *Rules {
	r, err := ParseRules(defaultRules)
	if err != nil {
		panic(fmt.Sprintf("embedded intent rules: %v", err))
	}
	return r
}

// LoadRules reads tables from path, or returns the built-in ones when path is empty.
func LoadRules(path string) (*Rules, error) {
	if path == "" {
		return DefaultRules(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules %s: %w", path, err)
	}
	r, err := ParseRules(data)
	if err != nil {
		return nil, fmt.Errorf("rules %s: %w", path, err)
	}
	return r, nil
}

// ParseRules decodes and validates a YAML rule document.
// Trigger words, aliases and price phrases are lower-cased.
func ParseRules(data []byte) (*Rules, error) {
	var r Rules
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if err := r.normalize(); err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *Rules) normalize() error {
	if len(r.Categories) == 0 {
		return errors.New("at least one category is required")
	}
	for i := range r.Categories {
		c := &r.Categories[i]
		c.Name = strings.TrimSpace(c.Name)
		if c.Name == "" {
			return fmt.Errorf("category %d: name is required", i)
		}
		c.Triggers = lowerAll(c.Triggers)
		if len(c.Triggers) == 0 {
			return fmt.Errorf("category %q: at least one trigger is required", c.Name)
		}
		for j := range c.Brands {
			b := &c.Brands[j]
			b.Name = strings.TrimSpace(b.Name)
			b.Aliases = lowerAll(b.Aliases)
			if b.Name == "" || len(b.Aliases) == 0 {
				return fmt.Errorf("category %q: brand %d needs a name and aliases", c.Name, j)
			}
		}
	}
	r.Price.Below = lowerAll(r.Price.Below)
	r.Price.Above = lowerAll(r.Price.Above)
	r.Price.Approx = lowerAll(r.Price.Approx)
	r.Price.RangeJoins = lowerAll(r.Price.RangeJoins)
	r.Price.Currency = lowerAll(r.Price.Currency)
	// longest marker first so "块钱" is stripped before "块"
	sort.SliceStable(r.Price.Currency, func(i, j int) bool {
		return len(r.Price.Currency[i]) > len(r.Price.Currency[j])
	})
	return nil
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
