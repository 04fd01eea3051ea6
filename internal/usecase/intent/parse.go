package intent

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	domintent "github.com/kailas-cloud/shopdex/internal/domain/search/intent"
)

var errNoObject = errors.New("reply contains no JSON object")

// reply is the five-field object the model is asked to return.
type reply struct {
	ProductType    *string     `json:"product_type"`
	PriceRange     *replyRange `json:"price_range"`
	Brands         []string    `json:"brands"`
	Keywords       []string    `json:"keywords"`
	SortPreference *string     `json:"sort_preference"`
}

type replyRange struct {
	Min looseNumber `json:"min"`
	Max looseNumber `json:"max"`
}

// looseNumber accepts 500, "500", "500元" and null. Anything else reads as 0.
type looseNumber float64

func (n *looseNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("price bound: %w", err)
		}
		*n = looseNumber(leadingNumber(s))
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		*n = 0
		return nil //nolint:nilerr // non-numeric bound is treated as absent
	}
	*n = looseNumber(f)
	return nil
}

func leadingNumber(s string) float64 {
	loc := numberRun.FindStringIndex(strings.TrimSpace(s))
	if loc == nil {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s)[loc[0]:loc[1]], 64)
	if err != nil {
		return 0
	}
	return v
}

// parseReply decodes the model output: first the whole text, then the span
// between the first '{' and the last '}'.
func parseReply(content string) (domintent.SearchIntent, error) {
	r, err := decodeReply(content)
	if err != nil {
		start := strings.Index(content, "{")
		end := strings.LastIndex(content, "}")
		if start < 0 || end <= start {
			return domintent.SearchIntent{}, errNoObject
		}
		if r, err = decodeReply(content[start : end+1]); err != nil {
			return domintent.SearchIntent{}, err
		}
	}

	var productType string
	if r.ProductType != nil {
		productType = *r.ProductType
	}
	var pr domintent.PriceRange
	if r.PriceRange != nil {
		pr = domintent.PriceRange{Min: float64(r.PriceRange.Min), Max: float64(r.PriceRange.Max)}
	}
	return domintent.New(productType, pr, r.Brands, r.Keywords, r.SortPreference), nil
}

func decodeReply(text string) (*reply, error) {
	var r *reply
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &r); err != nil {
		return nil, fmt.Errorf("decode reply: %w", err)
	}
	if r == nil {
		return nil, errNoObject
	}
	return r, nil
}
