package chi

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/kailas-cloud/shopdex/internal/domain"
)

const productCreateSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "required": ["name", "price", "category", "sku"],
  "properties": {
    "name":        {"type": "string", "minLength": 1, "maxLength": 255},
    "description": {"type": "string"},
    "price":       {"type": "number", "minimum": 0},
    "currency":    {"type": "string", "minLength": 3, "maxLength": 3},
    "category":    {"type": "string", "minLength": 1, "maxLength": 100},
    "stock":       {"type": "integer", "minimum": 0},
    "image_url":   {"type": "string", "maxLength": 512},
    "sku":         {"type": "string", "minLength": 1, "maxLength": 50},
    "tags":        {"type": "array", "items": {"type": "string"}},
    "attributes":  {"type": "object"}
  }
}`

const productUpdateSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "minProperties": 1,
  "properties": {
    "name":        {"type": "string", "minLength": 1, "maxLength": 255},
    "description": {"type": "string"},
    "price":       {"type": "number", "minimum": 0},
    "currency":    {"type": "string", "minLength": 3, "maxLength": 3},
    "category":    {"type": "string", "minLength": 1, "maxLength": 100},
    "stock":       {"type": "integer", "minimum": 0},
    "image_url":   {"type": "string", "maxLength": 512},
    "sku":         {"type": "string", "minLength": 1, "maxLength": 50},
    "tags":        {"type": "array", "items": {"type": "string"}},
    "attributes":  {"type": "object"}
  }
}`

// productSchemas holds the compiled payload schemas.
type productSchemas struct {
	create *gojsonschema.Schema
	update *gojsonschema.Schema
}

func mustLoadProductSchemas() *productSchemas {
	create, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(productCreateSchema))
	if err != nil {
		panic(fmt.Sprintf("compile create schema: %v", err))
	}
	update, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(productUpdateSchema))
	if err != nil {
		panic(fmt.Sprintf("compile update schema: %v", err))
	}
	return &productSchemas{create: create, update: update}
}

// validate checks body against schema. Schema violations surface as a
// ValidationError naming the first offending field.
func validate(schema *gojsonschema.Schema, body []byte) error {
	res, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("%w: malformed JSON body", domain.ErrInvalidRequest)
	}
	if res.Valid() {
		return nil
	}
	first := res.Errors()[0]
	field := first.Field()
	if field == "(root)" {
		field = "body"
	}
	reasons := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		reasons = append(reasons, e.String())
	}
	return domain.NewValidationError(field, strings.Join(reasons, "; "))
}
