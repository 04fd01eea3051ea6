package filter

import (
	"fmt"
	"strings"
)

// MaxConditions is the maximum number of clauses in one expression.
const MaxConditions = 32

// Catalog field names addressable by clauses.
const (
	FieldCategory    = "category"
	FieldPrice       = "price"
	FieldTags        = "tags"
	FieldName        = "name"
	FieldDescription = "description"
)

// Kind enumerates the clause shapes a catalog store must support.
type Kind int

const (
	// KindContains is a case-insensitive substring match on one text field.
	KindContains Kind = iota
	// KindRange is a numeric bound on one field.
	KindRange
	// KindTag requires the tag collection to contain a value (case-insensitive).
	KindTag
	// KindAnyText is an OR of substring matches of any term over any field.
	KindAnyText
	// KindIn is a case-insensitive exact match against any of several values.
	KindIn
)

// Expression is an AND of conditions. The zero value means "no constraint".
type Expression struct {
	conditions []Condition
}

// NewExpression validates and creates an Expression.
func NewExpression(conditions ...Condition) (Expression, error) {
	if len(conditions) > MaxConditions {
		return Expression{}, fmt.Errorf("too many filter conditions (max %d)", MaxConditions)
	}
	return Expression{conditions: conditions}, nil
}

// Conditions returns the AND-combined clauses.
func (e Expression) Conditions() []Condition { return e.conditions }

// IsEmpty reports whether the expression has no conditions.
func (e Expression) IsEmpty() bool { return len(e.conditions) == 0 }

// String renders a store-neutral debug form, e.g. `category~"手机" AND price<=300`.
func (e Expression) String() string {
	if e.IsEmpty() {
		return "*"
	}
	parts := make([]string, len(e.conditions))
	for i, c := range e.conditions {
		parts[i] = c.String()
	}
	return strings.Join(parts, " AND ")
}

// Condition is a single filter clause.
type Condition struct {
	kind     Kind
	field    string
	value    string
	values   []string
	fields   []string
	rangeVal *Range
}

// NewContains creates a case-insensitive substring clause.
func NewContains(field, value string) (Condition, error) {
	if field == "" {
		return Condition{}, fmt.Errorf("filter field is required")
	}
	if strings.TrimSpace(value) == "" {
		return Condition{}, fmt.Errorf("contains value is required for field %q", field)
	}
	return Condition{kind: KindContains, field: field, value: value}, nil
}

// NewRange creates a numeric range clause.
func NewRange(field string, r Range) (Condition, error) {
	if field == "" {
		return Condition{}, fmt.Errorf("filter field is required")
	}
	return Condition{kind: KindRange, field: field, rangeVal: &r}, nil
}

// NewTag creates a tag membership clause.
func NewTag(field, value string) (Condition, error) {
	if field == "" {
		return Condition{}, fmt.Errorf("filter field is required")
	}
	if strings.TrimSpace(value) == "" {
		return Condition{}, fmt.Errorf("tag value is required for field %q", field)
	}
	return Condition{kind: KindTag, field: field, value: value}, nil
}

// NewAnyText creates one clause matching when any term occurs in any of the fields.
func NewAnyText(fields, terms []string) (Condition, error) {
	if len(fields) == 0 {
		return Condition{}, fmt.Errorf("at least one text field is required")
	}
	kept := nonBlank(terms)
	if len(kept) == 0 {
		return Condition{}, fmt.Errorf("at least one search term is required")
	}
	return Condition{kind: KindAnyText, fields: fields, values: kept}, nil
}

// NewIn creates a clause matching any of the values exactly (case-insensitive).
func NewIn(field string, values []string) (Condition, error) {
	if field == "" {
		return Condition{}, fmt.Errorf("filter field is required")
	}
	kept := nonBlank(values)
	if len(kept) == 0 {
		return Condition{}, fmt.Errorf("at least one value is required for field %q", field)
	}
	return Condition{kind: KindIn, field: field, values: kept}, nil
}

// Kind returns the clause shape.
func (c Condition) Kind() Kind { return c.kind }

// Field returns the single target field (empty for KindAnyText).
func (c Condition) Field() string { return c.field }

// Value returns the operand of KindContains and KindTag clauses.
func (c Condition) Value() string { return c.value }

// Values returns the operands of KindAnyText (terms) and KindIn clauses.
func (c Condition) Values() []string { return c.values }

// Fields returns the target fields of a KindAnyText clause.
func (c Condition) Fields() []string { return c.fields }

// Range returns the bounds of a KindRange clause.
func (c Condition) Range() *Range { return c.rangeVal }

// String renders a debug form of the clause.
func (c Condition) String() string {
	switch c.kind {
	case KindContains:
		return fmt.Sprintf("%s~%q", c.field, c.value)
	case KindTag:
		return fmt.Sprintf("%s has %q", c.field, c.value)
	case KindRange:
		return c.rangeVal.describe(c.field)
	case KindAnyText:
		return fmt.Sprintf("(%s)~any%q", strings.Join(c.fields, "|"), c.values)
	case KindIn:
		return fmt.Sprintf("%s in %q", c.field, c.values)
	default:
		return "?"
	}
}

// Range is an inclusive numeric range; nil bounds are open.
type Range struct {
	gte *float64
	lte *float64
}

// NewRangeFilter validates and creates a Range. At least one bound is required.
func NewRangeFilter(gte, lte *float64) (Range, error) {
	if gte == nil && lte == nil {
		return Range{}, fmt.Errorf("at least one range boundary is required")
	}
	return Range{gte: gte, lte: lte}, nil
}

// AtLeast is a Range with only a lower bound.
func AtLeast(v float64) Range { return Range{gte: &v} }

// AtMost is a Range with only an upper bound.
func AtMost(v float64) Range { return Range{lte: &v} }

// GTE returns the inclusive lower bound.
func (r Range) GTE() *float64 { return r.gte }

// LTE returns the inclusive upper bound.
func (r Range) LTE() *float64 { return r.lte }

func (r Range) describe(field string) string {
	switch {
	case r.gte != nil && r.lte != nil:
		return fmt.Sprintf("%g<=%s<=%g", *r.gte, field, *r.lte)
	case r.gte != nil:
		return fmt.Sprintf("%s>=%g", field, *r.gte)
	case r.lte != nil:
		return fmt.Sprintf("%s<=%g", field, *r.lte)
	default:
		return field + " any"
	}
}

func nonBlank(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
