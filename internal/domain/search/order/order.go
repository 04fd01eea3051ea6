package order

import (
	"fmt"
	"strings"
)

// Field is a sortable catalog field.
type Field string

// Sortable fields.
const (
	Price     Field = "price"
	CreatedAt Field = "created_at"
	Name      Field = "name"
)

// Direction is the sort direction.
type Direction string

// Sort directions.
const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Order is a single sort key and direction.
type Order struct {
	Field     Field     `json:"field"`
	Direction Direction `json:"direction"`
}

// Newest is the default order: most recently created first.
var Newest = Order{Field: CreatedAt, Direction: Desc}

// IsValid reports whether f is a sortable field.
func (f Field) IsValid() bool {
	return f == Price || f == CreatedAt || f == Name
}

// IsValid reports whether d is a known direction.
func (d Direction) IsValid() bool { return d == Asc || d == Desc }

// Descending reports whether the order is descending.
func (o Order) Descending() bool { return o.Direction == Desc }

// String renders e.g. "price asc".
func (o Order) String() string { return string(o.Field) + " " + string(o.Direction) }

// Parse validates user-supplied field and direction names.
// Empty field defaults to created_at, empty direction to asc.
func Parse(field, direction string) (Order, error) {
	f := Field(strings.ToLower(strings.TrimSpace(field)))
	if f == "" {
		f = CreatedAt
	}
	if !f.IsValid() {
		return Order{}, fmt.Errorf("unsupported sort field %q", field)
	}
	d := Direction(strings.ToLower(strings.TrimSpace(direction)))
	if d == "" {
		d = Asc
	}
	if !d.IsValid() {
		return Order{}, fmt.Errorf("unsupported sort order %q", direction)
	}
	return Order{Field: f, Direction: d}, nil
}
