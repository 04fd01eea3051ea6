package productsql

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/shopdex/internal/domain/search/filter"
	"github.com/kailas-cloud/shopdex/internal/domain/search/order"
)

// columns whitelists the filterable fields; values are SQL column names.
var columns = map[string]string{
	filter.FieldCategory:    "category",
	filter.FieldPrice:       "price",
	filter.FieldTags:        "tags",
	filter.FieldName:        "name",
	filter.FieldDescription: "description",
	"sku":                   "sku",
	"created_at":            "created_at",
}

var sortColumns = map[order.Field]string{
	order.Price:     "price",
	order.CreatedAt: "created_at",
	order.Name:      "name",
}

// buildWhere renders an AND of clauses as a parameterised WHERE body.
// An empty expression yields "1=1".
func buildWhere(expr filter.Expression) (string, []any, error) {
	conds := expr.Conditions()
	if len(conds) == 0 {
		return "1=1", nil, nil
	}
	parts := make([]string, 0, len(conds))
	var args []any
	for _, c := range conds {
		sqlPart, a, err := buildCondition(c)
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, sqlPart)
		args = append(args, a...)
	}
	return strings.Join(parts, " AND "), args, nil
}

func buildCondition(c filter.Condition) (string, []any, error) {
	switch c.Kind() {
	case filter.KindContains:
		col, err := column(c.Field())
		if err != nil {
			return "", nil, err
		}
		return containsSQL(col), []any{c.Value()}, nil

	case filter.KindTag:
		col, err := column(c.Field())
		if err != nil {
			return "", nil, err
		}
		return fmt.Sprintf("EXISTS (SELECT 1 FROM json_each(%s) WHERE lower(json_each.value) = lower(?))", col),
			[]any{c.Value()}, nil

	case filter.KindIn:
		col, err := column(c.Field())
		if err != nil {
			return "", nil, err
		}
		marks := make([]string, len(c.Values()))
		args := make([]any, len(c.Values()))
		for i, v := range c.Values() {
			marks[i] = "lower(?)"
			args[i] = v
		}
		return fmt.Sprintf("lower(%s) IN (%s)", col, strings.Join(marks, ", ")), args, nil

	case filter.KindRange:
		col, err := column(c.Field())
		if err != nil {
			return "", nil, err
		}
		r := c.Range()
		var parts []string
		var args []any
		if r.GTE() != nil {
			parts = append(parts, col+" >= ?")
			args = append(args, *r.GTE())
		}
		if r.LTE() != nil {
			parts = append(parts, col+" <= ?")
			args = append(args, *r.LTE())
		}
		if len(parts) == 0 {
			return "1=1", nil, nil
		}
		return strings.Join(parts, " AND "), args, nil

	case filter.KindAnyText:
		var parts []string
		var args []any
		for _, term := range c.Values() {
			for _, f := range c.Fields() {
				col, err := column(f)
				if err != nil {
					return "", nil, err
				}
				parts = append(parts, containsSQL(col))
				args = append(args, term)
			}
		}
		return "(" + strings.Join(parts, " OR ") + ")", args, nil

	default:
		return "", nil, fmt.Errorf("unsupported clause kind %d", c.Kind())
	}
}

func containsSQL(col string) string {
	return fmt.Sprintf("instr(lower(%s), lower(?)) > 0", col)
}

func column(field string) (string, error) {
	col, ok := columns[field]
	if !ok {
		return "", fmt.Errorf("unknown filter field %q", field)
	}
	return col, nil
}

// buildOrderBy renders ORDER BY with id as a stable tie-breaker.
func buildOrderBy(o order.Order) string {
	col, ok := sortColumns[o.Field]
	if !ok {
		col = "created_at"
	}
	dir := "ASC"
	if o.Descending() {
		dir = "DESC"
	}
	return fmt.Sprintf("%s %s, id %s", col, dir, dir)
}
