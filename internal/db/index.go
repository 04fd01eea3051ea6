package db

import (
	"fmt"
	"strconv"
	"strings"
)

// IndexFieldType enumerates the FT schema field kinds the catalog uses.
type IndexFieldType int

const (
	// IndexFieldNumeric supports range clauses and sorting.
	IndexFieldNumeric IndexFieldType = iota
	// IndexFieldTag supports exact, set and wildcard membership.
	IndexFieldTag
	// IndexFieldText supports tokenised and infix matching.
	IndexFieldText
)

var fieldTypeNames = map[IndexFieldType]string{
	IndexFieldNumeric: "NUMERIC",
	IndexFieldTag:     "TAG",
	IndexFieldText:    "TEXT",
}

func (t IndexFieldType) String() string {
	if n, ok := fieldTypeNames[t]; ok {
		return n
	}
	return "UNKNOWN(" + strconv.Itoa(int(t)) + ")"
}

// IndexField is one schema attribute of an FT index.
type IndexField struct {
	Name          string
	Type          IndexFieldType
	Sortable      bool
	Separator     string // TAG only
	CaseSensitive bool   // TAG only
}

// IndexDefinition describes an FT index over hashes.
type IndexDefinition struct {
	Name     string
	Prefixes []string
	Fields   []IndexField
}

// Validate checks names and rejects duplicate or unknown fields.
func (idx *IndexDefinition) Validate() error {
	if !IsValidIdentifier(idx.Name) {
		return fmt.Errorf("invalid index name %q", idx.Name)
	}
	if len(idx.Fields) == 0 {
		return fmt.Errorf("index %s: at least one field is required", idx.Name)
	}
	seen := make(map[string]struct{}, len(idx.Fields))
	for i, f := range idx.Fields {
		if f.Name == "" {
			return fmt.Errorf("index %s: field %d has no name", idx.Name, i)
		}
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("index %s: duplicate field %q", idx.Name, f.Name)
		}
		if _, ok := fieldTypeNames[f.Type]; !ok {
			return fmt.Errorf("index %s: field %q has unknown type %d", idx.Name, f.Name, f.Type)
		}
		seen[f.Name] = struct{}{}
	}
	return nil
}

// CreateArgs renders the FT.CREATE arguments (without the command name).
func (idx *IndexDefinition) CreateArgs() []string {
	args := []string{idx.Name, "ON", "HASH"}
	if len(idx.Prefixes) > 0 {
		args = append(args, "PREFIX", strconv.Itoa(len(idx.Prefixes)))
		args = append(args, idx.Prefixes...)
	}
	args = append(args, "SCHEMA")
	for _, f := range idx.Fields {
		args = append(args, f.Name, f.Type.String())
		if f.Type == IndexFieldTag {
			if f.Separator != "" {
				args = append(args, "SEPARATOR", f.Separator)
			}
			if f.CaseSensitive {
				args = append(args, "CASESENSITIVE")
			}
		}
		if f.Sortable {
			args = append(args, "SORTABLE")
		}
	}
	return args
}

// FieldTypes maps each schema field to its type, for query rendering.
func (idx *IndexDefinition) FieldTypes() map[string]IndexFieldType {
	m := make(map[string]IndexFieldType, len(idx.Fields))
	for _, f := range idx.Fields {
		m[f.Name] = f.Type
	}
	return m
}

// String renders the full FT.CREATE command for logs.
func (idx *IndexDefinition) String() string {
	return "FT.CREATE " + strings.Join(idx.CreateArgs(), " ")
}

// IsValidIdentifier reports whether s matches [a-zA-Z0-9_:-]+.
func IsValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	return strings.IndexFunc(s, func(r rune) bool {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return false
		case r == '_' || r == ':' || r == '-':
			return false
		}
		return true
	}) < 0
}
