package db

// FieldOption tweaks one schema field.
type FieldOption func(*IndexField)

// Sortable marks the field SORTABLE.
func Sortable() FieldOption { return func(f *IndexField) { f.Sortable = true } }

// Separator sets the TAG separator.
func Separator(sep string) FieldOption { return func(f *IndexField) { f.Separator = sep } }

// CaseSensitive keeps TAG values case-sensitive.
func CaseSensitive() FieldOption { return func(f *IndexField) { f.CaseSensitive = true } }

// IndexBuilder assembles an IndexDefinition.
type IndexBuilder struct {
	def IndexDefinition
}

// NewIndex starts an index definition.
func NewIndex(name string) *IndexBuilder {
	return &IndexBuilder{def: IndexDefinition{Name: name}}
}

// Prefix adds key prefixes covered by the index.
func (b *IndexBuilder) Prefix(prefixes ...string) *IndexBuilder {
	b.def.Prefixes = append(b.def.Prefixes, prefixes...)
	return b
}

// Text adds a TEXT field.
func (b *IndexBuilder) Text(name string, opts ...FieldOption) *IndexBuilder {
	return b.field(name, IndexFieldText, opts)
}

// Tag adds a TAG field.
func (b *IndexBuilder) Tag(name string, opts ...FieldOption) *IndexBuilder {
	return b.field(name, IndexFieldTag, opts)
}

// Numeric adds a NUMERIC field.
func (b *IndexBuilder) Numeric(name string, opts ...FieldOption) *IndexBuilder {
	return b.field(name, IndexFieldNumeric, opts)
}

func (b *IndexBuilder) field(name string, t IndexFieldType, opts []FieldOption) *IndexBuilder {
	f := IndexField{Name: name, Type: t}
	for _, o := range opts {
		o(&f)
	}
	b.def.Fields = append(b.def.Fields, f)
	return b
}

// Build validates and returns the definition.
func (b *IndexBuilder) Build() (*IndexDefinition, error) {
	if err := b.def.Validate(); err != nil {
		return nil, err
	}
	def := b.def
	return &def, nil
}

// MustBuild is Build for static definitions; it panics on error.
func (b *IndexBuilder) MustBuild() *IndexDefinition {
	def, err := b.Build()
	if err != nil {
		panic(err)
	}
	return def
}
