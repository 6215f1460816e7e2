// Package edge provides builders for declaring relationships between
// entity schemas. Like fields, edges reduce to descriptors that the
// loader consumes; XML-declared relationships synthesize the exact
// same descriptors.
package edge

import "github.com/strataorm/strata/schema"

// A Descriptor for edge configuration.
type Descriptor struct {
	Tag         string                 // struct tag.
	Type        string                 // edge type (target entity name).
	Name        string                 // edge name.
	Field       string                 // edge field name (e.g. foreign-key).
	RefName     string                 // name of assoc edge on the inverse side.
	Ref         *Descriptor            // edge reference (inverse side).
	Through     *struct{ N, T string } // through type and name (M2M).
	Unique      bool                   // unique edge.
	Inverse     bool                   // inverse (owned-by) edge.
	Required    bool                   // required on creation.
	Immutable   bool                   // create-only edge.
	StorageKey  *StorageKey            // optional storage-key configuration.
	Annotations []schema.Annotation    // edge annotations.
	Comment     string                 // edge comment.
	Err         error                  // error captured during building.
}

// StorageKey holds the configuration for edge storage-key.
type StorageKey struct {
	Table   string   // Table or label.
	Symbols []string // Symbols/names of the foreign-key constraints.
	Columns []string // Foreign-key columns.
}

// StorageOption allows for setting the storage configuration of edges
// using functional options.
type StorageOption func(*StorageKey)

// Table sets the table name option for M2M edges.
func Table(name string) StorageOption {
	return func(key *StorageKey) {
		key.Table = name
	}
}

// Symbol sets the symbol/name of the foreign-key constraint for O2O, O2M and M2O edges.
func Symbol(symbol string) StorageOption {
	return func(key *StorageKey) {
		key.Symbols = []string{symbol}
	}
}

// Symbols sets the symbols/names of the foreign-key constraints for M2M edges.
func Symbols(to, from string) StorageOption {
	return func(key *StorageKey) {
		key.Symbols = []string{to, from}
	}
}

// Column sets the foreign-key column name option for O2O, O2M and M2O edges.
func Column(name string) StorageOption {
	return func(key *StorageKey) {
		key.Columns = []string{name}
	}
}

// Columns sets the foreign-key column names option for M2M edges.
func Columns(to, from string) StorageOption {
	return func(key *StorageKey) {
		key.Columns = []string{to, from}
	}
}

// To defines an association edge between two vertices.
func To(name string, t any) *assocBuilder {
	return &assocBuilder{desc: &Descriptor{Name: name, Type: typeName(t)}}
}

// From represents a reversed-edge between two vertices that has a back-reference to its source edge.
func From(name string, t any) *inverseBuilder {
	return &inverseBuilder{desc: &Descriptor{Name: name, Type: typeName(t), Inverse: true}}
}

// typeName extracts the entity name from the given type marker. The marker
// is either the schema's Type method value or the entity name itself.
func typeName(t any) string {
	if s, ok := t.(string); ok {
		return s
	}
	return nameOf(t)
}

// assocBuilder is the builder for assoc edges.
type assocBuilder struct {
	desc *Descriptor
}

// Unique sets the edge type to be unique. Basically, it limits the edge to be one of the two:
// one-to-one or many-to-one (in case the inverse side is also unique).
func (b *assocBuilder) Unique() *assocBuilder {
	b.desc.Unique = true
	return b
}

// Required indicates that this edge is a required edge on entity creation.
func (b *assocBuilder) Required() *assocBuilder {
	b.desc.Required = true
	return b
}

// Immutable indicates that this edge cannot be updated.
func (b *assocBuilder) Immutable() *assocBuilder {
	b.desc.Immutable = true
	return b
}

// StructTag sets the struct tag of the assoc edge.
func (b *assocBuilder) StructTag(s string) *assocBuilder {
	b.desc.Tag = s
	return b
}

// StorageKey sets the storage key of the edge.
//
//	edge.To("pets", Pet.Type).
//		StorageKey(edge.Column("owner_id"), edge.Symbol("pets_owner_id"))
func (b *assocBuilder) StorageKey(opts ...StorageOption) *assocBuilder {
	if b.desc.StorageKey == nil {
		b.desc.StorageKey = &StorageKey{}
	}
	for i := range opts {
		opts[i](b.desc.StorageKey)
	}
	return b
}

// Through allows setting an "edge schema" to interact explicitly with M2M edges.
func (b *assocBuilder) Through(name string, t any) *assocBuilder {
	b.desc.Through = &struct{ N, T string }{N: name, T: typeName(t)}
	return b
}

// Comment sets the comment of the assoc edge.
func (b *assocBuilder) Comment(c string) *assocBuilder {
	b.desc.Comment = c
	return b
}

// Annotations adds a list of annotations to the edge object to be used by
// metadata extensions.
func (b *assocBuilder) Annotations(annotations ...schema.Annotation) *assocBuilder {
	b.desc.Annotations = append(b.desc.Annotations, annotations...)
	return b
}

// From creates an inverse-edge with the same type.
func (b *assocBuilder) From(name string) *inverseBuilder {
	return &inverseBuilder{desc: &Descriptor{Name: name, Type: b.desc.Type, Inverse: true, Ref: b.desc}}
}

// Descriptor implements the strata.Edge interface by returning its descriptor.
func (b *assocBuilder) Descriptor() *Descriptor {
	return b.desc
}

// inverseBuilder is the builder for inverse edges.
type inverseBuilder struct {
	desc *Descriptor
}

// Ref sets the referenced-edge of this inverse edge.
func (b *inverseBuilder) Ref(ref string) *inverseBuilder {
	b.desc.RefName = ref
	return b
}

// Unique sets the edge type to be unique.
func (b *inverseBuilder) Unique() *inverseBuilder {
	b.desc.Unique = true
	return b
}

// Required indicates that this edge is a required edge on entity creation.
func (b *inverseBuilder) Required() *inverseBuilder {
	b.desc.Required = true
	return b
}

// Immutable indicates that this edge cannot be updated.
func (b *inverseBuilder) Immutable() *inverseBuilder {
	b.desc.Immutable = true
	return b
}

// Field sets the field of the inverse edge (the foreign-key holder).
func (b *inverseBuilder) Field(f string) *inverseBuilder {
	b.desc.Field = f
	return b
}

// StructTag sets the struct tag of the inverse edge.
func (b *inverseBuilder) StructTag(s string) *inverseBuilder {
	b.desc.Tag = s
	return b
}

// Comment sets the comment of the inverse edge.
func (b *inverseBuilder) Comment(c string) *inverseBuilder {
	b.desc.Comment = c
	return b
}

// Annotations adds a list of annotations to the edge object to be used by
// metadata extensions.
func (b *inverseBuilder) Annotations(annotations ...schema.Annotation) *inverseBuilder {
	b.desc.Annotations = append(b.desc.Annotations, annotations...)
	return b
}

// Descriptor implements the strata.Edge interface by returning its descriptor.
func (b *inverseBuilder) Descriptor() *Descriptor {
	return b.desc
}
