// Package strata provides the schema-definition surface of the Strata
// framework. Entity schemas embed strata.Schema and declare their fields,
// edges and indexes; the compiler/load package turns both code-defined
// schemas and XML mapping descriptors into a single loaded representation.
package strata

import (
	"github.com/strataorm/strata/schema"
	"github.com/strataorm/strata/schema/edge"
	"github.com/strataorm/strata/schema/field"
	"github.com/strataorm/strata/schema/index"
)

type (
	// The Interface type describes the requirements for an exported type defined
	// in the schema package. It functions as the interface between the user's
	// schema types and the loaded metadata used by binding and generation.
	Interface interface {
		// Type is a loadable type.
		Type()
		// Fields returns the fields of the schema.
		Fields() []Field
		// Edges returns the edges of the schema.
		Edges() []Edge
		// Indexes returns the indexes of the schema.
		Indexes() []Index
		// Mixin returns an optional list of Mixin to extend the schema.
		Mixin() []Mixin
		// Annotations returns a list of schema annotations to be used by
		// metadata extensions.
		Annotations() []schema.Annotation
	}

	// A Field interface returns a field descriptor for entity attributes.
	// The usage for the interface is as follows:
	//
	//	func (User) Fields() []strata.Field {
	//		return []strata.Field{
	//			field.Int("int"),
	//		}
	//	}
	Field interface {
		Descriptor() *field.Descriptor
	}

	// An Edge interface returns an edge descriptor for entity relationships.
	// The usage for the interface is as follows:
	//
	//	func (User) Edges() []strata.Edge {
	//		return []strata.Edge{
	//			edge.To("pets", Pet.Type),
	//		}
	//	}
	Edge interface {
		Descriptor() *edge.Descriptor
	}

	// An Index interface returns an index descriptor over a set of fields
	// and/or edges of an entity.
	Index interface {
		Descriptor() *index.Descriptor
	}

	// A Mixin defines a set of shared schema objects that can be
	// composed into other schemas.
	Mixin interface {
		Fields() []Field
		Edges() []Edge
		Indexes() []Index
		Annotations() []schema.Annotation
	}

	// Schema is the default implementation for the schema Interface.
	// It can be embedded in end-user schemas as follows:
	//
	//	type T struct {
	//		strata.Schema
	//	}
	Schema struct{}
)

// Fields of the schema.
func (Schema) Fields() []Field { return nil }

// Edges of the schema.
func (Schema) Edges() []Edge { return nil }

// Indexes of the schema.
func (Schema) Indexes() []Index { return nil }

// Mixin of the schema.
func (Schema) Mixin() []Mixin { return nil }

// Annotations of the schema.
func (Schema) Annotations() []schema.Annotation { return nil }

// Type implements the Interface interface.
func (Schema) Type() {}
