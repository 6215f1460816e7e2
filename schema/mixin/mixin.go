// Package mixin provides the base mixin implementation for strata
// schemas, plus a few ready-to-use mixins for common patterns.
//
// A mixin is a reusable set of fields, edges, indexes and annotations
// that can be composed into multiple schema definitions:
//
//	func (User) Mixin() []strata.Mixin {
//	    return []strata.Mixin{
//	        mixin.Time{},
//	        mixin.SoftDelete{},
//	    }
//	}
package mixin

import (
	"time"

	"github.com/google/uuid"

	"github.com/strataorm/strata"
	"github.com/strataorm/strata/schema"
	"github.com/strataorm/strata/schema/field"
)

// Schema is the default implementation for the strata.Mixin interface.
// Embed it in custom mixin definitions and override the methods needed:
//
//	type AuditMixin struct {
//	    mixin.Schema
//	}
//
//	func (AuditMixin) Fields() []strata.Field {
//	    return []strata.Field{
//	        field.String("created_by").Optional(),
//	    }
//	}
type Schema struct{}

// Fields returns the fields of the mixin.
func (Schema) Fields() []strata.Field { return nil }

// Edges returns the edges of the mixin.
func (Schema) Edges() []strata.Edge { return nil }

// Indexes returns the indexes of the mixin.
func (Schema) Indexes() []strata.Index { return nil }

// Annotations returns the annotations of the mixin.
func (Schema) Annotations() []schema.Annotation { return nil }

var _ strata.Mixin = (*Schema)(nil)

// CreateTime adds an immutable created_at field defaulting to time.Now.
type CreateTime struct{ Schema }

// Fields of the create time mixin.
func (CreateTime) Fields() []strata.Field {
	return []strata.Field{
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

// UpdateTime adds an updated_at field refreshed on every mutation.
type UpdateTime struct{ Schema }

// Fields of the update time mixin.
func (UpdateTime) Fields() []strata.Field {
	return []strata.Field{
		field.Time("updated_at").
			Default(time.Now).
			UpdateDefault(time.Now),
	}
}

// Time composes CreateTime and UpdateTime. This is the most common
// mixin for tracking entity timestamps.
type Time struct{ Schema }

// Fields of the time mixin.
func (Time) Fields() []strata.Field {
	return append(
		CreateTime{}.Fields(),
		UpdateTime{}.Fields()...,
	)
}

// ID adds a UUID primary key field with auto-generation.
type ID struct{ Schema }

// Fields of the ID mixin.
func (ID) Fields() []strata.Field {
	return []strata.Field{
		field.UUID("id", uuid.UUID{}).
			Default(uuid.New).
			Unique().
			Immutable(),
	}
}

// SoftDelete adds a nullable deleted_at field. Entities are not
// physically deleted but marked with a deletion timestamp.
type SoftDelete struct{ Schema }

// Fields of the soft delete mixin.
func (SoftDelete) Fields() []strata.Field {
	return []strata.Field{
		field.Time("deleted_at").
			Optional().
			Nillable(),
	}
}

// TenantID adds an immutable tenant_id field for row-level tenant
// isolation in multi-tenant applications.
type TenantID struct{ Schema }

// Fields of the tenant id mixin.
func (TenantID) Fields() []strata.Field {
	return []strata.Field{
		field.String("tenant_id").
			Immutable().
			NotEmpty(),
	}
}
