// Package sqlschema provides SQL-specific annotations for Strata schemas.
//
// Annotations refine how a field, edge or index is rendered in the
// relational model. They can be built with functional constructors:
//
//	sqlschema.Size(10)
//	sqlschema.ColumnType("JSONB")
//	sqlschema.OnDelete(sqlschema.Cascade)
//
// or with struct literals for more involved configurations:
//
//	sqlschema.Annotation{
//	    Size:     10,
//	    OnDelete: sqlschema.Cascade,
//	}
//
// Edge annotations drive the foreign-key constraints of the exported
// schema. For example:
//
//	edge.To("pets", Pet.Type).
//	    Annotations(sqlschema.OnDelete(sqlschema.Cascade))
package sqlschema

import (
	"github.com/strataorm/strata/schema"
)

// AnnotationName is the name used for SQL annotations.
const AnnotationName = "sql"

// CascadeAction defines the referential action of a foreign-key constraint.
type CascadeAction string

const (
	Cascade    CascadeAction = "CASCADE"
	SetNull    CascadeAction = "SET NULL"
	Restrict   CascadeAction = "RESTRICT"
	SetDefault CascadeAction = "SET DEFAULT"
	NoAction   CascadeAction = "NO ACTION"
)

// Annotation holds SQL-specific settings for entities, fields and edges.
type Annotation struct {
	// Table overrides the database table name of an entity.
	Table string

	// Schema sets the database schema the entity table lives in.
	Schema string

	// Skip excludes the field or entity from SQL generation.
	Skip bool

	// Size overrides the column size (e.g. VARCHAR(Size)).
	Size int64

	// ColumnType sets a custom database column type.
	ColumnType string

	// Collation sets the collation of string columns.
	Collation string

	// Charset sets the character set of string columns.
	Charset string

	// Check adds a CHECK constraint expression to the column.
	Check string

	// Checks holds named CHECK constraints, keyed by constraint name.
	Checks map[string]string

	// Symbol overrides the generated foreign-key constraint name of
	// an edge.
	Symbol string

	// OnDelete sets the ON DELETE referential action of an edge.
	OnDelete CascadeAction

	// OnUpdate sets the ON UPDATE referential action of an edge.
	OnUpdate CascadeAction

	// Default is a SQL literal used as the column default.
	Default string

	// DefaultExpr is a SQL expression used as the column default.
	DefaultExpr string

	// Incremental overrides the auto-increment behavior of the column.
	Incremental *bool

	// IncrementStart sets the auto-increment start value.
	IncrementStart *int

	// IndexType sets the index access method (BTREE, HASH, GIN).
	IndexType string

	// StorageParams sets index storage parameters (e.g. "fillfactor=90").
	StorageParams string
}

// Name implements schema.Annotation.
func (Annotation) Name() string {
	return AnnotationName
}

var (
	_ schema.Annotation = (*Annotation)(nil)
	_ schema.Merger     = (*Annotation)(nil)
)

// Table sets the database table name of an entity.
//
//	func (User) Annotations() []schema.Annotation {
//	    return []schema.Annotation{
//	        sqlschema.Table("app_users"),
//	    }
//	}
func Table(name string) Annotation {
	return Annotation{Table: name}
}

// Schema sets the database schema of an entity table.
func Schema(name string) Annotation {
	return Annotation{Schema: name}
}

// Skip excludes the annotated field or entity from SQL generation.
func Skip() Annotation {
	return Annotation{Skip: true}
}

// Size sets the column size override.
//
//	field.String("code").
//	    Annotations(sqlschema.Size(10))
func Size(size int64) Annotation {
	return Annotation{Size: size}
}

// ColumnType sets a custom database column type.
//
//	field.String("data").
//	    Annotations(sqlschema.ColumnType("JSONB"))
func ColumnType(typ string) Annotation {
	return Annotation{ColumnType: typ}
}

// Collation sets the collation of a string column.
func Collation(c string) Annotation {
	return Annotation{Collation: c}
}

// Charset sets the character set of a string column.
func Charset(c string) Annotation {
	return Annotation{Charset: c}
}

// Check adds a CHECK constraint to the column.
//
//	field.Int("age").
//	    Annotations(sqlschema.Check("age >= 0"))
func Check(expr string) Annotation {
	return Annotation{Check: expr}
}

// Checks adds named CHECK constraints to the entity table.
func Checks(checks map[string]string) Annotation {
	return Annotation{Checks: checks}
}

// Symbol overrides the generated foreign-key constraint name of an edge.
//
//	edge.From("owner", User.Type).
//	    Ref("pets").
//	    Annotations(sqlschema.Symbol("pets_owner_fkey"))
func Symbol(name string) Annotation {
	return Annotation{Symbol: name}
}

// OnDelete sets the ON DELETE referential action of an edge.
//
//	edge.To("pets", Pet.Type).
//	    Annotations(sqlschema.OnDelete(sqlschema.Cascade))
func OnDelete(action CascadeAction) Annotation {
	return Annotation{OnDelete: action}
}

// OnUpdate sets the ON UPDATE referential action of an edge.
func OnUpdate(action CascadeAction) Annotation {
	return Annotation{OnUpdate: action}
}

// Default sets a SQL literal as the column default. The value is used
// as-is in the DEFAULT clause.
//
//	field.Time("created_at").
//	    Annotations(sqlschema.Default("CURRENT_TIMESTAMP"))
func Default(value string) Annotation {
	return Annotation{Default: value}
}

// DefaultExpr sets a SQL expression as the column default.
//
//	field.UUID("id", uuid.UUID{}).
//	    Annotations(sqlschema.DefaultExpr("gen_random_uuid()"))
func DefaultExpr(expr string) Annotation {
	return Annotation{DefaultExpr: expr}
}

// IncrementStart sets the auto-increment start value of the id column.
func IncrementStart(start int) Annotation {
	return Annotation{IncrementStart: &start}
}

// IndexType sets the index access method.
//
//	index.Fields("tags").Annotations(sqlschema.IndexType("GIN"))
func IndexType(typ string) Annotation {
	return Annotation{IndexType: typ}
}

// StorageParams sets index storage parameters.
func StorageParams(params string) Annotation {
	return Annotation{StorageParams: params}
}

// Getters used by the descriptor generator and the XML mocker.

// GetTable returns the table name and whether it was set.
func (a Annotation) GetTable() (string, bool) {
	return a.Table, a.Table != ""
}

// GetSize returns the size override and whether it was set.
func (a Annotation) GetSize() (int64, bool) {
	return a.Size, a.Size != 0
}

// GetSymbol returns the constraint name override and whether it was set.
func (a Annotation) GetSymbol() (string, bool) {
	return a.Symbol, a.Symbol != ""
}

// GetOnDelete returns the ON DELETE action and whether it was set.
func (a Annotation) GetOnDelete() (CascadeAction, bool) {
	return a.OnDelete, a.OnDelete != ""
}

// GetOnUpdate returns the ON UPDATE action and whether it was set.
func (a Annotation) GetOnUpdate() (CascadeAction, bool) {
	return a.OnUpdate, a.OnUpdate != ""
}

// GetDefault returns the SQL default literal and whether it was set.
func (a Annotation) GetDefault() (string, bool) {
	return a.Default, a.Default != ""
}

// GetDefaultExpr returns the SQL default expression and whether it was set.
func (a Annotation) GetDefaultExpr() (string, bool) {
	return a.DefaultExpr, a.DefaultExpr != ""
}

// GetIncremental returns the auto-increment override and whether it was set.
func (a Annotation) GetIncremental() (bool, bool) {
	if a.Incremental == nil {
		return false, false
	}
	return *a.Incremental, true
}

// Merge implements schema.Merger. Non-zero settings of the other
// annotation override the receiver's.
func (a Annotation) Merge(other schema.Annotation) schema.Annotation {
	o, ok := other.(Annotation)
	if !ok {
		if p, ok := other.(*Annotation); ok {
			o = *p
		} else {
			return a
		}
	}
	return merge(a, o)
}

// MergeAll combines multiple SQL annotations into one. Later annotations
// override earlier ones.
func MergeAll(annotations ...Annotation) Annotation {
	var result Annotation
	for _, a := range annotations {
		result = merge(result, a)
	}
	return result
}

func merge(a, o Annotation) Annotation {
	if o.Table != "" {
		a.Table = o.Table
	}
	if o.Schema != "" {
		a.Schema = o.Schema
	}
	if o.Skip {
		a.Skip = true
	}
	if o.Size != 0 {
		a.Size = o.Size
	}
	if o.ColumnType != "" {
		a.ColumnType = o.ColumnType
	}
	if o.Collation != "" {
		a.Collation = o.Collation
	}
	if o.Charset != "" {
		a.Charset = o.Charset
	}
	if o.Check != "" {
		a.Check = o.Check
	}
	if len(o.Checks) > 0 {
		if a.Checks == nil {
			a.Checks = make(map[string]string, len(o.Checks))
		}
		for name, expr := range o.Checks {
			a.Checks[name] = expr
		}
	}
	if o.Symbol != "" {
		a.Symbol = o.Symbol
	}
	if o.OnDelete != "" {
		a.OnDelete = o.OnDelete
	}
	if o.OnUpdate != "" {
		a.OnUpdate = o.OnUpdate
	}
	if o.Default != "" {
		a.Default = o.Default
	}
	if o.DefaultExpr != "" {
		a.DefaultExpr = o.DefaultExpr
	}
	if o.Incremental != nil {
		a.Incremental = o.Incremental
	}
	if o.IncrementStart != nil {
		a.IncrementStart = o.IncrementStart
	}
	if o.IndexType != "" {
		a.IndexType = o.IndexType
	}
	if o.StorageParams != "" {
		a.StorageParams = o.StorageParams
	}
	return a
}
