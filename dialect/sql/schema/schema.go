// Package schema contains the relational metamodel of Strata: tables,
// columns, indexes and foreign-key constraints, together with the
// dialect-specific DDL assembly used by the schema exporter.
//
// The objects in this package are constructed during schema binding,
// mutated as the mapping source (code or XML) is processed, consumed at
// DDL-generation time, and then discarded.
package schema

import (
	"fmt"

	"github.com/strataorm/strata/schema/field"
)

// Table schema definition for SQL dialects.
type Table struct {
	Name        string
	Schema      string
	Columns     []*Column
	columns     map[string]*Column
	Indexes     []*Index
	PrimaryKey  []*Column
	ForeignKeys []*ForeignKey
	Comment     string
}

// NewTable returns a new table with the given name.
func NewTable(name string) *Table {
	return &Table{
		Name:    name,
		columns: make(map[string]*Column),
	}
}

// SetSchema sets the database/schema name of the table.
func (t *Table) SetSchema(name string) *Table {
	t.Schema = name
	return t
}

// SetComment sets the table comment.
func (t *Table) SetComment(c string) *Table {
	t.Comment = c
	return t
}

// AddPrimary adds a new primary-key column to the table.
func (t *Table) AddPrimary(c *Column) *Table {
	c.Key = PrimaryKey
	t.AddColumn(c)
	t.PrimaryKey = append(t.PrimaryKey, c)
	return t
}

// AddForeignKey adds a foreign-key to the table.
func (t *Table) AddForeignKey(fk *ForeignKey) *Table {
	fk.Table = t
	t.ForeignKeys = append(t.ForeignKeys, fk)
	return t
}

// AddColumn adds a new column to the table.
func (t *Table) AddColumn(c *Column) *Table {
	if t.columns == nil {
		t.columns = make(map[string]*Column)
	}
	t.columns[c.Name] = c
	t.Columns = append(t.Columns, c)
	return t
}

// AddIndex creates and adds a new index to the table from the given options.
func (t *Table) AddIndex(name string, unique bool, columns []string) *Table {
	idx := &Index{
		Name:    name,
		Unique:  unique,
		columns: columns,
		Columns: make([]*Column, 0, len(columns)),
	}
	for _, name := range columns {
		if c, ok := t.column(name); ok {
			idx.Columns = append(idx.Columns, c)
		}
	}
	t.Indexes = append(t.Indexes, idx)
	return t
}

// Column returns the column with the given name, and a boolean
// reporting whether it exists in the table.
func (t *Table) Column(name string) (*Column, bool) {
	return t.column(name)
}

// HasColumn reports if the table contains a column with the given name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.column(name)
	return ok
}

func (t *Table) column(name string) (*Column, bool) {
	if t.columns != nil {
		c, ok := t.columns[name]
		return c, ok
	}
	// Tables created with a struct literal have no column cache.
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// QualifiedName returns the table name qualified with its schema name,
// quoted for the given dialect.
func (t *Table) QualifiedName(dialect string) string {
	name := quote(dialect, t.Name)
	if t.Schema != "" {
		name = quote(dialect, t.Schema) + "." + name
	}
	return name
}

// PrimaryColumns returns the primary-key columns of the table. For tables
// built with struct literals, columns flagged with Key = PrimaryKey are
// collected as a fallback.
func (t *Table) PrimaryColumns() []*Column {
	if len(t.PrimaryKey) > 0 {
		return t.PrimaryKey
	}
	var pks []*Column
	for _, c := range t.Columns {
		if c.Key == PrimaryKey {
			pks = append(pks, c)
		}
	}
	return pks
}

// Column types used by the migration and export layer.
const (
	// PrimaryKey marks a column as part of the table primary key.
	PrimaryKey = "PRI"
	// UniqueKey marks a column as part of a unique key.
	UniqueKey = "UNI"
)

// Column schema definition for SQL dialects.
type Column struct {
	Name       string            // column name.
	Type       field.Type        // column type.
	SchemaType map[string]string // optional per-dialect type override.
	Unique     bool              // unique constraint on the column.
	Increment  bool              // auto-increment behavior.
	Nullable   bool              // null/not-null attribute.
	Size       int64             // max size for string/varchar columns.
	Key        string            // key type (primary/unique).
	Enums      []string          // enum values for enum columns.
	Default    any               // default value literal.
	Collation  string            // collation for string columns.
	Comment    string            // column comment.
}

// UniqueKey reports if the column is a unique key.
func (c *Column) UniqueKey() bool { return c.Key == UniqueKey }

// PrimaryKey reports if the column is a primary key.
func (c *Column) PrimaryKey() bool { return c.Key == PrimaryKey }

// LoggableName returns a human-readable identifier for error messages.
func (c *Column) LoggableName() string {
	if c == nil {
		return "<nil>"
	}
	return c.Name
}

// Index definition for table indexes.
type Index struct {
	Name    string    // index name.
	Unique  bool      // uniqueness.
	Columns []*Column // actual table columns.
	columns []string  // columns loaded from specs.
}

// ColumnNames returns the names of the index columns.
func (i *Index) ColumnNames() []string {
	if len(i.columns) > 0 {
		return i.columns
	}
	names := make([]string, 0, len(i.Columns))
	for _, c := range i.Columns {
		names = append(names, c.Name)
	}
	return names
}

// ReferenceOption for constraint actions.
type ReferenceOption string

// Reference options (actions) specified by ON UPDATE and ON DELETE
// subclauses of the FOREIGN KEY clause.
const (
	NoAction   ReferenceOption = "NO ACTION"
	Restrict   ReferenceOption = "RESTRICT"
	Cascade    ReferenceOption = "CASCADE"
	SetNull    ReferenceOption = "SET NULL"
	SetDefault ReferenceOption = "SET DEFAULT"
)

// ConstName returns the constant name of a reference option, usable as a
// Go identifier by the descriptor generator.
func (r ReferenceOption) ConstName() string {
	switch r {
	case NoAction:
		return "NoAction"
	case Restrict:
		return "Restrict"
	case Cascade:
		return "Cascade"
	case SetNull:
		return "SetNull"
	case SetDefault:
		return "SetDefault"
	default:
		return fmt.Sprintf("ReferenceOption(%q)", string(r))
	}
}

// Valid reports whether the reference option is one of the known actions.
// The empty option is valid and means "unset" (NO ACTION semantics).
func (r ReferenceOption) Valid() bool {
	switch r {
	case "", NoAction, Restrict, Cascade, SetNull, SetDefault:
		return true
	default:
		return false
	}
}
