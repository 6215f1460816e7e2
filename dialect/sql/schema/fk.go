package schema

import (
	"fmt"
	"strings"

	"github.com/strataorm/strata"
)

// ForeignKey models a named foreign-key constraint between two tables:
// an ordered list of source columns referencing an ordered list of target
// columns, together with the delete and update referential actions.
//
// When no reference columns are set, the constraint implicitly references
// the primary key of the referenced table. A fully resolved constraint
// always has source and reference column lists of equal length.
type ForeignKey struct {
	Symbol     string          // foreign-key name.
	Table      *Table          // table that owns the constraint.
	Columns    []*Column       // source columns, in insertion order.
	RefTable   *Table          // referenced table.
	RefColumns []*Column       // referenced columns; nil implies the primary key.
	OnUpdate   ReferenceOption // action on update.
	OnDelete   ReferenceOption // action on delete.
}

// NewForeignKey creates a named foreign key from the source table to the
// target table. Column pairs are added with AddColumnMapping as the mapping
// source is processed.
func NewForeignKey(symbol string, source, target *Table) (*ForeignKey, error) {
	if target == nil {
		return nil, strata.NewMappingErrorf("foreign key %q: target table must be non-nil", symbol)
	}
	fk := &ForeignKey{Symbol: symbol, RefTable: target}
	if source != nil {
		source.AddForeignKey(fk)
	}
	return fk, nil
}

// AddColumnMapping appends a source column and its referenced target column
// to the constraint. A nil target means the constraint keeps referencing the
// target table's primary key. A target column that does not exist in the
// referenced table is an immediate mapping error, signaling malformed schema
// metadata.
func (fk *ForeignKey) AddColumnMapping(source, target *Column) error {
	if source == nil {
		return strata.NewMappingErrorf("foreign key %q: source column must be non-nil", fk.Symbol)
	}
	if target != nil {
		if fk.RefTable == nil || !fk.RefTable.HasColumn(target.Name) {
			return strata.NewMappingErrorf(
				"unable to add column to constraint %q: target column %q is not in target table %q",
				fk.Symbol, target.LoggableName(), fk.refTableName(),
			)
		}
		fk.RefColumns = append(fk.RefColumns, target)
	}
	fk.Columns = append(fk.Columns, source)
	return nil
}

// ReferencedColumns returns the target columns of the constraint. When no
// reference columns were set explicitly, the primary-key columns of the
// referenced table are implied.
func (fk *ForeignKey) ReferencedColumns() []*Column {
	if fk.RefColumns != nil {
		return fk.RefColumns
	}
	if fk.RefTable == nil {
		return nil
	}
	return fk.RefTable.PrimaryColumns()
}

// ReferencesPrimaryKey reports whether the constraint references the primary
// key of the target table, either implicitly (no reference columns set) or
// because the reference columns equal the primary-key columns.
func (fk *ForeignKey) ReferencesPrimaryKey() bool {
	if fk.RefColumns == nil {
		return true
	}
	if fk.RefTable == nil {
		return false
	}
	pk := fk.RefTable.PrimaryColumns()
	if len(fk.RefColumns) != len(pk) {
		return false
	}
	for i := range pk {
		if fk.RefColumns[i].Name != pk[i].Name {
			return false
		}
	}
	return true
}

// ColumnMapping is a single source-to-target column pairing of a
// foreign-key constraint.
type ColumnMapping struct {
	Column    *Column // source column.
	RefColumn *Column // referenced column.
}

// ColumnMappings returns the resolved column pairings of the constraint in
// insertion order. A mismatch between the source and target column counts
// is a mapping error.
func (fk *ForeignKey) ColumnMappings() ([]ColumnMapping, error) {
	refs := fk.ReferencedColumns()
	switch {
	case len(fk.Columns) > len(refs):
		return nil, strata.NewMappingErrorf(
			"foreign key %q: more constraint columns than foreign key target columns", fk.Symbol,
		)
	case len(fk.Columns) < len(refs):
		return nil, strata.NewMappingErrorf(
			"foreign key %q: more foreign key target columns than constraint columns", fk.Symbol,
		)
	}
	mappings := make([]ColumnMapping, len(fk.Columns))
	for i := range fk.Columns {
		mappings[i] = ColumnMapping{Column: fk.Columns[i], RefColumn: refs[i]}
	}
	return mappings, nil
}

// ConstraintString returns the "ADD CONSTRAINT ... FOREIGN KEY ... REFERENCES"
// fragment used inside an ALTER TABLE statement for the given dialect.
// The reference column list is omitted for constraints that reference the
// target primary key, unless the dialect requires it. Referential actions
// are only emitted when the dialect supports cascading actions.
func (fk *ForeignKey) ConstraintString(dialect string) (string, error) {
	ft := features(dialect)
	if !ft.addConstraint {
		return "", strata.NewMappingErrorf("dialect %q does not support adding foreign-key constraints to existing tables", dialect)
	}
	mappings, err := fk.ColumnMappings()
	if err != nil {
		return "", err
	}
	if len(mappings) == 0 {
		return "", strata.NewMappingErrorf("foreign key %q has no columns", fk.Symbol)
	}
	var (
		b        strings.Builder
		columns  = make([]string, len(mappings))
		refcols  = make([]string, len(mappings))
		refsPK   = fk.ReferencesPrimaryKey()
		refTable = fk.RefTable.QualifiedName(dialect)
	)
	for i, m := range mappings {
		columns[i] = quote(dialect, m.Column.Name)
		refcols[i] = quote(dialect, m.RefColumn.Name)
	}
	b.WriteString("ADD CONSTRAINT ")
	b.WriteString(quote(dialect, fk.Symbol))
	b.WriteString(" FOREIGN KEY (")
	b.WriteString(strings.Join(columns, ", "))
	b.WriteString(") REFERENCES ")
	b.WriteString(refTable)
	if !refsPK || ft.refColumnsRequired {
		b.WriteString(" (")
		b.WriteString(strings.Join(refcols, ", "))
		b.WriteString(")")
	}
	if ft.cascadeActions {
		if fk.OnDelete != "" && fk.OnDelete != NoAction {
			b.WriteString(" ON DELETE ")
			b.WriteString(string(fk.OnDelete))
		}
		if fk.OnUpdate != "" && fk.OnUpdate != NoAction {
			b.WriteString(" ON UPDATE ")
			b.WriteString(string(fk.OnUpdate))
		}
	}
	return b.String(), nil
}

// AlterTableString returns the complete ALTER TABLE statement adding the
// constraint to its source table for the given dialect.
func (fk *ForeignKey) AlterTableString(dialect string) (string, error) {
	if fk.Table == nil {
		return "", strata.NewMappingErrorf("foreign key %q is not attached to a source table", fk.Symbol)
	}
	constraint, err := fk.ConstraintString(dialect)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("ALTER TABLE %s %s", fk.Table.QualifiedName(dialect), constraint), nil
}

// DropString returns the ALTER TABLE statement dropping the constraint for
// the given dialect, honoring the dialect's drop keyword and the placement
// of its IF EXISTS clause.
func (fk *ForeignKey) DropString(dialect string) (string, error) {
	ft := features(dialect)
	if !ft.addConstraint {
		return "", strata.NewMappingErrorf("dialect %q does not support dropping foreign-key constraints", dialect)
	}
	if fk.Table == nil {
		return "", strata.NewMappingErrorf("foreign key %q is not attached to a source table", fk.Symbol)
	}
	var b strings.Builder
	b.WriteString("ALTER TABLE ")
	b.WriteString(fk.Table.QualifiedName(dialect))
	b.WriteString(" ")
	b.WriteString(ft.dropKeyword)
	b.WriteString(" ")
	if ft.ifExistsBeforeName {
		b.WriteString("IF EXISTS ")
	}
	b.WriteString(quote(dialect, fk.Symbol))
	if ft.ifExistsAfterName {
		b.WriteString(" IF EXISTS")
	}
	return b.String(), nil
}

// ExportID returns the identifier of the constraint used by schema-export
// logging (source table qualifier plus FK symbol).
func (fk *ForeignKey) ExportID() string {
	qualifier := "<detached>"
	if fk.Table != nil {
		qualifier = fk.Table.Name
		if fk.Table.Schema != "" {
			qualifier = fk.Table.Schema + "." + qualifier
		}
	}
	return qualifier + ".FK-" + fk.Symbol
}

func (fk *ForeignKey) refTableName() string {
	if fk.RefTable == nil {
		return "<nil>"
	}
	return fk.RefTable.Name
}
