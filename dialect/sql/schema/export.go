package schema

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/strataorm/strata"
	"github.com/strataorm/strata/dialect"
)

// Export turns a set of tables into dialect-specific DDL and executes it
// through a dialect.Driver. Statement order is deterministic: tables are
// created in dependency-friendly input order and foreign-key constraints
// are added afterwards, collated by their export identifier.
type Export struct {
	drv      dialect.Driver
	withDrop bool
}

// ExportOption allows configuring the exporter using functional options.
type ExportOption func(*Export)

// WithDropConstraints instructs the exporter to emit drop statements for
// every foreign-key constraint before re-adding it. Useful for re-runs
// against databases where the constraints may already exist.
func WithDropConstraints(b bool) ExportOption {
	return func(e *Export) {
		e.withDrop = b
	}
}

// NewExport returns a new Export bound to the given driver.
func NewExport(drv dialect.Driver, opts ...ExportOption) (*Export, error) {
	if drv == nil {
		return nil, errors.New("sql/schema: nil driver")
	}
	e := &Export{drv: drv}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Create validates the given tables and executes their DDL in a single
// transaction.
func (e *Export) Create(ctx context.Context, tables ...*Table) error {
	stmts, err := e.plan(e.drv.Dialect(), tables)
	if err != nil {
		return err
	}
	tx, err := e.drv.Tx(ctx)
	if err != nil {
		return err
	}
	for _, stmt := range stmts {
		if err := tx.Exec(ctx, stmt, []any{}, nil); err != nil {
			return errors.Join(strata.NewConstraintError(stmt, err), tx.Rollback())
		}
	}
	return tx.Commit()
}

// Plan returns the DDL statements the exporter would execute for the given
// dialect and tables, without touching a database.
func Plan(dialectName string, tables ...*Table) ([]string, error) {
	e := &Export{}
	return e.plan(dialectName, tables)
}

func (e *Export) plan(dialectName string, tables []*Table) ([]string, error) {
	if result := ValidateSchema(tables); result.HasErrors() {
		return nil, strata.NewValidationError("schema", errors.New(result.String()))
	}
	var stmts []string
	for _, t := range tables {
		stmt, err := createTable(dialectName, t)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	// SQLite declares constraints inline in CREATE TABLE.
	if !features(dialectName).addConstraint {
		return stmts, nil
	}
	var (
		alters []string
		drops  []string
	)
	for _, t := range tables {
		for _, fk := range t.ForeignKeys {
			stmt, err := fk.AlterTableString(dialectName)
			if err != nil {
				return nil, err
			}
			alters = append(alters, stmt)
			if e.withDrop {
				drop, err := fk.DropString(dialectName)
				if err != nil {
					return nil, err
				}
				drops = append(drops, drop)
			}
		}
	}
	// Collate constraint statements for deterministic output across runs.
	c := collate.New(language.Und)
	c.SortStrings(alters)
	c.SortStrings(drops)
	stmts = append(stmts, drops...)
	stmts = append(stmts, alters...)
	return stmts, nil
}

// createTable builds the CREATE TABLE statement of a table for the given
// dialect.
func createTable(dialectName string, t *Table) (string, error) {
	var (
		b     strings.Builder
		parts []string
	)
	b.WriteString("CREATE TABLE IF NOT EXISTS ")
	b.WriteString(t.QualifiedName(dialectName))
	b.WriteString(" (")
	pk := t.PrimaryColumns()
	inlinePK := dialectName == dialect.SQLite && len(pk) == 1 && pk[0].Increment
	for _, c := range t.Columns {
		col, err := columnDDL(dialectName, c, inlinePK && c == pk[0])
		if err != nil {
			return "", fmt.Errorf("table %q: %w", t.Name, err)
		}
		parts = append(parts, col)
	}
	if len(pk) > 0 && !inlinePK {
		names := make([]string, len(pk))
		for i, c := range pk {
			names[i] = quote(dialectName, c.Name)
		}
		parts = append(parts, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(names, ", ")))
	}
	if !features(dialectName).addConstraint {
		for _, fk := range t.ForeignKeys {
			constraint, err := inlineConstraint(dialectName, fk)
			if err != nil {
				return "", err
			}
			parts = append(parts, constraint)
		}
	}
	b.WriteString(strings.Join(parts, ", "))
	b.WriteString(")")
	return b.String(), nil
}

// inlineConstraint builds a CONSTRAINT clause for dialects that only accept
// foreign keys inside CREATE TABLE.
func inlineConstraint(dialectName string, fk *ForeignKey) (string, error) {
	mappings, err := fk.ColumnMappings()
	if err != nil {
		return "", err
	}
	columns := make([]string, len(mappings))
	refcols := make([]string, len(mappings))
	for i, m := range mappings {
		columns[i] = quote(dialectName, m.Column.Name)
		refcols[i] = quote(dialectName, m.RefColumn.Name)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s (%s)",
		quote(dialectName, fk.Symbol),
		strings.Join(columns, ", "),
		fk.RefTable.QualifiedName(dialectName),
		strings.Join(refcols, ", "),
	)
	if ft := features(dialectName); ft.cascadeActions {
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

// columnDDL builds the column definition clause of a column.
func columnDDL(dialectName string, c *Column, inlinePK bool) (string, error) {
	typ, err := cType(dialectName, c)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString(quote(dialectName, c.Name))
	b.WriteString(" ")
	b.WriteString(typ)
	switch {
	case inlinePK:
		b.WriteString(" NOT NULL PRIMARY KEY AUTOINCREMENT")
	case !c.Nullable:
		b.WriteString(" NOT NULL")
	}
	if c.Increment && dialectName == dialect.MySQL {
		b.WriteString(" AUTO_INCREMENT")
	}
	if c.Unique && c.Key != PrimaryKey {
		b.WriteString(" UNIQUE")
	}
	if c.Default != nil {
		if lit, ok := defaultLiteral(c.Default); ok {
			b.WriteString(" DEFAULT ")
			b.WriteString(lit)
		}
	}
	if c.Collation != "" && dialectName == dialect.MySQL {
		b.WriteString(" COLLATE ")
		b.WriteString(c.Collation)
	}
	return b.String(), nil
}

// defaultLiteral renders a Go value as a SQL default literal. Function
// defaults (e.g. time.Now) have no database representation and are skipped.
func defaultLiteral(v any) (string, bool) {
	switch v := v.(type) {
	case string:
		return "'" + strings.ReplaceAll(v, "'", "''") + "'", true
	case bool:
		return fmt.Sprintf("%t", v), true
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v), true
	case float32, float64:
		return fmt.Sprintf("%v", v), true
	default:
		return "", false
	}
}
