package schema

import (
	"fmt"

	atlas "ariga.io/atlas/sql/schema"

	"github.com/strataorm/strata"
)

// AtlasSchema converts the given tables into an atlas schema document.
// It allows handing the exported definitions to atlas-based tooling for
// diffing and inspection.
func AtlasSchema(dialectName, name string, tables ...*Table) (*atlas.Schema, error) {
	s := atlas.New(name)
	byName := make(map[string]*atlas.Table, len(tables))
	for _, t := range tables {
		at, err := atlasTable(dialectName, t)
		if err != nil {
			return nil, err
		}
		byName[t.Name] = at
		s.AddTables(at)
	}
	// Foreign keys are linked in a second pass since a referenced table
	// may appear after its referencing table.
	for _, t := range tables {
		at := byName[t.Name]
		for _, fk := range t.ForeignKeys {
			afk, err := atlasFK(at, byName, fk)
			if err != nil {
				return nil, err
			}
			at.AddForeignKeys(afk)
		}
	}
	return s, nil
}

func atlasTable(dialectName string, t *Table) (*atlas.Table, error) {
	at := atlas.NewTable(t.Name)
	if t.Schema != "" {
		at.SetSchema(atlas.New(t.Schema))
	}
	if t.Comment != "" {
		at.SetComment(t.Comment)
	}
	for _, c := range t.Columns {
		typ, err := cType(dialectName, c)
		if err != nil {
			return nil, fmt.Errorf("table %q: %w", t.Name, err)
		}
		ac := atlas.NewColumn(c.Name)
		ac.Type = &atlas.ColumnType{Raw: typ, Null: c.Nullable}
		if c.Comment != "" {
			ac.SetComment(c.Comment)
		}
		at.AddColumns(ac)
	}
	if pk := t.PrimaryColumns(); len(pk) > 0 {
		idx := atlas.NewIndex(t.Name + "_pkey").SetUnique(true)
		for _, c := range pk {
			ac, ok := at.Column(c.Name)
			if !ok {
				return nil, fmt.Errorf("table %q: missing primary column %q", t.Name, c.Name)
			}
			idx.AddColumns(ac)
		}
		at.SetPrimaryKey(idx)
	}
	for _, idx := range t.Indexes {
		aidx := atlas.NewIndex(idx.Name).SetUnique(idx.Unique)
		for _, c := range idx.Columns {
			ac, ok := at.Column(c.Name)
			if !ok {
				return nil, fmt.Errorf("table %q: index %q references unknown column %q", t.Name, idx.Name, c.Name)
			}
			aidx.AddColumns(ac)
		}
		at.AddIndexes(aidx)
	}
	return at, nil
}

func atlasFK(at *atlas.Table, byName map[string]*atlas.Table, fk *ForeignKey) (*atlas.ForeignKey, error) {
	if fk.RefTable == nil {
		return nil, strata.NewMappingErrorf("foreign key %q has no referenced table", fk.Symbol)
	}
	ref, ok := byName[fk.RefTable.Name]
	if !ok {
		return nil, fmt.Errorf("foreign key %q: referenced table %q not exported", fk.Symbol, fk.RefTable.Name)
	}
	afk := atlas.NewForeignKey(fk.Symbol).SetTable(at).SetRefTable(ref)
	for _, c := range fk.Columns {
		ac, ok := at.Column(c.Name)
		if !ok {
			return nil, fmt.Errorf("foreign key %q: unknown column %q", fk.Symbol, c.Name)
		}
		afk.AddColumns(ac)
	}
	for _, c := range fk.ReferencedColumns() {
		ac, ok := ref.Column(c.Name)
		if !ok {
			return nil, fmt.Errorf("foreign key %q: unknown referenced column %q", fk.Symbol, c.Name)
		}
		afk.AddRefColumns(ac)
	}
	if fk.OnDelete != "" {
		afk.SetOnDelete(atlas.ReferenceOption(fk.OnDelete))
	}
	if fk.OnUpdate != "" {
		afk.SetOnUpdate(atlas.ReferenceOption(fk.OnUpdate))
	}
	return afk, nil
}
