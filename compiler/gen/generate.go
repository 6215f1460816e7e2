package gen

import (
	"bytes"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/dave/jennifer/jen"
	"github.com/go-openapi/inflect"
	"golang.org/x/tools/imports"

	"github.com/strataorm/strata/compiler/load"
	"github.com/strataorm/strata/dialect/sql/schema"
)

const (
	schemaPkg = "github.com/strataorm/strata/dialect/sql/schema"
	fieldPkg  = "github.com/strataorm/strata/schema/field"

	// DescriptorsFile is the name of the generated descriptors file.
	DescriptorsFile = "descriptors.go"
)

// Generate builds the relational graph of the given schemas and writes
// the table descriptors file to cfg.Target.
func Generate(cfg Config, schemas ...*load.Schema) error {
	g, err := NewGraph(cfg, schemas...)
	if err != nil {
		return err
	}
	return g.Gen()
}

// Gen renders the table descriptors of the graph and writes them to the
// target directory.
func (g *Graph) Gen() error {
	tables, err := g.Tables()
	if err != nil {
		return err
	}
	src, err := Render(g.Package, tables)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(g.Target, 0o755); err != nil {
		return fmt.Errorf("create target directory: %w", err)
	}
	return os.WriteFile(filepath.Join(g.Target, DescriptorsFile), src, 0o644)
}

// Render emits the Go source of the table descriptors: a columns
// variable and a table variable per table, a Tables slice, and an init
// function closing the reference cycles between constraints and their
// target tables.
func Render(pkg string, tables []*schema.Table) ([]byte, error) {
	f := jen.NewFilePathName(pkg, path.Base(pkg))
	f.HeaderComment("Code generated by strata. DO NOT EDIT.")
	for _, t := range tables {
		name := varName(t)
		f.Commentf("%sColumns holds the columns for the %q table.", name, t.Name)
		f.Var().Id(name+"Columns").Op("=").Index().Op("*").Qual(schemaPkg, "Column").ValuesFunc(func(grp *jen.Group) {
			for _, c := range t.Columns {
				grp.Line().Values(columnDict(c))
			}
			grp.Line()
		})
		f.Commentf("%sTable holds the schema information for the %q table.", name, t.Name)
		f.Var().Id(name+"Table").Op("=").Op("&").Qual(schemaPkg, "Table").Values(tableDict(t))
	}
	f.Comment("Tables holds all the tables in the schema.")
	f.Var().Id("Tables").Op("=").Index().Op("*").Qual(schemaPkg, "Table").ValuesFunc(func(grp *jen.Group) {
		for _, t := range tables {
			grp.Line().Id(varName(t) + "Table")
		}
		grp.Line()
	})
	f.Func().Id("init").Params().BlockFunc(func(grp *jen.Group) {
		for _, t := range tables {
			for i, fk := range t.ForeignKeys {
				grp.Id(varName(t) + "Table").Dot("ForeignKeys").Index(jen.Lit(i)).Dot("RefTable").Op("=").Id(varName(fk.RefTable) + "Table")
			}
		}
	})
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, fmt.Errorf("render descriptors: %w", err)
	}
	src, err := imports.Process(DescriptorsFile, buf.Bytes(), nil)
	if err != nil {
		return nil, fmt.Errorf("format descriptors: %w", err)
	}
	return src, nil
}

func varName(t *schema.Table) string {
	return inflect.Camelize(t.Name)
}

func columnDict(c *schema.Column) jen.Dict {
	d := jen.Dict{
		jen.Id("Name"): jen.Lit(c.Name),
		jen.Id("Type"): jen.Qual(fieldPkg, c.Type.ConstName()),
	}
	if c.Unique {
		d[jen.Id("Unique")] = jen.True()
	}
	if c.Increment {
		d[jen.Id("Increment")] = jen.True()
	}
	if c.Nullable {
		d[jen.Id("Nullable")] = jen.True()
	}
	if c.Size > 0 {
		d[jen.Id("Size")] = jen.Lit(int(c.Size))
	}
	if c.Key != "" {
		d[jen.Id("Key")] = jen.Lit(c.Key)
	}
	if len(c.Enums) > 0 {
		d[jen.Id("Enums")] = jen.Index().String().ValuesFunc(func(grp *jen.Group) {
			for _, e := range c.Enums {
				grp.Lit(e)
			}
		})
	}
	if lit, ok := defaultLit(c.Default); ok {
		d[jen.Id("Default")] = lit
	}
	if len(c.SchemaType) > 0 {
		keys := make([]string, 0, len(c.SchemaType))
		for k := range c.SchemaType {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		d[jen.Id("SchemaType")] = jen.Map(jen.String()).String().Values(jen.DictFunc(func(md jen.Dict) {
			for _, k := range keys {
				md[jen.Lit(k)] = jen.Lit(c.SchemaType[k])
			}
		}))
	}
	if c.Collation != "" {
		d[jen.Id("Collation")] = jen.Lit(c.Collation)
	}
	if c.Comment != "" {
		d[jen.Id("Comment")] = jen.Lit(c.Comment)
	}
	return d
}

// defaultLit converts a column default to a code literal. Non-constant
// defaults (functions, composites) are computed at runtime and omitted.
func defaultLit(v any) (jen.Code, bool) {
	switch v := v.(type) {
	case string, bool, int, int64, uint64, float64:
		return jen.Lit(v), true
	default:
		return nil, false
	}
}

func tableDict(t *schema.Table) jen.Dict {
	name := varName(t)
	d := jen.Dict{
		jen.Id("Name"):    jen.Lit(t.Name),
		jen.Id("Columns"): jen.Id(name + "Columns"),
	}
	if t.Schema != "" {
		d[jen.Id("Schema")] = jen.Lit(t.Schema)
	}
	if pk := t.PrimaryColumns(); len(pk) > 0 {
		d[jen.Id("PrimaryKey")] = jen.Index().Op("*").Qual(schemaPkg, "Column").ValuesFunc(func(grp *jen.Group) {
			for _, c := range pk {
				grp.Id(name + "Columns").Index(jen.Lit(columnIndex(t, c)))
			}
		})
	}
	if len(t.ForeignKeys) > 0 {
		d[jen.Id("ForeignKeys")] = jen.Index().Op("*").Qual(schemaPkg, "ForeignKey").ValuesFunc(func(grp *jen.Group) {
			for _, fk := range t.ForeignKeys {
				grp.Line().Values(fkDict(t, fk))
			}
			grp.Line()
		})
	}
	if len(t.Indexes) > 0 {
		d[jen.Id("Indexes")] = jen.Index().Op("*").Qual(schemaPkg, "Index").ValuesFunc(func(grp *jen.Group) {
			for _, idx := range t.Indexes {
				grp.Line().Values(jen.Dict{
					jen.Id("Name"):   jen.Lit(idx.Name),
					jen.Id("Unique"): jen.Lit(idx.Unique),
					jen.Id("Columns"): jen.Index().Op("*").Qual(schemaPkg, "Column").ValuesFunc(func(cols *jen.Group) {
						for _, c := range idx.Columns {
							cols.Id(name + "Columns").Index(jen.Lit(columnIndex(t, c)))
						}
					}),
				})
			}
			grp.Line()
		})
	}
	return d
}

func fkDict(t *schema.Table, fk *schema.ForeignKey) jen.Dict {
	d := jen.Dict{
		jen.Id("Symbol"): jen.Lit(fk.Symbol),
		jen.Id("Columns"): jen.Index().Op("*").Qual(schemaPkg, "Column").ValuesFunc(func(grp *jen.Group) {
			for _, c := range fk.Columns {
				grp.Id(varName(t) + "Columns").Index(jen.Lit(columnIndex(t, c)))
			}
		}),
	}
	if fk.RefTable != nil {
		refName := varName(fk.RefTable)
		d[jen.Id("RefColumns")] = jen.Index().Op("*").Qual(schemaPkg, "Column").ValuesFunc(func(grp *jen.Group) {
			for _, c := range fk.ReferencedColumns() {
				grp.Id(refName + "Columns").Index(jen.Lit(columnIndex(fk.RefTable, c)))
			}
		})
	}
	if fk.OnDelete != "" {
		d[jen.Id("OnDelete")] = jen.Qual(schemaPkg, fk.OnDelete.ConstName())
	}
	if fk.OnUpdate != "" {
		d[jen.Id("OnUpdate")] = jen.Qual(schemaPkg, fk.OnUpdate.ConstName())
	}
	return d
}

func columnIndex(t *schema.Table, c *schema.Column) int {
	for i, tc := range t.Columns {
		if tc == c {
			return i
		}
	}
	return -1
}
