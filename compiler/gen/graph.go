package gen

import (
	"encoding/json"
	"fmt"

	"github.com/go-openapi/inflect"

	"github.com/strataorm/strata/compiler/load"
	"github.com/strataorm/strata/dialect"
	"github.com/strataorm/strata/dialect/sql/schema"
	"github.com/strataorm/strata/dialect/sqlschema"
	"github.com/strataorm/strata/schema/field"
)

// Config holds the settings of a generation run.
type Config struct {
	// Package is the Go package path of the generated descriptors.
	Package string
	// Target is the directory the descriptors are written to.
	Target string
	// Schema is the default database schema of the generated tables.
	Schema string
}

// Graph is the relational graph of the loaded schemas.
type Graph struct {
	Config
	Nodes []*Type
}

// Type is a node in the graph: one entity schema with its resolved
// SQL annotation.
type Type struct {
	Name       string
	Schema     *load.Schema
	Annotation sqlschema.Annotation
}

// NewGraph builds the graph of the given loaded schemas.
func NewGraph(cfg Config, schemas ...*load.Schema) (*Graph, error) {
	g := &Graph{Config: cfg, Nodes: make([]*Type, 0, len(schemas))}
	seen := make(map[string]bool)
	for _, s := range schemas {
		if s.Name == "" {
			return nil, NewSchemaError("", "", "schema without a name", nil)
		}
		if seen[s.Name] {
			return nil, NewSchemaError(s.Name, "", "duplicate schema name", nil)
		}
		seen[s.Name] = true
		g.Nodes = append(g.Nodes, &Type{
			Name:       s.Name,
			Schema:     s,
			Annotation: sqlAnnotation(s.Annotations),
		})
	}
	return g, nil
}

// TableName returns the database table name of the type: the annotation
// override when set, the pluralized snake-case type name otherwise.
func (t *Type) TableName() string {
	if name, ok := t.Annotation.GetTable(); ok {
		return name
	}
	return inflect.Underscore(inflect.Pluralize(t.Name))
}

// IDField returns the declared id field of the type, or nil when the
// type uses the implicit integer id.
func (t *Type) IDField() *load.Field {
	for _, f := range t.Schema.Fields {
		if f.Unique && f.Immutable {
			return f
		}
	}
	return nil
}

// Tables converts the graph into the relational metamodel: one table per
// node plus one join table per owning many-to-many edge, wired together
// with foreign-key constraints.
func (g *Graph) Tables() ([]*schema.Table, error) {
	byName := make(map[string]*Type, len(g.Nodes))
	tables := make(map[string]*schema.Table, len(g.Nodes))
	var order []*schema.Table
	for _, n := range g.Nodes {
		byName[n.Name] = n
		t, err := g.table(n)
		if err != nil {
			return nil, err
		}
		tables[n.Name] = t
		order = append(order, t)
	}
	var joins []*schema.Table
	for _, n := range g.Nodes {
		for _, e := range n.Schema.Edges {
			jt, err := g.edgeConstraint(n, e, byName, tables)
			if err != nil {
				return nil, err
			}
			if jt != nil {
				joins = append(joins, jt)
			}
		}
	}
	return append(order, joins...), nil
}

// table builds the base table of a node: id column, field columns and
// declared indexes.
func (g *Graph) table(n *Type) (*schema.Table, error) {
	t := schema.NewTable(n.TableName())
	if s, ok := schemaName(n.Annotation, g.Schema); ok {
		t.SetSchema(s)
	}
	id := n.IDField()
	switch {
	case id != nil:
		c, err := column(n, id)
		if err != nil {
			return nil, err
		}
		c.Increment = incremental(id)
		t.AddPrimary(c)
	default:
		t.AddPrimary(&schema.Column{
			Name:      "id",
			Type:      field.TypeInt,
			Increment: true,
		})
	}
	for _, f := range n.Schema.Fields {
		if f == id {
			continue
		}
		c, err := column(n, f)
		if err != nil {
			return nil, err
		}
		t.AddColumn(c)
	}
	for _, idx := range n.Schema.Indexes {
		name := idx.StorageKey
		if name == "" {
			name = t.Name + "_" + inflect.Underscore(joinNames(idx.Fields))
		}
		t.AddIndex(name, idx.Unique, columnNames(n, idx.Fields))
	}
	return t, nil
}

// edgeConstraint materializes the foreign-key constraint of an edge.
// It returns a non-nil table only for owning many-to-many edges, whose
// constraints live on a new join table.
func (g *Graph) edgeConstraint(n *Type, e *load.Edge, byName map[string]*Type, tables map[string]*schema.Table) (*schema.Table, error) {
	target, ok := byName[e.Type]
	if !ok {
		return nil, NewEdgeError(n.Name, e.Name, fmt.Sprintf("unknown target type %q", e.Type), nil)
	}
	var (
		own = tables[n.Name]
		ref = tables[target.Name]
		ann = sqlAnnotation(e.Annotations)
	)
	switch {
	// Owning many-to-many edge: constraints live on a join table.
	case storageTable(e) != "":
		return g.joinTable(n, target, e, own, ref)
	// Inverse side of a many-to-many edge: the owning side generates.
	case e.Inverse && !e.Unique:
		return nil, nil
	// Many-to-one: the foreign key lives on this table.
	case e.Inverse && e.Unique:
		return nil, g.addForeignKey(n, e, own, ref, ann, fkColumn(e))
	// One-to-many or one-to-one declared from the parent side: the
	// foreign key lives on the target table, unless the target declares
	// the inverse edge itself.
	default:
		if hasInverse(target, e.Name) {
			return nil, nil
		}
		column := storageColumn(e)
		if column == "" {
			column = inflect.Underscore(n.Name) + "_" + inflect.Underscore(e.Name)
		}
		return nil, g.addForeignKey(target, e, ref, own, ann, column)
	}
}

// addForeignKey adds the FK column and constraint of an edge to the
// given table, referencing the primary key of ref.
func (g *Graph) addForeignKey(owner *Type, e *load.Edge, t, ref *schema.Table, ann sqlschema.Annotation, columnName string) error {
	pk := ref.PrimaryColumns()
	if len(pk) == 0 {
		return NewEdgeError(owner.Name, e.Name, fmt.Sprintf("referenced table %q has no primary key", ref.Name), nil)
	}
	c := &schema.Column{
		Name:     columnName,
		Type:     pk[0].Type,
		Nullable: !e.Required,
		Unique:   e.Unique && !e.Inverse,
	}
	t.AddColumn(c)
	fk, err := schema.NewForeignKey(symbol(e, ann, t.Name, e.Name), t, ref)
	if err != nil {
		return NewEdgeError(owner.Name, e.Name, "build constraint", err)
	}
	if err := fk.AddColumnMapping(c, nil); err != nil {
		return NewEdgeError(owner.Name, e.Name, "map constraint column", err)
	}
	fk.OnDelete, fk.OnUpdate = refOptions(ann)
	return nil
}

// joinTable builds the join table of an owning many-to-many edge, with
// cascading foreign keys to both endpoint tables.
func (g *Graph) joinTable(n, target *Type, e *load.Edge, own, ref *schema.Table) (*schema.Table, error) {
	toCol := inflect.Underscore(n.Name) + "_id"
	fromCol := inflect.Underscore(target.Name) + "_id"
	if e.StorageKey != nil && len(e.StorageKey.Columns) == 2 {
		toCol, fromCol = e.StorageKey.Columns[0], e.StorageKey.Columns[1]
	}
	jt := schema.NewTable(storageTable(e))
	if s, ok := schemaName(n.Annotation, g.Schema); ok {
		jt.SetSchema(s)
	}
	ownPK, refPK := own.PrimaryColumns(), ref.PrimaryColumns()
	if len(ownPK) == 0 || len(refPK) == 0 {
		return nil, NewEdgeError(n.Name, e.Name, "join table endpoints must have primary keys", nil)
	}
	c1 := &schema.Column{Name: toCol, Type: ownPK[0].Type}
	c2 := &schema.Column{Name: fromCol, Type: refPK[0].Type}
	jt.AddPrimary(c1)
	jt.AddPrimary(c2)
	symbols := []string{
		jt.Name + "_" + inflect.Underscore(n.Name),
		jt.Name + "_" + inflect.Underscore(target.Name),
	}
	if e.StorageKey != nil && len(e.StorageKey.Symbols) == 2 {
		symbols = e.StorageKey.Symbols
	}
	for i, pair := range []struct {
		col *schema.Column
		ref *schema.Table
	}{
		{c1, own},
		{c2, ref},
	} {
		fk, err := schema.NewForeignKey(symbols[i], jt, pair.ref)
		if err != nil {
			return nil, NewEdgeError(n.Name, e.Name, "build join constraint", err)
		}
		if err := fk.AddColumnMapping(pair.col, nil); err != nil {
			return nil, NewEdgeError(n.Name, e.Name, "map join constraint column", err)
		}
		fk.OnDelete = schema.Cascade
	}
	return jt, nil
}

// column converts a loaded field into a table column.
func column(n *Type, f *load.Field) (*schema.Column, error) {
	if f.Info == nil {
		return nil, NewSchemaError(n.Name, f.Name, "missing type info", nil)
	}
	name := f.StorageKey
	if name == "" {
		name = inflect.Underscore(f.Name)
	}
	c := &schema.Column{
		Name:       name,
		Type:       f.Info.Type,
		Unique:     f.Unique,
		Nullable:   f.Optional,
		SchemaType: f.SchemaType,
		Comment:    f.Comment,
	}
	if f.Size != nil {
		c.Size = *f.Size
	}
	if f.Default && f.DefaultValue != nil {
		c.Default = f.DefaultValue
	}
	for _, e := range f.Enums {
		c.Enums = append(c.Enums, e.V)
	}
	fa := sqlAnnotation(f.Annotations)
	if typ := fa.ColumnType; typ != "" {
		if c.SchemaType == nil {
			c.SchemaType = make(map[string]string)
		}
		for _, d := range []string{dialect.MySQL, dialect.Postgres, dialect.SQLite} {
			if _, ok := c.SchemaType[d]; !ok {
				c.SchemaType[d] = typ
			}
		}
	}
	if size, ok := fa.GetSize(); ok {
		c.Size = size
	}
	if fa.Collation != "" {
		c.Collation = fa.Collation
	}
	return c, nil
}

// incremental reports whether an id field is auto-incremented. The SQL
// annotation overrides the type-based default.
func incremental(f *load.Field) bool {
	if inc, ok := sqlAnnotation(f.Annotations).GetIncremental(); ok {
		return inc
	}
	return f.Info != nil && f.Info.Type.Integer()
}

// sqlAnnotation resolves the "sql" annotation of a loaded annotation
// map. The value is either the typed annotation (in-process loading) or
// a generic map (after a serialization round trip).
func sqlAnnotation(annotations map[string]any) sqlschema.Annotation {
	v, ok := annotations[sqlschema.AnnotationName]
	if !ok {
		return sqlschema.Annotation{}
	}
	switch a := v.(type) {
	case sqlschema.Annotation:
		return a
	case *sqlschema.Annotation:
		return *a
	default:
		var ann sqlschema.Annotation
		if buf, err := json.Marshal(v); err == nil {
			_ = json.Unmarshal(buf, &ann)
		}
		return ann
	}
}

func schemaName(ann sqlschema.Annotation, fallback string) (string, bool) {
	if ann.Schema != "" {
		return ann.Schema, true
	}
	if fallback != "" {
		return fallback, true
	}
	return "", false
}

func refOptions(ann sqlschema.Annotation) (onDelete, onUpdate schema.ReferenceOption) {
	if action, ok := ann.GetOnDelete(); ok {
		onDelete = schema.ReferenceOption(action)
	}
	if action, ok := ann.GetOnUpdate(); ok {
		onUpdate = schema.ReferenceOption(action)
	}
	return onDelete, onUpdate
}

func symbol(e *load.Edge, ann sqlschema.Annotation, tableName, edgeName string) string {
	if s, ok := ann.GetSymbol(); ok {
		return s
	}
	if e.StorageKey != nil && len(e.StorageKey.Symbols) == 1 {
		return e.StorageKey.Symbols[0]
	}
	return tableName + "_" + inflect.Underscore(edgeName)
}

func fkColumn(e *load.Edge) string {
	if e.Field != "" {
		return e.Field
	}
	if c := storageColumn(e); c != "" {
		return c
	}
	return inflect.Underscore(e.Name) + "_id"
}

func storageTable(e *load.Edge) string {
	if e.StorageKey == nil {
		return ""
	}
	return e.StorageKey.Table
}

func storageColumn(e *load.Edge) string {
	if e.StorageKey == nil || len(e.StorageKey.Columns) == 0 {
		return ""
	}
	return e.StorageKey.Columns[0]
}

func hasInverse(target *Type, refName string) bool {
	for _, e := range target.Schema.Edges {
		if e.Inverse && e.RefName == refName {
			return true
		}
	}
	return false
}

func columnNames(n *Type, fields []string) []string {
	names := make([]string, 0, len(fields))
	for _, name := range fields {
		resolved := inflect.Underscore(name)
		for _, f := range n.Schema.Fields {
			if f.Name == name && f.StorageKey != "" {
				resolved = f.StorageKey
			}
		}
		names = append(names, resolved)
	}
	return names
}

func joinNames(names []string) string {
	out := ""
	for i, n := range names {
		if i > 0 {
			out += "_"
		}
		out += n
	}
	return out
}
