package xmlmap

import (
	"strings"

	"github.com/go-openapi/inflect"
	"github.com/google/uuid"

	"github.com/strataorm/strata"
	"github.com/strataorm/strata/compiler/load"
	"github.com/strataorm/strata/dialect/sqlschema"
	"github.com/strataorm/strata/schema/edge"
	"github.com/strataorm/strata/schema/field"
)

// Mocker synthesizes loaded schemas from XML mapping descriptors. The
// name refers to the way it works: instead of translating the XML into
// a separate model, it mocks up the descriptor objects the code-defined
// path produces and feeds them through the same load constructors.
type Mocker struct {
	mappings []*EntityMappings
}

// New returns a Mocker over the given descriptors. Entities may reference
// each other across descriptor files.
func New(mappings ...*EntityMappings) *Mocker {
	return &Mocker{mappings: mappings}
}

// Mock synthesizes the loaded schemas of all entities, in descriptor
// order. Malformed references, such as a relation target that is not a
// mapped entity or a join column without a name, are mapping errors.
func (m *Mocker) Mock() ([]*load.Schema, error) {
	known := make(map[string]bool)
	for _, em := range m.mappings {
		for _, e := range em.Entities {
			name, err := entityName(e)
			if err != nil {
				return nil, err
			}
			if known[name] {
				return nil, strata.NewMappingErrorf("duplicate entity %q in mapping descriptors", name)
			}
			known[name] = true
		}
	}
	var schemas []*load.Schema
	for _, em := range m.mappings {
		for _, e := range em.Entities {
			s, err := m.mockEntity(e, em.Defaults, known)
			if err != nil {
				return nil, err
			}
			schemas = append(schemas, s)
		}
	}
	if err := linkOwners(schemas); err != nil {
		return nil, err
	}
	return schemas, nil
}

// linkOwners connects bidirectional relations after all entities are
// mocked. The XML form declares the link on the collection side through
// mapped-by while the owning many-to-one carries the join column; the
// loaded form records it the other way around, on the owning edge as a
// back-reference to the collection edge. Without the link both sides
// would materialize a foreign key for the same relation.
func linkOwners(schemas []*load.Schema) error {
	byName := make(map[string]*load.Schema, len(schemas))
	for _, s := range schemas {
		byName[s.Name] = s
	}
	for _, s := range schemas {
		for _, e := range s.Edges {
			if e.Inverse || e.Unique {
				continue
			}
			mapped := mappedBy(e)
			if mapped == "" {
				continue
			}
			owner := edgeByName(byName[e.Type], mapped)
			if owner == nil || !owner.Inverse || !owner.Unique || owner.Type != s.Name {
				return strata.NewMappingErrorf(
					"entity %q: relation %q is mapped by unknown relation %q on entity %q",
					s.Name, e.Name, mapped, e.Type,
				)
			}
			owner.RefName = e.Name
		}
	}
	return nil
}

func mappedBy(e *load.Edge) string {
	switch a := e.Annotations[AnnotationName].(type) {
	case Annotation:
		return a.MappedBy
	case *Annotation:
		return a.MappedBy
	}
	return ""
}

func edgeByName(s *load.Schema, name string) *load.Edge {
	for _, e := range s.Edges {
		if e.Name == name {
			return e
		}
	}
	return nil
}

func (m *Mocker) mockEntity(e Entity, d *Defaults, known map[string]bool) (*load.Schema, error) {
	name, err := entityName(e)
	if err != nil {
		return nil, err
	}
	s := &load.Schema{
		Name:        name,
		Annotations: make(map[string]any),
	}
	ann := sqlschema.Annotation{
		Table: inflect.Underscore(inflect.Pluralize(name)),
	}
	if d != nil {
		ann.Schema = d.Schema
	}
	if e.Table != nil {
		if e.Table.Name != "" {
			ann.Table = e.Table.Name
		}
		if e.Table.Schema != "" {
			ann.Schema = e.Table.Schema
		}
	}
	s.Annotations[ann.Name()] = ann
	if e.Attributes == nil {
		return s, nil
	}
	pos := 0
	for _, id := range e.Attributes.IDs {
		f, err := mockID(name, id)
		if err != nil {
			return nil, err
		}
		f.Position = &load.Position{Index: pos}
		pos++
		s.Fields = append(s.Fields, f)
	}
	for _, b := range e.Attributes.Basics {
		f, err := mockBasic(name, b)
		if err != nil {
			return nil, err
		}
		f.Position = &load.Position{Index: pos}
		pos++
		s.Fields = append(s.Fields, f)
	}
	for _, kind := range []struct {
		relations []Relation
		mock      func(string, Relation, *Defaults, map[string]bool) (*load.Edge, error)
	}{
		{e.Attributes.OneToMany, m.mockOneToMany},
		{e.Attributes.ManyToOne, m.mockManyToOne},
		{e.Attributes.ManyToMany, m.mockManyToMany},
	} {
		for _, r := range kind.relations {
			ne, err := kind.mock(name, r, d, known)
			if err != nil {
				return nil, err
			}
			s.Edges = append(s.Edges, ne)
		}
	}
	return s, nil
}

// mockID synthesizes the field of an <id> attribute. Id attributes are
// immutable and unique, and a generated-value element marks the column
// as auto-increment.
func mockID(entity string, id ID) (*load.Field, error) {
	desc, err := fieldDescriptor(entity, id.Name, id.Type)
	if err != nil {
		return nil, err
	}
	desc.Immutable = true
	desc.Unique = true
	applyColumn(desc, id.Column)
	if id.GeneratedValue != nil {
		inc := true
		desc.Annotations = append(desc.Annotations, sqlschema.Annotation{Incremental: &inc})
	}
	return load.NewField(desc)
}

// mockBasic synthesizes the field of a <basic> attribute. Basic
// attributes are optional unless declared otherwise.
func mockBasic(entity string, b Basic) (*load.Field, error) {
	desc, err := fieldDescriptor(entity, b.Name, b.Type)
	if err != nil {
		return nil, err
	}
	desc.Optional = b.Optional == nil || *b.Optional
	applyColumn(desc, b.Column)
	return load.NewField(desc)
}

func applyColumn(desc *field.Descriptor, c *Column) {
	if c == nil {
		return
	}
	if c.Name != "" {
		desc.StorageKey = c.Name
	}
	if c.Length > 0 {
		desc.Size = c.Length
	}
	if c.Unique {
		desc.Unique = true
	}
	if c.Nullable != nil {
		desc.Optional = *c.Nullable
	}
	if c.ColumnDefinition != "" {
		desc.Annotations = append(desc.Annotations, sqlschema.ColumnType(c.ColumnDefinition))
	}
}

func (m *Mocker) mockOneToMany(entity string, r Relation, d *Defaults, known map[string]bool) (*load.Edge, error) {
	target, ann, err := relationTarget(entity, r, d, known, FetchLazy)
	if err != nil {
		return nil, err
	}
	b := edge.To(r.Name, target).Annotations(ann)
	if r.OrphanRemoval {
		b.Annotations(sqlschema.OnDelete(sqlschema.Cascade))
	}
	if len(r.JoinColumns) > 0 {
		column, err := joinColumnName(entity, r, r.JoinColumns[0])
		if err != nil {
			return nil, err
		}
		b.StorageKey(edge.Column(column))
	}
	return load.NewEdge(b.Descriptor())
}

func (m *Mocker) mockManyToOne(entity string, r Relation, d *Defaults, known map[string]bool) (*load.Edge, error) {
	target, ann, err := relationTarget(entity, r, d, known, FetchEager)
	if err != nil {
		return nil, err
	}
	b := edge.From(r.Name, target).Unique().Annotations(ann)
	if r.MappedBy != "" {
		b.Ref(r.MappedBy)
	}
	if len(r.JoinColumns) > 0 {
		column, err := joinColumnName(entity, r, r.JoinColumns[0])
		if err != nil {
			return nil, err
		}
		b.Field(column)
	}
	return load.NewEdge(b.Descriptor())
}

func (m *Mocker) mockManyToMany(entity string, r Relation, d *Defaults, known map[string]bool) (*load.Edge, error) {
	target, ann, err := relationTarget(entity, r, d, known, FetchLazy)
	if err != nil {
		return nil, err
	}
	if r.MappedBy != "" {
		b := edge.From(r.Name, target).Ref(r.MappedBy).Annotations(ann)
		return load.NewEdge(b.Descriptor())
	}
	b := edge.To(r.Name, target).Annotations(ann)
	if jt := r.JoinTable; jt != nil {
		opts := []edge.StorageOption{}
		name := jt.Name
		if name == "" {
			name = inflect.Underscore(entity) + "_" + inflect.Underscore(r.Name)
		}
		opts = append(opts, edge.Table(name))
		if len(jt.JoinColumns) > 0 && len(jt.InverseJoinColumns) > 0 {
			to, err := joinColumnName(entity, r, jt.JoinColumns[0])
			if err != nil {
				return nil, err
			}
			from, err := joinColumnName(entity, r, jt.InverseJoinColumns[0])
			if err != nil {
				return nil, err
			}
			opts = append(opts, edge.Columns(to, from))
		}
		b.StorageKey(opts...)
	}
	return load.NewEdge(b.Descriptor())
}

// relationTarget resolves and validates the target entity of a relation
// and builds its mapping annotation.
func relationTarget(entity string, r Relation, d *Defaults, known map[string]bool, defaultFetch string) (string, Annotation, error) {
	if r.Name == "" {
		return "", Annotation{}, strata.NewMappingErrorf("entity %q: relation element without a name", entity)
	}
	if r.TargetEntity == "" {
		return "", Annotation{}, strata.NewMappingErrorf("entity %q: relation %q has no target entity", entity, r.Name)
	}
	target := shortName(qualify(r.TargetEntity, d))
	if !known[target] {
		return "", Annotation{}, strata.NewMappingErrorf(
			"entity %q: relation %q references unknown target entity %q", entity, r.Name, r.TargetEntity,
		)
	}
	fetch := r.Fetch
	switch fetch {
	case "":
		fetch = defaultFetch
	case FetchLazy, FetchEager:
	default:
		return "", Annotation{}, strata.NewMappingErrorf(
			"entity %q: relation %q has invalid fetch mode %q", entity, r.Name, r.Fetch,
		)
	}
	ann := Annotation{
		TargetEntity:  target,
		Fetch:         fetch,
		MappedBy:      r.MappedBy,
		OrphanRemoval: r.OrphanRemoval,
		Cascade:       r.Cascade.Actions(defaultCascadePersist(d)),
		OrderBy:       r.OrderBy,
		MapKey:        r.MapKey,
	}
	return target, ann, nil
}

func joinColumnName(entity string, r Relation, jc JoinColumn) (string, error) {
	if jc.Name == "" {
		return "", strata.NewMappingErrorf("entity %q: relation %q has a join column without a name", entity, r.Name)
	}
	return jc.Name, nil
}

// entityName returns the short entity name: the name attribute when set,
// the unqualified class name otherwise.
func entityName(e Entity) (string, error) {
	if e.Name != "" {
		return e.Name, nil
	}
	if e.Class == "" {
		return "", strata.NewMappingError("entity element without a name or class")
	}
	return shortName(e.Class), nil
}

// qualify prepends the default package to an unqualified name.
func qualify(name string, d *Defaults) string {
	if d == nil || d.Package == "" || strings.Contains(name, ".") {
		return name
	}
	return d.Package + "." + name
}

// shortName strips the package qualifier of a class reference.
func shortName(qualified string) string {
	if i := strings.LastIndex(qualified, "."); i >= 0 {
		return qualified[i+1:]
	}
	return qualified
}

func defaultCascadePersist(d *Defaults) bool {
	return d != nil && d.CascadePersist != nil
}

// fieldDescriptor creates a field descriptor of the given declared type.
func fieldDescriptor(entity, name, typ string) (*field.Descriptor, error) {
	if name == "" {
		return nil, strata.NewMappingErrorf("entity %q: attribute element without a name", entity)
	}
	switch strings.ToLower(typ) {
	case "", "string", "varchar":
		return field.String(name).Descriptor(), nil
	case "text":
		return field.Text(name).Descriptor(), nil
	case "int", "integer":
		return field.Int(name).Descriptor(), nil
	case "long", "int64", "bigint":
		return field.Int64(name).Descriptor(), nil
	case "bool", "boolean":
		return field.Bool(name).Descriptor(), nil
	case "float", "double":
		return field.Float(name).Descriptor(), nil
	case "time", "timestamp", "datetime", "date":
		return field.Time(name).Descriptor(), nil
	case "uuid":
		return field.UUID(name, uuid.UUID{}).Descriptor(), nil
	case "bytes", "blob", "binary":
		return field.Bytes(name).Descriptor(), nil
	case "json":
		return field.JSON(name, map[string]any{}).Descriptor(), nil
	default:
		return nil, strata.NewMappingErrorf("entity %q: attribute %q has unsupported type %q", entity, name, typ)
	}
}
