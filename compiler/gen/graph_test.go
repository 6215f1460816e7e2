package gen

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/strataorm/strata/compiler/load"
	"github.com/strataorm/strata/dialect/sqlschema"
	"github.com/strataorm/strata/schema/edge"
	"github.com/strataorm/strata/schema/field"
)

func userLoadSchema() *load.Schema {
	size := int64(64)
	return &load.Schema{
		Name: "User",
		Fields: []*load.Field{
			{Name: "id", Info: &field.TypeInfo{Type: field.TypeInt64}, Unique: true, Immutable: true},
			{Name: "name", Info: &field.TypeInfo{Type: field.TypeString}, Size: &size},
			{Name: "age", Info: &field.TypeInfo{Type: field.TypeInt}, Optional: true, Default: true, DefaultValue: int64(18)},
		},
		Edges: []*load.Edge{
			{Name: "pets", Type: "Pet"},
		},
		Indexes: []*load.Index{
			{Fields: []string{"name"}, Unique: true},
		},
	}
}

func petLoadSchema() *load.Schema {
	return &load.Schema{
		Name: "Pet",
		Fields: []*load.Field{
			{Name: "nickname", Info: &field.TypeInfo{Type: field.TypeString}},
		},
		Edges: []*load.Edge{
			{
				Name: "owner", Type: "User", Inverse: true, Unique: true, RefName: "pets",
				Annotations: map[string]any{
					sqlschema.AnnotationName: sqlschema.OnDelete(sqlschema.Cascade),
				},
			},
		},
	}
}

func TestGraph_Tables(t *testing.T) {
	g, err := NewGraph(Config{}, userLoadSchema(), petLoadSchema())
	require.NoError(t, err)
	tables, err := g.Tables()
	require.NoError(t, err)
	require.Len(t, tables, 2)

	users, pets := tables[0], tables[1]
	require.Equal(t, "users", users.Name)
	require.Equal(t, "pets", pets.Name)

	// Declared id field becomes the auto-increment primary key.
	pk := users.PrimaryColumns()
	require.Len(t, pk, 1)
	require.Equal(t, "id", pk[0].Name)
	require.Equal(t, field.TypeInt64, pk[0].Type)
	require.True(t, pk[0].Increment)

	name, ok := users.Column("name")
	require.True(t, ok)
	require.Equal(t, int64(64), name.Size)
	age, ok := users.Column("age")
	require.True(t, ok)
	require.True(t, age.Nullable)
	require.Equal(t, int64(18), age.Default)

	require.Len(t, users.Indexes, 1)
	require.Equal(t, "users_name", users.Indexes[0].Name)
	require.True(t, users.Indexes[0].Unique)

	// The inverse unique edge owns the foreign key.
	require.Len(t, users.ForeignKeys, 0)
	require.Len(t, pets.ForeignKeys, 1)
	fk := pets.ForeignKeys[0]
	require.Equal(t, "pets_owner", fk.Symbol)
	require.Equal(t, users, fk.RefTable)
	require.Len(t, fk.Columns, 1)
	require.Equal(t, "owner_id", fk.Columns[0].Name)
	require.Equal(t, field.TypeInt64, fk.Columns[0].Type)
	require.True(t, fk.Columns[0].Nullable)
	require.True(t, fk.ReferencesPrimaryKey())
	require.Equal(t, "CASCADE", string(fk.OnDelete))
}

func TestGraph_Tables_ImplicitID(t *testing.T) {
	g, err := NewGraph(Config{}, &load.Schema{
		Name: "Tag",
		Fields: []*load.Field{
			{Name: "value", Info: &field.TypeInfo{Type: field.TypeString}},
		},
	})
	require.NoError(t, err)
	tables, err := g.Tables()
	require.NoError(t, err)
	pk := tables[0].PrimaryColumns()
	require.Len(t, pk, 1)
	require.Equal(t, "id", pk[0].Name)
	require.Equal(t, field.TypeInt, pk[0].Type)
	require.True(t, pk[0].Increment)
}

func TestGraph_Tables_ParentSideEdge(t *testing.T) {
	// One-to-many declared only from the parent: the child table gets
	// the foreign-key column.
	user := userLoadSchema()
	pet := petLoadSchema()
	pet.Edges = nil
	g, err := NewGraph(Config{}, user, pet)
	require.NoError(t, err)
	tables, err := g.Tables()
	require.NoError(t, err)
	pets := tables[1]
	require.Len(t, pets.ForeignKeys, 1)
	require.Equal(t, "user_pets", pets.ForeignKeys[0].Columns[0].Name)
}

func TestGraph_Tables_ManyToMany(t *testing.T) {
	user := userLoadSchema()
	user.Edges = append(user.Edges, &load.Edge{
		Name: "groups", Type: "Group",
		StorageKey: &edge.StorageKey{Table: "user_groups"},
	})
	group := &load.Schema{
		Name: "Group",
		Edges: []*load.Edge{
			{Name: "users", Type: "User", Inverse: true, RefName: "groups"},
		},
	}
	g, err := NewGraph(Config{}, user, petLoadSchema(), group)
	require.NoError(t, err)
	tables, err := g.Tables()
	require.NoError(t, err)
	require.Len(t, tables, 4)

	jt := tables[3]
	require.Equal(t, "user_groups", jt.Name)
	require.Len(t, jt.PrimaryColumns(), 2)
	require.Equal(t, "user_id", jt.Columns[0].Name)
	require.Equal(t, "group_id", jt.Columns[1].Name)
	require.Len(t, jt.ForeignKeys, 2)
	for _, fk := range jt.ForeignKeys {
		require.Equal(t, "CASCADE", string(fk.OnDelete))
		require.True(t, fk.ReferencesPrimaryKey())
	}
	require.Equal(t, "user_groups_user", jt.ForeignKeys[0].Symbol)
	require.Equal(t, "user_groups_group", jt.ForeignKeys[1].Symbol)
}

func TestGraph_Tables_UnknownTarget(t *testing.T) {
	g, err := NewGraph(Config{}, &load.Schema{
		Name:  "User",
		Edges: []*load.Edge{{Name: "pets", Type: "Pet"}},
	})
	require.NoError(t, err)
	_, err = g.Tables()
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrInvalidEdge))
	var ee *EdgeError
	require.True(t, errors.As(err, &ee))
	require.Equal(t, "pets", ee.Edge)
}

func TestNewGraph_Errors(t *testing.T) {
	_, err := NewGraph(Config{}, &load.Schema{})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrInvalidSchema))

	_, err = NewGraph(Config{}, &load.Schema{Name: "User"}, &load.Schema{Name: "User"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "duplicate schema name")
}

func TestType_TableName(t *testing.T) {
	g, err := NewGraph(Config{}, &load.Schema{
		Name: "UserGroup",
		Annotations: map[string]any{
			sqlschema.AnnotationName: sqlschema.Table("memberships"),
		},
	}, &load.Schema{Name: "Pet"})
	require.NoError(t, err)
	require.Equal(t, "memberships", g.Nodes[0].TableName())
	require.Equal(t, "pets", g.Nodes[1].TableName())
}

func TestGraph_DefaultSchema(t *testing.T) {
	g, err := NewGraph(Config{Schema: "app"}, petLoadSchema(), userLoadSchema())
	require.NoError(t, err)
	tables, err := g.Tables()
	require.NoError(t, err)
	for _, tb := range tables {
		require.Equal(t, "app", tb.Schema)
	}
}
