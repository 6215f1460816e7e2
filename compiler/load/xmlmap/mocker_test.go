package xmlmap

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/strataorm/strata"
	"github.com/strataorm/strata/compiler/gen"
	"github.com/strataorm/strata/compiler/load"
	"github.com/strataorm/strata/dialect/sql/schema"
	"github.com/strataorm/strata/schema/field"
)

const descriptor = `
<entity-mappings version="1.0">
  <defaults>
    <package>app.model</package>
    <schema>public</schema>
  </defaults>
  <entity name="User">
    <attributes>
      <id name="id" type="long">
        <generated-value strategy="IDENTITY"/>
      </id>
      <basic name="name">
        <column length="64" unique="true"/>
      </basic>
      <basic name="active" type="bool" optional="false"/>
      <one-to-many name="pets" target-entity="Pet" mapped-by="owner" orphan-removal="true">
        <cascade>
          <cascade-persist/>
          <cascade-remove/>
        </cascade>
        <order-by>name asc</order-by>
      </one-to-many>
      <many-to-many name="groups" target-entity="app.model.Group">
        <join-table name="user_groups">
          <join-column name="user_id"/>
          <inverse-join-column name="group_id"/>
        </join-table>
      </many-to-many>
    </attributes>
  </entity>
  <entity name="Pet">
    <attributes>
      <id name="id" type="long"/>
      <basic name="name"/>
      <many-to-one name="owner" target-entity="User" fetch="LAZY">
        <join-column name="owner_id"/>
      </many-to-one>
    </attributes>
  </entity>
  <entity name="Group">
    <table name="user_group_defs" schema="auth"/>
    <attributes>
      <id name="id" type="long"/>
    </attributes>
  </entity>
</entity-mappings>`

func mockAll(t *testing.T, doc string) []*load.Schema {
	t.Helper()
	em, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)
	schemas, err := New(em).Mock()
	require.NoError(t, err)
	return schemas
}

func TestMocker_Entities(t *testing.T) {
	schemas := mockAll(t, descriptor)
	require.Len(t, schemas, 3)
	require.Equal(t, "User", schemas[0].Name)
	require.Equal(t, "Pet", schemas[1].Name)
	require.Equal(t, "Group", schemas[2].Name)
}

func TestMocker_TableDefaults(t *testing.T) {
	schemas := mockAll(t, descriptor)

	// Convention: pluralized snake-case table, descriptor-wide schema.
	user := annotationOf(t, schemas[0])
	require.Equal(t, "users", user.Table)
	require.Equal(t, "public", user.Schema)

	// Explicit table element wins over both.
	group := annotationOf(t, schemas[2])
	require.Equal(t, "user_group_defs", group.Table)
	require.Equal(t, "auth", group.Schema)
}

func TestMocker_Fields(t *testing.T) {
	schemas := mockAll(t, descriptor)
	user := schemas[0]
	require.Len(t, user.Fields, 3)

	id := user.Fields[0]
	require.Equal(t, "id", id.Name)
	require.Equal(t, field.TypeInt64, id.Info.Type)
	require.True(t, id.Immutable)
	require.True(t, id.Unique)
	require.Contains(t, id.Annotations, "sql")

	name := user.Fields[1]
	require.Equal(t, field.TypeString, name.Info.Type)
	require.NotNil(t, name.Size)
	require.EqualValues(t, 64, *name.Size)
	require.True(t, name.Unique)
	// Basic attributes are optional by default.
	require.True(t, name.Optional)

	active := user.Fields[2]
	require.Equal(t, field.TypeBool, active.Info.Type)
	require.False(t, active.Optional)
}

func TestMocker_OneToMany(t *testing.T) {
	schemas := mockAll(t, descriptor)
	user := schemas[0]
	require.Len(t, user.Edges, 2)

	pets := user.Edges[0]
	require.Equal(t, "pets", pets.Name)
	require.Equal(t, "Pet", pets.Type)
	require.False(t, pets.Inverse)

	ann := mappingOf(t, pets)
	require.Equal(t, "Pet", ann.TargetEntity)
	require.Equal(t, FetchLazy, ann.Fetch)
	require.Equal(t, "owner", ann.MappedBy)
	require.True(t, ann.OrphanRemoval)
	require.Equal(t, []string{"persist", "remove"}, ann.Cascade)
	require.Equal(t, "name asc", ann.OrderBy)

	// Orphan removal turns into a cascading delete on the constraint.
	require.Contains(t, pets.Annotations, "sql")
}

func TestMocker_ManyToOne(t *testing.T) {
	schemas := mockAll(t, descriptor)
	pet := schemas[1]
	require.Len(t, pet.Edges, 1)

	owner := pet.Edges[0]
	require.Equal(t, "owner", owner.Name)
	require.Equal(t, "User", owner.Type)
	require.True(t, owner.Inverse)
	require.True(t, owner.Unique)
	require.Equal(t, "owner_id", owner.Field)
	// Linked to the collection side that names it through mapped-by.
	require.Equal(t, "pets", owner.RefName)

	ann := mappingOf(t, owner)
	require.Equal(t, FetchLazy, ann.Fetch)
}

// A relation declared from both sides maps to a single foreign key on
// the owning table.
func TestMocker_BidirectionalForeignKey(t *testing.T) {
	schemas := mockAll(t, descriptor)
	graph, err := gen.NewGraph(gen.Config{Package: "app/descriptors"}, schemas...)
	require.NoError(t, err)
	tables, err := graph.Tables()
	require.NoError(t, err)

	var pets *schema.Table
	for _, tb := range tables {
		if tb.Name == "pets" {
			pets = tb
		}
	}
	require.NotNil(t, pets)
	require.Len(t, pets.ForeignKeys, 1)
	require.Len(t, pets.ForeignKeys[0].Columns, 1)
	require.Equal(t, "owner_id", pets.ForeignKeys[0].Columns[0].Name)
	for _, c := range pets.Columns {
		require.NotEqual(t, "user_pets", c.Name)
	}
}

func TestMocker_ManyToMany(t *testing.T) {
	schemas := mockAll(t, descriptor)
	groups := schemas[0].Edges[1]
	require.Equal(t, "groups", groups.Name)
	// Qualified target resolved against the default package.
	require.Equal(t, "Group", groups.Type)
	require.NotNil(t, groups.StorageKey)
	require.Equal(t, "user_groups", groups.StorageKey.Table)
	require.Equal(t, []string{"user_id", "group_id"}, groups.StorageKey.Columns)
}

func TestMocker_Errors(t *testing.T) {
	for name, tt := range map[string]struct {
		doc  string
		want string
	}{
		"UnknownTarget": {
			doc: `<entity-mappings>
			  <entity name="User"><attributes>
			    <one-to-many name="pets" target-entity="Pet"/>
			  </attributes></entity>
			</entity-mappings>`,
			want: `unknown target entity "Pet"`,
		},
		"MissingTarget": {
			doc: `<entity-mappings>
			  <entity name="User"><attributes>
			    <one-to-many name="pets"/>
			  </attributes></entity>
			</entity-mappings>`,
			want: "has no target entity",
		},
		"JoinColumnWithoutName": {
			doc: `<entity-mappings>
			  <entity name="User"><attributes>
			    <one-to-many name="pets" target-entity="Pet">
			      <join-column referenced-column-name="id"/>
			    </one-to-many>
			  </attributes></entity>
			  <entity name="Pet"/>
			</entity-mappings>`,
			want: "join column without a name",
		},
		"InvalidFetch": {
			doc: `<entity-mappings>
			  <entity name="User"><attributes>
			    <one-to-many name="pets" target-entity="Pet" fetch="SOMETIMES"/>
			  </attributes></entity>
			  <entity name="Pet"/>
			</entity-mappings>`,
			want: `invalid fetch mode "SOMETIMES"`,
		},
		"DuplicateEntity": {
			doc: `<entity-mappings>
			  <entity name="User"/>
			  <entity name="User"/>
			</entity-mappings>`,
			want: `duplicate entity "User"`,
		},
		"MappedByUnknown": {
			doc: `<entity-mappings>
			  <entity name="User"><attributes>
			    <one-to-many name="pets" target-entity="Pet" mapped-by="keeper"/>
			  </attributes></entity>
			  <entity name="Pet"/>
			</entity-mappings>`,
			want: `mapped by unknown relation "keeper"`,
		},
		"UnsupportedType": {
			doc: `<entity-mappings>
			  <entity name="User"><attributes>
			    <basic name="data" type="geometry"/>
			  </attributes></entity>
			</entity-mappings>`,
			want: `unsupported type "geometry"`,
		},
	} {
		t.Run(name, func(t *testing.T) {
			em, err := Parse(strings.NewReader(tt.doc))
			require.NoError(t, err)
			_, err = New(em).Mock()
			require.Error(t, err)
			require.True(t, strata.IsMappingError(err))
			require.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestMocker_CascadePersistDefault(t *testing.T) {
	doc := `<entity-mappings>
	  <defaults><cascade-persist/></defaults>
	  <entity name="User"><attributes>
	    <one-to-many name="pets" target-entity="Pet"/>
	  </attributes></entity>
	  <entity name="Pet"/>
	</entity-mappings>`
	schemas := mockAll(t, doc)
	ann := mappingOf(t, schemas[0].Edges[0])
	require.Equal(t, []string{"persist"}, ann.Cascade)
}

// Mocked schemas serialize to the same loaded form as code-defined
// schemas once both pass through the JSON round trip.
func TestMocker_CodePathParity(t *testing.T) {
	doc := `<entity-mappings>
	  <entity name="Tag"><attributes>
	    <basic name="label">
	      <column length="32"/>
	    </basic>
	  </attributes></entity>
	</entity-mappings>`
	schemas := mockAll(t, doc)

	buf, err := load.MarshalSchema(Tag{})
	require.NoError(t, err)
	fromCode, err := load.UnmarshalSchema(buf)
	require.NoError(t, err)

	buf, err = json.Marshal(schemas[0])
	require.NoError(t, err)
	fromXML, err := load.UnmarshalSchema(buf)
	require.NoError(t, err)

	require.Equal(t, fromCode.Fields, fromXML.Fields)
}

type Tag struct {
	strata.Schema
}

func (Tag) Fields() []strata.Field {
	return []strata.Field{
		field.String("label").
			MaxLen(32).
			Optional(),
	}
}

func annotationOf(t *testing.T, s *load.Schema) (out struct {
	Table  string `json:"Table"`
	Schema string `json:"Schema"`
}) {
	t.Helper()
	buf, err := json.Marshal(s.Annotations["sql"])
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(buf, &out))
	return out
}

func mappingOf(t *testing.T, e *load.Edge) Annotation {
	t.Helper()
	buf, err := json.Marshal(e.Annotations[AnnotationName])
	require.NoError(t, err)
	var ann Annotation
	require.NoError(t, json.Unmarshal(buf, &ann))
	return ann
}
