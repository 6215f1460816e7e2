package schema

import (
	"testing"

	atlas "ariga.io/atlas/sql/schema"
	"github.com/stretchr/testify/require"

	"github.com/strataorm/strata/dialect"
)

func TestAtlasSchema(t *testing.T) {
	users, pets := exportFixture()
	users.AddIndex("users_name", true, []string{"name"})

	s, err := AtlasSchema(dialect.Postgres, "public", users, pets)
	require.NoError(t, err)
	require.Equal(t, "public", s.Name)
	require.Len(t, s.Tables, 2)

	ut, ok := s.Table("users")
	require.True(t, ok)
	require.Len(t, ut.Columns, 2)
	require.Equal(t, "bigserial", ut.Columns[0].Type.Raw)
	require.NotNil(t, ut.PrimaryKey)
	require.Len(t, ut.Indexes, 1)
	require.True(t, ut.Indexes[0].Unique)

	pt, ok := s.Table("pets")
	require.True(t, ok)
	require.Len(t, pt.ForeignKeys, 1)
	fk := pt.ForeignKeys[0]
	require.Equal(t, "pets_users_owner", fk.Symbol)
	require.Equal(t, ut, fk.RefTable)
	// Implicit primary-key reference is resolved to concrete columns.
	require.Len(t, fk.RefColumns, 1)
	require.Equal(t, "id", fk.RefColumns[0].Name)
	require.Equal(t, atlas.Cascade, fk.OnDelete)
}

func TestAtlasSchema_Errors(t *testing.T) {
	users, pets := exportFixture()
	_ = users
	// Referenced table missing from the export set.
	_, err := AtlasSchema(dialect.Postgres, "public", pets)
	require.Error(t, err)
	require.Contains(t, err.Error(), `referenced table "users" not exported`)
}
