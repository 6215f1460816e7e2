package edge_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strataorm/strata/schema/edge"
)

type User struct{}

func (User) Type() {}

type Pet struct{}

func (Pet) Type() {}

func TestAssocEdge(t *testing.T) {
	t.Parallel()

	ed := edge.To("pets", Pet.Type).
		Required().
		Comment("pets owned by the user").
		StorageKey(edge.Column("owner_id"), edge.Symbol("user_pets")).
		Descriptor()
	assert.Equal(t, "pets", ed.Name)
	assert.Equal(t, "Pet", ed.Type)
	assert.False(t, ed.Inverse)
	assert.True(t, ed.Required)
	assert.Equal(t, "pets owned by the user", ed.Comment)
	require.NotNil(t, ed.StorageKey)
	assert.Equal(t, []string{"owner_id"}, ed.StorageKey.Columns)
	assert.Equal(t, []string{"user_pets"}, ed.StorageKey.Symbols)
}

func TestInverseEdge(t *testing.T) {
	t.Parallel()

	ed := edge.From("owner", User.Type).
		Ref("pets").
		Unique().
		Field("user_id").
		Descriptor()
	assert.Equal(t, "owner", ed.Name)
	assert.Equal(t, "User", ed.Type)
	assert.True(t, ed.Inverse)
	assert.True(t, ed.Unique)
	assert.Equal(t, "pets", ed.RefName)
	assert.Equal(t, "user_id", ed.Field)
}

func TestAssocFrom(t *testing.T) {
	t.Parallel()

	ed := edge.To("followers", User.Type).
		From("following").
		Descriptor()
	assert.Equal(t, "following", ed.Name)
	assert.True(t, ed.Inverse)
	require.NotNil(t, ed.Ref)
	assert.Equal(t, "followers", ed.Ref.Name)
}

func TestThrough(t *testing.T) {
	t.Parallel()

	ed := edge.To("groups", "Group").
		Through("memberships", "Membership").
		Descriptor()
	assert.Equal(t, "Group", ed.Type)
	require.NotNil(t, ed.Through)
	assert.Equal(t, "memberships", ed.Through.N)
	assert.Equal(t, "Membership", ed.Through.T)
}

func TestM2MStorage(t *testing.T) {
	t.Parallel()

	ed := edge.To("groups", "Group").
		StorageKey(edge.Table("user_groups"), edge.Columns("user_id", "group_id"), edge.Symbols("user_groups_user", "user_groups_group")).
		Descriptor()
	require.NotNil(t, ed.StorageKey)
	assert.Equal(t, "user_groups", ed.StorageKey.Table)
	assert.Equal(t, []string{"user_id", "group_id"}, ed.StorageKey.Columns)
	assert.Equal(t, []string{"user_groups_user", "user_groups_group"}, ed.StorageKey.Symbols)
}
