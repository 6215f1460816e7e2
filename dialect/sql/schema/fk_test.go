package schema

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/strataorm/strata"
	"github.com/strataorm/strata/dialect"
	"github.com/strataorm/strata/schema/field"
)

func usersFixture() *Table {
	users := NewTable("users").
		AddPrimary(&Column{Name: "id", Type: field.TypeInt, Increment: true})
	users.AddColumn(&Column{Name: "name", Type: field.TypeString})
	return users
}

func petsFixture(users *Table) (*Table, *ForeignKey) {
	pets := NewTable("pets").
		AddPrimary(&Column{Name: "id", Type: field.TypeInt, Increment: true})
	owner := &Column{Name: "owner_id", Type: field.TypeInt, Nullable: true}
	pets.AddColumn(owner)
	fk, err := NewForeignKey("pets_users_owner", pets, users)
	if err != nil {
		panic(err)
	}
	fk.OnDelete = Cascade
	if err := fk.AddColumnMapping(owner, nil); err != nil {
		panic(err)
	}
	return pets, fk
}

func TestForeignKey_ReferencedColumns(t *testing.T) {
	users := usersFixture()
	_, fk := petsFixture(users)

	// No explicit target columns implies the target primary key.
	refs := fk.ReferencedColumns()
	require.Len(t, refs, 1)
	require.Equal(t, "id", refs[0].Name)
	require.Equal(t, users.PrimaryColumns(), refs)

	// Explicit target columns are returned as set.
	name, ok := users.Column("name")
	require.True(t, ok)
	fk.RefColumns = []*Column{name}
	require.Equal(t, []*Column{name}, fk.ReferencedColumns())
}

func TestForeignKey_ReferencesPrimaryKey(t *testing.T) {
	users := usersFixture()
	_, fk := petsFixture(users)

	// Unset target columns reference the primary key implicitly.
	require.True(t, fk.ReferencesPrimaryKey())

	// Explicit columns equal to the primary key still count.
	id, ok := users.Column("id")
	require.True(t, ok)
	fk.RefColumns = []*Column{id}
	require.True(t, fk.ReferencesPrimaryKey())

	// Columns different from the primary key do not.
	name, ok := users.Column("name")
	require.True(t, ok)
	fk.RefColumns = []*Column{name}
	require.False(t, fk.ReferencesPrimaryKey())
}

func TestForeignKey_AddColumnMapping(t *testing.T) {
	users := usersFixture()
	pets, fk := petsFixture(users)

	// A target column outside the target table is a mapping error.
	err := fk.AddColumnMapping(&Column{Name: "owner_name", Type: field.TypeString}, &Column{Name: "nickname", Type: field.TypeString})
	require.Error(t, err)
	require.True(t, strata.IsMappingError(err))
	require.Contains(t, err.Error(), "nickname")
	require.Contains(t, err.Error(), "users")

	// A valid pairing grows both lists in order.
	name, ok := users.Column("name")
	require.True(t, ok)
	owner := &Column{Name: "owner_name", Type: field.TypeString}
	pets.AddColumn(owner)
	require.NoError(t, fk.AddColumnMapping(owner, name))
	require.Equal(t, []*Column{name}, fk.RefColumns)
	require.Len(t, fk.Columns, 2)

	// Nil source column is rejected.
	require.Error(t, fk.AddColumnMapping(nil, nil))
}

func TestForeignKey_ColumnMappings(t *testing.T) {
	users := usersFixture()
	_, fk := petsFixture(users)

	mappings, err := fk.ColumnMappings()
	require.NoError(t, err)
	require.Len(t, mappings, 1)
	require.Equal(t, "owner_id", mappings[0].Column.Name)
	require.Equal(t, "id", mappings[0].RefColumn.Name)

	// More source columns than target columns.
	fk.Columns = append(fk.Columns, &Column{Name: "extra", Type: field.TypeInt})
	_, err = fk.ColumnMappings()
	require.True(t, strata.IsMappingError(err))
	require.Contains(t, err.Error(), "more constraint columns than foreign key target columns")

	// More target columns than source columns.
	fk.Columns = fk.Columns[:1]
	id, _ := users.Column("id")
	name, _ := users.Column("name")
	fk.RefColumns = []*Column{id, name}
	_, err = fk.ColumnMappings()
	require.True(t, strata.IsMappingError(err))
	require.Contains(t, err.Error(), "more foreign key target columns than constraint columns")
}

func TestForeignKey_ColumnMappings_Order(t *testing.T) {
	parent := NewTable("parents").
		AddPrimary(&Column{Name: "region", Type: field.TypeString}).
		AddPrimary(&Column{Name: "code", Type: field.TypeInt})
	child := NewTable("children").
		AddPrimary(&Column{Name: "id", Type: field.TypeInt, Increment: true})
	c1 := &Column{Name: "parent_region", Type: field.TypeString}
	c2 := &Column{Name: "parent_code", Type: field.TypeInt}
	child.AddColumn(c1).AddColumn(c2)

	fk, err := NewForeignKey("children_parents", child, parent)
	require.NoError(t, err)
	require.NoError(t, fk.AddColumnMapping(c1, nil))
	require.NoError(t, fk.AddColumnMapping(c2, nil))

	mappings, err := fk.ColumnMappings()
	require.NoError(t, err)
	require.Len(t, mappings, 2)
	// Insertion order is preserved on both sides.
	require.Equal(t, "parent_region", mappings[0].Column.Name)
	require.Equal(t, "region", mappings[0].RefColumn.Name)
	require.Equal(t, "parent_code", mappings[1].Column.Name)
	require.Equal(t, "code", mappings[1].RefColumn.Name)
}

func TestForeignKey_ConstraintString(t *testing.T) {
	users := usersFixture()
	_, fk := petsFixture(users)

	t.Run("Postgres", func(t *testing.T) {
		// Referencing the primary key omits the target column list.
		s, err := fk.ConstraintString(dialect.Postgres)
		require.NoError(t, err)
		require.Equal(t, `ADD CONSTRAINT "pets_users_owner" FOREIGN KEY ("owner_id") REFERENCES "users" ON DELETE CASCADE`, s)
	})

	t.Run("MySQL", func(t *testing.T) {
		// MySQL requires the target column list even for primary keys.
		s, err := fk.ConstraintString(dialect.MySQL)
		require.NoError(t, err)
		require.Equal(t, "ADD CONSTRAINT `pets_users_owner` FOREIGN KEY (`owner_id`) REFERENCES `users` (`id`) ON DELETE CASCADE", s)
	})

	t.Run("SQLite", func(t *testing.T) {
		_, err := fk.ConstraintString(dialect.SQLite)
		require.Error(t, err)
		require.True(t, strata.IsMappingError(err))
	})

	t.Run("ExplicitColumns", func(t *testing.T) {
		name, ok := users.Column("name")
		require.True(t, ok)
		cp := *fk
		cp.RefColumns = []*Column{name}
		s, err := cp.ConstraintString(dialect.Postgres)
		require.NoError(t, err)
		require.Equal(t, `ADD CONSTRAINT "pets_users_owner" FOREIGN KEY ("owner_id") REFERENCES "users" ("name") ON DELETE CASCADE`, s)
	})

	t.Run("Actions", func(t *testing.T) {
		cp := *fk
		cp.OnDelete = SetNull
		cp.OnUpdate = Restrict
		s, err := cp.ConstraintString(dialect.Postgres)
		require.NoError(t, err)
		require.Contains(t, s, "ON DELETE SET NULL")
		require.Contains(t, s, "ON UPDATE RESTRICT")

		// NO ACTION is the default and is not emitted.
		cp.OnDelete = NoAction
		cp.OnUpdate = ""
		s, err = cp.ConstraintString(dialect.Postgres)
		require.NoError(t, err)
		require.NotContains(t, s, "ON DELETE")
		require.NotContains(t, s, "ON UPDATE")
	})

	t.Run("CountMismatch", func(t *testing.T) {
		cp := *fk
		id, _ := users.Column("id")
		name, _ := users.Column("name")
		cp.RefColumns = []*Column{id, name}
		_, err := cp.ConstraintString(dialect.Postgres)
		require.True(t, strata.IsMappingError(err))
	})
}

func TestForeignKey_AlterTableString(t *testing.T) {
	users := usersFixture()
	_, fk := petsFixture(users)

	s, err := fk.AlterTableString(dialect.Postgres)
	require.NoError(t, err)
	require.Equal(t, `ALTER TABLE "pets" ADD CONSTRAINT "pets_users_owner" FOREIGN KEY ("owner_id") REFERENCES "users" ON DELETE CASCADE`, s)

	detached := &ForeignKey{Symbol: "dangling", RefTable: users, Columns: fk.Columns}
	_, err = detached.AlterTableString(dialect.Postgres)
	require.Error(t, err)
}

func TestForeignKey_DropString(t *testing.T) {
	users := usersFixture()
	_, fk := petsFixture(users)

	s, err := fk.DropString(dialect.Postgres)
	require.NoError(t, err)
	require.Equal(t, `ALTER TABLE "pets" DROP CONSTRAINT IF EXISTS "pets_users_owner"`, s)

	s, err = fk.DropString(dialect.MySQL)
	require.NoError(t, err)
	require.Equal(t, "ALTER TABLE `pets` DROP FOREIGN KEY `pets_users_owner`", s)

	_, err = fk.DropString(dialect.SQLite)
	require.Error(t, err)
}

func TestForeignKey_ExportID(t *testing.T) {
	users := usersFixture()
	pets, fk := petsFixture(users)
	require.Equal(t, "pets.FK-pets_users_owner", fk.ExportID())

	pets.SetSchema("app")
	require.Equal(t, "app.pets.FK-pets_users_owner", fk.ExportID())

	detached := &ForeignKey{Symbol: "dangling"}
	require.Equal(t, "<detached>.FK-dangling", detached.ExportID())
}

func TestNewForeignKey(t *testing.T) {
	users := usersFixture()
	fk, err := NewForeignKey("orphan", nil, users)
	require.NoError(t, err)
	require.Nil(t, fk.Table)

	_, err = NewForeignKey("bad", usersFixture(), nil)
	require.Error(t, err)
	require.True(t, strata.IsMappingError(err))
}

func TestReferenceOption(t *testing.T) {
	require.True(t, Cascade.Valid())
	require.True(t, ReferenceOption("").Valid())
	require.False(t, ReferenceOption("TRUNCATE").Valid())
	require.Equal(t, "SetNull", SetNull.ConstName())
	require.Equal(t, `ReferenceOption("BOGUS")`, ReferenceOption("BOGUS").ConstName())
}
