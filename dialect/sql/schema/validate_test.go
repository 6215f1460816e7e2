package schema

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/strataorm/strata/schema/field"
)

func TestValidateTable(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		users, pets := exportFixture()
		for _, tbl := range []*Table{users, pets} {
			result := ValidateTable(tbl)
			require.False(t, result.HasErrors())
			require.False(t, result.HasWarnings())
		}
	})

	t.Run("MissingPrimaryKey", func(t *testing.T) {
		tbl := NewTable("logs")
		tbl.AddColumn(&Column{Name: "message", Type: field.TypeString})
		result := ValidateTable(tbl)
		require.False(t, result.HasErrors())
		require.True(t, result.HasWarnings())
		require.Contains(t, result.String(), "no primary key")
	})

	t.Run("DuplicateColumns", func(t *testing.T) {
		tbl := NewTable("users").
			AddPrimary(&Column{Name: "id", Type: field.TypeInt})
		tbl.Columns = append(tbl.Columns, &Column{Name: "id", Type: field.TypeInt})
		result := ValidateTable(tbl)
		require.True(t, result.HasErrors())
		require.Contains(t, result.String(), "duplicate column name")
	})

	t.Run("IndexUnknownColumn", func(t *testing.T) {
		tbl := NewTable("users").
			AddPrimary(&Column{Name: "id", Type: field.TypeInt})
		tbl.Indexes = append(tbl.Indexes, &Index{Name: "users_email", columns: []string{"email"}})
		result := ValidateTable(tbl)
		require.True(t, result.HasErrors())
		require.Contains(t, result.String(), `index "users_email" references non-existent column "email"`)
	})
}

func TestValidateTable_ForeignKeys(t *testing.T) {
	t.Run("UnknownSourceColumn", func(t *testing.T) {
		users := usersFixture()
		pets, fk := petsFixture(users)
		fk.Columns = append(fk.Columns, &Column{Name: "vanished", Type: field.TypeInt})
		fk.RefColumns = []*Column{}
		result := ValidateTable(pets)
		require.True(t, result.HasErrors())
		require.Contains(t, result.String(), `references non-existent column "vanished"`)
	})

	t.Run("MissingTargetTable", func(t *testing.T) {
		pets := NewTable("pets").
			AddPrimary(&Column{Name: "id", Type: field.TypeInt})
		pets.AddForeignKey(&ForeignKey{Symbol: "dangling"})
		result := ValidateTable(pets)
		require.True(t, result.HasErrors())
		require.Contains(t, result.String(), "no target table")
	})

	t.Run("UnknownTargetColumn", func(t *testing.T) {
		users := usersFixture()
		pets, fk := petsFixture(users)
		fk.RefColumns = []*Column{{Name: "nickname", Type: field.TypeString}}
		result := ValidateTable(pets)
		require.True(t, result.HasErrors())
		require.Contains(t, result.String(), `target column "nickname"`)
	})

	t.Run("ArityMismatch", func(t *testing.T) {
		users := usersFixture()
		pets, fk := petsFixture(users)
		id, _ := users.Column("id")
		name, _ := users.Column("name")
		fk.RefColumns = []*Column{id, name}
		result := ValidateTable(pets)
		require.True(t, result.HasErrors())
		require.True(t, result.HasBreakingChanges())
		require.Contains(t, result.String(), "has 1 columns but references 2 columns")
	})
}

func TestValidateDiff(t *testing.T) {
	t.Run("NoChanges", func(t *testing.T) {
		users, pets := exportFixture()
		result := ValidateDiff([]*Table{users, pets}, []*Table{users, pets})
		require.False(t, result.HasErrors())
		require.False(t, result.HasWarnings())
	})

	t.Run("DroppedTable", func(t *testing.T) {
		users, pets := exportFixture()
		result := ValidateDiff([]*Table{users, pets}, []*Table{users})
		require.True(t, result.HasErrors())
		require.True(t, result.HasBreakingChanges())
		require.Contains(t, result.String(), "table will be dropped")

		result = ValidateDiff([]*Table{users, pets}, []*Table{users}, AllowDropTable())
		require.False(t, result.HasErrors())
		require.True(t, result.HasWarnings())
	})

	t.Run("DroppedColumn", func(t *testing.T) {
		curr := usersFixture()
		want := NewTable("users").
			AddPrimary(&Column{Name: "id", Type: field.TypeInt, Increment: true})
		result := ValidateDiff([]*Table{curr}, []*Table{want})
		require.True(t, result.HasErrors())
		require.Contains(t, result.String(), "users.name: column will be dropped")

		result = ValidateDiff([]*Table{curr}, []*Table{want}, AllowDropColumn())
		require.False(t, result.HasErrors())
		require.True(t, result.HasWarnings())
	})

	t.Run("NewNotNullColumn", func(t *testing.T) {
		curr := usersFixture()
		want := usersFixture()
		want.AddColumn(&Column{Name: "email", Type: field.TypeString})
		result := ValidateDiff([]*Table{curr}, []*Table{want})
		require.False(t, result.HasErrors())
		require.Contains(t, result.String(), "new NOT NULL column without default value")

		// A default value makes backfilling safe.
		want = usersFixture()
		want.AddColumn(&Column{Name: "email", Type: field.TypeString, Default: "unknown"})
		result = ValidateDiff([]*Table{curr}, []*Table{want})
		require.False(t, result.HasWarnings())
	})

	t.Run("NullToNotNull", func(t *testing.T) {
		curr := usersFixture()
		curr.AddColumn(&Column{Name: "age", Type: field.TypeInt, Nullable: true})
		want := usersFixture()
		want.AddColumn(&Column{Name: "age", Type: field.TypeInt})
		result := ValidateDiff([]*Table{curr}, []*Table{want})
		require.True(t, result.HasErrors())
		require.Contains(t, result.String(), "NULL to NOT NULL")

		result = ValidateDiff([]*Table{curr}, []*Table{want}, AllowNullToNotNull())
		require.False(t, result.HasErrors())
		require.True(t, result.HasWarnings())
	})

	t.Run("ColumnChanges", func(t *testing.T) {
		curr := usersFixture()
		curr.AddColumn(&Column{Name: "nick", Type: field.TypeString, Size: 64})
		want := usersFixture()
		want.AddColumn(&Column{Name: "nick", Type: field.TypeBytes, Size: 32, Unique: true})
		result := ValidateDiff([]*Table{curr}, []*Table{want})
		require.False(t, result.HasErrors())
		out := result.String()
		require.Contains(t, out, "column type changing")
		require.Contains(t, out, "column size reducing from 64 to 32")
		require.Contains(t, out, "adding UNIQUE constraint")
	})

	t.Run("DroppedIndex", func(t *testing.T) {
		curr := usersFixture()
		curr.AddIndex("users_name", false, []string{"name"})
		want := usersFixture()
		result := ValidateDiff([]*Table{curr}, []*Table{want})
		require.True(t, result.HasErrors())
		require.Contains(t, result.String(), `index "users_name" will be dropped`)

		result = ValidateDiff([]*Table{curr}, []*Table{want}, AllowDropIndex())
		require.False(t, result.HasErrors())
		require.True(t, result.HasWarnings())
	})

	t.Run("ForeignKeys", func(t *testing.T) {
		users := usersFixture()
		withFK, _ := petsFixture(users)
		withoutFK := NewTable("pets").
			AddPrimary(&Column{Name: "id", Type: field.TypeInt, Increment: true})
		withoutFK.AddColumn(&Column{Name: "owner_id", Type: field.TypeInt, Nullable: true})

		result := ValidateDiff([]*Table{users, withFK}, []*Table{users, withoutFK})
		require.True(t, result.HasErrors())
		require.True(t, result.HasBreakingChanges())
		require.Contains(t, result.String(), `foreign key "pets_users_owner" will be dropped`)

		result = ValidateDiff([]*Table{users, withFK}, []*Table{users, withoutFK}, AllowDropConstraint())
		require.False(t, result.HasErrors())
		require.True(t, result.HasWarnings())

		result = ValidateDiff([]*Table{users, withoutFK}, []*Table{users, withFK})
		require.False(t, result.HasErrors())
		require.Contains(t, result.String(), `adding foreign key "pets_users_owner" may fail`)
	})
}

func TestValidateSchema(t *testing.T) {
	t.Run("DuplicateTables", func(t *testing.T) {
		result := ValidateSchema([]*Table{usersFixture(), usersFixture()})
		require.True(t, result.HasErrors())
		require.Contains(t, result.String(), "duplicate table name")
	})

	t.Run("UnexportedTargetTable", func(t *testing.T) {
		users, pets := exportFixture()
		_ = users
		result := ValidateSchema([]*Table{pets})
		require.True(t, result.HasErrors())
		require.Contains(t, result.String(), `references non-existent table "users"`)
	})

	t.Run("Clean", func(t *testing.T) {
		users, pets := exportFixture()
		result := ValidateSchema([]*Table{users, pets})
		require.False(t, result.HasErrors())
		require.Equal(t, "No issues found", ValidateTable(users).String())
	})
}
