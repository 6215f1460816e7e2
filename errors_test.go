package strata_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strataorm/strata"
)

func TestMappingError(t *testing.T) {
	t.Parallel()

	err := strata.NewMappingError("more constraint columns than foreign key target columns")
	require.Error(t, err)
	assert.Equal(t, "strata: mapping error: more constraint columns than foreign key target columns", err.Error())
	assert.True(t, strata.IsMappingError(err))
	assert.True(t, errors.Is(err, strata.ErrMapping))

	// Wrapped mapping errors are still detectable.
	wrapped := fmt.Errorf("binding entity %q: %w", "User", err)
	assert.True(t, strata.IsMappingError(wrapped))
	assert.True(t, errors.Is(wrapped, strata.ErrMapping))

	assert.False(t, strata.IsMappingError(nil))
	assert.False(t, strata.IsMappingError(errors.New("other")))
}

func TestMappingErrorf(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	err := strata.NewMappingErrorf("parsing descriptor: %w", cause)
	assert.True(t, strata.IsMappingError(err))
	assert.Contains(t, err.Error(), "parsing descriptor: boom")
}

func TestValidationError(t *testing.T) {
	t.Parallel()

	cause := errors.New("duplicate column name")
	err := strata.NewValidationError("users", cause)
	assert.Equal(t, `strata: validator failed for "users": duplicate column name`, err.Error())
	assert.True(t, strata.IsValidationError(err))
	assert.ErrorIs(t, err, cause)
	assert.False(t, strata.IsValidationError(errors.New("other")))
}

func TestConstraintError(t *testing.T) {
	t.Parallel()

	cause := errors.New("violates foreign key constraint")
	err := strata.NewConstraintError(`ALTER TABLE "pets" ADD CONSTRAINT "pets_owner"`, cause)
	assert.Equal(t, `strata: exec "ALTER TABLE \"pets\" ADD CONSTRAINT \"pets_owner\"": violates foreign key constraint`, err.Error())
	assert.True(t, strata.IsConstraintError(err))
	assert.ErrorIs(t, err, cause)

	wrapped := fmt.Errorf("exporting schema: %w", err)
	assert.True(t, strata.IsConstraintError(wrapped))
	assert.False(t, strata.IsConstraintError(nil))
}

func TestUnregisteredError(t *testing.T) {
	t.Parallel()

	err := strata.NewUnregisteredError("Pet")
	assert.Equal(t, `strata: entity "Pet" not registered`, err.Error())
	assert.Equal(t, "Pet", err.Entity())
	assert.True(t, strata.IsUnregistered(err))
	assert.True(t, errors.Is(err, strata.ErrUnregistered))
	assert.False(t, strata.IsUnregistered(nil))
}

func TestSchemaDefaultMethods(t *testing.T) {
	t.Parallel()

	type TestSchema struct {
		strata.Schema
	}

	s := TestSchema{}
	assert.Nil(t, s.Fields())
	assert.Nil(t, s.Edges())
	assert.Nil(t, s.Indexes())
	assert.Nil(t, s.Mixin())
	assert.Nil(t, s.Annotations())
}
