package reconcile

import (
	"errors"
	"testing"

	"transmute/core/featureset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSchema(t *testing.T) {
	source := featureset.Schema{
		{Name: "OBJECTID", Type: featureset.FieldTypeOID},
		{Name: "NAME", Type: featureset.FieldTypeString},
		{Name: "DEPTH", Type: featureset.FieldTypeDouble},
	}

	t.Run("AcceptsWhenOnlyReferenceFieldDiffers", func(t *testing.T) {
		destination := featureset.Schema{
			{Name: "DEPTH", Type: featureset.FieldTypeDouble},
			{Name: refKey, Type: featureset.FieldTypeInteger},
			{Name: "OBJECTID", Type: featureset.FieldTypeOID},
			{Name: "NAME", Type: featureset.FieldTypeString, Alias: "Display Name"},
		}
		assert.NoError(t, ValidateSchema(source, destination, refKey))
	})

	t.Run("AcceptsBigIntegerReference", func(t *testing.T) {
		destination := append(featureset.Schema{{Name: refKey, Type: featureset.FieldTypeBigInteger}}, source...)
		assert.NoError(t, ValidateSchema(source, destination, refKey))
	})

	t.Run("RejectsMissingReferenceField", func(t *testing.T) {
		err := ValidateSchema(source, source, refKey)
		assert.ErrorIs(t, err, ErrMissingReferenceField)
		assert.Contains(t, err.Error(), refKey)
	})

	t.Run("RejectsNonIntegerReferenceField", func(t *testing.T) {
		destination := append(featureset.Schema{{Name: refKey, Type: featureset.FieldTypeString}}, source...)
		assert.ErrorIs(t, ValidateSchema(source, destination, refKey), ErrMissingReferenceField)
	})

	t.Run("RejectsExtraDestinationField", func(t *testing.T) {
		destination := append(featureset.Schema{
			{Name: refKey, Type: featureset.FieldTypeInteger},
			{Name: "EXTRA", Type: featureset.FieldTypeString},
		}, source...)

		err := ValidateSchema(source, destination, refKey)
		require.ErrorIs(t, err, ErrSchemaMismatch)

		var mismatch *SchemaMismatchError
		require.True(t, errors.As(err, &mismatch))
		assert.Equal(t, []string{"EXTRA"}, mismatch.MissingInSource)
		assert.Empty(t, mismatch.MissingInDestination)
	})

	t.Run("RejectsMissingDestinationField", func(t *testing.T) {
		destination := featureset.Schema{
			{Name: refKey, Type: featureset.FieldTypeInteger},
			{Name: "OBJECTID", Type: featureset.FieldTypeOID},
			{Name: "NAME", Type: featureset.FieldTypeString},
		}

		var mismatch *SchemaMismatchError
		require.True(t, errors.As(ValidateSchema(source, destination, refKey), &mismatch))
		assert.Equal(t, []string{"DEPTH"}, mismatch.MissingInDestination)
	})

	t.Run("RejectsTypeChange", func(t *testing.T) {
		destination := featureset.Schema{
			{Name: refKey, Type: featureset.FieldTypeInteger},
			{Name: "OBJECTID", Type: featureset.FieldTypeOID},
			{Name: "NAME", Type: featureset.FieldTypeString},
			{Name: "DEPTH", Type: featureset.FieldTypeInteger},
		}

		err := ValidateSchema(source, destination, refKey)
		var mismatch *SchemaMismatchError
		require.True(t, errors.As(err, &mismatch))
		require.Len(t, mismatch.TypeMismatches, 1)
		assert.Contains(t, mismatch.TypeMismatches[0], "DEPTH")
		assert.Contains(t, err.Error(), "type mismatch")
	})

	t.Run("RejectsUntruncatedLongReferenceField", func(t *testing.T) {
		destination := append(featureset.Schema{{Name: "SOURCE_OBJECTID", Type: featureset.FieldTypeInteger}}, source...)

		err := ValidateSchema(source, destination, "SOURCE_OBJECTID")
		require.ErrorIs(t, err, ErrMissingReferenceField)
		assert.Contains(t, err.Error(), "SOURCE_OBJ")
	})

	t.Run("AcceptsTruncatedLongReferenceField", func(t *testing.T) {
		destination := append(featureset.Schema{{Name: "SOURCE_OBJ", Type: featureset.FieldTypeInteger}}, source...)
		assert.NoError(t, ValidateSchema(source, destination, "SOURCE_OBJECTID"))
	})
}
