package reconcile

import (
	"encoding/json"
	"testing"

	"transmute/core/featureset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncateFieldName(t *testing.T) {
	assert.Equal(t, "SRC_OID", TruncateFieldName("SRC_OID"))
	assert.Equal(t, "0123456789", TruncateFieldName("0123456789"))
	assert.Equal(t, "SOURCE_OBJ", TruncateFieldName("SOURCE_OBJECTID"))
}

func TestMaterializeReferenceKey(t *testing.T) {
	source := sourceSet(
		attrs("FID", json.Number("1"), "NAME", "A", IndexField, 0),
		attrs("FID", json.Number("2"), "NAME", "B", IndexField, 1),
	)
	source.Fields = append(source.Fields, featureset.Field{Name: IndexField, Type: featureset.FieldTypeInteger})

	staged, err := MaterializeReferenceKey(source, "FID", refKey)
	require.NoError(t, err)

	assert.Equal(t, []string{"NAME", refKey}, staged.Fields.Names())
	assert.Empty(t, staged.ObjectIDFieldName)
	require.Equal(t, 2, staged.Len())
	assert.Equal(t, map[string]any{"NAME": "A", refKey: int64(1)}, staged.Features[0].Attributes)
	assert.Equal(t, map[string]any{"NAME": "B", refKey: int64(2)}, staged.Features[1].Attributes)

	// Input is untouched.
	assert.Contains(t, source.Features[0].Attributes, "FID")
	assert.NotContains(t, source.Features[0].Attributes, refKey)
}

func TestMaterializeReferenceKey_TruncatesName(t *testing.T) {
	staged, err := MaterializeReferenceKey(sourceSet(attrs("FID", 7, "NAME", "A")), "FID", "SOURCE_OBJECTID")
	require.NoError(t, err)
	assert.Equal(t, int64(7), staged.Features[0].Attributes["SOURCE_OBJ"])
	assert.True(t, staged.HasField("SOURCE_OBJ"))
}

func TestMaterializeReferenceKey_Errors(t *testing.T) {
	t.Run("MissingObjectID", func(t *testing.T) {
		_, err := MaterializeReferenceKey(sourceSet(attrs("FID", nil, "NAME", "A")), "FID", refKey)
		assert.ErrorIs(t, err, ErrMissingObjectID)
	})

	t.Run("DuplicateObjectID", func(t *testing.T) {
		_, err := MaterializeReferenceKey(sourceSet(attrs("FID", 1), attrs("FID", 1)), "FID", refKey)
		assert.ErrorIs(t, err, ErrDuplicateReferenceKey)
	})
}
