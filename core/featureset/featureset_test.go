package featureset_test

import (
	"encoding/json"
	"strings"
	"testing"

	"transmute/core/featureset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const layerQuery = `{
	"objectIdFieldName": "OBJECTID",
	"geometryType": "esriGeometryPoint",
	"spatialReference": {"wkid": 4326},
	"fields": [
		{"name": "OBJECTID", "type": "esriFieldTypeOID", "alias": "OBJECTID"},
		{"name": "NAME", "type": "esriFieldTypeString", "length": 50}
	],
	"features": [
		{"attributes": {"OBJECTID": 9007199254740993, "NAME": "A"}, "geometry": {"x": 1, "y": 2}},
		{"attributes": {"OBJECTID": 2}}
	]
}`

func TestDecode(t *testing.T) {
	fs, err := featureset.Decode(strings.NewReader(layerQuery))
	require.NoError(t, err)

	assert.Equal(t, "OBJECTID", fs.ObjectIDFieldName)
	assert.Equal(t, 2, fs.Len())
	assert.True(t, fs.HasField("NAME"))
	assert.False(t, fs.HasField("MISSING"))

	t.Run("KeepsLargeIntegers", func(t *testing.T) {
		oid, ok := fs.ObjectID(fs.Features[0])
		assert.True(t, ok)
		assert.Equal(t, int64(9007199254740993), oid)
	})

	t.Run("NormalizesMissingAttributes", func(t *testing.T) {
		name, present := fs.Features[1].Attributes["NAME"]
		assert.True(t, present)
		assert.Nil(t, name)
	})

	t.Run("GeometryIsOpaque", func(t *testing.T) {
		assert.True(t, fs.Features[0].HasGeometry())
		assert.False(t, fs.Features[1].HasGeometry())
		assert.JSONEq(t, `{"x": 1, "y": 2}`, string(fs.Features[0].Geometry))
	})
}

func TestDecode_Invalid(t *testing.T) {
	_, err := featureset.DecodeBytes([]byte(`{"features": [`))
	assert.Error(t, err)
}

func TestFeatureSet_RoundTrip(t *testing.T) {
	fs, err := featureset.DecodeBytes([]byte(layerQuery))
	require.NoError(t, err)

	data, err := json.Marshal(fs)
	require.NoError(t, err)

	again, err := featureset.DecodeBytes(data)
	require.NoError(t, err)
	assert.Equal(t, fs.Fields, again.Fields)
	assert.Equal(t, fs.Features[0].Attributes, again.Features[0].Attributes)

	data2, err := json.Marshal(again)
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(data2))
}

func TestFeatureSet_CloneIsIndependent(t *testing.T) {
	fs, err := featureset.DecodeBytes([]byte(layerQuery))
	require.NoError(t, err)

	clone := fs.Clone()
	clone.Features[0].Attributes["NAME"] = "changed"
	clone.Fields[1].Name = "RENAMED"

	assert.Equal(t, "A", fs.Features[0].Attributes["NAME"])
	assert.Equal(t, "NAME", fs.Fields[1].Name)
}

func TestFeatureSet_Filter(t *testing.T) {
	fs, err := featureset.DecodeBytes([]byte(layerQuery))
	require.NoError(t, err)

	kept := fs.Filter(func(f featureset.Feature) bool {
		oid, _ := fs.ObjectID(f)
		return oid == 2
	})

	assert.Equal(t, 1, kept.Len())
	assert.Equal(t, 2, fs.Len())
	assert.Equal(t, fs.Fields, kept.Fields)
}

func TestSchema(t *testing.T) {
	schema := featureset.Schema{
		{Name: "OBJECTID", Type: featureset.FieldTypeOID},
		{Name: "NAME", Type: featureset.FieldTypeString},
		{Name: "REF", Type: featureset.FieldTypeInteger},
	}

	f, ok := schema.Lookup("REF")
	assert.True(t, ok)
	assert.Equal(t, featureset.FieldTypeInteger, f.Type)

	trimmed := schema.Without("REF", "NOPE")
	assert.Equal(t, []string{"OBJECTID", "NAME"}, trimmed.Names())
	assert.Len(t, schema, 3)
}
