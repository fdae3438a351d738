package featureset

import "encoding/json"

// FieldType is the portal's declared column type.
type FieldType string

const (
	FieldTypeOID          FieldType = "esriFieldTypeOID"
	FieldTypeSmallInteger FieldType = "esriFieldTypeSmallInteger"
	FieldTypeInteger      FieldType = "esriFieldTypeInteger"
	FieldTypeBigInteger   FieldType = "esriFieldTypeBigInteger"
	FieldTypeSingle       FieldType = "esriFieldTypeSingle"
	FieldTypeDouble       FieldType = "esriFieldTypeDouble"
	FieldTypeString       FieldType = "esriFieldTypeString"
	FieldTypeDate         FieldType = "esriFieldTypeDate"
	FieldTypeGeometry     FieldType = "esriFieldTypeGeometry"
	FieldTypeGlobalID     FieldType = "esriFieldTypeGlobalID"
	FieldTypeGUID         FieldType = "esriFieldTypeGUID"
)

// Field describes one column of a layer.
type Field struct {
	// Name is the column name.
	Name string `json:"name"`

	// Type is the declared column type.
	Type FieldType `json:"type"`

	// Alias is the display name. It is not part of schema comparison.
	Alias string `json:"alias,omitempty"`

	// Length is the declared width of string columns.
	Length int `json:"length,omitempty"`
}

// Feature is a single record: attributes plus an opaque geometry.
type Feature struct {
	// Attributes maps field name to value. Missing values are nil, never absent.
	Attributes map[string]any `json:"attributes"`

	// Geometry is passed through untouched. Empty for tables.
	Geometry json.RawMessage `json:"geometry,omitempty"`
}

// FeatureSet is an ordered collection of features sharing one schema.
type FeatureSet struct {
	// ObjectIDFieldName names the backend-assigned identifier column.
	ObjectIDFieldName string `json:"objectIdFieldName,omitempty"`

	// GlobalIDFieldName names the global id column, if the layer has one.
	GlobalIDFieldName string `json:"globalIdFieldName,omitempty"`

	// GeometryType is the esri geometry type. Empty for tables.
	GeometryType string `json:"geometryType,omitempty"`

	// SpatialReference is passed through untouched.
	SpatialReference json.RawMessage `json:"spatialReference,omitempty"`

	// Fields is the declared schema in backend order.
	Fields Schema `json:"fields"`

	// Features holds the records in query order.
	Features []Feature `json:"features"`
}

// Schema is a list of field descriptors.
type Schema []Field
