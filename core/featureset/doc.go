// Package featureset models the record sets exchanged with a GIS portal.
//
// A FeatureSet is an ordered list of features sharing one field list and one object-id
// field. Each Feature carries an attribute map and an optional geometry payload that is
// kept as raw JSON and never interpreted.
//
// # Wire Format
//
// The types serialize to the portal's FeatureSet JSON:
//
//	{
//	  "objectIdFieldName": "OBJECTID",
//	  "geometryType": "esriGeometryPoint",
//	  "fields": [{"name": "OBJECTID", "type": "esriFieldTypeOID"}],
//	  "features": [{"attributes": {"OBJECTID": 1}, "geometry": {"x": 1, "y": 2}}]
//	}
//
// Decode keeps numbers as json.Number so integer identifiers survive a round trip
// without being widened to float64.
package featureset
