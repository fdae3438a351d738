package reconcile

import "transmute/core/featureset"

const (
	refKey  = "SRC_OID"
	destOID = "OBJECTID"
)

func attrs(kv ...any) featureset.Feature {
	m := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		m[kv[i].(string)] = kv[i+1]
	}
	return featureset.Feature{Attributes: m}
}

func sourceSet(features ...featureset.Feature) featureset.FeatureSet {
	return featureset.FeatureSet{
		ObjectIDFieldName: "FID",
		Fields: featureset.Schema{
			{Name: "FID", Type: featureset.FieldTypeOID},
			{Name: "NAME", Type: featureset.FieldTypeString},
		},
		Features: features,
	}
}

// linkedDestination declares the reference field, as a destination that has been synced before.
func linkedDestination(features ...featureset.Feature) featureset.FeatureSet {
	return featureset.FeatureSet{
		ObjectIDFieldName: destOID,
		Fields: featureset.Schema{
			{Name: destOID, Type: featureset.FieldTypeOID},
			{Name: "NAME", Type: featureset.FieldTypeString},
			{Name: refKey, Type: featureset.FieldTypeInteger},
		},
		Features: features,
	}
}
