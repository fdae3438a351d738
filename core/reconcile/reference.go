package reconcile

import (
	"fmt"

	"transmute/core/featureset"
	"transmute/core/utils"
)

// TruncateFieldName shortens name to MaxFieldNameLength characters.
func TruncateFieldName(name string) string {
	runes := []rune(name)
	if len(runes) <= MaxFieldNameLength {
		return name
	}
	return string(runes[:MaxFieldNameLength])
}

// MaterializeReferenceKey returns a copy of source in which every feature carries its
// object id under the (truncated) reference key. The object-id column and the positional
// index column are removed from both the attributes and the field list.
func MaterializeReferenceKey(source featureset.FeatureSet, sourceOIDField, referenceKey string) (featureset.FeatureSet, error) {
	refField := TruncateFieldName(referenceKey)

	out := source.Clone()
	out.Fields = out.Fields.Without(sourceOIDField, IndexField, refField)
	out.Fields = append(out.Fields, featureset.Field{
		Name:  refField,
		Type:  featureset.FieldTypeInteger,
		Alias: refField,
	})
	out.ObjectIDFieldName = ""

	seen := make(map[int64]int, len(out.Features))
	for i := range out.Features {
		attrs := out.Features[i].Attributes
		oid, ok := utils.ToInt64(attrs[sourceOIDField])
		if !ok {
			return featureset.FeatureSet{}, fmt.Errorf("source feature at position %d has no %s value: %w", i, sourceOIDField, ErrMissingObjectID)
		}
		if first, dup := seen[oid]; dup {
			return featureset.FeatureSet{}, fmt.Errorf("source features at positions %d and %d share object id %d: %w", first, i, oid, ErrDuplicateReferenceKey)
		}
		seen[oid] = i

		delete(attrs, sourceOIDField)
		delete(attrs, IndexField)
		attrs[refField] = oid
	}

	return out, nil
}
