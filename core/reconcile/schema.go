package reconcile

import (
	"fmt"
	"sort"

	"transmute/core/featureset"
)

// IsReferenceType reports whether a field type can hold a reference key.
func IsReferenceType(t featureset.FieldType) bool {
	return t == featureset.FieldTypeInteger || t == featureset.FieldTypeBigInteger
}

// ValidateSchema checks that destination declares the reference field as an integer field and
// that, with that field set aside, source and destination declare the same (name, type)
// pairs. Field order, aliases and lengths are not compared.
//
// The reference field is looked up under TruncateFieldName(referenceKey), the name
// MaterializeReferenceKey and Batch read and write.
func ValidateSchema(source, destination featureset.Schema, referenceKey string) error {
	refField := TruncateFieldName(referenceKey)
	ref, ok := destination.Lookup(refField)
	if !ok || !IsReferenceType(ref.Type) {
		if refField != referenceKey && destination.Has(referenceKey) {
			return fmt.Errorf("destination declares %q but reference fields are limited to %d characters, expected %q: %w",
				referenceKey, MaxFieldNameLength, refField, ErrMissingReferenceField)
		}
		return fmt.Errorf("destination does not contain required integer reference field %q: %w", refField, ErrMissingReferenceField)
	}

	return compareSchemas(source, destination.Without(refField))
}

func compareSchemas(source, destination featureset.Schema) error {
	srcTypes := typesByName(source)
	dstTypes := typesByName(destination)

	mismatch := &SchemaMismatchError{}
	for name, srcType := range srcTypes {
		dstType, ok := dstTypes[name]
		if !ok {
			mismatch.MissingInDestination = append(mismatch.MissingInDestination, name)
			continue
		}
		if dstType != srcType {
			mismatch.TypeMismatches = append(mismatch.TypeMismatches,
				fmt.Sprintf("%s: source=%s destination=%s", name, srcType, dstType))
		}
	}
	for name := range dstTypes {
		if _, ok := srcTypes[name]; !ok {
			mismatch.MissingInSource = append(mismatch.MissingInSource, name)
		}
	}

	if len(mismatch.MissingInDestination) == 0 && len(mismatch.MissingInSource) == 0 && len(mismatch.TypeMismatches) == 0 {
		return nil
	}

	sort.Strings(mismatch.MissingInDestination)
	sort.Strings(mismatch.MissingInSource)
	sort.Strings(mismatch.TypeMismatches)
	return mismatch
}

func typesByName(schema featureset.Schema) map[string]featureset.FieldType {
	types := make(map[string]featureset.FieldType, len(schema))
	for _, f := range schema {
		types[f.Name] = f.Type
	}
	return types
}
