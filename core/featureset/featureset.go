package featureset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"transmute/core/utils"
)

// Len returns the number of features.
func (fs *FeatureSet) Len() int {
	return len(fs.Features)
}

// HasField reports whether the set declares a field with the given name.
func (fs *FeatureSet) HasField(name string) bool {
	return fs.Fields.Has(name)
}

// ObjectID returns the object id of f as declared by the set.
func (fs *FeatureSet) ObjectID(f Feature) (int64, bool) {
	if fs.ObjectIDFieldName == "" {
		return 0, false
	}
	return utils.ToInt64(f.Attributes[fs.ObjectIDFieldName])
}

// Normalize fills every declared field that a feature lacks with nil so that all
// features share the same attribute set.
func (fs *FeatureSet) Normalize() {
	for i := range fs.Features {
		if fs.Features[i].Attributes == nil {
			fs.Features[i].Attributes = make(map[string]any, len(fs.Fields))
		}
		for _, field := range fs.Fields {
			if _, ok := fs.Features[i].Attributes[field.Name]; !ok {
				fs.Features[i].Attributes[field.Name] = nil
			}
		}
	}
}

// Clone returns a deep copy of the attribute maps and field list.
// Geometry payloads are shared since they are never modified.
func (fs *FeatureSet) Clone() FeatureSet {
	out := *fs
	out.Fields = append(Schema(nil), fs.Fields...)
	out.Features = make([]Feature, len(fs.Features))
	for i, f := range fs.Features {
		out.Features[i] = f.Clone()
	}
	return out
}

// Filter returns a copy holding only the features for which keep returns true.
func (fs *FeatureSet) Filter(keep func(Feature) bool) FeatureSet {
	out := *fs
	out.Fields = append(Schema(nil), fs.Fields...)
	out.Features = make([]Feature, 0, len(fs.Features))
	for _, f := range fs.Features {
		if keep(f) {
			out.Features = append(out.Features, f.Clone())
		}
	}
	return out
}

// Clone copies the attribute map.
func (f Feature) Clone() Feature {
	attrs := make(map[string]any, len(f.Attributes))
	for k, v := range f.Attributes {
		attrs[k] = v
	}
	return Feature{Attributes: attrs, Geometry: f.Geometry}
}

// HasGeometry reports whether the feature carries a non-null geometry.
func (f Feature) HasGeometry() bool {
	trimmed := bytes.TrimSpace(f.Geometry)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// Decode reads a FeatureSet from r, keeping numbers as json.Number, and normalizes it.
func Decode(r io.Reader) (*FeatureSet, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var fs FeatureSet
	if err := dec.Decode(&fs); err != nil {
		return nil, fmt.Errorf("failed to decode feature set: %w", err)
	}
	fs.Normalize()
	return &fs, nil
}

// DecodeBytes is Decode over an in-memory document.
func DecodeBytes(data []byte) (*FeatureSet, error) {
	return Decode(bytes.NewReader(data))
}
