package reconcile

import (
	"fmt"

	"transmute/core/featureset"
	"transmute/core/utils"

	"github.com/wI2L/jsondiff"
)

// UpdateChange is the JSON patch an update applies to the destination feature it targets.
type UpdateChange struct {
	ObjectID int64
	Patch    jsondiff.Patch
}

// Unchanged reports whether the update rewrites the feature with identical content.
func (c UpdateChange) Unchanged() bool {
	return len(c.Patch) == 0
}

// DescribeUpdates diffs every update in edits against the destination feature it replaces.
// It is used for verbose reporting only; the result never alters the batch.
func DescribeUpdates(edits *Edits, destination featureset.FeatureSet, destinationOIDField string) ([]UpdateChange, error) {
	if edits == nil || len(edits.Updates) == 0 {
		return nil, nil
	}

	current := make(map[int64]featureset.Feature, len(destination.Features))
	for _, f := range destination.Features {
		if oid, ok := utils.ToInt64(f.Attributes[destinationOIDField]); ok {
			current[oid] = f
		}
	}

	changes := make([]UpdateChange, 0, len(edits.Updates))
	for _, update := range edits.Updates {
		oid, ok := utils.ToInt64(update.Attributes[destinationOIDField])
		if !ok {
			return nil, fmt.Errorf("update has no %s value: %w", destinationOIDField, ErrMissingObjectID)
		}
		before, ok := current[oid]
		if !ok {
			return nil, fmt.Errorf("update targets unknown %s %d: %w", destinationOIDField, oid, ErrMissingObjectID)
		}

		patch, err := jsondiff.Compare(patchable(before), patchable(update))
		if err != nil {
			return nil, fmt.Errorf("failed to diff %s %d: %w", destinationOIDField, oid, err)
		}
		changes = append(changes, UpdateChange{ObjectID: oid, Patch: patch})
	}

	return changes, nil
}

// patchable projects a feature onto the document that is diffed. Attribute values are
// normalized by jsondiff's own marshal round trip, so json.Number and int64 compare equal.
func patchable(f featureset.Feature) map[string]any {
	out := map[string]any{"attributes": f.Attributes}
	if f.HasGeometry() {
		out["geometry"] = f.Geometry
	}
	return out
}
