package reconcile

import (
	"fmt"
	"sort"

	"transmute/core/featureset"
	"transmute/core/utils"
)

// Batch partitions source features into adds and updates, and destination features into
// deletes, by joining on referenceKey.
//
// source must already carry the reference key (see MaterializeReferenceKey). When the
// destination does not declare the reference field it is treated as a first sync: every
// source feature is an add and no updates or deletes are computed.
func Batch(source, destination featureset.FeatureSet, destinationOIDField, referenceKey string) (*Edits, error) {
	refField := TruncateFieldName(referenceKey)
	linked := destination.HasField(refField)

	existing := map[int64]int64{}
	if linked {
		var err error
		existing, err = indexDestination(destination, destinationOIDField, refField)
		if err != nil {
			return nil, err
		}
	}

	edits := &Edits{}
	sourceKeys := make(map[int64]struct{}, len(source.Features))

	for i, f := range source.Features {
		key, ok := utils.ToInt64(f.Attributes[refField])
		if !ok {
			return nil, fmt.Errorf("source feature at position %d has no %s value: %w", i, refField, ErrMissingObjectID)
		}
		sourceKeys[key] = struct{}{}

		oid, known := existing[key]
		if !known {
			add := f.Clone()
			delete(add.Attributes, destinationOIDField)
			edits.Adds = append(edits.Adds, add)
			continue
		}

		update := f.Clone()
		update.Attributes[destinationOIDField] = oid
		edits.Updates = append(edits.Updates, update)
	}

	if !linked {
		return edits, nil
	}

	for i, f := range destination.Features {
		key, ok := utils.ToInt64(f.Attributes[refField])
		if ok {
			if _, present := sourceKeys[key]; present {
				continue
			}
		}
		oid, ok := utils.ToInt64(f.Attributes[destinationOIDField])
		if !ok {
			return nil, fmt.Errorf("destination feature at position %d has no %s value: %w", i, destinationOIDField, ErrMissingObjectID)
		}
		edits.Deletes = append(edits.Deletes, oid)
	}

	return edits, nil
}

// indexDestination maps each non-null reference key to the destination object id holding it.
func indexDestination(destination featureset.FeatureSet, oidField, refField string) (map[int64]int64, error) {
	index := make(map[int64]int64, len(destination.Features))
	dups := map[int64]struct{}{}

	for i, f := range destination.Features {
		key, ok := utils.ToInt64(f.Attributes[refField])
		if !ok {
			// Rows created outside the sync have no key; they are delete candidates only.
			continue
		}
		oid, ok := utils.ToInt64(f.Attributes[oidField])
		if !ok {
			return nil, fmt.Errorf("destination feature at position %d has no %s value: %w", i, oidField, ErrMissingObjectID)
		}
		if _, seen := index[key]; seen {
			dups[key] = struct{}{}
			continue
		}
		index[key] = oid
	}

	if len(dups) > 0 {
		keys := make([]int64, 0, len(dups))
		for k := range dups {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
		return nil, &DuplicateKeyError{Field: refField, Keys: keys}
	}

	return index, nil
}
