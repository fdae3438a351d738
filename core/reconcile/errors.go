package reconcile

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingReferenceField is returned when the destination lacks an integer reference field.
	ErrMissingReferenceField = errors.New("missing reference field")
	// ErrSchemaMismatch is returned when source and destination fields differ.
	ErrSchemaMismatch = errors.New("schema mismatch")
	// ErrDuplicateReferenceKey is returned when one reference key maps to several features.
	ErrDuplicateReferenceKey = errors.New("duplicate reference key")
	// ErrMissingObjectID is returned when a feature has no usable object id.
	ErrMissingObjectID = errors.New("missing object id")
)

// SchemaMismatchError lists every difference found between two schemas.
type SchemaMismatchError struct {
	// MissingInDestination lists source fields the destination does not declare.
	MissingInDestination []string

	// MissingInSource lists destination fields the source does not declare.
	MissingInSource []string

	// TypeMismatches describes fields declared on both sides with different types.
	TypeMismatches []string
}

func (e *SchemaMismatchError) Error() string {
	var parts []string
	if len(e.MissingInDestination) > 0 {
		parts = append(parts, fmt.Sprintf("missing in destination: %v", e.MissingInDestination))
	}
	if len(e.MissingInSource) > 0 {
		parts = append(parts, fmt.Sprintf("missing in source: %v", e.MissingInSource))
	}
	if len(e.TypeMismatches) > 0 {
		parts = append(parts, fmt.Sprintf("type mismatch: %v", e.TypeMismatches))
	}
	return fmt.Sprintf("source and destination schemas do not match (%s)", strings.Join(parts, "; "))
}

func (e *SchemaMismatchError) Is(target error) bool {
	return target == ErrSchemaMismatch
}

// DuplicateKeyError reports reference keys held by more than one destination feature.
type DuplicateKeyError struct {
	Field string
	Keys  []int64
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("reference field %s holds duplicate keys: %v", e.Field, e.Keys)
}

func (e *DuplicateKeyError) Is(target error) bool {
	return target == ErrDuplicateReferenceKey
}
