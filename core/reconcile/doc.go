// Package reconcile computes the edits that bring a destination layer in line with a
// source layer.
//
// Source and destination features are joined on a reference key: an integer field on the
// destination that holds the object id of the source feature it was copied from.
//
// # Pipeline
//
// 1. ValidateSchema gates the run: the destination must declare the reference field and,
// once that field is set aside, match the source field for field (name and type).
//
// 2. MaterializeReferenceKey copies each source object id into the reference field and
// drops the source object-id column, so source features look like destination rows.
//
// 3. Batch partitions the features. Source features whose key is unknown to the
// destination are adds; known keys are updates targeting the matching destination object
// id; destination features whose key no longer exists in the source are deletes.
//
// Every function here is pure: no I/O, deterministic output order.
//
// # Usage
//
//	if err := reconcile.ValidateSchema(src.Fields, dst.Fields, "SRC_OID"); err != nil {
//	    return err
//	}
//	staged, err := reconcile.MaterializeReferenceKey(*src, src.ObjectIDFieldName, "SRC_OID")
//	edits, err := reconcile.Batch(staged, *dst, dst.ObjectIDFieldName, "SRC_OID")
package reconcile
