// Package sync runs one source to destination layer synchronization.
//
// Service.Run performs the stages in order: fetch the source layer, fetch the destination
// layer, validate the schemas, materialize the reference key on the source, batch the edits,
// stage a backup of the destination, submit the edits, report the per-feature results,
// finalize the backup and record the run in the history database.
//
// A failure in any stage aborts the run. Partial success of the submission is not an error:
// failures are logged from the edit response and counted in the history row.
package sync
