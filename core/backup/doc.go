// Package backup persists snapshots of a destination layer taken before edits are applied.
//
// A run stages the destination record set with Stage, submits its edits, and then calls
// Finalize with the edit response. Finalize drops features whose deletion succeeded and writes
// the rest to <dir>/<id>-<layer name>.json.bak, optionally mirroring the file to object
// storage. Restore reads such a file back, from disk or from an s3://bucket/key reference.
//
// Backups are opt-in: a Store created with an empty directory stages nothing.
package backup
