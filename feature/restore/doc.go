// Package restore replays backup files written by a sync run.
//
// Each backup is read with the backup store and compared with the rows currently on the
// layer URL it records. Features whose object id, or reference key when the backup names
// one, is still live are skipped. The rest lose their object and global ids and are
// submitted as adds.
package restore
