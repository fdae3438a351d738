// Package history keeps a ledger of sync runs in the optional history database.
//
// Each sync writes one Run row to the sync_runs table: which layers were involved, how many
// adds, updates and deletes were planned and how many failed, the backup path and the final
// status. Nop is used when the database is disabled.
package history
