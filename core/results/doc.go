// Package results interprets the per-feature outcome of an edit submission.
//
// An EditResponse mirrors the portal's applyEdits payload. A nil result list means the
// category was not part of the submission, which is different from a submitted
// category that produced no rows. Report renders success and failure lines per
// category and refuses to summarize a category that was not attempted.
package results
