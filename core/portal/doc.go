// Package portal is the client side of the GIS portal.
//
// Session is the narrow interface the sync and restore runs depend on: fetch an item,
// list its layers, read layer metadata, query features and apply edits. Client implements
// it over the portal REST API with token authentication.
//
// # Errors
//
// Every error returned by a Client method is a *Error and matches ErrCollaboratorFailure with
// errors.Is. Portal-level failures that arrive with HTTP 200 (the {"error": {...}}
// envelope) are converted as well.
//
// # Paging
//
// Query keeps requesting pages with resultOffset while the server sets
// exceededTransferLimit, so callers always receive the complete record set.
package portal
