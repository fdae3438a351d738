// Package utils provides common utility functions for transmute.
// It includes the HTTP transport shared by the portal and storage clients, and helpers
// for converting loosely typed attribute values (as decoded from portal JSON) into the
// concrete types the reconcile logic compares.
package utils
