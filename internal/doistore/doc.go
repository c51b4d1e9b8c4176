// Package doistore persists DOI records and session audit events in SQLite.
// Records are stored as JSON documents; the institutional author fields are
// the only part of a record this tool ever rewrites.
package doistore
