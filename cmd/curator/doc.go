// Command curator maintains the institutional author lists of DOI records:
// it ingests publication metadata, matches authors against the personnel
// directory, and records confirmed employee IDs with a full audit trail.
package main
