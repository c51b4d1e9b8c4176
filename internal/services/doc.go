// Package services defines the shared error taxonomy and context annotations
// used by curation components and external service clients.
package services
