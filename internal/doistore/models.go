package doistore

import (
	"strings"
	"time"
)

// Author is one author entry extracted from a DOI record. Immutable once
// ingested.
type Author struct {
	Given        string   `json:"given,omitempty"`
	Family       string   `json:"family,omitempty"`
	Name         string   `json:"name,omitempty"`
	ORCID        string   `json:"orcid,omitempty"`
	Affiliations []string `json:"affiliations,omitempty"`
}

// DisplayName returns "Given Family" or the single-string name form.
func (a Author) DisplayName() string {
	full := strings.TrimSpace(strings.TrimSpace(a.Given) + " " + strings.TrimSpace(a.Family))
	if full != "" {
		return full
	}
	return strings.TrimSpace(a.Name)
}

// ListedName returns the "Family, Given" form used for the stored first and
// last author fields.
func (a Author) ListedName() string {
	family := strings.TrimSpace(a.Family)
	given := strings.TrimSpace(a.Given)
	switch {
	case family != "" && given != "":
		return family + ", " + given
	case family != "":
		return family
	default:
		return strings.TrimSpace(a.Name)
	}
}

// Record is one stored DOI document.
type Record struct {
	DOI       string
	Title     string
	Journal   string
	Published string
	Authors   []Author

	// JRCAuthor holds the confirmed institutional author employee IDs.
	JRCAuthor []string
	// First and last author fields are derived from author order on commit.
	JRCFirstAuthor []string
	JRCFirstID     []string
	JRCLastAuthor  string
	JRCLastID      string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AuthorUpdate is a single-document update of the institutional author
// fields. An empty Authors list clears every field, matching the unset
// behavior of the surrounding tooling.
type AuthorUpdate struct {
	Authors     []string
	FirstAuthor []string
	FirstID     []string
	LastAuthor  string
	LastID      string
}

// AuditEvent is one append-only record of a curation decision.
type AuditEvent struct {
	ID         int64
	SessionID  string
	DOI        string
	Author     string
	Outcome    string
	Basis      string
	EmployeeID string
	Confidence float64
	Detail     string
	CreatedAt  time.Time
}
