package match

import (
	"curator/internal/affiliation"
	"curator/internal/doistore"
	"curator/internal/services/people"
)

// Outcome is the terminal state of one author's decision.
type Outcome string

const (
	OutcomeAccepted Outcome = "accepted"
	OutcomeRejected Outcome = "rejected"
	OutcomeDeferred Outcome = "deferred"
	OutcomeSkipped  Outcome = "skipped"
)

// Basis records what evidence produced a decision or candidate.
type Basis string

const (
	BasisOrcid           Basis = "orcid"
	BasisName            Basis = "name"
	BasisNameAffiliation Basis = "name+affiliation"
	BasisAffiliation     Basis = "affiliation"
	BasisNoMatch         Basis = "no-match"
	BasisManual          Basis = "manual"
)

// Candidate is one plausible employee match for an author, transient to a
// single invocation.
type Candidate struct {
	Employee people.Employee
	// Name is the employee name permutation that scored best.
	Name string
	// Score includes any organization-hint boost.
	Score float64
	// RawScore is the similarity before boosting.
	RawScore float64
	// Exact reports a full normalized-name equality with some permutation.
	Exact bool
	// HintMatch reports that a co-author organization hint matched.
	HintMatch bool
}

// Decision is the authoritative per-author result for one curation session.
type Decision struct {
	Author  doistore.Author
	Outcome Outcome
	Basis   Basis

	// EmployeeID and Employee are set for accepted outcomes.
	EmployeeID string
	Employee   *people.Employee
	Confidence float64

	// Candidates carries the ranked list for deferred outcomes.
	Candidates []Candidate

	AffiliationClass   affiliation.Class
	AffiliationPattern string

	// Conflict marks a deferral forced by inconsistent directory data.
	Conflict bool
	Note     string
}
