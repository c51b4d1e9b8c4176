package match_test

import (
	"context"
	"errors"
	"testing"

	"curator/internal/affiliation"
	"curator/internal/doistore"
	"curator/internal/logging"
	"curator/internal/match"
	"curator/internal/services"
	"curator/internal/services/people"
	"curator/internal/testsupport"
)

func newClassifier(t *testing.T) *affiliation.Classifier {
	t.Helper()
	classifier, err := affiliation.NewClassifier(affiliation.DefaultInclude, affiliation.DefaultExclude)
	if err != nil {
		t.Fatalf("NewClassifier failed: %v", err)
	}
	return classifier
}

func newEngine(t *testing.T, dir people.Directory) *match.Engine {
	t.Helper()
	return match.NewEngine(dir, newClassifier(t), defaultMatching(), logging.NewNop())
}

func TestDecideOrcidShortCircuit(t *testing.T) {
	dir := &testsupport.FakeDirectory{Employees: []people.Employee{
		{EmployeeID: "12345", FirstLegal: "Jane", MiddleLegal: "Quincy", LastLegal: "Smith", ORCID: "0000-0002-1111-2222"},
	}}
	engine := newEngine(t, dir)

	author := doistore.Author{
		Given:        "Jane Q.",
		Family:       "Smith",
		ORCID:        "0000-0002-1111-2222",
		Affiliations: []string{"Janelia Research Campus"},
	}
	decision, err := engine.Decide(context.Background(), author, match.NewHintCache())
	if err != nil {
		t.Fatalf("Decide failed: %v", err)
	}
	if decision.Outcome != match.OutcomeAccepted || decision.Basis != match.BasisOrcid {
		t.Fatalf("expected orcid auto-accept, got %+v", decision)
	}
	if decision.EmployeeID != "12345" || decision.Confidence != 1 {
		t.Fatalf("unexpected acceptance payload: %+v", decision)
	}
	if dir.SearchCalls != 0 {
		t.Fatalf("orcid short-circuit must never invoke the candidate generator (searches=%d)", dir.SearchCalls)
	}
}

func TestDecideOrcidConflictDefers(t *testing.T) {
	dir := &testsupport.FakeDirectory{Employees: []people.Employee{
		{EmployeeID: "100", FirstLegal: "Amir", LastLegal: "Khan", ORCID: "0000-0002-1825-0097"},
		{EmployeeID: "201", FirstLegal: "Amira", LastLegal: "Khanna", ORCID: "0000-0002-1825-0097"},
	}}
	engine := newEngine(t, dir)

	author := doistore.Author{Given: "Amir", Family: "Khan", ORCID: "0000-0002-1825-0097"}
	decision, err := engine.Decide(context.Background(), author, match.NewHintCache())
	if err != nil {
		t.Fatalf("Decide failed: %v", err)
	}
	if decision.Outcome != match.OutcomeDeferred || !decision.Conflict {
		t.Fatalf("shared ORCID must defer with the conflict flag, got %+v", decision)
	}
	if len(decision.Candidates) != 2 {
		t.Fatalf("expected both conflicting records attached, got %d", len(decision.Candidates))
	}
	if dir.SearchCalls != 0 {
		t.Fatal("conflict deferral must not fall through to name matching")
	}
}

func TestDecideOrcidAlumniFallsThrough(t *testing.T) {
	dir := &testsupport.FakeDirectory{Employees: []people.Employee{
		{EmployeeID: "100", FirstLegal: "Jane", LastLegal: "Smith", ORCID: "0000-0002-1111-2222", Alumni: true},
	}}
	engine := newEngine(t, dir)

	author := doistore.Author{
		Given:        "Jane",
		Family:       "Smith",
		ORCID:        "0000-0002-1111-2222",
		Affiliations: []string{"Janelia Research Campus"},
	}
	decision, err := engine.Decide(context.Background(), author, match.NewHintCache())
	if err != nil {
		t.Fatalf("Decide failed: %v", err)
	}
	if decision.Basis == match.BasisOrcid {
		t.Fatalf("alumni ORCID hit must fall through to name matching, got %+v", decision)
	}
	if dir.SearchCalls != 1 {
		t.Fatalf("expected one candidate search after fall-through, got %d", dir.SearchCalls)
	}
}

func TestDecideMalformedOrcidIsLocal(t *testing.T) {
	dir := &testsupport.FakeDirectory{Employees: []people.Employee{
		{EmployeeID: "100", FirstLegal: "Jane", LastLegal: "Smith"},
	}}
	engine := newEngine(t, dir)

	author := doistore.Author{
		Given:        "Jane",
		Family:       "Smith",
		ORCID:        "not-an-orcid",
		Affiliations: []string{"Janelia Research Campus"},
	}
	decision, err := engine.Decide(context.Background(), author, match.NewHintCache())
	if err != nil {
		t.Fatalf("a malformed ORCID must not abort the author: %v", err)
	}
	if decision.Outcome != match.OutcomeAccepted || decision.Basis != match.BasisNameAffiliation {
		t.Fatalf("expected name-based acceptance after ORCID fallback, got %+v", decision)
	}
	if decision.Note == "" {
		t.Fatal("expected a note recording the ignored identifier")
	}
}

func TestDecideNameAffiliationAutoAccept(t *testing.T) {
	dir := &testsupport.FakeDirectory{Employees: []people.Employee{
		{EmployeeID: "12345", FirstLegal: "Jane", MiddleLegal: "Quincy", LastLegal: "Smith"},
	}}
	engine := newEngine(t, dir)

	author := doistore.Author{
		Given:        "Jane Q.",
		Family:       "Smith",
		Affiliations: []string{"Janelia Research Campus, Ashburn, VA"},
	}
	decision, err := engine.Decide(context.Background(), author, match.NewHintCache())
	if err != nil {
		t.Fatalf("Decide failed: %v", err)
	}
	if decision.Outcome != match.OutcomeAccepted || decision.Basis != match.BasisNameAffiliation {
		t.Fatalf("expected name+affiliation auto-accept, got %+v", decision)
	}
	if decision.EmployeeID != "12345" {
		t.Fatalf("unexpected employee: %+v", decision)
	}
}

func TestDecideNonInstitutionalAutoRejects(t *testing.T) {
	dir := &testsupport.FakeDirectory{Employees: []people.Employee{
		{EmployeeID: "100", FirstLegal: "John", LastLegal: "Doe"},
	}}
	engine := newEngine(t, dir)

	author := doistore.Author{
		Given:        "John",
		Family:       "Doe",
		Affiliations: []string{"123 Main St, Springfield"},
	}
	decision, err := engine.Decide(context.Background(), author, match.NewHintCache())
	if err != nil {
		t.Fatalf("Decide failed: %v", err)
	}
	if decision.Outcome != match.OutcomeRejected || decision.Basis != match.BasisAffiliation {
		t.Fatalf("non-institutional affiliation must auto-reject, got %+v", decision)
	}
	if dir.SearchCalls != 0 {
		t.Fatal("a rejected affiliation must not consult the directory")
	}
}

func TestDecideUnknownAffiliationNeverAutoAccepts(t *testing.T) {
	dir := &testsupport.FakeDirectory{Employees: []people.Employee{
		{EmployeeID: "100", FirstLegal: "Jane", LastLegal: "Smith"},
	}}
	engine := newEngine(t, dir)

	decision, err := engine.Decide(context.Background(), doistore.Author{Given: "Jane", Family: "Smith"}, match.NewHintCache())
	if err != nil {
		t.Fatalf("Decide failed: %v", err)
	}
	if decision.Outcome != match.OutcomeDeferred {
		t.Fatalf("a perfect name match without affiliation evidence must defer, got %+v", decision)
	}
	if decision.AffiliationClass != affiliation.ClassUnknown {
		t.Fatalf("expected unknown affiliation class, got %q", decision.AffiliationClass)
	}
}

func TestDecideMarginTooSmallDefers(t *testing.T) {
	dir := &testsupport.FakeDirectory{Employees: []people.Employee{
		{EmployeeID: "100", FirstLegal: "Jennifer", LastLegal: "Lee"},
		{EmployeeID: "200", FirstLegal: "Jonathan", LastLegal: "Lee"},
	}}
	engine := newEngine(t, dir)

	author := doistore.Author{
		Given:        "J.",
		Family:       "Lee",
		Affiliations: []string{"Janelia Research Campus"},
	}
	decision, err := engine.Decide(context.Background(), author, match.NewHintCache())
	if err != nil {
		t.Fatalf("Decide failed: %v", err)
	}
	if decision.Outcome != match.OutcomeDeferred {
		t.Fatalf("close scores must defer, got %+v", decision)
	}
	if len(decision.Candidates) != 2 {
		t.Fatalf("deferral must carry the full ranked list, got %d", len(decision.Candidates))
	}
	if decision.Candidates[0].Score < decision.Candidates[1].Score {
		t.Fatalf("candidates out of order: %#v", decision.Candidates)
	}
}

func TestDecideNoCandidatesRejects(t *testing.T) {
	dir := &testsupport.FakeDirectory{}
	engine := newEngine(t, dir)

	author := doistore.Author{
		Given:        "Zelda",
		Family:       "Nobody",
		Affiliations: []string{"Janelia Research Campus"},
	}
	decision, err := engine.Decide(context.Background(), author, match.NewHintCache())
	if err != nil {
		t.Fatalf("Decide failed: %v", err)
	}
	if decision.Outcome != match.OutcomeRejected || decision.Basis != match.BasisNoMatch {
		t.Fatalf("empty candidate list must reject as no-match, got %+v", decision)
	}
}

func TestDecideDirectoryUnavailablePropagates(t *testing.T) {
	dir := &testsupport.FakeDirectory{
		Err: services.Wrap(services.ErrDirectoryUnavailable, "people", "get", "boom", nil),
	}
	engine := newEngine(t, dir)

	author := doistore.Author{
		Given:        "Jane",
		Family:       "Smith",
		Affiliations: []string{"Janelia Research Campus"},
	}
	_, err := engine.Decide(context.Background(), author, match.NewHintCache())
	if err == nil {
		t.Fatal("expected error when the directory is down")
	}
	if !services.AbortsDOI(err) {
		t.Fatalf("directory outage must abort the DOI, got %v", err)
	}
	if !errors.Is(err, services.ErrDirectoryUnavailable) {
		t.Fatalf("expected ErrDirectoryUnavailable, got %v", err)
	}
}
