package match_test

import (
	"context"
	"fmt"
	"testing"

	"curator/internal/config"
	"curator/internal/doistore"
	"curator/internal/logging"
	"curator/internal/match"
	"curator/internal/services/people"
	"curator/internal/testsupport"
)

func defaultMatching() config.Matching {
	return config.Default().Matching
}

func TestGenerateScoresNamePermutations(t *testing.T) {
	dir := &testsupport.FakeDirectory{Employees: []people.Employee{
		{EmployeeID: "100", FirstLegal: "Jane", MiddleLegal: "Quincy", LastLegal: "Smith"},
		{EmployeeID: "101", FirstLegal: "Janet", LastLegal: "Smithson"},
	}}
	gen := match.NewGenerator(dir, defaultMatching(), logging.NewNop())

	author := doistore.Author{Given: "Jane Q.", Family: "Smith"}
	candidates, err := gen.Generate(context.Background(), author, match.NewHintCache())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(candidates) == 0 {
		t.Fatal("expected candidates")
	}
	top := candidates[0]
	if top.Employee.EmployeeID != "100" {
		t.Fatalf("expected middle-initial permutation to win, got %#v", top)
	}
	if top.Score != 1 || !top.Exact {
		t.Fatalf("expected exact score 1 via permutation, got score=%v exact=%v", top.Score, top.Exact)
	}
}

func TestGeneratePreferredNameVariant(t *testing.T) {
	// Directory records carry both legal and preferred names; bylines usually
	// use the preferred one.
	dir := &testsupport.FakeDirectory{Employees: []people.Employee{
		{EmployeeID: "100", FirstLegal: "Robert", FirstPref: "Bob", LastLegal: "Jones"},
	}}
	gen := match.NewGenerator(dir, defaultMatching(), logging.NewNop())

	candidates, err := gen.Generate(context.Background(), doistore.Author{Given: "Bob", Family: "Jones"}, nil)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(candidates) != 1 || !candidates[0].Exact {
		t.Fatalf("expected exact match on preferred name, got %#v", candidates)
	}
}

func TestGenerateFoldsDiacritics(t *testing.T) {
	dir := &testsupport.FakeDirectory{Employees: []people.Employee{
		{EmployeeID: "100", FirstLegal: "Jose", LastLegal: "Garcia"},
	}}
	gen := match.NewGenerator(dir, defaultMatching(), logging.NewNop())

	candidates, err := gen.Generate(context.Background(), doistore.Author{Given: "José", Family: "García"}, nil)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(candidates) != 1 || !candidates[0].Exact {
		t.Fatalf("expected accented byline to match unaccented record, got %#v", candidates)
	}
}

func TestGenerateDropsBelowFloor(t *testing.T) {
	matching := defaultMatching()
	matching.AutoRejectFloor = 0.99
	dir := &testsupport.FakeDirectory{Employees: []people.Employee{
		{EmployeeID: "100", FirstLegal: "Janet", LastLegal: "Smithfield"},
	}}
	gen := match.NewGenerator(dir, matching, logging.NewNop())

	candidates, err := gen.Generate(context.Background(), doistore.Author{Given: "Jon", Family: "Smith"}, nil)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(candidates) != 0 {
		t.Fatalf("expected floor to drop weak matches, got %#v", candidates)
	}
}

func TestGenerateTruncatesToTopK(t *testing.T) {
	dir := &testsupport.FakeDirectory{}
	for i := 0; i < 8; i++ {
		dir.Employees = append(dir.Employees, people.Employee{
			EmployeeID: fmt.Sprintf("%03d", i),
			FirstLegal: "Jane",
			LastLegal:  "Smith",
		})
	}
	gen := match.NewGenerator(dir, defaultMatching(), logging.NewNop())

	candidates, err := gen.Generate(context.Background(), doistore.Author{Given: "Jane", Family: "Smith"}, nil)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(candidates) != defaultMatching().TopK {
		t.Fatalf("expected top-%d truncation, got %d candidates", defaultMatching().TopK, len(candidates))
	}
	for i := 1; i < len(candidates); i++ {
		if candidates[i-1].Employee.EmployeeID > candidates[i].Employee.EmployeeID {
			t.Fatalf("equal scores must order by employee ID: %#v", candidates)
		}
	}
}

func TestGenerateOrgHintReordersButStaysBelowAccept(t *testing.T) {
	dir := &testsupport.FakeDirectory{Employees: []people.Employee{
		{EmployeeID: "100", FirstLegal: "Jennifer", LastLegal: "Lee", OrgCode: "4A0"},
		{EmployeeID: "200", FirstLegal: "Jonathan", LastLegal: "Lee", OrgCode: "7C2"},
	}}
	matching := defaultMatching()
	gen := match.NewGenerator(dir, matching, logging.NewNop())
	author := doistore.Author{Given: "J.", Family: "Lee"}

	// Without hints the tie breaks on employee ID.
	candidates, err := gen.Generate(context.Background(), author, match.NewHintCache())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(candidates) != 2 || candidates[0].Employee.EmployeeID != "100" {
		t.Fatalf("unexpected baseline order: %#v", candidates)
	}

	hints := match.NewHintCache()
	hints.Add("7C2")
	candidates, err = gen.Generate(context.Background(), author, hints)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if candidates[0].Employee.EmployeeID != "200" || !candidates[0].HintMatch {
		t.Fatalf("expected org hint to promote employee 200: %#v", candidates)
	}
	if candidates[0].Score >= matching.AutoAcceptScore {
		t.Fatalf("boosted score %v must stay below the auto-accept threshold %v",
			candidates[0].Score, matching.AutoAcceptScore)
	}
	if candidates[0].Score < candidates[0].RawScore {
		t.Fatalf("boost must never lower a score: %#v", candidates[0])
	}
}

func TestHintCacheAccumulates(t *testing.T) {
	hints := match.NewHintCache()
	if hints.Contains("4A0") {
		t.Fatal("empty cache must not match")
	}
	hints.Add("4A0")
	hints.Add("  ")
	hints.Add("4A0")
	if !hints.Contains("4A0") || hints.Contains("7C2") {
		t.Fatal("unexpected cache membership")
	}
	if hints.Len() != 1 {
		t.Fatalf("expected 1 distinct org, got %d", hints.Len())
	}
}
