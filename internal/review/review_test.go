package review_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"curator/internal/doistore"
	"curator/internal/logging"
	"curator/internal/match"
	"curator/internal/review"
	"curator/internal/services"
	"curator/internal/services/people"
)

func deferredDecision(name string, candidates ...match.Candidate) match.Decision {
	return match.Decision{
		Author:     doistore.Author{Name: name, Affiliations: []string{"Janelia Research Campus"}},
		Outcome:    match.OutcomeDeferred,
		Basis:      match.BasisName,
		Candidates: candidates,
	}
}

func candidate(id, first, last string, score float64) match.Candidate {
	return match.Candidate{
		Employee: people.Employee{EmployeeID: id, FirstLegal: first, LastLegal: last},
		Name:     first + " " + last,
		Score:    score,
		RawScore: score,
	}
}

func runReview(t *testing.T, input string, decisions []match.Decision) (string, error) {
	t.Helper()
	var out strings.Builder
	reviewer := review.New(strings.NewReader(input), &out, logging.NewNop())
	err := reviewer.Review(context.Background(), "10.1/a", decisions)
	return out.String(), err
}

func TestReviewAcceptCandidate(t *testing.T) {
	decisions := []match.Decision{
		deferredDecision("J. Lee",
			candidate("100", "Jennifer", "Lee", 0.91),
			candidate("200", "Jonathan", "Lee", 0.89)),
	}

	out, err := runReview(t, "2\n", decisions)
	if err != nil {
		t.Fatalf("Review failed: %v", err)
	}
	got := decisions[0]
	if got.Outcome != match.OutcomeAccepted || got.Basis != match.BasisManual {
		t.Fatalf("expected manual acceptance, got %+v", got)
	}
	if got.EmployeeID != "200" || got.Confidence != 0.89 {
		t.Fatalf("expected candidate 2 accepted, got %+v", got)
	}
	if !strings.Contains(out, "Jennifer Lee") || !strings.Contains(out, "Jonathan Lee") {
		t.Fatalf("both candidates must be presented:\n%s", out)
	}
}

func TestReviewInvalidInputReprompts(t *testing.T) {
	decisions := []match.Decision{
		deferredDecision("J. Lee", candidate("100", "Jennifer", "Lee", 0.91)),
	}

	out, err := runReview(t, "9\nx\n1\n", decisions)
	if err != nil {
		t.Fatalf("Review failed: %v", err)
	}
	if decisions[0].Outcome != match.OutcomeAccepted || decisions[0].EmployeeID != "100" {
		t.Fatalf("expected eventual acceptance, got %+v", decisions[0])
	}
	if !strings.Contains(out, `unrecognized choice "9"`) || !strings.Contains(out, `unrecognized choice "x"`) {
		t.Fatalf("invalid input must reprompt:\n%s", out)
	}
}

func TestReviewRejectAndSkip(t *testing.T) {
	decisions := []match.Decision{
		deferredDecision("A. One", candidate("100", "Alice", "One", 0.8)),
		deferredDecision("B. Two", candidate("200", "Bob", "Two", 0.8)),
	}

	if _, err := runReview(t, "r\ns\n", decisions); err != nil {
		t.Fatalf("Review failed: %v", err)
	}
	if decisions[0].Outcome != match.OutcomeRejected || decisions[0].EmployeeID != "" {
		t.Fatalf("expected manual rejection, got %+v", decisions[0])
	}
	if decisions[1].Outcome != match.OutcomeSkipped {
		t.Fatalf("expected skip, got %+v", decisions[1])
	}
	for _, decision := range decisions {
		if decision.Basis != match.BasisManual {
			t.Fatalf("manual choices must record a manual basis: %+v", decision)
		}
	}
}

func TestReviewSkipDoesNotBlockRest(t *testing.T) {
	decisions := []match.Decision{
		deferredDecision("A. One", candidate("100", "Alice", "One", 0.8)),
		deferredDecision("B. Two", candidate("200", "Bob", "Two", 0.8)),
	}

	if _, err := runReview(t, "s\n1\n", decisions); err != nil {
		t.Fatalf("Review failed: %v", err)
	}
	if decisions[0].Outcome != match.OutcomeSkipped {
		t.Fatalf("expected first item skipped, got %+v", decisions[0])
	}
	if decisions[1].Outcome != match.OutcomeAccepted || decisions[1].EmployeeID != "200" {
		t.Fatalf("skip must not block later items, got %+v", decisions[1])
	}
}

func TestReviewAbortStopsQueue(t *testing.T) {
	decisions := []match.Decision{
		deferredDecision("A. One", candidate("100", "Alice", "One", 0.8)),
		deferredDecision("B. Two", candidate("200", "Bob", "Two", 0.8)),
	}

	_, err := runReview(t, "a\n", decisions)
	if !errors.Is(err, services.ErrUserAbort) {
		t.Fatalf("expected ErrUserAbort, got %v", err)
	}
	if !services.AbortsBatch(err) {
		t.Fatalf("abort must stop the batch: %v", err)
	}
	if decisions[1].Outcome != match.OutcomeDeferred {
		t.Fatalf("abort must leave later items untouched, got %+v", decisions[1])
	}
}

func TestReviewClosedInputAborts(t *testing.T) {
	decisions := []match.Decision{
		deferredDecision("A. One", candidate("100", "Alice", "One", 0.8)),
	}

	_, err := runReview(t, "", decisions)
	if !errors.Is(err, services.ErrUserAbort) {
		t.Fatalf("EOF must abort the session, got %v", err)
	}
}

func TestReviewNoDeferredItemsIsQuiet(t *testing.T) {
	decisions := []match.Decision{
		{Author: doistore.Author{Name: "Done"}, Outcome: match.OutcomeAccepted},
	}
	out, err := runReview(t, "", decisions)
	if err != nil {
		t.Fatalf("Review failed: %v", err)
	}
	if out != "" {
		t.Fatalf("nothing to review must produce no output, got %q", out)
	}
}
