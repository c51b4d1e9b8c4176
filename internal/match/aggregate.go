package match

import (
	"sort"

	"curator/internal/doistore"
)

// Aggregation is the final institutional author set for one DOI plus the diff
// against the previously stored value.
type Aggregation struct {
	DOI string

	// Accepted holds deduplicated employee IDs in author order.
	Accepted []string

	// Update is the store payload for a commit.
	Update doistore.AuthorUpdate

	Added     []string
	Removed   []string
	Unchanged []string
}

// Aggregate assembles the final author set from per-author decisions. The
// decisions slice is expected parallel to rec.Authors. Alumni records are
// dropped here even when accepted upstream, and each employee ID appears at
// most once, keyed to its first accepting author.
func Aggregate(rec *doistore.Record, decisions []Decision) Aggregation {
	agg := Aggregation{DOI: rec.DOI}

	accepted := make(map[string]int, len(decisions))
	for i, decision := range decisions {
		if decision.Outcome != OutcomeAccepted || decision.EmployeeID == "" {
			continue
		}
		if decision.Employee != nil && decision.Employee.Alumni {
			continue
		}
		if _, dup := accepted[decision.EmployeeID]; dup {
			continue
		}
		accepted[decision.EmployeeID] = i
		agg.Accepted = append(agg.Accepted, decision.EmployeeID)
	}

	agg.Update = buildUpdate(rec, decisions, accepted)
	agg.Added, agg.Removed, agg.Unchanged = diffAuthors(rec.JRCAuthor, agg.Accepted)
	return agg
}

// buildUpdate derives the first/last author fields from byline position: the
// fields are set only when the first (respectively last) listed author was
// accepted. An empty accepted set clears everything.
func buildUpdate(rec *doistore.Record, decisions []Decision, accepted map[string]int) doistore.AuthorUpdate {
	update := doistore.AuthorUpdate{}
	if len(accepted) == 0 {
		return update
	}
	ordered := make([]string, 0, len(accepted))
	for id := range accepted {
		ordered = append(ordered, id)
	}
	sort.Slice(ordered, func(i, j int) bool { return accepted[ordered[i]] < accepted[ordered[j]] })
	update.Authors = ordered

	if len(decisions) > 0 {
		if first := decisions[0]; isFinalAccept(first, accepted, 0) {
			update.FirstAuthor = []string{rec.Authors[0].ListedName()}
			update.FirstID = []string{first.EmployeeID}
		}
		lastIdx := len(decisions) - 1
		if last := decisions[lastIdx]; isFinalAccept(last, accepted, lastIdx) {
			update.LastAuthor = rec.Authors[lastIdx].ListedName()
			update.LastID = last.EmployeeID
		}
	}
	return update
}

// isFinalAccept reports whether the decision at index survived dedup and the
// alumni filter.
func isFinalAccept(decision Decision, accepted map[string]int, index int) bool {
	if decision.Outcome != OutcomeAccepted || decision.EmployeeID == "" {
		return false
	}
	owner, ok := accepted[decision.EmployeeID]
	return ok && owner == index
}

// diffAuthors compares the previously stored employee IDs with the new set.
// The returned slices are sorted for stable presentation.
func diffAuthors(previous, current []string) (added, removed, unchanged []string) {
	prev := make(map[string]struct{}, len(previous))
	for _, id := range previous {
		prev[id] = struct{}{}
	}
	curr := make(map[string]struct{}, len(current))
	for _, id := range current {
		curr[id] = struct{}{}
	}
	for id := range curr {
		if _, ok := prev[id]; ok {
			unchanged = append(unchanged, id)
		} else {
			added = append(added, id)
		}
	}
	for id := range prev {
		if _, ok := curr[id]; !ok {
			removed = append(removed, id)
		}
	}
	sort.Strings(added)
	sort.Strings(removed)
	sort.Strings(unchanged)
	return added, removed, unchanged
}
