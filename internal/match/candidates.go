package match

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"curator/internal/config"
	"curator/internal/doistore"
	"curator/internal/logging"
	"curator/internal/services/people"
	"curator/internal/textutil"
)

// Generator produces ranked employee candidates for one author by fuzzy name
// matching over directory search results.
type Generator struct {
	dir    people.Directory
	cfg    config.Matching
	logger *slog.Logger
}

func NewGenerator(dir people.Directory, cfg config.Matching, logger *slog.Logger) *Generator {
	return &Generator{
		dir:    dir,
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "candidates"),
	}
}

// Generate searches the directory by the author's most specific name token and
// scores every hit against the employee's name permutations. Results below the
// floor score are dropped; an empty list is a normal outcome, not an error.
func (g *Generator) Generate(ctx context.Context, author doistore.Author, hints *HintCache) ([]Candidate, error) {
	display := author.DisplayName()
	term := searchTerm(display)
	if term == "" {
		return nil, nil
	}

	employees, err := g.dir.SearchByName(ctx, term)
	if err != nil {
		return nil, err
	}

	target := textutil.NormalizeName(display)
	candidates := make([]Candidate, 0, len(employees))
	seen := make(map[string]struct{}, len(employees))
	for _, employee := range employees {
		if _, dup := seen[employee.EmployeeID]; dup {
			continue
		}
		seen[employee.EmployeeID] = struct{}{}

		score, bestName, exact := scoreEmployee(target, employee)
		if score < g.cfg.AutoRejectFloor {
			continue
		}
		candidate := Candidate{
			Employee: employee,
			Name:     bestName,
			Score:    score,
			RawScore: score,
			Exact:    exact,
		}
		if hints.Contains(employee.OrgCode) {
			candidate.HintMatch = true
			candidate.Score = boostScore(score, g.cfg.OrgHintBoost, g.cfg.AutoAcceptScore)
		}
		candidates = append(candidates, candidate)
	}

	sortCandidates(candidates)
	if g.cfg.TopK > 0 && len(candidates) > g.cfg.TopK {
		candidates = candidates[:g.cfg.TopK]
	}

	g.logger.DebugContext(ctx, "generated candidates",
		logging.String(logging.FieldAuthor, display),
		logging.String("search_term", term),
		logging.Int("directory_hits", len(employees)),
		logging.Int("candidates", len(candidates)))
	return candidates, nil
}

// searchTerm picks the longest token of the author's name as the directory
// search term. Ties prefer the later token, biasing toward family names.
func searchTerm(display string) string {
	longest := ""
	for _, token := range textutil.NameTokens(display) {
		if len(token) >= len(longest) {
			longest = token
		}
	}
	return longest
}

// scoreEmployee returns the best similarity over all of the employee's name
// permutations, the permutation that produced it, and whether any permutation
// equals the target exactly after normalization.
func scoreEmployee(target string, employee people.Employee) (float64, string, bool) {
	var (
		best     float64
		bestName string
		exact    bool
	)
	for _, permutation := range namePermutations(employee) {
		normalized := textutil.NormalizeName(permutation)
		if normalized == "" {
			continue
		}
		if score := textutil.NameSimilarity(target, normalized); score > best || bestName == "" {
			best = score
			bestName = permutation
		}
		if normalized == target {
			exact = true
		}
	}
	if bestName == "" {
		bestName = employee.DisplayName()
	}
	return best, bestName, exact
}

// namePermutations expands an employee record into the name forms an author
// byline might use: first+last, first+middle+last, and first+middle-initial+
// last, across the preferred and legal variants of each part.
func namePermutations(employee people.Employee) []string {
	var permutations []string
	seen := make(map[string]struct{})
	add := func(parts ...string) {
		joined := strings.TrimSpace(strings.Join(parts, " "))
		if joined == "" {
			return
		}
		if _, dup := seen[joined]; dup {
			return
		}
		seen[joined] = struct{}{}
		permutations = append(permutations, joined)
	}

	for _, first := range employee.FirstNames() {
		for _, last := range employee.LastNames() {
			add(first, last)
			for _, middle := range employee.MiddleNames() {
				add(first, middle, last)
				if initial := []rune(middle); len(initial) > 0 {
					add(first, string(initial[0]), last)
				}
			}
		}
	}
	if len(permutations) == 0 {
		add(employee.DisplayName())
	}
	return permutations
}

// boostScore applies the org-hint boost. When the raw score had not reached
// the auto-accept threshold, the boosted score is capped just below it so a
// hint can reorder candidates but never cross the threshold on its own.
func boostScore(raw, boost, accept float64) float64 {
	boosted := raw + boost
	if raw < accept {
		ceiling := accept - 0.01
		if boosted > ceiling {
			boosted = ceiling
		}
	}
	if boosted < raw {
		boosted = raw
	}
	if boosted > 1 {
		boosted = 1
	}
	return boosted
}

// sortCandidates orders by score, then exact full-name match, then org-hint
// agreement, then employee ID so equal inputs always rank identically.
func sortCandidates(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Exact != b.Exact {
			return a.Exact
		}
		if a.HintMatch != b.HintMatch {
			return a.HintMatch
		}
		return a.Employee.EmployeeID < b.Employee.EmployeeID
	})
}
