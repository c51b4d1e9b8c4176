// Package affiliation decides whether free-text affiliation strings indicate
// institutional membership. Classification is pure: the same rule set yields
// the same verdict in tests and production.
package affiliation

import (
	"fmt"
	"regexp"
	"strings"

	"curator/internal/textutil"
)

// Class is the author-level affiliation verdict.
type Class string

const (
	// ClassUnknown means the author carried no affiliation strings at all.
	// It is a distinct decision basis, never conflated with a rejection.
	ClassUnknown Class = "unknown"
	// ClassInstitutional means at least one affiliation matched an inclusion
	// pattern without being overridden by an exclusion.
	ClassInstitutional Class = "institutional"
	// ClassNonInstitutional means affiliations were present but none
	// established membership, or an exclusion pattern fired.
	ClassNonInstitutional Class = "non-institutional"
)

// Verdict is the per-string classification result with the matched pattern
// retained for audit output.
type Verdict struct {
	Institutional bool
	// Pattern is the rule that decided the verdict, empty when nothing matched.
	Pattern string
}

// Classifier evaluates affiliation strings against an ordered rule set.
// Exclusions take precedence over inclusions; the default is non-membership.
type Classifier struct {
	include []rule
	exclude []rule
}

type rule struct {
	source string
	re     *regexp.Regexp
}

// NewClassifier compiles the inclusion and exclusion pattern lists. Patterns
// are matched case-insensitively against a normalized form of the affiliation
// (lowercased, diacritics folded, whitespace collapsed).
func NewClassifier(include, exclude []string) (*Classifier, error) {
	c := &Classifier{}
	for _, pattern := range include {
		r, err := compileRule(pattern)
		if err != nil {
			return nil, fmt.Errorf("compile inclusion pattern %q: %w", pattern, err)
		}
		c.include = append(c.include, r)
	}
	for _, pattern := range exclude {
		r, err := compileRule(pattern)
		if err != nil {
			return nil, fmt.Errorf("compile exclusion pattern %q: %w", pattern, err)
		}
		c.exclude = append(c.exclude, r)
	}
	return c, nil
}

func compileRule(pattern string) (rule, error) {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return rule{}, err
	}
	return rule{source: pattern, re: re}, nil
}

// Classify evaluates a single affiliation string. The first matching
// exclusion wins over any inclusion match.
func (c *Classifier) Classify(affiliation string) Verdict {
	normalized := Normalize(affiliation)
	if normalized == "" {
		return Verdict{}
	}
	for _, r := range c.exclude {
		if r.re.MatchString(normalized) {
			return Verdict{Institutional: false, Pattern: r.source}
		}
	}
	for _, r := range c.include {
		if r.re.MatchString(normalized) {
			return Verdict{Institutional: true, Pattern: r.source}
		}
	}
	return Verdict{}
}

// ClassifyAll folds the verdicts for all of an author's affiliation strings
// into an author-level class. Zero strings yield ClassUnknown.
func (c *Classifier) ClassifyAll(affiliations []string) (Class, Verdict) {
	if len(affiliations) == 0 {
		return ClassUnknown, Verdict{}
	}
	var negative Verdict
	for _, affiliation := range affiliations {
		verdict := c.Classify(affiliation)
		if verdict.Institutional {
			return ClassInstitutional, verdict
		}
		if verdict.Pattern != "" && negative.Pattern == "" {
			negative = verdict
		}
	}
	return ClassNonInstitutional, negative
}

// Normalize prepares an affiliation string for pattern matching: diacritics
// folded, lowercased, whitespace collapsed. Footnote markers glued to the
// text ("2Janelia") are left in place; the rules match anywhere in the
// string, and stripping leading digits would eat street numbers.
func Normalize(affiliation string) string {
	lowered := strings.ToLower(textutil.FoldDiacritics(affiliation))
	return strings.Join(strings.Fields(lowered), " ")
}
