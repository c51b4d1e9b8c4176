package textutil

import (
	"sort"
	"strings"
)

// Ratio computes a normalized Levenshtein similarity between two strings in
// [0, 1]. Identical strings score 1; the empty pair scores 0.
func Ratio(a, b string) float64 {
	if a == "" && b == "" {
		return 0
	}
	if a == b {
		return 1
	}
	dist := levenshtein(a, b)
	longest := len([]rune(a))
	if lb := len([]rune(b)); lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 0
	}
	return 1 - float64(dist)/float64(longest)
}

// TokenSortRatio compares two names after normalizing and sorting their
// tokens, tolerating reordered name parts ("Smith Jane" vs "Jane Smith").
func TokenSortRatio(a, b string) float64 {
	return Ratio(sortedTokenString(a), sortedTokenString(b))
}

// TokenSetRatio scores the token overlap of two names. Shared tokens weigh in
// fully; the remainder is scored by edit distance. This keeps initials and
// dropped middle names from dominating the score.
func TokenSetRatio(a, b string) float64 {
	tokensA := NameTokens(a)
	tokensB := NameTokens(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}
	setA := make(map[string]struct{}, len(tokensA))
	for _, tok := range tokensA {
		setA[tok] = struct{}{}
	}
	var common, restA, restB []string
	seen := make(map[string]struct{})
	for _, tok := range tokensB {
		if _, ok := setA[tok]; ok {
			if _, dup := seen[tok]; !dup {
				common = append(common, tok)
				seen[tok] = struct{}{}
			}
		} else {
			restB = append(restB, tok)
		}
	}
	for _, tok := range tokensA {
		if _, ok := seen[tok]; !ok {
			restA = append(restA, tok)
		}
	}
	sort.Strings(common)
	sort.Strings(restA)
	sort.Strings(restB)

	base := strings.Join(common, " ")
	full := func(rest []string) string {
		if len(rest) == 0 {
			return base
		}
		if base == "" {
			return strings.Join(rest, " ")
		}
		return base + " " + strings.Join(rest, " ")
	}

	best := Ratio(full(restA), full(restB))
	if base != "" {
		if r := Ratio(base, full(restA)); r > best {
			best = r
		}
		if r := Ratio(base, full(restB)); r > best {
			best = r
		}
	}
	return best
}

// NameSimilarity is the blended score used for candidate ranking: the better
// of token-sort and token-set comparison.
func NameSimilarity(a, b string) float64 {
	sortRatio := TokenSortRatio(a, b)
	setRatio := TokenSetRatio(a, b)
	if setRatio > sortRatio {
		return setRatio
	}
	return sortRatio
}

func sortedTokenString(value string) string {
	tokens := NameTokens(value)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

func levenshtein(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = minInt(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func minInt(values ...int) int {
	least := values[0]
	for _, v := range values[1:] {
		if v < least {
			least = v
		}
	}
	return least
}
