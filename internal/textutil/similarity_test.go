package textutil_test

import (
	"testing"

	"curator/internal/textutil"
)

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "Jane Smith", "jane smith"},
		{"diacritics", "Norma C. Pérez Rosas", "norma c perez rosas"},
		{"hyphenated", "Mary Smith-Jones", "mary smith jones"},
		{"punctuation", "O'Brien, J.", "obrien j"},
		{"whitespace", "  Jane   Smith ", "jane smith"},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := textutil.NormalizeName(tc.input); got != tc.expected {
				t.Fatalf("NormalizeName(%q) = %q, want %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestTokenSortRatioIgnoresOrder(t *testing.T) {
	forward := textutil.TokenSortRatio("Jane Smith", "Smith Jane")
	if forward != 1 {
		t.Fatalf("expected reordered names to score 1, got %f", forward)
	}
}

func TestNameSimilarityRanking(t *testing.T) {
	exact := textutil.NameSimilarity("Virginia Scarlett", "Virginia Scarlett")
	close := textutil.NameSimilarity("Virginia Scarlett", "Virginia T Scarlett")
	far := textutil.NameSimilarity("Virginia Scarlett", "Virginia Ruetten")
	if exact != 1 {
		t.Fatalf("exact match should score 1, got %f", exact)
	}
	if close <= far {
		t.Fatalf("expected close match (%f) to outrank distant match (%f)", close, far)
	}
	if close < 0.85 {
		t.Fatalf("middle-initial variant should stay above threshold, got %f", close)
	}
}

func TestNameSimilarityDiacritics(t *testing.T) {
	score := textutil.NameSimilarity("Norma Pérez", "Norma Perez")
	if score != 1 {
		t.Fatalf("diacritic variant should score 1, got %f", score)
	}
}

func TestRatioBounds(t *testing.T) {
	if got := textutil.Ratio("", ""); got != 0 {
		t.Fatalf("empty pair should score 0, got %f", got)
	}
	if got := textutil.Ratio("abc", "xyz"); got != 0 {
		t.Fatalf("disjoint strings should score 0, got %f", got)
	}
}
