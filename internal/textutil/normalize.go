package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldTransformer strips combining marks so "Pérez" and "Perez" compare equal.
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// FoldDiacritics returns the input with diacritic marks removed. Input that
// fails to transform is returned unchanged.
func FoldDiacritics(value string) string {
	folded, _, err := transform.String(foldTransformer, value)
	if err != nil {
		return value
	}
	return folded
}

// NormalizeName lowercases a display name, folds diacritics, and drops
// punctuation, collapsing runs of whitespace to single spaces. Hyphens become
// spaces so hyphenated family names match their split forms.
func NormalizeName(value string) string {
	lowered := strings.ToLower(FoldDiacritics(value))
	var b strings.Builder
	b.Grow(len(lowered))
	lastSpace := true
	for _, r := range lowered {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		case r == '-' || unicode.IsSpace(r):
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// NameTokens splits a normalized name into its parts.
func NameTokens(value string) []string {
	normalized := NormalizeName(value)
	if normalized == "" {
		return nil
	}
	return strings.Fields(normalized)
}
