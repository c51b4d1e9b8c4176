package match

import (
	"context"
	"fmt"
	"strings"

	"curator/internal/services"
	"curator/internal/services/people"
)

var orcidPrefixes = []string{
	"https://orcid.org/",
	"http://orcid.org/",
	"orcid.org/",
}

// NormalizeORCID strips the registry URL prefix and whitespace so URL-form and
// bare identifiers compare equal. The trailing check character is uppercased.
func NormalizeORCID(value string) string {
	value = strings.TrimSpace(value)
	lowered := strings.ToLower(value)
	for _, prefix := range orcidPrefixes {
		if strings.HasPrefix(lowered, prefix) {
			value = value[len(prefix):]
			break
		}
	}
	if strings.HasSuffix(value, "x") {
		value = strings.TrimSuffix(value, "x") + "X"
	}
	return value
}

// ValidateORCID checks the 4x4 hyphenated format and the ISO 7064 mod 11-2
// checksum. Failures wrap ErrInvalidIdentifier.
func ValidateORCID(value string) error {
	groups := strings.Split(value, "-")
	if len(groups) != 4 {
		return services.Wrap(services.ErrInvalidIdentifier, "orcid", "validate",
			fmt.Sprintf("%q is not four hyphenated groups", value), nil)
	}
	var digits []rune
	for _, group := range groups {
		if len(group) != 4 {
			return services.Wrap(services.ErrInvalidIdentifier, "orcid", "validate",
				fmt.Sprintf("%q has a group of length %d", value, len(group)), nil)
		}
		digits = append(digits, []rune(group)...)
	}
	total := 0
	for i, r := range digits {
		if i == len(digits)-1 {
			break
		}
		if r < '0' || r > '9' {
			return services.Wrap(services.ErrInvalidIdentifier, "orcid", "validate",
				fmt.Sprintf("%q contains a non-digit before the check character", value), nil)
		}
		total = (total + int(r-'0')) * 2
	}
	check := digits[len(digits)-1]
	var checkValue int
	switch {
	case check >= '0' && check <= '9':
		checkValue = int(check - '0')
	case check == 'X':
		checkValue = 10
	default:
		return services.Wrap(services.ErrInvalidIdentifier, "orcid", "validate",
			fmt.Sprintf("%q has an invalid check character", value), nil)
	}
	if (12-total%11)%11 != checkValue {
		return services.Wrap(services.ErrInvalidIdentifier, "orcid", "validate",
			fmt.Sprintf("%q fails its checksum", value), nil)
	}
	return nil
}

// ResolveOrcid validates an ORCID and returns every directory record carrying
// it. A malformed identifier returns ErrInvalidIdentifier without touching the
// directory. Zero matches is a nil slice, not an error; more than one match is
// returned as-is for the caller to surface as a conflict.
func ResolveOrcid(ctx context.Context, dir people.Directory, raw string) ([]people.Employee, error) {
	orcid := NormalizeORCID(raw)
	if orcid == "" {
		return nil, nil
	}
	if err := ValidateORCID(orcid); err != nil {
		return nil, err
	}
	matches, err := dir.LookupByOrcid(ctx, orcid)
	if err != nil {
		return nil, err
	}
	return matches, nil
}
