package artifact

import (
	"strings"
	"unicode"
)

// FallbackName is used when a sanitized title has no characters left
const FallbackName = "download"

// SanitizeTitle strips every character that is not a letter, digit, space,
// hyphen, underscore, or period, then trims surrounding whitespace. If
// nothing survives, FallbackName is returned.
func SanitizeTitle(title string) string {
	var b strings.Builder
	for _, r := range title {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' || r == '.' {
			b.WriteRune(r)
		}
	}

	safe := strings.TrimSpace(b.String())
	if safe == "" {
		return FallbackName
	}
	return safe
}
