package validation

import (
	"regexp"
	"strings"
)

const passwordSymbols = "@$!%*?&"

// emailChar excludes '@' and all whitespace: RE2's \s is ASCII only, so vertical
// tab, NEL, BOM and the Unicode separators are listed explicitly.
const emailChar = `[^\s\v\p{Z}\x{85}\x{FEFF}@]`

var emailPattern = regexp.MustCompile(`^` + emailChar + `+@` + emailChar + `+\.` + emailChar + `+$`)

// ValidEmail reports whether s has the shape local@domain.tld with no whitespace.
// Syntax only: no length cap and no DNS lookups.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ValidPassword reports whether s is at least 8 characters drawn from
// [A-Za-z0-9@$!%*?&] with at least one lowercase, uppercase, digit and symbol.
func ValidPassword(s string) bool {
	if len(s) < 8 {
		return false
	}

	var lower, upper, digit, symbol bool

	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		default:
			return false
		}
	}

	return lower && upper && digit && symbol
}
