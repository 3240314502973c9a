// Package slug provides URL-safe slug derivation for companies and jobs.
package slug

import (
	"strings"
	"unicode"
)

// Make converts free text into a lowercase, hyphen-separated slug.
// Non-alphanumeric runs collapse into a single hyphen; leading and
// trailing hyphens are stripped. Returns "" when nothing usable remains.
func Make(input string) string {
	var sb strings.Builder
	lastHyphen := true // suppress leading hyphen
	for _, r := range strings.ToLower(strings.TrimSpace(input)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
			lastHyphen = false
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			// Fold common accented letters to ASCII where possible.
			if folded, ok := asciiFold[r]; ok {
				sb.WriteRune(folded)
				lastHyphen = false
			} else if !lastHyphen {
				sb.WriteByte('-')
				lastHyphen = true
			}
		default:
			if !lastHyphen {
				sb.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.Trim(sb.String(), "-")
}

// SafeFilename derives an export-safe filename fragment, capped at 60 runes.
func SafeFilename(input string) string {
	s := Make(input)
	if len(s) > 60 {
		s = strings.Trim(s[:60], "-")
	}
	return s
}

var asciiFold = map[rune]rune{
	'à': 'a', 'á': 'a', 'â': 'a', 'ä': 'a', 'å': 'a', 'ã': 'a',
	'è': 'e', 'é': 'e', 'ê': 'e', 'ë': 'e',
	'ì': 'i', 'í': 'i', 'î': 'i', 'ï': 'i',
	'ò': 'o', 'ó': 'o', 'ô': 'o', 'ö': 'o', 'õ': 'o',
	'ù': 'u', 'ú': 'u', 'û': 'u', 'ü': 'u',
	'ç': 'c', 'ñ': 'n', 'ý': 'y',
}
