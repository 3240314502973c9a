package campaign

import (
	"regexp"
	"strings"
)

// maxBullets caps the number of fragments returned by the bullets assist.
const maxBullets = 10

var (
	bulletSplit  = regexp.MustCompile(`\r?\n|•|- |\t|;`)
	bulletPrefix = regexp.MustCompile(`^\d+[.)]\s*`)
	sentenceEnd  = regexp.MustCompile(`[.!?]\s+`)
)

// FallbackBullets derives task bullets from free text without an LLM:
// split on newlines, bullet glyphs, semicolons or tabs, strip numeric
// prefixes and discard empties. When fewer than three fragments result,
// re-split on sentence boundaries instead.
func FallbackBullets(text string) []string {
	var parts []string
	for _, raw := range bulletSplit.Split(text, -1) {
		s := strings.TrimSpace(raw)
		s = bulletPrefix.ReplaceAllString(s, "")
		if s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) >= 3 {
		return capBullets(parts)
	}

	var sentences []string
	for _, raw := range sentenceEnd.Split(text, -1) {
		if s := strings.TrimSpace(raw); s != "" {
			sentences = append(sentences, s)
		}
	}
	return capBullets(sentences)
}

func capBullets(items []string) []string {
	if len(items) > maxBullets {
		return items[:maxBullets]
	}
	return items
}
