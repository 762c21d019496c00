package application

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"
)

// Suggest returns the candidate closest to input by Levenshtein distance,
// compared case-insensitively. It reports false when the best candidate is
// more than a third of the longer string's length away, with a floor of two
// edits.
func Suggest(input string, candidates []string) (string, bool) {
	caser := cases.Fold()
	needle := caser.String(strings.TrimSpace(input))
	if needle == "" {
		return "", false
	}

	best, bestDist := "", -1
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(needle, caser.String(c))
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	if bestDist < 0 {
		return "", false
	}

	limit := max(utf8.RuneCountInString(needle), utf8.RuneCountInString(best)) / 3
	limit = max(limit, 2)
	if bestDist > limit {
		return "", false
	}
	return best, true
}
