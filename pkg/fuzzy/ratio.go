// Package fuzzy scores string similarity for duplicate detection.
package fuzzy

import (
	"math"
	"strings"

	"github.com/agext/levenshtein"
)

// indel weighs a substitution as a delete plus an insert, which turns the
// edit distance into the InDel distance behind the classic "ratio" score.
var indel = levenshtein.NewParams().SubCost(2)

// Ratio returns a 0-100 similarity score between a and b.
// Empty input on either side scores 0.
func Ratio(a, b string) int {
	la, lb := len([]rune(a)), len([]rune(b))
	if la == 0 || lb == 0 {
		return 0
	}
	if a == b {
		return 100
	}
	total := la + lb
	dist := levenshtein.Distance(a, b, indel)
	return int(math.Round(100 * float64(total-dist) / float64(total)))
}

// Normalize prepares a key value for comparison
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
