package memory

import (
	"math"
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var folder = cases.Fold()

// normalize folds case and turns every rune that is not a letter or digit
// into a separator, then returns the tokens sorted and joined by one space.
func normalize(s string) string {
	s = folder.String(norm.NFC.String(s))
	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, s)
	tokens := strings.Fields(s)
	slices.Sort(tokens)
	return strings.Join(tokens, " ")
}

// TokenSortRatio scores the similarity of two strings from 0 to 100,
// ignoring case, punctuation and word order. Empty input scores 0.
func TokenSortRatio(a, b string) int {
	ra := []rune(normalize(a))
	rb := []rune(normalize(b))
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}
	lcs := longestCommonSubsequence(ra, rb)
	score := 100 * float64(2*lcs) / float64(len(ra)+len(rb))
	return int(math.RoundToEven(score))
}

func longestCommonSubsequence(a, b []rune) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				curr[j] = prev[j-1] + 1
			case prev[j] >= curr[j-1]:
				curr[j] = prev[j]
			default:
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
