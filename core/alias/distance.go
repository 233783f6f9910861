package alias

import "strings"

// localPart returns the text before the last '@', or s when there is none.
func localPart(s string) string {
	if i := strings.LastIndex(s, "@"); i > 0 {
		return s[:i]
	}
	return s
}

// Distance is the metric longest-common-subsequence distance between the
// local parts of a and b: 1 - LCS/max(len). It lies in [0,1] and is 0 for
// identical local parts.
func Distance(a, b string) float64 {
	x := []rune(localPart(a))
	y := []rune(localPart(b))
	longest := max(len(x), len(y))
	if longest == 0 {
		return 0
	}
	return 1 - float64(lcsLength(x, y))/float64(longest)
}

// lcsLength computes the LCS length with a rolling row.
func lcsLength(x, y []rune) int {
	if len(x) < len(y) {
		x, y = y, x
	}
	prev := make([]int, len(y)+1)
	curr := make([]int, len(y)+1)
	for i := 1; i <= len(x); i++ {
		for j := 1; j <= len(y); j++ {
			switch {
			case x[i-1] == y[j-1]:
				curr[j] = prev[j-1] + 1
			case prev[j] >= curr[j-1]:
				curr[j] = prev[j]
			default:
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(y)]
}
