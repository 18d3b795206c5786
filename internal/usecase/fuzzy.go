package usecase

import "strings"

// levenshteinDistance calculates the edit distance between two strings using
// two rows instead of the full matrix.
func levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	r1 := []rune(s1)
	r2 := []rune(s2)
	m := len(r1)
	n := len(r2)

	prev := make([]int, n+1)
	curr := make([]int, n+1)

	for j := 0; j <= n; j++ {
		prev[j] = j
	}

	for i := 1; i <= m; i++ {
		curr[0] = i
		for j := 1; j <= n; j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = minInt(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[n]
}

// keywordDistance measures how close an entry name is to the item's keywords:
// the smallest edit distance between any keyword and any name token. Lower is
// closer; 0 means a keyword appears verbatim in the name.
func keywordDistance(keywords []string, entryName string) int {
	tokens := strings.Fields(strings.ToLower(entryName))
	if len(tokens) == 0 || len(keywords) == 0 {
		return int(^uint(0) >> 1)
	}

	best := int(^uint(0) >> 1)
	for _, kw := range keywords {
		for _, token := range tokens {
			if d := levenshteinDistance(kw, token); d < best {
				best = d
			}
		}
	}
	return best
}

func minInt(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
