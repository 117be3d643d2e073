// Package levenshtein measures edit distance between short ASCII labels.
package levenshtein

// Distance returns the optimal string alignment distance between s and t:
// insertions, deletions, substitutions and swaps of two adjacent bytes
// each cost 1. Inputs are compared byte by byte.
func Distance(s, t string) int {
	if len(s) == 0 {
		return len(t)
	}
	if len(t) == 0 {
		return len(s)
	}

	// Three rows: two back is needed for transpositions
	prev2 := make([]int, len(t)+1)
	prev := make([]int, len(t)+1)
	curr := make([]int, len(t)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(s); i++ {
		curr[0] = i
		for j := 1; j <= len(t); j++ {
			cost := 1
			if s[i-1] == t[j-1] {
				cost = 0
			}
			d := min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
			if i > 1 && j > 1 && s[i-1] == t[j-2] && s[i-2] == t[j-1] {
				d = min(d, prev2[j-2]+1)
			}
			curr[j] = d
		}
		prev2, prev, curr = prev, curr, prev2
	}
	return prev[len(t)]
}

// Within reports whether Distance(s, t) <= k, skipping the computation
// when the lengths alone rule it out.
func Within(s, t string, k int) bool {
	diff := len(s) - len(t)
	if diff < 0 {
		diff = -diff
	}
	if diff > k {
		return false
	}
	return Distance(s, t) <= k
}
