package matcher

import "github.com/ludo-technologies/treediff/internal/tree"

// IndexPair is a pair of indexes into two sequences
type IndexPair struct {
	Left  int
	Right int
}

// LongestCommonSubsequence returns the index pairs of a longest common
// subsequence of two sequences of length n and m under eq. Ties prefer
// the leftmost elements of the first sequence.
func LongestCommonSubsequence(n, m int, eq func(i, j int) bool) []IndexPair {
	lengths := make([][]int, n+1)
	for i := range lengths {
		lengths[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if eq(i, j) {
				lengths[i][j] = lengths[i+1][j+1] + 1
			} else {
				lengths[i][j] = max(lengths[i+1][j], lengths[i][j+1])
			}
		}
	}

	var out []IndexPair
	i, j := 0, 0
	for i < n && j < m {
		if eq(i, j) {
			out = append(out, IndexPair{Left: i, Right: j})
			i++
			j++
		} else if lengths[i+1][j] >= lengths[i][j+1] {
			i++
		} else {
			j++
		}
	}
	return out
}

// lcsIsomorphic aligns two child lists on fully isomorphic subtrees
func lcsIsomorphic(a, b []*tree.Node) []IndexPair {
	return LongestCommonSubsequence(len(a), len(b), func(i, j int) bool {
		return tree.Isomorphic(a[i], b[j])
	})
}

// lcsStructural aligns two child lists on label-insensitive isomorphism
func lcsStructural(a, b []*tree.Node) []IndexPair {
	return LongestCommonSubsequence(len(a), len(b), func(i, j int) bool {
		return tree.IsoStructural(a[i], b[j])
	})
}

// lcsTypeLabel returns the length of the longest common subsequence of two
// node chains compared by type and label
func lcsTypeLabel(a, b []*tree.Node) int {
	return len(LongestCommonSubsequence(len(a), len(b), func(i, j int) bool {
		return a[i].HasSameTypeAndLabel(b[j])
	}))
}
