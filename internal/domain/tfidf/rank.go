package tfidf

import (
	"cmp"
	"slices"
)

// RankTop sorts scores by descending score and truncates to k.
// The sort is stable: equal scores keep their input (corpus) order.
// k <= 0 or k >= len(scores) keeps everything. The input slice is reordered in place.
func RankTop(scores []Scored, k int) []Scored {
	slices.SortStableFunc(scores, func(a, b Scored) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if k > 0 && len(scores) > k {
		return scores[:k]
	}
	return scores
}
