package rank

import (
	"sort"

	"lecture-qa-be/pkg/rag"
)

// BlendHybrid computes the final ordering score. When the judge succeeded,
// Hybrid blends the clamped boosted score with the normalized relevance score;
// otherwise Hybrid is the boosted score unchanged.
func BlendHybrid(candidates []rag.Candidate, boostedWeight, relevanceWeight float64) []rag.Candidate {
	out := make([]rag.Candidate, len(candidates))
	for i, c := range candidates {
		if c.Relevance != nil {
			c.Hybrid = rag.Clamp01(c.Boosted)*boostedWeight + (float64(*c.Relevance)/10.0)*relevanceWeight
		} else {
			c.Hybrid = c.Boosted
		}
		out[i] = c
	}
	return out
}

// SelectTop orders by Hybrid descending and keeps the first n. Ties fall back
// to raw Similarity descending, then MergeOrder ascending, which keeps the
// ordering stable across runs.
func SelectTop(candidates []rag.Candidate, n int) []rag.Candidate {
	out := make([]rag.Candidate, len(candidates))
	copy(out, candidates)

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Hybrid != out[j].Hybrid {
			return out[i].Hybrid > out[j].Hybrid
		}
		if out[i].Similarity != out[j].Similarity {
			return out[i].Similarity > out[j].Similarity
		}
		return out[i].MergeOrder < out[j].MergeOrder
	})

	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// TopByBoosted returns the m best candidates by boosted score, for handing to
// the relevance judge.
func TopByBoosted(candidates []rag.Candidate, m int) []rag.Candidate {
	out := make([]rag.Candidate, len(candidates))
	copy(out, candidates)

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Boosted != out[j].Boosted {
			return out[i].Boosted > out[j].Boosted
		}
		return out[i].MergeOrder < out[j].MergeOrder
	})

	if m > 0 && len(out) > m {
		out = out[:m]
	}
	return out
}
