package rank

import (
	"testing"

	"lecture-qa-be/pkg/rag"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestBlendHybridWithRelevance(t *testing.T) {
	out := BlendHybrid([]rag.Candidate{
		{Boosted: 0.5, Relevance: intPtr(10)},
		{Boosted: 1.5, Relevance: intPtr(5)}, // boosted above 1 gets clamped in the blend
	}, 0.4, 0.6)

	assert.InDelta(t, 0.5*0.4+1.0*0.6, out[0].Hybrid, 1e-9)
	assert.InDelta(t, 1.0*0.4+0.5*0.6, out[1].Hybrid, 1e-9)
}

func TestBlendHybridDegradedEqualsBoosted(t *testing.T) {
	in := []rag.Candidate{
		{Boosted: 0.9},
		{Boosted: 0.31},
		{Boosted: 0.0},
	}
	out := BlendHybrid(in, 0.4, 0.6)

	for i := range out {
		assert.Equal(t, in[i].Boosted, out[i].Hybrid)
	}
}

func TestSelectTopOrderingAndTieBreaks(t *testing.T) {
	in := []rag.Candidate{
		{Hybrid: 0.5, Similarity: 0.2, MergeOrder: 0},
		{Hybrid: 0.9, Similarity: 0.1, MergeOrder: 1},
		{Hybrid: 0.5, Similarity: 0.4, MergeOrder: 2},
		{Hybrid: 0.5, Similarity: 0.2, MergeOrder: 3},
	}

	out := SelectTop(in, 3)

	assert.Len(t, out, 3)
	assert.Equal(t, 1, out[0].MergeOrder)            // highest hybrid first
	assert.Equal(t, 2, out[1].MergeOrder)            // tie broken by similarity
	assert.Equal(t, 0, out[2].MergeOrder)            // then by merge order
	assert.Equal(t, in[0].Hybrid, 0.5)               // input untouched
	assert.Equal(t, 0, in[0].MergeOrder)
}

func TestSelectTopShorterThanN(t *testing.T) {
	out := SelectTop([]rag.Candidate{{Hybrid: 0.1}}, 12)
	assert.Len(t, out, 1)
}

func TestTopByBoosted(t *testing.T) {
	in := []rag.Candidate{
		{Boosted: 0.1, MergeOrder: 0},
		{Boosted: 0.9, MergeOrder: 1},
		{Boosted: 0.9, MergeOrder: 2},
		{Boosted: 0.5, MergeOrder: 3},
	}

	out := TopByBoosted(in, 2)

	assert.Len(t, out, 2)
	assert.Equal(t, 1, out[0].MergeOrder)
	assert.Equal(t, 2, out[1].MergeOrder)
}
