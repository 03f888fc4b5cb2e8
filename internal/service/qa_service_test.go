package service

import (
	"testing"

	"lecture-qa-be/pkg/rag"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestMergeJudgeScoresCopiesOntoMatchingChunks(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	all := []rag.Candidate{
		{ChunkID: a, Similarity: 0.9},
		{ChunkID: b, Similarity: 0.8},
		{ChunkID: c, Similarity: 0.7},
	}
	judged := []rag.Candidate{
		{ChunkID: a, Relevance: intPtr(9)},
		{ChunkID: c, Relevance: intPtr(4)},
	}

	out := mergeJudgeScores(all, judged)

	assert.Len(t, out, 3)
	assert.Equal(t, 9, *out[0].Relevance)
	assert.Nil(t, out[1].Relevance, "chunk the judge never saw stays unscored")
	assert.Equal(t, 4, *out[2].Relevance)
}

func TestMergeJudgeScoresDoesNotMutateInput(t *testing.T) {
	id := uuid.New()
	all := []rag.Candidate{{ChunkID: id, Similarity: 0.5}}
	judged := []rag.Candidate{{ChunkID: id, Relevance: intPtr(7)}}

	_ = mergeJudgeScores(all, judged)

	assert.Nil(t, all[0].Relevance)
}

func TestMergeJudgeScoresIgnoresUnscoredJudgeRows(t *testing.T) {
	id := uuid.New()
	all := []rag.Candidate{{ChunkID: id}}
	judged := []rag.Candidate{{ChunkID: id, Relevance: nil}}

	out := mergeJudgeScores(all, judged)

	assert.Nil(t, out[0].Relevance)
}
