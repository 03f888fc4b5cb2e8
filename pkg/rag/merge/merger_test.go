package merge

import (
	"testing"

	"lecture-qa-be/pkg/rag"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func candidate(id uuid.UUID, score float64) rag.Candidate {
	return rag.Candidate{ChunkID: id, Similarity: score}
}

func TestMergeDeduplicatesByChunkID(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	merged := Merge([][]rag.Candidate{
		{candidate(a, 0.9), candidate(b, 0.5)},
		{candidate(b, 0.7), candidate(c, 0.4)},
		{candidate(a, 0.3)},
	})

	assert.Len(t, merged, 3)

	seen := map[uuid.UUID]float64{}
	for _, m := range merged {
		_, dup := seen[m.ChunkID]
		assert.False(t, dup, "chunk %s appears twice", m.ChunkID)
		seen[m.ChunkID] = m.Similarity
	}

	// Maximum similarity wins across duplicates.
	assert.Equal(t, 0.9, seen[a])
	assert.Equal(t, 0.7, seen[b])
	assert.Equal(t, 0.4, seen[c])
}

func TestMergeOrderIsFirstSeen(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	merged := Merge([][]rag.Candidate{
		{candidate(a, 0.2)},
		{candidate(b, 0.9), candidate(a, 0.8)},
	})

	assert.Len(t, merged, 2)
	assert.Equal(t, a, merged[0].ChunkID)
	assert.Equal(t, 0, merged[0].MergeOrder)
	assert.Equal(t, b, merged[1].ChunkID)
	assert.Equal(t, 1, merged[1].MergeOrder)
	// First-seen entry upgraded to the better score from the later variant.
	assert.Equal(t, 0.8, merged[0].Similarity)
}

func TestMergeEmptyInput(t *testing.T) {
	assert.Empty(t, Merge(nil))
	assert.Empty(t, Merge([][]rag.Candidate{{}, nil}))
}
