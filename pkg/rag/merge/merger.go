package merge

import (
	"lecture-qa-be/pkg/rag"

	"github.com/google/uuid"
)

// Merge pools per-variant retrieval results into one candidate set. Passages
// are identified by chunk ID; a passage seen under several variants keeps the
// maximum similarity observed. MergeOrder records first-seen position so the
// final selection stage can break ties deterministically.
func Merge(perVariant [][]rag.Candidate) []rag.Candidate {
	var merged []rag.Candidate
	index := make(map[uuid.UUID]int)

	for _, results := range perVariant {
		for _, c := range results {
			if at, seen := index[c.ChunkID]; seen {
				if c.Similarity > merged[at].Similarity {
					merged[at].Similarity = c.Similarity
				}
				continue
			}
			c.MergeOrder = len(merged)
			index[c.ChunkID] = len(merged)
			merged = append(merged, c)
		}
	}

	return merged
}
