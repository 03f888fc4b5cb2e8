package rank

import (
	"testing"

	"lecture-qa-be/pkg/rag"

	"github.com/stretchr/testify/assert"
)

func TestMetadataRankerNoRuleKeepsSimilarity(t *testing.T) {
	r := NewMetadataRanker(1.0)

	in := []rag.Candidate{{
		Similarity: 0.42,
		Metadata:   rag.PassageMetadata{Season: 2, Category: rag.CategoryWebinar},
	}}
	out := r.Apply("What is a vulnerable function?", in)

	assert.Equal(t, 0.42, out[0].Boosted)
	// Input must not be mutated.
	assert.Equal(t, 0.0, in[0].Boosted)
}

func TestMetadataRankerRulesCompose(t *testing.T) {
	r := NewMetadataRanker(1.0)

	out := r.Apply("What does season 3 say about SLE?", []rag.Candidate{{
		Similarity: 0.5,
		Metadata: rag.PassageMetadata{
			Season:    3,
			Category:  rag.CategoryLecture,
			TypeCodes: []string{"SLE"},
		},
	}})

	// type-code-mention (0.15) + season-mention (0.10) + category-lecture (0.05)
	assert.InDelta(t, 0.80, out[0].Boosted, 1e-9)
}

func TestMetadataRankerClampsToMax(t *testing.T) {
	r := NewMetadataRanker(1.0)

	out := r.Apply("What does season 3 say about SLE?", []rag.Candidate{{
		Similarity: 0.95,
		Metadata: rag.PassageMetadata{
			Season:    3,
			Category:  rag.CategoryLecture,
			TypeCodes: []string{"SLE"},
		},
	}})

	assert.Equal(t, 1.0, out[0].Boosted)
}

func TestMetadataRankerCustomRules(t *testing.T) {
	always := BoostRule{
		Name:      "always",
		Weight:    0.2,
		Predicate: func(string, rag.Candidate) bool { return true },
	}
	never := BoostRule{
		Name:      "never",
		Weight:    0.9,
		Predicate: func(string, rag.Candidate) bool { return false },
	}
	r := NewMetadataRankerWithRules([]BoostRule{always, never}, 1.0)

	out := r.Apply("anything", []rag.Candidate{{Similarity: 0.1}})
	assert.InDelta(t, 0.3, out[0].Boosted, 1e-9)
}
