package rag

import "github.com/google/uuid"

// Candidate is one retrieved transcript passage moving through the ranking
// pipeline. Similarity is set once by retrieval and never rewritten; every
// later stage returns a new slice instead of mutating its input.
type Candidate struct {
	ChunkID     uuid.UUID
	SourceID    uuid.UUID
	SourceLabel string
	Text        string
	Metadata    PassageMetadata

	// Similarity is the raw cosine similarity in [0,1].
	Similarity float64

	// Boosted is Similarity plus metadata boosts, clamped to 1.0.
	Boosted float64

	// Relevance is the 1-10 judge score. Nil when the judge stage was skipped.
	Relevance *int

	// Hybrid is the final ordering score.
	Hybrid float64

	// MergeOrder is the first-seen position during candidate merging and is
	// the last tie-breaker for final selection.
	MergeOrder int
}

// PassageMetadata carries the structured lecture metadata used by boost rules.
type PassageMetadata struct {
	Season    int
	Category  string
	TypeCodes []string
}

// Source categories as stored on lectures.
const (
	CategoryLecture   = "lecture"
	CategoryWebinar   = "webinar"
	CategoryQASession = "qa-session"
)

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Clamp01 bounds a score to [0,1].
func Clamp01(v float64) float64 { return clamp01(v) }
