package rag

import "time"

// Config holds the pipeline tunables. The blend weights and confidence
// thresholds are deliberately configuration, not constants: nobody has
// re-derived them, so deployments must be able to adjust them without a
// rebuild.
type Config struct {
	// Retrieval
	TopKPerQuery        int
	SearchTimeout       time.Duration
	MaxQueryVariants    int
	SimilarityThreshold float64

	// Relevance judging
	JudgeTopM        int
	JudgeTimeout     time.Duration
	BoostedWeight    float64
	RelevanceWeight  float64
	FinalCandidates  int
	MaxMetadataBoost float64

	// Confidence
	ConfidenceTopN  int
	HighThreshold   float64
	MediumThreshold float64

	// Citations
	MaxCitationSources int
	KeepCitedAnswers   int
}

// DefaultConfig mirrors the tuned production values.
func DefaultConfig() Config {
	return Config{
		TopKPerQuery:        30,
		SearchTimeout:       10 * time.Second,
		MaxQueryVariants:    6,
		SimilarityThreshold: 0.3,

		JudgeTopM:        20,
		JudgeTimeout:     15 * time.Second,
		BoostedWeight:    0.4,
		RelevanceWeight:  0.6,
		FinalCandidates:  12,
		MaxMetadataBoost: 1.0,

		ConfidenceTopN:  5,
		HighThreshold:   0.75,
		MediumThreshold: 0.5,

		MaxCitationSources: 5,
		KeepCitedAnswers:   6,
	}
}
