package confidence

import (
	"fmt"
	"math"
	"strings"

	"lecture-qa-be/pkg/rag"
)

// Levels exposed to the client.
const (
	LevelHigh   = "high"
	LevelMedium = "medium"
	LevelLow    = "low"
)

// Result is the aggregate confidence for one answer.
type Result struct {
	Level     string  `json:"level"`
	Score     float64 `json:"score"`
	Stars     string  `json:"stars"`
	Reasoning string  `json:"reasoning"`
}

// Scorer turns the final candidate set into a single confidence readout.
// Pure computation; cannot fail.
type Scorer struct {
	topN            int
	highThreshold   float64
	mediumThreshold float64
}

func NewScorer(topN int, highThreshold, mediumThreshold float64) *Scorer {
	return &Scorer{
		topN:            topN,
		highThreshold:   highThreshold,
		mediumThreshold: mediumThreshold,
	}
}

// Score averages the hybrid score of the top candidates. Level thresholds and
// the star rendering follow the client display contract.
func (s *Scorer) Score(final []rag.Candidate) Result {
	if len(final) == 0 {
		return Result{
			Level:     LevelLow,
			Score:     0.0,
			Stars:     "",
			Reasoning: "No relevant sources found",
		}
	}

	n := s.topN
	if len(final) < n {
		n = len(final)
	}
	var sum float64
	for _, c := range final[:n] {
		sum += c.Hybrid
	}
	score := sum / float64(n)

	level := LevelLow
	switch {
	case score >= s.highThreshold:
		level = LevelHigh
	case score >= s.mediumThreshold:
		level = LevelMedium
	}

	relevant := 0
	for _, c := range final {
		if c.Hybrid >= s.mediumThreshold {
			relevant++
		}
	}

	return Result{
		Level:     level,
		Score:     score,
		Stars:     stars(score),
		Reasoning: fmt.Sprintf("%d relevant sources found", relevant),
	}
}

func stars(score float64) string {
	if score <= 0 {
		return ""
	}
	count := int(math.Round(score * 5))
	if count < 1 {
		count = 1
	}
	return strings.Repeat("⭐", count)
}
