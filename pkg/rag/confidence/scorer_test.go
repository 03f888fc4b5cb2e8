package confidence

import (
	"testing"

	"lecture-qa-be/pkg/rag"

	"github.com/stretchr/testify/assert"
)

func withHybrid(scores ...float64) []rag.Candidate {
	out := make([]rag.Candidate, len(scores))
	for i, s := range scores {
		out[i].Hybrid = s
	}
	return out
}

func TestScoreEmptySet(t *testing.T) {
	s := NewScorer(5, 0.75, 0.5)

	got := s.Score(nil)

	assert.Equal(t, LevelLow, got.Level)
	assert.Equal(t, 0.0, got.Score)
	assert.Equal(t, "", got.Stars)
	assert.Equal(t, "No relevant sources found", got.Reasoning)
}

func TestScoreMeanOfTopFive(t *testing.T) {
	s := NewScorer(5, 0.75, 0.5)

	// Seven candidates; only the first five count toward the mean.
	got := s.Score(withHybrid(1.0, 0.9, 0.8, 0.7, 0.6, 0.1, 0.1))
	assert.InDelta(t, 0.8, got.Score, 1e-9)
	assert.Equal(t, LevelHigh, got.Level)
}

func TestScoreFewerThanFive(t *testing.T) {
	s := NewScorer(5, 0.75, 0.5)

	got := s.Score(withHybrid(0.6, 0.4))
	assert.InDelta(t, 0.5, got.Score, 1e-9)
	assert.Equal(t, LevelMedium, got.Level)
}

func TestLevelThresholds(t *testing.T) {
	s := NewScorer(5, 0.75, 0.5)

	tests := []struct {
		score float64
		level string
	}{
		{0.75, LevelHigh},
		{0.7499, LevelMedium},
		{0.5, LevelMedium},
		{0.4999, LevelLow},
		{0.0, LevelLow},
	}
	for _, tt := range tests {
		got := s.Score(withHybrid(tt.score))
		assert.Equal(t, tt.level, got.Level, "score %v", tt.score)
	}
}

func TestScoreMonotonicity(t *testing.T) {
	s := NewScorer(5, 0.75, 0.5)

	base := withHybrid(0.3, 0.5, 0.7)
	raised := withHybrid(0.4, 0.6, 0.8)

	lo := s.Score(base)
	hi := s.Score(raised)

	assert.GreaterOrEqual(t, hi.Score, lo.Score)
	assert.GreaterOrEqual(t, levelRank(hi.Level), levelRank(lo.Level))
}

func levelRank(level string) int {
	switch level {
	case LevelHigh:
		return 2
	case LevelMedium:
		return 1
	default:
		return 0
	}
}

func TestStars(t *testing.T) {
	s := NewScorer(5, 0.75, 0.5)

	assert.Equal(t, "⭐⭐⭐⭐⭐", s.Score(withHybrid(1.0)).Stars)
	assert.Equal(t, "⭐⭐⭐", s.Score(withHybrid(0.6)).Stars)
	// Minimum one star for any non-zero score.
	assert.Equal(t, "⭐", s.Score(withHybrid(0.05)).Stars)
	assert.Equal(t, "", s.Score(withHybrid(0.0)).Stars)
}

func TestReasoningCountsRelevantSources(t *testing.T) {
	s := NewScorer(5, 0.75, 0.5)

	got := s.Score(withHybrid(0.9, 0.6, 0.3))
	assert.Equal(t, "2 relevant sources found", got.Reasoning)
}
