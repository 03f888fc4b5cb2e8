package rank

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"lecture-qa-be/pkg/llm"
	"lecture-qa-be/pkg/rag"
)

// RelevanceJudge asks the LLM to score candidates 1-10 against the original
// question in a single batched call. The whole stage is a soft dependency:
// every failure path leaves Relevance nil and the caller falls back to
// boosted-only ranking.
type RelevanceJudge struct {
	provider llm.Provider
	timeout  time.Duration
	logger   *log.Logger
}

func NewRelevanceJudge(provider llm.Provider, timeout time.Duration, logger *log.Logger) *RelevanceJudge {
	return &RelevanceJudge{
		provider: provider,
		timeout:  timeout,
		logger:   logger,
	}
}

// Score returns a new slice with Relevance filled on the first len(scores)
// candidates, or the input copied unchanged when the judge degraded. The
// second return reports whether judging succeeded.
func (j *RelevanceJudge) Score(ctx context.Context, question string, candidates []rag.Candidate) ([]rag.Candidate, bool) {
	out := make([]rag.Candidate, len(candidates))
	copy(out, candidates)

	if j.provider == nil || len(candidates) == 0 {
		return out, false
	}

	jctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	response, err := j.provider.Generate(jctx, j.buildPrompt(question, candidates), llm.WithTemperature(0.0))
	if err != nil {
		j.logger.Printf("[WARN] Relevance judge call failed, degrading to boosted-only ranking: %v", err)
		return out, false
	}

	scores, err := parseScores(response, len(candidates))
	if err != nil {
		j.logger.Printf("[WARN] Relevance judge output rejected, degrading: %v", err)
		return out, false
	}

	for i := range out {
		s := scores[i]
		out[i].Relevance = &s
	}
	return out, true
}

func (j *RelevanceJudge) buildPrompt(question string, candidates []rag.Candidate) string {
	var b strings.Builder
	b.WriteString("You are scoring retrieved lecture passages for relevance to a question.\n")
	fmt.Fprintf(&b, "Question: %s\n\n", question)
	b.WriteString("Passages:\n")
	for i, c := range candidates {
		fmt.Fprintf(&b, "%d. %s\n", i+1, truncate(c.Text, 400))
	}
	fmt.Fprintf(&b, "\nOutput ONLY a JSON array of %d integers from 1 to 10, one score per passage, in the same order. No explanations.\n", len(candidates))
	return b.String()
}

var arrayPattern = regexp.MustCompile(`(?s)\[.*?\]`)

// parseScores extracts the score array. The model often wraps the array in
// code fences or prose, so we take the first bracketed block; any shape
// mismatch is a rejection, not a crash.
func parseScores(response string, want int) ([]int, error) {
	raw := arrayPattern.FindString(response)
	if raw == "" {
		return nil, fmt.Errorf("no JSON array in response")
	}

	var scores []int
	if err := json.Unmarshal([]byte(raw), &scores); err != nil {
		return nil, fmt.Errorf("parse score array: %w", err)
	}
	if len(scores) != want {
		return nil, fmt.Errorf("score count mismatch: got %d, want %d", len(scores), want)
	}
	for i, s := range scores {
		if s < 1 {
			scores[i] = 1
		} else if s > 10 {
			scores[i] = 10
		}
	}
	return scores, nil
}

// truncate cuts on rune boundaries; transcript text is not pure ASCII.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
