package rank

import (
	"context"
	"fmt"
	"io"
	"log"
	"testing"
	"time"
	"unicode/utf8"

	"lecture-qa-be/pkg/llm"
	"lecture-qa-be/pkg/rag"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	response string
	err      error
}

func (f *fakeProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return f.response, f.err
}

func (f *fakeProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.response, f.err
}

func (f *fakeProvider) ChatStream(ctx context.Context, history []llm.Message, onChunk func(string) error, options ...llm.Option) error {
	if f.err != nil {
		return f.err
	}
	return onChunk(f.response)
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func makeCandidates(n int) []rag.Candidate {
	out := make([]rag.Candidate, n)
	for i := range out {
		out[i] = rag.Candidate{
			Text:       fmt.Sprintf("passage %d", i),
			Similarity: 0.5,
			Boosted:    0.5,
			MergeOrder: i,
		}
	}
	return out
}

func TestJudgeParsesPlainArray(t *testing.T) {
	j := NewRelevanceJudge(&fakeProvider{response: "[8, 3, 10]"}, time.Second, testLogger())

	scored, ok := j.Score(context.Background(), "q", makeCandidates(3))
	require.True(t, ok)
	require.Len(t, scored, 3)
	assert.Equal(t, 8, *scored[0].Relevance)
	assert.Equal(t, 3, *scored[1].Relevance)
	assert.Equal(t, 10, *scored[2].Relevance)
}

func TestJudgeParsesWrappedArray(t *testing.T) {
	response := "Sure! Here are the scores:\n```json\n[7, 2]\n```\nLet me know if you need anything else."
	j := NewRelevanceJudge(&fakeProvider{response: response}, time.Second, testLogger())

	scored, ok := j.Score(context.Background(), "q", makeCandidates(2))
	require.True(t, ok)
	assert.Equal(t, 7, *scored[0].Relevance)
	assert.Equal(t, 2, *scored[1].Relevance)
}

func TestJudgeClampsOutOfRangeScores(t *testing.T) {
	j := NewRelevanceJudge(&fakeProvider{response: "[0, 15]"}, time.Second, testLogger())

	scored, ok := j.Score(context.Background(), "q", makeCandidates(2))
	require.True(t, ok)
	assert.Equal(t, 1, *scored[0].Relevance)
	assert.Equal(t, 10, *scored[1].Relevance)
}

func TestJudgeDegradesOnMalformedOutput(t *testing.T) {
	tests := []struct {
		name     string
		response string
		err      error
	}{
		{"prose only", "these all look great", nil},
		{"length mismatch", "[5, 5]", nil},
		{"non-integer entries", `["high", "low", "high"]`, nil},
		{"object without list", `{"confidence": "high"}`, nil},
		{"provider error", "", fmt.Errorf("connection refused")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := NewRelevanceJudge(&fakeProvider{response: tt.response, err: tt.err}, time.Second, testLogger())

			scored, ok := j.Score(context.Background(), "q", makeCandidates(3))
			assert.False(t, ok)
			require.Len(t, scored, 3)
			for _, c := range scored {
				assert.Nil(t, c.Relevance)
			}
		})
	}
}

func TestJudgeNilProvider(t *testing.T) {
	j := NewRelevanceJudge(nil, time.Second, testLogger())

	scored, ok := j.Score(context.Background(), "q", makeCandidates(2))
	assert.False(t, ok)
	assert.Len(t, scored, 2)
}

func TestTruncateKeepsRuneBoundaries(t *testing.T) {
	// 6 runes, 12 bytes; a byte-index cut at 8 would split the third rune.
	text := "ダンスの講義"

	got := truncate(text, 4)
	assert.Equal(t, "ダンスの...", got)
	assert.True(t, utf8.ValidString(got))

	assert.Equal(t, text, truncate(text, 6))
	assert.Equal(t, "abc", truncate("abc", 10))
}
