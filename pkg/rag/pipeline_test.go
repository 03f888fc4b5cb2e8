package rag_test

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"lecture-qa-be/pkg/llm"
	"lecture-qa-be/pkg/rag"
	"lecture-qa-be/pkg/rag/confidence"
	"lecture-qa-be/pkg/rag/expand"
	"lecture-qa-be/pkg/rag/merge"
	"lecture-qa-be/pkg/rag/rank"
	"lecture-qa-be/pkg/rag/retrieve"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// corpusSearcher serves a fixed candidate set for every query, with one
// passage deliberately repeated so merging has duplicates to collapse.
type corpusSearcher struct {
	passages []rag.Candidate
}

func (s *corpusSearcher) Search(ctx context.Context, query string, topK int) ([]rag.Candidate, error) {
	out := make([]rag.Candidate, len(s.passages))
	copy(out, s.passages)
	// The expanded variant sees the shared passage with a higher similarity.
	if strings.Contains(query, "(") {
		out[0].Similarity += 0.05
	}
	if len(out) > topK {
		out = out[:topK]
	}
	return out, nil
}

// scriptedJudge answers the batched judge prompt with a fixed score array.
type scriptedJudge struct {
	scores string
}

func (p *scriptedJudge) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return p.scores, nil
}

func (p *scriptedJudge) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return "", fmt.Errorf("not used")
}

func (p *scriptedJudge) ChatStream(ctx context.Context, history []llm.Message, onChunk func(string) error, options ...llm.Option) error {
	return fmt.Errorf("not used")
}

func corpus() []rag.Candidate {
	mk := func(label, text string, sim float64, codes ...string) rag.Candidate {
		return rag.Candidate{
			ChunkID:     uuid.New(),
			SourceID:    uuid.New(),
			SourceLabel: label,
			Text:        text,
			Similarity:  sim,
			Metadata:    rag.PassageMetadata{Season: 2, Category: "lecture", TypeCodes: codes},
		}
	}
	return []rag.Candidate{
		mk("Duality Basics (lecture)", "ILE and SEI form a dual pair...", 0.82, "ILE", "SEI"),
		mk("Intertype Relations (lecture)", "Social compatibility depends on...", 0.74, "ILE"),
		mk("Season 2 Q&A (qa-session)", "A listener asked about SEI partners...", 0.61, "SEI"),
		mk("Stress Responses (webinar)", "Under pressure each type...", 0.44),
	}
}

// Runs every ranking stage in order against a fixed corpus, the way the
// answering service composes them.
func TestPipelineGoldenPath(t *testing.T) {
	question := "How are ILE and SEI socially compatible?"
	quiet := log.New(io.Discard, "", 0)
	cfg := rag.DefaultConfig()

	expander := expand.NewExpander(cfg.MaxQueryVariants)
	variants := expander.Expand(question)
	require.GreaterOrEqual(t, len(variants), 2)
	assert.Equal(t, question, variants[0])
	assert.Contains(t, variants[1], "(", "second variant carries the ontology long form")

	searcher := &corpusSearcher{passages: corpus()}
	multi := retrieve.NewMultiSearcher(searcher, cfg.TopKPerQuery, time.Second, quiet)
	perVariant := multi.SearchAll(context.Background(), variants)
	require.Len(t, perVariant, len(variants))

	merged := merge.Merge(perVariant)
	require.NotEmpty(t, merged)
	seen := map[uuid.UUID]bool{}
	for _, c := range merged {
		assert.False(t, seen[c.ChunkID], "merged set repeats a chunk")
		seen[c.ChunkID] = true
	}
	// The duplicate keeps the higher similarity from the expanded variant.
	assert.InDelta(t, 0.87, merged[0].Similarity, 1e-9)

	boosted := rank.NewMetadataRanker(cfg.MaxMetadataBoost).Apply(question, merged)
	for i := range boosted {
		assert.GreaterOrEqual(t, boosted[i].Boosted, boosted[i].Similarity)
	}

	judge := rank.NewRelevanceJudge(&scriptedJudge{scores: "[9, 7, 6, 2]"}, cfg.JudgeTimeout, quiet)
	judged, ok := judge.Score(context.Background(), question, rank.TopByBoosted(boosted, cfg.JudgeTopM))
	require.True(t, ok)

	blended := rank.BlendHybrid(judged, cfg.BoostedWeight, cfg.RelevanceWeight)
	final := rank.SelectTop(blended, cfg.FinalCandidates)
	require.NotEmpty(t, final)
	assert.LessOrEqual(t, len(final), cfg.FinalCandidates)
	assert.Equal(t, "Duality Basics (lecture)", final[0].SourceLabel)

	result := confidence.NewScorer(cfg.ConfidenceTopN, cfg.HighThreshold, cfg.MediumThreshold).Score(final)
	assert.Contains(t, []string{"high", "medium", "low"}, result.Level)
	assert.Greater(t, result.Score, 0.0)
}

// A judge that answers garbage must leave the ranking similarity-driven and
// the pipeline still standing.
func TestPipelineDegradesWithoutJudge(t *testing.T) {
	question := "How are ILE and SEI socially compatible?"
	quiet := log.New(io.Discard, "", 0)
	cfg := rag.DefaultConfig()

	merged := merge.Merge([][]rag.Candidate{corpus()})
	boosted := rank.NewMetadataRanker(cfg.MaxMetadataBoost).Apply(question, merged)

	judge := rank.NewRelevanceJudge(&scriptedJudge{scores: "I cannot score these."}, cfg.JudgeTimeout, quiet)
	judged, ok := judge.Score(context.Background(), question, boosted)
	require.False(t, ok)

	blended := rank.BlendHybrid(judged, cfg.BoostedWeight, cfg.RelevanceWeight)
	for i := range blended {
		assert.Nil(t, blended[i].Relevance)
		assert.Equal(t, blended[i].Boosted, blended[i].Hybrid)
	}

	final := rank.SelectTop(blended, cfg.FinalCandidates)
	assert.NotEmpty(t, final)
}
