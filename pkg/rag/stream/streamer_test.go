package stream

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"testing"

	"lecture-qa-be/pkg/llm"
	"lecture-qa-be/pkg/rag"
	"lecture-qa-be/pkg/rag/confidence"
	"lecture-qa-be/pkg/rag/followup"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRetrieval struct {
	ranked *RankedContext
	err    error
}

func (f *fakeRetrieval) Retrieve(ctx context.Context, question string) (*RankedContext, error) {
	return f.ranked, f.err
}

type chunkedProvider struct {
	chunks []string
	err    error
}

func (p *chunkedProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return strings.Join(p.chunks, ""), p.err
}

func (p *chunkedProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return strings.Join(p.chunks, ""), p.err
}

func (p *chunkedProvider) ChatStream(ctx context.Context, history []llm.Message, onChunk func(string) error, options ...llm.Option) error {
	for _, c := range p.chunks {
		if err := onChunk(c); err != nil {
			return err
		}
	}
	return p.err
}

type recordedEvent struct {
	kind    string
	text    string
	payload FinalPayload
}

type recorderEmitter struct {
	events     []recordedEvent
	failChunks bool
}

func (r *recorderEmitter) Searching() error {
	r.events = append(r.events, recordedEvent{kind: "searching"})
	return nil
}

func (r *recorderEmitter) Chunk(text string) error {
	if r.failChunks {
		return fmt.Errorf("client disconnected")
	}
	r.events = append(r.events, recordedEvent{kind: "chunk", text: text})
	return nil
}

func (r *recorderEmitter) Done(payload FinalPayload) error {
	r.events = append(r.events, recordedEvent{kind: "done", payload: payload})
	return nil
}

func (r *recorderEmitter) Error(message string) error {
	r.events = append(r.events, recordedEvent{kind: "error", text: message})
	return nil
}

func (r *recorderEmitter) chunksText() string {
	var b strings.Builder
	for _, e := range r.events {
		if e.kind == "chunk" {
			b.WriteString(e.text)
		}
	}
	return b.String()
}

type recordingSink struct {
	calls int
	err   error

	answer   string
	followUp string
	record   *CitationRecord
}

func (s *recordingSink) PersistTurn(ctx context.Context, conversationID uuid.UUID, question, answer, followUp string, record *CitationRecord) error {
	if s.err != nil {
		return s.err
	}
	s.calls++
	s.answer = answer
	s.followUp = followUp
	s.record = record
	return nil
}

func rankedFixture(n int) *RankedContext {
	candidates := make([]rag.Candidate, n)
	for i := range candidates {
		candidates[i] = rag.Candidate{
			SourceLabel: fmt.Sprintf("Lecture %d", i+1),
			Text:        "passage",
			Hybrid:      0.9 - float64(i)*0.05,
		}
	}
	return &RankedContext{
		Candidates: candidates,
		Confidence: confidence.Result{Level: "high", Score: 0.8, Stars: "⭐⭐⭐⭐", Reasoning: "4 relevant sources found"},
	}
}

func newTestStreamer(retrieval Retrieval, provider llm.Provider, sink Sink) *Streamer {
	return NewStreamer(retrieval, provider, sink, 5, log.New(io.Discard, "", 0))
}

func TestRunHappyPathEventOrder(t *testing.T) {
	provider := &chunkedProvider{chunks: []string{"The pair ", "is dual."}}
	sink := &recordingSink{}
	emitter := &recorderEmitter{}
	s := newTestStreamer(&fakeRetrieval{ranked: rankedFixture(3)}, provider, sink)

	err := s.Run(context.Background(), uuid.New(), "q", nil, emitter)
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(emitter.events), 3)
	assert.Equal(t, "searching", emitter.events[0].kind)
	assert.Equal(t, "done", emitter.events[len(emitter.events)-1].kind)
	assert.Equal(t, "The pair is dual.", emitter.chunksText())
	assert.Equal(t, StateDone, s.State())
	assert.Equal(t, 1, sink.calls)
	assert.Equal(t, "The pair is dual.", sink.answer)
}

func TestRunExtractsFollowUpAndHidesMarker(t *testing.T) {
	// Marker split across chunk boundaries on purpose.
	provider := &chunkedProvider{chunks: []string{
		"Duality balances ", "both partners.", "\n---FOLL", "OW_UP---\nWhat about ", "supervision pairs?",
	}}
	sink := &recordingSink{}
	emitter := &recorderEmitter{}
	s := newTestStreamer(&fakeRetrieval{ranked: rankedFixture(2)}, provider, sink)

	err := s.Run(context.Background(), uuid.New(), "q", nil, emitter)
	require.NoError(t, err)

	assert.NotContains(t, emitter.chunksText(), followup.Marker)
	assert.NotContains(t, emitter.chunksText(), "supervision pairs?")

	last := emitter.events[len(emitter.events)-1]
	require.Equal(t, "done", last.kind)
	assert.Equal(t, "Duality balances both partners.", last.payload.Answer)
	assert.Equal(t, "What about supervision pairs?", last.payload.FollowUp)
	assert.Equal(t, "What about supervision pairs?", sink.followUp)
}

func TestRunCapsCitationSources(t *testing.T) {
	provider := &chunkedProvider{chunks: []string{"answer"}}
	sink := &recordingSink{}
	emitter := &recorderEmitter{}
	s := newTestStreamer(&fakeRetrieval{ranked: rankedFixture(12)}, provider, sink)

	err := s.Run(context.Background(), uuid.New(), "q", nil, emitter)
	require.NoError(t, err)

	last := emitter.events[len(emitter.events)-1]
	require.Equal(t, "done", last.kind)
	require.NotNil(t, last.payload.Citations)
	assert.Len(t, last.payload.Citations.Sources, 5)
	assert.Equal(t, "Lecture 1", last.payload.Citations.Sources[0].Label)
	assert.Contains(t, []string{"high", "medium", "low"}, last.payload.Citations.Confidence.Level)
}

func TestRunClientDisconnectPersistsNothing(t *testing.T) {
	provider := &chunkedProvider{chunks: []string{"a long stretch of answer text ", "more text"}}
	sink := &recordingSink{}
	emitter := &recorderEmitter{failChunks: true}
	s := newTestStreamer(&fakeRetrieval{ranked: rankedFixture(2)}, provider, sink)

	err := s.Run(context.Background(), uuid.New(), "q", nil, emitter)
	require.Error(t, err)

	assert.Equal(t, StateError, s.State())
	assert.Equal(t, 0, sink.calls)
}

func TestRunGenerationFailure(t *testing.T) {
	provider := &chunkedProvider{chunks: []string{"partial "}, err: fmt.Errorf("backend gone")}
	sink := &recordingSink{}
	emitter := &recorderEmitter{}
	s := newTestStreamer(&fakeRetrieval{ranked: rankedFixture(2)}, provider, sink)

	err := s.Run(context.Background(), uuid.New(), "q", nil, emitter)
	require.Error(t, err)

	assert.Equal(t, StateError, s.State())
	assert.Equal(t, 0, sink.calls)

	last := emitter.events[len(emitter.events)-1]
	assert.Equal(t, "error", last.kind)
	var errorCount int
	for _, e := range emitter.events {
		if e.kind == "error" {
			errorCount++
		}
	}
	assert.Equal(t, 1, errorCount)
}

func TestRunRetrievalFailure(t *testing.T) {
	sink := &recordingSink{}
	emitter := &recorderEmitter{}
	s := newTestStreamer(&fakeRetrieval{err: fmt.Errorf("no embedding")}, &chunkedProvider{}, sink)

	err := s.Run(context.Background(), uuid.New(), "q", nil, emitter)
	require.Error(t, err)

	assert.Equal(t, StateError, s.State())
	assert.Equal(t, 0, sink.calls)
	last := emitter.events[len(emitter.events)-1]
	assert.Equal(t, "error", last.kind)
}

func TestRunPersistenceFailureSurfacesError(t *testing.T) {
	provider := &chunkedProvider{chunks: []string{"answer"}}
	sink := &recordingSink{err: fmt.Errorf("db down")}
	emitter := &recorderEmitter{}
	s := newTestStreamer(&fakeRetrieval{ranked: rankedFixture(1)}, provider, sink)

	err := s.Run(context.Background(), uuid.New(), "q", nil, emitter)
	require.Error(t, err)

	assert.Equal(t, StateError, s.State())
	last := emitter.events[len(emitter.events)-1]
	assert.Equal(t, "error", last.kind)
	assert.Equal(t, "Sorry, your answer could not be saved.", last.text)
}
