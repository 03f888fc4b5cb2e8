package stream

import (
	"context"
	"fmt"
	"log"
	"strings"

	"lecture-qa-be/pkg/llm"
	"lecture-qa-be/pkg/rag"
	"lecture-qa-be/pkg/rag/confidence"
	"lecture-qa-be/pkg/rag/followup"

	"github.com/google/uuid"
)

// State of one streamed answer.
type State int

const (
	StateIdle State = iota
	StateSearching
	StateGenerating
	StateDone
	StateError
)

// RankedContext is the ranking pipeline's output handed to generation.
type RankedContext struct {
	Candidates []rag.Candidate
	Confidence confidence.Result
}

// Retrieval runs the full ranking pipeline for one question. Soft failures
// are absorbed inside; an error here means the request itself is no longer
// viable (context dead, no embedding for the original query).
type Retrieval interface {
	Retrieve(ctx context.Context, question string) (*RankedContext, error)
}

// Sink persists one completed turn. Called exactly once, only when the stream
// reached completion; a turn that errored or was cancelled is never persisted.
type Sink interface {
	PersistTurn(ctx context.Context, conversationID uuid.UUID, question, answer, followUp string, record *CitationRecord) error
}

// Streamer drives one answer through IDLE, SEARCHING, GENERATING, DONE,
// relaying generation chunks to the emitter as they arrive. ERROR is reachable
// from any non-terminal state and always produces exactly one error event.
type Streamer struct {
	retrieval  Retrieval
	provider   llm.Provider
	sink       Sink
	maxSources int
	logger     *log.Logger

	state State
}

func NewStreamer(retrieval Retrieval, provider llm.Provider, sink Sink, maxSources int, logger *log.Logger) *Streamer {
	return &Streamer{
		retrieval:  retrieval,
		provider:   provider,
		sink:       sink,
		maxSources: maxSources,
		logger:     logger,
		state:      StateIdle,
	}
}

// State reports the streamer's current state. One Streamer serves one request.
func (s *Streamer) State() State {
	return s.state
}

// Run executes the full question-to-answer flow against the emitter.
func (s *Streamer) Run(
	ctx context.Context,
	conversationID uuid.UUID,
	question string,
	history []llm.Message,
	emitter Emitter,
) error {
	// The searching event goes out before any retrieval work so the UI shows
	// activity immediately.
	s.state = StateSearching
	if err := emitter.Searching(); err != nil {
		return s.fail(emitter, "Connection lost", err)
	}

	ranked, err := s.retrieval.Retrieve(ctx, question)
	if err != nil {
		return s.fail(emitter, "Sorry, something went wrong while searching the lectures.", err)
	}

	s.state = StateGenerating
	prompt := buildGroundedPrompt(question, ranked.Candidates)
	fullHistory := append(append([]llm.Message{}, history...), llm.Message{Role: "user", Content: prompt})

	relay := newMarkerRelay(emitter)
	streamErr := s.provider.ChatStream(ctx, fullHistory, relay.Write)
	if streamErr == nil {
		streamErr = ctx.Err()
	}
	if streamErr != nil {
		return s.fail(emitter, "Sorry, something went wrong while generating the answer.", streamErr)
	}

	answer, followUp, err := relay.Finish()
	if err != nil {
		return s.fail(emitter, "Connection lost", err)
	}

	record := s.buildCitationRecord(ranked)
	if err := s.sink.PersistTurn(ctx, conversationID, question, answer, followUp, record); err != nil {
		// An unsaved answer must not be presented as saved.
		return s.fail(emitter, "Sorry, your answer could not be saved.", err)
	}

	s.state = StateDone
	return emitter.Done(FinalPayload{
		Answer:    answer,
		FollowUp:  followUp,
		Citations: record,
	})
}

func (s *Streamer) fail(emitter Emitter, userMessage string, cause error) error {
	s.logger.Printf("[ERROR] Stream aborted: %v", cause)
	s.state = StateError
	// Best effort: a disconnected client cannot receive the error event.
	_ = emitter.Error(userMessage)
	return cause
}

func (s *Streamer) buildCitationRecord(ranked *RankedContext) *CitationRecord {
	sources := make([]CitationSource, 0, s.maxSources)
	for _, c := range ranked.Candidates {
		if len(sources) >= s.maxSources {
			break
		}
		sources = append(sources, CitationSource{Label: c.SourceLabel, Score: c.Hybrid})
	}
	return &CitationRecord{
		Sources:    sources,
		Confidence: ranked.Confidence,
	}
}

func buildGroundedPrompt(question string, candidates []rag.Candidate) string {
	var b strings.Builder

	b.WriteString("<grounded_reference_material>\n")
	b.WriteString("CRITICAL: Answer ONLY from the lecture passages below. Do NOT use outside knowledge.\n\n")
	for i, c := range candidates {
		fmt.Fprintf(&b, "--- PASSAGE %d (%s) ---\n%s\n", i+1, c.SourceLabel, c.Text)
	}
	b.WriteString("</grounded_reference_material>\n\n")

	b.WriteString("<task_instructions>\n")
	b.WriteString("Answer the question directly, citing the passages you used.\n")
	fmt.Fprintf(&b, "If a natural next question exists, append it after a line containing exactly %s on its own line, as a single line.\n", followup.Marker)
	b.WriteString("Otherwise end without the marker.\n")
	b.WriteString("</task_instructions>\n\n")

	fmt.Fprintf(&b, "Question: %s", question)
	return b.String()
}

// markerRelay forwards chunks verbatim while guaranteeing the follow-up
// marker and its trailer never reach the client. It withholds enough trailing
// bytes that a marker split across chunk boundaries is still caught.
type markerRelay struct {
	emitter Emitter
	acc     strings.Builder
	emitted int
	silent  bool
}

func newMarkerRelay(emitter Emitter) *markerRelay {
	return &markerRelay{emitter: emitter}
}

func (r *markerRelay) Write(chunk string) error {
	r.acc.WriteString(chunk)
	if r.silent {
		return nil
	}

	full := r.acc.String()
	limit := len(full)
	if idx := strings.Index(full, followup.Marker); idx >= 0 {
		limit = idx
		r.silent = true
	} else {
		// Hold back a possible marker prefix straddling the chunk boundary.
		holdback := len(followup.Marker) - 1
		if limit-r.emitted > holdback {
			limit -= holdback
		} else {
			limit = r.emitted
		}
	}

	if limit > r.emitted {
		if err := r.emitter.Chunk(full[r.emitted:limit]); err != nil {
			return err
		}
		r.emitted = limit
	}
	return nil
}

// Finish flushes any withheld display text and returns the cleaned answer and
// the fail-closed follow-up.
func (r *markerRelay) Finish() (answer, followUp string, err error) {
	full := r.acc.String()
	answer, followUp = followup.Extract(full)

	display := len(full)
	if idx := strings.Index(full, followup.Marker); idx >= 0 {
		display = idx
	}
	if display > r.emitted {
		if err := r.emitter.Chunk(full[r.emitted:display]); err != nil {
			return "", "", err
		}
		r.emitted = display
	}
	return answer, followUp, nil
}
