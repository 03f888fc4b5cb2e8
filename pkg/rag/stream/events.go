package stream

import (
	"lecture-qa-be/pkg/rag/confidence"
)

// CitationSource is one cited passage in the final payload.
type CitationSource struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// CitationRecord is the provenance summary attached to a generated answer.
// It is what survives after candidates are discarded, and what the retention
// manager later nulls out on old answers.
type CitationRecord struct {
	Sources    []CitationSource  `json:"sources"`
	Confidence confidence.Result `json:"confidence"`
}

// FinalPayload travels with the terminal done event.
type FinalPayload struct {
	Answer    string
	FollowUp  string
	Citations *CitationRecord
}

// Emitter is the caller-facing event channel. The websocket handler implements
// it; tests use an in-memory recorder. Event order per request: one searching
// event, zero or more chunks, exactly one Done or Error.
type Emitter interface {
	Searching() error
	Chunk(text string) error
	Done(payload FinalPayload) error
	Error(message string) error
}
