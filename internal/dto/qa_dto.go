package dto

import (
	"time"

	"github.com/google/uuid"

	"lecture-qa-be/pkg/rag/confidence"
	"lecture-qa-be/pkg/rag/stream"
)

type AskRequest struct {
	ConversationId uuid.UUID `json:"conversation_id" validate:"required"`
	Question       string    `json:"question" validate:"required,max=2000"`
}

type AskResponse struct {
	ConversationId uuid.UUID              `json:"conversation_id"`
	Answer         string                 `json:"answer"`
	FollowUp       string                 `json:"follow_up,omitempty"`
	Citations      *stream.CitationRecord `json:"citations,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
}

// AnswerGeneratedPayload is the body of the qa.answer.generated events
// published after each persisted answer.
type AnswerGeneratedPayload struct {
	ConversationId uuid.UUID         `json:"conversation_id"`
	UserId         uuid.UUID         `json:"user_id"`
	Question       string            `json:"question"`
	Confidence     confidence.Result `json:"confidence"`
	SourceCount    int               `json:"source_count"`
	AnsweredAt     time.Time         `json:"answered_at"`
}

type CreateLectureRequest struct {
	Title      string   `json:"title" validate:"required,max=255"`
	Season     int      `json:"season" validate:"required,min=1"`
	Category   string   `json:"category" validate:"required,oneof=lecture webinar qa-session"`
	TypeCodes  []string `json:"type_codes" validate:"dive,len=3|len=4"`
	Transcript string   `json:"transcript" validate:"required"`
}

type CreateLectureResponse struct {
	Id uuid.UUID `json:"id"`
}
