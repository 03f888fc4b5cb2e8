package dto

import (
	"time"

	"github.com/google/uuid"

	"lecture-qa-be/pkg/rag/stream"
)

type CreateConversationResponse struct {
	Id uuid.UUID `json:"id"`
}

type GetAllConversationsResponse struct {
	Id        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type GetConversationHistoryResponse struct {
	Id        uuid.UUID              `json:"id"`
	Role      string                 `json:"role"`
	Content   string                 `json:"content"`
	FollowUp  *string                `json:"follow_up,omitempty"`
	Citations *stream.CitationRecord `json:"citations,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

type DeleteConversationRequest struct {
	ConversationId uuid.UUID `json:"conversation_id" validate:"required"`
}
