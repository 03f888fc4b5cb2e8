package entity

import (
	"time"

	"github.com/google/uuid"

	"lecture-qa-be/pkg/rag/stream"
)

type Message struct {
	Id             uuid.UUID
	ConversationId uuid.UUID
	Role           string
	Content        string
	FollowUp       *string
	// Citations is nil for user messages and for assistant messages whose
	// citation payload was cleared by the retention policy.
	Citations *stream.CitationRecord
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}
