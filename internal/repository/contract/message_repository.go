package contract

import (
	"context"

	"lecture-qa-be/internal/entity"
	"lecture-qa-be/internal/repository/specification"

	"github.com/google/uuid"
)

type MessageRepository interface {
	Create(ctx context.Context, message *entity.Message) error
	Update(ctx context.Context, message *entity.Message) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByConversationId(ctx context.Context, conversationId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Message, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Message, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// PruneCitations clears the citation payload and follow-up from every
	// assistant message of the conversation except the newest keepLastN.
	// Returns the number of rows cleared.
	PruneCitations(ctx context.Context, conversationId uuid.UUID, keepLastN int) (int64, error)
}
