package unitofwork

import (
	"context"

	"lecture-qa-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ConversationRepository() contract.ConversationRepository
	MessageRepository() contract.MessageRepository
	LectureRepository() contract.LectureRepository
	LectureChunkRepository() contract.LectureChunkRepository
}
