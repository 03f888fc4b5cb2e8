package service

import (
	"context"
	"time"

	"lecture-qa-be/internal/constant"
	"lecture-qa-be/internal/dto"
	"lecture-qa-be/internal/entity"
	"lecture-qa-be/internal/repository/specification"
	"lecture-qa-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IConversationService interface {
	CreateConversation(ctx context.Context, userId uuid.UUID) (*dto.CreateConversationResponse, error)
	GetAllConversations(ctx context.Context, userId uuid.UUID) ([]*dto.GetAllConversationsResponse, error)
	GetHistory(ctx context.Context, userId uuid.UUID, conversationId uuid.UUID) ([]*dto.GetConversationHistoryResponse, error)
	DeleteConversation(ctx context.Context, userId uuid.UUID, request *dto.DeleteConversationRequest) error
}

type conversationService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewConversationService(uowFactory unitofwork.RepositoryFactory) IConversationService {
	return &conversationService{
		uowFactory: uowFactory,
	}
}

func (cs *conversationService) CreateConversation(ctx context.Context, userId uuid.UUID) (*dto.CreateConversationResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	conversation := entity.Conversation{
		Id:        uuid.New(),
		UserId:    userId,
		Title:     constant.DefaultConversationTitle,
		CreatedAt: time.Now(),
	}

	if err := uow.ConversationRepository().Create(ctx, &conversation); err != nil {
		return nil, err
	}

	return &dto.CreateConversationResponse{Id: conversation.Id}, nil
}

func (cs *conversationService) GetAllConversations(ctx context.Context, userId uuid.UUID) ([]*dto.GetAllConversationsResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	conversations, err := uow.ConversationRepository().FindAll(ctx,
		specification.OwnedByUser{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.GetAllConversationsResponse, 0, len(conversations))
	for _, c := range conversations {
		response = append(response, &dto.GetAllConversationsResponse{
			Id:        c.Id,
			Title:     c.Title,
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
		})
	}
	return response, nil
}

func (cs *conversationService) GetHistory(ctx context.Context, userId uuid.UUID, conversationId uuid.UUID) ([]*dto.GetConversationHistoryResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	conversation, err := uow.ConversationRepository().FindOne(ctx,
		specification.ByID{ID: conversationId},
		specification.OwnedByUser{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, ErrConversationNotFound
	}

	messages, err := uow.MessageRepository().FindAll(ctx,
		specification.ByConversationID{ConversationID: conversationId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.GetConversationHistoryResponse, 0, len(messages))
	for _, m := range messages {
		response = append(response, &dto.GetConversationHistoryResponse{
			Id:        m.Id,
			Role:      m.Role,
			Content:   m.Content,
			FollowUp:  m.FollowUp,
			Citations: m.Citations,
			CreatedAt: m.CreatedAt,
		})
	}
	return response, nil
}

func (cs *conversationService) DeleteConversation(ctx context.Context, userId uuid.UUID, request *dto.DeleteConversationRequest) error {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	conversation, err := uow.ConversationRepository().FindOne(ctx,
		specification.ByID{ID: request.ConversationId},
		specification.OwnedByUser{UserID: userId},
	)
	if err != nil {
		return err
	}
	if conversation == nil {
		return ErrConversationNotFound
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.MessageRepository().DeleteByConversationId(ctx, request.ConversationId); err != nil {
		return err
	}
	if err := uow.ConversationRepository().Delete(ctx, request.ConversationId); err != nil {
		return err
	}

	return uow.Commit()
}
