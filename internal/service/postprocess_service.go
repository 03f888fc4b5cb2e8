package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"lecture-qa-be/internal/constant"
	"lecture-qa-be/internal/dto"
	"lecture-qa-be/internal/repository/specification"
	"lecture-qa-be/internal/repository/unitofwork"
	"lecture-qa-be/pkg/llm"
	"lecture-qa-be/pkg/rag/retention"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// IPostProcessService runs after every persisted answer: it enforces the
// citation retention bound and names untitled conversations.
type IPostProcessService interface {
	Consume(ctx context.Context) error
}

type postProcessService struct {
	pubSub      *gochannel.GoChannel
	uowFactory  unitofwork.RepositoryFactory
	llmProvider llm.Provider
	retention   *retention.Manager
}

func NewPostProcessService(
	pubSub *gochannel.GoChannel,
	uowFactory unitofwork.RepositoryFactory,
	llmProvider llm.Provider,
	keepCitedAnswers int,
) IPostProcessService {
	pruner := &uowCitationPruner{uowFactory: uowFactory}
	return &postProcessService{
		pubSub:      pubSub,
		uowFactory:  uowFactory,
		llmProvider: llmProvider,
		retention:   retention.NewManager(pruner, keepCitedAnswers, log.Default()),
	}
}

func (ps *postProcessService) Consume(ctx context.Context) error {
	messages, err := ps.pubSub.Subscribe(ctx, constant.TopicAnswerGenerated)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			ps.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (ps *postProcessService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.AnswerGeneratedPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal answer event: %v", err)
		msg.Ack()
		return
	}

	if err := ps.retention.Prune(ctx, payload.ConversationId); err != nil {
		log.Printf("[ERROR] Citation retention failed for %s: %v", payload.ConversationId, err)
		msg.Nack()
		return
	}

	// Titling is cosmetic; never retry the message over it.
	if err := ps.maybeTitleConversation(ctx, payload.ConversationId, payload.Question); err != nil {
		log.Printf("[WARN] Failed to title conversation %s: %v", payload.ConversationId, err)
	}

	msg.Ack()
}

func (ps *postProcessService) maybeTitleConversation(ctx context.Context, conversationId uuid.UUID, question string) error {
	uow := ps.uowFactory.NewUnitOfWork(ctx)
	conversation, err := uow.ConversationRepository().FindOne(ctx, specification.ByID{ID: conversationId})
	if err != nil {
		return err
	}
	if conversation == nil || conversation.Title != constant.DefaultConversationTitle {
		return nil
	}

	tctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	prompt := fmt.Sprintf("Write a title of at most 6 words for a conversation that starts with this question. Reply with the title only, no quotes.\n\nQuestion: %s", question)
	title, err := ps.llmProvider.Generate(tctx, prompt, llm.WithTemperature(0.2))
	if err != nil {
		return err
	}

	title = strings.Trim(strings.TrimSpace(title), `"`)
	if title == "" {
		return nil
	}
	title = clampTitle(title, 120)

	conversation.Title = title
	return uow.ConversationRepository().Update(ctx, conversation)
}

// clampTitle cuts on rune boundaries so a multi-byte character is never
// split when the model returns an overlong title.
func clampTitle(title string, max int) string {
	runes := []rune(title)
	if len(runes) <= max {
		return title
	}
	return string(runes[:max])
}

// uowCitationPruner adapts the message repository to the retention manager.
type uowCitationPruner struct {
	uowFactory unitofwork.RepositoryFactory
}

func (p *uowCitationPruner) PruneCitations(ctx context.Context, conversationId uuid.UUID, keepLastN int) (int64, error) {
	uow := p.uowFactory.NewUnitOfWork(ctx)
	return uow.MessageRepository().PruneCitations(ctx, conversationId, keepLastN)
}
