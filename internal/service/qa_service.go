package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"path/filepath"
	"time"

	"lecture-qa-be/internal/constant"
	"lecture-qa-be/internal/dto"
	"lecture-qa-be/internal/entity"
	"lecture-qa-be/internal/repository/memory"
	"lecture-qa-be/internal/repository/specification"
	"lecture-qa-be/internal/repository/unitofwork"
	"lecture-qa-be/pkg/embedding"
	"lecture-qa-be/pkg/events"
	"lecture-qa-be/pkg/llm"
	pktNats "lecture-qa-be/pkg/nats"
	"lecture-qa-be/pkg/rag"
	"lecture-qa-be/pkg/rag/confidence"
	"lecture-qa-be/pkg/rag/expand"
	"lecture-qa-be/pkg/rag/merge"
	"lecture-qa-be/pkg/rag/rank"
	"lecture-qa-be/pkg/rag/retrieve"
	"lecture-qa-be/pkg/rag/stream"

	"github.com/google/uuid"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrAnswerInProgress     = errors.New("an answer is already being generated for this conversation")
)

// IQAService answers questions about the lecture corpus.
type IQAService interface {
	Ask(ctx context.Context, userId uuid.UUID, request *dto.AskRequest) (*dto.AskResponse, error)
	StreamAnswer(ctx context.Context, userId uuid.UUID, conversationId uuid.UUID, question string, emitter stream.Emitter) error

	// Retrieve runs only the retrieval-and-ranking stages, without generation
	// or persistence. Exposed for offline pipeline inspection.
	Retrieve(ctx context.Context, question string) (*stream.RankedContext, error)
}

// qaService wires the ranking pipeline to storage and the model providers.
type qaService struct {
	uowFactory     unitofwork.RepositoryFactory
	llmProvider    llm.Provider
	sessionRepo    *memory.SessionRepository
	publisher      IPublisherService
	eventPublisher *pktNats.Publisher
	cfg            rag.Config
	ragLogger      *log.Logger

	expander      *expand.Expander
	multiSearcher *retrieve.MultiSearcher
	ranker        *rank.MetadataRanker
	judge         *rank.RelevanceJudge
	scorer        *confidence.Scorer
}

func NewQAService(
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.Provider,
	llmProvider llm.Provider,
	sessionRepo *memory.SessionRepository,
	publisher IPublisherService,
	eventPublisher *pktNats.Publisher,
	cfg rag.Config,
) IQAService {
	ragLogger := initRAGLogger()

	searcher := newVectorSearcher(uowFactory, embeddingProvider, cfg.SimilarityThreshold)

	return &qaService{
		uowFactory:     uowFactory,
		llmProvider:    llmProvider,
		sessionRepo:    sessionRepo,
		publisher:      publisher,
		eventPublisher: eventPublisher,
		cfg:            cfg,
		ragLogger:      ragLogger,

		expander:      expand.NewExpander(cfg.MaxQueryVariants),
		multiSearcher: retrieve.NewMultiSearcher(searcher, cfg.TopKPerQuery, cfg.SearchTimeout, ragLogger),
		ranker:        rank.NewMetadataRanker(cfg.MaxMetadataBoost),
		judge:         rank.NewRelevanceJudge(llmProvider, cfg.JudgeTimeout, ragLogger),
		scorer:        confidence.NewScorer(cfg.ConfidenceTopN, cfg.HighThreshold, cfg.MediumThreshold),
	}
}

func initRAGLogger() *log.Logger {
	logPath := filepath.Join(".", "logs", "qa_pipeline.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		log.Printf("Failed to create logs directory: %v", err)
	}
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return log.New(os.Stdout, "[QA-PIPELINE] ", log.LstdFlags)
	}
	return log.New(file, "", log.LstdFlags)
}

// Retrieve runs the full retrieval-and-ranking pipeline for one question.
func (qs *qaService) Retrieve(ctx context.Context, question string) (*stream.RankedContext, error) {
	started := time.Now()

	variants := qs.expander.Expand(question)
	qs.ragLogger.Printf("[INFO] Expanded question into %d variants: %v", len(variants), variants)

	perVariant := qs.multiSearcher.SearchAll(ctx, variants)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	merged := merge.Merge(perVariant)
	qs.ragLogger.Printf("[INFO] Merged to %d unique passages", len(merged))

	boosted := qs.ranker.Apply(question, merged)

	judged, ok := qs.judge.Score(ctx, question, rank.TopByBoosted(boosted, qs.cfg.JudgeTopM))
	if ok {
		boosted = mergeJudgeScores(boosted, judged)
	}

	blended := rank.BlendHybrid(boosted, qs.cfg.BoostedWeight, qs.cfg.RelevanceWeight)
	final := rank.SelectTop(blended, qs.cfg.FinalCandidates)

	result := qs.scorer.Score(final)
	qs.ragLogger.Printf("[INFO] Pipeline finished in %s: %d passages, confidence=%s (%.2f)",
		time.Since(started), len(final), result.Level, result.Score)

	return &stream.RankedContext{
		Candidates: final,
		Confidence: result,
	}, nil
}

// mergeJudgeScores copies judge results back onto the full candidate set.
func mergeJudgeScores(all []rag.Candidate, judged []rag.Candidate) []rag.Candidate {
	byChunk := make(map[uuid.UUID]*int, len(judged))
	for _, c := range judged {
		if c.Relevance != nil {
			byChunk[c.ChunkID] = c.Relevance
		}
	}
	out := make([]rag.Candidate, len(all))
	copy(out, all)
	for i := range out {
		if score, found := byChunk[out[i].ChunkID]; found {
			out[i].Relevance = score
		}
	}
	return out
}

func (qs *qaService) StreamAnswer(ctx context.Context, userId uuid.UUID, conversationId uuid.UUID, question string, emitter stream.Emitter) error {
	if _, err := qs.verifyOwnership(ctx, userId, conversationId); err != nil {
		return err
	}

	if !qs.sessionRepo.Acquire(&memory.Session{
		ConversationID: conversationId.String(),
		Active:         true,
		StartedAt:      time.Now(),
	}) {
		return ErrAnswerInProgress
	}
	defer qs.sessionRepo.Delete(conversationId.String())

	history, err := qs.loadHistory(ctx, conversationId)
	if err != nil {
		return err
	}

	sink := &turnSink{svc: qs, userId: userId}
	streamer := stream.NewStreamer(qs, qs.llmProvider, sink, qs.cfg.MaxCitationSources, qs.ragLogger)
	return streamer.Run(ctx, conversationId, question, history, emitter)
}

func (qs *qaService) Ask(ctx context.Context, userId uuid.UUID, request *dto.AskRequest) (*dto.AskResponse, error) {
	collector := &collectingEmitter{}
	err := qs.StreamAnswer(ctx, userId, request.ConversationId, request.Question, collector)
	if err != nil {
		return nil, err
	}

	return &dto.AskResponse{
		ConversationId: request.ConversationId,
		Answer:         collector.final.Answer,
		FollowUp:       collector.final.FollowUp,
		Citations:      collector.final.Citations,
		CreatedAt:      time.Now(),
	}, nil
}

func (qs *qaService) verifyOwnership(ctx context.Context, userId uuid.UUID, conversationId uuid.UUID) (*entity.Conversation, error) {
	uow := qs.uowFactory.NewUnitOfWork(ctx)
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
	return conversation, nil
}

func (qs *qaService) loadHistory(ctx context.Context, conversationId uuid.UUID) ([]llm.Message, error) {
	uow := qs.uowFactory.NewUnitOfWork(ctx)
	messages, err := uow.MessageRepository().FindAll(ctx,
		specification.ByConversationID{ConversationID: conversationId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: constant.HistoryMessageLimit, Offset: 0},
	)
	if err != nil {
		return nil, err
	}

	// Newest-first from the query, replayed oldest-first to the model.
	history := make([]llm.Message, 0, len(messages))
	for i := len(messages) - 1; i >= 0; i-- {
		history = append(history, llm.Message{
			Role:    messages[i].Role,
			Content: messages[i].Content,
		})
	}
	return history, nil
}

// turnSink persists one completed question/answer turn atomically and fires
// the post-answer events. Both messages commit together or not at all.
type turnSink struct {
	svc    *qaService
	userId uuid.UUID
}

func (t *turnSink) PersistTurn(ctx context.Context, conversationId uuid.UUID, question, answer, followUp string, record *stream.CitationRecord) error {
	qs := t.svc
	now := time.Now()

	userMessage := entity.Message{
		Id:             uuid.New(),
		ConversationId: conversationId,
		Role:           constant.MessageRoleUser,
		Content:        question,
		CreatedAt:      now,
	}

	var followUpPtr *string
	if followUp != "" {
		followUpPtr = &followUp
	}
	assistantMessage := entity.Message{
		Id:             uuid.New(),
		ConversationId: conversationId,
		Role:           constant.MessageRoleAssistant,
		Content:        answer,
		FollowUp:       followUpPtr,
		Citations:      record,
		CreatedAt:      now.Add(1 * time.Millisecond),
	}

	uow := qs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.MessageRepository().Create(ctx, &userMessage); err != nil {
		return err
	}
	if err := uow.MessageRepository().Create(ctx, &assistantMessage); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	t.publishAnswerEvents(ctx, conversationId, question, record)
	return nil
}

// publishAnswerEvents is best effort: the answer is already saved, so event
// failures are logged and swallowed.
func (t *turnSink) publishAnswerEvents(ctx context.Context, conversationId uuid.UUID, question string, record *stream.CitationRecord) {
	qs := t.svc

	payload := dto.AnswerGeneratedPayload{
		ConversationId: conversationId,
		UserId:         t.userId,
		Question:       question,
		AnsweredAt:     time.Now(),
	}
	if record != nil {
		payload.Confidence = record.Confidence
		payload.SourceCount = len(record.Sources)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		qs.ragLogger.Printf("[ERROR] Failed to marshal answer event: %v", err)
		return
	}
	if err := qs.publisher.Publish(ctx, constant.TopicAnswerGenerated, raw); err != nil {
		qs.ragLogger.Printf("[ERROR] Failed to publish %s: %v", constant.TopicAnswerGenerated, err)
	}

	if qs.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: constant.EventAnswerGenerated,
			Data: map[string]interface{}{
				"conversation_id": conversationId.String(),
				"user_id":         t.userId.String(),
				"confidence":      payload.Confidence.Level,
				"source_count":    payload.SourceCount,
			},
			OccurredAt: time.Now(),
		}
		if err := qs.eventPublisher.Publish(ctx, evt); err != nil {
			qs.ragLogger.Printf("[ERROR] Failed to publish NATS event: %v", err)
		}
	}
}

// collectingEmitter buffers stream events for the synchronous REST path.
type collectingEmitter struct {
	final stream.FinalPayload
}

func (c *collectingEmitter) Searching() error           { return nil }
func (c *collectingEmitter) Chunk(text string) error    { return nil }
func (c *collectingEmitter) Error(message string) error { return nil }

func (c *collectingEmitter) Done(payload stream.FinalPayload) error {
	c.final = payload
	return nil
}
