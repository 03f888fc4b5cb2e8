package service

import (
	"context"
	"encoding/json"
	"log"

	"lecture-qa-be/internal/constant"
	"lecture-qa-be/internal/repository/specification"
	"lecture-qa-be/internal/repository/unitofwork"
	"lecture-qa-be/pkg/embedding"
	"lecture-qa-be/pkg/textchunk"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// Transcript chunking parameters. Roughly 375 tokens per chunk with enough
// overlap that boundary sentences stay retrievable.
const (
	ingestChunkSize    = 1500
	ingestChunkOverlap = 200
)

type IIngestConsumerService interface {
	Consume(ctx context.Context) error
}

// ingestConsumerService turns queued transcripts into embedded lecture chunks.
type ingestConsumerService struct {
	pubSub            *gochannel.GoChannel
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.Provider
}

func NewIngestConsumerService(
	pubSub *gochannel.GoChannel,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.Provider,
) IIngestConsumerService {
	return &ingestConsumerService{
		pubSub:            pubSub,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
	}
}

func (cs *ingestConsumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, constant.TopicLectureIngest)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *ingestConsumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload ingestMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal ingest message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Ingesting transcript for lecture %s", payload.LectureId)

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	lecture, err := uow.LectureRepository().FindOne(ctx, specification.ByID{ID: payload.LectureId})
	if err != nil {
		log.Printf("[ERROR] Failed to get lecture %s: %v", payload.LectureId, err)
		msg.Nack()
		return
	}
	if lecture == nil {
		log.Printf("[ERROR] Lecture not found: %s", payload.LectureId)
		msg.Ack() // Lecture deleted? Ack.
		return
	}

	chunks := textchunk.Split(payload.Transcript, ingestChunkSize, ingestChunkOverlap)
	log.Printf("[INFO] Transcript split into %d chunks", len(chunks))

	embeddings := make([][]float32, 0, len(chunks))
	for i, chunk := range chunks {
		res, err := cs.embeddingProvider.Generate(chunk, embedding.TaskRetrievalDocument)
		if err != nil {
			log.Printf("[ERROR] Failed to embed chunk %d of lecture %s: %v", i, payload.LectureId, err)
			msg.Nack()
			return
		}
		embeddings = append(embeddings, res.Values)
	}

	if err := uow.Begin(ctx); err != nil {
		log.Printf("[ERROR] Failed to begin transaction: %v", err)
		msg.Nack()
		return
	}
	defer uow.Rollback()

	// Re-ingest replaces all chunks so a lecture never serves stale passages.
	if err := uow.LectureChunkRepository().DeleteByLectureId(ctx, lecture.Id); err != nil {
		log.Printf("[ERROR] Failed to delete old chunks: %v", err)
		msg.Nack()
		return
	}

	if err := uow.LectureChunkRepository().CreateBulk(ctx, lecture.Id, chunks, embeddings); err != nil {
		log.Printf("[ERROR] Failed to create chunks: %v", err)
		msg.Nack()
		return
	}

	if err := uow.Commit(); err != nil {
		log.Printf("[ERROR] Failed to commit transaction: %v", err)
		msg.Nack()
		return
	}

	log.Printf("[SUCCESS] Lecture ingested: %d chunks for %s", len(chunks), payload.LectureId)
	msg.Ack()
}
