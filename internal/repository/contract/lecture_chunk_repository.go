package contract

import (
	"context"

	"lecture-qa-be/internal/entity"

	"github.com/google/uuid"
)

type LectureChunkRepository interface {
	CreateBulk(ctx context.Context, lectureId uuid.UUID, documents []string, embeddings [][]float32) error
	DeleteByLectureId(ctx context.Context, lectureId uuid.UUID) error

	// SearchSimilarWithScore returns the chunks closest to the query embedding
	// by cosine similarity, joined with their lecture metadata, best first.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*entity.ScoredChunk, error)
}
