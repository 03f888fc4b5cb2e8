package implementation

import (
	"context"
	"fmt"

	"lecture-qa-be/internal/entity"
	"lecture-qa-be/internal/mapper"
	"lecture-qa-be/internal/model"
	"lecture-qa-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type LectureChunkRepositoryImpl struct {
	db            *gorm.DB
	lectureMapper *mapper.LectureMapper
}

func NewLectureChunkRepository(db *gorm.DB) contract.LectureChunkRepository {
	return &LectureChunkRepositoryImpl{
		db:            db,
		lectureMapper: mapper.NewLectureMapper(),
	}
}

func (r *LectureChunkRepositoryImpl) CreateBulk(ctx context.Context, lectureId uuid.UUID, documents []string, embeddings [][]float32) error {
	if len(documents) != len(embeddings) {
		return fmt.Errorf("documents and embeddings length mismatch: %d vs %d", len(documents), len(embeddings))
	}
	if len(documents) == 0 {
		return nil
	}

	models := make([]*model.LectureChunk, len(documents))
	for i, doc := range documents {
		models[i] = &model.LectureChunk{
			LectureId:      lectureId,
			Document:       doc,
			EmbeddingValue: pgvector.NewVector(embeddings[i]),
			ChunkIndex:     i,
		}
	}
	return r.db.WithContext(ctx).Create(models).Error
}

func (r *LectureChunkRepositoryImpl) DeleteByLectureId(ctx context.Context, lectureId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("lecture_id = ?", lectureId).Delete(&model.LectureChunk{}).Error
}

// SearchSimilarWithScore joins chunks with their lecture so callers get the
// metadata needed for re-ranking without a second query per hit.
// Cosine distance in pgvector is 1 - cosine_similarity, so the select
// computes 1 - (embedding_value <=> query_vector).
func (r *LectureChunkRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*entity.ScoredChunk, error) {
	if limit <= 0 {
		limit = 5
	}

	type result struct {
		model.LectureChunk
		LectureTitle     string
		LectureSeason    int
		LectureCategory  string
		LectureTypeCodes datatypes.JSON
		Similarity       float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("lecture_chunks").
		Select(`lecture_chunks.*,
			lectures.title as lecture_title, lectures.season as lecture_season,
			lectures.category as lecture_category, lectures.type_codes as lecture_type_codes,
			1 - (embedding_value <=> ?) as similarity`, queryVector).
		Joins("JOIN lectures ON lectures.id = lecture_chunks.lecture_id").
		Where("lecture_chunks.deleted_at IS NULL").
		Where("lectures.deleted_at IS NULL").
		Where("1 - (embedding_value <=> ?) >= ?", queryVector, threshold).
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error

	if err != nil {
		return nil, err
	}

	scored := make([]*entity.ScoredChunk, len(results))
	for i, res := range results {
		chunk := r.lectureMapper.ChunkToEntity(&res.LectureChunk)
		lecture := r.lectureMapper.ToEntity(&model.Lecture{
			Id:        res.LectureChunk.LectureId,
			Title:     res.LectureTitle,
			Season:    res.LectureSeason,
			Category:  res.LectureCategory,
			TypeCodes: res.LectureTypeCodes,
		})
		scored[i] = &entity.ScoredChunk{
			Chunk:      *chunk,
			Lecture:    *lecture,
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
