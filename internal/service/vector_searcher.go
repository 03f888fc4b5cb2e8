package service

import (
	"context"
	"fmt"

	"lecture-qa-be/internal/repository/unitofwork"
	"lecture-qa-be/pkg/embedding"
	"lecture-qa-be/pkg/rag"
)

// vectorSearcher backs the retrieval fan-out with pgvector similarity search
// over lecture chunks. One instance is shared across variants; the repository
// handle is safe for concurrent reads.
type vectorSearcher struct {
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.Provider
	threshold         float64
}

func newVectorSearcher(uowFactory unitofwork.RepositoryFactory, embeddingProvider embedding.Provider, threshold float64) *vectorSearcher {
	return &vectorSearcher{
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		threshold:         threshold,
	}
}

func (s *vectorSearcher) Search(ctx context.Context, query string, topK int) ([]rag.Candidate, error) {
	res, err := s.embeddingProvider.Generate(query, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	scored, err := uow.LectureChunkRepository().SearchSimilarWithScore(ctx, res.Values, topK, s.threshold)
	if err != nil {
		return nil, fmt.Errorf("search chunks: %w", err)
	}

	candidates := make([]rag.Candidate, 0, len(scored))
	for _, sc := range scored {
		candidates = append(candidates, rag.Candidate{
			ChunkID:     sc.Chunk.Id,
			SourceID:    sc.Lecture.Id,
			SourceLabel: sc.Lecture.Title,
			Text:        sc.Chunk.Document,
			Metadata: rag.PassageMetadata{
				Season:    sc.Lecture.Season,
				Category:  sc.Lecture.Category,
				TypeCodes: sc.Lecture.TypeCodes,
			},
			Similarity: sc.Similarity,
		})
	}
	return candidates, nil
}
