package retrieve

import (
	"context"
	"log"
	"time"

	"lecture-qa-be/pkg/rag"

	"golang.org/x/sync/errgroup"
)

// Searcher is the vector retrieval boundary. Implementations must return an
// empty slice (not an error) when nothing matches.
type Searcher interface {
	Search(ctx context.Context, query string, topK int) ([]rag.Candidate, error)
}

// MultiSearcher fans one search out per query variant. A variant that times
// out or errors contributes nothing; retrieval only fails as a whole when the
// parent context is already dead.
type MultiSearcher struct {
	searcher Searcher
	topK     int
	timeout  time.Duration
	logger   *log.Logger
}

func NewMultiSearcher(searcher Searcher, topK int, timeout time.Duration, logger *log.Logger) *MultiSearcher {
	return &MultiSearcher{
		searcher: searcher,
		topK:     topK,
		timeout:  timeout,
		logger:   logger,
	}
}

// SearchAll runs the variants concurrently and returns per-variant result
// lists in variant order. Failed variants yield empty lists.
func (m *MultiSearcher) SearchAll(ctx context.Context, variants []string) [][]rag.Candidate {
	results := make([][]rag.Candidate, len(variants))

	g, gctx := errgroup.WithContext(ctx)
	for i, q := range variants {
		g.Go(func() error {
			sctx, cancel := context.WithTimeout(gctx, m.timeout)
			defer cancel()

			found, err := m.searcher.Search(sctx, q, m.topK)
			if err != nil {
				m.logger.Printf("[WARN] Variant search failed, continuing without it: query=%q err=%v", q, err)
				return nil
			}
			results[i] = found
			return nil
		})
	}
	_ = g.Wait()

	return results
}
