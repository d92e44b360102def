package services

import (
	"context"
	"strings"

	"github.com/custodia-labs/curator-cli/internal/core/domain"
	"github.com/custodia-labs/curator-cli/internal/core/ports/driven"
	"github.com/custodia-labs/curator-cli/internal/core/ports/driving"
	"github.com/custodia-labs/curator-cli/internal/logger"
	"github.com/custodia-labs/curator-cli/internal/retrieval"
)

// Ensure Searcher implements the interface.
var _ driving.SearchService = (*Searcher)(nil)

// defaultLimit is k when the caller does not set one.
const defaultLimit = 10

// Searcher implements driving.SearchService. The sparse side comes
// from the retrieval engine's BM25 index; the dense side from the
// document store's similarity query. A failing store degrades the
// query to sparse-only rather than failing it.
type Searcher struct {
	store  driven.DocumentStore
	engine *retrieval.Engine
}

// NewSearcher creates a search service over the shared retrieval
// engine and store.
func NewSearcher(store driven.DocumentStore, engine *retrieval.Engine) *Searcher {
	return &Searcher{store: store, engine: engine}
}

// Search fuses sparse and dense results and reranks the top
// candidates.
func (s *Searcher) Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.ScoredCandidate, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domain.ErrInvalidInput
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	denseWeight := retrieval.DefaultDenseWeight
	sparseWeight := retrieval.DefaultSparseWeight
	if opts.DenseWeight > 0 && opts.SparseWeight > 0 {
		denseWeight = opts.DenseWeight
		sparseWeight = opts.SparseWeight
	}

	var dense []domain.DenseHit
	if !opts.SparseOnly && s.store != nil {
		hits, err := s.store.Query(ctx, query, 2*limit)
		if err != nil {
			logger.Warn("Dense query failed, degrading to sparse-only: %v", err)
		} else {
			dense = make([]domain.DenseHit, len(hits))
			for i, h := range hits {
				dense[i] = domain.DenseHit{
					ChunkID:  h.ID,
					Content:  h.Content,
					Metadata: h.Metadata,
					Score:    h.Similarity,
				}
			}
		}
	}

	if s.engine.Size() == 0 && len(dense) == 0 {
		return nil, domain.ErrIndexEmpty
	}

	sparse := s.engine.SparseSearch(query, 2*limit)
	fused := retrieval.Fuse(dense, sparse, denseWeight, sparseWeight)
	return retrieval.Rerank(query, fused, limit), nil
}
