package driving

import (
	"context"

	"github.com/custodia-labs/curator-cli/internal/core/domain"
)

// SearchService provides hybrid retrieval over ingested chunks.
type SearchService interface {
	// Search fuses sparse (BM25) and dense (store similarity) results
	// and reranks the fused candidate set.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.ScoredCandidate, error)
}
