package retrieval

import (
	"sort"

	"github.com/custodia-labs/curator-cli/internal/core/domain"
)

// Default fusion weights. Dense similarity dominates when available.
const (
	DefaultDenseWeight  = 0.7
	DefaultSparseWeight = 0.3
)

// Fuse normalises the dense and sparse score lists to [0,1] by their
// respective maxima and combines them as
//
//	fused = denseWeight*denseNorm + sparseWeight*sparseNorm
//
// Candidates appearing in only one source get a one-sided fused score
// from their available component. Candidates are deduplicated by
// chunk ID; dense-sourced entries take priority when a chunk appears
// in both lists.
func Fuse(dense []domain.DenseHit, sparse []domain.SparseHit, denseWeight, sparseWeight float64) []domain.ScoredCandidate {
	var maxDense, maxSparse float64
	for _, h := range dense {
		if h.Score > maxDense {
			maxDense = h.Score
		}
	}
	for _, h := range sparse {
		if h.Score > maxSparse {
			maxSparse = h.Score
		}
	}

	byID := make(map[string]*domain.ScoredCandidate)
	order := make([]string, 0, len(dense)+len(sparse))

	for _, h := range dense {
		norm := 0.0
		if maxDense > 0 {
			norm = h.Score / maxDense
		}
		byID[h.ChunkID] = &domain.ScoredCandidate{
			ChunkID:    h.ChunkID,
			Content:    h.Content,
			Metadata:   h.Metadata,
			DenseScore: norm,
		}
		order = append(order, h.ChunkID)
	}

	for _, h := range sparse {
		norm := 0.0
		if maxSparse > 0 {
			norm = h.Score / maxSparse
		}
		if existing, ok := byID[h.ChunkID]; ok {
			// Dense entry wins; only attach the sparse component.
			existing.SparseScore = norm
			continue
		}
		byID[h.ChunkID] = &domain.ScoredCandidate{
			ChunkID:     h.ChunkID,
			Content:     h.Content,
			SparseScore: norm,
		}
		order = append(order, h.ChunkID)
	}

	out := make([]domain.ScoredCandidate, 0, len(byID))
	for _, id := range order {
		c := byID[id]
		c.FusedScore = denseWeight*c.DenseScore + sparseWeight*c.SparseScore
		out = append(out, *c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].FusedScore > out[j].FusedScore
	})
	return out
}
