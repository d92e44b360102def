package domain

// SearchOptions configures a retrieval query.
type SearchOptions struct {
	// Limit is the maximum number of results (k). Defaults to 10.
	Limit int

	// SparseOnly disables the dense (store similarity) side entirely.
	SparseOnly bool

	// DenseWeight and SparseWeight override the fusion weights when
	// both are set to positive values. Defaults are 0.7/0.3.
	DenseWeight  float64
	SparseWeight float64
}

// DenseHit is an externally supplied embedding-similarity result.
type DenseHit struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// Content is the chunk text.
	Content string

	// Metadata is the stored chunk metadata.
	Metadata map[string]string

	// Score is the similarity in [0,1] (higher is better).
	Score float64
}

// SparseHit is a BM25 keyword result.
type SparseHit struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// Content is the chunk text.
	Content string

	// Score is the raw BM25 score (unbounded, higher is better).
	Score float64
}

// ScoredCandidate is a retrieval result carrying every score
// component. FusedScore and RerankScore are in [0,1] after
// normalisation.
type ScoredCandidate struct {
	ChunkID  string
	Content  string
	Metadata map[string]string

	// DenseScore is the normalised dense component (0 if absent).
	DenseScore float64

	// SparseScore is the normalised sparse component (0 if absent).
	SparseScore float64

	// FusedScore is the weighted combination of the two.
	FusedScore float64

	// RerankScore is the composite reranker score, 0 until reranking.
	RerankScore float64
}
