package retrieval

import (
	"sync"
	"sync/atomic"

	"github.com/custodia-labs/curator-cli/internal/core/domain"
)

// ChunkRecord is one chunk handed to the engine for sparse indexing.
type ChunkRecord struct {
	ID      string
	Content string
}

// Engine owns the sparse index and performs fusion and reranking.
// Queries read the current index without locking; rebuilds construct
// a fresh index from the chunk snapshot and swap it in atomically, so
// readers never observe a partially rebuilt index.
type Engine struct {
	mu     sync.Mutex // guards chunks during appends and rebuilds
	chunks []ChunkRecord

	index atomic.Pointer[Index]

	denseWeight  float64
	sparseWeight float64
}

// Option configures the engine.
type Option func(*Engine)

// WithWeights overrides the fusion weights.
func WithWeights(dense, sparse float64) Option {
	return func(e *Engine) {
		if dense > 0 || sparse > 0 {
			e.denseWeight = dense
			e.sparseWeight = sparse
		}
	}
}

// NewEngine creates an engine with an empty index.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		denseWeight:  DefaultDenseWeight,
		sparseWeight: DefaultSparseWeight,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.index.Store(BuildIndex(nil, nil))
	return e
}

// AddChunks appends chunks and rebuilds the index. Rebuilding is the
// only mutation; in-flight queries keep reading the previous index.
func (e *Engine) AddChunks(records []ChunkRecord) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.chunks = append(e.chunks, records...)
	e.rebuildLocked()
}

// Rebuild reconstructs the index from the current chunk set.
func (e *Engine) Rebuild() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rebuildLocked()
}

func (e *Engine) rebuildLocked() {
	ids := make([]string, len(e.chunks))
	contents := make([]string, len(e.chunks))
	for i, c := range e.chunks {
		ids[i] = c.ID
		contents[i] = c.Content
	}
	e.index.Store(BuildIndex(ids, contents))
}

// Size returns the number of indexed chunks.
func (e *Engine) Size() int {
	return e.index.Load().Len()
}

// SparseSearch runs a BM25 query against the current index.
func (e *Engine) SparseSearch(query string, limit int) []domain.SparseHit {
	return e.index.Load().Search(query, limit)
}

// Search fuses the sparse results with externally supplied dense hits
// and reranks the fused top candidates down to k.
func (e *Engine) Search(query string, k int, dense []domain.DenseHit) []domain.ScoredCandidate {
	if k <= 0 {
		k = 10
	}

	sparse := e.SparseSearch(query, 2*k)
	fused := Fuse(dense, sparse, e.denseWeight, e.sparseWeight)
	return Rerank(query, fused, k)
}
