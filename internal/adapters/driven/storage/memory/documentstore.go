// Package memory provides in-memory driven adapters, used by tests
// and as the default store when no data directory is configured.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/curator-cli/internal/core/domain"
	"github.com/custodia-labs/curator-cli/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
// Query ranks by token-overlap similarity, which stands in for the
// embedding similarity a vector-backed store would compute.
type DocumentStore struct {
	mu      sync.RWMutex
	records []driven.StoreRecord
	byID    map[string]int
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{byID: make(map[string]int)}
}

// Add stores records. Existing IDs are overwritten in place.
func (s *DocumentStore) Add(_ context.Context, ids []string, contents []string, metadatas []map[string]string) error {
	if len(ids) != len(contents) || len(ids) != len(metadatas) {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, id := range ids {
		rec := driven.StoreRecord{ID: id, Content: contents[i], Metadata: metadatas[i]}
		if pos, ok := s.byID[id]; ok {
			s.records[pos] = rec
			continue
		}
		s.byID[id] = len(s.records)
		s.records = append(s.records, rec)
	}
	return nil
}

// Query returns the topK records by token overlap with the query text.
func (s *DocumentStore) Query(_ context.Context, queryText string, topK int) ([]driven.StoreHit, error) {
	queryTokens := tokenSet(queryText)
	if len(queryTokens) == 0 {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	hits := make([]driven.StoreHit, 0, topK)
	for _, rec := range s.records {
		sim := overlapSimilarity(queryTokens, tokenSet(rec.Content))
		if sim > 0 {
			hits = append(hits, driven.StoreHit{
				ID:         rec.ID,
				Content:    rec.Content,
				Metadata:   rec.Metadata,
				Similarity: sim,
			})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Similarity > hits[j].Similarity
	})
	if topK > 0 && len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}

// Get returns records whose metadata matches every filter entry.
func (s *DocumentStore) Get(_ context.Context, filter map[string]string) ([]driven.StoreRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]driven.StoreRecord, 0, len(s.records))
	for _, rec := range s.records {
		if matchesFilter(rec.Metadata, filter) {
			result = append(result, rec)
		}
	}
	return result, nil
}

// Close is a no-op for the in-memory store.
func (s *DocumentStore) Close() error {
	return nil
}

func matchesFilter(metadata, filter map[string]string) bool {
	for k, v := range filter {
		if metadata[k] != v {
			return false
		}
	}
	return true
}

// tokenSet lowercases and splits on non-alphanumerics.
func tokenSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, f := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9') && r < 0x80
	}) {
		if len(f) >= 2 {
			set[f] = true
		}
	}
	return set
}

// overlapSimilarity is the fraction of query tokens present in the
// document, in [0,1].
func overlapSimilarity(query, doc map[string]bool) float64 {
	if len(query) == 0 {
		return 0
	}
	matched := 0
	for t := range query {
		if doc[t] {
			matched++
		}
	}
	return float64(matched) / float64(len(query))
}
