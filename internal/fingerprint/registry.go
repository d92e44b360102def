package fingerprint

import (
	"sort"
	"sync"

	"github.com/hbollon/go-edlib"

	"github.com/custodia-labs/curator-cli/internal/core/domain"
)

// DefaultTitleThreshold is the minimum edit-distance ratio for a
// title-similarity duplicate report.
const DefaultTitleThreshold = 0.85

// maxDuplicates caps how many matches FindDuplicates returns.
const maxDuplicates = 5

// fuzzyWordCountSlack is the maximum word-count difference for a
// fuzzy-signature match to count as a duplicate.
const fuzzyWordCountSlack = 100

// Registry holds fingerprints of previously ingested documents and
// answers duplicate lookups. It tolerates concurrent writes from
// other in-flight ingestions: a narrow race that misses a just-written
// duplicate is a known, acceptable limitation.
type Registry struct {
	mu   sync.RWMutex
	docs map[string]domain.Fingerprint
}

// NewRegistry creates an empty fingerprint registry.
func NewRegistry() *Registry {
	return &Registry{docs: make(map[string]domain.Fingerprint)}
}

// Register records a stored document's fingerprint.
func (r *Registry) Register(docID string, fp domain.Fingerprint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[docID] = fp
}

// Size returns the number of registered documents. Used as the
// existing-corpus size for novelty scoring.
func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.docs)
}

// FindDuplicates runs three independent lookup strategies in priority
// order:
//
//  1. exact content-hash match          -> similarity 1.0
//  2. fuzzy-signature match, word-count
//     difference < 100                  -> similarity 0.9
//  3. normalised-title edit-distance
//     ratio >= threshold                -> similarity = ratio
//
// Results are deduplicated by document ID (keeping the highest
// similarity), ranked by similarity descending and capped to the top 5.
func (r *Registry) FindDuplicates(fp domain.Fingerprint, threshold float64) []domain.DuplicateMatch {
	r.mu.RLock()
	defer r.mu.RUnlock()

	best := make(map[string]domain.DuplicateMatch)

	record := func(m domain.DuplicateMatch) {
		if prev, ok := best[m.DocID]; !ok || m.Similarity > prev.Similarity {
			best[m.DocID] = m
		}
	}

	for docID, existing := range r.docs {
		if existing.ContentHash == fp.ContentHash {
			record(domain.DuplicateMatch{DocID: docID, Similarity: 1.0, MatchReason: "exact_content_hash"})
			continue
		}

		if existing.FuzzySignature == fp.FuzzySignature &&
			absInt(existing.WordCount-fp.WordCount) < fuzzyWordCountSlack {
			record(domain.DuplicateMatch{DocID: docID, Similarity: 0.9, MatchReason: "fuzzy_hash_match"})
			continue
		}

		if fp.NormalizedTitle != "" && existing.NormalizedTitle != "" {
			ratio := titleSimilarity(fp.NormalizedTitle, existing.NormalizedTitle)
			if ratio >= threshold {
				record(domain.DuplicateMatch{DocID: docID, Similarity: ratio, MatchReason: "title_similarity"})
			}
		}
	}

	matches := make([]domain.DuplicateMatch, 0, len(best))
	for _, m := range best {
		matches = append(matches, m)
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Similarity != matches[j].Similarity {
			return matches[i].Similarity > matches[j].Similarity
		}
		return matches[i].DocID < matches[j].DocID
	})
	if len(matches) > maxDuplicates {
		matches = matches[:maxDuplicates]
	}
	return matches
}

// titleSimilarity is the edit-distance ratio between two normalised
// titles.
func titleSimilarity(a, b string) float64 {
	sim, err := edlib.StringsSimilarity(a, b, edlib.Levenshtein)
	if err != nil {
		return 0
	}
	return float64(sim)
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
