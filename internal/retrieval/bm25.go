// Package retrieval provides the hybrid retrieval engine: a
// from-scratch BM25 sparse index, score fusion with externally
// supplied dense results, and a lightweight reranker.
package retrieval

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/custodia-labs/curator-cli/internal/core/domain"
)

// BM25 parameters.
const (
	k1 = 1.2
	b  = 0.75

	// idfFloor bounds the idf below. The raw formula goes to zero or
	// negative once a term appears in at least half the corpus, which
	// would drop matching documents from small corpora entirely.
	idfFloor = 0.01
)

// Tokenizer limits.
const (
	minTokenLen   = 2
	maxNumericLen = 4
)

// indexedDoc is one chunk's term statistics.
type indexedDoc struct {
	id      string
	content string
	terms   map[string]int
	length  int
}

// Index is an immutable BM25 index over chunk content. It is built
// once from a snapshot of chunks and read concurrently by queries;
// re-indexing constructs a new Index and swaps it in atomically.
type Index struct {
	docs   []indexedDoc
	df     map[string]int
	avgLen float64
}

// BuildIndex constructs an index from parallel id/content slices.
func BuildIndex(ids, contents []string) *Index {
	idx := &Index{df: make(map[string]int)}

	var totalLen int
	for i := range ids {
		tokens := Tokenize(contents[i])
		terms := make(map[string]int, len(tokens))
		for _, t := range tokens {
			terms[t]++
		}
		for t := range terms {
			idx.df[t]++
		}
		idx.docs = append(idx.docs, indexedDoc{
			id:      ids[i],
			content: contents[i],
			terms:   terms,
			length:  len(tokens),
		})
		totalLen += len(tokens)
	}
	if len(idx.docs) > 0 {
		idx.avgLen = float64(totalLen) / float64(len(idx.docs))
	}
	return idx
}

// Len returns the number of indexed chunks.
func (idx *Index) Len() int {
	return len(idx.docs)
}

// Search scores every document against the query terms and returns
// the top limit hits containing at least one query term, ranked
// descending. With the floored idf, any document matching a term
// scores positive.
func (idx *Index) Search(query string, limit int) []domain.SparseHit {
	queryTerms := Tokenize(query)
	if len(queryTerms) == 0 || len(idx.docs) == 0 {
		return nil
	}

	hits := make([]domain.SparseHit, 0, limit)
	for i := range idx.docs {
		score := idx.score(queryTerms, &idx.docs[i])
		if score > 0 {
			hits = append(hits, domain.SparseHit{
				ChunkID: idx.docs[i].id,
				Content: idx.docs[i].content,
				Score:   score,
			})
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].ChunkID < hits[j].ChunkID
	})
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}

// score computes the BM25 sum over the query terms for one document.
func (idx *Index) score(queryTerms []string, doc *indexedDoc) float64 {
	n := float64(len(idx.docs))

	var sum float64
	for _, term := range queryTerms {
		tf := float64(doc.terms[term])
		if tf == 0 {
			continue
		}
		df := float64(idx.df[term])
		idf := math.Log((n - df + 0.5) / (df + 0.5))
		if idf < idfFloor {
			idf = idfFloor
		}

		norm := tf + k1*(1-b+b*float64(doc.length)/idx.avgLen)
		sum += idf * (tf * (k1 + 1)) / norm
	}
	return sum
}

// Tokenize lowercases the text, strips punctuation except hyphen and
// underscore, and drops tokens shorter than two characters or purely
// numeric tokens longer than four digits.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' && r != '_'
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, "-_")
		if len(f) < minTokenLen {
			continue
		}
		if len(f) > maxNumericLen && isNumeric(f) {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
