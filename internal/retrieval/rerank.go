package retrieval

import (
	"math"
	"sort"
	"strings"

	"github.com/custodia-labs/curator-cli/internal/core/domain"
)

// Reranker component weights.
const (
	weightExactPhrase = 0.4
	weightTermOverlap = 0.3
	weightLogTermFreq = 0.15
	weightPosition    = 0.1
	weightLengthNorm  = 0.05
)

// Rerank applies the composite reranker to the top 2k fused
// candidates and truncates to k. Final ranking sorts by the rerank
// score descending; ties break by original fused score.
func Rerank(query string, candidates []domain.ScoredCandidate, k int) []domain.ScoredCandidate {
	if k <= 0 {
		k = 10
	}

	pool := candidates
	if len(pool) > 2*k {
		pool = pool[:2*k]
	}

	queryLower := strings.ToLower(strings.TrimSpace(query))
	queryTerms := Tokenize(query)

	reranked := make([]domain.ScoredCandidate, len(pool))
	for i, c := range pool {
		c.RerankScore = rerankScore(queryLower, queryTerms, c.Content)
		reranked[i] = c
	}

	sort.SliceStable(reranked, func(i, j int) bool {
		if reranked[i].RerankScore != reranked[j].RerankScore {
			return reranked[i].RerankScore > reranked[j].RerankScore
		}
		return reranked[i].FusedScore > reranked[j].FusedScore
	})

	if len(reranked) > k {
		reranked = reranked[:k]
	}
	return reranked
}

// rerankScore blends five bounded components:
//
//	0.40 exact phrase match
//	0.30 query-term overlap ratio
//	0.15 log-scaled term frequency
//	0.10 position of first occurrence (earlier is better)
//	0.05 length normalisation (1/sqrt(tokens))
func rerankScore(queryLower string, queryTerms []string, content string) float64 {
	contentLower := strings.ToLower(content)
	docTokens := Tokenize(content)

	var phrase float64
	if queryLower != "" && strings.Contains(contentLower, queryLower) {
		phrase = 1.0
	}

	overlap, totalTF, firstPos := termStats(queryTerms, docTokens)

	var logTF float64
	if len(docTokens) > 0 && totalTF > 0 {
		logTF = math.Log1p(float64(totalTF)) / math.Log1p(float64(len(docTokens)))
	}

	var position float64
	if firstPos >= 0 && len(docTokens) > 0 {
		position = 1.0 - float64(firstPos)/float64(len(docTokens))
	}

	var lengthNorm float64
	if len(docTokens) > 0 {
		lengthNorm = 1.0 / math.Sqrt(float64(len(docTokens)))
	}

	return weightExactPhrase*phrase +
		weightTermOverlap*overlap +
		weightLogTermFreq*logTF +
		weightPosition*position +
		weightLengthNorm*lengthNorm
}

// termStats returns the query-term overlap ratio, the total frequency
// of query terms in the document and the token position of the first
// query-term occurrence (-1 when absent).
func termStats(queryTerms, docTokens []string) (overlap float64, totalTF, firstPos int) {
	if len(queryTerms) == 0 {
		return 0, 0, -1
	}

	positions := make(map[string]int)
	counts := make(map[string]int)
	for i, t := range docTokens {
		if _, seen := positions[t]; !seen {
			positions[t] = i
		}
		counts[t]++
	}

	firstPos = -1
	matched := 0
	for _, qt := range queryTerms {
		if counts[qt] == 0 {
			continue
		}
		matched++
		totalTF += counts[qt]
		if firstPos == -1 || positions[qt] < firstPos {
			firstPos = positions[qt]
		}
	}
	overlap = float64(matched) / float64(len(queryTerms))
	return overlap, totalTF, firstPos
}
