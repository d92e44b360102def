package retrieval

import (
	"fmt"
	"testing"

	"github.com/custodia-labs/curator-cli/internal/core/domain"
)

func TestRerankExactPhraseWins(t *testing.T) {
	candidates := []domain.ScoredCandidate{
		{ChunkID: "scattered", Content: "The handling of an error is discussed somewhere later.", FusedScore: 0.9},
		{ChunkID: "phrase", Content: "Proper error handling keeps services alive.", FusedScore: 0.5},
	}

	got := Rerank("error handling", candidates, 10)

	if got[0].ChunkID != "phrase" {
		t.Errorf("top = %s, want phrase match first", got[0].ChunkID)
	}
	if got[0].RerankScore <= got[1].RerankScore {
		t.Errorf("scores not descending: %f <= %f", got[0].RerankScore, got[1].RerankScore)
	}
}

func TestRerankPoolAndTruncation(t *testing.T) {
	k := 2
	var candidates []domain.ScoredCandidate
	for i := 0; i < 10; i++ {
		candidates = append(candidates, domain.ScoredCandidate{
			ChunkID:    fmt.Sprintf("c%d", i),
			Content:    "filler text without query terms",
			FusedScore: 1.0 - float64(i)*0.1,
		})
	}
	// A strong match beyond the 2k pool must not be considered.
	candidates = append(candidates, domain.ScoredCandidate{
		ChunkID:    "late",
		Content:    "target phrase appears here",
		FusedScore: 0.0,
	})

	got := Rerank("target phrase", candidates, k)

	if len(got) != k {
		t.Fatalf("got %d results, want %d", len(got), k)
	}
	for _, c := range got {
		if c.ChunkID == "late" {
			t.Error("candidate outside the 2k pool was reranked")
		}
	}
}

func TestRerankTiebreakByFusedScore(t *testing.T) {
	// Identical content scores identically; the fused score decides.
	candidates := []domain.ScoredCandidate{
		{ChunkID: "low", Content: "same text", FusedScore: 0.2},
		{ChunkID: "high", Content: "same text", FusedScore: 0.8},
	}

	got := Rerank("unrelated query", candidates, 10)

	if got[0].ChunkID != "high" {
		t.Errorf("top = %s, want high (fused tiebreak)", got[0].ChunkID)
	}
}

func TestEngineSearch(t *testing.T) {
	e := NewEngine()
	if e.Size() != 0 {
		t.Fatalf("new engine size = %d", e.Size())
	}

	e.AddChunks([]ChunkRecord{
		{ID: "c1", Content: "postgres connection pooling guide"},
		{ID: "c2", Content: "kubernetes deployment rollout"},
		{ID: "c3", Content: "pooling strategies for worker queues"},
		{ID: "c4", Content: "gardening in small spaces"},
		{ID: "c5", Content: "sourdough starter maintenance"},
	})
	if e.Size() != 5 {
		t.Fatalf("size = %d, want 5", e.Size())
	}

	results := e.Search("connection pooling", 2, nil)
	if len(results) == 0 || len(results) > 2 {
		t.Fatalf("got %d results, want 1-2", len(results))
	}
	if results[0].ChunkID != "c1" {
		t.Errorf("top result = %s, want c1", results[0].ChunkID)
	}

	// Dense hits for unindexed chunks still surface through fusion.
	dense := []domain.DenseHit{{ChunkID: "external", Content: "connection pooling elsewhere", Score: 0.9}}
	results = e.Search("connection pooling", 3, dense)
	found := false
	for _, r := range results {
		if r.ChunkID == "external" {
			found = true
		}
	}
	if !found {
		t.Error("dense-only candidate missing from fused results")
	}
}
