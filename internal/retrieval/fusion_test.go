package retrieval

import (
	"math"
	"testing"

	"github.com/custodia-labs/curator-cli/internal/core/domain"
)

func TestFuseWeightedCombination(t *testing.T) {
	dense := []domain.DenseHit{
		{ChunkID: "a", Score: 0.8},
		{ChunkID: "b", Score: 0.4},
	}
	sparse := []domain.SparseHit{
		{ChunkID: "a", Score: 3.0},
		{ChunkID: "c", Score: 1.5},
	}

	fused := Fuse(dense, sparse, DefaultDenseWeight, DefaultSparseWeight)

	byID := make(map[string]domain.ScoredCandidate)
	for _, c := range fused {
		byID[c.ChunkID] = c
	}

	// a: dense 0.8/0.8=1.0, sparse 3.0/3.0=1.0 -> 0.7 + 0.3 = 1.0.
	if got := byID["a"].FusedScore; math.Abs(got-1.0) > 1e-9 {
		t.Errorf("fused(a) = %f, want 1.0", got)
	}
	// b: dense only, 0.4/0.8=0.5 -> 0.35.
	if got := byID["b"].FusedScore; math.Abs(got-0.35) > 1e-9 {
		t.Errorf("fused(b) = %f, want 0.35", got)
	}
	// c: sparse only, 1.5/3.0=0.5 -> 0.15.
	if got := byID["c"].FusedScore; math.Abs(got-0.15) > 1e-9 {
		t.Errorf("fused(c) = %f, want 0.15", got)
	}

	if fused[0].ChunkID != "a" {
		t.Errorf("top candidate = %s, want a", fused[0].ChunkID)
	}
}

func TestFuseOneSidedSparse(t *testing.T) {
	sparse := []domain.SparseHit{
		{ChunkID: "x", Score: 2.0},
		{ChunkID: "y", Score: 1.0},
	}

	fused := Fuse(nil, sparse, DefaultDenseWeight, DefaultSparseWeight)

	if len(fused) != 2 {
		t.Fatalf("got %d candidates, want 2", len(fused))
	}
	// Without dense hits, fused = sparseWeight * normalised sparse.
	if math.Abs(fused[0].FusedScore-0.3) > 1e-9 {
		t.Errorf("fused(x) = %f, want 0.3", fused[0].FusedScore)
	}
	if math.Abs(fused[1].FusedScore-0.15) > 1e-9 {
		t.Errorf("fused(y) = %f, want 0.15", fused[1].FusedScore)
	}
}

func TestFuseDensePriorityDedup(t *testing.T) {
	dense := []domain.DenseHit{
		{ChunkID: "a", Content: "dense content", Metadata: map[string]string{"src": "dense"}, Score: 1.0},
	}
	sparse := []domain.SparseHit{
		{ChunkID: "a", Content: "sparse content", Score: 1.0},
	}

	fused := Fuse(dense, sparse, DefaultDenseWeight, DefaultSparseWeight)

	if len(fused) != 1 {
		t.Fatalf("got %d candidates, want 1 after dedup", len(fused))
	}
	c := fused[0]
	if c.Content != "dense content" || c.Metadata["src"] != "dense" {
		t.Error("dense entry did not take priority on dedup")
	}
	if c.DenseScore != 1.0 || c.SparseScore != 1.0 {
		t.Errorf("components = %f/%f, want both 1.0", c.DenseScore, c.SparseScore)
	}
}

func TestFuseEmptyInputs(t *testing.T) {
	if got := Fuse(nil, nil, DefaultDenseWeight, DefaultSparseWeight); len(got) != 0 {
		t.Errorf("fusing nothing produced %d candidates", len(got))
	}
}
