package fingerprint

import (
	"fmt"
	"testing"

	"github.com/custodia-labs/curator-cli/internal/core/domain"
)

func TestFindDuplicatesExactHash(t *testing.T) {
	r := NewRegistry()
	r.Register("doc-1", domain.Fingerprint{ContentHash: "h1", WordCount: 10})

	matches := r.FindDuplicates(domain.Fingerprint{ContentHash: "h1", WordCount: 10}, DefaultTitleThreshold)

	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	m := matches[0]
	if m.DocID != "doc-1" || m.Similarity != 1.0 || m.MatchReason != "exact_content_hash" {
		t.Errorf("unexpected match %+v", m)
	}
}

func TestFindDuplicatesFuzzyWordCountSlack(t *testing.T) {
	r := NewRegistry()
	r.Register("close", domain.Fingerprint{ContentHash: "a", FuzzySignature: "fz", WordCount: 500})
	r.Register("far", domain.Fingerprint{ContentHash: "b", FuzzySignature: "fz", WordCount: 700})

	probe := domain.Fingerprint{ContentHash: "c", FuzzySignature: "fz", WordCount: 550}
	matches := r.FindDuplicates(probe, DefaultTitleThreshold)

	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	if matches[0].DocID != "close" || matches[0].Similarity != 0.9 || matches[0].MatchReason != "fuzzy_hash_match" {
		t.Errorf("unexpected match %+v", matches[0])
	}
}

func TestFindDuplicatesTitleSimilarity(t *testing.T) {
	r := NewRegistry()
	r.Register("doc-1", domain.Fingerprint{
		ContentHash:     "a",
		NormalizedTitle: "quarterly report 2024",
	})

	probe := domain.Fingerprint{ContentHash: "b", NormalizedTitle: "quarterly report 2025"}
	matches := r.FindDuplicates(probe, DefaultTitleThreshold)

	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	m := matches[0]
	if m.MatchReason != "title_similarity" {
		t.Errorf("reason = %q", m.MatchReason)
	}
	if m.Similarity < DefaultTitleThreshold || m.Similarity >= 1.0 {
		t.Errorf("similarity = %.3f, want in [0.85, 1.0)", m.Similarity)
	}

	// Unrelated titles stay below the threshold.
	unrelated := domain.Fingerprint{ContentHash: "c", NormalizedTitle: "shopping list"}
	if got := r.FindDuplicates(unrelated, DefaultTitleThreshold); len(got) != 0 {
		t.Errorf("unrelated title matched: %+v", got)
	}
}

func TestFindDuplicatesCapAndOrder(t *testing.T) {
	r := NewRegistry()
	for i := 0; i < 8; i++ {
		r.Register(fmt.Sprintf("doc-%d", i), domain.Fingerprint{ContentHash: "same"})
	}

	matches := r.FindDuplicates(domain.Fingerprint{ContentHash: "same"}, DefaultTitleThreshold)

	if len(matches) != 5 {
		t.Fatalf("got %d matches, want cap of 5", len(matches))
	}
	for i := 1; i < len(matches); i++ {
		if matches[i-1].Similarity < matches[i].Similarity {
			t.Error("matches not sorted by similarity descending")
		}
	}
}

func TestFindDuplicatesDedupByDocID(t *testing.T) {
	r := NewRegistry()
	// Same doc matches both by hash and by title; only the strongest
	// match may surface.
	r.Register("doc-1", domain.Fingerprint{ContentHash: "h", NormalizedTitle: "annual summary"})

	probe := domain.Fingerprint{ContentHash: "h", NormalizedTitle: "annual summary"}
	matches := r.FindDuplicates(probe, DefaultTitleThreshold)

	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	if matches[0].Similarity != 1.0 {
		t.Errorf("similarity = %.2f, want 1.0 (exact match wins)", matches[0].Similarity)
	}
}

func TestRegistrySize(t *testing.T) {
	r := NewRegistry()
	if r.Size() != 0 {
		t.Errorf("empty registry size = %d", r.Size())
	}
	r.Register("a", domain.Fingerprint{})
	r.Register("b", domain.Fingerprint{})
	r.Register("a", domain.Fingerprint{}) // overwrite, not a new entry
	if r.Size() != 2 {
		t.Errorf("size = %d, want 2", r.Size())
	}
}
