package fingerprint

import (
	"testing"
	"time"

	"github.com/custodia-labs/curator-cli/internal/core/domain"
)

var triageNow = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T) (*Engine, *Registry) {
	t.Helper()
	r := NewRegistry()
	return NewEngine(r, WithClock(func() time.Time { return triageNow })), r
}

func triageDoc(content, docDomain string) domain.RawDocument {
	return domain.RawDocument{
		ID:        "probe",
		Filename:  "probe.md",
		Content:   content,
		Domain:    docDomain,
		CreatedAt: triageNow,
	}
}

func TestTriageDuplicate(t *testing.T) {
	e, r := newTestEngine(t)

	content := "Identical contract text for duplicate detection."
	existing := Generate(content, "Contract", "legal", triageNow, nil)
	r.Register("doc-1", existing)

	doc := triageDoc(content, "legal")
	fp := Generate(content, "Contract", "legal", triageNow, nil)
	decision := e.Triage(doc, fp)

	if decision.Category != domain.CategoryDuplicate {
		t.Fatalf("category = %s, want duplicate", decision.Category)
	}
	if decision.Confidence != 1.0 {
		t.Errorf("confidence = %.2f, want 1.0", decision.Confidence)
	}
	if len(decision.RelatedDocumentIDs) == 0 || decision.RelatedDocumentIDs[0] != "doc-1" {
		t.Errorf("related docs = %v", decision.RelatedDocumentIDs)
	}
	if !decision.Category.Discard() {
		t.Error("duplicate should be discarded")
	}
}

func TestTriageJunk(t *testing.T) {
	e, _ := newTestEngine(t)

	doc := triageDoc("Click here for our limited offer! Unsubscribe anytime.", "")
	decision := e.Triage(doc, Generate(doc.Content, "", "", triageNow, nil))

	if decision.Category != domain.CategoryJunk {
		t.Fatalf("category = %s, want junk", decision.Category)
	}
	// 3 hits: click here, limited offer, unsubscribe -> 0.5 + 0.3.
	if decision.Confidence < 0.79 || decision.Confidence > 0.81 {
		t.Errorf("confidence = %.2f, want 0.8", decision.Confidence)
	}
	if !decision.Category.Discard() {
		t.Error("junk should be discarded")
	}
}

func TestTriageJunkConfidenceCapped(t *testing.T) {
	e, _ := newTestEngine(t)

	doc := triageDoc("unsubscribe click here limited offer gewinnspiel lottery act now viagra", "")
	decision := e.Triage(doc, Generate(doc.Content, "", "", triageNow, nil))

	if decision.Category != domain.CategoryJunk {
		t.Fatalf("category = %s, want junk", decision.Category)
	}
	if decision.Confidence > 0.9 {
		t.Errorf("confidence = %.2f, want capped at 0.9", decision.Confidence)
	}
}

func TestTriageLifeEvent(t *testing.T) {
	e, _ := newTestEngine(t)

	doc := triageDoc("Unsere Hochzeit findet am 12.06.2026 statt.", "")
	decision := e.Triage(doc, Generate(doc.Content, "", "", triageNow, nil))

	if decision.Category != domain.CategoryPersonalActionable {
		t.Fatalf("category = %s, want personal_actionable", decision.Category)
	}
	if decision.Confidence != 0.8 {
		t.Errorf("confidence = %.2f, want 0.8", decision.Confidence)
	}
	if len(decision.KnowledgeUpdates) == 0 {
		t.Error("expected a knowledge update for the event date")
	}
	if decision.Category.Discard() {
		t.Error("actionable document must not be discarded")
	}
}

func TestTriageFinancial(t *testing.T) {
	e, _ := newTestEngine(t)

	doc := triageDoc("Invoice enclosed. Please arrange payment of €49,90.", "")
	decision := e.Triage(doc, Generate(doc.Content, "", "", triageNow, nil))

	if decision.Category != domain.CategoryFinancialActionable {
		t.Fatalf("category = %s, want financial_actionable", decision.Category)
	}
	if decision.Confidence != 0.8 {
		t.Errorf("confidence = %.2f, want 0.8", decision.Confidence)
	}
}

func TestTriageDeadlineWithFutureDate(t *testing.T) {
	e, _ := newTestEngine(t)

	doc := triageDoc("Submission deadline: 2026-09-15.", "")
	decision := e.Triage(doc, Generate(doc.Content, "", "", triageNow, nil))

	if decision.Category != domain.CategoryReferenceWithDates {
		t.Fatalf("category = %s, want reference_with_dates", decision.Category)
	}
	if decision.Confidence != 0.7 {
		t.Errorf("confidence = %.2f, want 0.7", decision.Confidence)
	}
}

func TestTriageDeadlineWithStaleDateFallsThrough(t *testing.T) {
	e, _ := newTestEngine(t)

	// Date far older than the recent window: branch 4 must not fire.
	doc := triageDoc("The deadline was 2020-01-01.", "")
	decision := e.Triage(doc, Generate(doc.Content, "", "", triageNow, nil))

	if decision.Category != domain.CategoryArchival {
		t.Errorf("category = %s, want archival fallback", decision.Category)
	}
}

func TestTriageDomainFallback(t *testing.T) {
	e, _ := newTestEngine(t)

	cases := []struct {
		docDomain  string
		want       domain.TriageCategory
		confidence float64
	}{
		{"legal", domain.CategoryLegalReference, 0.8},
		{"health", domain.CategoryHealthReference, 0.7},
		{"technology", domain.CategoryTechnicalReference, 0.7},
		{"", domain.CategoryArchival, 0.5},
	}
	for _, tc := range cases {
		doc := triageDoc("Plain descriptive text with no signals at all.", tc.docDomain)
		decision := e.Triage(doc, Generate(doc.Content, "", tc.docDomain, triageNow, nil))

		if decision.Category != tc.want {
			t.Errorf("domain %q: category = %s, want %s", tc.docDomain, decision.Category, tc.want)
		}
		if decision.Confidence != tc.confidence {
			t.Errorf("domain %q: confidence = %.2f, want %.2f", tc.docDomain, decision.Confidence, tc.confidence)
		}
	}
}

func TestTriageCascadeOrderJunkBeforeLifeEvent(t *testing.T) {
	e, _ := newTestEngine(t)

	// Junk and life-event signals together: the earlier branch wins.
	doc := triageDoc("Wedding offers! Click here and unsubscribe whenever you like.", "")
	decision := e.Triage(doc, Generate(doc.Content, "", "", triageNow, nil))

	if decision.Category != domain.CategoryJunk {
		t.Errorf("category = %s, want junk (cascade order)", decision.Category)
	}
}

func TestTriageDuplicateBeforeJunk(t *testing.T) {
	e, r := newTestEngine(t)

	content := "unsubscribe limited offer duplicate body"
	r.Register("orig", Generate(content, "", "", triageNow, nil))

	doc := triageDoc(content, "")
	decision := e.Triage(doc, Generate(content, "", "", triageNow, nil))

	if decision.Category != domain.CategoryDuplicate {
		t.Errorf("category = %s, want duplicate (cascade order)", decision.Category)
	}
}
