package fingerprint

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/custodia-labs/curator-cli/internal/core/domain"
)

// duplicateCutoff is the similarity at which triage declares a
// duplicate outright.
const duplicateCutoff = 0.95

// minJunkHits is how many junk-keyword hits make a document junk.
const minJunkHits = 2

// recentWindow is how far back a date still counts as "recent" for the
// reference_with_dates branch.
const recentWindow = 30 * 24 * time.Hour

var (
	// ISO (2024-03-01), German (01.03.2024) and slash (03/01/2024) dates.
	isoDateRe    = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	germanDateRe = regexp.MustCompile(`\b(\d{1,2})\.(\d{1,2})\.(\d{4})\b`)
	slashDateRe  = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`)

	// Monetary amounts: 1.234,56 €, €42, $ 19.99, 100 EUR.
	amountRe = regexp.MustCompile(`(?:€|\$|£)\s?\d[\d.,]*|\b\d[\d.]*[.,]\d{2}\s?(?:€|\$|£|EUR|USD|CHF|GBP)`)
)

// Engine runs the triage decision cascade. The cascade is an ordered
// first-match-wins sequence; later branches are unreachable once an
// earlier one matches.
type Engine struct {
	registry       *Registry
	keywords       Keywords
	titleThreshold float64
	now            func() time.Time
}

// Option configures the triage engine.
type Option func(*Engine)

// WithKeywords overrides the default keyword lists.
func WithKeywords(kw Keywords) Option {
	return func(e *Engine) { e.keywords = kw }
}

// WithTitleThreshold overrides the duplicate title-similarity threshold.
func WithTitleThreshold(t float64) Option {
	return func(e *Engine) {
		if t > 0 {
			e.titleThreshold = t
		}
	}
}

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates a triage engine over a fingerprint registry.
func NewEngine(registry *Registry, opts ...Option) *Engine {
	e := &Engine{
		registry:       registry,
		keywords:       DefaultKeywords(),
		titleThreshold: DefaultTitleThreshold,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Triage classifies a raw document. Branches, first match wins:
//
//  1. a duplicate with similarity >= 0.95
//  2. >= 2 junk-keyword hits
//  3. life-event / financial actionable detectors
//  4. deadline keywords with future or recent dates
//  5. fallback by declared domain
func (e *Engine) Triage(doc domain.RawDocument, fp domain.Fingerprint) domain.TriageDecision {
	lower := strings.ToLower(doc.Content)

	// 1. Duplicates.
	dups := e.registry.FindDuplicates(fp, e.titleThreshold)
	if len(dups) > 0 && dups[0].Similarity >= duplicateCutoff {
		related := make([]string, 0, len(dups))
		for _, d := range dups {
			related = append(related, d.DocID)
		}
		return domain.TriageDecision{
			Category:   domain.CategoryDuplicate,
			Confidence: dups[0].Similarity,
			Reasoning: []string{
				fmt.Sprintf("matches existing document %s (%s, similarity %.2f)",
					dups[0].DocID, dups[0].MatchReason, dups[0].Similarity),
			},
			SuggestedActions:   []string{"skip ingestion", "link to existing document"},
			RelatedDocumentIDs: related,
		}
	}

	// 2. Junk.
	junkHits := keywordHits(lower, e.keywords.Junk)
	if len(junkHits) >= minJunkHits {
		conf := 0.5 + 0.1*float64(len(junkHits))
		if conf > 0.9 {
			conf = 0.9
		}
		return domain.TriageDecision{
			Category:   domain.CategoryJunk,
			Confidence: conf,
			Reasoning: []string{
				fmt.Sprintf("%d junk keyword hits: %s", len(junkHits), strings.Join(junkHits, ", ")),
			},
			SuggestedActions: []string{"discard"},
		}
	}

	// 3. Actionable detectors.
	if hits := keywordHits(lower, e.keywords.LifeEvent); len(hits) > 0 {
		dates := extractDates(doc.Content)
		reasoning := []string{
			fmt.Sprintf("life-event keywords: %s", strings.Join(hits, ", ")),
		}
		var updates []string
		if len(dates) > 0 {
			reasoning = append(reasoning, fmt.Sprintf("dates mentioned: %s", joinDates(dates)))
			updates = append(updates, "record life event date")
		}
		return domain.TriageDecision{
			Category:         domain.CategoryPersonalActionable,
			Confidence:       0.8,
			Reasoning:        reasoning,
			SuggestedActions: []string{"review personally", "add to calendar"},
			KnowledgeUpdates: updates,
		}
	}
	if hits := keywordHits(lower, e.keywords.Financial); len(hits) > 0 {
		amounts := amountRe.FindAllString(doc.Content, 3)
		reasoning := []string{
			fmt.Sprintf("financial keywords: %s", strings.Join(hits, ", ")),
		}
		if len(amounts) > 0 {
			reasoning = append(reasoning, fmt.Sprintf("amounts mentioned: %s", strings.Join(amounts, ", ")))
		}
		return domain.TriageDecision{
			Category:         domain.CategoryFinancialActionable,
			Confidence:       0.8,
			Reasoning:        reasoning,
			SuggestedActions: []string{"check payment status", "file with financial records"},
		}
	}

	// 4. Keyword-bearing future or recent dates.
	if hits := keywordHits(lower, e.keywords.Deadline); len(hits) > 0 {
		if dates := e.futureOrRecentDates(doc.Content); len(dates) > 0 {
			return domain.TriageDecision{
				Category:   domain.CategoryReferenceWithDates,
				Confidence: 0.7,
				Reasoning: []string{
					fmt.Sprintf("deadline keywords: %s", strings.Join(hits, ", ")),
					fmt.Sprintf("upcoming or recent dates: %s", joinDates(dates)),
				},
				SuggestedActions: []string{"track deadline"},
			}
		}
	}

	// 5. Fallback by declared domain.
	return e.domainFallback(doc.Domain)
}

// domainFallback assigns a reference or archival category from the
// declared domain.
func (e *Engine) domainFallback(docDomain string) domain.TriageDecision {
	switch strings.ToLower(strings.TrimSpace(docDomain)) {
	case "legal":
		return domain.TriageDecision{
			Category:         domain.CategoryLegalReference,
			Confidence:       0.8,
			Reasoning:        []string{"declared domain: legal"},
			SuggestedActions: []string{"index for reference"},
		}
	case "health":
		return domain.TriageDecision{
			Category:         domain.CategoryHealthReference,
			Confidence:       0.7,
			Reasoning:        []string{"declared domain: health"},
			SuggestedActions: []string{"index for reference"},
		}
	case "technology", "tech":
		return domain.TriageDecision{
			Category:         domain.CategoryTechnicalReference,
			Confidence:       0.7,
			Reasoning:        []string{"declared domain: technology"},
			SuggestedActions: []string{"index for reference"},
		}
	default:
		return domain.TriageDecision{
			Category:         domain.CategoryArchival,
			Confidence:       0.5,
			Reasoning:        []string{"no actionable signals found"},
			SuggestedActions: []string{"archive"},
		}
	}
}

// futureOrRecentDates returns extracted dates that are in the future
// or within the recent window.
func (e *Engine) futureOrRecentDates(content string) []time.Time {
	cutoff := e.now().Add(-recentWindow)
	var out []time.Time
	for _, d := range extractDates(content) {
		if d.After(cutoff) {
			out = append(out, d)
		}
	}
	return out
}

// keywordHits returns the keywords present in the lowercased content,
// in list order.
func keywordHits(lower string, keywords []string) []string {
	var hits []string
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			hits = append(hits, kw)
		}
	}
	return hits
}

// extractDates parses ISO, German and slash-formatted dates from the
// content. Unparseable matches are skipped.
func extractDates(content string) []time.Time {
	var out []time.Time

	for _, m := range isoDateRe.FindAllString(content, -1) {
		if t, err := time.Parse("2006-01-02", m); err == nil {
			out = append(out, t)
		}
	}
	for _, m := range germanDateRe.FindAllStringSubmatch(content, -1) {
		if t, err := time.Parse("2.1.2006", fmt.Sprintf("%s.%s.%s", m[1], m[2], m[3])); err == nil {
			out = append(out, t)
		}
	}
	for _, m := range slashDateRe.FindAllStringSubmatch(content, -1) {
		// Month/day order: US convention.
		if t, err := time.Parse("1/2/2006", fmt.Sprintf("%s/%s/%s", m[1], m[2], m[3])); err == nil {
			out = append(out, t)
		}
	}
	return out
}

func joinDates(dates []time.Time) string {
	parts := make([]string, len(dates))
	for i, d := range dates {
		parts[i] = d.Format("2006-01-02")
	}
	return strings.Join(parts, ", ")
}
