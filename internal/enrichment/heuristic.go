// Package enrichment provides adapters for the enrichment
// collaborator port. The built-in heuristic adapter extracts metadata
// locally and deterministically, so the pipeline works without any
// remote model; an LLM-backed adapter can replace it behind the same
// interface.
package enrichment

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/curator-cli/internal/core/domain"
	"github.com/custodia-labs/curator-cli/internal/core/ports/driven"
)

// Ensure Heuristic implements the port.
var _ driven.Enricher = (*Heuristic)(nil)

// maxTags caps how many frequency-derived tags are emitted.
const maxTags = 5

var (
	h1Re     = regexp.MustCompile(`(?m)^#\s+(.+)$`)
	personRe = regexp.MustCompile(`\b([A-Z][a-zäöüß]+ [A-Z][a-zäöüß]+)\b`)
	orgRe    = regexp.MustCompile(`\b([A-Z][A-Za-z&.\- ]{1,30}(?:GmbH|AG|Inc\.?|LLC|Ltd\.?|Corp\.?|KG))\b`)
	dateRe   = regexp.MustCompile(`\b(?:\d{4}-\d{2}-\d{2}|\d{1,2}\.\d{1,2}\.\d{4}|\d{1,2}/\d{1,2}/\d{4})\b`)
)

// Small built-in vocabularies. A production deployment would swap the
// heuristic adapter for an LLM-backed one rather than grow these.
var (
	technologyTerms = []string{
		"kubernetes", "docker", "postgres", "postgresql", "sqlite", "redis",
		"python", "golang", "javascript", "typescript", "linux", "aws",
		"terraform", "react", "grpc", "graphql", "kafka",
	}

	locationTerms = []string{
		"Berlin", "Hamburg", "Munich", "München", "Frankfurt", "Vienna",
		"Zurich", "Zürich", "London", "Paris", "Amsterdam", "New York",
		"San Francisco",
	}

	domainKeywords = []struct {
		keywords []string
		domain   string
	}{
		{[]string{"contract", "vertrag", "clause", "liability", "court", "gericht"}, "legal"},
		{[]string{"diagnosis", "arzt", "doctor", "prescription", "therapy", "patient"}, "health"},
		{[]string{"server", "deployment", "software", "api", "database", "code"}, "technology"},
		{[]string{"invoice", "rechnung", "payment", "account", "tax", "steuer"}, "finance"},
	}

	stopwords = map[string]bool{
		"the": true, "and": true, "for": true, "with": true, "that": true,
		"this": true, "from": true, "have": true, "been": true, "were": true,
		"will": true, "would": true, "could": true, "should": true, "about": true,
		"which": true, "their": true, "there": true, "these": true, "those": true,
		"und": true, "der": true, "die": true, "das": true, "ein": true,
		"eine": true, "nicht": true, "mit": true, "für": true, "auf": true,
	}
)

// Heuristic is a local implementation of the Enricher port. It rate
// limits itself the way a remote adapter would, so the enrich stage's
// timeout and throttling behaviour is exercised either way.
type Heuristic struct {
	limiter *rate.Limiter
}

// Option configures the heuristic enricher.
type Option func(*Heuristic)

// WithRateLimit sets the maximum enrichments per second.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(h *Heuristic) {
		if perSecond > 0 && burst > 0 {
			h.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
		}
	}
}

// NewHeuristic creates the heuristic enricher. The default rate limit
// is generous; it exists so callers exercise the same waiting path a
// remote enricher imposes.
func NewHeuristic(opts ...Option) *Heuristic {
	h := &Heuristic{limiter: rate.NewLimiter(rate.Limit(100), 100)}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Enrich extracts title, summary, tags, entities, domain and
// complexity from the content.
func (h *Heuristic) Enrich(ctx context.Context, content, filename, docType string) (*domain.Enrichment, error) {
	if err := h.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("enrichment rate limit: %w", err)
	}
	if strings.TrimSpace(content) == "" {
		return nil, domain.ErrEmptyDocument
	}

	return &domain.Enrichment{
		Title:   extractTitle(content, filename),
		Summary: extractSummary(content),
		Tags:    extractTags(content),
		Entities: domain.EntitySet{
			People:        dedupe(personRe.FindAllString(content, 10)),
			Organizations: dedupe(orgRe.FindAllString(content, 10)),
			Locations:     matchingTerms(content, locationTerms, false),
			Technologies:  matchingTerms(content, technologyTerms, true),
			Dates:         dedupe(dateRe.FindAllString(content, 10)),
		},
		Domain:     classifyDomain(content),
		Complexity: classifyComplexity(content),
	}, nil
}

// extractTitle prefers the first H1 heading, then the first line.
func extractTitle(content, filename string) string {
	if m := h1Re.FindStringSubmatch(content); m != nil {
		return strings.TrimSpace(m[1])
	}
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "# "))
		if line != "" {
			if len(line) > 80 {
				line = line[:80]
			}
			return line
		}
	}
	return filename
}

// extractSummary returns the first couple of sentences.
func extractSummary(content string) string {
	text := strings.Join(strings.Fields(content), " ")
	count := 0
	for i := 0; i < len(text); i++ {
		if text[i] == '.' || text[i] == '!' || text[i] == '?' {
			count++
			if count == 2 {
				return text[:i+1]
			}
		}
	}
	if len(text) > 200 {
		return text[:200]
	}
	return text
}

// extractTags picks the most frequent significant words.
func extractTags(content string) []string {
	freq := make(map[string]int)
	for _, w := range strings.Fields(strings.ToLower(content)) {
		w = strings.Trim(w, ".,!?;:\"'()#*|-")
		if len(w) >= 4 && !stopwords[w] {
			freq[w]++
		}
	}

	words := make([]string, 0, len(freq))
	for w := range freq {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if freq[words[i]] != freq[words[j]] {
			return freq[words[i]] > freq[words[j]]
		}
		return words[i] < words[j]
	})
	if len(words) > maxTags {
		words = words[:maxTags]
	}
	return words
}

func classifyDomain(content string) string {
	lower := strings.ToLower(content)

	bestDomain := "general"
	bestHits := 0
	for _, entry := range domainKeywords {
		hits := 0
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				hits++
			}
		}
		if hits > bestHits {
			bestHits = hits
			bestDomain = entry.domain
		}
	}
	return bestDomain
}

// classifyComplexity buckets by average sentence length.
func classifyComplexity(content string) string {
	words := len(strings.Fields(content))
	sentences := strings.Count(content, ".") + strings.Count(content, "!") + strings.Count(content, "?")
	if sentences == 0 {
		sentences = 1
	}

	avg := float64(words) / float64(sentences)
	switch {
	case avg > 25:
		return "high"
	case avg > 12:
		return "medium"
	default:
		return "low"
	}
}

func matchingTerms(content string, terms []string, lowercase bool) []string {
	haystack := content
	if lowercase {
		haystack = strings.ToLower(content)
	}
	var out []string
	for _, t := range terms {
		if strings.Contains(haystack, t) {
			out = append(out, t)
		}
	}
	return out
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	var out []string
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
