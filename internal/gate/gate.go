// Package gate computes composite quality, novelty and actionability
// scores for an enriched document and decides, per document type,
// whether the content is worth indexing.
package gate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/custodia-labs/curator-cli/internal/core/domain"
)

// Length score boundaries (characters).
const (
	shortDocChars = 100
	longDocChars  = 300
)

// Watchlist holds the names whose presence raises actionability.
// Read-only configuration, safe for unsynchronised concurrent reads.
type Watchlist struct {
	People   []string
	Projects []string
	Topics   []string
}

// Inputs carries the optional upstream quality signals. OCRConfidence
// and ParseQuality are nil when the document did not pass through OCR
// or parsing; absent inputs are omitted from the quality mean, not
// zeroed.
type Inputs struct {
	OCRConfidence *float64
	ParseQuality  *float64
}

// Gate evaluates documents against per-type thresholds.
type Gate struct {
	thresholds map[domain.DocType]Threshold
	watchlist  Watchlist
}

// Option configures the gate.
type Option func(*Gate)

// WithWatchlist sets the actionability watchlist.
func WithWatchlist(w Watchlist) Option {
	return func(g *Gate) { g.watchlist = w }
}

// WithThresholdOverrides replaces thresholds for specific types.
func WithThresholdOverrides(overrides map[domain.DocType]Threshold) Option {
	return func(g *Gate) {
		for t, th := range overrides {
			g.thresholds[t] = th
		}
	}
}

// New creates a gate with the default threshold table.
func New(opts ...Option) *Gate {
	g := &Gate{thresholds: defaultThresholds()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Evaluate scores an enriched document and decides whether to index
// it. corpusSize is the number of already-ingested documents, used for
// novelty.
func (g *Gate) Evaluate(doc *domain.EnrichedDocument, in Inputs, corpusSize int) domain.QualityGateResult {
	quality := g.qualityScore(doc.Raw.Content, in)
	novelty := noveltyScore(corpusSize)
	actionability := g.actionabilityScore(doc)
	signal := domain.Signalness(quality, novelty, actionability)

	docType := domain.NormalizeDocType(doc.Raw.DocType)
	doIndex, reason := g.decide(docType, quality, signal)

	return domain.QualityGateResult{
		Quality:       quality,
		Novelty:       novelty,
		Actionability: actionability,
		Signalness:    signal,
		DoIndex:       doIndex,
		GateReason:    reason,
	}
}

// decide applies the per-type thresholds. Quality is checked before
// signal, so the gate reason names whichever failed first.
func (g *Gate) decide(docType domain.DocType, quality, signal float64) (bool, string) {
	th := g.thresholdFor(docType)

	if quality < th.MinQuality {
		return false, fmt.Sprintf("Quality %.2f below %s threshold %.2f", quality, docType, th.MinQuality)
	}
	if signal < th.MinSignal {
		return false, fmt.Sprintf("Signal %.2f below %s threshold %.2f", signal, docType, th.MinSignal)
	}
	return true, ""
}

// qualityScore is the mean of the present signals: optional OCR
// confidence, optional parse quality, length score and structure
// score.
func (g *Gate) qualityScore(content string, in Inputs) float64 {
	var sum float64
	var n int

	if in.OCRConfidence != nil {
		sum += *in.OCRConfidence
		n++
	}
	if in.ParseQuality != nil {
		sum += *in.ParseQuality
		n++
	}

	sum += lengthScore(len(content))
	n++

	sum += structureScore(content)
	n++

	return sum / float64(n)
}

func lengthScore(chars int) float64 {
	switch {
	case chars < shortDocChars:
		return float64(chars) / 100.0
	case chars <= longDocChars:
		return 0.7
	default:
		return 1.0
	}
}

var headingRe = regexp.MustCompile(`(?m)^#{1,6}\s+\S`)

// structureScore rewards headings or formatting markers.
func structureScore(content string) float64 {
	if DetectStructure(content) {
		return 1.0
	}
	return 0.7
}

// DetectStructure reports whether the content carries markdown
// structure: headings, tables, fenced code or list items.
func DetectStructure(content string) bool {
	if headingRe.MatchString(content) {
		return true
	}
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "|") ||
			strings.HasPrefix(trimmed, "```") ||
			strings.HasPrefix(trimmed, "- ") ||
			strings.HasPrefix(trimmed, "* ") {
			return true
		}
	}
	return false
}

// noveltyScore is a step function of the existing corpus size: a small
// corpus makes any document more valuable.
func noveltyScore(corpusSize int) float64 {
	switch {
	case corpusSize < 10:
		return 0.9
	case corpusSize < 50:
		return 0.7
	case corpusSize < 200:
		return 0.6
	default:
		return 0.5
	}
}

// actionabilityScore starts at a 0.5 baseline and adds watchlist and
// date bonuses, capped at 1.0.
func (g *Gate) actionabilityScore(doc *domain.EnrichedDocument) float64 {
	score := 0.5

	lower := strings.ToLower(doc.Raw.Content)
	entities := strings.ToLower(strings.Join(doc.Enrichment.Entities.All(), " "))

	if matchesAny(lower, entities, g.watchlist.People) {
		score += 0.2
	}
	if matchesAny(lower, entities, g.watchlist.Projects) {
		score += 0.2
	}
	if matchesAny(lower, entities, g.watchlist.Topics) {
		score += 0.1
	}
	if len(doc.Enrichment.Entities.Dates) > 0 {
		score += 0.1
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}

func matchesAny(content, entities string, watched []string) bool {
	for _, w := range watched {
		lw := strings.ToLower(w)
		if lw == "" {
			continue
		}
		if strings.Contains(content, lw) || strings.Contains(entities, lw) {
			return true
		}
	}
	return false
}
