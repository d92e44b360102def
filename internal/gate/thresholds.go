package gate

import "github.com/custodia-labs/curator-cli/internal/core/domain"

// Threshold is the per-document-type minimum for indexing.
type Threshold struct {
	// MinQuality is the quality score floor.
	MinQuality float64

	// MinSignal is the signalness floor.
	MinSignal float64
}

// defaultThresholds returns the built-in threshold table. Stricter
// types (legal, reports) demand cleaner content; quick notes pass
// with less.
func defaultThresholds() map[domain.DocType]Threshold {
	return map[domain.DocType]Threshold{
		domain.DocTypeLegal:   {MinQuality: 0.80, MinSignal: 0.70},
		domain.DocTypeReport:  {MinQuality: 0.75, MinSignal: 0.65},
		domain.DocTypeEmail:   {MinQuality: 0.70, MinSignal: 0.60},
		domain.DocTypeWeb:     {MinQuality: 0.70, MinSignal: 0.60},
		domain.DocTypeText:    {MinQuality: 0.65, MinSignal: 0.55},
		domain.DocTypeChat:    {MinQuality: 0.65, MinSignal: 0.60},
		domain.DocTypeGeneric: {MinQuality: 0.65, MinSignal: 0.55},
		domain.DocTypeNote:    {MinQuality: 0.60, MinSignal: 0.50},
	}
}

// thresholdFor returns the threshold row for a type, falling back to
// generic for unknown types.
func (g *Gate) thresholdFor(t domain.DocType) Threshold {
	if th, ok := g.thresholds[t]; ok {
		return th
	}
	return g.thresholds[domain.DocTypeGeneric]
}
