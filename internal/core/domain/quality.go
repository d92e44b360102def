package domain

// Signalness weights. Fixed, not tunable at runtime.
const (
	signalWeightQuality       = 0.4
	signalWeightNovelty       = 0.3
	signalWeightActionability = 0.3
)

// Signalness blends quality, novelty and actionability into one
// composite score: 0.4*quality + 0.3*novelty + 0.3*actionability.
func Signalness(quality, novelty, actionability float64) float64 {
	return signalWeightQuality*quality +
		signalWeightNovelty*novelty +
		signalWeightActionability*actionability
}

// QualityGateResult holds the gate's scores and index decision.
// All scores are in [0,1].
type QualityGateResult struct {
	// Quality measures content quality (OCR/parse confidence, length,
	// structure).
	Quality float64

	// Novelty measures value relative to the existing corpus size.
	Novelty float64

	// Actionability measures watchlist and date relevance.
	Actionability float64

	// Signalness is the fixed-weight composite of the three scores.
	Signalness float64

	// DoIndex is true when the document passes its type's thresholds.
	DoIndex bool

	// GateReason names the first failed threshold when DoIndex is
	// false. Quality is checked before signal.
	GateReason string
}
