package domain

// TriageCategory classifies a document before expensive processing.
type TriageCategory string

// Triage categories, roughly ordered from "drop" to "keep".
const (
	CategoryDuplicate           TriageCategory = "duplicate"
	CategoryJunk                TriageCategory = "junk"
	CategoryPersonalActionable  TriageCategory = "personal_actionable"
	CategoryFinancialActionable TriageCategory = "financial_actionable"
	CategoryLegalReference      TriageCategory = "legal_reference"
	CategoryHealthReference     TriageCategory = "health_reference"
	CategoryTechnicalReference  TriageCategory = "technical_reference"
	CategoryReferenceWithDates  TriageCategory = "reference_with_dates"
	CategoryArchival            TriageCategory = "archival"
)

// Discard reports whether the category means the document should not
// proceed to enrichment.
func (c TriageCategory) Discard() bool {
	return c == CategoryDuplicate || c == CategoryJunk
}

// String returns the string representation.
func (c TriageCategory) String() string {
	return string(c)
}

// TriageDecision is the output of the triage cascade. Produced once
// per document and read-only downstream.
type TriageDecision struct {
	// Category is the assigned classification.
	Category TriageCategory

	// Confidence is in [0,1].
	Confidence float64

	// Reasoning is an ordered list of human-readable justifications.
	Reasoning []string

	// SuggestedActions is an ordered list of follow-up suggestions.
	SuggestedActions []string

	// RelatedDocumentIDs links to existing documents (e.g. duplicates).
	RelatedDocumentIDs []string

	// KnowledgeUpdates lists facts worth recording elsewhere.
	KnowledgeUpdates []string
}
