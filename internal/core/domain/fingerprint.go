package domain

// Fingerprint is a set of identity and similarity signatures computed
// from a raw document at triage time. It is immutable once computed
// and used only for comparison.
type Fingerprint struct {
	// ContentHash is a digest over the full raw content.
	ContentHash string

	// FuzzySignature is a digest of the top-N frequent-word set.
	// Order-independent, so near-duplicates with reordered paragraphs
	// still match.
	FuzzySignature string

	// MetadataSignature is a digest of title, domain and creation time.
	MetadataSignature string

	// NormalizedTitle is the lowercased, punctuation-stripped title.
	NormalizedTitle string

	// LeadingExcerpt is the first few hundred characters of content.
	LeadingExcerpt string

	// WordCount is the total word count of the content.
	WordCount int

	// EntitySignature is a digest of the sorted entity string union.
	// Empty when no entities were supplied.
	EntitySignature string
}

// DuplicateMatch is one candidate duplicate found for a fingerprint.
type DuplicateMatch struct {
	// DocID is the existing document's identifier.
	DocID string

	// Similarity is in [0,1]; 1.0 means an exact content match.
	Similarity float64

	// MatchReason names the strategy that produced the match:
	// "exact_content_hash", "fuzzy_hash_match" or "title_similarity".
	MatchReason string
}
