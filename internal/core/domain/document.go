package domain

import "time"

// RawDocument is an unprocessed document as handed to the pipeline.
// It is the triage stage's input and is never mutated.
type RawDocument struct {
	// ID is the unique identifier assigned at intake.
	ID string

	// Filename is the original file name or logical source name.
	Filename string

	// DocType is a free-text type label (e.g. "email", "legal contract").
	// It is normalised to a DocType enum by the quality gate.
	DocType string

	// Content is the full text content.
	Content string

	// Title is the declared title, if any. May be empty.
	Title string

	// Domain is the declared subject domain (legal, health, technology, ...).
	Domain string

	// CreatedAt is the document's creation or capture timestamp.
	CreatedAt time.Time
}

// EntitySet holds the entity lists produced by enrichment.
type EntitySet struct {
	People        []string
	Organizations []string
	Locations     []string
	Technologies  []string
	Dates         []string
}

// All returns the union of every entity string, in list order.
func (e EntitySet) All() []string {
	out := make([]string, 0,
		len(e.People)+len(e.Organizations)+len(e.Locations)+len(e.Technologies)+len(e.Dates))
	out = append(out, e.People...)
	out = append(out, e.Organizations...)
	out = append(out, e.Locations...)
	out = append(out, e.Technologies...)
	out = append(out, e.Dates...)
	return out
}

// Enrichment is the output contract of the enrichment collaborator.
// The core consumes this as an opaque result; how it is computed
// (LLM, heuristics) is not the core's concern.
type Enrichment struct {
	Title      string
	Summary    string
	Tags       []string
	Entities   EntitySet
	Domain     string
	Complexity string
}

// EnrichedDocument is a raw document plus its enrichment output and,
// once the gate has run, its quality scores.
type EnrichedDocument struct {
	Raw        RawDocument
	Enrichment Enrichment

	// Scores is populated by the quality gate stage.
	Scores QualityGateResult
}

// ChunkedDocument is an enriched document split into retrieval units.
type ChunkedDocument struct {
	Enriched EnrichedDocument
	Chunks   []Chunk
}

// StoredDocument records the outcome of the storage stage.
type StoredDocument struct {
	// DocID is the document identifier.
	DocID string

	// ChunkIDs are the store-assigned IDs, one per chunk, in chunk order.
	ChunkIDs []string

	// ChunkCount is len(ChunkIDs), kept for reporting convenience.
	ChunkCount int
}

// ChunkType classifies the structural kind of a chunk.
type ChunkType string

// Chunk types produced by the structure-aware chunker.
const (
	ChunkHeading   ChunkType = "heading"
	ChunkTable     ChunkType = "table"
	ChunkCode      ChunkType = "code"
	ChunkList      ChunkType = "list"
	ChunkParagraph ChunkType = "paragraph"
	ChunkMixed     ChunkType = "mixed"
	ChunkChatTurn  ChunkType = "chat_turn"
)

// Chunk is a contiguous, semantically bounded span of document text.
// Chunks are immutable once produced by the chunker.
type Chunk struct {
	// Content is the chunk text.
	Content string

	// Index is the 0-based, contiguous position within the document.
	Index int

	// Type is the structural classification.
	Type ChunkType

	// SectionTitle is the nearest enclosing heading, if any.
	SectionTitle string

	// ParentSections lists enclosing headings outermost to innermost.
	// It never contains a heading deeper than the chunk's own level.
	ParentSections []string

	// EstimatedTokens is a cheap token estimate (len(content)/4).
	EstimatedTokens int
}
