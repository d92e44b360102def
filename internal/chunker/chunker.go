// Package chunker splits document text into semantically bounded
// chunks. Three strategies exist: structure-aware markdown parsing,
// a fixed-window fallback and a turn-based splitter for
// conversational content. Strategy selection is keyed by the
// document's normalised type.
package chunker

import (
	"strings"

	"github.com/custodia-labs/curator-cli/internal/core/domain"
)

// Defaults for chunk sizing. Token counts are estimates (len/4).
const (
	DefaultTargetTokens = 250
	DefaultMaxTokens    = 500
	DefaultWindowChars  = 1200
	DefaultOverlapChars = 200
)

// Default ignore-block delimiters. Content between them is stripped
// before chunking and never appears in any chunk.
const (
	DefaultIgnoreStart = "<!-- curator:ignore -->"
	DefaultIgnoreEnd   = "<!-- /curator:ignore -->"
)

// Chunker splits documents into chunks.
type Chunker struct {
	targetTokens   int
	maxTokens      int
	windowChars    int
	overlapChars   int
	ignoreStart    string
	ignoreEnd      string
	structureAware bool
}

// Option configures the chunker.
type Option func(*Chunker)

// WithTargetTokens sets the greedy-merge target size.
func WithTargetTokens(n int) Option {
	return func(c *Chunker) {
		if n > 0 {
			c.targetTokens = n
		}
	}
}

// WithMaxTokens sets the hard chunk size ceiling.
func WithMaxTokens(n int) Option {
	return func(c *Chunker) {
		if n > 0 {
			c.maxTokens = n
		}
	}
}

// WithWindow sets the fallback window size and overlap in characters.
func WithWindow(size, overlap int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.windowChars = size
		}
		if overlap >= 0 {
			c.overlapChars = overlap
		}
	}
}

// WithStructureAware enables or disables structure parsing. When
// disabled every non-chat document uses the fixed-window splitter.
func WithStructureAware(enabled bool) Option {
	return func(c *Chunker) { c.structureAware = enabled }
}

// WithIgnoreDelimiters overrides the ignore-block markers.
func WithIgnoreDelimiters(start, end string) Option {
	return func(c *Chunker) {
		if start != "" && end != "" {
			c.ignoreStart = start
			c.ignoreEnd = end
		}
	}
}

// New creates a chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		targetTokens:   DefaultTargetTokens,
		maxTokens:      DefaultMaxTokens,
		windowChars:    DefaultWindowChars,
		overlapChars:   DefaultOverlapChars,
		ignoreStart:    DefaultIgnoreStart,
		ignoreEnd:      DefaultIgnoreEnd,
		structureAware: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.overlapChars >= c.windowChars {
		c.overlapChars = c.windowChars / 4
	}
	return c
}

// Chunk splits a document using the strategy for its type. Chunk
// indexes are contiguous starting at 0.
func (c *Chunker) Chunk(content string, docType domain.DocType) []domain.Chunk {
	content = c.stripIgnoreBlocks(content)
	if strings.TrimSpace(content) == "" {
		return nil
	}

	var chunks []domain.Chunk
	switch domain.CapabilitiesFor(docType).Strategy {
	case domain.StrategyTurns:
		chunks = c.chunkTurns(content)
	case domain.StrategyWindow:
		chunks = c.chunkWindow(content)
	default:
		if c.structureAware && hasStructure(content) {
			chunks = c.chunkStructure(content)
		} else {
			chunks = c.chunkWindow(content)
		}
	}

	for i := range chunks {
		chunks[i].Index = i
		chunks[i].EstimatedTokens = estimateTokens(chunks[i].Content)
	}
	return chunks
}

// stripIgnoreBlocks removes content between the ignore delimiters,
// including the delimiter lines themselves.
func (c *Chunker) stripIgnoreBlocks(content string) string {
	if !strings.Contains(content, c.ignoreStart) {
		return content
	}

	var out []string
	ignoring := false
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == c.ignoreStart:
			ignoring = true
		case trimmed == c.ignoreEnd:
			ignoring = false
		case !ignoring:
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

// estimateTokens is the cheap length-based token estimate.
func estimateTokens(text string) int {
	return len(text) / 4
}
