package driven

import (
	"context"

	"github.com/custodia-labs/curator-cli/internal/core/domain"
)

// Enricher extracts metadata from document content. This is the
// enrichment collaborator boundary: the core treats it as an opaque
// synchronous call with a timeout and does not inspect how the result
// is computed.
//
// Implementations may include:
//   - LLM-backed extraction (entities, tags, summary)
//   - Local heuristics (the built-in adapter)
type Enricher interface {
	// Enrich extracts title, summary, tags, entities, domain and
	// complexity from the content. It must respect ctx cancellation
	// and deadlines; the enrich stage wraps calls in a timeout.
	Enrich(ctx context.Context, content, filename, docType string) (*domain.Enrichment, error)
}
