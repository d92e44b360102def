package driven

import (
	"context"

	"github.com/custodia-labs/curator-cli/internal/core/domain"
)

// Exporter emits a stored document to a downstream format (notes,
// contacts, calendars). The core's only obligation is to supply the
// enriched fields accurately; it does not dictate file formats.
// Export failures never fail an ingestion.
type Exporter interface {
	// Export writes one stored document. The enriched document carries
	// the entity lists, tags and dates the formatter needs.
	Export(ctx context.Context, stored domain.StoredDocument, enriched domain.EnrichedDocument) error
}
