package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/curator-cli/internal/core/domain"
)

// IngestService runs documents through the ingestion pipeline.
type IngestService interface {
	// Ingest processes one document through all pipeline stages.
	// Gated documents (duplicate, junk, below quality threshold) are
	// reported via the result status, not as errors.
	Ingest(ctx context.Context, raw domain.RawDocument) (*IngestResult, error)

	// IngestBatch processes independent documents on a bounded worker
	// pool. Each document's stages still run sequentially.
	IngestBatch(ctx context.Context, docs []domain.RawDocument) ([]IngestResult, error)
}

// IngestResult is the structured per-document outcome.
type IngestResult struct {
	// DocID is the document identifier.
	DocID string

	// Filename is the original file name.
	Filename string

	// Status is one of "completed", "gated:<reason>" or
	// "failed:<stage>:<message>".
	Status string

	// StageTimings records each executed stage's duration.
	StageTimings map[string]time.Duration

	// Stored is set when the storage stage ran.
	Stored *domain.StoredDocument

	// Triage is set when the triage stage produced a decision.
	Triage *domain.TriageDecision
}

// Completed reports whether the document made it through every stage.
func (r *IngestResult) Completed() bool {
	return r.Status == "completed"
}
