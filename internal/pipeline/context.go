package pipeline

import (
	"time"

	"github.com/custodia-labs/curator-cli/internal/core/domain"
)

// Context is the per-document mutable state threaded through all
// stages. It is owned exclusively by one pipeline run, never shared
// across documents, and discarded after the run completes.
type Context struct {
	// DocID identifies the document being processed.
	DocID string

	// Filename is the original file name, for logging and reporting.
	Filename string

	// StageTimings records each executed stage's duration by name.
	StageTimings map[string]time.Duration

	// Gated is true when a stage halted the document as a normal,
	// non-error outcome (duplicate, junk, quality rejection).
	Gated bool

	// GateReason explains why the document was gated.
	GateReason string

	// Fingerprint is set by the triage stage.
	Fingerprint *domain.Fingerprint

	// Triage is set by the triage stage.
	Triage *domain.TriageDecision

	// Scores is set by the quality gate stage.
	Scores *domain.QualityGateResult
}

// NewContext creates a context for one document's pipeline run.
func NewContext(docID, filename string) *Context {
	return &Context{
		DocID:        docID,
		Filename:     filename,
		StageTimings: make(map[string]time.Duration),
	}
}
