package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyDocument indicates a document with no content.
	ErrEmptyDocument = errors.New("empty document")

	// ErrEnrichmentUnavailable indicates the enrichment collaborator is
	// not configured. Ingestion cannot proceed without it.
	ErrEnrichmentUnavailable = errors.New("enrichment service unavailable")

	// ErrStoreUnavailable indicates the document store is not configured.
	ErrStoreUnavailable = errors.New("document store unavailable")

	// ErrIndexEmpty indicates a query was run before any document was
	// indexed.
	ErrIndexEmpty = errors.New("sparse index is empty")
)
