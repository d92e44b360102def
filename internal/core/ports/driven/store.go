package driven

import "context"

// StoreHit is a similarity result from the document store.
type StoreHit struct {
	// ID is the stored record (chunk) identifier.
	ID string

	// Content is the stored text.
	Content string

	// Metadata is the stored key-value metadata.
	Metadata map[string]string

	// Similarity is in [0,1] (higher is better).
	Similarity float64
}

// StoreRecord is one stored chunk record.
type StoreRecord struct {
	ID       string
	Content  string
	Metadata map[string]string
}

// DocumentStore persists chunk records and answers similarity and
// filter queries. Any backend satisfying add/query/get-by-filter
// semantics works; no particular wire protocol is assumed.
//
// Entity lists are flattened to comma-joined strings in metadata.
// This convention is lossy: an entity name containing a bare comma
// will incorrectly split on round-trip. Known limitation, kept
// deliberately (see DESIGN.md).
type DocumentStore interface {
	// Add stores records. The three slices are parallel and must have
	// equal length.
	Add(ctx context.Context, ids []string, contents []string, metadatas []map[string]string) error

	// Query returns the topK records ranked by similarity to the
	// query text. The ranking method is the adapter's choice.
	Query(ctx context.Context, queryText string, topK int) ([]StoreHit, error)

	// Get returns records whose metadata matches every key-value pair
	// in filter. A nil or empty filter returns all records.
	Get(ctx context.Context, filter map[string]string) ([]StoreRecord, error)

	// Close releases resources.
	Close() error
}
