// Package domain contains the core business entities for Curator.
//
// The types here model the document lifecycle through the ingestion
// pipeline: RawDocument -> EnrichedDocument -> ChunkedDocument ->
// StoredDocument. Each stage's output is the next stage's input and is
// immutable once produced. The package has no dependencies on
// infrastructure; adapters and services depend on it, never the
// reverse.
package domain
