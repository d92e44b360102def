// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports). The ingestion core calls these; it never
// depends on concrete adapters.
package driven
