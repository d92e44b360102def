// Package services implements the driving ports: the ingest service
// wires the pipeline stages together, the search service performs
// hybrid retrieval over the ingested chunks.
package services
