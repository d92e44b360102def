package cli

import (
	"context"

	"github.com/custodia-labs/curator-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/curator-cli/internal/chunker"
	"github.com/custodia-labs/curator-cli/internal/config"
	"github.com/custodia-labs/curator-cli/internal/core/domain"
	"github.com/custodia-labs/curator-cli/internal/core/services"
	"github.com/custodia-labs/curator-cli/internal/enrichment"
	"github.com/custodia-labs/curator-cli/internal/fingerprint"
	"github.com/custodia-labs/curator-cli/internal/gate"
	"github.com/custodia-labs/curator-cli/internal/retrieval"
)

const testDocument = `# Connection Pooling

The migration toolkit reuses database connections through a shared
pool. Exhausted pools queue callers instead of opening new sockets.

## Tuning

Pool size follows the worker count. Idle connections close after a
fixed grace period so restarts do not leak descriptors.
`

// setupTestServices wires an in-memory service graph with one ingested
// document and returns a cleanup that restores the previous state.
func setupTestServices() func() {
	cleanup := setupTestServicesEmpty()

	_, _ = ingestService.Ingest(context.Background(), domain.RawDocument{
		Filename: "pooling.md",
		DocType:  "note",
		Content:  testDocument,
	})
	return cleanup
}

// setupTestServicesEmpty wires the graph without ingesting anything.
func setupTestServicesEmpty() func() {
	prevCfg := cfg
	prevStore := docStore
	prevRegistry := registry
	prevEngine := engine
	prevIngest := ingestService
	prevSearch := searchService

	cfg = config.Default()
	docStore = memory.NewDocumentStore()
	registry = fingerprint.NewRegistry()
	engine = retrieval.NewEngine()

	ingestService = services.NewIngester(
		enrichment.NewHeuristic(),
		docStore,
		registry,
		fingerprint.NewEngine(registry),
		gate.New(),
		chunker.New(),
		engine,
		services.Options{},
	)
	searchService = services.NewSearcher(docStore, engine)

	return func() {
		cfg = prevCfg
		docStore = prevStore
		registry = prevRegistry
		engine = prevEngine
		ingestService = prevIngest
		searchService = prevSearch
	}
}
