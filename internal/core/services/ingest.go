package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/curator-cli/internal/chunker"
	"github.com/custodia-labs/curator-cli/internal/core/domain"
	"github.com/custodia-labs/curator-cli/internal/core/ports/driven"
	"github.com/custodia-labs/curator-cli/internal/core/ports/driving"
	"github.com/custodia-labs/curator-cli/internal/fingerprint"
	"github.com/custodia-labs/curator-cli/internal/gate"
	"github.com/custodia-labs/curator-cli/internal/logger"
	"github.com/custodia-labs/curator-cli/internal/pipeline"
	"github.com/custodia-labs/curator-cli/internal/retrieval"
)

// Ensure Ingester implements the interface.
var _ driving.IngestService = (*Ingester)(nil)

// Defaults for ingestion behaviour.
const (
	DefaultEnrichTimeout = 30 * time.Second
	DefaultWorkers       = 4
)

// Ingester implements driving.IngestService. One Ingester owns the
// fingerprint registry and the retrieval engine; concurrent batch
// workers share them safely.
type Ingester struct {
	runner   *pipeline.Runner
	store    driven.DocumentStore
	registry *fingerprint.Registry
	engine   *retrieval.Engine
	workers  int
}

// Options bundles the ingester's tunables. Zero values fall back to
// defaults.
type Options struct {
	// Exporter, when non-nil, receives every stored document.
	Exporter driven.Exporter

	// EnrichTimeout bounds each enrichment call.
	EnrichTimeout time.Duration

	// Workers bounds batch-ingestion concurrency.
	Workers int

	// Inputs supplies optional upstream quality signals per document.
	Inputs func(pc *pipeline.Context) gate.Inputs
}

// NewIngester wires the pipeline stages in their fixed order: triage,
// enrich, gate, chunk, store, export.
func NewIngester(
	enricher driven.Enricher,
	store driven.DocumentStore,
	registry *fingerprint.Registry,
	triageEngine *fingerprint.Engine,
	qualityGate *gate.Gate,
	chunkSplitter *chunker.Chunker,
	engine *retrieval.Engine,
	opts Options,
) *Ingester {
	if opts.EnrichTimeout <= 0 {
		opts.EnrichTimeout = DefaultEnrichTimeout
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}

	runner := pipeline.NewRunner(
		&triageStage{engine: triageEngine},
		&enrichStage{enricher: enricher, timeout: opts.EnrichTimeout},
		&gateStage{gate: qualityGate, inputs: opts.Inputs, corpusSize: registry.Size},
		&chunkStage{chunker: chunkSplitter},
		&storeStage{store: store, engine: engine, registry: registry},
		&exportStage{exporter: opts.Exporter},
	)

	return &Ingester{
		runner:   runner,
		store:    store,
		registry: registry,
		engine:   engine,
		workers:  opts.Workers,
	}
}

// Ingest processes one document through all pipeline stages.
func (i *Ingester) Ingest(ctx context.Context, raw domain.RawDocument) (*driving.IngestResult, error) {
	if strings.TrimSpace(raw.Content) == "" {
		return nil, domain.ErrEmptyDocument
	}
	if raw.ID == "" {
		raw.ID = uuid.NewString()
	}

	pc := pipeline.NewContext(raw.ID, raw.Filename)
	run := i.runner.Run(ctx, raw, pc)

	result := &driving.IngestResult{
		DocID:        raw.ID,
		Filename:     raw.Filename,
		Status:       run.Status(pc),
		StageTimings: pc.StageTimings,
		Triage:       pc.Triage,
	}
	if out, ok := run.Output.(storeOutput); ok {
		stored := out.stored
		result.Stored = &stored
	}

	logger.Debug("Ingested %s (%s): %s", raw.ID, raw.Filename, result.Status)
	return result, nil
}

// IngestBatch processes independent documents on a bounded worker
// pool. Per-document failures are reported in the result statuses;
// only context cancellation aborts the batch.
func (i *Ingester) IngestBatch(ctx context.Context, docs []domain.RawDocument) ([]driving.IngestResult, error) {
	results := make([]driving.IngestResult, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(i.workers)

	for idx, doc := range docs {
		idx, doc := idx, doc
		g.Go(func() error {
			res, err := i.Ingest(gctx, doc)
			if err != nil {
				results[idx] = driving.IngestResult{
					DocID:    doc.ID,
					Filename: doc.Filename,
					Status:   "failed:intake:" + err.Error(),
				}
				return nil
			}
			results[idx] = *res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// Restore rebuilds the in-memory fingerprint registry and sparse index
// from a persistent store. Called once at startup; without it a
// restarted process would re-ingest duplicates undetected.
func (i *Ingester) Restore(ctx context.Context) error {
	records, err := i.store.Get(ctx, nil)
	if err != nil {
		return err
	}

	chunks := make([]retrieval.ChunkRecord, 0, len(records))
	restored := 0
	for _, rec := range records {
		chunks = append(chunks, retrieval.ChunkRecord{ID: rec.ID, Content: rec.Content})

		if rec.Metadata["chunk_index"] != "0" {
			continue
		}
		docID := rec.Metadata["doc_id"]
		if docID == "" {
			continue
		}
		wordCount, _ := strconv.Atoi(rec.Metadata["fp_word_count"])
		i.registry.Register(docID, domain.Fingerprint{
			ContentHash:       rec.Metadata["fp_content_hash"],
			FuzzySignature:    rec.Metadata["fp_fuzzy_signature"],
			MetadataSignature: rec.Metadata["fp_metadata_signature"],
			NormalizedTitle:   rec.Metadata["fp_normalized_title"],
			WordCount:         wordCount,
			EntitySignature:   rec.Metadata["fp_entity_signature"],
		})
		restored++
	}

	if len(chunks) > 0 {
		i.engine.AddChunks(chunks)
	}
	logger.Debug("Restored %d documents, %d chunks", restored, len(chunks))
	return nil
}
