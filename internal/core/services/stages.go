package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/curator-cli/internal/chunker"
	"github.com/custodia-labs/curator-cli/internal/core/domain"
	"github.com/custodia-labs/curator-cli/internal/core/ports/driven"
	"github.com/custodia-labs/curator-cli/internal/fingerprint"
	"github.com/custodia-labs/curator-cli/internal/gate"
	"github.com/custodia-labs/curator-cli/internal/logger"
	"github.com/custodia-labs/curator-cli/internal/pipeline"
	"github.com/custodia-labs/curator-cli/internal/retrieval"
)

// storeOutput carries the storage stage's result together with the
// enriched document, which the export stage still needs.
type storeOutput struct {
	stored   domain.StoredDocument
	enriched domain.EnrichedDocument
}

// ---------------------------------------------------------------------------
// triage stage

type triageStage struct {
	engine *fingerprint.Engine
}

func (s *triageStage) Name() string { return "triage" }

// Process fingerprints the raw document and runs the triage cascade.
// Duplicate and junk categories gate the document; everything else
// continues to enrichment. A fault inside the cascade fails open: the
// document proceeds to enrichment rather than being dropped.
func (s *triageStage) Process(_ context.Context, input any, pc *pipeline.Context) (res pipeline.Result, out any, err error) {
	raw, ok := input.(domain.RawDocument)
	if !ok {
		return pipeline.Error, nil, fmt.Errorf("triage: unexpected input %T", input)
	}

	defer func() {
		if rec := recover(); rec != nil {
			logger.Warn("Triage fault for %s, passing through: %v", pc.DocID, rec)
			res, out, err = pipeline.Continue, raw, nil
		}
	}()

	fp := fingerprint.Generate(raw.Content, raw.Title, raw.Domain, raw.CreatedAt, nil)
	pc.Fingerprint = &fp

	decision := s.engine.Triage(raw, fp)
	pc.Triage = &decision

	if decision.Category.Discard() {
		pc.Gated = true
		pc.GateReason = decision.Category.String()
		return pipeline.Stop, raw, nil
	}
	return pipeline.Continue, raw, nil
}

// ---------------------------------------------------------------------------
// enrich stage

type enrichStage struct {
	enricher driven.Enricher
	timeout  time.Duration
}

func (s *enrichStage) Name() string { return "enrich" }

// Process calls the enrichment collaborator under a timeout. A slow or
// failing collaborator fails the document, never the process.
func (s *enrichStage) Process(ctx context.Context, input any, pc *pipeline.Context) (pipeline.Result, any, error) {
	raw, ok := input.(domain.RawDocument)
	if !ok {
		return pipeline.Error, nil, fmt.Errorf("enrich: unexpected input %T", input)
	}

	enrichCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		enrichCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	enrichment, err := s.enricher.Enrich(enrichCtx, raw.Content, raw.Filename, raw.DocType)
	if err != nil {
		return pipeline.Error, nil, fmt.Errorf("%w: %v", domain.ErrEnrichmentUnavailable, err)
	}

	return pipeline.Continue, domain.EnrichedDocument{Raw: raw, Enrichment: *enrichment}, nil
}

// ---------------------------------------------------------------------------
// gate stage

type gateStage struct {
	gate   *gate.Gate
	inputs func(pc *pipeline.Context) gate.Inputs

	// corpusSize reports how many documents are already ingested.
	corpusSize func() int
}

func (s *gateStage) Name() string { return "gate" }

// Process scores the document and stops below-threshold content. A
// fault inside scoring fails open: the document is indexed rather than
// silently dropped.
func (s *gateStage) Process(_ context.Context, input any, pc *pipeline.Context) (res pipeline.Result, out any, err error) {
	doc, ok := input.(domain.EnrichedDocument)
	if !ok {
		return pipeline.Error, nil, fmt.Errorf("gate: unexpected input %T", input)
	}

	defer func() {
		if rec := recover(); rec != nil {
			logger.Warn("Gate scoring fault for %s, indexing anyway: %v", pc.DocID, rec)
			res, out, err = pipeline.Continue, doc, nil
		}
	}()

	var in gate.Inputs
	if s.inputs != nil {
		in = s.inputs(pc)
	}

	result := s.gate.Evaluate(&doc, in, s.corpusSize())
	doc.Scores = result
	pc.Scores = &result

	if !result.DoIndex {
		pc.Gated = true
		pc.GateReason = result.GateReason
		return pipeline.Stop, doc, nil
	}
	return pipeline.Continue, doc, nil
}

// ---------------------------------------------------------------------------
// chunk stage

type chunkStage struct {
	chunker *chunker.Chunker
}

func (s *chunkStage) Name() string { return "chunk" }

func (s *chunkStage) Process(_ context.Context, input any, pc *pipeline.Context) (pipeline.Result, any, error) {
	doc, ok := input.(domain.EnrichedDocument)
	if !ok {
		return pipeline.Error, nil, fmt.Errorf("chunk: unexpected input %T", input)
	}

	docType := domain.NormalizeDocType(doc.Raw.DocType)
	chunks := s.chunker.Chunk(doc.Raw.Content, docType)
	if len(chunks) == 0 {
		pc.Gated = true
		pc.GateReason = "no indexable content"
		return pipeline.Stop, doc, nil
	}

	return pipeline.Continue, domain.ChunkedDocument{Enriched: doc, Chunks: chunks}, nil
}

// ---------------------------------------------------------------------------
// store stage

type storeStage struct {
	store    driven.DocumentStore
	engine   *retrieval.Engine
	registry *fingerprint.Registry
}

func (s *storeStage) Name() string { return "store" }

// Process persists every chunk with its metadata, feeds the sparse
// index and registers the document's fingerprint for future dedup.
func (s *storeStage) Process(ctx context.Context, input any, pc *pipeline.Context) (pipeline.Result, any, error) {
	doc, ok := input.(domain.ChunkedDocument)
	if !ok {
		return pipeline.Error, nil, fmt.Errorf("store: unexpected input %T", input)
	}

	ids := make([]string, len(doc.Chunks))
	contents := make([]string, len(doc.Chunks))
	metadatas := make([]map[string]string, len(doc.Chunks))
	records := make([]retrieval.ChunkRecord, len(doc.Chunks))

	for i, chunk := range doc.Chunks {
		id := fmt.Sprintf("%s:%d", pc.DocID, chunk.Index)
		ids[i] = id
		contents[i] = chunk.Content
		metadatas[i] = chunkMetadata(pc, doc.Enriched, chunk)
		records[i] = retrieval.ChunkRecord{ID: id, Content: chunk.Content}
	}

	if err := s.store.Add(ctx, ids, contents, metadatas); err != nil {
		return pipeline.Error, nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	s.engine.AddChunks(records)
	if pc.Fingerprint != nil {
		s.registry.Register(pc.DocID, *pc.Fingerprint)
	}

	stored := domain.StoredDocument{
		DocID:      pc.DocID,
		ChunkIDs:   ids,
		ChunkCount: len(ids),
	}
	return pipeline.Continue, storeOutput{stored: stored, enriched: doc.Enriched}, nil
}

// chunkMetadata flattens the chunk and enrichment fields to the store's
// string-map convention. Entity lists are comma-joined; an entity name
// containing a comma will split incorrectly on round-trip (known
// limitation).
func chunkMetadata(pc *pipeline.Context, doc domain.EnrichedDocument, chunk domain.Chunk) map[string]string {
	ent := doc.Enrichment.Entities
	md := map[string]string{
		"doc_id":           pc.DocID,
		"filename":         pc.Filename,
		"doc_type":         doc.Raw.DocType,
		"title":            doc.Enrichment.Title,
		"domain":           doc.Enrichment.Domain,
		"chunk_index":      strconv.Itoa(chunk.Index),
		"chunk_type":       string(chunk.Type),
		"section_title":    chunk.SectionTitle,
		"parent_sections":  strings.Join(chunk.ParentSections, ","),
		"estimated_tokens": strconv.Itoa(chunk.EstimatedTokens),
		"tags":             strings.Join(doc.Enrichment.Tags, ","),
		"people":           strings.Join(ent.People, ","),
		"organizations":    strings.Join(ent.Organizations, ","),
		"locations":        strings.Join(ent.Locations, ","),
		"technologies":     strings.Join(ent.Technologies, ","),
		"dates":            strings.Join(ent.Dates, ","),
	}

	// Fingerprint fields ride on chunk 0 so the dedup registry can be
	// rebuilt from the store at startup.
	if chunk.Index == 0 && pc.Fingerprint != nil {
		fp := pc.Fingerprint
		md["fp_content_hash"] = fp.ContentHash
		md["fp_fuzzy_signature"] = fp.FuzzySignature
		md["fp_metadata_signature"] = fp.MetadataSignature
		md["fp_normalized_title"] = fp.NormalizedTitle
		md["fp_word_count"] = strconv.Itoa(fp.WordCount)
		md["fp_entity_signature"] = fp.EntitySignature
	}
	return md
}

// ---------------------------------------------------------------------------
// export stage

type exportStage struct {
	exporter driven.Exporter
}

func (s *exportStage) Name() string { return "export" }

// ShouldSkip skips the stage entirely when no exporter is configured.
func (s *exportStage) ShouldSkip(_ *pipeline.Context) bool {
	return s.exporter == nil
}

// Process emits the stored document downstream. Export failures are
// logged and swallowed; they never fail an ingestion.
func (s *exportStage) Process(ctx context.Context, input any, pc *pipeline.Context) (pipeline.Result, any, error) {
	out, ok := input.(storeOutput)
	if !ok {
		return pipeline.Error, nil, fmt.Errorf("export: unexpected input %T", input)
	}

	if err := s.exporter.Export(ctx, out.stored, out.enriched); err != nil {
		logger.Warn("Export failed for %s: %v", pc.DocID, err)
	}
	return pipeline.Continue, out, nil
}
