// Package cli implements the cobra command surface: ingest, search,
// watch, status and version. Services are wired once in the root
// command's PersistentPreRunE from the loaded configuration.
package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/curator-cli/internal/adapters/driven/export/markdown"
	"github.com/custodia-labs/curator-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/curator-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/curator-cli/internal/chunker"
	"github.com/custodia-labs/curator-cli/internal/config"
	"github.com/custodia-labs/curator-cli/internal/core/domain"
	"github.com/custodia-labs/curator-cli/internal/core/ports/driven"
	"github.com/custodia-labs/curator-cli/internal/core/services"
	"github.com/custodia-labs/curator-cli/internal/enrichment"
	"github.com/custodia-labs/curator-cli/internal/fingerprint"
	"github.com/custodia-labs/curator-cli/internal/gate"
	"github.com/custodia-labs/curator-cli/internal/logger"
	"github.com/custodia-labs/curator-cli/internal/retrieval"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	verbose    bool
	configPath string
)

// Package-level services, wired by setupServices.
var (
	cfg           config.Config
	docStore      driven.DocumentStore
	registry      *fingerprint.Registry
	engine        *retrieval.Engine
	ingestService *services.Ingester
	searchService *services.Searcher
)

var rootCmd = &cobra.Command{
	Use:   "curator",
	Short: "Personal document ingestion and retrieval",
	Long: `Curator ingests documents through a triage, quality-gate and
chunking pipeline and answers hybrid (keyword + similarity) search
queries over the ingested chunks.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupServices,
	PersistentPostRun: teardownServices,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.curator/config.toml)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// setupServices loads configuration and wires the full service graph.
func setupServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	// Tests wire their own services before executing commands.
	if ingestService != nil && searchService != nil {
		return nil
	}

	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	switch cfg.Storage.Backend {
	case "", "memory":
		docStore = memory.NewDocumentStore()
	case "sqlite":
		store, err := sqlite.NewStore(cfg.Storage.DataDir)
		if err != nil {
			return fmt.Errorf("opening store: %w", err)
		}
		docStore = store
	default:
		return fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	registry = fingerprint.NewRegistry()
	engine = retrieval.NewEngine(
		retrieval.WithWeights(cfg.Retrieval.DenseWeight, cfg.Retrieval.SparseWeight),
	)

	triageEngine := fingerprint.NewEngine(registry, triageOptions()...)
	qualityGate := gate.New(gateOptions()...)
	splitter := chunker.New(
		chunker.WithTargetTokens(cfg.Chunker.TargetTokens),
		chunker.WithMaxTokens(cfg.Chunker.MaxTokens),
		chunker.WithWindow(cfg.Chunker.WindowChars, cfg.Chunker.OverlapChars),
		chunker.WithStructureAware(cfg.Chunker.StructureAware),
	)
	enricher := enrichment.NewHeuristic(
		enrichment.WithRateLimit(cfg.Enrich.RatePerSecond, cfg.Enrich.Burst),
	)

	var exporter driven.Exporter
	if cfg.Export.Dir != "" {
		exporter = markdown.NewExporter(cfg.Export.Dir)
	}

	ingestService = services.NewIngester(
		enricher, docStore, registry, triageEngine, qualityGate, splitter, engine,
		services.Options{
			Exporter:      exporter,
			EnrichTimeout: time.Duration(cfg.Enrich.TimeoutSeconds) * time.Second,
			Workers:       cfg.Ingest.Workers,
		},
	)
	searchService = services.NewSearcher(docStore, engine)

	if err := ingestService.Restore(cmd.Context()); err != nil {
		return fmt.Errorf("restoring state: %w", err)
	}
	return nil
}

func teardownServices(_ *cobra.Command, _ []string) {
	if docStore != nil {
		if err := docStore.Close(); err != nil {
			logger.Warn("Closing store: %v", err)
		}
	}
}

// triageOptions translates the config's keyword overrides.
func triageOptions() []fingerprint.Option {
	kw := fingerprint.DefaultKeywords()
	if len(cfg.Triage.JunkKeywords) > 0 {
		kw.Junk = cfg.Triage.JunkKeywords
	}
	if len(cfg.Triage.LifeEventKeywords) > 0 {
		kw.LifeEvent = cfg.Triage.LifeEventKeywords
	}
	if len(cfg.Triage.FinancialKeywords) > 0 {
		kw.Financial = cfg.Triage.FinancialKeywords
	}
	if len(cfg.Triage.DeadlineKeywords) > 0 {
		kw.Deadline = cfg.Triage.DeadlineKeywords
	}

	opts := []fingerprint.Option{fingerprint.WithKeywords(kw)}
	if cfg.Triage.TitleThreshold > 0 {
		opts = append(opts, fingerprint.WithTitleThreshold(cfg.Triage.TitleThreshold))
	}
	return opts
}

// gateOptions translates the config's watchlist and threshold
// overrides.
func gateOptions() []gate.Option {
	opts := []gate.Option{
		gate.WithWatchlist(gate.Watchlist{
			People:   cfg.Gate.Watchlist.People,
			Projects: cfg.Gate.Watchlist.Projects,
			Topics:   cfg.Gate.Watchlist.Topics,
		}),
	}

	if len(cfg.Gate.Thresholds) > 0 {
		overrides := make(map[domain.DocType]gate.Threshold, len(cfg.Gate.Thresholds))
		for name, th := range cfg.Gate.Thresholds {
			overrides[domain.DocType(name)] = gate.Threshold{
				MinQuality: th.MinQuality,
				MinSignal:  th.MinSignal,
			}
		}
		opts = append(opts, gate.WithThresholdOverrides(overrides))
	}
	return opts
}
