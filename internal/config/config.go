// Package config loads the curator configuration from a TOML file.
// Keyword lists, thresholds and watchlists are configuration data, not
// code; compiled defaults apply when no file exists and file values
// override field by field.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config is the full curator configuration.
type Config struct {
	Storage   StorageConfig   `toml:"storage"`
	Ingest    IngestConfig    `toml:"ingest"`
	Enrich    EnrichConfig    `toml:"enrich"`
	Chunker   ChunkerConfig   `toml:"chunker"`
	Retrieval RetrievalConfig `toml:"retrieval"`
	Gate      GateConfig      `toml:"gate"`
	Triage    TriageConfig    `toml:"triage"`
	Export    ExportConfig    `toml:"export"`
}

// StorageConfig selects and locates the document store backend.
type StorageConfig struct {
	// Backend is "memory" or "sqlite".
	Backend string `toml:"backend"`

	// DataDir holds the sqlite database. Empty means ~/.curator/data.
	DataDir string `toml:"data_dir"`
}

// IngestConfig tunes the ingestion worker pool.
type IngestConfig struct {
	Workers int `toml:"workers"`
}

// EnrichConfig bounds the enrichment collaborator.
type EnrichConfig struct {
	TimeoutSeconds int     `toml:"timeout_seconds"`
	RatePerSecond  float64 `toml:"rate_per_second"`
	Burst          int     `toml:"burst"`
}

// ChunkerConfig tunes chunk sizing.
type ChunkerConfig struct {
	TargetTokens   int  `toml:"target_tokens"`
	MaxTokens      int  `toml:"max_tokens"`
	WindowChars    int  `toml:"window_chars"`
	OverlapChars   int  `toml:"overlap_chars"`
	StructureAware bool `toml:"structure_aware"`
}

// RetrievalConfig tunes score fusion.
type RetrievalConfig struct {
	DenseWeight  float64 `toml:"dense_weight"`
	SparseWeight float64 `toml:"sparse_weight"`
}

// GateConfig carries per-doc-type threshold overrides and the
// actionability watchlist.
type GateConfig struct {
	// Thresholds maps a doc type name to its override.
	Thresholds map[string]ThresholdConfig `toml:"thresholds"`

	Watchlist WatchlistConfig `toml:"watchlist"`
}

// ThresholdConfig is one doc type's gate thresholds.
type ThresholdConfig struct {
	MinQuality float64 `toml:"min_quality"`
	MinSignal  float64 `toml:"min_signal"`
}

// WatchlistConfig lists the names that raise actionability.
type WatchlistConfig struct {
	People   []string `toml:"people"`
	Projects []string `toml:"projects"`
	Topics   []string `toml:"topics"`
}

// TriageConfig overrides the triage keyword lists. Empty lists keep
// the compiled defaults.
type TriageConfig struct {
	JunkKeywords      []string `toml:"junk_keywords"`
	LifeEventKeywords []string `toml:"life_event_keywords"`
	FinancialKeywords []string `toml:"financial_keywords"`
	DeadlineKeywords  []string `toml:"deadline_keywords"`

	// TitleThreshold overrides the duplicate title-similarity cutoff.
	TitleThreshold float64 `toml:"title_threshold"`
}

// ExportConfig enables the markdown-note exporter.
type ExportConfig struct {
	// Dir is the note output directory. Empty disables export.
	Dir string `toml:"dir"`
}

// Default returns the compiled-in configuration.
func Default() Config {
	return Config{
		Storage: StorageConfig{Backend: "memory"},
		Ingest:  IngestConfig{Workers: 4},
		Enrich:  EnrichConfig{TimeoutSeconds: 30, RatePerSecond: 100, Burst: 100},
		Chunker: ChunkerConfig{
			TargetTokens:   250,
			MaxTokens:      500,
			WindowChars:    1200,
			OverlapChars:   200,
			StructureAware: true,
		},
		Retrieval: RetrievalConfig{DenseWeight: 0.7, SparseWeight: 0.3},
	}
}

// DefaultPath returns ~/.curator/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".curator", "config.toml"), nil
}

// Load reads the config file at path, applying it over the defaults.
// A missing file is not an error; the defaults apply unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return cfg, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}
