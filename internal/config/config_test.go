package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesMergeWithDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[storage]
backend = "sqlite"

[retrieval]
dense_weight = 0.5
sparse_weight = 0.5

[gate.thresholds.legal]
min_quality = 0.9
min_signal = 0.8

[gate.watchlist]
people = ["Anna Schmidt"]

[triage]
junk_keywords = ["spam"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, 0.5, cfg.Retrieval.DenseWeight)
	assert.Equal(t, 0.5, cfg.Retrieval.SparseWeight)
	assert.Equal(t, 0.9, cfg.Gate.Thresholds["legal"].MinQuality)
	assert.Equal(t, []string{"Anna Schmidt"}, cfg.Gate.Watchlist.People)
	assert.Equal(t, []string{"spam"}, cfg.Triage.JunkKeywords)

	// Untouched sections keep the compiled defaults.
	assert.Equal(t, 4, cfg.Ingest.Workers)
	assert.Equal(t, 250, cfg.Chunker.TargetTokens)
	assert.True(t, cfg.Chunker.StructureAware)
}

func TestLoadInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("storage = ["), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}
