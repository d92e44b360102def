package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/curator-cli/internal/core/domain"
)

func TestSearchCmd_Use(t *testing.T) {
	assert.Equal(t, "search [query]", searchCmd.Use)
}

func TestSearchCmd_Short(t *testing.T) {
	assert.Equal(t, "Search indexed chunks", searchCmd.Short)
}

func TestSearchCmd_Long(t *testing.T) {
	assert.Contains(t, searchCmd.Long, "hybrid search")
	assert.Contains(t, searchCmd.Long, "BM25")
}

func TestSearchCmd_RequiresExactlyOneArg(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"search"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestSearchCmd_HasLimitFlag(t *testing.T) {
	flag := searchCmd.Flags().Lookup("limit")
	require.NotNil(t, flag, "limit flag should exist")
	assert.Equal(t, "n", flag.Shorthand)
	assert.Equal(t, "10", flag.DefValue)
}

func TestSearchCmd_ExecutesWithQuery(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", "connection pool"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Results:")
	assert.Contains(t, buf.String(), "rerank")
}

func TestSearchCmd_ExecutesWithLimitFlag(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", "-n", "1", "connection pool"})
	defer func() {
		rootCmd.SetArgs(nil)
		searchLimit = 10
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "[1]")
	assert.NotContains(t, buf.String(), "[2]")
}

func TestSearchCmd_JSONOutput(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", "--json", "connection pool"})
	defer func() {
		rootCmd.SetArgs(nil)
		searchJSON = false
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "\"ChunkID\"")
	assert.Contains(t, buf.String(), "\"RerankScore\"")
}

func TestSearchCmd_EmptyIndexFails(t *testing.T) {
	cleanup := setupTestServicesEmpty()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"search", "anything"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "search failed")
}

func TestOutputSearchJSON_EmptyResults(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)

	err := outputSearchJSON(rootCmd, []domain.ScoredCandidate{})

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "[]")
}

func TestOutputSearchTable_EmptyResults(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)

	err := outputSearchTable(rootCmd, []domain.ScoredCandidate{})

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "No results found")
}

func TestOutputSearchTable_FallsBackToChunkID(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)

	results := []domain.ScoredCandidate{
		{
			ChunkID:     "doc-123:0",
			Content:     "chunk body",
			RerankScore: 0.75,
		},
	}

	err := outputSearchTable(rootCmd, results)

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "doc-123:0")
	assert.Contains(t, buf.String(), "chunk body")
}

func TestSnippetTruncates(t *testing.T) {
	long := "word " + "filler filler filler filler filler filler filler filler " +
		"filler filler filler filler filler filler filler filler filler filler"

	got := snippet(long, 40)

	assert.LessOrEqual(t, len(got), 43)
	assert.Contains(t, got, "...")
}
