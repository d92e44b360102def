package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/curator-cli/internal/core/domain"
)

var (
	searchLimit      int
	searchJSON       bool
	searchSparseOnly bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed chunks",
	Long: `Performs hybrid search over the ingested chunks.
Combines keyword (BM25) and store-similarity scores, then reranks the
fused candidates.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().BoolVar(&searchSparseOnly, "sparse-only", false, "skip the store similarity query")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	opts := domain.SearchOptions{
		Limit:      searchLimit,
		SparseOnly: searchSparseOnly,
	}

	results, err := searchService.Search(cmd.Context(), args[0], opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}
	return outputSearchTable(cmd, results)
}

func outputSearchJSON(cmd *cobra.Command, results []domain.ScoredCandidate) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.ScoredCandidate) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i, res := range results {
		title := res.Metadata["title"]
		if title == "" {
			title = res.ChunkID
		}
		cmd.Printf("[%d] %s (rerank %.3f, fused %.3f)\n", i+1, title, res.RerankScore, res.FusedScore)
		if section := res.Metadata["section_title"]; section != "" {
			cmd.Printf("    section: %s\n", section)
		}
		cmd.Printf("    %s\n\n", snippet(res.Content, 160))
	}
	return nil
}

// snippet flattens whitespace and truncates for table display.
func snippet(content string, max int) string {
	flat := strings.Join(strings.Fields(content), " ")
	if len(flat) > max {
		flat = flat[:max] + "..."
	}
	return flat
}
