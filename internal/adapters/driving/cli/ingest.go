package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/curator-cli/internal/core/domain"
	"github.com/custodia-labs/curator-cli/internal/core/ports/driving"
)

var (
	ingestDocType string
	ingestDomain  string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [path...]",
	Short: "Ingest documents into the index",
	Long: `Runs each file through the ingestion pipeline: triage, enrichment,
quality gate, chunking, storage. Directories are walked recursively;
only .md and .txt files are picked up.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestDocType, "type", "", "document type label (email, legal, chat, ...)")
	ingestCmd.Flags().StringVar(&ingestDomain, "domain", "", "subject domain (legal, health, technology, ...)")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	docs, err := collectDocuments(args)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return fmt.Errorf("no ingestable files under %s", strings.Join(args, ", "))
	}

	results, err := ingestService.IngestBatch(cmd.Context(), docs)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	printIngestReport(cmd, results)
	return nil
}

// collectDocuments reads the given files and directories into raw
// documents.
func collectDocuments(paths []string) ([]domain.RawDocument, error) {
	var docs []domain.RawDocument

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}

		if !info.IsDir() {
			doc, err := readDocument(path, info.ModTime())
			if err != nil {
				return nil, err
			}
			docs = append(docs, doc)
			continue
		}

		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !ingestableFile(p) {
				return nil
			}
			fi, err := d.Info()
			if err != nil {
				return err
			}
			doc, err := readDocument(p, fi.ModTime())
			if err != nil {
				return err
			}
			docs = append(docs, doc)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", path, err)
		}
	}
	return docs, nil
}

func ingestableFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".txt", ".markdown":
		return true
	default:
		return false
	}
}

func readDocument(path string, modTime time.Time) (domain.RawDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.RawDocument{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return domain.RawDocument{
		Filename:  filepath.Base(path),
		DocType:   ingestDocType,
		Domain:    ingestDomain,
		Content:   string(data),
		CreatedAt: modTime,
	}, nil
}

// printIngestReport summarises per-document statuses and totals.
func printIngestReport(cmd *cobra.Command, results []driving.IngestResult) {
	var completed, gated, failed int

	for _, res := range results {
		switch {
		case res.Completed():
			completed++
		case strings.HasPrefix(res.Status, "gated:"):
			gated++
		default:
			failed++
		}

		line := fmt.Sprintf("  %-40s %s", res.Filename, res.Status)
		if res.Stored != nil {
			line += fmt.Sprintf(" (%d chunks)", res.Stored.ChunkCount)
		}
		cmd.Println(line)

		if verbose && len(res.StageTimings) > 0 {
			for stage, d := range res.StageTimings {
				cmd.Printf("      %-10s %s\n", stage, d.Round(time.Microsecond))
			}
		}
	}

	cmd.Println()
	cmd.Printf("%d completed, %d gated, %d failed (%d total)\n",
		completed, gated, failed, len(results))
}
