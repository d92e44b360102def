package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/curator-cli/internal/logger"
)

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Watch a directory and ingest new files",
	Long: `Watches a directory and runs every created or modified .md/.txt
file through the ingestion pipeline. Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir := args[0]
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Watching %s (ctrl-c to stop)\n", dir)

	for {
		select {
		case <-ctx.Done():
			cmd.Println("Stopped.")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !ingestableFile(event.Name) {
				continue
			}
			ingestWatched(ctx, cmd, event.Name)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// ingestWatched ingests one file event. Failures are reported and the
// watch continues.
func ingestWatched(ctx context.Context, cmd *cobra.Command, path string) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}

	doc, err := readDocument(path, info.ModTime())
	if err != nil {
		logger.Warn("Reading %s: %v", path, err)
		return
	}

	res, err := ingestService.Ingest(ctx, doc)
	if err != nil {
		logger.Warn("Ingesting %s: %v", path, err)
		return
	}
	cmd.Printf("  %-40s %s\n", res.Filename, res.Status)
}
