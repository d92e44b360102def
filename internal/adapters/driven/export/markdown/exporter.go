// Package markdown exports stored documents as markdown notes with
// YAML front-matter, suitable for an Obsidian-style vault.
package markdown

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/custodia-labs/curator-cli/internal/core/domain"
	"github.com/custodia-labs/curator-cli/internal/core/ports/driven"
)

// Ensure Exporter implements the interface.
var _ driven.Exporter = (*Exporter)(nil)

var unsafeFilenameRe = regexp.MustCompile(`[^a-zA-Z0-9äöüÄÖÜß _.-]`)

// Exporter writes one note per stored document into a directory.
type Exporter struct {
	dir string
}

// NewExporter creates the exporter. The directory is created on the
// first export, not here, so constructing the exporter never fails.
func NewExporter(dir string) *Exporter {
	return &Exporter{dir: dir}
}

// Export writes the note. Existing notes for the same document are
// overwritten.
func (e *Exporter) Export(_ context.Context, stored domain.StoredDocument, enriched domain.EnrichedDocument) error {
	if err := os.MkdirAll(e.dir, 0700); err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}

	name := noteFilename(enriched.Enrichment.Title, stored.DocID)
	path := filepath.Join(e.dir, name)

	note := renderNote(stored, enriched)
	if err := os.WriteFile(path, []byte(note), 0600); err != nil {
		return fmt.Errorf("writing note %s: %w", name, err)
	}
	return nil
}

// noteFilename derives a filesystem-safe name from the title, falling
// back to the document ID.
func noteFilename(title, docID string) string {
	base := strings.TrimSpace(title)
	if base == "" {
		base = docID
	}
	base = unsafeFilenameRe.ReplaceAllString(base, "")
	base = strings.TrimSpace(base)
	if base == "" {
		base = docID
	}
	if len(base) > 100 {
		base = base[:100]
	}
	return base + ".md"
}

func renderNote(stored domain.StoredDocument, enriched domain.EnrichedDocument) string {
	var sb strings.Builder
	ent := enriched.Enrichment.Entities

	sb.WriteString("---\n")
	fmt.Fprintf(&sb, "doc_id: %s\n", stored.DocID)
	writeListField(&sb, "people", ent.People)
	writeListField(&sb, "organizations", ent.Organizations)
	writeListField(&sb, "locations", ent.Locations)
	writeListField(&sb, "technologies", ent.Technologies)
	writeListField(&sb, "tags", enriched.Enrichment.Tags)
	writeListField(&sb, "dates", ent.Dates)
	fmt.Fprintf(&sb, "domain: %s\n", enriched.Enrichment.Domain)
	fmt.Fprintf(&sb, "chunks: %d\n", stored.ChunkCount)
	sb.WriteString("---\n\n")

	fmt.Fprintf(&sb, "# %s\n\n", enriched.Enrichment.Title)
	if enriched.Enrichment.Summary != "" {
		sb.WriteString(enriched.Enrichment.Summary)
		sb.WriteString("\n\n")
	}
	sb.WriteString(enriched.Raw.Content)
	sb.WriteString("\n")
	return sb.String()
}

func writeListField(sb *strings.Builder, key string, values []string) {
	if len(values) == 0 {
		return
	}
	fmt.Fprintf(sb, "%s:\n", key)
	for _, v := range values {
		fmt.Fprintf(sb, "  - %q\n", v)
	}
}
