// Package sqlite provides a SQLite-backed document store so ingested
// chunks survive process restarts.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/curator-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.DocumentStore = (*Store)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS chunk_records (
	id TEXT PRIMARY KEY,
	content TEXT NOT NULL,
	metadata TEXT NOT NULL DEFAULT '{}'
);
`

// Store is a SQLite-based implementation of driven.DocumentStore.
// Similarity ranking is computed in Go over the loaded rows; the
// corpus a single curator instance manages fits comfortably in memory.
type Store struct {
	db   *sql.DB
	path string

	mu sync.Mutex // serialises Add transactions
}

// NewStore opens (or creates) the store under dataDir. If dataDir is
// empty it defaults to ~/.curator/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".curator", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "curator.db")

	// WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db, path: dbPath}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Add stores records in one transaction. Existing IDs are overwritten.
func (s *Store) Add(ctx context.Context, ids []string, contents []string, metadatas []map[string]string) error {
	if len(ids) != len(contents) || len(ids) != len(metadatas) {
		return fmt.Errorf("add: mismatched slice lengths %d/%d/%d", len(ids), len(contents), len(metadatas))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunk_records (id, content, metadata)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			content = excluded.content,
			metadata = excluded.metadata
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i, id := range ids {
		metadataJSON, err := json.Marshal(metadatas[i])
		if err != nil {
			return fmt.Errorf("marshalling metadata: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, id, contents[i], string(metadataJSON)); err != nil {
			return fmt.Errorf("saving record %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Query loads all records and ranks them by token overlap with the
// query text.
func (s *Store) Query(ctx context.Context, queryText string, topK int) ([]driven.StoreHit, error) {
	queryTokens := tokenSet(queryText)
	if len(queryTokens) == 0 {
		return nil, nil
	}

	records, err := s.Get(ctx, nil)
	if err != nil {
		return nil, err
	}

	hits := make([]driven.StoreHit, 0, topK)
	for _, rec := range records {
		sim := overlapSimilarity(queryTokens, tokenSet(rec.Content))
		if sim > 0 {
			hits = append(hits, driven.StoreHit{
				ID:         rec.ID,
				Content:    rec.Content,
				Metadata:   rec.Metadata,
				Similarity: sim,
			})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Similarity > hits[j].Similarity
	})
	if topK > 0 && len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}

// Get returns records whose metadata matches every filter entry.
func (s *Store) Get(ctx context.Context, filter map[string]string) ([]driven.StoreRecord, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, content, metadata FROM chunk_records")
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var records []driven.StoreRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		var rec driven.StoreRecord
		var metadataJSON string
		if err := rows.Scan(&rec.ID, &rec.Content, &metadataJSON); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		if err := json.Unmarshal([]byte(metadataJSON), &rec.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshaling metadata: %w", err)
		}
		if matchesFilter(rec.Metadata, filter) {
			records = append(records, rec)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}
	return records, nil
}

func matchesFilter(metadata, filter map[string]string) bool {
	for k, v := range filter {
		if metadata[k] != v {
			return false
		}
	}
	return true
}

func tokenSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, f := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9') && r < 0x80
	}) {
		if len(f) >= 2 {
			set[f] = true
		}
	}
	return set
}

func overlapSimilarity(query, doc map[string]bool) float64 {
	if len(query) == 0 {
		return 0
	}
	matched := 0
	for t := range query {
		if doc[t] {
			matched++
		}
	}
	return float64(matched) / float64(len(query))
}
