package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/Sandiven/DataVerser/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/Sandiven/DataVerser/internal/core/domain"
	"github.com/Sandiven/DataVerser/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to
// all store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.dataverser/data/dataverser.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".dataverser", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "dataverser.db")

	// WAL for concurrent readers; immediate transactions so a
	// compare-and-append never upgrades a stale read lock.
	db, err := sql.Open("sqlite", dbPath+
		"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// SchemaStore returns a SchemaStore interface backed by this store.
func (s *Store) SchemaStore() driven.SchemaStore {
	return &schemaStore{store: s}
}

// RawStore returns a RawStore interface backed by this store.
func (s *Store) RawStore() driven.RawStore {
	return &rawStore{store: s, now: time.Now}
}

// AuditSink returns an AuditSink interface backed by this store.
func (s *Store) AuditSink() driven.AuditSink {
	return &auditSink{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Schema Store ====================

// schemaStore implements driven.SchemaStore.
type schemaStore struct {
	store *Store
}

var _ driven.SchemaStore = (*schemaStore)(nil)

const selectVersion = `
	SELECT source_id, version, schema_json, diff_json, migration_notes, created_at
	FROM schema_versions`

// GetLatest returns the highest version for a source.
func (s *schemaStore) GetLatest(ctx context.Context, sourceID string) (*domain.SchemaVersion, error) {
	row := s.store.db.QueryRowContext(ctx, selectVersion+`
		WHERE source_id = ? ORDER BY version DESC LIMIT 1
	`, sourceID)
	return scanVersion(row)
}

// AppendIfLatestIs appends v when the latest version equals expectedVersion.
func (s *schemaStore) AppendIfLatestIs(
	ctx context.Context, sourceID string, expectedVersion int, v domain.SchemaVersion,
) error {
	if v.Version != expectedVersion+1 {
		return domain.ErrVersionConflict
	}

	schemaJSON, err := json.Marshal(v.Schema)
	if err != nil {
		return fmt.Errorf("marshalling schema: %w", err)
	}
	diffJSON, err := json.Marshal(v.Diff)
	if err != nil {
		return fmt.Errorf("marshalling diff: %w", err)
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	var latest int
	if err := tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(version), 0) FROM schema_versions WHERE source_id = ?", sourceID,
	).Scan(&latest); err != nil {
		return fmt.Errorf("reading latest version: %w", err)
	}
	if latest != expectedVersion {
		return domain.ErrVersionConflict
	}

	createdAt := v.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO schema_versions (source_id, version, schema_json, diff_json, migration_notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, sourceID, v.Version, string(schemaJSON), string(diffJSON), v.MigrationNotes, createdAt.UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrVersionConflict
		}
		return fmt.Errorf("inserting schema version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing schema version: %w", err)
	}
	return nil
}

// ListHistory returns all versions for a source in ascending order.
func (s *schemaStore) ListHistory(ctx context.Context, sourceID string) ([]domain.SchemaVersion, error) {
	rows, err := s.store.db.QueryContext(ctx, selectVersion+`
		WHERE source_id = ? ORDER BY version ASC
	`, sourceID)
	if err != nil {
		return nil, fmt.Errorf("querying schema versions: %w", err)
	}
	defer rows.Close()

	versions := []domain.SchemaVersion{}
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, err
		}
		versions = append(versions, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating schema versions: %w", err)
	}
	return versions, nil
}

// GetVersion returns one version.
func (s *schemaStore) GetVersion(ctx context.Context, sourceID string, version int) (*domain.SchemaVersion, error) {
	row := s.store.db.QueryRowContext(ctx, selectVersion+`
		WHERE source_id = ? AND version = ?
	`, sourceID, version)
	return scanVersion(row)
}

// ListSources returns every source with at least one version, sorted.
func (s *schemaStore) ListSources(ctx context.Context) ([]string, error) {
	rows, err := s.store.db.QueryContext(ctx,
		"SELECT DISTINCT source_id FROM schema_versions ORDER BY source_id")
	if err != nil {
		return nil, fmt.Errorf("querying sources: %w", err)
	}
	defer rows.Close()

	sources := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning source: %w", err)
		}
		sources = append(sources, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sources: %w", err)
	}
	return sources, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanVersion(row scanner) (*domain.SchemaVersion, error) {
	var v domain.SchemaVersion
	var schemaJSON, diffJSON string
	var createdAt sql.NullTime
	if err := row.Scan(&v.SourceID, &v.Version, &schemaJSON, &diffJSON, &v.MigrationNotes, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning schema version: %w", err)
	}

	if err := json.Unmarshal([]byte(schemaJSON), &v.Schema); err != nil {
		return nil, fmt.Errorf("unmarshaling schema: %w", err)
	}
	if err := json.Unmarshal([]byte(diffJSON), &v.Diff); err != nil {
		return nil, fmt.Errorf("unmarshaling diff: %w", err)
	}
	if createdAt.Valid {
		v.CreatedAt = createdAt.Time
	}
	return &v, nil
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
