// Package badger provides a content-addressed raw upload store on Badger.
package badger

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/timshannon/badgerhold/v4"

	"github.com/Sandiven/DataVerser/internal/core/domain"
	"github.com/Sandiven/DataVerser/internal/core/ports/driven"
	"github.com/Sandiven/DataVerser/internal/logger"
)

// Ensure RawStore implements the interface.
var _ driven.RawStore = (*RawStore)(nil)

// rawRecord is the stored form of one upload, keyed by content hash.
type rawRecord struct {
	ContentHash string
	Filename    string
	SourceID    string
	Size        int
	Content     []byte
	UploadedAt  time.Time
}

func (r rawRecord) upload() *domain.Upload {
	return &domain.Upload{
		ContentHash: r.ContentHash,
		Filename:    r.Filename,
		SourceID:    r.SourceID,
		Size:        r.Size,
		UploadedAt:  r.UploadedAt,
	}
}

// RawStore keeps uploads in a badgerhold store.
type RawStore struct {
	store *badgerhold.Store
	path  string
	now   func() time.Time
}

// NewRawStore opens (or creates) the store under dataDir/raw.
// If dataDir is empty, defaults to ~/.dataverser/data.
func NewRawStore(dataDir string) (*RawStore, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".dataverser", "data")
	}
	path := filepath.Join(dataDir, "raw")
	if err := os.MkdirAll(path, 0700); err != nil {
		return nil, fmt.Errorf("creating raw store directory: %w", err)
	}

	options := badgerhold.DefaultOptions
	options.Options = badgerdb.DefaultOptions(path).
		WithLogger(logger.WithFields(map[string]any{"component": "badger"}))

	store, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("opening badger store: %w", err)
	}
	logger.Debug("raw store opened at %s", path)

	return &RawStore{store: store, path: path, now: time.Now}, nil
}

// Close closes the underlying database.
func (s *RawStore) Close() error {
	return s.store.Close()
}

// Path returns the database directory.
func (s *RawStore) Path() string {
	return s.path
}

// Put stores content unless identical bytes already exist.
func (s *RawStore) Put(ctx context.Context, filename, sourceID string, content []byte) (*domain.Upload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sum := sha256.Sum256(content)
	hash := hex.EncodeToString(sum[:])

	record := rawRecord{
		ContentHash: hash,
		Filename:    filename,
		SourceID:    sourceID,
		Size:        len(content),
		Content:     content,
		UploadedAt:  s.now().UTC(),
	}
	err := s.store.Insert(hash, &record)
	switch {
	case err == nil:
		return record.upload(), nil
	case errors.Is(err, badgerhold.ErrKeyExists), errors.Is(err, badgerdb.ErrConflict):
		// Stored earlier, or by a concurrent writer of the same bytes.
		existing, _, err := s.Get(ctx, hash)
		if err != nil {
			return nil, err
		}
		existing.AlreadyExists = true
		return existing, nil
	default:
		return nil, fmt.Errorf("saving upload: %w", err)
	}
}

// Get returns the upload record and bytes for a content hash.
func (s *RawStore) Get(ctx context.Context, contentHash string) (*domain.Upload, []byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	var record rawRecord
	if err := s.store.Get(contentHash, &record); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, fmt.Errorf("getting upload: %w", err)
	}
	content := record.Content
	if content == nil {
		content = []byte{}
	}
	return record.upload(), content, nil
}
