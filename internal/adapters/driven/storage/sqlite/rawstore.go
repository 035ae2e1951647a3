package sqlite

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/Sandiven/DataVerser/internal/core/domain"
	"github.com/Sandiven/DataVerser/internal/core/ports/driven"
)

// rawStore implements driven.RawStore over the uploads table.
type rawStore struct {
	store *Store
	now   func() time.Time
}

var _ driven.RawStore = (*rawStore)(nil)

// Put stores content unless identical bytes already exist.
func (s *rawStore) Put(ctx context.Context, filename, sourceID string, content []byte) (*domain.Upload, error) {
	sum := sha256.Sum256(content)
	hash := hex.EncodeToString(sum[:])

	if content == nil {
		content = []byte{}
	}
	res, err := s.store.db.ExecContext(ctx, `
		INSERT INTO uploads (content_hash, filename, source_id, size, content, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(content_hash) DO NOTHING
	`, hash, filename, sourceID, len(content), content, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("saving upload: %w", err)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("saving upload: %w", err)
	}

	upload, _, err := s.get(ctx, hash, false)
	if err != nil {
		return nil, err
	}
	upload.AlreadyExists = inserted == 0
	return upload, nil
}

// Get returns the upload record and bytes for a content hash.
func (s *rawStore) Get(ctx context.Context, contentHash string) (*domain.Upload, []byte, error) {
	return s.get(ctx, contentHash, true)
}

func (s *rawStore) get(ctx context.Context, hash string, withContent bool) (*domain.Upload, []byte, error) {
	query := "SELECT content_hash, filename, source_id, size, uploaded_at, NULL FROM uploads WHERE content_hash = ?"
	if withContent {
		query = "SELECT content_hash, filename, source_id, size, uploaded_at, content FROM uploads WHERE content_hash = ?"
	}

	var upload domain.Upload
	var uploadedAt sql.NullTime
	var content []byte
	err := s.store.db.QueryRowContext(ctx, query, hash).Scan(
		&upload.ContentHash, &upload.Filename, &upload.SourceID, &upload.Size, &uploadedAt, &content)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, fmt.Errorf("scanning upload: %w", err)
	}
	if uploadedAt.Valid {
		upload.UploadedAt = uploadedAt.Time
	}
	if withContent && content == nil {
		content = []byte{}
	}
	return &upload, content, nil
}
