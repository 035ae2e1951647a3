package driven

import (
	"context"

	"github.com/Sandiven/DataVerser/internal/core/domain"
)

// RawStore keeps uploaded bytes, deduplicated by content hash.
type RawStore interface {
	// Put stores content unless identical bytes already exist.
	// The returned Upload has AlreadyExists set on deduplication.
	Put(ctx context.Context, filename, sourceID string, content []byte) (*domain.Upload, error)

	// Get returns the upload record and bytes for a content hash.
	// Returns domain.ErrNotFound if the hash is unknown.
	Get(ctx context.Context, contentHash string) (*domain.Upload, []byte, error)
}
