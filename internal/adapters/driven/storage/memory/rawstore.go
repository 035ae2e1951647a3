package memory

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"slices"
	"sync"
	"time"

	"github.com/Sandiven/DataVerser/internal/core/domain"
	"github.com/Sandiven/DataVerser/internal/core/ports/driven"
)

// Ensure RawStore implements the interface.
var _ driven.RawStore = (*RawStore)(nil)

type rawEntry struct {
	upload  domain.Upload
	content []byte
}

// RawStore is an in-memory, content-addressed implementation of driven.RawStore.
type RawStore struct {
	mu      sync.RWMutex
	entries map[string]rawEntry
	now     func() time.Time
}

// NewRawStore creates a new in-memory raw store.
func NewRawStore() *RawStore {
	return &RawStore{
		entries: make(map[string]rawEntry),
		now:     time.Now,
	}
}

// Put stores content unless identical bytes already exist.
func (s *RawStore) Put(_ context.Context, filename, sourceID string, content []byte) (*domain.Upload, error) {
	sum := sha256.Sum256(content)
	hash := hex.EncodeToString(sum[:])

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.entries[hash]; ok {
		upload := existing.upload
		upload.AlreadyExists = true
		return &upload, nil
	}
	upload := domain.Upload{
		ContentHash: hash,
		Filename:    filename,
		SourceID:    sourceID,
		Size:        len(content),
		UploadedAt:  s.now().UTC(),
	}
	s.entries[hash] = rawEntry{upload: upload, content: slices.Clone(content)}
	return &upload, nil
}

// Get returns the upload record and bytes for a content hash.
func (s *RawStore) Get(_ context.Context, contentHash string) (*domain.Upload, []byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[contentHash]
	if !ok {
		return nil, nil, domain.ErrNotFound
	}
	upload := entry.upload
	return &upload, slices.Clone(entry.content), nil
}
