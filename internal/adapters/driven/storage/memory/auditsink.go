package memory

import (
	"context"
	"sync"

	"github.com/Sandiven/DataVerser/internal/core/domain"
	"github.com/Sandiven/DataVerser/internal/core/ports/driven"
)

// Ensure AuditSink implements the interface.
var _ driven.AuditSink = (*AuditSink)(nil)

// AuditSink is an in-memory implementation of driven.AuditSink.
type AuditSink struct {
	mu     sync.RWMutex
	events []domain.AuditEvent
}

// NewAuditSink creates a new in-memory audit sink.
func NewAuditSink() *AuditSink {
	return &AuditSink{}
}

// Record stores an event.
func (s *AuditSink) Record(_ context.Context, event domain.AuditEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// List returns the newest events first, optionally for one source.
func (s *AuditSink) List(_ context.Context, sourceID string, limit int) ([]domain.AuditEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.AuditEvent, 0)
	for i := len(s.events) - 1; i >= 0; i-- {
		if sourceID != "" && s.events[i].SourceID != sourceID {
			continue
		}
		result = append(result, s.events[i])
		if limit > 0 && len(result) == limit {
			break
		}
	}
	return result, nil
}
