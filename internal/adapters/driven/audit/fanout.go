package audit

import (
	"context"
	"errors"

	"github.com/Sandiven/DataVerser/internal/core/domain"
	"github.com/Sandiven/DataVerser/internal/core/ports/driven"
)

// Ensure Fanout implements the interface.
var _ driven.AuditSink = (*Fanout)(nil)

// Fanout records every event in all sinks and lists from the primary one.
type Fanout struct {
	primary driven.AuditSink
	others  []driven.AuditSink
}

// NewFanout creates a fan-out sink. Nil sinks are skipped.
func NewFanout(primary driven.AuditSink, others ...driven.AuditSink) *Fanout {
	f := &Fanout{primary: primary}
	for _, s := range others {
		if s != nil {
			f.others = append(f.others, s)
		}
	}
	return f
}

// Record sends the event to every sink, even after a failure, and joins
// the errors.
func (f *Fanout) Record(ctx context.Context, event domain.AuditEvent) error {
	var errs []error
	if f.primary != nil {
		errs = append(errs, f.primary.Record(ctx, event))
	}
	for _, s := range f.others {
		errs = append(errs, s.Record(ctx, event))
	}
	return errors.Join(errs...)
}

// List returns events from the primary sink.
func (f *Fanout) List(ctx context.Context, sourceID string, limit int) ([]domain.AuditEvent, error) {
	if f.primary == nil {
		return nil, domain.ErrNotImplemented
	}
	return f.primary.List(ctx, sourceID, limit)
}
