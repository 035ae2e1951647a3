package audit

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/Sandiven/DataVerser/internal/core/domain"
	"github.com/Sandiven/DataVerser/internal/core/ports/driven"
)

// Ensure LogSink implements the interface.
var _ driven.AuditSink = (*LogSink)(nil)

// LogSink writes each event as one JSON line. It cannot list events.
type LogSink struct {
	log *logrus.Logger
}

// NewLogSink creates a sink writing to w.
func NewLogSink(w io.Writer) *LogSink {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyMsg: "message",
		},
	})
	return &LogSink{log: l}
}

// Record writes the event. Failed ingestions are logged at warning level.
func (s *LogSink) Record(_ context.Context, event domain.AuditEvent) error {
	entry := s.log.WithFields(logrus.Fields{
		"event_id":       event.ID,
		"source_id":      event.SourceID,
		"filename":       event.Filename,
		"content_hash":   event.ContentHash,
		"schema_version": event.SchemaVersion,
		"record_count":   event.RecordCount,
		"fragments":      event.FragmentSummary,
		"cleaning":       event.CleaningStats,
		"status":         string(event.Status),
	})
	if !event.Timestamp.IsZero() {
		entry = entry.WithTime(event.Timestamp)
	}

	if event.Status == domain.AuditFailed {
		entry.Warn(event.Message)
	} else {
		entry.Info(event.Message)
	}
	return nil
}

// List is not supported by a write-only log.
func (s *LogSink) List(context.Context, string, int) ([]domain.AuditEvent, error) {
	return nil, domain.ErrNotImplemented
}
