package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sandiven/DataVerser/internal/core/domain"
	"github.com/Sandiven/DataVerser/internal/core/ports/driving"
)

type mockIngestService struct {
	mu       sync.Mutex
	requests []driving.IngestRequest
	err      error
}

func (m *mockIngestService) Ingest(_ context.Context, req driving.IngestRequest) (*driving.IngestResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	return &driving.IngestResult{
		SourceID: req.SourceID,
		Version:  &domain.SchemaVersion{SourceID: req.SourceID, Version: 1},
	}, nil
}

func (m *mockIngestService) Extract(_ context.Context, _ string, _ []byte) (*driving.Extraction, error) {
	return nil, domain.ErrNotImplemented
}

func (m *mockIngestService) Infer(_ context.Context, _ string, _ []byte) (*domain.Schema, error) {
	return nil, domain.ErrNotImplemented
}

func (m *mockIngestService) Logs(_ context.Context, _ string, _ int) ([]domain.AuditEvent, error) {
	return nil, domain.ErrNotImplemented
}

func (m *mockIngestService) Stats(_ context.Context, _ string) (*domain.IngestStats, error) {
	return nil, domain.ErrNotImplemented
}

func TestWatcher_handleFsEvent(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "orders.csv")
	require.NoError(t, os.WriteFile(file, []byte("id,name\n1,a\n"), 0o644))
	hidden := filepath.Join(dir, ".orders.csv.swp")
	require.NoError(t, os.WriteFile(hidden, []byte("x"), 0o644))
	sub := filepath.Join(dir, "nested")
	require.NoError(t, os.Mkdir(sub, 0o755))

	w := New(&mockIngestService{}, dir, Options{})

	tests := []struct {
		name string
		path string
		op   fsnotify.Op
		want string
	}{
		{name: "create file", path: file, op: fsnotify.Create, want: file},
		{name: "write file", path: file, op: fsnotify.Write, want: file},
		{name: "write and chmod", path: file, op: fsnotify.Write | fsnotify.Chmod, want: file},
		{name: "chmod only", path: file, op: fsnotify.Chmod},
		{name: "remove", path: filepath.Join(dir, "gone.csv"), op: fsnotify.Remove},
		{name: "rename", path: file, op: fsnotify.Rename},
		{name: "hidden file", path: hidden, op: fsnotify.Create},
		{name: "directory", path: sub, op: fsnotify.Create},
		{name: "vanished file", path: filepath.Join(dir, "tmp.csv"), op: fsnotify.Create},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := w.handleFsEvent(fsnotify.Event{Name: tt.path, Op: tt.op})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWatcher_process(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	file := filepath.Join(dir, "orders.csv")
	require.NoError(t, os.WriteFile(file, []byte("id,name\n1,a\n"), 0o644))

	t.Run("source defaults to file name", func(t *testing.T) {
		ingest := &mockIngestService{}
		res := New(ingest, dir, Options{}).process(ctx, file)

		require.NoError(t, res.Err)
		require.Len(t, ingest.requests, 1)
		assert.Equal(t, "orders.csv", ingest.requests[0].SourceID)
		assert.Equal(t, "orders.csv", ingest.requests[0].Filename)
		assert.Equal(t, "id,name\n1,a\n", string(ingest.requests[0].Content))
	})

	t.Run("source override", func(t *testing.T) {
		ingest := &mockIngestService{}
		res := New(ingest, dir, Options{SourceID: "orders"}).process(ctx, file)

		require.NoError(t, res.Err)
		assert.Equal(t, "orders", ingest.requests[0].SourceID)
		assert.Equal(t, "orders", res.Result.SourceID)
	})

	t.Run("binary files are skipped", func(t *testing.T) {
		bin := filepath.Join(dir, "blob.dat")
		require.NoError(t, os.WriteFile(bin, []byte{0x00, 0x01, 0x02}, 0o644))
		ingest := &mockIngestService{}

		res := New(ingest, dir, Options{}).process(ctx, bin)

		assert.Error(t, res.Err)
		assert.Empty(t, ingest.requests)
	})

	t.Run("ingest failure is reported", func(t *testing.T) {
		ingest := &mockIngestService{err: errors.New("boom")}
		res := New(ingest, dir, Options{}).process(ctx, file)
		assert.EqualError(t, res.Err, "boom")
	})
}

func TestWatcher_Run(t *testing.T) {
	t.Run("ingests new files", func(t *testing.T) {
		dir := t.TempDir()
		ingest := &mockIngestService{}
		w := New(ingest, dir, Options{SourceID: "inbox", Interval: time.Millisecond})

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		results := make(chan Result, 16)
		done := make(chan error, 1)
		go func() { done <- w.Run(ctx, results) }()

		// Give the watcher time to register.
		time.Sleep(100 * time.Millisecond)
		file := filepath.Join(dir, "new.csv")
		require.NoError(t, os.WriteFile(file, []byte("id,name\n1,a\n"), 0o644))

		select {
		case res := <-results:
			assert.Equal(t, file, res.Path)
			require.NoError(t, res.Err)
			assert.Equal(t, "inbox", res.Result.SourceID)
		case <-time.After(2 * time.Second):
			t.Fatal("timeout waiting for ingestion")
		}

		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("watcher did not stop")
		}
	})

	t.Run("missing directory", func(t *testing.T) {
		w := New(&mockIngestService{}, filepath.Join(t.TempDir(), "missing"), Options{})
		err := w.Run(context.Background(), make(chan Result))
		assert.Error(t, err)
	})

	t.Run("not a directory", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file.txt")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
		err := New(&mockIngestService{}, file, Options{}).Run(context.Background(), make(chan Result))
		assert.Error(t, err)
	})

	t.Run("nil service", func(t *testing.T) {
		err := New(nil, t.TempDir(), Options{}).Run(context.Background(), make(chan Result))
		assert.EqualError(t, err, "ingest service not configured")
	})
}
