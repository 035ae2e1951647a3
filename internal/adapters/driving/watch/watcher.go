// Package watch ingests files as they appear in a directory.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/Sandiven/DataVerser/internal/core/ports/driving"
	"github.com/Sandiven/DataVerser/internal/extract"
	"github.com/Sandiven/DataVerser/internal/logger"
)

// Default rate limits for ingestion.
const (
	DefaultInterval = 200 * time.Millisecond
	DefaultBurst    = 5
)

// Result reports the outcome of ingesting one file.
type Result struct {
	Path   string
	Result *driving.IngestResult
	Err    error
}

// Options configures a Watcher.
type Options struct {
	// SourceID overrides the per-file source id. Empty uses the file name.
	SourceID string

	// Interval is the minimum spacing between ingestions once the burst is spent.
	Interval time.Duration

	// Burst is the number of ingestions allowed back to back.
	Burst int
}

// Watcher ingests every regular file created or written in a directory.
// Events are processed one at a time.
type Watcher struct {
	ingest   driving.IngestService
	dir      string
	sourceID string
	limiter  *rate.Limiter
}

// New creates a watcher for dir.
func New(ingest driving.IngestService, dir string, opts Options) *Watcher {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Burst <= 0 {
		opts.Burst = DefaultBurst
	}
	return &Watcher{
		ingest:   ingest,
		dir:      dir,
		sourceID: opts.SourceID,
		limiter:  rate.NewLimiter(rate.Every(opts.Interval), opts.Burst),
	}
}

// Run watches the directory until ctx is cancelled, sending one Result per
// ingested file to results. The results channel is not closed.
func (w *Watcher) Run(ctx context.Context, results chan<- Result) error {
	if w.ingest == nil {
		return errors.New("ingest service not configured")
	}

	info, err := os.Stat(w.dir)
	if err != nil {
		return fmt.Errorf("stat %s: %w", w.dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", w.dir)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	logger.Info("watching %s", w.dir)

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			path := w.handleFsEvent(event)
			if path == "" {
				continue
			}
			if err := w.limiter.Wait(ctx); err != nil {
				return nil
			}
			res := w.process(ctx, path)
			select {
			case results <- res:
			case <-ctx.Done():
				return nil
			}
		}
	}
}

// handleFsEvent returns the path to ingest for an event, or "" to skip it.
func (w *Watcher) handleFsEvent(event fsnotify.Event) string {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return ""
	}
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return ""
	}
	info, err := os.Stat(event.Name)
	if err != nil || !info.Mode().IsRegular() {
		return ""
	}
	return event.Name
}

func (w *Watcher) process(ctx context.Context, path string) Result {
	content, err := os.ReadFile(path)
	if err != nil {
		return Result{Path: path, Err: fmt.Errorf("read %s: %w", path, err)}
	}

	name := filepath.Base(path)
	if !extract.Supported(name, content) {
		logger.Debug("skipping binary file %s", path)
		return Result{Path: path, Err: fmt.Errorf("%s: unsupported file type", name)}
	}

	sourceID := w.sourceID
	if sourceID == "" {
		sourceID = name
	}

	res, err := w.ingest.Ingest(ctx, driving.IngestRequest{
		SourceID: sourceID,
		Filename: name,
		Content:  content,
	})
	if err != nil {
		logger.Warn("ingest %s failed: %v", path, err)
	}
	return Result{Path: path, Result: res, Err: err}
}
