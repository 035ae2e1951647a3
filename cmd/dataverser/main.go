// Command dataverser infers and versions schemas from mixed-format documents.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Sandiven/DataVerser/internal/adapters/driven/audit"
	"github.com/Sandiven/DataVerser/internal/adapters/driven/config/file"
	"github.com/Sandiven/DataVerser/internal/adapters/driven/storage/badger"
	"github.com/Sandiven/DataVerser/internal/adapters/driven/storage/memory"
	"github.com/Sandiven/DataVerser/internal/adapters/driven/storage/sqlite"
	"github.com/Sandiven/DataVerser/internal/adapters/driving/cli"
	"github.com/Sandiven/DataVerser/internal/core/domain"
	"github.com/Sandiven/DataVerser/internal/core/ports/driven"
	"github.com/Sandiven/DataVerser/internal/core/services"
	"github.com/Sandiven/DataVerser/internal/extract"
	"github.com/Sandiven/DataVerser/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	code := run()
	os.Exit(code)
}

func run() int {
	logger.SetFormat(logger.DetectFormat(os.Stderr))

	closers, err := wire()
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if cerr := closers[i].Close(); cerr != nil {
				logger.Warn("close: %v", cerr)
			}
		}
	}()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	cli.SetVersion(version)
	if err := cli.Execute(); err != nil {
		return 1
	}
	return 0
}

// wire builds the adapters and services and hands them to the CLI.
// The returned closers must be closed even when err is non-nil.
func wire() ([]io.Closer, error) {
	var closers []io.Closer

	var configStore driven.ConfigStore
	if fileStore, err := file.NewConfigStore(""); err == nil {
		configStore = fileStore
	} else {
		logger.Warn("config unavailable, using defaults for this run: %v", err)
		configStore = memory.NewConfigStore()
	}
	settingsService := services.NewSettingsService(configStore)
	settings := services.LoadSettings(configStore)

	dataDir, err := resolveDataDir(settings.Storage.DataDir)
	if err != nil {
		return closers, err
	}

	var sqliteStore *sqlite.Store
	openSQLite := func() (*sqlite.Store, error) {
		if sqliteStore != nil {
			return sqliteStore, nil
		}
		s, err := sqlite.NewStore(dataDir)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		closers = append(closers, s)
		sqliteStore = s
		return s, nil
	}

	var (
		schemaStore driven.SchemaStore
		auditSink   driven.AuditSink
	)
	switch settings.Storage.Backend {
	case domain.StorageMemory:
		schemaStore = memory.NewSchemaStore()
		auditSink = memory.NewAuditSink()
	case domain.StorageSQLite:
		s, err := openSQLite()
		if err != nil {
			return closers, err
		}
		schemaStore = s.SchemaStore()
		auditSink = s.AuditSink()
	default:
		return closers, fmt.Errorf("unsupported storage backend %q", settings.Storage.Backend)
	}

	var rawStore driven.RawStore
	switch settings.Storage.RawBackend {
	case domain.StorageMemory:
		rawStore = memory.NewRawStore()
	case domain.StorageSQLite:
		s, err := openSQLite()
		if err != nil {
			return closers, err
		}
		rawStore = s.RawStore()
	case domain.StorageBadger:
		b, err := badger.NewRawStore(dataDir)
		if err != nil {
			return closers, err
		}
		closers = append(closers, b)
		rawStore = b
	default:
		return closers, fmt.Errorf("unsupported raw backend %q", settings.Storage.RawBackend)
	}

	auditLog, err := os.OpenFile(filepath.Join(dataDir, "audit.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return closers, fmt.Errorf("opening audit log: %w", err)
	}
	closers = append(closers, auditLog)

	schemaService := services.NewSchemaService(schemaStore, settings)
	ingestService := services.NewIngestService(
		extract.New(settings.Extract),
		schemaService,
		rawStore,
		audit.NewFanout(auditSink, audit.NewLogSink(auditLog)),
		settings,
	)

	cli.SetServices(cli.Services{
		Ingest:   ingestService,
		Schema:   schemaService,
		Settings: settingsService,
		Rules:    file.LoadRules,
	})
	return closers, nil
}

// resolveDataDir returns the data directory, creating it if needed.
func resolveDataDir(dir string) (string, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, ".dataverser", "data")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("creating data directory: %w", err)
	}
	return dir, nil
}
