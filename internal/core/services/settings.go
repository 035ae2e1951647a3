package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Sandiven/DataVerser/internal/core/domain"
	"github.com/Sandiven/DataVerser/internal/core/ports/driven"
	"github.com/Sandiven/DataVerser/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyConsistencyThreshold = "extract.consistency_threshold"
	keyMinBlockLines        = "extract.min_block_lines"
	keyRawTextLimit         = "extract.raw_text_limit"
	keySampleSize           = "inference.sample_size"
	keyDateRatio            = "inference.date_ratio"
	keyNumericRatio         = "inference.numeric_ratio"
	keyExampleLength        = "inference.example_length"
	keyRenameThreshold      = "evolution.rename_threshold"
	keyRequireSameType      = "evolution.require_same_type"
	keyMaxSubmitRetries     = "evolution.max_submit_retries"
	keyStorageBackend       = "storage.backend"
	keyRawBackend           = "storage.raw_backend"
	keyDataDir              = "storage.data_dir"
	keyMigrationTable       = "migration.table"
	keyMigrationCollection  = "migration.collection"
)

type valueKind int

const (
	kindFloat valueKind = iota
	kindInt
	kindBool
	kindString
	kindBackend
	kindRatio
)

// settingKeys lists every key with its value kind, in display order.
var settingKeys = []struct {
	key  string
	kind valueKind
}{
	{keyConsistencyThreshold, kindRatio},
	{keyMinBlockLines, kindInt},
	{keyRawTextLimit, kindInt},
	{keySampleSize, kindInt},
	{keyDateRatio, kindRatio},
	{keyNumericRatio, kindRatio},
	{keyExampleLength, kindInt},
	{keyRenameThreshold, kindRatio},
	{keyRequireSameType, kindBool},
	{keyMaxSubmitRetries, kindInt},
	{keyStorageBackend, kindBackend},
	{keyRawBackend, kindBackend},
	{keyDataDir, kindString},
	{keyMigrationTable, kindString},
	{keyMigrationCollection, kindString},
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get returns the configured settings overlaid on the defaults.
func (s *SettingsService) Get() (*domain.Settings, error) {
	settings := LoadSettings(s.configStore)
	return &settings, nil
}

// GetDefaults returns the built-in settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

// Keys lists the supported setting keys in display order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, len(settingKeys))
	for i, k := range settingKeys {
		keys[i] = k.key
	}
	return keys
}

// Set parses value according to the key and persists it.
func (s *SettingsService) Set(key, value string) error {
	if s.configStore == nil {
		return domain.ErrNotImplemented
	}
	kind, ok := lookupKind(key)
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	var parsed any
	switch kind {
	case kindFloat, kindRatio:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%w: %s must be a number", domain.ErrInvalidInput, key)
		}
		if kind == kindRatio && (f < 0 || f > 1) {
			return fmt.Errorf("%w: %s must be between 0 and 1", domain.ErrInvalidInput, key)
		}
		parsed = f
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: %s must be a non-negative integer", domain.ErrInvalidInput, key)
		}
		parsed = n
	case kindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidInput, key)
		}
		parsed = b
	case kindBackend:
		backend := domain.StorageBackend(strings.ToLower(value))
		if !backend.IsValid() || (key == keyStorageBackend && backend == domain.StorageBadger) {
			return fmt.Errorf("%w: unsupported backend %q for %s", domain.ErrInvalidInput, value, key)
		}
		parsed = backend.String()
	default:
		parsed = value
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func lookupKind(key string) (valueKind, bool) {
	for _, k := range settingKeys {
		if k.key == key {
			return k.kind, true
		}
	}
	return 0, false
}

// LoadSettings overlays configured values on the defaults. A nil store
// yields the defaults.
func LoadSettings(store driven.ConfigStore) domain.Settings {
	settings := domain.DefaultSettings()
	if store == nil {
		return settings
	}

	floatVal := func(key string, dst *float64) {
		if _, ok := store.Get(key); ok {
			*dst = store.GetFloat(key)
		}
	}
	intVal := func(key string, dst *int) {
		if _, ok := store.Get(key); ok {
			*dst = store.GetInt(key)
		}
	}
	boolVal := func(key string, dst *bool) {
		if _, ok := store.Get(key); ok {
			*dst = store.GetBool(key)
		}
	}
	stringVal := func(key string, dst *string) {
		if v := store.GetString(key); v != "" {
			*dst = v
		}
	}
	backendVal := func(key string, dst *domain.StorageBackend) {
		if b := domain.StorageBackend(store.GetString(key)); b.IsValid() {
			*dst = b
		}
	}

	floatVal(keyConsistencyThreshold, &settings.Extract.ConsistencyThreshold)
	intVal(keyMinBlockLines, &settings.Extract.MinBlockLines)
	intVal(keyRawTextLimit, &settings.Extract.RawTextLimit)
	intVal(keySampleSize, &settings.Inference.SampleSize)
	floatVal(keyDateRatio, &settings.Inference.DateRatio)
	floatVal(keyNumericRatio, &settings.Inference.NumericRatio)
	intVal(keyExampleLength, &settings.Inference.ExampleLength)
	floatVal(keyRenameThreshold, &settings.Evolution.RenameThreshold)
	boolVal(keyRequireSameType, &settings.Evolution.RequireSameType)
	intVal(keyMaxSubmitRetries, &settings.Evolution.MaxSubmitRetries)
	backendVal(keyStorageBackend, &settings.Storage.Backend)
	backendVal(keyRawBackend, &settings.Storage.RawBackend)
	stringVal(keyDataDir, &settings.Storage.DataDir)
	stringVal(keyMigrationTable, &settings.Migration.Table)
	stringVal(keyMigrationCollection, &settings.Migration.Collection)

	return settings
}
