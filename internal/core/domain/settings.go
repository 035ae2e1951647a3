package domain

const unknownDescription = "Unknown"

// StorageBackend identifies a persistence implementation.
type StorageBackend string

// Available storage backends.
const (
	// StorageMemory keeps state for the process lifetime only.
	StorageMemory StorageBackend = "memory"

	// StorageSQLite persists to a local SQLite database.
	StorageSQLite StorageBackend = "sqlite"

	// StorageBadger persists raw uploads to a Badger key-value store.
	StorageBadger StorageBackend = "badger"
)

// IsValid returns true if the backend is recognised.
func (b StorageBackend) IsValid() bool {
	switch b {
	case StorageMemory, StorageSQLite, StorageBadger:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b StorageBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b StorageBackend) Description() string {
	switch b {
	case StorageMemory:
		return "In-memory (not persisted)"
	case StorageSQLite:
		return "SQLite (local file)"
	case StorageBadger:
		return "Badger (local key-value store)"
	default:
		return unknownDescription
	}
}

// ExtractSettings tunes the fragment extractor.
type ExtractSettings struct {
	// ConsistencyThreshold is the share of lines in a delimited block that
	// must carry the majority delimiter count.
	ConsistencyThreshold float64

	// MinBlockLines is the minimum number of lines in a delimited block.
	MinBlockLines int

	// RawTextLimit bounds the raw-text fallback prefix in bytes.
	RawTextLimit int
}

// InferenceSettings tunes the field type inferencer.
type InferenceSettings struct {
	// SampleSize is how many non-missing values the string heuristics inspect.
	SampleSize int

	// DateRatio is the share of sampled values that must look like dates.
	DateRatio float64

	// NumericRatio is the share of sampled values that must parse as numbers.
	NumericRatio float64

	// ExampleLength truncates Field.ExampleValue.
	ExampleLength int
}

// EvolutionSettings tunes schema diffing and version assignment.
type EvolutionSettings struct {
	// RenameThreshold is the minimum similarity for a rename proposal.
	RenameThreshold float64

	// RequireSameType restricts rename candidates to equal inferred types.
	RequireSameType bool

	// MaxSubmitRetries bounds re-reads after a lost compare-and-append.
	MaxSubmitRetries int
}

// StorageSettings selects persistence backends.
type StorageSettings struct {
	// Backend stores schema history and audit events.
	Backend StorageBackend

	// RawBackend stores uploaded bytes.
	RawBackend StorageBackend

	// DataDir is the directory for file-backed stores.
	// Empty means ~/.dataverser/data.
	DataDir string
}

// MigrationSettings names the logical targets of generated migrations.
type MigrationSettings struct {
	// Table is the relational table name.
	Table string

	// Collection is the document collection name.
	Collection string
}

// Settings is the complete tunable configuration.
type Settings struct {
	Extract   ExtractSettings
	Inference InferenceSettings
	Evolution EvolutionSettings
	Storage   StorageSettings
	Migration MigrationSettings
}

// DefaultSettings returns the built-in configuration.
// The thresholds are uncalibrated heuristics; override them in config.toml.
func DefaultSettings() Settings {
	return Settings{
		Extract: ExtractSettings{
			ConsistencyThreshold: 0.6,
			MinBlockLines:        2,
			RawTextLimit:         2000,
		},
		Inference: InferenceSettings{
			SampleSize:    10,
			DateRatio:     0.5,
			NumericRatio:  0.7,
			ExampleLength: 100,
		},
		Evolution: EvolutionSettings{
			RenameThreshold:  0.6,
			RequireSameType:  true,
			MaxSubmitRetries: 5,
		},
		Storage: StorageSettings{
			Backend:    StorageSQLite,
			RawBackend: StorageSQLite,
		},
		Migration: MigrationSettings{
			Table:      "data_table",
			Collection: "data_collection",
		},
	}
}
