package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// FieldType is an inferred column type.
type FieldType string

// Available field types.
const (
	TypeInteger FieldType = "integer"
	TypeDecimal FieldType = "decimal"
	TypeString  FieldType = "string"
	TypeBoolean FieldType = "boolean"
	TypeDate    FieldType = "date"
	TypeNull    FieldType = "null"
)

// IsValid returns true if the field type is recognised.
func (t FieldType) IsValid() bool {
	switch t {
	case TypeInteger, TypeDecimal, TypeString, TypeBoolean, TypeDate, TypeNull:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (t FieldType) String() string {
	return string(t)
}

// Field describes one inferred column.
// Fields are derived deterministically and never mutated in place.
type Field struct {
	// Name is the column name, unique within a schema.
	Name string `json:"name"`

	// Type is the inferred type.
	Type FieldType `json:"type"`

	// Nullable is true iff any value in the column was missing.
	Nullable bool `json:"nullable"`

	// ExampleValue is the first non-missing value, truncated.
	ExampleValue string `json:"example_value,omitempty"`

	// Confidence is a [0,1] heuristic score for Type.
	Confidence float64 `json:"confidence"`

	// SuggestedIndex marks identifier-like columns.
	SuggestedIndex bool `json:"suggested_index"`

	// Ambiguous marks union types, e.g. numeric-looking strings.
	Ambiguous bool `json:"ambiguous,omitempty"`
}

// Provisional reports whether the type should be treated as a guess.
func (f Field) Provisional(threshold float64) bool {
	return f.Ambiguous || f.Confidence < threshold
}

// Schema is a canonical field-level schema. Immutable once created.
type Schema struct {
	// ID is opaque and unique per generation.
	ID string `json:"schema_id"`

	// Fields are ordered with unique names.
	Fields []Field `json:"fields"`

	// PrimaryKeyCandidates lists field names usable as keys.
	PrimaryKeyCandidates []string `json:"primary_key_candidates"`

	// GeneratedAt is when the schema was built.
	GeneratedAt time.Time `json:"generated_at"`

	// FragmentSummary counts the fragments the schema was built from.
	FragmentSummary FragmentSummary `json:"source_fragment_summary"`

	// RecordCount is the number of rows the schema was inferred from.
	RecordCount int `json:"record_count"`

	// RawRef is the content hash of the stored upload, if any.
	RawRef string `json:"raw_ref,omitempty"`
}

// Field returns the named field.
func (s *Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// FieldNames returns the ordered field names.
func (s *Schema) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// Signature renders the ordered name/type/nullability shape of the schema.
// Two schemas with equal signatures are the same schema for versioning.
func (s *Schema) Signature() string {
	var b strings.Builder
	for _, f := range s.Fields {
		fmt.Fprintf(&b, "%s\x1f%s\x1f%t\n", f.Name, f.Type, f.Nullable)
	}
	return b.String()
}

// Clone returns a copy that shares no slices with s.
func (s *Schema) Clone() Schema {
	c := *s
	c.Fields = slices.Clone(s.Fields)
	c.PrimaryKeyCandidates = slices.Clone(s.PrimaryKeyCandidates)
	return c
}

// FieldChange records a field present in both schemas whose type or
// nullability differs.
type FieldChange struct {
	FieldName string `json:"field"`
	Old       Field  `json:"old"`
	New       Field  `json:"new"`
}

// FieldRename is a proposed correspondence between a removed and an added field.
type FieldRename struct {
	Old        Field   `json:"old_field"`
	New        Field   `json:"new_field"`
	Confidence float64 `json:"confidence"`
}

// SchemaDiff lists changes between two schemas.
// Names in Renamed never appear in Added or Removed.
type SchemaDiff struct {
	Added    []Field       `json:"added"`
	Removed  []Field       `json:"removed"`
	Modified []FieldChange `json:"modified"`
	Renamed  []FieldRename `json:"renamed"`
}

// IsEmpty reports whether the diff carries no change.
func (d *SchemaDiff) IsEmpty() bool {
	return d == nil || (len(d.Added) == 0 && len(d.Removed) == 0 &&
		len(d.Modified) == 0 && len(d.Renamed) == 0)
}

// SchemaVersion is one immutable, numbered snapshot of a source's schema.
type SchemaVersion struct {
	// SourceID identifies the logical source.
	SourceID string `json:"source_id"`

	// Version starts at 1 and increases by 1 per change.
	Version int `json:"version"`

	// Schema is the snapshot.
	Schema Schema `json:"schema"`

	// Diff is the change from the previous version; for version 1 every
	// field is added.
	Diff *SchemaDiff `json:"diff_from_previous"`

	// MigrationNotes is a human-readable summary of Diff.
	MigrationNotes string `json:"migration_notes"`

	// CreatedAt is when the version was appended.
	CreatedAt time.Time `json:"created_at"`
}

// Clone returns a deep copy of v.
func (v SchemaVersion) Clone() SchemaVersion {
	v.Schema = v.Schema.Clone()
	if v.Diff != nil {
		d := SchemaDiff{
			Added:    slices.Clone(v.Diff.Added),
			Removed:  slices.Clone(v.Diff.Removed),
			Modified: slices.Clone(v.Diff.Modified),
			Renamed:  slices.Clone(v.Diff.Renamed),
		}
		v.Diff = &d
	}
	return v
}
