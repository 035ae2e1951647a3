package evolution

import (
	"fmt"
	"strings"

	"github.com/Sandiven/DataVerser/internal/core/domain"
)

// Fixed notes for the first version and for an empty diff.
const (
	InitialNotes   = "Initial schema creation"
	NoChangesNotes = "No schema changes detected"
)

// MigrationNotes summarises a diff as renamed, added, removed and modified
// fields, in that order.
func MigrationNotes(diff domain.SchemaDiff) string {
	var notes []string

	if len(diff.Renamed) > 0 {
		items := make([]string, len(diff.Renamed))
		for i, r := range diff.Renamed {
			items[i] = fmt.Sprintf("%s -> %s (confidence: %.2f)", r.Old.Name, r.New.Name, r.Confidence)
		}
		notes = append(notes, fmt.Sprintf("Renamed %d field(s): %s", len(items), strings.Join(items, ", ")))
	}
	if len(diff.Added) > 0 {
		notes = append(notes, fmt.Sprintf("Added %d field(s): %s", len(diff.Added), joinNames(diff.Added)))
	}
	if len(diff.Removed) > 0 {
		notes = append(notes, fmt.Sprintf("Removed %d field(s): %s", len(diff.Removed), joinNames(diff.Removed)))
	}
	if len(diff.Modified) > 0 {
		items := make([]string, len(diff.Modified))
		for i, m := range diff.Modified {
			items[i] = fmt.Sprintf("%s (%s -> %s)", m.FieldName, m.Old.Type, m.New.Type)
		}
		notes = append(notes, fmt.Sprintf("Modified %d field(s): %s", len(items), strings.Join(items, ", ")))
	}

	if len(notes) == 0 {
		return NoChangesNotes
	}
	return strings.Join(notes, "; ")
}

func joinNames(fields []domain.Field) string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return strings.Join(names, ", ")
}
