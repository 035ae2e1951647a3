package inference

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Sandiven/DataVerser/internal/core/domain"
)

// Builder turns a fragment into a schema.
type Builder struct {
	inferencer *Inferencer
	newID      func() string
	now        func() time.Time
}

// NewBuilder creates a builder with the given inference thresholds.
func NewBuilder(settings domain.InferenceSettings) *Builder {
	return &Builder{
		inferencer: NewInferencer(settings),
		newID:      uuid.NewString,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Build infers one field per column, in column order. An empty fragment
// yields a schema without fields.
func (b *Builder) Build(frag domain.Fragment, summary domain.FragmentSummary) domain.Schema {
	schema := domain.Schema{
		ID:              b.newID(),
		GeneratedAt:     b.now(),
		FragmentSummary: summary,
		RecordCount:     len(frag.Rows),
		Fields:          []domain.Field{},
	}
	if frag.IsEmpty() {
		schema.RecordCount = 0
		schema.PrimaryKeyCandidates = []string{}
		return schema
	}

	for i, name := range frag.Columns {
		values := make([]domain.Value, len(frag.Rows))
		for r, row := range frag.Rows {
			values[r] = row[i]
		}
		schema.Fields = append(schema.Fields, b.inferencer.Infer(name, values))
	}
	schema.PrimaryKeyCandidates = PrimaryKeyCandidates(schema.Fields)
	return schema
}

// PrimaryKeyCandidates returns the index-suggested fields whose name
// contains "id", or the first field when there are none.
func PrimaryKeyCandidates(fields []domain.Field) []string {
	out := []string{}
	for _, f := range fields {
		if f.SuggestedIndex && strings.Contains(strings.ToLower(f.Name), "id") {
			out = append(out, f.Name)
		}
	}
	if len(out) == 0 && len(fields) > 0 {
		out = append(out, fields[0].Name)
	}
	return out
}
