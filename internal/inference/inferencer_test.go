package inference

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Sandiven/DataVerser/internal/core/domain"
)

func texts(values ...string) []domain.Value {
	out := make([]domain.Value, len(values))
	for i, v := range values {
		out[i] = domain.Text(v)
	}
	return out
}

func newTestInferencer() *Inferencer {
	return NewInferencer(domain.DefaultSettings().Inference)
}

func TestInfer(t *testing.T) {
	tests := []struct {
		name       string
		column     string
		values     []domain.Value
		wantType   domain.FieldType
		confidence float64
		nullable   bool
		ambiguous  bool
	}{
		{
			name:       "date strings",
			column:     "created",
			values:     texts("2023-01-01", "2023-02-15", "2023-03-30"),
			wantType:   domain.TypeDate,
			confidence: 0.85,
		},
		{
			name:       "all missing",
			column:     "notes",
			values:     []domain.Value{domain.Missing(), domain.Missing()},
			wantType:   domain.TypeString,
			confidence: 0.5,
			nullable:   true,
		},
		{
			name:       "native booleans",
			column:     "active",
			values:     []domain.Value{domain.Bool(true), domain.Bool(false)},
			wantType:   domain.TypeBoolean,
			confidence: 0.95,
		},
		{
			name:       "native integers with a gap",
			column:     "qty",
			values:     []domain.Value{domain.Int(1), domain.Missing(), domain.Int(3)},
			wantType:   domain.TypeInteger,
			confidence: 0.95,
			nullable:   true,
		},
		{
			name:       "native ints mixed with floats",
			column:     "price",
			values:     []domain.Value{domain.Int(1), domain.Float(2.5)},
			wantType:   domain.TypeDecimal,
			confidence: 0.95,
		},
		{
			name:       "native times",
			column:     "published",
			values:     []domain.Value{domain.Time(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))},
			wantType:   domain.TypeDate,
			confidence: 0.95,
		},
		{
			name:       "numeric-looking strings",
			column:     "amount",
			values:     texts("$1,200.50", "€300", "450 USD", "n/a"),
			wantType:   domain.TypeDecimal,
			confidence: 0.70,
			ambiguous:  true,
		},
		{
			name:       "mixed native and text falls back to strings",
			column:     "score",
			values:     []domain.Value{domain.Int(1), domain.Text("high")},
			wantType:   domain.TypeString,
			confidence: 0.90,
		},
		{
			name:       "free text",
			column:     "comment",
			values:     texts("great", "ok", "2023-01-01"),
			wantType:   domain.TypeString,
			confidence: 0.90,
		},
		{
			name:       "other date shapes",
			column:     "when",
			values:     texts("01/31/2024", "31-01-2024", "2024/01/31", "soon"),
			wantType:   domain.TypeDate,
			confidence: 0.85,
		},
		{
			name:       "identifier strings",
			column:     "customer_id",
			values:     texts("C-1", "C-2"),
			wantType:   domain.TypeString,
			confidence: 0.98,
		},
		{
			name:       "identifier integers keep confidence",
			column:     "id",
			values:     []domain.Value{domain.Int(1), domain.Int(2)},
			wantType:   domain.TypeInteger,
			confidence: 0.95,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestInferencer().Infer(tt.column, tt.values)

			assert.Equal(t, tt.column, f.Name)
			assert.Equal(t, tt.wantType, f.Type)
			assert.InDelta(t, tt.confidence, f.Confidence, 1e-9)
			assert.Equal(t, tt.nullable, f.Nullable)
			assert.Equal(t, tt.ambiguous, f.Ambiguous)
		})
	}
}

func TestInfer_SampleOnlyCoversFirstValues(t *testing.T) {
	values := texts("a", "b", "c", "d", "e", "f", "g", "h", "i", "j")
	values = append(values, texts("1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11", "12")...)

	f := newTestInferencer().Infer("mixed", values)

	assert.Equal(t, domain.TypeString, f.Type)
}

func TestInfer_ExampleValue(t *testing.T) {
	long := strings.Repeat("x", 150)

	f := newTestInferencer().Infer("body", []domain.Value{domain.Missing(), domain.Text(long)})

	assert.Equal(t, strings.Repeat("x", 100), f.ExampleValue)
	assert.True(t, f.Nullable)

	f = newTestInferencer().Infer("ratio", []domain.Value{domain.Float(0.25)})
	assert.Equal(t, "0.25", f.ExampleValue)
}

func TestInfer_ThresholdsAreConfigurable(t *testing.T) {
	settings := domain.DefaultSettings().Inference
	settings.DateRatio = 0.9

	f := NewInferencer(settings).Infer("when", texts("2024-01-01", "later"))

	assert.Equal(t, domain.TypeString, f.Type)
}

func TestInfer_IsDeterministic(t *testing.T) {
	values := texts("1.5", "2", "x", "4")
	in := newTestInferencer()

	assert.Equal(t, in.Infer("v", values), in.Infer("v", values))
}

func TestIsIdentifier(t *testing.T) {
	tests := map[string]bool{
		"id":          true,
		"ID":          true,
		"user_id":     true,
		"userId":      true,
		"orderID":     true,
		"api key":     true,
		"pk":          true,
		"row-pk":      true,
		"paid":        false,
		"userid":      false,
		"keyword":     false,
		"valid":       false,
		"description": false,
	}
	for name, want := range tests {
		assert.Equal(t, want, IsIdentifier(name), "name %q", name)
	}
}

func TestLooksLikeDate(t *testing.T) {
	assert.True(t, LooksLikeDate("2023-01-01"))
	assert.True(t, LooksLikeDate("2023-01-01T10:00:00Z"))
	assert.True(t, LooksLikeDate(" 12/31/2023"))
	assert.False(t, LooksLikeDate("Jan 1 2023"))
	assert.False(t, LooksLikeDate("20230101"))
}

func TestLooksNumeric(t *testing.T) {
	assert.True(t, LooksNumeric("1,234.5"))
	assert.True(t, LooksNumeric("-7"))
	assert.True(t, LooksNumeric("USD 40"))
	assert.False(t, LooksNumeric("abc"))
	assert.False(t, LooksNumeric("1.2.3"))
}
