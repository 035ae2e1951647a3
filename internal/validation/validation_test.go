package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sandiven/DataVerser/internal/core/domain"
)

func ptr(f float64) *float64 {
	return &f
}

func peopleFragment() domain.Fragment {
	return domain.Fragment{
		Columns: []string{"id", "age", "email"},
		Rows: [][]domain.Value{
			{domain.Int(1), domain.Int(31), domain.Text("a@example.com")},
			{domain.Int(2), domain.Text("45"), domain.Missing()},
			{domain.Int(3), domain.Int(19), domain.Text("c@example.com")},
		},
	}
}

func TestValidate_MissingRequiredColumn(t *testing.T) {
	res, err := New().Validate(peopleFragment(), domain.ValidationRules{Required: []string{"id", "name"}})
	require.NoError(t, err)

	assert.False(t, res.OK)
	require.NotNil(t, res.Err)
	assert.Equal(t, domain.RuleRequiredColumn, res.Err.Rule)
	assert.Equal(t, []string{"name"}, res.Err.Values)
	assert.Contains(t, res.Err.Error(), "name")
	assert.True(t, errors.Is(res.Err, domain.ErrValidation))
}

func TestValidate(t *testing.T) {
	dupes := peopleFragment()
	dupes.Rows = append(dupes.Rows, []domain.Value{domain.Int(2), domain.Int(50), domain.Text("d@example.com")})

	tests := []struct {
		name     string
		frag     domain.Fragment
		rules    domain.ValidationRules
		wantRule domain.ValidationRule
		column   string
		values   []string
	}{
		{
			name:  "no rules",
			frag:  peopleFragment(),
			rules: domain.ValidationRules{},
		},
		{
			name:  "all rules pass",
			frag:  peopleFragment(),
			rules: domain.ValidationRules{Required: []string{"id"}, KeyColumns: []string{"id"}, Unique: []string{"id"}, MinRows: 3},
		},
		{
			name:     "key column with null",
			frag:     peopleFragment(),
			rules:    domain.ValidationRules{KeyColumns: []string{"email"}},
			wantRule: domain.RuleKeyNotNull,
			column:   "email",
		},
		{
			name:     "key column absent",
			frag:     peopleFragment(),
			rules:    domain.ValidationRules{KeyColumns: []string{"sku"}},
			wantRule: domain.RuleKeyNotNull,
			column:   "sku",
		},
		{
			name:     "duplicate ids",
			frag:     dupes,
			rules:    domain.ValidationRules{Unique: []string{"id"}},
			wantRule: domain.RuleUniqueColumn,
			column:   "id",
			values:   []string{"2"},
		},
		{
			name:     "below minimum",
			frag:     peopleFragment(),
			rules:    domain.ValidationRules{Ranges: []domain.RangeRule{{Column: "age", Min: ptr(21)}}},
			wantRule: domain.RuleValueRange,
			column:   "age",
			values:   []string{"19"},
		},
		{
			name:     "above maximum counts numeric text",
			frag:     peopleFragment(),
			rules:    domain.ValidationRules{Ranges: []domain.RangeRule{{Column: "age", Max: ptr(40)}}},
			wantRule: domain.RuleValueRange,
			column:   "age",
			values:   []string{"45"},
		},
		{
			name:  "range on absent column is skipped",
			frag:  peopleFragment(),
			rules: domain.ValidationRules{Ranges: []domain.RangeRule{{Column: "height", Max: ptr(2)}}},
		},
		{
			name:     "too few rows",
			frag:     peopleFragment(),
			rules:    domain.ValidationRules{MinRows: 5},
			wantRule: domain.RuleMinRows,
			values:   []string{"3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := New().Validate(tt.frag, tt.rules)
			require.NoError(t, err)

			if tt.wantRule == "" {
				assert.True(t, res.OK)
				assert.Nil(t, res.Err)
				return
			}
			assert.False(t, res.OK)
			require.NotNil(t, res.Err)
			assert.Equal(t, tt.wantRule, res.Err.Rule)
			assert.Equal(t, tt.column, res.Err.Column)
			if tt.values != nil {
				assert.Equal(t, tt.values, res.Err.Values)
			}
		})
	}
}

func TestValidate_ReportsFirstFailingRule(t *testing.T) {
	rules := domain.ValidationRules{Required: []string{"missing"}, MinRows: 10}

	res, err := New().Validate(peopleFragment(), rules)
	require.NoError(t, err)

	assert.Equal(t, domain.RuleRequiredColumn, res.Err.Rule)
}

func TestCheckRules(t *testing.T) {
	tests := []struct {
		name  string
		rules domain.ValidationRules
		ok    bool
	}{
		{"empty", domain.ValidationRules{}, true},
		{"negative min rows", domain.ValidationRules{MinRows: -1}, false},
		{"blank required name", domain.ValidationRules{Required: []string{"id", ""}}, false},
		{"range without column", domain.ValidationRules{Ranges: []domain.RangeRule{{Min: ptr(1)}}}, false},
		{"inverted range", domain.ValidationRules{Ranges: []domain.RangeRule{{Column: "a", Min: ptr(5), Max: ptr(1)}}}, false},
		{"valid range", domain.ValidationRules{Ranges: []domain.RangeRule{{Column: "a", Min: ptr(1), Max: ptr(5)}}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New().CheckRules(tt.rules)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, domain.ErrInvalidInput)

			_, verr := New().Validate(peopleFragment(), tt.rules)
			assert.ErrorIs(t, verr, domain.ErrInvalidInput)
		})
	}
}
