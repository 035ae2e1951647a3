// Package validation runs structural business rules against a fragment
// before its schema is inferred.
package validation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Sandiven/DataVerser/internal/core/domain"
)

// maxReported bounds the offending values carried by a ValidationError.
const maxReported = 10

// Result is the outcome of a validation run. Err is nil when OK is true.
type Result struct {
	OK  bool
	Err *domain.ValidationError
}

// Validator checks fragments against rule sets.
type Validator struct {
	rules *validator.Validate
}

// New creates a validator.
func New() *Validator {
	return &Validator{rules: validator.New()}
}

// CheckRules validates the rule set itself.
func (v *Validator) CheckRules(rules domain.ValidationRules) error {
	if err := v.rules.Struct(rules); err != nil {
		return fmt.Errorf("%w: validation rules: %v", domain.ErrInvalidInput, err)
	}
	for _, r := range rules.Ranges {
		if r.Min != nil && r.Max != nil && *r.Min > *r.Max {
			return fmt.Errorf("%w: range for %q has min %g above max %g", domain.ErrInvalidInput, r.Column, *r.Min, *r.Max)
		}
	}
	return nil
}

// Validate runs required-column, key, uniqueness, range and row-count checks
// in that order and reports the first violation. An error is returned only
// when the rule set itself is invalid.
func (v *Validator) Validate(frag domain.Fragment, rules domain.ValidationRules) (Result, error) {
	if err := v.CheckRules(rules); err != nil {
		return Result{}, err
	}

	checks := []func(domain.Fragment, domain.ValidationRules) *domain.ValidationError{
		checkRequired,
		checkKeys,
		checkUnique,
		checkRanges,
		checkRowCount,
	}
	for _, check := range checks {
		if verr := check(frag, rules); verr != nil {
			return Result{Err: verr}, nil
		}
	}
	return Result{OK: true}, nil
}

func checkRequired(frag domain.Fragment, rules domain.ValidationRules) *domain.ValidationError {
	var missing []string
	for _, col := range rules.Required {
		if frag.ColumnIndex(col) < 0 {
			missing = append(missing, col)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &domain.ValidationError{
		Rule:    domain.RuleRequiredColumn,
		Values:  missing,
		Message: "missing required columns: " + strings.Join(missing, ", "),
	}
}

func checkKeys(frag domain.Fragment, rules domain.ValidationRules) *domain.ValidationError {
	for _, col := range rules.KeyColumns {
		if frag.ColumnIndex(col) < 0 {
			return &domain.ValidationError{
				Rule:    domain.RuleKeyNotNull,
				Column:  col,
				Message: fmt.Sprintf("key column %q is not present", col),
			}
		}
		nulls := 0
		for _, v := range frag.Column(col) {
			if v.IsMissing() {
				nulls++
			}
		}
		if nulls > 0 {
			return &domain.ValidationError{
				Rule:    domain.RuleKeyNotNull,
				Column:  col,
				Message: fmt.Sprintf("column %q contains %d null value(s)", col, nulls),
			}
		}
	}
	return nil
}

func checkUnique(frag domain.Fragment, rules domain.ValidationRules) *domain.ValidationError {
	for _, col := range rules.Unique {
		if frag.ColumnIndex(col) < 0 {
			return &domain.ValidationError{
				Rule:    domain.RuleUniqueColumn,
				Column:  col,
				Message: fmt.Sprintf("unique column %q is not present", col),
			}
		}
		seen := make(map[string]bool)
		var dupes []string
		for _, v := range frag.Column(col) {
			if v.IsMissing() {
				continue
			}
			s := v.String()
			if seen[s] {
				dupes = append(dupes, s)
			}
			seen[s] = true
		}
		if len(dupes) > 0 {
			return &domain.ValidationError{
				Rule:    domain.RuleUniqueColumn,
				Column:  col,
				Values:  head(dupes),
				Message: fmt.Sprintf("duplicate values found in %q: %s", col, strings.Join(head(dupes), ", ")),
			}
		}
	}
	return nil
}

// checkRanges skips columns that are absent and cells that are not numeric.
func checkRanges(frag domain.Fragment, rules domain.ValidationRules) *domain.ValidationError {
	for _, r := range rules.Ranges {
		var below, above []string
		for _, v := range frag.Column(r.Column) {
			n, ok := number(v)
			if !ok {
				continue
			}
			if r.Min != nil && n < *r.Min {
				below = append(below, v.String())
			}
			if r.Max != nil && n > *r.Max {
				above = append(above, v.String())
			}
		}
		switch {
		case len(below) > 0:
			return &domain.ValidationError{
				Rule:    domain.RuleValueRange,
				Column:  r.Column,
				Values:  head(below),
				Message: fmt.Sprintf("values in %q fall below minimum allowed (%g)", r.Column, *r.Min),
			}
		case len(above) > 0:
			return &domain.ValidationError{
				Rule:    domain.RuleValueRange,
				Column:  r.Column,
				Values:  head(above),
				Message: fmt.Sprintf("values in %q exceed maximum allowed (%g)", r.Column, *r.Max),
			}
		}
	}
	return nil
}

func checkRowCount(frag domain.Fragment, rules domain.ValidationRules) *domain.ValidationError {
	if len(frag.Rows) >= rules.MinRows {
		return nil
	}
	return &domain.ValidationError{
		Rule:    domain.RuleMinRows,
		Values:  []string{strconv.Itoa(len(frag.Rows))},
		Message: fmt.Sprintf("fragment must contain at least %d rows, got %d", rules.MinRows, len(frag.Rows)),
	}
}

func number(v domain.Value) (float64, bool) {
	switch v.Kind {
	case domain.ValueInt:
		return float64(v.Int), true
	case domain.ValueFloat:
		return v.Float, true
	case domain.ValueString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func head(values []string) []string {
	if len(values) > maxReported {
		return values[:maxReported]
	}
	return values
}
