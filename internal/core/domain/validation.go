package domain

// RangeRule bounds the numeric values of one column.
// A nil bound is unchecked.
type RangeRule struct {
	Column string   `json:"column" toml:"column" validate:"required"`
	Min    *float64 `json:"min,omitempty" toml:"min"`
	Max    *float64 `json:"max,omitempty" toml:"max"`
}

// ValidationRules are structural checks run against a fragment before
// inference. The zero value checks nothing.
type ValidationRules struct {
	// MinRows is the minimum number of rows.
	MinRows int `json:"min_rows" toml:"min_rows" validate:"gte=0"`

	// Required columns must be present.
	Required []string `json:"required" toml:"required" validate:"dive,required"`

	// KeyColumns must contain no missing values.
	KeyColumns []string `json:"key_columns" toml:"key_columns" validate:"dive,required"`

	// Unique columns must not repeat values.
	Unique []string `json:"unique" toml:"unique" validate:"dive,required"`

	// Ranges bound numeric columns.
	Ranges []RangeRule `json:"ranges" toml:"ranges" validate:"dive"`
}

// IsZero reports whether no rule is configured.
func (r *ValidationRules) IsZero() bool {
	return r == nil || (r.MinRows == 0 && len(r.Required) == 0 &&
		len(r.KeyColumns) == 0 && len(r.Unique) == 0 && len(r.Ranges) == 0)
}
