package extract

import (
	"strconv"
	"strings"

	"github.com/Sandiven/DataVerser/internal/core/domain"
)

// coerceColumns converts text columns whose every present cell is an
// integer, a number or a true/false literal into native cells.
func coerceColumns(frag *domain.Fragment) {
	for col := range frag.Columns {
		switch columnKind(frag, col) {
		case domain.ValueInt:
			for _, row := range frag.Rows {
				if !row[col].IsMissing() {
					n, _ := strconv.ParseInt(row[col].Str, 10, 64)
					row[col] = domain.Int(n)
				}
			}
		case domain.ValueFloat:
			for _, row := range frag.Rows {
				if !row[col].IsMissing() {
					f, _ := strconv.ParseFloat(row[col].Str, 64)
					row[col] = domain.Float(f)
				}
			}
		case domain.ValueBool:
			for _, row := range frag.Rows {
				if !row[col].IsMissing() {
					row[col] = domain.Bool(strings.EqualFold(row[col].Str, "true"))
				}
			}
		}
	}
}

// columnKind returns the narrowest native kind that fits every present cell
// of a text column, or ValueString.
func columnKind(frag *domain.Fragment, col int) domain.ValueKind {
	ints, floats, bools, present := true, true, true, 0
	for _, row := range frag.Rows {
		v := row[col]
		if v.IsMissing() {
			continue
		}
		if v.Kind != domain.ValueString {
			return domain.ValueString
		}
		present++
		if ints {
			if _, err := strconv.ParseInt(v.Str, 10, 64); err != nil {
				ints = false
			}
		}
		if floats && !isPlainNumber(v.Str) {
			floats = false
		}
		if bools && !strings.EqualFold(v.Str, "true") && !strings.EqualFold(v.Str, "false") {
			bools = false
		}
	}
	switch {
	case present == 0:
		return domain.ValueString
	case ints:
		return domain.ValueInt
	case floats:
		return domain.ValueFloat
	case bools:
		return domain.ValueBool
	default:
		return domain.ValueString
	}
}

// isPlainNumber accepts decimal literals only: no inf, nan, hex or
// digit separators.
func isPlainNumber(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' && r != '-' && r != '+' && r != 'e' && r != 'E' {
			return false
		}
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}
