package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Sandiven/DataVerser/internal/core/domain"
)

const unknownColumn = "unknown"

// placeholderNames are column names that carry no information.
var placeholderNames = map[string]bool{
	"":        true,
	"none":    true,
	"null":    true,
	"nan":     true,
	"unknown": true,
}

// unnamedColumn matches positional names produced by spreadsheet exports.
var unnamedColumn = regexp.MustCompile(`(?i)^unnamed:?\s*\d*$`)

// Combine unions fragments into one table by column-set union, in order.
// It returns an empty fragment when nothing is given.
func Combine(fragments []domain.Fragment) domain.Fragment {
	var out domain.Fragment
	for i := range fragments {
		if fragments[i].IsEmpty() {
			continue
		}
		if out.Kind == "" {
			out.Kind = fragments[i].Kind
		}
		out.Union(&fragments[i])
	}
	return out
}

// CleanColumns returns frag with normalised column names: surrounding space
// trimmed, placeholder names replaced by "unknown" and duplicates suffixed
// _1, _2 in order of appearance.
func CleanColumns(frag domain.Fragment) domain.Fragment {
	names := make([]string, len(frag.Columns))
	for i, c := range frag.Columns {
		names[i] = CleanColumnName(c)
	}
	frag.Columns = dedupeColumns(names)
	return frag
}

// CleanRows drops columns with no value in any row, then exact duplicate
// rows (first occurrence kept), then rows with no value at all.
func CleanRows(frag domain.Fragment) (domain.Fragment, domain.CleaningStats) {
	var stats domain.CleaningStats

	keep := make([]int, 0, len(frag.Columns))
	for c := range frag.Columns {
		for _, row := range frag.Rows {
			if !row[c].IsMissing() {
				keep = append(keep, c)
				break
			}
		}
	}
	stats.EmptyColumnsDropped = len(frag.Columns) - len(keep)

	out := domain.Fragment{Kind: frag.Kind, Spans: frag.Spans, Columns: make([]string, len(keep))}
	for i, c := range keep {
		out.Columns[i] = frag.Columns[c]
	}

	seen := make(map[string]bool, len(frag.Rows))
	for _, row := range frag.Rows {
		cells := make([]domain.Value, len(keep))
		empty := true
		for i, c := range keep {
			cells[i] = row[c]
			empty = empty && row[c].IsMissing()
		}
		key := rowKey(cells)
		if seen[key] {
			stats.DuplicatesDropped++
			continue
		}
		seen[key] = true
		if empty {
			stats.EmptyRowsDropped++
			continue
		}
		out.Rows = append(out.Rows, cells)
	}
	return out, stats
}

// rowKey identifies a row by the kind and text of every cell.
func rowKey(cells []domain.Value) string {
	var b strings.Builder
	for _, v := range cells {
		b.WriteString(strconv.Itoa(int(v.Kind)))
		b.WriteString(strconv.Quote(v.String()))
	}
	return b.String()
}

// CleanColumnName normalises a single column name.
func CleanColumnName(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	if placeholderNames[strings.ToLower(name)] || unnamedColumn.MatchString(name) {
		return unknownColumn
	}
	return name
}

func dedupeColumns(names []string) []string {
	out := make([]string, len(names))
	taken := make(map[string]bool, len(names))
	for _, n := range names {
		taken[n] = true
	}
	seen := make(map[string]int, len(names))
	for i, n := range names {
		seen[n]++
		if seen[n] == 1 {
			out[i] = n
			continue
		}
		suffix := seen[n] - 1
		candidate := fmt.Sprintf("%s_%d", n, suffix)
		for taken[candidate] {
			suffix++
			candidate = fmt.Sprintf("%s_%d", n, suffix)
		}
		seen[n] = suffix + 1
		taken[candidate] = true
		out[i] = candidate
	}
	return out
}
