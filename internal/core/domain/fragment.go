package domain

import (
	"strconv"
	"strings"
	"time"
)

// FragmentKind identifies which extraction pass produced a fragment.
type FragmentKind string

// Available fragment kinds, in extraction order.
const (
	KindJSON        FragmentKind = "json"
	KindFrontMatter FragmentKind = "frontmatter"
	KindHTML        FragmentKind = "html"
	KindDelimited   FragmentKind = "delimited"
	KindKV          FragmentKind = "kv"
	KindRawText     FragmentKind = "raw_text"
)

// String returns the string representation.
func (k FragmentKind) String() string {
	return string(k)
}

// ValueKind tags the evidence carried by a cell.
type ValueKind int

const (
	// ValueMissing marks an absent or empty cell.
	ValueMissing ValueKind = iota

	// ValueString is textual content with no native type.
	ValueString

	// ValueBool is a native boolean.
	ValueBool

	// ValueInt is a native integer.
	ValueInt

	// ValueFloat is a native floating-point number.
	ValueFloat

	// ValueTime is a native temporal value.
	ValueTime
)

// Value is one tagged cell of a fragment row.
// Native kinds come from typed sources (JSON, YAML, coerced columns);
// text sources produce ValueString cells.
type Value struct {
	Kind  ValueKind
	Str   string
	Bool  bool
	Int   int64
	Float float64
	Time  time.Time
}

// Missing returns an absent cell.
func Missing() Value {
	return Value{Kind: ValueMissing}
}

// Text returns a string cell, or a missing cell when s is blank.
func Text(s string) Value {
	s = strings.TrimSpace(s)
	if s == "" {
		return Missing()
	}
	return Value{Kind: ValueString, Str: s}
}

// Bool returns a native boolean cell.
func Bool(b bool) Value {
	return Value{Kind: ValueBool, Bool: b}
}

// Int returns a native integer cell.
func Int(i int64) Value {
	return Value{Kind: ValueInt, Int: i}
}

// Float returns a native floating-point cell.
func Float(f float64) Value {
	return Value{Kind: ValueFloat, Float: f}
}

// Time returns a native temporal cell.
func Time(t time.Time) Value {
	return Value{Kind: ValueTime, Time: t}
}

// IsMissing reports whether the cell is absent.
func (v Value) IsMissing() bool {
	return v.Kind == ValueMissing
}

// String renders the cell as text. Missing cells render as "".
func (v Value) String() string {
	switch v.Kind {
	case ValueString:
		return v.Str
	case ValueBool:
		return strconv.FormatBool(v.Bool)
	case ValueInt:
		return strconv.FormatInt(v.Int, 10)
	case ValueFloat:
		return strconv.FormatFloat(v.Float, 'f', -1, 64)
	case ValueTime:
		return v.Time.Format(time.RFC3339)
	default:
		return ""
	}
}

// Interface returns the cell as a plain Go value for serialisation.
func (v Value) Interface() any {
	switch v.Kind {
	case ValueString:
		return v.Str
	case ValueBool:
		return v.Bool
	case ValueInt:
		return v.Int
	case ValueFloat:
		return v.Float
	case ValueTime:
		return v.Time
	default:
		return nil
	}
}

// Span is a half-open byte range [Start, End) of the original input.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes covered.
func (s Span) Len() int {
	return s.End - s.Start
}

// Overlaps reports whether two spans share at least one byte.
func (s Span) Overlaps(o Span) bool {
	return s.Start < o.End && o.Start < s.End
}

// Fragment is a typed, rectangular table-like unit extracted from raw text.
// Every row has exactly len(Columns) cells.
type Fragment struct {
	// Kind is the pass that produced the fragment.
	Kind FragmentKind

	// Columns are the ordered column names.
	Columns []string

	// Rows are the ordered row tuples.
	Rows [][]Value

	// Spans are the byte ranges of the original input this fragment consumed.
	Spans []Span
}

// IsEmpty reports whether the fragment carries no data.
func (f *Fragment) IsEmpty() bool {
	return f == nil || len(f.Columns) == 0 || len(f.Rows) == 0
}

// Column returns the cells of the named column, or nil if absent.
func (f *Fragment) Column(name string) []Value {
	idx := f.ColumnIndex(name)
	if idx < 0 {
		return nil
	}
	out := make([]Value, len(f.Rows))
	for i, row := range f.Rows {
		out[i] = row[idx]
	}
	return out
}

// ColumnIndex returns the position of the named column or -1.
func (f *Fragment) ColumnIndex(name string) int {
	for i, c := range f.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Union appends other's rows to f, widening f by column-set union.
// Cells for columns a row never had are missing.
func (f *Fragment) Union(other *Fragment) {
	if other == nil {
		return
	}
	mapping := make([]int, len(other.Columns))
	for i, col := range other.Columns {
		idx := f.ColumnIndex(col)
		if idx < 0 {
			f.Columns = append(f.Columns, col)
			for r := range f.Rows {
				f.Rows[r] = append(f.Rows[r], Missing())
			}
			idx = len(f.Columns) - 1
		}
		mapping[i] = idx
	}
	for _, row := range other.Rows {
		out := make([]Value, len(f.Columns))
		for i := range out {
			out[i] = Missing()
		}
		for i, cell := range row {
			if i < len(mapping) {
				out[mapping[i]] = cell
			}
		}
		f.Rows = append(f.Rows, out)
	}
	f.Spans = append(f.Spans, other.Spans...)
}

// FragmentSummary counts fragments found per pass.
type FragmentSummary struct {
	JSONFragments int `json:"json_fragments"`
	HTMLTables    int `json:"html_tables"`
	CSVFragments  int `json:"csv_fragments"`
	KVPairs       int `json:"kv_pairs"`
	FrontMatter   int `json:"frontmatter"`
	RawText       int `json:"raw_text"`
}

// Total returns the number of fragments summarised.
func (s FragmentSummary) Total() int {
	return s.JSONFragments + s.HTMLTables + s.CSVFragments + s.KVPairs + s.FrontMatter + s.RawText
}

// RawInput is the ephemeral input of one extraction call.
type RawInput struct {
	// Filename is an optional hint used for file-type detection.
	Filename string

	// Content is the raw bytes.
	Content []byte
}

// CleaningStats counts what row cleaning removed before validation.
type CleaningStats struct {
	EmptyColumnsDropped int `json:"empty_columns_dropped"`
	DuplicatesDropped   int `json:"duplicates_dropped"`
	EmptyRowsDropped    int `json:"empty_rows_dropped"`
}

// Total returns the number of rows and columns removed.
func (s CleaningStats) Total() int {
	return s.EmptyColumnsDropped + s.DuplicatesDropped + s.EmptyRowsDropped
}
