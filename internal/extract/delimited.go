package extract

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/Sandiven/DataVerser/internal/core/domain"
)

// delimiters in tie-break order.
var delimiters = []byte{',', '\t', ';', '|'}

// headerSampleRows bounds the body rows inspected by the header heuristic.
const headerSampleRows = 20

// commentLine matches marker lines such as "# CSV" that introduce a block.
var commentLine = regexp.MustCompile(`^#+(\s|$)`)

// delimitedPass groups contiguous delimiter-bearing lines of the working
// text and parses the groups whose delimiter counts are consistent enough.
type delimitedPass struct {
	settings domain.ExtractSettings
}

type line struct {
	start, end int
	text       string
}

func (p *delimitedPass) Kind() domain.FragmentKind {
	return domain.KindDelimited
}

func (p *delimitedPass) Scan(b *Buffer) []domain.Fragment {
	return consume(b, domain.KindDelimited, p.blocks(b.Working()), false, parseDelimited)
}

// blocks returns the qualifying groups. Blank lines, comment lines and lines
// without a delimiter end a group.
func (p *delimitedPass) blocks(text string) []candidate {
	var (
		out   []candidate
		group []line
	)
	flush := func() {
		if c, ok := p.qualify(text, group); ok {
			out = append(out, c)
		}
		group = nil
	}

	for _, l := range splitLines(text) {
		trimmed := strings.TrimSpace(l.text)
		switch {
		case trimmed == "" || commentLine.MatchString(trimmed):
			flush()
		case strings.ContainsAny(l.text, ",\t;|"):
			group = append(group, l)
		default:
			flush()
		}
	}
	flush()
	return out
}

// qualify accepts a group with enough lines where enough of them carry the
// majority count of the dominant delimiter.
func (p *delimitedPass) qualify(text string, group []line) (candidate, bool) {
	if len(group) == 0 || len(group) < p.settings.MinBlockLines {
		return candidate{}, false
	}
	texts := make([]string, len(group))
	for i, l := range group {
		texts[i] = l.text
	}
	delim, ok := dominantDelimiter(texts)
	if !ok || Consistency(texts, delim) < p.settings.ConsistencyThreshold {
		return candidate{}, false
	}
	span := domain.Span{Start: group[0].start, End: group[len(group)-1].end}
	return candidate{span: span, text: text[span.Start:span.End]}, true
}

func splitLines(text string) []line {
	var out []line
	start := 0
	for start <= len(text) {
		idx := strings.IndexByte(text[start:], '\n')
		if idx < 0 {
			if start < len(text) {
				out = append(out, line{start: start, end: len(text), text: text[start:]})
			}
			break
		}
		out = append(out, line{start: start, end: start + idx, text: text[start : start+idx]})
		start += idx + 1
	}
	return out
}

// dominantDelimiter picks the delimiter with the most occurrences.
func dominantDelimiter(lines []string) (byte, bool) {
	best, bestCount := byte(0), 0
	for _, d := range delimiters {
		total := 0
		for _, l := range lines {
			total += strings.Count(l, string(d))
		}
		if total > bestCount {
			best, bestCount = d, total
		}
	}
	return best, bestCount > 0
}

// Consistency returns the share of lines carrying the most common non-zero
// count of delim. Ties between counts favour the smaller count.
func Consistency(lines []string, delim byte) float64 {
	if len(lines) == 0 {
		return 0
	}
	freq := make(map[int]int)
	for _, l := range lines {
		freq[strings.Count(l, string(delim))]++
	}
	modeCount, modeFreq := 0, 0
	for count, n := range freq {
		if count == 0 {
			continue
		}
		if n > modeFreq || (n == modeFreq && count < modeCount) {
			modeCount, modeFreq = count, n
		}
	}
	return float64(modeFreq) / float64(len(lines))
}

func parseDelimited(text string) *domain.Fragment {
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	delim, ok := dominantDelimiter(lines)
	if !ok {
		return nil
	}

	rows, err := readDelimited(strings.Join(lines, "\n"), rune(delim))
	var header bool
	if err != nil || len(rows) == 0 {
		rows = splitComma(lines)
		header = true
	} else {
		header = hasHeader(rows)
	}
	if len(rows) == 0 {
		return nil
	}

	var names []string
	if header {
		names, rows = rows[0], rows[1:]
	}
	if len(rows) == 0 {
		return nil
	}
	frag := tableFragment(names, rows)
	coerceColumns(frag)
	return frag
}

func readDelimited(text string, delim rune) ([][]string, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = delim
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = delim != '\t'

	var rows [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading delimited block: %w", err)
		}
		rows = append(rows, rec)
	}
}

func splitComma(lines []string) [][]string {
	rows := make([][]string, len(lines))
	for i, l := range lines {
		cells := strings.Split(l, ",")
		for j := range cells {
			cells[j] = strings.TrimSpace(cells[j])
		}
		rows[i] = cells
	}
	return rows
}

// hasHeader votes per column: a first-row cell that differs in kind or
// length from a column whose body cells agree is evidence of a header.
// Without evidence, a first row of distinct, non-numeric labels that never
// reappear in their column is taken as a header.
func hasHeader(rows [][]string) bool {
	if len(rows) < 2 {
		return false
	}
	first := rows[0]
	body := rows[1:]
	if len(body) > headerSampleRows {
		body = body[:headerSampleRows]
	}

	votes := 0
	for col, h := range first {
		h = strings.TrimSpace(h)
		numeric, sameLen, length, seen := true, true, -1, false
		for _, row := range body {
			if col >= len(row) {
				continue
			}
			cell := strings.TrimSpace(row[col])
			if cell == "" {
				continue
			}
			seen = true
			if !isNumeric(cell) {
				numeric = false
			}
			if length < 0 {
				length = len(cell)
			} else if len(cell) != length {
				sameLen = false
			}
		}
		switch {
		case !seen:
		case numeric:
			if isNumeric(h) {
				votes--
			} else {
				votes++
			}
		case sameLen:
			if len(h) != length {
				votes++
			} else {
				votes--
			}
		}
	}
	if votes != 0 {
		return votes > 0
	}

	labels := make(map[string]bool, len(first))
	for _, h := range first {
		h = strings.TrimSpace(h)
		if h == "" || isNumeric(h) || labels[h] {
			return false
		}
		labels[h] = true
	}
	for _, row := range body {
		for col, cell := range row {
			if col < len(first) && strings.TrimSpace(cell) == strings.TrimSpace(first[col]) {
				return false
			}
		}
	}
	return true
}

func isNumeric(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil && isPlainNumber(s)
}
