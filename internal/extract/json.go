package extract

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"regexp"
	"strings"

	"github.com/Sandiven/DataVerser/internal/core/domain"
)

var fencedJSON = regexp.MustCompile("(?is)```json[ \t]*\r?\n(.*?)```")

// jsonPass extracts fenced ```json blocks first, then balanced object and
// array spans from the remaining text.
type jsonPass struct{}

func (p *jsonPass) Kind() domain.FragmentKind {
	return domain.KindJSON
}

func (p *jsonPass) Scan(b *Buffer) []domain.Fragment {
	var fenced []candidate
	working := b.Working()
	for _, m := range fencedJSON.FindAllStringSubmatchIndex(working, -1) {
		fenced = append(fenced, candidate{
			span: domain.Span{Start: m[0], End: m[1]},
			text: working[m[2]:m[3]],
		})
	}
	out := consume(b, domain.KindJSON, fenced, false, parseJSON)
	return append(out, consume(b, domain.KindJSON, balancedCandidates(b.Working()), false, parseJSON)...)
}

// balancedCandidates returns every bracket-balanced span that could start a
// JSON object or array of objects, outermost first. Nested spans are kept so
// an inner object can still match when its enclosing span does not parse.
func balancedCandidates(text string) []candidate {
	var out []candidate
	ends := make([]int, len(text))
	for i := 0; i < len(text); i++ {
		if !looksLikeJSONStart(text, i) {
			continue
		}
		end := ends[i]
		if end == 0 {
			end = matchBrackets(text, i, ends)
		}
		if end > 0 {
			out = append(out, candidate{
				span: domain.Span{Start: i, End: end},
				text: text[i:end],
			})
		}
	}
	return out
}

// looksLikeJSONStart accepts `{` followed by a key or `}`, and `[` followed
// by an object.
func looksLikeJSONStart(text string, i int) bool {
	c := text[i]
	if c != '{' && c != '[' {
		return false
	}
	j := i + 1
	for j < len(text) && isJSONSpace(text[j]) {
		j++
	}
	if j >= len(text) {
		return false
	}
	if c == '{' {
		return text[j] == '"' || text[j] == '}'
	}
	return text[j] == '{'
}

func isJSONSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// matchBracket returns the offset just past the bracket closing the one at
// start, or -1. String literals and their escapes are skipped.
func matchBracket(text string, start int) int {
	return matchBrackets(text, start, nil)
}

// matchBrackets is matchBracket that also records, in ends, the result for
// every bracket opened outside a string during the scan: the offset past
// its closer, or -1 when the scan fails with it still open. A scan from any
// of those brackets would see the same bytes in the same string state, so
// later starts inside the scanned range cost nothing.
func matchBrackets(text string, start int, ends []int) int {
	var stack []int
	fail := func() int {
		if ends != nil {
			for _, pos := range stack {
				ends[pos] = -1
			}
		}
		return -1
	}

	inString, escaped := false, false
	for j := start; j < len(text); j++ {
		c := text[j]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{', '[':
			stack = append(stack, j)
		case '}', ']':
			if len(stack) == 0 || closerOf(text[stack[len(stack)-1]]) != c {
				return fail()
			}
			open := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if ends != nil {
				ends[open] = j + 1
			}
			if len(stack) == 0 {
				return j + 1
			}
		}
	}
	return fail()
}

func closerOf(open byte) byte {
	if open == '{' {
		return '}'
	}
	return ']'
}

// object is a JSON object that remembers key order.
type object struct {
	keys   []string
	values map[string]any
}

// parseJSON accepts an object or a non-empty array of objects. Nested objects
// are flattened into dotted column names.
func parseJSON(text string) *domain.Fragment {
	data := bytes.TrimSpace([]byte(text))
	if !json.Valid(data) {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeOrdered(dec)
	if err != nil {
		return nil
	}

	var objects []*object
	switch t := v.(type) {
	case *object:
		objects = []*object{t}
	case []any:
		for _, el := range t {
			obj, ok := el.(*object)
			if !ok {
				return nil
			}
			objects = append(objects, obj)
		}
	}
	if len(objects) == 0 {
		return nil
	}

	var rec records
	for _, obj := range objects {
		row := rec.newRow()
		flatten(obj, "", row, &rec)
	}
	return rec.fragment()
}

func decodeOrdered(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}
	switch delim {
	case '{':
		obj := &object{values: make(map[string]any)}
		for dec.More() {
			kt, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := kt.(string)
			if !ok {
				return nil, errors.New("object key is not a string")
			}
			val, err := decodeOrdered(dec)
			if err != nil {
				return nil, err
			}
			if _, dup := obj.values[key]; !dup {
				obj.keys = append(obj.keys, key)
			}
			obj.values[key] = val
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return obj, nil
	case '[':
		arr := []any{}
		for dec.More() {
			val, err := decodeOrdered(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, val)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return arr, nil
	}
	return nil, io.ErrUnexpectedEOF
}

func flatten(obj *object, prefix string, row map[string]domain.Value, rec *records) {
	for _, key := range obj.keys {
		name := key
		if prefix != "" {
			name = prefix + "." + key
		}
		if nested, ok := obj.values[key].(*object); ok {
			flatten(nested, name, row, rec)
			continue
		}
		rec.addColumn(name)
		row[name] = jsonValue(obj.values[key])
	}
}

func jsonValue(v any) domain.Value {
	switch t := v.(type) {
	case nil:
		return domain.Missing()
	case bool:
		return domain.Bool(t)
	case string:
		return domain.Text(t)
	case json.Number:
		s := t.String()
		if !strings.ContainsAny(s, ".eE") {
			if i, err := t.Int64(); err == nil {
				return domain.Int(i)
			}
		}
		if f, err := t.Float64(); err == nil {
			return domain.Float(f)
		}
		return domain.Text(s)
	case []any:
		data, err := json.Marshal(plain(t))
		if err != nil {
			return domain.Missing()
		}
		return domain.Text(string(data))
	default:
		return domain.Missing()
	}
}

// plain converts ordered objects back to maps for re-encoding.
func plain(v any) any {
	switch t := v.(type) {
	case *object:
		m := make(map[string]any, len(t.values))
		for k, val := range t.values {
			m[k] = plain(val)
		}
		return m
	case []any:
		out := make([]any, len(t))
		for i, el := range t {
			out[i] = plain(el)
		}
		return out
	default:
		return v
	}
}
