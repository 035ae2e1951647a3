package extract

import (
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Sandiven/DataVerser/internal/core/domain"
)

const frontMatterMarker = "---"

// frontMatterPass extracts a YAML block delimited by --- lines at the very
// top of the document into a one-row fragment.
type frontMatterPass struct{}

func (p *frontMatterPass) Kind() domain.FragmentKind {
	return domain.KindFrontMatter
}

func (p *frontMatterPass) Scan(b *Buffer) []domain.Fragment {
	c, ok := frontMatterBlock(b.Working())
	if !ok {
		return nil
	}
	return consume(b, domain.KindFrontMatter, []candidate{c}, false, parseFrontMatter)
}

// frontMatterBlock finds the opening marker on line 1 and its closing marker.
// The candidate span covers both markers; the text is the body between them.
func frontMatterBlock(text string) (candidate, bool) {
	first, rest, found := strings.Cut(text, "\n")
	if !found || strings.TrimRight(first, " \t") != frontMatterMarker {
		return candidate{}, false
	}
	bodyStart := len(first) + 1
	offset := bodyStart
	for {
		line, tail, more := strings.Cut(rest, "\n")
		if strings.TrimRight(line, " \t") == frontMatterMarker {
			end := offset + len(line)
			if more {
				end++
			}
			return candidate{
				span: domain.Span{Start: 0, End: end},
				text: text[bodyStart:offset],
			}, true
		}
		if !more {
			return candidate{}, false
		}
		offset += len(line) + 1
		rest = tail
	}
}

func parseFrontMatter(body string) *domain.Fragment {
	var rec records
	row := rec.newRow()

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(body), &doc); err == nil && len(doc.Content) == 1 && doc.Content[0].Kind == yaml.MappingNode {
		yamlMapping(doc.Content[0], "", row, &rec)
	} else {
		frontMatterLines(body, row, &rec)
	}
	return rec.fragment()
}

func yamlMapping(node *yaml.Node, prefix string, row map[string]domain.Value, rec *records) {
	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		if prefix != "" {
			name = prefix + "." + name
		}
		val := node.Content[i+1]
		if val.Kind == yaml.AliasNode && val.Alias != nil {
			val = val.Alias
		}
		switch val.Kind {
		case yaml.MappingNode:
			yamlMapping(val, name, row, rec)
			continue
		case yaml.SequenceNode:
			items := make([]string, 0, len(val.Content))
			for _, item := range val.Content {
				items = append(items, item.Value)
			}
			rec.addColumn(name)
			row[name] = domain.Text(strings.Join(items, ", "))
		default:
			rec.addColumn(name)
			row[name] = yamlScalar(val)
		}
	}
}

func yamlScalar(node *yaml.Node) domain.Value {
	if node.ShortTag() == "!!timestamp" {
		var ts time.Time
		if err := node.Decode(&ts); err == nil {
			return domain.Time(ts)
		}
	}
	var v any
	if err := node.Decode(&v); err != nil {
		return domain.Text(node.Value)
	}
	switch t := v.(type) {
	case nil:
		return domain.Missing()
	case bool:
		return domain.Bool(t)
	case int:
		return domain.Int(int64(t))
	case int64:
		return domain.Int(t)
	case uint64:
		if t > 1<<63-1 {
			return domain.Float(float64(t))
		}
		return domain.Int(int64(t))
	case float64:
		return domain.Float(t)
	case time.Time:
		return domain.Time(t)
	case string:
		return domain.Text(t)
	default:
		return domain.Text(node.Value)
	}
}

// frontMatterLines is the fallback for bodies that are not valid YAML.
func frontMatterLines(body string, row map[string]domain.Value, rec *records) {
	for _, line := range strings.Split(body, "\n") {
		key, value, ok := strings.Cut(line, ":")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			continue
		}
		value = strings.TrimSpace(value)
		if strings.HasPrefix(value, "[") && strings.HasSuffix(value, "]") {
			items := strings.Split(value[1:len(value)-1], ",")
			for i := range items {
				items[i] = unquote(strings.TrimSpace(items[i]))
			}
			value = strings.Join(items, ", ")
		} else {
			value = unquote(value)
		}
		rec.addColumn(key)
		row[key] = domain.Text(value)
	}
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		if s[0] == '"' {
			if u, err := strconv.Unquote(s); err == nil {
				return u
			}
		}
		return s[1 : len(s)-1]
	}
	return s
}
