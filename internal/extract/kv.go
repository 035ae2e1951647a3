package extract

import (
	"regexp"
	"strings"

	"github.com/Sandiven/DataVerser/internal/core/domain"
)

var kvKey = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_ .\-]{0,63}$`)

// kvPass takes the first contiguous run of "key: value" lines of the
// original text. Lines inside spans claimed by earlier passes never match.
type kvPass struct{}

func (p *kvPass) Kind() domain.FragmentKind {
	return domain.KindKV
}

func (p *kvPass) Scan(b *Buffer) []domain.Fragment {
	text := b.Original()
	start, end := -1, -1
	for _, l := range splitLines(text) {
		if isKVLine(l.text) && !b.IsClaimed(domain.Span{Start: l.start, End: l.end}) {
			if start < 0 {
				start = l.start
			}
			end = l.end
			continue
		}
		if start >= 0 {
			break
		}
	}
	if start < 0 {
		return nil
	}
	c := candidate{span: domain.Span{Start: start, End: end}, text: text[start:end]}
	return consume(b, domain.KindKV, []candidate{c}, false, parseKV)
}

func isKVLine(l string) bool {
	key, value, ok := strings.Cut(l, ":")
	return ok && !strings.HasPrefix(value, "//") && kvKey.MatchString(strings.TrimSpace(key))
}

func parseKV(text string) *domain.Fragment {
	var rec records
	row := rec.newRow()
	for _, l := range strings.Split(text, "\n") {
		key, value, ok := strings.Cut(l, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		rec.addColumn(key)
		row[key] = domain.Text(value)
	}
	return rec.fragment()
}
