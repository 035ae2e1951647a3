package extract

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/Sandiven/DataVerser/internal/core/domain"
	"github.com/Sandiven/DataVerser/internal/core/ports/driven"
	"github.com/Sandiven/DataVerser/internal/logger"
)

// Verify interface compliance.
var _ driven.FragmentExtractor = (*Extractor)(nil)

// Pass is one extraction stage. Scan matches candidate spans in the buffer,
// claims the ones it can parse and returns one fragment per claimed candidate.
type Pass interface {
	Kind() domain.FragmentKind
	Scan(b *Buffer) []domain.Fragment
}

// binaryExtensions are rejected without inspecting content.
var binaryExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".bmp": true,
	".webp": true, ".ico": true, ".zip": true, ".gz": true, ".tgz": true,
	".tar": true, ".7z": true, ".rar": true, ".pdf": true, ".exe": true,
	".dll": true, ".so": true, ".parquet": true, ".xlsx": true, ".xls": true,
	".mp3": true, ".mp4": true, ".mov": true, ".wav": true,
}

// sniffLength is how much content is inspected for binary markers.
const sniffLength = 8192

// Extractor runs the ordered passes over one input.
type Extractor struct {
	settings domain.ExtractSettings
	passes   []Pass
}

// New creates an extractor with the standard pass order.
func New(settings domain.ExtractSettings) *Extractor {
	return &Extractor{
		settings: settings,
		passes: []Pass{
			&jsonPass{},
			&frontMatterPass{},
			&htmlPass{},
			&delimitedPass{settings: settings},
			&kvPass{},
		},
	}
}

// Extract decomposes the input into fragments, one per kind that matched,
// in pass order. Fragments of the same kind are unioned by column name.
// Unsupported input yields no fragments and no error.
func (e *Extractor) Extract(ctx context.Context, input domain.RawInput) ([]domain.Fragment, domain.FragmentSummary, error) {
	var summary domain.FragmentSummary

	if !Supported(input.Filename, input.Content) {
		logger.Debug("extract: skipping unsupported input %q", input.Filename)
		return nil, summary, nil
	}

	norm := normalise(string(input.Content))
	buf := NewBuffer(norm.text)
	var out []domain.Fragment

	for _, p := range e.passes {
		if err := ctx.Err(); err != nil {
			return nil, summary, err
		}

		found := p.Scan(buf)
		if len(found) == 0 {
			continue
		}
		count(&summary, p.Kind(), len(found))
		for i := range found {
			norm.relocate(found[i].Spans)
		}

		merged := domain.Fragment{Kind: p.Kind()}
		for i := range found {
			merged.Union(&found[i])
		}
		if !merged.IsEmpty() {
			out = append(out, merged)
		}
		logger.Debug("extract: %s pass matched %d candidate(s)", p.Kind(), len(found))
	}

	if len(out) == 0 {
		if raw := rawText(buf.Original(), e.settings.RawTextLimit); raw != nil {
			norm.relocate(raw.Spans)
			summary.RawText = 1
			out = append(out, *raw)
		}
	}

	return out, summary, nil
}

func count(s *domain.FragmentSummary, kind domain.FragmentKind, n int) {
	switch kind {
	case domain.KindJSON:
		s.JSONFragments += n
	case domain.KindFrontMatter:
		s.FrontMatter += n
	case domain.KindHTML:
		s.HTMLTables += n
	case domain.KindDelimited:
		s.CSVFragments += n
	case domain.KindKV:
		s.KVPairs += n
	case domain.KindRawText:
		s.RawText += n
	}
}

// Supported reports whether the input looks like text worth scanning.
func Supported(filename string, content []byte) bool {
	if binaryExtensions[strings.ToLower(filepath.Ext(filename))] {
		return false
	}
	head := content
	if len(head) > sniffLength {
		head = head[:sniffLength]
	}
	if bytes.IndexByte(head, 0) >= 0 {
		return false
	}
	// Tolerate a rune cut at the sniff boundary.
	for len(head) > 0 {
		r, size := utf8.DecodeRune(head)
		if r == utf8.RuneError && size == 1 && len(head) >= utf8.UTFMax {
			return false
		}
		head = head[size:]
	}
	return true
}

// rawText wraps a bounded prefix of the text in a one-cell fragment.
func rawText(text string, limit int) *domain.Fragment {
	prefix := truncate(text, limit)
	value := domain.Text(prefix)
	if value.IsMissing() {
		return nil
	}
	return &domain.Fragment{
		Kind:    domain.KindRawText,
		Columns: []string{"text"},
		Rows:    [][]domain.Value{{value}},
		Spans:   []domain.Span{{Start: 0, End: len(prefix)}},
	}
}

// truncate cuts s to at most limit bytes without splitting a rune.
// A non-positive limit keeps the whole string.
func truncate(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}

// normalised is the input with a leading BOM dropped and CR or CRLF line
// breaks rewritten to LF. offsets[i] is the original byte offset of text[i],
// with one trailing entry for the end of input; it is nil when text is the
// input unchanged.
type normalised struct {
	text    string
	offsets []int
}

func normalise(s string) normalised {
	start := 0
	if strings.HasPrefix(s, "\ufeff") {
		start = len("\ufeff")
	}
	if start == 0 && !strings.Contains(s, "\r") {
		return normalised{text: s}
	}

	var b strings.Builder
	b.Grow(len(s) - start)
	offsets := make([]int, 0, len(s)-start+1)
	for i := start; i < len(s); i++ {
		offsets = append(offsets, i)
		if s[i] != '\r' {
			b.WriteByte(s[i])
			continue
		}
		b.WriteByte('\n')
		if i+1 < len(s) && s[i+1] == '\n' {
			i++
		}
	}
	offsets = append(offsets, len(s))
	return normalised{text: b.String(), offsets: offsets}
}

// relocate rewrites spans measured on the normalised text in place so they
// address the original input.
func (n normalised) relocate(spans []domain.Span) {
	if n.offsets == nil {
		return
	}
	for i, sp := range spans {
		spans[i] = domain.Span{Start: n.offsets[sp.Start], End: n.offsets[sp.End]}
	}
}

// candidate is a matched span and the text a pass parses from it.
type candidate struct {
	span domain.Span
	text string
}

// consume parses each candidate in order and claims the accepted ones.
// Candidates already fully claimed by an earlier match are skipped; rejected
// candidates are masked when mask is set.
func consume(b *Buffer, kind domain.FragmentKind, cands []candidate, mask bool, parse func(string) *domain.Fragment) []domain.Fragment {
	var out []domain.Fragment
	for _, c := range cands {
		if c.span.Len() <= 0 || b.Covered(c.span) {
			continue
		}
		frag := parse(c.text)
		if frag.IsEmpty() {
			if mask {
				b.Mask(c.span)
			}
			continue
		}
		frag.Kind = kind
		frag.Spans = b.Claim(c.span)
		out = append(out, *frag)
	}
	return out
}
