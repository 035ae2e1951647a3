package extract

import (
	"sort"

	"github.com/Sandiven/DataVerser/internal/core/domain"
)

// Buffer holds the original text, a working copy in which claimed and masked
// spans are blanked, and the set of claimed spans.
// Blanking keeps every byte offset and line number of the original.
type Buffer struct {
	original string
	working  []byte
	claims   []domain.Span // sorted, disjoint
}

// NewBuffer creates a buffer over text.
func NewBuffer(text string) *Buffer {
	return &Buffer{
		original: text,
		working:  []byte(text),
	}
}

// Original returns the unmodified text.
func (b *Buffer) Original() string {
	return b.original
}

// Working returns the text with claimed and masked spans blanked.
func (b *Buffer) Working() string {
	return string(b.working)
}

// Len returns the length of the text in bytes.
func (b *Buffer) Len() int {
	return len(b.original)
}

// Claims returns a copy of the claimed spans in ascending order.
func (b *Buffer) Claims() []domain.Span {
	out := make([]domain.Span, len(b.claims))
	copy(out, b.claims)
	return out
}

// IsClaimed reports whether any byte of s is claimed.
func (b *Buffer) IsClaimed(s domain.Span) bool {
	i := sort.Search(len(b.claims), func(i int) bool { return b.claims[i].End > s.Start })
	return i < len(b.claims) && b.claims[i].Start < s.End
}

// Covered reports whether every byte of s is claimed.
func (b *Buffer) Covered(s domain.Span) bool {
	return len(b.gaps(s)) == 0
}

// Claim claims the unclaimed parts of s, blanks them in the working copy and
// returns the newly claimed gaps.
func (b *Buffer) Claim(s domain.Span) []domain.Span {
	s = b.clamp(s)
	gaps := b.gaps(s)
	for _, g := range gaps {
		b.blank(g)
		b.insert(g)
	}
	return gaps
}

// Mask blanks the unclaimed parts of s without claiming them.
// Masked text belongs to no fragment.
func (b *Buffer) Mask(s domain.Span) {
	for _, g := range b.gaps(b.clamp(s)) {
		b.blank(g)
	}
}

func (b *Buffer) clamp(s domain.Span) domain.Span {
	if s.Start < 0 {
		s.Start = 0
	}
	if s.End > len(b.working) {
		s.End = len(b.working)
	}
	if s.End < s.Start {
		s.End = s.Start
	}
	return s
}

// gaps returns the unclaimed sub-spans of s.
func (b *Buffer) gaps(s domain.Span) []domain.Span {
	var out []domain.Span
	pos := s.Start
	for _, c := range b.claims {
		if c.End <= pos {
			continue
		}
		if c.Start >= s.End {
			break
		}
		if c.Start > pos {
			out = append(out, domain.Span{Start: pos, End: c.Start})
		}
		pos = c.End
	}
	if pos < s.End {
		out = append(out, domain.Span{Start: pos, End: s.End})
	}
	return out
}

func (b *Buffer) insert(s domain.Span) {
	i := sort.Search(len(b.claims), func(i int) bool { return b.claims[i].Start >= s.Start })
	b.claims = append(b.claims, domain.Span{})
	copy(b.claims[i+1:], b.claims[i:])
	b.claims[i] = s
}

// blank replaces every byte except line breaks with a space.
func (b *Buffer) blank(s domain.Span) {
	for i := s.Start; i < s.End; i++ {
		if b.working[i] != '\n' && b.working[i] != '\r' {
			b.working[i] = ' '
		}
	}
}
