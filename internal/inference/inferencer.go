package inference

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Sandiven/DataVerser/internal/core/domain"
)

// Confidence scores assigned per evidence class.
const (
	ConfidenceNoEvidence    = 0.5
	ConfidenceNative        = 0.95
	ConfidenceDatePattern   = 0.85
	ConfidenceNumericString = 0.70
	ConfidenceString        = 0.90
	ConfidenceIdentifier    = 0.98
)

// datePatterns are the accepted date shapes, matched as prefixes so that
// timestamps with a time part still count.
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`),
	regexp.MustCompile(`^\d{2}/\d{2}/\d{4}`),
	regexp.MustCompile(`^\d{2}-\d{2}-\d{4}`),
	regexp.MustCompile(`^\d{4}/\d{2}/\d{2}`),
}

// identifierTokens mark a column as an index candidate.
var identifierTokens = map[string]bool{"id": true, "key": true, "pk": true}

// Inferencer classifies one column at a time.
type Inferencer struct {
	settings domain.InferenceSettings
}

// NewInferencer creates an inferencer with the given thresholds.
func NewInferencer(settings domain.InferenceSettings) *Inferencer {
	return &Inferencer{settings: settings}
}

// Infer returns the field descriptor for a named column.
func (in *Inferencer) Infer(name string, values []domain.Value) domain.Field {
	field := domain.Field{Name: name}

	var present []domain.Value
	for _, v := range values {
		if v.IsMissing() {
			field.Nullable = true
			continue
		}
		present = append(present, v)
	}

	if len(present) == 0 {
		field.Type = domain.TypeString
		field.Confidence = ConfidenceNoEvidence
	} else {
		field.ExampleValue = truncate(present[0].String(), in.settings.ExampleLength)
		field.Type, field.Confidence, field.Ambiguous = in.classify(present)
	}

	if IsIdentifier(name) {
		field.SuggestedIndex = true
		if field.Type == domain.TypeString {
			field.Confidence = ConfidenceIdentifier
		}
	}
	return field
}

// classify applies native evidence first, then string heuristics over a
// sample of the values.
func (in *Inferencer) classify(present []domain.Value) (domain.FieldType, float64, bool) {
	if kind, ok := nativeKind(present); ok {
		switch kind {
		case domain.ValueBool:
			return domain.TypeBoolean, ConfidenceNative, false
		case domain.ValueInt:
			return domain.TypeInteger, ConfidenceNative, false
		case domain.ValueFloat:
			return domain.TypeDecimal, ConfidenceNative, false
		case domain.ValueTime:
			return domain.TypeDate, ConfidenceNative, false
		}
	}

	sample := present
	if in.settings.SampleSize > 0 && len(sample) > in.settings.SampleSize {
		sample = sample[:in.settings.SampleSize]
	}

	dates, numbers := 0, 0
	for _, v := range sample {
		s := v.String()
		if LooksLikeDate(s) {
			dates++
		}
		if LooksNumeric(s) {
			numbers++
		}
	}
	n := float64(len(sample))
	switch {
	case float64(dates)/n >= in.settings.DateRatio:
		return domain.TypeDate, ConfidenceDatePattern, false
	case float64(numbers)/n >= in.settings.NumericRatio:
		return domain.TypeDecimal, ConfidenceNumericString, true
	default:
		return domain.TypeString, ConfidenceString, false
	}
}

// nativeKind reports the native kind shared by every value. Integers mixed
// with floats count as floats.
func nativeKind(values []domain.Value) (domain.ValueKind, bool) {
	kind := values[0].Kind
	for _, v := range values[1:] {
		if v.Kind == kind {
			continue
		}
		if (kind == domain.ValueInt && v.Kind == domain.ValueFloat) || (kind == domain.ValueFloat && v.Kind == domain.ValueInt) {
			kind = domain.ValueFloat
			continue
		}
		return 0, false
	}
	return kind, kind != domain.ValueString
}

// LooksLikeDate reports whether s starts with a supported date shape.
func LooksLikeDate(s string) bool {
	s = strings.TrimSpace(s)
	for _, re := range datePatterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// LooksNumeric reports whether s parses as a number once everything but
// digits and the decimal point is stripped.
func LooksNumeric(s string) bool {
	stripped := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, s)
	if stripped == "" {
		return false
	}
	_, err := strconv.ParseFloat(stripped, 64)
	return err == nil
}

// IsIdentifier reports whether a column name contains an identifier-like
// token (id, key, pk) or ends in _id. Tokens split on punctuation, spaces
// and camelCase boundaries, so "paid" is not an identifier but "userId" is.
func IsIdentifier(name string) bool {
	if strings.HasSuffix(strings.ToLower(name), "_id") {
		return true
	}
	for _, tok := range nameTokens(name) {
		if identifierTokens[tok] {
			return true
		}
	}
	return false
}

func nameTokens(name string) []string {
	var (
		tokens []string
		cur    []rune
	)
	flush := func() {
		if len(cur) > 0 {
			tokens = append(tokens, strings.ToLower(string(cur)))
			cur = cur[:0]
		}
	}
	runes := []rune(name)
	for i, r := range runes {
		switch {
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			flush()
		case unicode.IsUpper(r) && i > 0 && unicode.IsLower(runes[i-1]):
			flush()
			cur = append(cur, r)
		default:
			cur = append(cur, r)
		}
	}
	flush()
	return tokens
}

func truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}
