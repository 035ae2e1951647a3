package evolution

import (
	"strings"

	"github.com/Sandiven/DataVerser/internal/core/domain"
)

// Similarity scores for rename detection.
const (
	ScoreExact     = 1.0
	ScoreSubstring = 0.8
)

// DetectChanges compares two schemas. With no old schema every new field is
// added. Removed/added pairs that look like renames are moved to Renamed.
func DetectChanges(old *domain.Schema, cur domain.Schema, settings domain.EvolutionSettings) domain.SchemaDiff {
	diff := domain.SchemaDiff{
		Added:    []domain.Field{},
		Removed:  []domain.Field{},
		Modified: []domain.FieldChange{},
		Renamed:  []domain.FieldRename{},
	}

	var oldFields []domain.Field
	if old != nil {
		oldFields = old.Fields
	}
	oldByName := indexFields(oldFields)
	newByName := indexFields(cur.Fields)

	for _, f := range cur.Fields {
		if _, ok := oldByName[f.Name]; !ok {
			diff.Added = append(diff.Added, f)
		}
	}
	for _, f := range oldFields {
		n, ok := newByName[f.Name]
		if !ok {
			diff.Removed = append(diff.Removed, f)
			continue
		}
		if f.Type != n.Type || f.Nullable != n.Nullable {
			diff.Modified = append(diff.Modified, domain.FieldChange{FieldName: f.Name, Old: f, New: n})
		}
	}

	diff.Renamed = detectRenames(diff.Removed, diff.Added, settings)
	if len(diff.Renamed) > 0 {
		oldNames := make(map[string]bool, len(diff.Renamed))
		newNames := make(map[string]bool, len(diff.Renamed))
		for _, r := range diff.Renamed {
			oldNames[r.Old.Name] = true
			newNames[r.New.Name] = true
		}
		diff.Removed = without(diff.Removed, oldNames)
		diff.Added = without(diff.Added, newNames)
	}
	return diff
}

// detectRenames pairs each removed field, in order, with the best-scoring
// unused added field at or above the threshold. Earlier added fields win ties.
func detectRenames(removed, added []domain.Field, settings domain.EvolutionSettings) []domain.FieldRename {
	renames := []domain.FieldRename{}
	used := make(map[string]bool)

	for _, r := range removed {
		best, bestScore := -1, 0.0
		for i, a := range added {
			if used[a.Name] {
				continue
			}
			if settings.RequireSameType && a.Type != r.Type {
				continue
			}
			score := Similarity(r.Name, a.Name)
			if score > bestScore && score >= settings.RenameThreshold {
				best, bestScore = i, score
			}
		}
		if best >= 0 {
			used[added[best].Name] = true
			renames = append(renames, domain.FieldRename{Old: r, New: added[best], Confidence: bestScore})
		}
	}
	return renames
}

// Similarity scores two field names in [0, 1], case-insensitively: 1 for
// equal names, 0.8 when one contains the other, the Jaccard index of their
// underscore-separated tokens when they share one, and otherwise the Jaccard
// index of their character sets.
func Similarity(a, b string) float64 {
	a, b = strings.ToLower(a), strings.ToLower(b)
	switch {
	case a == b:
		return ScoreExact
	case strings.Contains(a, b) || strings.Contains(b, a):
		return ScoreSubstring
	}

	tokensA, tokensB := set(strings.Split(a, "_")), set(strings.Split(b, "_"))
	if intersects(tokensA, tokensB) {
		return jaccard(tokensA, tokensB)
	}
	return jaccard(set(strings.Split(a, "")), set(strings.Split(b, "")))
}

func indexFields(fields []domain.Field) map[string]domain.Field {
	m := make(map[string]domain.Field, len(fields))
	for _, f := range fields {
		m[f.Name] = f
	}
	return m
}

func without(fields []domain.Field, names map[string]bool) []domain.Field {
	out := []domain.Field{}
	for _, f := range fields {
		if !names[f.Name] {
			out = append(out, f)
		}
	}
	return out
}

func set(items []string) map[string]bool {
	m := make(map[string]bool, len(items))
	for _, it := range items {
		m[it] = true
	}
	return m
}

func intersects(a, b map[string]bool) bool {
	for k := range a {
		if b[k] {
			return true
		}
	}
	return false
}

func jaccard(a, b map[string]bool) float64 {
	inter := 0
	for k := range a {
		if b[k] {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
