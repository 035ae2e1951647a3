package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sandiven/DataVerser/internal/core/domain"
)

func TestFrontMatterBlock(t *testing.T) {
	c, ok := frontMatterBlock("---\na: 1\n---\nbody")
	require.True(t, ok)
	assert.Equal(t, domain.Span{Start: 0, End: 13}, c.span)
	assert.Equal(t, "a: 1\n", c.text)

	_, ok = frontMatterBlock("intro\n---\na: 1\n---\n")
	assert.False(t, ok, "marker must be on the first line")

	_, ok = frontMatterBlock("---\na: 1\n")
	assert.False(t, ok, "closing marker required")
}

func TestParseFrontMatter_YAML(t *testing.T) {
	frag := parseFrontMatter("title: \"Q3 report\"\ndraft: false\nscore: 4.5\ntags: [finance, quarterly]\nauthor:\n  name: Ana\n  id: 12\nempty:\n")
	require.NotNil(t, frag)

	assert.Equal(t, []string{"title", "draft", "score", "tags", "author.name", "author.id", "empty"}, frag.Columns)
	assert.Equal(t, []domain.Value{
		domain.Text("Q3 report"),
		domain.Bool(false),
		domain.Float(4.5),
		domain.Text("finance, quarterly"),
		domain.Text("Ana"),
		domain.Int(12),
		domain.Missing(),
	}, frag.Rows[0])
}

func TestParseFrontMatter_Timestamp(t *testing.T) {
	frag := parseFrontMatter("published: !!timestamp 2024-03-01\n")
	require.NotNil(t, frag)

	v := frag.Rows[0][0]
	require.Equal(t, domain.ValueTime, v.Kind)
	assert.True(t, v.Time.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
}

func TestParseFrontMatter_FallbackOnInvalidYAML(t *testing.T) {
	frag := parseFrontMatter("title: Report: Q3\nlist: [\"a\", 'b']\n")
	require.NotNil(t, frag)

	assert.Equal(t, []string{"title", "list"}, frag.Columns)
	assert.Equal(t, []domain.Value{
		domain.Text("Report: Q3"),
		domain.Text("a, b"),
	}, frag.Rows[0])
}
