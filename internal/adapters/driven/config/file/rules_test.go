package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sandiven/DataVerser/internal/core/domain"
)

func writeRules(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadRules(t *testing.T) {
	path := writeRules(t, `
min_rows = 2
required = ["id", "name"]
key_columns = ["id"]
unique = ["id"]

[[ranges]]
column = "price"
min = 0.0
max = 100.5
`)

	rules, err := LoadRules(path)

	require.NoError(t, err)
	assert.Equal(t, 2, rules.MinRows)
	assert.Equal(t, []string{"id", "name"}, rules.Required)
	assert.Equal(t, []string{"id"}, rules.KeyColumns)
	assert.Equal(t, []string{"id"}, rules.Unique)
	require.Len(t, rules.Ranges, 1)
	assert.Equal(t, "price", rules.Ranges[0].Column)
	require.NotNil(t, rules.Ranges[0].Min)
	assert.InDelta(t, 0.0, *rules.Ranges[0].Min, 1e-9)
	require.NotNil(t, rules.Ranges[0].Max)
	assert.InDelta(t, 100.5, *rules.Ranges[0].Max, 1e-9)
}

func TestLoadRules_UnknownField(t *testing.T) {
	_, err := LoadRules(writeRules(t, `requried = ["id"]`))

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLoadRules_MissingFile(t *testing.T) {
	_, err := LoadRules(filepath.Join(t.TempDir(), "missing.toml"))

	assert.ErrorIs(t, err, os.ErrNotExist)
}
