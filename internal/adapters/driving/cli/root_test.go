package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sandiven/DataVerser/internal/logger"
)

// executeCommand runs the root command with args and returns its output.
func executeCommand(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "dataverser", rootCmd.Use)
}

func TestRootCmd_RegistersCommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"ingest", "extract", "infer", "schema", "logs", "watch", "mcp", "settings", "version"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}

func TestRootCmd_VerboseFlag(t *testing.T) {
	defer func() {
		verbose = false
		logger.SetVerbose(false)
	}()

	_, err := executeCommand("--verbose", "version")

	assert.NoError(t, err)
	assert.True(t, logger.IsVerbose())
}

func TestSetVersion(t *testing.T) {
	original := version
	defer func() { version = original }()

	SetVersion("")
	assert.Equal(t, original, version)

	SetVersion("1.2.3")
	assert.Equal(t, "1.2.3", version)
}

func TestCommands_NotConfigured(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	SetServices(Services{})

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "ingest", args: []string{"ingest", "file.csv"}, want: "ingest service not configured"},
		{name: "extract", args: []string{"extract", "file.csv"}, want: "ingest service not configured"},
		{name: "infer", args: []string{"infer", "file.csv"}, want: "ingest service not configured"},
		{name: "logs", args: []string{"logs"}, want: "ingest service not configured"},
		{name: "watch", args: []string{"watch", "."}, want: "ingest service not configured"},
		{name: "schema history", args: []string{"schema", "history", "orders"}, want: "schema service not configured"},
		{name: "schema sources", args: []string{"schema", "sources"}, want: "schema service not configured"},
		{name: "settings", args: []string{"settings", "show"}, want: "settings service not configured"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := executeCommand(tt.args...)
			assert.EqualError(t, err, tt.want)
		})
	}
}
