// Package cli provides the DataVerser command-line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/Sandiven/DataVerser/internal/core/domain"
	"github.com/Sandiven/DataVerser/internal/core/ports/driving"
	"github.com/Sandiven/DataVerser/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var verbose bool

// Services configured by SetServices.
var (
	ingestService   driving.IngestService
	schemaService   driving.SchemaService
	settingsService driving.SettingsService
	rulesLoader     RulesLoader
)

// RulesLoader reads validation rules from a file.
type RulesLoader func(path string) (*domain.ValidationRules, error)

// Services bundles the driving ports the commands use.
type Services struct {
	Ingest   driving.IngestService
	Schema   driving.SchemaService
	Settings driving.SettingsService
	Rules    RulesLoader
}

var rootCmd = &cobra.Command{
	Use:   "dataverser",
	Short: "Infer and version schemas from mixed-format documents",
	Long: `DataVerser decomposes mixed-format documents (JSON, HTML tables,
CSV/TSV, key/value lines, front matter) into table-like fragments, infers a
field-level schema, and keeps a versioned schema history per source with
rename detection and PostgreSQL/MongoDB migration generation.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// SetServices wires the services used by the commands.
func SetServices(s Services) {
	ingestService = s.Ingest
	schemaService = s.Schema
	settingsService = s.Settings
	rulesLoader = s.Rules
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
