package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Sandiven/DataVerser/internal/core/domain"
)

var (
	schemaJSON    bool
	schemaVersion int
	migrateFrom   int
	migrateTo     int
	migrateTarget string
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Inspect versioned schemas",
	Long:  `Commands for listing schema history and generating migrations.`,
}

var schemaHistoryCmd = &cobra.Command{
	Use:   "history [source-id]",
	Short: "List the schema versions of a source",
	Args:  cobra.ExactArgs(1),
	RunE:  runSchemaHistory,
}

var schemaShowCmd = &cobra.Command{
	Use:   "show [source-id]",
	Short: "Show a schema version",
	Long:  `Shows the fields of a schema version. Defaults to the latest version.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runSchemaShow,
}

var schemaMigrateCmd = &cobra.Command{
	Use:   "migrate [source-id]",
	Short: "Generate a migration between two versions",
	Long: `Generates a migration script between two schema versions.

Targets:
  postgresql - ALTER TABLE statements, renames first
  mongodb    - $rename/$unset update scripts

Use --from 0 to generate the statement that creates the target from scratch.`,
	Args: cobra.ExactArgs(1),
	RunE: runSchemaMigrate,
}

var schemaSourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List sources with schema history",
	Args:  cobra.NoArgs,
	RunE:  runSchemaSources,
}

func init() {
	schemaHistoryCmd.Flags().BoolVar(&schemaJSON, "json", false, "output as JSON")
	schemaShowCmd.Flags().IntVar(&schemaVersion, "version", 0, "version to show (0 = latest)")
	schemaShowCmd.Flags().BoolVar(&schemaJSON, "json", false, "output as JSON")
	schemaMigrateCmd.Flags().IntVar(&migrateFrom, "from", 0, "version to migrate from")
	schemaMigrateCmd.Flags().IntVar(&migrateTo, "to", 0, "version to migrate to (0 = latest)")
	schemaMigrateCmd.Flags().StringVarP(&migrateTarget, "target", "t", string(domain.TargetPostgreSQL),
		"migration target (postgresql, mongodb)")
	schemaSourcesCmd.Flags().BoolVar(&schemaJSON, "json", false, "output as JSON")

	schemaCmd.AddCommand(schemaHistoryCmd)
	schemaCmd.AddCommand(schemaShowCmd)
	schemaCmd.AddCommand(schemaMigrateCmd)
	schemaCmd.AddCommand(schemaSourcesCmd)
	rootCmd.AddCommand(schemaCmd)
}

func runSchemaHistory(cmd *cobra.Command, args []string) error {
	if schemaService == nil {
		return errors.New("schema service not configured")
	}

	versions, err := schemaService.History(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get history: %w", err)
	}

	if schemaJSON {
		return printJSON(cmd, versions)
	}

	if len(versions) == 0 {
		cmd.Printf("No schema history for %q.\n", args[0])
		return nil
	}

	cmd.Printf("Schema history for %q:\n\n", args[0])
	for i := range versions {
		v := &versions[i]
		cmd.Printf("  v%d  %s  %d fields\n", v.Version, v.CreatedAt.Format("2006-01-02 15:04:05"), len(v.Schema.Fields))
		cmd.Printf("      %s\n", v.MigrationNotes)
	}
	return nil
}

func runSchemaShow(cmd *cobra.Command, args []string) error {
	if schemaService == nil {
		return errors.New("schema service not configured")
	}

	var (
		v   *domain.SchemaVersion
		err error
	)
	if schemaVersion > 0 {
		v, err = schemaService.Version(cmd.Context(), args[0], schemaVersion)
	} else {
		v, err = schemaService.Latest(cmd.Context(), args[0])
	}
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("no schema found for %q", args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to get schema: %w", err)
	}

	if schemaJSON {
		return printJSON(cmd, v)
	}

	cmd.Printf("Source: %s\n", v.SourceID)
	cmd.Printf("Version: %d\n", v.Version)
	cmd.Printf("Schema ID: %s\n", v.Schema.ID)
	cmd.Printf("Records: %d\n", v.Schema.RecordCount)
	cmd.Printf("Created: %s\n", v.CreatedAt.Format("2006-01-02 15:04:05"))
	cmd.Println()
	printFields(cmd, &v.Schema)
	return nil
}

func runSchemaMigrate(cmd *cobra.Command, args []string) error {
	if schemaService == nil {
		return errors.New("schema service not configured")
	}

	target := domain.MigrationTarget(strings.ToLower(migrateTarget))
	if !target.IsValid() {
		return fmt.Errorf("invalid target %q (use postgresql or mongodb)", migrateTarget)
	}

	to := migrateTo
	if to == 0 {
		latest, err := schemaService.Latest(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to get latest version: %w", err)
		}
		to = latest.Version
	}

	migration, err := schemaService.GenerateMigration(cmd.Context(), args[0], migrateFrom, to, target)
	if err != nil {
		return fmt.Errorf("failed to generate migration: %w", err)
	}

	cmd.Println(migration)
	return nil
}

func runSchemaSources(cmd *cobra.Command, _ []string) error {
	if schemaService == nil {
		return errors.New("schema service not configured")
	}

	sources, err := schemaService.Sources(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list sources: %w", err)
	}

	if schemaJSON {
		return printJSON(cmd, sources)
	}

	if len(sources) == 0 {
		cmd.Println("No sources yet.")
		return nil
	}
	for _, id := range sources {
		cmd.Println(id)
	}
	return nil
}
