package cli

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats [source-id]",
	Short: "Show ingestion statistics",
	Long: `Shows total runs, success rate, records ingested by successful runs and
the active schema version of each source. Optionally limited to one source.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	sourceID := ""
	if len(args) > 0 {
		sourceID = args[0]
	}

	stats, err := ingestService.Stats(cmd.Context(), sourceID)
	if err != nil {
		return fmt.Errorf("failed to compute stats: %w", err)
	}

	if statsJSON {
		return printJSON(cmd, stats)
	}

	cmd.Printf("Runs: %d (%d succeeded, %d failed)\n", stats.TotalRuns, stats.SuccessfulRuns, stats.FailedRuns)
	cmd.Printf("Success rate: %.1f%%\n", stats.SuccessRate)
	cmd.Printf("Records: %d\n", stats.TotalRecords)
	if !stats.LastRun.IsZero() {
		cmd.Printf("Last run: %s\n", stats.LastRun.Format("2006-01-02 15:04:05"))
	}

	if len(stats.ActiveVersions) == 0 {
		return nil
	}
	cmd.Println("\nActive schema versions:")
	sources := make([]string, 0, len(stats.ActiveVersions))
	for src := range stats.ActiveVersions {
		sources = append(sources, src)
	}
	slices.Sort(sources)
	for _, src := range sources {
		cmd.Printf("  %-20s v%d\n", src, stats.ActiveVersions[src])
	}
	return nil
}
