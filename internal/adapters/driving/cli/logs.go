package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	logsLimit int
	logsJSON  bool
)

var logsCmd = &cobra.Command{
	Use:   "logs [source-id]",
	Short: "Show ingestion audit events",
	Long:  `Shows recent ingestion events, newest first. Optionally filtered by source.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLogs,
}

func init() {
	logsCmd.Flags().IntVarP(&logsLimit, "limit", "n", 20, "maximum number of events (0 = all)")
	logsCmd.Flags().BoolVar(&logsJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(logsCmd)
}

func runLogs(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	sourceID := ""
	if len(args) > 0 {
		sourceID = args[0]
	}

	events, err := ingestService.Logs(cmd.Context(), sourceID, logsLimit)
	if err != nil {
		return fmt.Errorf("failed to list events: %w", err)
	}

	if logsJSON {
		return printJSON(cmd, events)
	}

	if len(events) == 0 {
		cmd.Println("No events.")
		return nil
	}

	for i := range events {
		e := &events[i]
		cmd.Printf("%s  %-7s  %s  %s\n", e.Timestamp.Format("2006-01-02 15:04:05"), e.Status, e.SourceID, e.Message)
	}
	return nil
}
