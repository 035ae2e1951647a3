package cli

import (
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Sandiven/DataVerser/internal/adapters/driving/watch"
)

var watchSource string

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Ingest files as they appear in a directory",
	Long: `Watches a directory and ingests every file that is created or written.

Each file is ingested into the source named by --source, or into a source
named after the file. Press Ctrl+C to stop.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchSource, "source", "s", "", "source id for every file")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w := watch.New(ingestService, args[0], watch.Options{SourceID: watchSource})
	results := make(chan watch.Result)
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, results) }()

	cmd.Printf("Watching %s (Ctrl+C to stop)\n", args[0])
	for {
		select {
		case err := <-done:
			return err
		case res := <-results:
			if res.Err != nil {
				cmd.PrintErrf("%s: %v\n", res.Path, res.Err)
				continue
			}
			state := "new"
			if res.Result.Reused {
				state = "unchanged"
			}
			cmd.Printf("%s -> %s v%d (%s)\n", res.Path, res.Result.SourceID, res.Result.Version.Version, state)
		}
	}
}
