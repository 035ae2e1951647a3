package cli

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Sandiven/DataVerser/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure extraction, inference, evolution and storage settings.

Settings are stored in ~/.dataverser/config.toml.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a setting",
	Long: `Set a single setting by its dotted key, for example:

  dataverser settings set evolution.rename_threshold 0.8
  dataverser settings set storage.raw_backend badger`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List setting keys",
	Args:  cobra.NoArgs,
	RunE:  runSettingsKeys,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Extract]")
	cmd.Printf("  Consistency threshold: %.2f\n", settings.Extract.ConsistencyThreshold)
	cmd.Printf("  Min block lines: %d\n", settings.Extract.MinBlockLines)
	cmd.Printf("  Raw text limit: %d\n", settings.Extract.RawTextLimit)
	cmd.Println()

	cmd.Println("[Inference]")
	cmd.Printf("  Sample size: %d\n", settings.Inference.SampleSize)
	cmd.Printf("  Date ratio: %.2f\n", settings.Inference.DateRatio)
	cmd.Printf("  Numeric ratio: %.2f\n", settings.Inference.NumericRatio)
	cmd.Printf("  Example length: %d\n", settings.Inference.ExampleLength)
	cmd.Println()

	cmd.Println("[Evolution]")
	cmd.Printf("  Rename threshold: %.2f\n", settings.Evolution.RenameThreshold)
	cmd.Printf("  Require same type: %s\n", yesNo(settings.Evolution.RequireSameType))
	cmd.Printf("  Max submit retries: %d\n", settings.Evolution.MaxSubmitRetries)
	cmd.Println()

	cmd.Println("[Storage]")
	cmd.Printf("  Backend: %s\n", settings.Storage.Backend.Description())
	cmd.Printf("  Raw backend: %s\n", settings.Storage.RawBackend.Description())
	dataDir := settings.Storage.DataDir
	if dataDir == "" {
		dataDir = "(default)"
	}
	cmd.Printf("  Data dir: %s\n", dataDir)
	cmd.Println()

	cmd.Println("[Migration]")
	cmd.Printf("  Table: %s\n", settings.Migration.Table)
	cmd.Printf("  Collection: %s\n", settings.Migration.Collection)

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		keys := settingsService.Keys()
		if errors.Is(err, domain.ErrInvalidInput) && !slices.Contains(keys, key) {
			return fmt.Errorf("%w\nValid keys: %s", err, strings.Join(keys, ", "))
		}
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	cmd.Printf("Set %s = %s\n", key, value)
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	for _, key := range settingsService.Keys() {
		cmd.Println(key)
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
