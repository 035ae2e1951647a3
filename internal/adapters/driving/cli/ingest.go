package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Sandiven/DataVerser/internal/core/domain"
	"github.com/Sandiven/DataVerser/internal/core/ports/driving"
)

var (
	ingestSource   string
	ingestRequired []string
	ingestKeys     []string
	ingestUnique   []string
	ingestMinRows  int
	ingestRules    string
	ingestJSON     bool
	extractJSON    bool
	inferJSON      bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file]",
	Short: "Ingest a document and version its schema",
	Long: `Extracts fragments from a document, validates them, infers a schema and
stores it as the next version of the source when it changed.

The source defaults to the file name. Use "-" to read from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Show the fragments found in a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtract,
}

var inferCmd = &cobra.Command{
	Use:   "infer [file]",
	Short: "Infer a schema without storing it",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfer,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestSource, "source", "s", "", "source id (defaults to the file name)")
	ingestCmd.Flags().StringSliceVar(&ingestRequired, "require", nil, "columns that must be present")
	ingestCmd.Flags().StringSliceVar(&ingestKeys, "key", nil, "columns that must have no missing values")
	ingestCmd.Flags().StringSliceVar(&ingestUnique, "unique", nil, "columns whose values must not repeat")
	ingestCmd.Flags().IntVar(&ingestMinRows, "min-rows", 0, "minimum number of records")
	ingestCmd.Flags().StringVar(&ingestRules, "rules", "", "TOML file with validation rules")
	ingestCmd.Flags().BoolVar(&ingestJSON, "json", false, "output result as JSON")
	extractCmd.Flags().BoolVar(&extractJSON, "json", false, "output fragments as JSON")
	inferCmd.Flags().BoolVar(&inferJSON, "json", false, "output schema as JSON")
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(inferCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	name, content, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}

	rules, err := ingestRulesFromFlags()
	if err != nil {
		return err
	}

	result, err := ingestService.Ingest(cmd.Context(), driving.IngestRequest{
		SourceID: ingestSource,
		Filename: name,
		Content:  content,
		Rules:    rules,
	})
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	if ingestJSON {
		return printJSON(cmd, result)
	}

	state := "new"
	if result.Reused {
		state = "unchanged"
	}
	cmd.Printf("Ingested %s into source %q\n", name, result.SourceID)
	cmd.Printf("  Schema version: %d (%s)\n", result.Version.Version, state)
	cmd.Printf("  Records: %d\n", result.RecordCount)
	if c := result.Cleaning; c.Total() > 0 {
		cmd.Printf("  Cleaned: %d duplicate row(s), %d empty row(s), %d empty column(s) dropped\n",
			c.DuplicatesDropped, c.EmptyRowsDropped, c.EmptyColumnsDropped)
	}
	cmd.Printf("  Fragments: %s\n", formatSummary(result.Summary))
	if result.Upload != nil {
		cmd.Printf("  Content hash: %s\n", result.Upload.ContentHash)
	}
	if !result.Reused {
		cmd.Printf("  Changes: %s\n", result.Version.MigrationNotes)
	}
	return nil
}

// ingestRulesFromFlags merges the rules file with the inline flags.
func ingestRulesFromFlags() (*domain.ValidationRules, error) {
	rules := &domain.ValidationRules{}
	if ingestRules != "" {
		if rulesLoader == nil {
			return nil, errors.New("rules loader not configured")
		}
		loaded, err := rulesLoader(ingestRules)
		if err != nil {
			return nil, fmt.Errorf("failed to load rules: %w", err)
		}
		rules = loaded
	}

	rules.Required = append(rules.Required, ingestRequired...)
	rules.KeyColumns = append(rules.KeyColumns, ingestKeys...)
	rules.Unique = append(rules.Unique, ingestUnique...)
	if ingestMinRows > 0 {
		rules.MinRows = ingestMinRows
	}

	if rules.IsZero() {
		return nil, nil
	}
	return rules, nil
}

func runExtract(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	name, content, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}

	extraction, err := ingestService.Extract(cmd.Context(), name, content)
	if err != nil {
		return fmt.Errorf("extract failed: %w", err)
	}

	if extractJSON {
		views := make([]fragmentView, len(extraction.Fragments))
		for i := range extraction.Fragments {
			views[i] = newFragmentView(extraction.Fragments[i])
		}
		return printJSON(cmd, struct {
			Fragments []fragmentView       `json:"fragments"`
			Summary   domain.FragmentSummary `json:"summary"`
		}{views, extraction.Summary})
	}

	if len(extraction.Fragments) == 0 {
		cmd.Println("No fragments found.")
		return nil
	}

	cmd.Printf("Fragments in %s: %s\n\n", name, formatSummary(extraction.Summary))
	for i, frag := range extraction.Fragments {
		cmd.Printf("  [%d] %s (%d rows)\n", i+1, frag.Kind, len(frag.Rows))
		cmd.Printf("      Columns: %s\n", strings.Join(frag.Columns, ", "))
	}
	return nil
}

func runInfer(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	name, content, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}

	schema, err := ingestService.Infer(cmd.Context(), name, content)
	if err != nil {
		return fmt.Errorf("infer failed: %w", err)
	}

	if inferJSON {
		return printJSON(cmd, schema)
	}

	cmd.Printf("Schema for %s (%d records)\n\n", name, schema.RecordCount)
	printFields(cmd, schema)
	return nil
}

// fragmentView renders a fragment as records for JSON output.
type fragmentView struct {
	Kind    string           `json:"kind"`
	Columns []string         `json:"columns"`
	Records []map[string]any `json:"records"`
}

func newFragmentView(frag domain.Fragment) fragmentView {
	view := fragmentView{
		Kind:    frag.Kind.String(),
		Columns: frag.Columns,
		Records: make([]map[string]any, len(frag.Rows)),
	}
	for i, row := range frag.Rows {
		rec := make(map[string]any, len(frag.Columns))
		for j, col := range frag.Columns {
			rec[col] = row[j].Interface()
		}
		view.Records[i] = rec
	}
	return view
}

func printFields(cmd *cobra.Command, schema *domain.Schema) {
	for _, f := range schema.Fields {
		flags := ""
		if f.Nullable {
			flags += " nullable"
		}
		if f.SuggestedIndex {
			flags += " indexed"
		}
		if f.Ambiguous {
			flags += " ambiguous"
		}
		cmd.Printf("  %-24s %-8s %.2f%s\n", f.Name, f.Type, f.Confidence, flags)
	}
	if len(schema.PrimaryKeyCandidates) > 0 {
		cmd.Printf("\n  Primary key candidates: %s\n", strings.Join(schema.PrimaryKeyCandidates, ", "))
	}
}

func formatSummary(s domain.FragmentSummary) string {
	return fmt.Sprintf("json=%d html=%d csv=%d kv=%d frontmatter=%d raw=%d",
		s.JSONFragments, s.HTMLTables, s.CSVFragments, s.KVPairs, s.FrontMatter, s.RawText)
}

// readInput reads a file argument, or stdin for "-".
func readInput(cmd *cobra.Command, path string) (string, []byte, error) {
	if path == "-" {
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return "", content, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return filepath.Base(path), content, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
