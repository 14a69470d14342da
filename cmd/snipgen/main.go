package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ormasoftchile/snipgen/pkg/config"
	"github.com/ormasoftchile/snipgen/pkg/logging"
	"github.com/ormasoftchile/snipgen/pkg/report"
	"github.com/ormasoftchile/snipgen/pkg/snippet"
)

// Version is set at build time via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "snipgen",
	Short:        "Generate and run end-to-end tests for editor snippets",
	Long:         "snipgen reads a VS Code snippet file and turns every snippet into an end-to-end test that expands it in an editor and checks the result.",
	SilenceUsage: true,
}

var configFile string

// flagKeys maps command-line flags onto configuration keys. Only flags the
// user actually set override the lower layers.
var flagKeys = map[string]string{
	"snippets":   "snippets",
	"out":        "output",
	"package":    "package",
	"filter":     "filter",
	"driver":     "editor.driver",
	"endpoint":   "editor.endpoint",
	"document":   "editor.document",
	"headless":   "editor.headless",
	"settle":     "editor.settle",
	"validator":  "validator.kind",
	"log-level":  "log.level",
	"log-format": "log.format",
}

// loadConfig resolves the configuration for cmd and builds its logger.
func loadConfig(cmd *cobra.Command) (*config.Config, *log.Logger, error) {
	cliflags := map[string]any{}
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			cliflags[key] = f.Value.String()
		}
	}
	k, err := config.Load(configFile, cliflags)
	if err != nil {
		return nil, nil, err
	}
	cfg, err := config.New(k)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid configuration:\n%w", err)
	}
	logger, err := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// snippetsPath returns the first positional argument, or the configured path.
func snippetsPath(cfg *config.Config, args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return cfg.Snippets
}

// --- validate ---

var validateCmd = &cobra.Command{
	Use:   "validate [snippets-file]",
	Short: "Validate a snippet file against the schema",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	path := snippetsPath(cfg, args)

	col, errs := snippet.ValidateFile(path)
	if n := report.PrintValidation(os.Stderr, errs); n > 0 {
		return fmt.Errorf("validation failed with %d error(s)", n)
	}
	fmt.Printf("✓ %s is valid (%d snippets)\n", filepath.Base(path), col.Len())
	return nil
}

// --- schema ---

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Snippet file schema operations",
}

var schemaExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export JSON Schema to stdout",
	RunE:  runSchemaExport,
}

func runSchemaExport(cmd *cobra.Command, args []string) error {
	data, err := snippet.GenerateJSONSchema()
	if err != nil {
		return fmt.Errorf("generate schema: %w", err)
	}
	var out json.RawMessage = data
	formatted, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(formatted))
	return nil
}

// --- version ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "snipgen %s (build: %s)\n", version, commit)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "Path to a TOML config file (default: ./"+config.DefaultFile+" if present)")
	pf.String("snippets", "", "Snippet file to read")
	pf.String("log-level", "", "Log level: debug, info, warn, error")
	pf.String("log-format", "", "Log format: text, json, logfmt")

	schemaCmd.AddCommand(schemaExportCmd)
	rootCmd.AddCommand(generateCmd, runCmd, validateCmd, listCmd, showCmd, schemaCmd, versionCmd)
}
