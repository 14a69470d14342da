package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ormasoftchile/snipgen/pkg/snippet"
	"github.com/ormasoftchile/snipgen/pkg/suite"
)

var generateFormat string

var generateCmd = &cobra.Command{
	Use:   "generate [snippets-file]",
	Short: "Generate the end-to-end test file for a snippet file",
	Long: `Generate reads the snippet file and writes one test case per snippet.

Each case types the snippet prefix, presses the trigger key, checks that every
non-blank body line (placeholders replaced by their defaults) is present, then
types text into each placeholder.

The output file is fully replaced on every run. When the snippet file cannot
be loaded nothing is written. Use --out - to write to stdout. With --format
json a .go output path is written as .json instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	path := snippetsPath(cfg, args)

	col, err := snippet.LoadFile(path)
	if err != nil {
		logger.Error("loading snippets", "path", path, "err", err)
		return err
	}

	opts := cfg.SuiteOptions()
	opts.Source = filepath.Base(path)
	s, err := suite.Build(col, opts)
	if err != nil {
		return err
	}
	logger.Debug("built suite", "snippets", col.Len(), "cases", len(s.Cases))

	out := cfg.Output
	switch generateFormat {
	case "go":
		if out == "-" {
			return suite.Emit(cmd.OutOrStdout(), s)
		}
		if err := suite.WriteFile(out, s); err != nil {
			return err
		}
	case "json":
		if out == "-" {
			return suite.EncodeJSON(cmd.OutOrStdout(), s)
		}
		out = jsonPath(out)
		if err := writeJSON(out, s); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format %q, use 'go' or 'json'", generateFormat)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ generated %d test cases → %s\n", len(s.Cases), out)
	return nil
}

// jsonPath swaps a .go extension for .json so descriptors never land in a
// file the Go toolchain would compile.
func jsonPath(path string) string {
	if strings.HasSuffix(path, ".go") {
		return strings.TrimSuffix(path, ".go") + ".json"
	}
	return path
}

func writeJSON(path string, s *suite.Suite) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := suite.EncodeJSON(f, s); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func init() {
	f := generateCmd.Flags()
	f.StringVar(&generateFormat, "format", "go", "Output format: go or json")
	f.String("out", "", "Output path (- for stdout; .go becomes .json with --format json)")
	f.String("package", "", "Package clause of the generated file")
	f.String("filter", "", "Only generate cases for snippets matching this expr, e.g. 'scope == \"html\"'")
	f.String("document", "", "Document URI opened before each case")
	f.String("settle", "", "Wait after inserting a snippet (e.g. 500ms)")
}
