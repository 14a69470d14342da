package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ormasoftchile/snipgen/pkg/editor"
	"github.com/ormasoftchile/snipgen/pkg/htmlcheck"
	"github.com/ormasoftchile/snipgen/pkg/report"
	"github.com/ormasoftchile/snipgen/pkg/runner"
	"github.com/ormasoftchile/snipgen/pkg/snippet"
	"github.com/ormasoftchile/snipgen/pkg/suite"
)

var (
	runJSON        bool
	runFailFast    bool
	runValidateOut bool
	runCaseTimeout string
)

var runCmd = &cobra.Command{
	Use:   "run [snippets-file]",
	Short: "Run the generated cases directly against an editor",
	Long: `Run builds the same cases as generate and executes them one by one, each in
a fresh editor session, without compiling a test file.

The sim driver runs without a browser and is useful for checking a snippet
file in CI.

Exit codes:
  0: all cases passed
  1: at least one case failed or errored
  2: the snippet file could not be loaded (no cases ran)`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	path := snippetsPath(cfg, args)

	timeout, err := time.ParseDuration(runCaseTimeout)
	if err != nil {
		return fmt.Errorf("invalid --case-timeout %q: %w", runCaseTimeout, err)
	}

	col, err := snippet.LoadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "  ✗ %s: %v\n", path, err)
		os.Exit(2)
	}
	opts := cfg.SuiteOptions()
	opts.Source = filepath.Base(path)
	s, err := suite.Build(col, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "  ✗ %s: %v\n", path, err)
		os.Exit(2)
	}

	r := &runner.Runner{
		Open: func(ctx context.Context) (editor.Session, error) {
			return editor.Open(ctx, cfg.EditorOptions(col))
		},
		Logger:   logger,
		Timeout:  timeout,
		FailFast: runFailFast,
	}
	if runValidateOut {
		vopts := cfg.ValidatorOptions()
		vopts.Logger = logger
		v, err := htmlcheck.New(vopts)
		if err != nil {
			return err
		}
		r.Validator = v
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	logger.Info("running suite", "source", s.Source, "cases", len(s.Cases), "driver", cfg.Editor.Driver)
	output := r.RunAll(ctx, s)

	if runJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(output); err != nil {
			return err
		}
	} else {
		report.PrintRunOutput(cmd.OutOrStdout(), output)
	}

	if output.Failed() {
		os.Exit(1)
	}
	return nil
}

func init() {
	f := runCmd.Flags()
	f.BoolVar(&runJSON, "json", false, "Output results as structured JSON")
	f.BoolVar(&runFailFast, "fail-fast", false, "Stop after first failure")
	f.BoolVar(&runValidateOut, "validate", false, "Also check that each expanded document is valid HTML")
	f.StringVar(&runCaseTimeout, "case-timeout", "2m", "Per-case timeout (0 for none)")
	f.String("filter", "", "Only run cases for snippets matching this expr")
	f.String("driver", "", "Editor driver: playwright, chromedp, sim")
	f.String("endpoint", "", "CDP endpoint of a running editor to attach to")
	f.String("document", "", "Document URI opened before each case")
	f.Bool("headless", true, "Run a launched browser headless")
	f.String("settle", "", "Wait after inserting a snippet (e.g. 500ms)")
	f.String("validator", "", "HTML validator for --validate: local or nu")
}
