package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ormasoftchile/snipgen/pkg/report"
	"github.com/ormasoftchile/snipgen/pkg/snippet"
)

var showWidth int

var listCmd = &cobra.Command{
	Use:   "list [snippets-file]",
	Short: "List snippets with their prefixes and placeholder counts",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		col, err := snippet.LoadFile(snippetsPath(cfg, args))
		if err != nil {
			return err
		}
		report.PrintList(cmd.OutOrStdout(), col)
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show NAME|PREFIX [snippets-file]",
	Short: "Describe one snippet and the checks generated for it",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		col, err := snippet.LoadFile(snippetsPath(cfg, args[1:]))
		if err != nil {
			return err
		}
		e, ok := lookup(col, args[0])
		if !ok {
			return fmt.Errorf("no snippet named or prefixed %q", args[0])
		}
		fmt.Fprintln(cmd.OutOrStdout(), report.RenderMarkdown(report.SnippetMarkdown(e), showWidth))
		return nil
	},
}

// lookup finds a snippet by name, falling back to its prefix.
func lookup(col *snippet.Collection, key string) (snippet.Entry, bool) {
	if s, ok := col.Get(key); ok {
		return snippet.Entry{Name: key, Snippet: s}, true
	}
	return col.FindByPrefix(key)
}

func init() {
	showCmd.Flags().IntVar(&showWidth, "width", 80, "Wrap width for rendered output")
}
