package report

import (
	"fmt"
	"io"

	"github.com/ormasoftchile/snipgen/pkg/runner"
	"github.com/ormasoftchile/snipgen/pkg/snippet"
)

// PrintRunOutput writes a human-readable summary of a run.
func PrintRunOutput(w io.Writer, output *runner.Output) {
	title := output.Source
	if title == "" {
		title = "snippets"
	}
	fmt.Fprintf(w, "\n  %s\n", titleStyle.Render(title))
	for _, c := range output.Cases {
		switch c.Status {
		case runner.StatusPassed:
			fmt.Fprintf(w, "    %s %-40s %s\n", passedStyle.Render(GlyphPassed), c.Name, dimStyle.Render(fmt.Sprintf("%dms", c.DurationMs)))
		case runner.StatusFailed:
			fmt.Fprintf(w, "    %s %-40s %s\n", failedStyle.Render(GlyphFailed), c.Name, dimStyle.Render(fmt.Sprintf("%dms", c.DurationMs)))
			for _, a := range c.Assertions {
				if !a.Passed {
					fmt.Fprintf(w, "        %s: %s\n", a.Type, a.Message)
				}
			}
		case runner.StatusSkipped:
			fmt.Fprintf(w, "    %s %-40s %s\n", skippedStyle.Render(GlyphSkipped), c.Name, skippedStyle.Render(c.Error))
		case runner.StatusError:
			fmt.Fprintf(w, "    %s %-40s ERROR: %s\n", failedStyle.Render(GlyphFailed), c.Name, c.Error)
		}
	}
	fmt.Fprintf(w, "\n  %d cases, %d passed, %d failed, %d skipped\n",
		output.Summary.Total, output.Summary.Passed, output.Summary.Failed, output.Summary.Skipped)
	if output.Summary.Errors > 0 {
		fmt.Fprintf(w, "  %s\n", failedStyle.Render(fmt.Sprintf("%d errors", output.Summary.Errors)))
	}
}

// PrintValidation writes warnings and then numbered errors. It returns the
// number of errors.
func PrintValidation(w io.Writer, errs []*snippet.ValidationError) int {
	var errors []*snippet.ValidationError
	for _, e := range errs {
		if e.Severity == "warning" {
			fmt.Fprintf(w, "  %s [%s] %s\n", warningStyle.Render(GlyphWarning), e.Phase, e.Message)
			if e.Path != "" {
				fmt.Fprintf(w, "    at: %s\n", e.Path)
			}
			continue
		}
		errors = append(errors, e)
	}
	if len(errors) > 0 {
		fmt.Fprintf(w, "%s\n\n", failedStyle.Render(fmt.Sprintf("Validation failed: %d error(s)", len(errors))))
		for i, e := range errors {
			fmt.Fprintf(w, "  %d. [%s] %s\n", i+1, e.Phase, e.Message)
			if e.Path != "" {
				fmt.Fprintf(w, "     at: %s\n", e.Path)
			}
		}
	}
	return len(errors)
}
