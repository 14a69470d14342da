// Package suite turns a snippet collection into structured test-case
// descriptors and serialises them as a Go end-to-end test file.
package suite

import (
	"fmt"
	"strings"
	"time"

	"github.com/ormasoftchile/snipgen/pkg/snippet"
)

// StepText is the synthetic content typed at tab stop i (1-based).
const StepText = "test-content-%d"

// Step types Text at the current tab stop and then presses Key to advance.
type Step struct {
	Text string `json:"text"`
	Key  string `json:"key"`
}

// Case describes the test generated for one snippet.
type Case struct {
	Name         string   `json:"name"`
	Snippet      string   `json:"snippet"`
	Prefix       string   `json:"prefix"`
	Scope        string   `json:"scope,omitempty"`
	Checks       []string `json:"checks"`
	Placeholders int      `json:"placeholders"`
	Steps        []Step   `json:"steps"`
}

// Suite is the full set of generated cases plus the settings the emitted
// test file needs to drive an editor.
type Suite struct {
	Package    string        `json:"package"`
	Source     string        `json:"source,omitempty"`
	Document   string        `json:"document"`
	TriggerKey string        `json:"trigger_key"`
	Settle     time.Duration `json:"settle"`
	Cases      []Case        `json:"cases"`
}

// Options controls Build.
type Options struct {
	Package    string        // package clause of the emitted file
	Source     string        // snippet file name recorded in the header
	Document   string        // URI opened before each case
	TriggerKey string        // key pressed after typing a prefix
	Settle     time.Duration // wait after insertion
	Filter     string        // optional expr boolean, see Filter
}

// DefaultOptions mirrors the configuration defaults.
func DefaultOptions() Options {
	return Options{
		Package:    "e2e",
		Document:   "vscode://file/test.html",
		TriggerKey: "Tab",
		Settle:     500 * time.Millisecond,
	}
}

// Build derives one Case per snippet, in collection order.
func Build(col *snippet.Collection, opts Options) (*Suite, error) {
	def := DefaultOptions()
	if opts.Package == "" {
		opts.Package = def.Package
	}
	if opts.Document == "" {
		opts.Document = def.Document
	}
	if opts.TriggerKey == "" {
		opts.TriggerKey = def.TriggerKey
	}

	filter, err := NewFilter(opts.Filter)
	if err != nil {
		return nil, err
	}

	s := &Suite{
		Package:    opts.Package,
		Source:     opts.Source,
		Document:   opts.Document,
		TriggerKey: opts.TriggerKey,
		Settle:     opts.Settle,
		Cases:      []Case{},
	}
	for _, e := range col.Entries() {
		ok, err := filter.Match(e)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		s.Cases = append(s.Cases, NewCase(e.Name, e.Snippet))
	}
	return s, nil
}

// NewCase builds the descriptor for a single snippet.
func NewCase(name string, s snippet.Snippet) Case {
	n := snippet.CountPlaceholders(s.Body)
	return Case{
		Name:         fmt.Sprintf("%s snippet - %s", name, s.Prefix),
		Snippet:      name,
		Prefix:       s.Prefix,
		Scope:        s.Scope,
		Checks:       ContentChecks(s.Body),
		Placeholders: n,
		Steps:        TabStopSteps(n),
	}
}

// ContentChecks returns one literal containment check per non-blank body
// line, with placeholders replaced by their defaults and outer whitespace
// trimmed. Repeated lines give repeated checks.
func ContentChecks(body []string) []string {
	checks := []string{}
	for _, line := range body {
		if strings.TrimSpace(line) == "" {
			continue
		}
		checks = append(checks, strings.TrimSpace(snippet.StripPlaceholders(line)))
	}
	return checks
}

// TabStopSteps returns n steps, each typing a distinct token and pressing Tab.
func TabStopSteps(n int) []Step {
	steps := []Step{}
	for i := 1; i <= n; i++ {
		steps = append(steps, Step{Text: fmt.Sprintf(StepText, i), Key: "Tab"})
	}
	return steps
}
