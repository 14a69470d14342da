package runner

import "github.com/ormasoftchile/snipgen/pkg/assertions"

// Case statuses.
const (
	StatusPassed  = "passed"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
	StatusError   = "error"
)

// CaseResult captures the outcome of running one generated case.
type CaseResult struct {
	Name       string               `json:"name"`
	Snippet    string               `json:"snippet"`
	Prefix     string               `json:"prefix"`
	Status     string               `json:"status"` // passed, failed, skipped, error
	DurationMs int64                `json:"duration_ms"`
	Assertions []*assertions.Result `json:"assertions"`
	Error      string               `json:"error,omitempty"`
}

// Summary aggregates results across cases.
type Summary struct {
	Total   int `json:"total"`
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
	Errors  int `json:"errors"`
}

// Output is the top-level JSON structure for snipgen run --json.
type Output struct {
	Source  string       `json:"source,omitempty"`
	Cases   []CaseResult `json:"cases"`
	Summary Summary      `json:"summary"`
}

// Failed reports whether any case failed or errored.
func (o *Output) Failed() bool {
	return o.Summary.Failed > 0 || o.Summary.Errors > 0
}

// HasFailures returns true if any assertion result did not pass.
func HasFailures(results []*assertions.Result) bool {
	for _, r := range results {
		if !r.Passed {
			return true
		}
	}
	return false
}
