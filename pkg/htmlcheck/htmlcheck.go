// Package htmlcheck validates HTML produced by snippet expansion.
package htmlcheck

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
)

// Validator kinds accepted by New.
const (
	KindLocal = "local"
	KindNu    = "nu"
)

// Message severities.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// Message is a single validator finding.
type Message struct {
	Severity string `json:"severity"`
	Line     int    `json:"line,omitempty"`
	Text     string `json:"text"`
}

func (m Message) String() string {
	if m.Line > 0 {
		return fmt.Sprintf("%s: line %d: %s", m.Severity, m.Line, m.Text)
	}
	return fmt.Sprintf("%s: %s", m.Severity, m.Text)
}

// Result is the outcome of validating one document.
type Result struct {
	Valid    bool      `json:"valid"`
	Messages []Message `json:"messages"`
}

// Errors returns only the error-level messages.
func (r *Result) Errors() []Message {
	var out []Message
	for _, m := range r.Messages {
		if m.Severity == SeverityError {
			out = append(out, m)
		}
	}
	return out
}

// Summary joins the error messages into one line.
func (r *Result) Summary() string {
	errs := r.Errors()
	parts := make([]string, len(errs))
	for i, m := range errs {
		parts[i] = m.String()
	}
	return strings.Join(parts, "; ")
}

// Validator checks a document and reports whether it is valid HTML.
// An error means the check itself could not run.
type Validator interface {
	Validate(ctx context.Context, html string) (*Result, error)
}

// Options configures New.
type Options struct {
	Kind   string
	URL    string      // Nu checker endpoint
	Logger *log.Logger // request logging for the Nu client, optional
}

// Kinds lists the accepted validator kinds.
func Kinds() []string {
	return []string{KindLocal, KindNu}
}

// New returns the validator named by opts.Kind.
func New(opts Options) (Validator, error) {
	switch opts.Kind {
	case KindLocal, "":
		return Local{}, nil
	case KindNu:
		var nuOpts []NuOption
		if opts.Logger != nil {
			nuOpts = append(nuOpts, WithLogger(opts.Logger))
		}
		return NewNu(opts.URL, nuOpts...), nil
	default:
		return nil, fmt.Errorf("unknown validator %q", opts.Kind)
	}
}

func newResult(msgs []Message) *Result {
	r := &Result{Valid: true, Messages: msgs}
	if r.Messages == nil {
		r.Messages = []Message{}
	}
	for _, m := range msgs {
		if m.Severity == SeverityError {
			r.Valid = false
		}
	}
	return r
}
