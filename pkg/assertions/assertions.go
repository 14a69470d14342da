// Package assertions evaluates checks against editor document content.
package assertions

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ormasoftchile/snipgen/pkg/htmlcheck"
)

// Assertion types.
const (
	TypeContains    = "contains"
	TypeNotContains = "not_contains"
	TypeNotEmpty    = "not_empty"
	TypeInOrder     = "in_order"
	TypeValidHTML   = "valid_html"
)

// Result is the outcome of evaluating a single assertion.
type Result struct {
	Type     string `json:"type"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
	Passed   bool   `json:"passed"`
	Message  string `json:"message"`
}

// EvalContains checks that content contains the expected substring.
func EvalContains(content, expected string) *Result {
	passed := strings.Contains(content, expected)
	msg := fmt.Sprintf("content contains %q", expected)
	if !passed {
		msg = fmt.Sprintf("content does not contain %q", expected)
	}
	return &Result{
		Type:     TypeContains,
		Expected: expected,
		Actual:   truncate(content, 200),
		Passed:   passed,
		Message:  msg,
	}
}

// EvalNotContains checks that content does NOT contain the substring.
func EvalNotContains(content, expected string) *Result {
	passed := !strings.Contains(content, expected)
	msg := fmt.Sprintf("content does not contain %q", expected)
	if !passed {
		msg = fmt.Sprintf("content contains %q (unexpected)", expected)
	}
	return &Result{
		Type:     TypeNotContains,
		Expected: expected,
		Actual:   truncate(content, 200),
		Passed:   passed,
		Message:  msg,
	}
}

// EvalNotEmpty checks that content has at least one non-whitespace character.
func EvalNotEmpty(content string) *Result {
	passed := strings.TrimSpace(content) != ""
	msg := "content is not empty"
	if !passed {
		msg = "content is empty"
	}
	return &Result{
		Type:    TypeNotEmpty,
		Actual:  truncate(content, 200),
		Passed:  passed,
		Message: msg,
	}
}

// EvalInOrder checks that every part occurs in content, each one after the
// end of the previous match.
func EvalInOrder(content string, parts ...string) *Result {
	expected := strings.Join(parts, " < ")
	rest := content
	for _, p := range parts {
		i := strings.Index(rest, p)
		if i < 0 {
			return &Result{
				Type:     TypeInOrder,
				Expected: expected,
				Actual:   truncate(content, 200),
				Passed:   false,
				Message:  fmt.Sprintf("%q missing or out of order", p),
			}
		}
		rest = rest[i+len(p):]
	}
	return &Result{
		Type:     TypeInOrder,
		Expected: expected,
		Actual:   truncate(content, 200),
		Passed:   true,
		Message:  fmt.Sprintf("content has %d parts in order", len(parts)),
	}
}

// EvalValidHTML turns a validator result into an assertion result.
func EvalValidHTML(res *htmlcheck.Result) *Result {
	if res.Valid {
		return &Result{
			Type:    TypeValidHTML,
			Actual:  fmt.Sprintf("%d messages", len(res.Messages)),
			Passed:  true,
			Message: "content is valid HTML",
		}
	}
	return &Result{
		Type:    TypeValidHTML,
		Actual:  truncate(res.Summary(), 200),
		Passed:  false,
		Message: fmt.Sprintf("content is not valid HTML: %d errors", len(res.Errors())),
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
