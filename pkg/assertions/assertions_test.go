package assertions

import (
	"strings"
	"testing"

	"github.com/ormasoftchile/snipgen/pkg/htmlcheck"
)

const accordion = `<tui-accordion-item expanded="false">
  content
</tui-accordion-item>`

func TestContainsAssertion(t *testing.T) {
	r := EvalContains(accordion, `<tui-accordion-item expanded="false">`)
	if !r.Passed {
		t.Error("expected pass for contains opening tag")
	}
	r = EvalContains(accordion, "missing")
	if r.Passed {
		t.Error("expected fail for contains 'missing'")
	}
	if r.Type != TypeContains {
		t.Errorf("type = %q, want %q", r.Type, TypeContains)
	}
}

func TestNotContainsAssertion(t *testing.T) {
	r := EvalNotContains(accordion, "${1")
	if !r.Passed {
		t.Error("expected pass: no placeholder markers left")
	}
	r = EvalNotContains(accordion, "content")
	if r.Passed {
		t.Error("expected fail for not_contains 'content'")
	}
	if r.Type != TypeNotContains {
		t.Errorf("type = %q, want %q", r.Type, TypeNotContains)
	}
}

func TestNotEmptyAssertion(t *testing.T) {
	if r := EvalNotEmpty("x"); !r.Passed {
		t.Error("expected pass for non-empty content")
	}
	for _, s := range []string{"", " \n\t"} {
		if r := EvalNotEmpty(s); r.Passed {
			t.Errorf("expected fail for %q", s)
		}
	}
}

func TestInOrderAssertion(t *testing.T) {
	content := "<a>First</a><b>Second</b><c>Third</c>"
	if r := EvalInOrder(content, "First", "Second", "Third"); !r.Passed {
		t.Errorf("expected pass, got: %s", r.Message)
	}
	r := EvalInOrder(content, "Second", "First")
	if r.Passed {
		t.Error("expected fail for reversed order")
	}
	if !strings.Contains(r.Message, `"First"`) {
		t.Errorf("message should name the missing part, got %q", r.Message)
	}
	// Overlapping parts must not reuse the same match.
	if r := EvalInOrder("ab", "ab", "b"); r.Passed {
		t.Error("expected fail when second part only occurs inside the first")
	}
}

func TestValidHTMLAssertion(t *testing.T) {
	r := EvalValidHTML(&htmlcheck.Result{Valid: true})
	if !r.Passed {
		t.Error("expected pass for valid result")
	}
	r = EvalValidHTML(&htmlcheck.Result{Messages: []htmlcheck.Message{
		{Severity: htmlcheck.SeverityError, Line: 2, Text: "unclosed element <div>"},
	}})
	if r.Passed {
		t.Error("expected fail for invalid result")
	}
	if !strings.Contains(r.Actual, "unclosed element <div>") {
		t.Errorf("actual = %q", r.Actual)
	}
}

func TestTruncateKeepsRunes(t *testing.T) {
	s := strings.Repeat("é", 150) // 300 bytes
	got := truncate(s, 201)
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("expected truncation, got %d bytes", len(got))
	}
	if body := strings.TrimSuffix(got, "..."); len(body) != 200 {
		t.Errorf("cut at %d bytes, want 200", len(body))
	}
}
