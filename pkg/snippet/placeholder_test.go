package snippet

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCountPlaceholders(t *testing.T) {
	tests := []struct {
		name string
		body []string
		want int
	}{
		{"accordion", []string{`<tui-accordion-item expanded="${1:false}">`, "${2:content}"}, 2},
		{"bare index not counted", []string{"<div>${1}</div>"}, 0},
		{"two on one line", []string{"${1:foo}${2:bar}"}, 2},
		{"bare and default mixed", []string{"${1}", "${1:foo}${2:bar}"}, 2},
		{"duplicate index inflates", []string{"${1:x}", "${1:x}"}, 2},
		{"empty default counted", []string{"${3:}"}, 1},
		{"final stop without default", []string{"text", "$0"}, 0},
		{"no body", nil, 0},
		{"malformed ignored", []string{"${a:b}", "${1", "$1"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountPlaceholders(tt.body); got != tt.want {
				t.Errorf("CountPlaceholders() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCountPlaceholdersAcrossLines(t *testing.T) {
	// Markers only match within a line, so joining must not create new ones.
	body := []string{"${", "1:x}"}
	if got := CountPlaceholders(body); got != 0 {
		t.Errorf("CountPlaceholders() = %d, want 0", got)
	}
}

func TestStripPlaceholders(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`<tui-accordion-item expanded="${1:false}">`, `<tui-accordion-item expanded="false">`},
		{"${2:content}", "content"},
		{"<div>${1}</div>", "<div></div>"},
		{"${1:foo}${2:bar}", "foobar"},
		{"${1:}", ""},
		{"no placeholders", "no placeholders"},
		{"$1 and $0 untouched", "$1 and $0 untouched"},
		{"${1:outer ${2:inner}}", "outer ${2:inner}"},
	}
	for _, tt := range tests {
		if got := StripPlaceholders(tt.in); got != tt.want {
			t.Errorf("StripPlaceholders(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPlaceholders(t *testing.T) {
	body := []string{`<a href="${1:url}">${2}</a>`, "", "${1:url}"}
	want := []Placeholder{
		{Index: 1, Default: "url", HasDefault: true, Line: 0},
		{Index: 2, Line: 0},
		{Index: 1, Default: "url", HasDefault: true, Line: 2},
	}
	if diff := cmp.Diff(want, Placeholders(body)); diff != "" {
		t.Errorf("Placeholders mismatch (-want +got):\n%s", diff)
	}
}

func TestTabStops(t *testing.T) {
	body := []string{"${3:c}${1:a}", "${1:a}${0}", "${2}"}
	if diff := cmp.Diff([]int{1, 2, 3}, TabStops(body)); diff != "" {
		t.Errorf("TabStops mismatch (-want +got):\n%s", diff)
	}
	if got := TabStops([]string{"plain"}); len(got) != 0 {
		t.Errorf("TabStops(plain) = %v, want none", got)
	}
}

func TestParseLine(t *testing.T) {
	got := ParseLine(`<b x="${1:y}">${2}</b>`)
	want := []Segment{
		{Literal: `<b x="`},
		{Placeholder: &Placeholder{Index: 1, Default: "y", HasDefault: true}},
		{Literal: `">`},
		{Placeholder: &Placeholder{Index: 2}},
		{Literal: `</b>`},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseLine mismatch (-want +got):\n%s", diff)
	}
}
