package suite

import (
	"fmt"
	"strconv"
	"strings"
	"text/template"
	"time"
	"unicode/utf8"
)

var fileTemplate = template.Must(template.New("suite").Funcs(template.FuncMap{
	"quote":    quote,
	"duration": durationExpr,
}).Parse(`// Code generated by snipgen{{with .Source}} from {{.}}{{end}}. DO NOT EDIT.

//go:build e2e

package {{.Package}}

import (
	"testing"
	"time"

	"github.com/ormasoftchile/snipgen/pkg/snippettest"
)

var snippetSuiteOptions = snippettest.Options{
	Document: {{quote .Document}},
	Trigger:  {{quote .TriggerKey}},
	Settle:   {{duration .Settle}},
}

func TestSnippets(t *testing.T) {
{{- range $i, $c := .Cases}}
{{- if $i}}
{{end}}
	t.Run({{quote $c.Name}}, func(t *testing.T) {
		e := snippettest.Open(t, snippetSuiteOptions)
		e.Insert({{quote $c.Prefix}})
{{- with $c.Checks}}

		content := e.Content()
{{- range .}}
		e.Contains(content, {{quote .}})
{{- end}}
{{- end}}
{{- with $c.Steps}}

		// Test {{len .}} placeholders
{{- range .}}
		e.Advance({{quote .Text}}, {{quote .Key}})
{{- end}}
{{- end}}

		e.NotEmpty(e.Content())
	})
{{- end}}
}
`))

// quote renders s as a Go string literal, preferring a raw string so that
// markup stays readable in the generated file.
func quote(s string) string {
	if utf8.ValidString(s) && !strings.ContainsAny(s, "`\r") && !hasControl(s) {
		return "`" + s + "`"
	}
	return strconv.Quote(s)
}

func hasControl(s string) bool {
	for _, r := range s {
		if r < 0x20 && r != '\t' {
			return true
		}
		if r == 0x7f || r == '\ufeff' {
			return true
		}
	}
	return false
}

// durationExpr renders d as a Go expression of type time.Duration.
func durationExpr(d time.Duration) string {
	if d%time.Millisecond == 0 {
		return fmt.Sprintf("%d * time.Millisecond", d/time.Millisecond)
	}
	return fmt.Sprintf("time.Duration(%d)", int64(d))
}
