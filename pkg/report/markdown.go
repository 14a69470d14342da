package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/ormasoftchile/snipgen/pkg/snippet"
	"github.com/ormasoftchile/snipgen/pkg/suite"
)

// SnippetMarkdown describes a snippet and the checks generated for it.
func SnippetMarkdown(e snippet.Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", e.Name)
	if e.Snippet.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", e.Snippet.Description)
	}
	fmt.Fprintf(&b, "- **Prefix:** `%s`\n", e.Snippet.Prefix)
	if e.Snippet.Scope != "" {
		fmt.Fprintf(&b, "- **Scope:** %s\n", e.Snippet.Scope)
	}
	fmt.Fprintf(&b, "- **Placeholders:** %d counted, %d distinct tab stops\n\n",
		snippet.CountPlaceholders(e.Snippet.Body), len(snippet.TabStops(e.Snippet.Body)))

	b.WriteString("## Body\n\n```html\n")
	b.WriteString(e.Snippet.Body.Text())
	b.WriteString("\n```\n")

	c := suite.NewCase(e.Name, e.Snippet)
	if len(c.Checks) > 0 {
		b.WriteString("\n## Content checks\n\n")
		for _, check := range c.Checks {
			fmt.Fprintf(&b, "- `%s`\n", strings.ReplaceAll(check, "`", "'"))
		}
	}
	return b.String()
}

// RenderMarkdown converts markdown to styled terminal output wrapped at
// width. It falls back to the raw input if rendering fails.
func RenderMarkdown(md string, width int) string {
	if strings.TrimSpace(md) == "" {
		return md
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}
