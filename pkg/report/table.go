package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/ormasoftchile/snipgen/pkg/snippet"
)

// Table lays out rows in columns padded to their widest cell, measured in
// terminal cells so wide runes line up.
func Table(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], runewidth.StringWidth(cell))
			}
		}
	}

	var b strings.Builder
	writeRow := func(cells []string, style func(string) string) {
		for i := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			if i == len(widths)-1 {
				b.WriteString(style(cell))
				break
			}
			b.WriteString(style(runewidth.FillRight(cell, widths[i])))
			b.WriteString("  ")
		}
		b.WriteByte('\n')
	}
	writeRow(headers, func(s string) string { return headerStyle.Render(s) })
	for _, row := range rows {
		writeRow(row, func(s string) string { return s })
	}
	return b.String()
}

// PrintList writes one row per snippet: name, prefix, counted placeholders,
// distinct tab stops and scope.
func PrintList(w io.Writer, col *snippet.Collection) {
	rows := make([][]string, 0, col.Len())
	for _, e := range col.Entries() {
		rows = append(rows, []string{
			e.Name,
			e.Snippet.Prefix,
			strconv.Itoa(snippet.CountPlaceholders(e.Snippet.Body)),
			strconv.Itoa(len(snippet.TabStops(e.Snippet.Body))),
			e.Snippet.Scope,
		})
	}
	fmt.Fprint(w, Table([]string{"NAME", "PREFIX", "PLACEHOLDERS", "TAB STOPS", "SCOPE"}, rows))
}
