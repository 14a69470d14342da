// Package logging builds the structured loggers used across snipgen.
package logging

import (
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/log"
)

// Output formats accepted by New.
const (
	FormatText   = "text"
	FormatJSON   = "json"
	FormatLogfmt = "logfmt"
)

// Formats lists the accepted output formats.
func Formats() []string {
	return []string{FormatText, FormatJSON, FormatLogfmt}
}

// New returns a logger writing to w at the named level and format.
func New(w io.Writer, level, format string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	if !slices.Contains(Formats(), format) {
		return nil, fmt.Errorf("unknown log format %q", format)
	}

	opts := log.Options{
		Level:           lvl,
		ReportTimestamp: format != FormatText,
		Prefix:          "snipgen",
	}
	switch format {
	case FormatJSON:
		opts.Formatter = log.JSONFormatter
	case FormatLogfmt:
		opts.Formatter = log.LogfmtFormatter
	default:
		opts.Formatter = log.TextFormatter
	}
	return log.NewWithOptions(w, opts), nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}
