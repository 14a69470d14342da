package snippet

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
)

var (
	// placeholderRe matches ${N} and ${N:default}. The default runs to the
	// first closing brace; nested placeholders are not understood.
	placeholderRe = regexp.MustCompile(`\$\{(\d+)(?::([^}]*))?\}`)

	// defaultMarkerRe matches the opening of a placeholder that declares a
	// default value. Only these are counted as tab stops to exercise.
	defaultMarkerRe = regexp.MustCompile(`\$\{\d+:`)
)

// Placeholder is one ${N} or ${N:default} occurrence in a body.
type Placeholder struct {
	Index      int
	Default    string
	HasDefault bool
	Line       int // 0-based body line
}

// Segment is a piece of a parsed body line: literal text or a placeholder.
type Segment struct {
	Literal     string
	Placeholder *Placeholder
}

// CountPlaceholders counts placeholders that declare a default value in the
// newline-joined body. Bare ${N} markers are not counted and repeated indices
// are counted once per occurrence.
func CountPlaceholders(body []string) int {
	return len(defaultMarkerRe.FindAllStringIndex(strings.Join(body, "\n"), -1))
}

// StripPlaceholders replaces every placeholder in line with its default text,
// or with nothing when it has none.
func StripPlaceholders(line string) string {
	return placeholderRe.ReplaceAllString(line, "${2}")
}

// Placeholders lists every placeholder occurrence in body order.
func Placeholders(body []string) []Placeholder {
	var out []Placeholder
	for i, line := range body {
		for _, seg := range ParseLine(line) {
			if seg.Placeholder != nil {
				p := *seg.Placeholder
				p.Line = i
				out = append(out, p)
			}
		}
	}
	return out
}

// TabStops returns the distinct non-zero placeholder indices in ascending
// order. $0 marks the final cursor position and is not a tab stop.
func TabStops(body []string) []int {
	var stops []int
	for _, p := range Placeholders(body) {
		if p.Index != 0 && !slices.Contains(stops, p.Index) {
			stops = append(stops, p.Index)
		}
	}
	slices.Sort(stops)
	return stops
}

// ParseLine splits a body line into literal and placeholder segments.
func ParseLine(line string) []Segment {
	var segs []Segment
	last := 0
	for _, m := range placeholderRe.FindAllStringSubmatchIndex(line, -1) {
		if m[0] > last {
			segs = append(segs, Segment{Literal: line[last:m[0]]})
		}
		idx, err := strconv.Atoi(line[m[2]:m[3]])
		if err != nil {
			// Index overflowed int; keep the marker as literal text.
			segs = append(segs, Segment{Literal: line[m[0]:m[1]]})
			last = m[1]
			continue
		}
		p := &Placeholder{Index: idx}
		if m[4] >= 0 {
			p.HasDefault = true
			p.Default = line[m[4]:m[5]]
		}
		segs = append(segs, Segment{Placeholder: p})
		last = m[1]
	}
	if last < len(line) {
		segs = append(segs, Segment{Literal: line[last:]})
	}
	return segs
}

// ParseBody parses every line of body. Lines are returned separately so
// callers can rejoin them with their own separator.
func ParseBody(body []string) [][]Segment {
	out := make([][]Segment, len(body))
	for i, line := range body {
		out[i] = ParseLine(line)
	}
	return out
}
