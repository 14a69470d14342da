package editor

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/ormasoftchile/snipgen/pkg/snippet"
)

// Sim is an in-process editor. Typing appends at the cursor, which always
// sits at the end of the document. Pressing Tab after a word that matches a
// snippet prefix expands the snippet: ${N:default} markers render their
// default, equal indices mirror each other, and tab stops are visited in
// ascending index order with $0 and bare ${0} excluded. Typing at a fresh
// stop replaces its default; later typing appends. Tab past the last stop or
// Escape leaves snippet mode. Any other text in the body, including bare $N
// and choice syntax, is inserted verbatim.
//
// Sim is safe for concurrent use.
type Sim struct {
	mu       sync.Mutex
	snippets *snippet.Collection
	uri      string
	text     string
	exp      *expansion
	closed   bool
}

type expansion struct {
	lines  [][]snippet.Segment
	values map[int]string
	typed  map[int]bool
	stops  []int
	pos    int
}

// NewSim returns a simulated editor that expands snippets from col.
func NewSim(col *snippet.Collection) *Sim {
	return &Sim{snippets: col}
}

// URI returns the last navigated document.
func (s *Sim) URI() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uri
}

// Navigate opens an empty document.
func (s *Sim) Navigate(ctx context.Context, uri string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(ctx); err != nil {
		return err
	}
	s.uri = uri
	s.text = ""
	s.exp = nil
	return nil
}

func (s *Sim) WaitForLoad(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.check(ctx)
}

func (s *Sim) TypeText(ctx context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(ctx); err != nil {
		return err
	}
	s.insert(text)
	return nil
}

func (s *Sim) PressKey(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(ctx); err != nil {
		return err
	}
	switch key {
	case KeyTab:
		s.tab()
	case KeyEnter:
		s.insert("\n")
	case KeyEscape:
		s.finish()
	case KeyBackspace:
		s.backspace()
	default:
		if utf8.RuneCountInString(key) != 1 {
			return fmt.Errorf("sim: unsupported key %q", key)
		}
		s.insert(key)
	}
	return nil
}

func (s *Sim) Content(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(ctx); err != nil {
		return "", err
	}
	return s.text + s.exp.render(), nil
}

func (s *Sim) Wait(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return ErrClosed
	}
	return sleep(ctx, d)
}

func (s *Sim) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *Sim) check(ctx context.Context) error {
	if s.closed {
		return ErrClosed
	}
	return ctx.Err()
}

func (s *Sim) insert(text string) {
	if s.exp == nil {
		s.text += text
		return
	}
	stop := s.exp.stops[s.exp.pos]
	if !s.exp.typed[stop] {
		s.exp.values[stop] = ""
		s.exp.typed[stop] = true
	}
	s.exp.values[stop] += text
}

func (s *Sim) backspace() {
	if s.exp == nil {
		s.text = dropLastRune(s.text)
		return
	}
	stop := s.exp.stops[s.exp.pos]
	if !s.exp.typed[stop] {
		// Deletes the selected default.
		s.exp.values[stop] = ""
		s.exp.typed[stop] = true
		return
	}
	s.exp.values[stop] = dropLastRune(s.exp.values[stop])
}

func (s *Sim) tab() {
	if s.exp != nil {
		s.exp.pos++
		if s.exp.pos >= len(s.exp.stops) {
			s.finish()
		}
		return
	}

	word := trailingWord(s.text)
	if word != "" {
		if e, ok := s.snippets.FindByPrefix(word); ok {
			s.text = strings.TrimSuffix(s.text, word)
			s.exp = newExpansion(e.Snippet.Body)
			if len(s.exp.stops) == 0 {
				s.finish()
			}
			return
		}
	}
	s.text += "\t"
}

func (s *Sim) finish() {
	if s.exp == nil {
		return
	}
	s.text += s.exp.render()
	s.exp = nil
}

func newExpansion(body []string) *expansion {
	exp := &expansion{
		lines:  snippet.ParseBody(body),
		values: map[int]string{},
		typed:  map[int]bool{},
		stops:  snippet.TabStops(body),
	}
	for _, p := range snippet.Placeholders(body) {
		if _, seen := exp.values[p.Index]; !seen || (p.HasDefault && exp.values[p.Index] == "") {
			exp.values[p.Index] = p.Default
		}
	}
	return exp
}

func (e *expansion) render() string {
	if e == nil {
		return ""
	}
	var b strings.Builder
	for i, line := range e.lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		for _, seg := range line {
			if seg.Placeholder == nil {
				b.WriteString(seg.Literal)
				continue
			}
			b.WriteString(e.values[seg.Placeholder.Index])
		}
	}
	return b.String()
}

func trailingWord(s string) string {
	i := strings.LastIndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return s
	}
	_, size := utf8.DecodeRuneInString(s[i:])
	return s[i+size:]
}

func dropLastRune(s string) string {
	if s == "" {
		return s
	}
	_, size := utf8.DecodeLastRuneInString(s)
	return s[:len(s)-size]
}
