package editor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ormasoftchile/snipgen/pkg/snippet"
)

func testCollection() *snippet.Collection {
	col := snippet.NewCollection()
	col.Add("Accordion", snippet.Snippet{
		Prefix: "t-acc",
		Body:   snippet.Body{`<tui-accordion-item expanded="${1:false}">`, "${2:content}", "</tui-accordion-item>"},
	})
	col.Add("Mirror", snippet.Snippet{
		Prefix: "t-mirror",
		Body:   snippet.Body{"<${1:div}></${1}>"},
	})
	col.Add("Rule", snippet.Snippet{
		Prefix: "t-hr",
		Body:   snippet.Body{"<hr>"},
	})
	col.Add("Ordered", snippet.Snippet{
		Prefix: "t-ord",
		Body:   snippet.Body{"${3:c}|${1:a}|${2:b}$0"},
	})
	return col
}

func openSim(t *testing.T) *Sim {
	t.Helper()
	s := NewSim(testCollection())
	if err := s.Navigate(context.Background(), "vscode://file/test.html"); err != nil {
		t.Fatalf("navigate: %v", err)
	}
	return s
}

func mustContent(t *testing.T, s Session) string {
	t.Helper()
	got, err := s.Content(context.Background())
	if err != nil {
		t.Fatalf("content: %v", err)
	}
	return got
}

func typeAndPress(t *testing.T, s Session, text, key string) {
	t.Helper()
	ctx := context.Background()
	if text != "" {
		if err := s.TypeText(ctx, text); err != nil {
			t.Fatalf("type %q: %v", text, err)
		}
	}
	if key != "" {
		if err := s.PressKey(ctx, key); err != nil {
			t.Fatalf("press %s: %v", key, err)
		}
	}
}

func TestSimExpandsDefaults(t *testing.T) {
	s := openSim(t)
	typeAndPress(t, s, "t-acc", KeyTab)

	want := "<tui-accordion-item expanded=\"false\">\ncontent\n</tui-accordion-item>"
	if got := mustContent(t, s); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSimTypingReplacesDefault(t *testing.T) {
	s := openSim(t)
	typeAndPress(t, s, "t-acc", KeyTab)
	typeAndPress(t, s, "true", KeyTab)
	typeAndPress(t, s, "body", "")

	got := mustContent(t, s)
	if !strings.Contains(got, `expanded="true"`) {
		t.Errorf("stop 1 not replaced: %q", got)
	}
	if !strings.Contains(got, "\nbody\n") {
		t.Errorf("stop 2 not replaced: %q", got)
	}

	// Tab past the last stop leaves snippet mode; typing appends.
	typeAndPress(t, s, "", KeyTab)
	typeAndPress(t, s, "!", "")
	if got := mustContent(t, s); !strings.HasSuffix(got, "</tui-accordion-item>!") {
		t.Errorf("expected text appended after expansion, got %q", got)
	}
}

func TestSimMirrorsEqualIndices(t *testing.T) {
	s := openSim(t)
	typeAndPress(t, s, "t-mirror", KeyTab)
	if got := mustContent(t, s); got != "<div></div>" {
		t.Errorf("got %q, want <div></div>", got)
	}
	typeAndPress(t, s, "span", "")
	if got := mustContent(t, s); got != "<span></span>" {
		t.Errorf("got %q, want <span></span>", got)
	}
}

func TestSimVisitsStopsInIndexOrder(t *testing.T) {
	s := openSim(t)
	typeAndPress(t, s, "t-ord", KeyTab)
	typeAndPress(t, s, "First", KeyTab)
	typeAndPress(t, s, "Second", KeyTab)
	typeAndPress(t, s, "Third", "")
	if got := mustContent(t, s); got != "Third|First|Second$0" {
		t.Errorf("got %q", got)
	}
}

func TestSimNoPlaceholders(t *testing.T) {
	s := openSim(t)
	typeAndPress(t, s, "t-hr", KeyTab)
	typeAndPress(t, s, "x", "")
	if got := mustContent(t, s); got != "<hr>x" {
		t.Errorf("got %q, want <hr>x", got)
	}
}

func TestSimUnknownPrefixInsertsTab(t *testing.T) {
	s := openSim(t)
	typeAndPress(t, s, "nope", KeyTab)
	if got := mustContent(t, s); got != "nope\t" {
		t.Errorf("got %q", got)
	}
}

func TestSimPrefixAfterText(t *testing.T) {
	s := openSim(t)
	typeAndPress(t, s, "<p>", KeyEnter)
	typeAndPress(t, s, "  t-hr", KeyTab)
	if got := mustContent(t, s); got != "<p>\n  <hr>" {
		t.Errorf("got %q", got)
	}
}

func TestSimEscapeAndBackspace(t *testing.T) {
	s := openSim(t)
	typeAndPress(t, s, "t-mirror", KeyTab)
	typeAndPress(t, s, "", KeyBackspace)
	typeAndPress(t, s, "ab", KeyBackspace)
	typeAndPress(t, s, "", KeyEscape)
	typeAndPress(t, s, "z", "")
	if got := mustContent(t, s); got != "<a></a>z" {
		t.Errorf("got %q, want <a></a>z", got)
	}
}

func TestSimNavigateResets(t *testing.T) {
	s := openSim(t)
	typeAndPress(t, s, "t-acc", KeyTab)
	if err := s.Navigate(context.Background(), "vscode://file/other.html"); err != nil {
		t.Fatalf("navigate: %v", err)
	}
	if got := mustContent(t, s); got != "" {
		t.Errorf("expected empty document, got %q", got)
	}
	if s.URI() != "vscode://file/other.html" {
		t.Errorf("uri = %q", s.URI())
	}
}

func TestSimUnsupportedKey(t *testing.T) {
	s := openSim(t)
	if err := s.PressKey(context.Background(), "F13"); err == nil {
		t.Error("expected error for unsupported key")
	}
}

func TestSimClosed(t *testing.T) {
	s := openSim(t)
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := s.TypeText(context.Background(), "x"); !errors.Is(err, ErrClosed) {
		t.Errorf("TypeText after close: got %v, want ErrClosed", err)
	}
	if _, err := s.Content(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("Content after close: got %v, want ErrClosed", err)
	}
}

func TestSimWaitHonoursContext(t *testing.T) {
	s := openSim(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	if err := s.Wait(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
	if time.Since(start) > time.Second {
		t.Error("Wait did not return promptly")
	}
	if err := s.Wait(context.Background(), time.Millisecond); err != nil {
		t.Errorf("wait: %v", err)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	if _, err := Open(ctx, Options{Driver: DriverSim}); err == nil {
		t.Error("expected error for sim without snippets")
	}
	if _, err := Open(ctx, Options{Driver: "vim"}); err == nil {
		t.Error("expected error for unknown driver")
	}
	s, err := Open(ctx, Options{Driver: DriverSim, Snippets: testCollection()})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, ok := s.(*Sim); !ok {
		t.Errorf("got %T, want *Sim", s)
	}
}

func TestChromedpKey(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{KeyTab, "\t", false},
		{KeyEnter, "\r", false},
		{"a", "a", false},
		{"F13", "", true},
	}
	for _, tt := range tests {
		got, err := chromedpKey(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("chromedpKey(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("chromedpKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
