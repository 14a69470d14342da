package runner

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/ormasoftchile/snipgen/pkg/assertions"
	"github.com/ormasoftchile/snipgen/pkg/editor"
	"github.com/ormasoftchile/snipgen/pkg/htmlcheck"
	"github.com/ormasoftchile/snipgen/pkg/logging"
	"github.com/ormasoftchile/snipgen/pkg/snippet"
	"github.com/ormasoftchile/snipgen/pkg/suite"
)

func loadTaiga(t *testing.T) *snippet.Collection {
	t.Helper()
	_, file, _, _ := runtime.Caller(0)
	path := filepath.Join(filepath.Dir(file), "..", "..", "testdata", "snippets", "taiga.code-snippets")
	col, err := snippet.LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return col
}

func simOpener(col *snippet.Collection) OpenFunc {
	return func(ctx context.Context) (editor.Session, error) {
		return editor.NewSim(col), nil
	}
}

func buildSuite(t *testing.T, col *snippet.Collection) *suite.Suite {
	t.Helper()
	opts := suite.DefaultOptions()
	opts.Settle = 0
	s, err := suite.Build(col, opts)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return s
}

func TestRunAllSim(t *testing.T) {
	col := loadTaiga(t)
	r := &Runner{Open: simOpener(col), Validator: htmlcheck.Local{}}
	out := r.RunAll(context.Background(), buildSuite(t, col))

	if out.Summary.Total != 3 {
		t.Fatalf("total = %d, want 3", out.Summary.Total)
	}
	for _, c := range out.Cases {
		if c.Status != StatusPassed {
			t.Errorf("%s: status = %s, error = %q", c.Name, c.Status, c.Error)
			for _, a := range c.Assertions {
				if !a.Passed {
					t.Logf("  %s: %s", a.Type, a.Message)
				}
			}
		}
	}
	if out.Failed() {
		t.Error("expected no failures")
	}

	acc := out.Cases[0]
	if acc.Name != "Accordion basic snippet - t-accordion-basic" {
		t.Errorf("first case = %q", acc.Name)
	}
	// 11 content checks, no unexpanded marker, 7 tab stops, not-empty, valid html.
	if len(acc.Assertions) != 11+1+7+1+1 {
		t.Errorf("accordion assertions = %d, want 21", len(acc.Assertions))
	}
}

// The editor expands the prefix into different markup than the suite expects.
func TestRunCaseAssertionFailure(t *testing.T) {
	col := snippet.NewCollection()
	col.Add("Button", snippet.Snippet{Prefix: "t-button", Body: snippet.Body{"<button>${1:Label}</button>"}})
	s := buildSuite(t, col)

	other := snippet.NewCollection()
	other.Add("Wrong", snippet.Snippet{Prefix: "t-button", Body: snippet.Body{"<span>${1:x}</span>"}})
	r := &Runner{Open: simOpener(other)}

	res := r.RunCase(context.Background(), s, s.Cases[0])
	if res.Status != StatusFailed {
		t.Fatalf("status = %s, want failed", res.Status)
	}
	if !HasFailures(res.Assertions) {
		t.Error("expected failing assertions")
	}
}

// The editor leaves a placeholder it does not understand in the document.
func TestRunCaseUnexpandedMarker(t *testing.T) {
	col := snippet.NewCollection()
	col.Add("Card", snippet.Snippet{Prefix: "t-card", Body: snippet.Body{"<tui-card>ok</tui-card>"}})
	s := buildSuite(t, col)

	other := snippet.NewCollection()
	other.Add("Card", snippet.Snippet{Prefix: "t-card", Body: snippet.Body{"<tui-card>ok</tui-card>", "${name}"}})
	r := &Runner{Open: simOpener(other)}

	res := r.RunCase(context.Background(), s, s.Cases[0])
	if res.Status != StatusFailed {
		t.Fatalf("status = %s, want failed", res.Status)
	}
	var failed []string
	for _, a := range res.Assertions {
		if !a.Passed {
			failed = append(failed, a.Type)
		}
	}
	if len(failed) != 1 || failed[0] != assertions.TypeNotContains {
		t.Errorf("failed assertions = %v, want [%s]", failed, assertions.TypeNotContains)
	}
}

type failingSession struct {
	editor.Session
	failOn string
	closed bool
}

func (f *failingSession) Navigate(ctx context.Context, uri string) error { return nil }
func (f *failingSession) WaitForLoad(ctx context.Context) error          { return nil }
func (f *failingSession) Wait(ctx context.Context, d time.Duration) error {
	return nil
}
func (f *failingSession) Content(ctx context.Context) (string, error) { return "x", nil }
func (f *failingSession) Close() error                                { f.closed = true; return nil }

func (f *failingSession) TypeText(ctx context.Context, text string) error {
	if f.failOn == "type" {
		return errors.New("keyboard detached")
	}
	return nil
}

func (f *failingSession) PressKey(ctx context.Context, key string) error {
	if f.failOn == "press" {
		return errors.New("key rejected")
	}
	return nil
}

func TestInsertSnippetLogsPrefix(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(&buf, "info", logging.FormatLogfmt)
	if err != nil {
		t.Fatal(err)
	}
	sess := &failingSession{failOn: "press"}
	err = InsertSnippet(context.Background(), sess, logger, "t-button", "Tab", 0)
	if err == nil {
		t.Fatal("expected error")
	}
	out := buf.String()
	if !strings.Contains(out, "inserting snippet") || !strings.Contains(out, "prefix=t-button") {
		t.Errorf("expected logged prefix, got:\n%s", out)
	}
}

func TestRunAllContinuesAfterError(t *testing.T) {
	col := loadTaiga(t)
	s := buildSuite(t, col)

	var sessions []*failingSession
	r := &Runner{Open: func(ctx context.Context) (editor.Session, error) {
		fs := &failingSession{failOn: "type"}
		sessions = append(sessions, fs)
		return fs, nil
	}}
	out := r.RunAll(context.Background(), s)
	if out.Summary.Errors != 3 || out.Summary.Total != 3 {
		t.Errorf("summary = %+v, want 3 errors", out.Summary)
	}
	for i, fs := range sessions {
		if !fs.closed {
			t.Errorf("session %d not closed", i)
		}
	}
	if !strings.Contains(out.Cases[0].Error, "keyboard detached") {
		t.Errorf("error = %q", out.Cases[0].Error)
	}
}

func TestRunAllFailFast(t *testing.T) {
	col := loadTaiga(t)
	r := &Runner{
		FailFast: true,
		Open: func(ctx context.Context) (editor.Session, error) {
			return nil, errors.New("no browser")
		},
	}
	out := r.RunAll(context.Background(), buildSuite(t, col))
	if out.Summary.Total != 1 || out.Summary.Errors != 1 {
		t.Errorf("summary = %+v, want a single error", out.Summary)
	}
}

func TestRunAllCancelledSkips(t *testing.T) {
	col := loadTaiga(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := &Runner{Open: simOpener(col)}
	out := r.RunAll(ctx, buildSuite(t, col))
	if out.Summary.Skipped != 3 {
		t.Errorf("summary = %+v, want 3 skipped", out.Summary)
	}
}

// The reference fixture scenarios, run against the simulated editor.

func fixtureSession(t *testing.T) (editor.Session, context.Context) {
	t.Helper()
	ctx := context.Background()
	sess := editor.NewSim(loadTaiga(t))
	t.Cleanup(func() { sess.Close() })
	if err := sess.Navigate(ctx, "vscode://file/test.html"); err != nil {
		t.Fatalf("navigate: %v", err)
	}
	if err := InsertSnippet(ctx, sess, logging.Discard(), "t-accordion-basic", editor.KeyTab, 0); err != nil {
		t.Fatalf("insert: %v", err)
	}
	return sess, ctx
}

func TestFixtureAccordion(t *testing.T) {
	sess, ctx := fixtureSession(t)
	content, err := sess.Content(ctx)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"<tui-accordion-item", "tuiAccordionItemContent"} {
		if !strings.Contains(content, want) {
			t.Errorf("content missing %q:\n%s", want, content)
		}
	}

	if err := sess.TypeText(ctx, "expanded"); err != nil {
		t.Fatalf("type: %v", err)
	}
	assertContent(t, ctx, sess, "expanded")
	for i := 2; i <= 7; i++ {
		text := "content" + string(rune('0'+i))
		if err := sess.PressKey(ctx, editor.KeyTab); err != nil {
			t.Fatalf("tab to stop %d: %v", i, err)
		}
		if err := sess.TypeText(ctx, text); err != nil {
			t.Fatalf("type at stop %d: %v", i, err)
		}
		assertContent(t, ctx, sess, text)
	}

	content, err = sess.Content(ctx)
	if err != nil {
		t.Fatal(err)
	}
	parts := []string{`class="expanded"`, `[showArrow]="content2"`, `[borders]="content3"`, "content4", "content5", `[disabled]="content6"`, "content7"}
	if r := assertions.EvalInOrder(content, parts...); !r.Passed {
		t.Errorf("%s:\n%s", r.Message, content)
	}
}

func assertContent(t *testing.T, ctx context.Context, sess editor.Session, want string) {
	t.Helper()
	content, err := sess.Content(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(content, want) {
		t.Errorf("content missing %q:\n%s", want, content)
	}
}

func TestFixtureOrderedTabStops(t *testing.T) {
	col := snippet.NewCollection()
	col.Add("Ordered", snippet.Snippet{
		Prefix: "t-ordered",
		Body:   snippet.Body{"<ol>", "  <li>${1:one}</li>", "  <li>${2:two}</li>", "  <li>${3:three}</li>", "</ol>"},
	})
	ctx := context.Background()
	sess := editor.NewSim(col)
	defer sess.Close()
	if err := InsertSnippet(ctx, sess, nil, "t-ordered", editor.KeyTab, 0); err != nil {
		t.Fatalf("insert: %v", err)
	}
	for _, text := range []string{"First", "Second", "Third"} {
		if _, err := Advance(ctx, sess, suite.Step{Text: text, Key: editor.KeyTab}); err != nil {
			t.Fatalf("advance %s: %v", text, err)
		}
	}
	content, err := sess.Content(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := "<ol>\n  <li>First</li>\n  <li>Second</li>\n  <li>Third</li>\n</ol>"
	if content != want {
		t.Errorf("got %q, want %q", content, want)
	}
}
