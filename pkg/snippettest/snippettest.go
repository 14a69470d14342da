// Package snippettest drives an editor from Go tests. Generated suites and
// hand-written fixtures use it the same way:
//
//	e := snippettest.Open(t, opts)
//	e.Insert("t-button")
//	e.Contains(e.Content(), `<button tuiButton`)
//
// Open reads the driver and validator settings from snipgen.toml and
// SNIPGEN_* environment variables, like the snipgen command does.
package snippettest

import (
	"context"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ormasoftchile/snipgen/pkg/assertions"
	"github.com/ormasoftchile/snipgen/pkg/config"
	"github.com/ormasoftchile/snipgen/pkg/editor"
	"github.com/ormasoftchile/snipgen/pkg/htmlcheck"
	"github.com/ormasoftchile/snipgen/pkg/logging"
	"github.com/ormasoftchile/snipgen/pkg/runner"
	"github.com/ormasoftchile/snipgen/pkg/snippet"
	"github.com/ormasoftchile/snipgen/pkg/suite"
)

// Options describes the document each test opens and how snippets are
// triggered.
type Options struct {
	Document string
	Trigger  string
	Settle   time.Duration
}

// Editor wraps a session for one test. Automation failures stop the test;
// assertion failures are reported and the test continues.
type Editor struct {
	t         testing.TB
	ctx       context.Context
	sess      editor.Session
	opts      Options
	logger    *log.Logger
	validator htmlcheck.Validator
}

// Open starts a session with the configured driver, opens opts.Document and
// registers cleanup.
func Open(t testing.TB, opts Options) *Editor {
	t.Helper()
	cfg, err := config.FromEnv()
	if err != nil {
		t.Fatalf("load snipgen config: %v", err)
	}

	var col *snippet.Collection
	if cfg.Editor.Driver == editor.DriverSim {
		col, err = snippet.LoadFile(cfg.Snippets)
		if err != nil {
			t.Fatalf("load snippets for sim driver: %v", err)
		}
	}

	logger, err := logging.New(testWriter{t}, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	validator, err := htmlcheck.New(cfg.ValidatorOptions())
	if err != nil {
		t.Fatalf("validator: %v", err)
	}

	sess, err := editor.Open(t.Context(), cfg.EditorOptions(col))
	if err != nil {
		t.Fatalf("open editor: %v", err)
	}
	t.Cleanup(func() {
		if err := sess.Close(); err != nil {
			t.Logf("close editor: %v", err)
		}
	})

	e := New(t, sess, opts)
	e.logger = logger
	e.validator = validator
	e.navigate()
	return e
}

// New wraps an already open session. The caller owns closing it.
func New(t testing.TB, sess editor.Session, opts Options) *Editor {
	if opts.Trigger == "" {
		opts.Trigger = editor.KeyTab
	}
	return &Editor{
		t:         t,
		ctx:       t.Context(),
		sess:      sess,
		opts:      opts,
		logger:    logging.Discard(),
		validator: htmlcheck.Local{},
	}
}

// Navigate opens opts.Document on a session created with New.
func (e *Editor) Navigate() *Editor {
	e.t.Helper()
	e.navigate()
	return e
}

func (e *Editor) navigate() {
	e.t.Helper()
	if e.opts.Document == "" {
		return
	}
	if err := e.sess.Navigate(e.ctx, e.opts.Document); err != nil {
		e.t.Fatalf("navigate: %v", err)
	}
	if err := e.sess.WaitForLoad(e.ctx); err != nil {
		e.t.Fatalf("wait for load: %v", err)
	}
}

// Session returns the underlying session.
func (e *Editor) Session() editor.Session {
	return e.sess
}

// Insert types prefix, presses the trigger key and waits for the editor to
// settle.
func (e *Editor) Insert(prefix string) {
	e.t.Helper()
	err := runner.InsertSnippet(e.ctx, e.sess, e.logger, prefix, e.opts.Trigger, e.opts.Settle)
	if err != nil {
		e.t.Fatalf("insert %s: %v", prefix, err)
	}
}

// TypeText types text at the cursor.
func (e *Editor) TypeText(text string) {
	e.t.Helper()
	if err := e.sess.TypeText(e.ctx, text); err != nil {
		e.t.Fatalf("type %q: %v", text, err)
	}
}

// PressKey presses a single key.
func (e *Editor) PressKey(key string) {
	e.t.Helper()
	if err := e.sess.PressKey(e.ctx, key); err != nil {
		e.t.Fatalf("press %s: %v", key, err)
	}
}

// Wait pauses for d.
func (e *Editor) Wait(d time.Duration) {
	e.t.Helper()
	if err := e.sess.Wait(e.ctx, d); err != nil {
		e.t.Fatalf("wait: %v", err)
	}
}

// Content returns the current document content.
func (e *Editor) Content() string {
	e.t.Helper()
	content, err := e.sess.Content(e.ctx)
	if err != nil {
		e.t.Fatalf("read content: %v", err)
	}
	return content
}

// Advance types text at the current tab stop, checks it is visible and
// presses key.
func (e *Editor) Advance(text, key string) {
	e.t.Helper()
	res, err := runner.Advance(e.ctx, e.sess, suite.Step{Text: text, Key: key})
	if res != nil {
		e.report(res)
	}
	if err != nil {
		e.t.Fatalf("advance past %q: %v", text, err)
	}
}

// Contains checks that content contains want.
func (e *Editor) Contains(content, want string) bool {
	e.t.Helper()
	return e.report(assertions.EvalContains(content, want))
}

// NotContains checks that content does not contain unwanted.
func (e *Editor) NotContains(content, unwanted string) bool {
	e.t.Helper()
	return e.report(assertions.EvalNotContains(content, unwanted))
}

// InOrder checks that parts occur in content in the given order.
func (e *Editor) InOrder(content string, parts ...string) bool {
	e.t.Helper()
	return e.report(assertions.EvalInOrder(content, parts...))
}

// NotEmpty checks that content is not blank.
func (e *Editor) NotEmpty(content string) bool {
	e.t.Helper()
	return e.report(assertions.EvalNotEmpty(content))
}

// Validate checks the current content with the configured HTML validator.
func (e *Editor) Validate() bool {
	e.t.Helper()
	res, err := e.validator.Validate(e.ctx, e.Content())
	if err != nil {
		e.t.Fatalf("validate html: %v", err)
	}
	return e.report(assertions.EvalValidHTML(res))
}

func (e *Editor) report(r *assertions.Result) bool {
	e.t.Helper()
	if !r.Passed {
		e.t.Errorf("%s\ncontent: %s", r.Message, r.Actual)
	}
	return r.Passed
}

// FileURI returns the vscode://file URI that opens rel inside workspace.
func FileURI(workspace, rel string) string {
	p := filepath.ToSlash(filepath.Join(workspace, rel))
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	u := url.URL{Scheme: "vscode", Host: "file", Path: p}
	return u.String()
}

// testWriter sends log output to t.Log.
type testWriter struct {
	t testing.TB
}

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}
