package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ormasoftchile/snipgen/pkg/editor"
)

func load(t *testing.T, configFile string, flags map[string]any) *Config {
	t.Helper()
	k, err := Load(configFile, flags)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	c, err := New(k)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	return c
}

func TestDefaults(t *testing.T) {
	c := load(t, "", nil)
	if c.Snippets != "./snippets.code-snippets" {
		t.Errorf("snippets = %q", c.Snippets)
	}
	if c.Output != "./e2e/snippets_generated_test.go" {
		t.Errorf("output = %q", c.Output)
	}
	if c.Editor.Driver != editor.DriverPlaywright || !c.Editor.Headless {
		t.Errorf("editor = %+v", c.Editor)
	}
	if c.Editor.Settle != 500*time.Millisecond {
		t.Errorf("settle = %s, want 500ms", c.Editor.Settle)
	}
	if c.Editor.Timeout != 30*time.Second {
		t.Errorf("timeout = %s, want 30s", c.Editor.Timeout)
	}
	if c.Editor.Trigger != "Tab" {
		t.Errorf("trigger = %q, want Tab", c.Editor.Trigger)
	}
}

func TestPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snipgen.toml")
	toml := `snippets = "from-file.code-snippets"
package = "filepkg"

[editor]
driver = "chromedp"
settle = "250ms"
headless = false
`
	if err := os.WriteFile(path, []byte(toml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SNIPGEN_EDITOR__DRIVER", "sim")
	t.Setenv("SNIPGEN_PACKAGE", "envpkg")

	c := load(t, path, map[string]any{"package": "flagpkg"})

	if c.Snippets != "from-file.code-snippets" {
		t.Errorf("snippets = %q, want file value", c.Snippets)
	}
	if c.Editor.Settle != 250*time.Millisecond {
		t.Errorf("settle = %s, want file value 250ms", c.Editor.Settle)
	}
	if c.Editor.Headless {
		t.Error("headless should be false from file")
	}
	if c.Editor.Driver != editor.DriverSim {
		t.Errorf("driver = %q, want env value sim", c.Editor.Driver)
	}
	if c.Package != "flagpkg" {
		t.Errorf("package = %q, want flag value", c.Package)
	}
	// Untouched keys keep their defaults.
	if c.Validator.Kind != "local" {
		t.Errorf("validator.kind = %q, want local", c.Validator.Kind)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml"), nil); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	k, err := Load("", map[string]any{
		"package":        "not-an-ident",
		"editor.driver":  "vim",
		"editor.timeout": "0s",
		"validator.kind": "tidy",
		"log.level":      "loud",
		"log.format":     "xml",
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	_, err = New(k)
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"package", "editor.driver", "editor.timeout", "validator.kind", "log.level", "log.format"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error should mention %s: %v", want, err)
		}
	}
}

func TestDerivedOptions(t *testing.T) {
	c := load(t, "", map[string]any{
		"editor.driver":   "sim",
		"editor.document": "vscode://file/tmp/a.html",
		"filter":          `scope == "html"`,
	})
	so := c.SuiteOptions()
	if so.Document != "vscode://file/tmp/a.html" || so.TriggerKey != "Tab" || so.Filter != `scope == "html"` {
		t.Errorf("suite options = %+v", so)
	}
	eo := c.EditorOptions(nil)
	if eo.Driver != "sim" || eo.Timeout != 30*time.Second {
		t.Errorf("editor options = %+v", eo)
	}
	if vo := c.ValidatorOptions(); vo.Kind != "local" {
		t.Errorf("validator options = %+v", vo)
	}
}
