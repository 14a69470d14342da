// Package config loads snipgen settings from defaults, a TOML file, the
// environment and command-line flags, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"go/token"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/ormasoftchile/snipgen/pkg/editor"
	"github.com/ormasoftchile/snipgen/pkg/htmlcheck"
	"github.com/ormasoftchile/snipgen/pkg/logging"
	"github.com/ormasoftchile/snipgen/pkg/snippet"
	"github.com/ormasoftchile/snipgen/pkg/suite"
)

// EnvPrefix prefixes environment overrides. Sections are separated by a
// double underscore, e.g. SNIPGEN_EDITOR__DRIVER=sim.
const EnvPrefix = "SNIPGEN"

// DefaultFile is read from the working directory when no file is named.
const DefaultFile = "snipgen.toml"

// Config is the resolved configuration.
type Config struct {
	Snippets  string
	Output    string
	Package   string
	Filter    string
	Editor    EditorConfig
	Validator ValidatorConfig
	Log       LogConfig
}

// EditorConfig selects and tunes the editor driver.
type EditorConfig struct {
	Driver   string
	Document string
	Endpoint string
	Selector string
	Headless bool
	Trigger  string
	Settle   time.Duration
	Timeout  time.Duration
}

// ValidatorConfig selects the HTML validator.
type ValidatorConfig struct {
	Kind string
	URL  string
}

// LogConfig controls the logger.
type LogConfig struct {
	Level  string
	Format string
}

// Defaults returns the built-in values for every key.
func Defaults() map[string]any {
	return map[string]any{
		"snippets":        "./snippets.code-snippets",
		"output":          "./e2e/snippets_generated_test.go",
		"package":         "e2e",
		"filter":          "",
		"editor.driver":   editor.DriverPlaywright,
		"editor.document": "vscode://file/test.html",
		"editor.endpoint": "",
		"editor.selector": "",
		"editor.headless": true,
		"editor.trigger":  editor.KeyTab,
		"editor.settle":   "500ms",
		"editor.timeout":  "30s",
		"validator.kind":  htmlcheck.KindLocal,
		"validator.url":   htmlcheck.DefaultNuURL,
		"log.level":       "info",
		"log.format":      logging.FormatText,
	}
}

// Load merges defaults, the config file, the environment and cliflags.
// An empty configFile falls back to DefaultFile when it exists.
func Load(configFile string, cliflags map[string]any) (*koanf.Koanf, error) {
	k := koanf.New(".")
	fileConf := koanf.New(".")
	envConf := koanf.New(".")
	cliConf := koanf.New(".")

	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if configFile == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			configFile = DefaultFile
		}
	}
	if configFile != "" {
		if err := fileConf.Load(file.Provider(configFile), toml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", configFile, err)
		}
	}

	err := envConf.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, EnvPrefix+"_")), "__", ".", 1)
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}

	if err := cliConf.Load(confmap.Provider(cliflags, "."), nil); err != nil {
		return nil, fmt.Errorf("load flags: %w", err)
	}

	for _, layer := range []*koanf.Koanf{fileConf, envConf, cliConf} {
		if err := k.Merge(layer); err != nil {
			return nil, fmt.Errorf("build config: %w", err)
		}
	}
	return k, nil
}

// New reads a Config out of k and validates it.
func New(k *koanf.Koanf) (*Config, error) {
	c := &Config{
		Snippets: k.String("snippets"),
		Output:   k.String("output"),
		Package:  k.String("package"),
		Filter:   k.String("filter"),
		Editor: EditorConfig{
			Driver:   k.String("editor.driver"),
			Document: k.String("editor.document"),
			Endpoint: k.String("editor.endpoint"),
			Selector: k.String("editor.selector"),
			Headless: k.Bool("editor.headless"),
			Trigger:  k.String("editor.trigger"),
			Settle:   k.Duration("editor.settle"),
			Timeout:  k.Duration("editor.timeout"),
		},
		Validator: ValidatorConfig{
			Kind: k.String("validator.kind"),
			URL:  k.String("validator.url"),
		},
		Log: LogConfig{
			Level:  k.String("log.level"),
			Format: k.String("log.format"),
		},
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// FromEnv loads defaults, DefaultFile if present, and the environment.
func FromEnv() (*Config, error) {
	k, err := Load("", nil)
	if err != nil {
		return nil, err
	}
	return New(k)
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	if c.Snippets == "" {
		errs = append(errs, errors.New("snippets: path is required"))
	}
	if !token.IsIdentifier(c.Package) {
		errs = append(errs, fmt.Errorf("package: %q is not a Go identifier", c.Package))
	}
	if !slices.Contains(editor.Drivers(), c.Editor.Driver) {
		errs = append(errs, fmt.Errorf("editor.driver: unknown driver %q (want one of %s)",
			c.Editor.Driver, strings.Join(editor.Drivers(), ", ")))
	}
	if c.Editor.Trigger == "" {
		errs = append(errs, errors.New("editor.trigger: key is required"))
	}
	if c.Editor.Settle < 0 {
		errs = append(errs, fmt.Errorf("editor.settle: must not be negative, got %s", c.Editor.Settle))
	}
	if c.Editor.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("editor.timeout: must be positive, got %s", c.Editor.Timeout))
	}
	if !slices.Contains(htmlcheck.Kinds(), c.Validator.Kind) {
		errs = append(errs, fmt.Errorf("validator.kind: unknown validator %q (want one of %s)",
			c.Validator.Kind, strings.Join(htmlcheck.Kinds(), ", ")))
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if !slices.Contains(logging.Formats(), c.Log.Format) {
		errs = append(errs, fmt.Errorf("log.format: unknown format %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

// SuiteOptions returns the generator options implied by c.
func (c *Config) SuiteOptions() suite.Options {
	return suite.Options{
		Package:    c.Package,
		Document:   c.Editor.Document,
		TriggerKey: c.Editor.Trigger,
		Settle:     c.Editor.Settle,
		Filter:     c.Filter,
	}
}

// EditorOptions returns the driver options implied by c. col backs the sim
// driver and may be nil for the browser drivers.
func (c *Config) EditorOptions(col *snippet.Collection) editor.Options {
	return editor.Options{
		Driver:   c.Editor.Driver,
		Endpoint: c.Editor.Endpoint,
		Headless: c.Editor.Headless,
		Timeout:  c.Editor.Timeout,
		Selector: c.Editor.Selector,
		Snippets: col,
	}
}

// ValidatorOptions returns the HTML validator options implied by c.
func (c *Config) ValidatorOptions() htmlcheck.Options {
	return htmlcheck.Options{Kind: c.Validator.Kind, URL: c.Validator.URL}
}
