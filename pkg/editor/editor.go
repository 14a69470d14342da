// Package editor defines the automation boundary used to drive a code editor
// through a test: open a document, type, press keys and read the content back.
//
// Three drivers implement Session:
//
//	playwright  Chromium via playwright-go, launched or attached over CDP
//	chromedp    Chromium via the DevTools protocol, local or remote
//	sim         an in-process editor that expands snippets itself
package editor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ormasoftchile/snipgen/pkg/snippet"
)

// Driver names accepted by Open.
const (
	DriverPlaywright = "playwright"
	DriverChromedp   = "chromedp"
	DriverSim        = "sim"
)

// Logical key names understood by every driver.
const (
	KeyTab       = "Tab"
	KeyEnter     = "Enter"
	KeyEscape    = "Escape"
	KeyBackspace = "Backspace"
)

// ErrClosed is returned by Session methods called after Close.
var ErrClosed = errors.New("editor session closed")

// Session is an explicit handle on one editor instance. Calls are
// sequential; a Session is not safe for concurrent use unless the driver
// says otherwise.
type Session interface {
	Navigate(ctx context.Context, uri string) error
	WaitForLoad(ctx context.Context) error
	TypeText(ctx context.Context, text string) error
	PressKey(ctx context.Context, key string) error
	Content(ctx context.Context) (string, error)
	Wait(ctx context.Context, d time.Duration) error
	Close() error
}

// Options configures Open.
type Options struct {
	Driver   string
	Endpoint string        // CDP endpoint to attach to instead of launching
	Headless bool          // only used when launching
	Timeout  time.Duration // per-operation timeout for browser drivers
	Selector string        // element whose text is the document; empty reads the page HTML

	// Snippets backs the sim driver.
	Snippets *snippet.Collection
}

// Drivers lists the accepted driver names.
func Drivers() []string {
	return []string{DriverPlaywright, DriverChromedp, DriverSim}
}

// Open starts a session with the configured driver.
func Open(ctx context.Context, opts Options) (Session, error) {
	switch opts.Driver {
	case DriverPlaywright, "":
		return openPlaywright(ctx, opts)
	case DriverChromedp:
		return openChromedp(ctx, opts)
	case DriverSim:
		if opts.Snippets == nil {
			return nil, fmt.Errorf("sim driver requires a snippet collection")
		}
		return NewSim(opts.Snippets), nil
	default:
		return nil, fmt.Errorf("unknown editor driver %q", opts.Driver)
	}
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
