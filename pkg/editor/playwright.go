package editor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

type playwrightSession struct {
	pw       *playwright.Playwright
	browser  playwright.Browser
	page     playwright.Page
	selector string
	closed   bool
}

func openPlaywright(ctx context.Context, opts Options) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("start playwright: %w", err)
	}

	var browser playwright.Browser
	if opts.Endpoint != "" {
		browser, err = pw.Chromium.ConnectOverCDP(opts.Endpoint)
	} else {
		browser, err = pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
			Headless: playwright.Bool(opts.Headless),
		})
	}
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("open chromium: %w", err)
	}

	page, err := browser.NewPage()
	if err != nil {
		_ = browser.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("new page: %w", err)
	}
	if opts.Timeout > 0 {
		page.SetDefaultTimeout(float64(opts.Timeout.Milliseconds()))
	}

	return &playwrightSession{pw: pw, browser: browser, page: page, selector: opts.Selector}, nil
}

// check fails fast on a cancelled context or a closed session; playwright-go
// calls do not take a context themselves.
func (s *playwrightSession) check(ctx context.Context) error {
	if s.closed {
		return ErrClosed
	}
	return ctx.Err()
}

func (s *playwrightSession) Navigate(ctx context.Context, uri string) error {
	if err := s.check(ctx); err != nil {
		return err
	}
	if _, err := s.page.Goto(uri); err != nil {
		return fmt.Errorf("navigate to %s: %w", uri, err)
	}
	return nil
}

func (s *playwrightSession) WaitForLoad(ctx context.Context) error {
	if err := s.check(ctx); err != nil {
		return err
	}
	err := s.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State: playwright.LoadStateDomcontentloaded,
	})
	if err != nil {
		return fmt.Errorf("wait for load: %w", err)
	}
	return nil
}

func (s *playwrightSession) TypeText(ctx context.Context, text string) error {
	if err := s.check(ctx); err != nil {
		return err
	}
	if err := s.page.Keyboard().Type(text); err != nil {
		return fmt.Errorf("type %q: %w", text, err)
	}
	return nil
}

func (s *playwrightSession) PressKey(ctx context.Context, key string) error {
	if err := s.check(ctx); err != nil {
		return err
	}
	if err := s.page.Keyboard().Press(key); err != nil {
		return fmt.Errorf("press %s: %w", key, err)
	}
	return nil
}

func (s *playwrightSession) Content(ctx context.Context) (string, error) {
	if err := s.check(ctx); err != nil {
		return "", err
	}
	if s.selector != "" {
		text, err := s.page.Locator(s.selector).InnerText()
		if err != nil {
			return "", fmt.Errorf("read %s: %w", s.selector, err)
		}
		return text, nil
	}
	html, err := s.page.Content()
	if err != nil {
		return "", fmt.Errorf("read page content: %w", err)
	}
	return html, nil
}

func (s *playwrightSession) Wait(ctx context.Context, d time.Duration) error {
	if s.closed {
		return ErrClosed
	}
	return sleep(ctx, d)
}

func (s *playwrightSession) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return errors.Join(s.page.Close(), s.browser.Close(), s.pw.Stop())
}
