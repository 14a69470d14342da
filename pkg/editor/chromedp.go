package editor

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
)

type chromedpSession struct {
	tabCtx      context.Context
	allocCancel context.CancelFunc
	timeout     time.Duration
	selector    string
	closed      bool
}

func openChromedp(ctx context.Context, opts Options) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// The browser outlives the caller's context; it is released by Close.
	var (
		allocCtx    context.Context
		allocCancel context.CancelFunc
	)
	if opts.Endpoint != "" {
		allocCtx, allocCancel = chromedp.NewRemoteAllocator(context.Background(), opts.Endpoint)
	} else {
		allocOpts := append(chromedp.DefaultExecAllocatorOptions[:], chromedp.Flag("headless", opts.Headless))
		allocCtx, allocCancel = chromedp.NewExecAllocator(context.Background(), allocOpts...)
	}
	tabCtx, _ := chromedp.NewContext(allocCtx)

	// First Run allocates the browser and must not carry a deadline.
	if err := chromedp.Run(tabCtx); err != nil {
		allocCancel()
		return nil, fmt.Errorf("start chromium: %w", err)
	}

	return &chromedpSession{
		tabCtx:      tabCtx,
		allocCancel: allocCancel,
		timeout:     opts.Timeout,
		selector:    opts.Selector,
	}, nil
}

// run executes actions in the tab, bounded by ctx and the session timeout.
func (s *chromedpSession) run(ctx context.Context, actions ...chromedp.Action) error {
	if s.closed {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	runCtx, cancel := context.WithCancel(s.tabCtx)
	defer cancel()
	if s.timeout > 0 {
		runCtx, cancel = context.WithTimeout(runCtx, s.timeout)
		defer cancel()
	}
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	return chromedp.Run(runCtx, actions...)
}

func (s *chromedpSession) Navigate(ctx context.Context, uri string) error {
	if err := s.run(ctx, chromedp.Navigate(uri)); err != nil {
		return fmt.Errorf("navigate to %s: %w", uri, err)
	}
	return nil
}

func (s *chromedpSession) WaitForLoad(ctx context.Context) error {
	if err := s.run(ctx, chromedp.WaitReady("body", chromedp.ByQuery)); err != nil {
		return fmt.Errorf("wait for load: %w", err)
	}
	return nil
}

func (s *chromedpSession) TypeText(ctx context.Context, text string) error {
	if err := s.run(ctx, chromedp.KeyEvent(text)); err != nil {
		return fmt.Errorf("type %q: %w", text, err)
	}
	return nil
}

func (s *chromedpSession) PressKey(ctx context.Context, key string) error {
	k, err := chromedpKey(key)
	if err != nil {
		return err
	}
	if err := s.run(ctx, chromedp.KeyEvent(k)); err != nil {
		return fmt.Errorf("press %s: %w", key, err)
	}
	return nil
}

func (s *chromedpSession) Content(ctx context.Context) (string, error) {
	var out string
	var action chromedp.Action
	if s.selector != "" {
		action = chromedp.Text(s.selector, &out, chromedp.ByQuery)
	} else {
		action = chromedp.OuterHTML("html", &out, chromedp.ByQuery)
	}
	if err := s.run(ctx, action); err != nil {
		return "", fmt.Errorf("read content: %w", err)
	}
	return out, nil
}

func (s *chromedpSession) Wait(ctx context.Context, d time.Duration) error {
	if s.closed {
		return ErrClosed
	}
	return sleep(ctx, d)
}

func (s *chromedpSession) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	err := chromedp.Cancel(s.tabCtx)
	s.allocCancel()
	return err
}

// chromedpKey maps a logical key name to the key sequence chromedp sends.
func chromedpKey(key string) (string, error) {
	switch key {
	case KeyTab:
		return kb.Tab, nil
	case KeyEnter:
		return kb.Enter, nil
	case KeyEscape:
		return kb.Escape, nil
	case KeyBackspace:
		return kb.Backspace, nil
	}
	if utf8.RuneCountInString(key) == 1 {
		return key, nil
	}
	return "", fmt.Errorf("unsupported key %q", key)
}
