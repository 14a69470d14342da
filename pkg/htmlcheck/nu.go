package htmlcheck

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/go-retryablehttp"
)

// DefaultNuURL is the public W3C instance of the Nu HTML Checker.
const DefaultNuURL = "https://validator.w3.org/nu/"

// Nu validates documents with a Nu HTML Checker service.
type Nu struct {
	url    string
	client *retryablehttp.Client
}

// NuOption configures a Nu validator.
type NuOption func(*Nu)

// WithHTTPClient sets the underlying HTTP client, e.g. one with a custom
// transport in tests.
func WithHTTPClient(c *http.Client) NuOption {
	return func(n *Nu) { n.client.HTTPClient = c }
}

// WithRetries sets how many times a failed request is retried.
func WithRetries(max int) NuOption {
	return func(n *Nu) { n.client.RetryMax = max }
}

// WithLogger routes retry logging to logger.
func WithLogger(logger *log.Logger) NuOption {
	return func(n *Nu) { n.client.Logger = leveledLogger{logger} }
}

// NewNu returns a validator posting to the checker at rawURL, or the public
// instance when rawURL is empty.
func NewNu(rawURL string, opts ...NuOption) *Nu {
	if rawURL == "" {
		rawURL = DefaultNuURL
	}
	client := retryablehttp.NewClient()
	client.RetryMax = 2
	client.RetryWaitMin = 500 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second
	client.HTTPClient.Timeout = 30 * time.Second
	client.Logger = nil

	n := &Nu{url: rawURL, client: client}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

type nuResponse struct {
	Messages []nuMessage `json:"messages"`
}

type nuMessage struct {
	Type     string `json:"type"`
	SubType  string `json:"subType"`
	Message  string `json:"message"`
	LastLine int    `json:"lastLine"`
}

func (n *Nu) Validate(ctx context.Context, doc string) (*Result, error) {
	endpoint, err := url.Parse(n.url)
	if err != nil {
		return nil, fmt.Errorf("parse validator url: %w", err)
	}
	q := endpoint.Query()
	q.Set("out", "json")
	endpoint.RawQuery = q.Encode()

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), []byte(doc))
	if err != nil {
		return nil, fmt.Errorf("build validator request: %w", err)
	}
	req.Header.Set("Content-Type", "text/html; charset=utf-8")
	req.Header.Set("User-Agent", "snipgen")

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call validator: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("validator returned %s: %s", resp.Status, body)
	}

	var out nuResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode validator response: %w", err)
	}

	msgs := make([]Message, 0, len(out.Messages))
	for _, m := range out.Messages {
		msgs = append(msgs, Message{
			Severity: nuSeverity(m),
			Line:     m.LastLine,
			Text:     m.Message,
		})
	}
	return newResult(msgs), nil
}

func nuSeverity(m nuMessage) string {
	switch m.Type {
	case "error", "non-document-error":
		return SeverityError
	case "info":
		if m.SubType == "warning" {
			return SeverityWarning
		}
	}
	return SeverityInfo
}

// leveledLogger adapts a charm logger to retryablehttp.LeveledLogger.
type leveledLogger struct {
	l *log.Logger
}

func (a leveledLogger) Error(msg string, kv ...interface{}) { a.l.Error(msg, kv...) }
func (a leveledLogger) Info(msg string, kv ...interface{})  { a.l.Info(msg, kv...) }
func (a leveledLogger) Debug(msg string, kv ...interface{}) { a.l.Debug(msg, kv...) }
func (a leveledLogger) Warn(msg string, kv ...interface{})  { a.l.Warn(msg, kv...) }
