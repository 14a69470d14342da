// Package runner executes a generated suite directly against an editor
// session, without compiling the emitted test file.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ormasoftchile/snipgen/pkg/assertions"
	"github.com/ormasoftchile/snipgen/pkg/editor"
	"github.com/ormasoftchile/snipgen/pkg/htmlcheck"
	"github.com/ormasoftchile/snipgen/pkg/logging"
	"github.com/ormasoftchile/snipgen/pkg/suite"
)

// UnexpandedMarker opens a placeholder the editor failed to expand.
const UnexpandedMarker = "${"

// OpenFunc acquires a fresh editor session for one case.
type OpenFunc func(ctx context.Context) (editor.Session, error)

// Runner executes suite cases one at a time, each in its own session.
type Runner struct {
	Open      OpenFunc
	Logger    *log.Logger
	Timeout   time.Duration       // per-case timeout, zero for none
	FailFast  bool                // stop after the first failed or errored case
	Validator htmlcheck.Validator // optional HTML validity check on the final content
}

// InsertSnippet types prefix, presses trigger and waits for the editor to
// settle. Failures are logged with the prefix and returned.
func InsertSnippet(ctx context.Context, sess editor.Session, logger *log.Logger, prefix, trigger string, settle time.Duration) error {
	err := insert(ctx, sess, prefix, trigger, settle)
	if err != nil && logger != nil {
		logger.Error("inserting snippet", "prefix", prefix, "err", err)
	}
	return err
}

func insert(ctx context.Context, sess editor.Session, prefix, trigger string, settle time.Duration) error {
	if err := sess.TypeText(ctx, prefix); err != nil {
		return err
	}
	if err := sess.PressKey(ctx, trigger); err != nil {
		return err
	}
	return sess.Wait(ctx, settle)
}

// Advance types step.Text at the current tab stop, checks it is visible and
// presses step.Key to move on.
func Advance(ctx context.Context, sess editor.Session, step suite.Step) (*assertions.Result, error) {
	if err := sess.TypeText(ctx, step.Text); err != nil {
		return nil, err
	}
	content, err := sess.Content(ctx)
	if err != nil {
		return nil, err
	}
	result := assertions.EvalContains(content, step.Text)
	if err := sess.PressKey(ctx, step.Key); err != nil {
		return result, err
	}
	return result, nil
}

// RunAll executes every case in s and returns the collected results.
func (r *Runner) RunAll(ctx context.Context, s *suite.Suite) *Output {
	output := &Output{
		Source: s.Source,
		Cases:  []CaseResult{},
	}

	for _, c := range s.Cases {
		if err := ctx.Err(); err != nil {
			output.Cases = append(output.Cases, CaseResult{
				Name:    c.Name,
				Snippet: c.Snippet,
				Prefix:  c.Prefix,
				Status:  StatusSkipped,
				Error:   err.Error(),
			})
			output.Summary.Skipped++
			output.Summary.Total++
			continue
		}

		result := r.RunCase(ctx, s, c)
		output.Cases = append(output.Cases, result)

		switch result.Status {
		case StatusPassed:
			output.Summary.Passed++
		case StatusFailed:
			output.Summary.Failed++
		case StatusSkipped:
			output.Summary.Skipped++
		case StatusError:
			output.Summary.Errors++
		}
		output.Summary.Total++

		if r.FailFast && (result.Status == StatusFailed || result.Status == StatusError) {
			break
		}
	}

	return output
}

// RunCase executes a single case in a fresh session.
func (r *Runner) RunCase(ctx context.Context, s *suite.Suite, c suite.Case) CaseResult {
	logger := r.logger().With("case", c.Name)
	start := time.Now()
	result := CaseResult{
		Name:       c.Name,
		Snippet:    c.Snippet,
		Prefix:     c.Prefix,
		Assertions: []*assertions.Result{},
	}
	fail := func(err error) CaseResult {
		result.Status = StatusError
		result.Error = err.Error()
		result.DurationMs = time.Since(start).Milliseconds()
		logger.Warn("case errored", "err", err)
		return result
	}

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	sess, err := r.Open(ctx)
	if err != nil {
		return fail(fmt.Errorf("open editor: %w", err))
	}
	defer func() {
		if err := sess.Close(); err != nil {
			logger.Warn("closing editor", "err", err)
		}
	}()

	if err := sess.Navigate(ctx, s.Document); err != nil {
		return fail(err)
	}
	if err := sess.WaitForLoad(ctx); err != nil {
		return fail(err)
	}

	logger.Debug("typing prefix", "prefix", c.Prefix, "trigger", s.TriggerKey)
	if err := InsertSnippet(ctx, sess, logger, c.Prefix, s.TriggerKey, s.Settle); err != nil {
		return fail(fmt.Errorf("insert %s: %w", c.Prefix, err))
	}

	content, err := sess.Content(ctx)
	if err != nil {
		return fail(err)
	}
	for _, check := range c.Checks {
		result.Assertions = append(result.Assertions, assertions.EvalContains(content, check))
	}
	result.Assertions = append(result.Assertions, assertions.EvalNotContains(content, UnexpandedMarker))

	for i, step := range c.Steps {
		res, err := Advance(ctx, sess, step)
		if res != nil {
			result.Assertions = append(result.Assertions, res)
		}
		if err != nil {
			return fail(fmt.Errorf("tab stop %d: %w", i+1, err))
		}
	}

	content, err = sess.Content(ctx)
	if err != nil {
		return fail(err)
	}
	result.Assertions = append(result.Assertions, assertions.EvalNotEmpty(content))

	if r.Validator != nil {
		vr, err := r.Validator.Validate(ctx, content)
		if err != nil {
			return fail(fmt.Errorf("validate html: %w", err))
		}
		result.Assertions = append(result.Assertions, assertions.EvalValidHTML(vr))
	}

	if HasFailures(result.Assertions) {
		result.Status = StatusFailed
	} else {
		result.Status = StatusPassed
	}
	result.DurationMs = time.Since(start).Milliseconds()
	logger.Debug("case finished", "status", result.Status, "duration_ms", result.DurationMs)
	return result
}

func (r *Runner) logger() *log.Logger {
	if r.Logger == nil {
		return logging.Discard()
	}
	return r.Logger
}
