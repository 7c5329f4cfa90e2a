// SPDX-License-Identifier: Apache-2.0
// Package resilience provides the supervisor-side wrappers the agent core
// deliberately leaves out: timeout enforcement and retry with backoff
// around Execute calls.
package resilience

import (
	"context"
	"time"

	"github.com/kiidfreak/Ag3nt-05/pkg/errors"
)

// ExecuteFunc is one attempt at a task, typically a closure over
// (*agent.Agent).Execute.
type ExecuteFunc func(ctx context.Context) (map[string]any, error)

// WithTimeout runs fn under a deadline. The agent core defines no
// cancellation primitive for an in-flight task, so on expiry the result of
// fn is discarded and a CodeTimeout error returned; fn keeps running in
// its goroutine until it observes ctx.
func WithTimeout(ctx context.Context, d time.Duration, fn ExecuteFunc) (map[string]any, error) {
	if d == 0 {
		return fn(ctx)
	}

	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	type outcome struct {
		result map[string]any
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		result, err := fn(ctx)
		done <- outcome{result: result, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, errors.New(errors.CodeTimeout, "task exceeded timeout", ctx.Err()).
			WithContext("timeout", d.String()).
			WithRecoverable(true)
	case out := <-done:
		return out.result, out.err
	}
}
