// Package retry runs store and index calls with a per-attempt timeout and a
// bounded number of attempts separated by exponential backoff.
//
// Domain outcomes (not found, invalid values, rejected transitions, lost
// compare-and-set races) are returned as-is on the first attempt. Anything else
// is treated as an infrastructure failure; once attempts are exhausted it is
// wrapped in errs.InfrastructureError.
package retry

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"grocery/internal/pkg/errs"
)

type counter interface {
	Inc()
}

// Config controls a Runner.
type Config struct {
	MaxAttempts    int
	BaseDelay      time.Duration
	MaxDelay       time.Duration
	AttemptTimeout time.Duration
}

// DefaultConfig retries once after 100ms, each attempt bounded by 2s.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:    2,
		BaseDelay:      100 * time.Millisecond,
		MaxDelay:       time.Second,
		AttemptTimeout: 2 * time.Second,
	}
}

// Runner executes operations under a Config.
type Runner struct {
	cfg     Config
	logger  *slog.Logger
	retries counter
}

// NewRunner builds a Runner. retries may be nil.
func NewRunner(cfg Config, logger *slog.Logger, retries counter) *Runner {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{cfg: cfg, logger: logger.With("component", "retry"), retries: retries}
}

// Do runs fn until it succeeds, returns a permanent error, or attempts run out.
func (r *Runner) Do(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	_, err := Value(ctx, r, operation, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// Value is Do for operations that produce a result.
func Value[T any](ctx context.Context, r *Runner, operation string, fn func(ctx context.Context) (T, error)) (T, error) {
	var (
		zero    T
		lastErr error
	)
	for attempt := 1; attempt <= r.cfg.MaxAttempts; attempt++ {
		v, err := runAttempt(ctx, r.cfg.AttemptTimeout, fn)
		if err == nil {
			return v, nil
		}
		if !IsRetryable(err) {
			return zero, err
		}
		lastErr = err

		if ctx.Err() != nil || attempt == r.cfg.MaxAttempts {
			break
		}

		delay := backoff(r.cfg.BaseDelay, r.cfg.MaxDelay, attempt)
		if r.retries != nil {
			r.retries.Inc()
		}
		r.logger.WarnContext(ctx, "retrying operation",
			"operation", operation,
			"attempt", attempt,
			"delay", delay,
			"error", err,
		)
		if !sleepWithContext(ctx, delay) {
			break
		}
	}
	return zero, errs.NewInfrastructureError(operation, lastErr)
}

func runAttempt[T any](ctx context.Context, timeout time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	if timeout <= 0 {
		return fn(ctx)
	}
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return fn(attemptCtx)
}

// IsRetryable reports whether err may succeed on another attempt.
func IsRetryable(err error) bool {
	switch {
	case err == nil,
		errors.Is(err, context.Canceled),
		errors.Is(err, errs.ErrObjectNotFound),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrTransitionIsInvalid),
		errors.Is(err, errs.ErrStateIsStale),
		errors.Is(err, errs.ErrInfrastructureFailed):
		return false
	default:
		return true
	}
}

func backoff(base, maxDelay time.Duration, attempt int) time.Duration {
	d := base << (attempt - 1)
	if d > maxDelay || d < 0 {
		return maxDelay
	}
	return d
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
