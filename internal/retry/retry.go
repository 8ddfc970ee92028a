// Package retry runs idempotent reads with bounded exponential backoff.
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog"

	"bolpur-mart/internal/model"
)

// Config configures retry behavior.
type Config struct {
	MaxAttempts     uint
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultConfig allows three attempts in total.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:     3,
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     time.Second,
	}
}

// Do calls fn until it succeeds, the attempts run out or ctx ends. Domain
// errors are never retried.
func Do[T any](ctx context.Context, cfg Config, logger zerolog.Logger, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = cfg.InitialInterval
	b.MaxInterval = cfg.MaxInterval

	attempts := cfg.MaxAttempts
	if attempts == 0 {
		attempts = 1
	}

	return backoff.Retry(ctx, func() (T, error) {
		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		var de *model.DomainError
		if errors.As(err, &de) || errors.Is(err, context.Canceled) {
			return v, backoff.Permanent(err)
		}
		return v, err
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(attempts),
		backoff.WithNotify(func(err error, wait time.Duration) {
			logger.Warn().Err(err).Str("operation", op).Dur("wait", wait).Msg("Retrying after transient failure")
		}),
	)
}
