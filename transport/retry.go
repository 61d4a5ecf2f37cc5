package transport

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/broady/ejabberd/api"
	"github.com/cenkalti/backoff/v4"
)

// RetryPolicy configures Retry.
type RetryPolicy struct {
	// MaxRetries is the number of attempts after the first one.
	MaxRetries uint64
	// InitialInterval is the first backoff interval; zero uses the backoff default.
	InitialInterval time.Duration
	// MaxElapsedTime stops retrying once exceeded; zero uses the backoff default.
	MaxElapsedTime time.Duration
	Logger         *slog.Logger
}

func (p RetryPolicy) backOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	if p.InitialInterval > 0 {
		b.InitialInterval = p.InitialInterval
	}
	if p.MaxElapsedTime > 0 {
		b.MaxElapsedTime = p.MaxElapsedTime
	}
	return backoff.WithContext(backoff.WithMaxRetries(b, p.MaxRetries), ctx)
}

func (p RetryPolicy) log() *slog.Logger {
	if p.Logger == nil {
		return slog.Default()
	}
	return p.Logger
}

// Retry wraps next so failed calls are retried with exponential backoff.
// Faults and context errors are not retried: the server answered, or the
// caller gave up.
//
// Retrying is only safe for idempotent operations. Wrap the transport of a
// client used for reads, or accept that a retried register may report
// ErrUserAlreadyRegistered.
func Retry(next api.Transport, policy RetryPolicy) api.Transport {
	return api.TransportFunc(func(ctx context.Context, method string, args map[string]any) (api.Response, error) {
		attempt := 0
		return backoff.RetryNotifyWithData(func() (api.Response, error) {
			attempt++
			res, err := next.Call(ctx, method, args)
			if err != nil && !Retryable(err) {
				return nil, backoff.Permanent(err)
			}
			return res, err
		}, policy.backOff(ctx), func(err error, wait time.Duration) {
			policy.log().WarnContext(ctx, "retrying call",
				slog.String("method", method),
				slog.Int("attempt", attempt),
				slog.Duration("wait", wait),
				slog.Any("error", err))
		})
	})
}

// Retryable reports whether err is worth another attempt.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var fault *Fault
	return !errors.As(err, &fault)
}
