// Package middleware provides interceptors for the api invoker.
package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/broady/ejabberd/api"
)

// Logging creates an interceptor that logs operation calls using slog.
// It logs the start and end of each call, including duration and error code.
// Argument values are never logged since they may carry passwords.
func Logging(logger *slog.Logger) api.Interceptor {
	if logger == nil {
		logger = slog.Default()
	}

	return func(ctx context.Context, info *api.CallInfo, args api.Args, next api.HandlerFunc) (any, error) {
		start := time.Now()

		logger.InfoContext(ctx, "call started",
			slog.String("method", info.Method),
		)

		res, err := next(ctx, args)
		duration := time.Since(start)

		if err != nil {
			logger.ErrorContext(ctx, "call failed",
				slog.String("method", info.Method),
				slog.String("code", string(api.CodeOf(err))),
				slog.Duration("duration", duration),
				slog.Any("error", err),
			)
		} else {
			logger.InfoContext(ctx, "call completed",
				slog.String("method", info.Method),
				slog.Duration("duration", duration),
			)
		}

		return res, err
	}
}
