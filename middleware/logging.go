// Package middleware provides interceptors for the tymock registry.
package middleware

import (
	"log/slog"
	"time"

	"github.com/broady/tymock"
)

// LoggingInterceptor creates an interceptor that logs factory calls using slog.
// It logs the start and end of each call, including duration and the
// number of generic bindings. A factory that panics is logged as failed and
// the panic is propagated.
func LoggingInterceptor(logger *slog.Logger) tymock.Interceptor {
	if logger == nil {
		logger = slog.Default()
	}

	return func(info *tymock.CallInfo, g tymock.Generics, next tymock.Factory) tymock.Value {
		start := time.Now()

		logger.Debug("factory call started",
			slog.String("key", info.Key),
			slog.Int("generics", len(g)),
		)

		completed := false
		defer func() {
			if completed {
				return
			}
			r := recover()
			logger.Error("factory call failed",
				slog.String("key", info.Key),
				slog.Duration("duration", time.Since(start)),
				slog.Any("panic", r),
			)
			panic(r)
		}()

		v := next(g)
		completed = true

		logger.Debug("factory call completed",
			slog.String("key", info.Key),
			slog.Duration("duration", time.Since(start)),
			slog.String("value", tymock.Describe(v)),
		)
		return v
	}
}
