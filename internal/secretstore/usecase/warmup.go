package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"
)

// WarmUp fetches the secret at startup, retrying with Fibonacci backoff
// (capped at 5s between attempts) for at most maxDuration.
//
// Request-time GetSecret never retries inside a call; this loop exists only so
// a server can start before its configuration store is reachable.
func WarmUp(ctx context.Context, provider SecretProvider, maxDuration time.Duration, logger *slog.Logger) error {
	backoff := retry.NewFibonacci(250 * time.Millisecond)
	backoff = retry.WithCappedDuration(5*time.Second, backoff)
	backoff = retry.WithMaxDuration(maxDuration, backoff)

	attempt := 0
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		if _, err := provider.GetSecret(ctx); err != nil {
			logger.WarnContext(ctx, "secret warm-up attempt failed",
				slog.Int("attempt", attempt),
				slog.Any("error", err),
			)
			return retry.RetryableError(err)
		}
		logger.InfoContext(ctx, "secret warm-up complete", slog.Int("attempts", attempt))
		return nil
	})
}
