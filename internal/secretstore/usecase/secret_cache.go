package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	apperrors "github.com/allisson/qrseal/internal/errors"
	"github.com/allisson/qrseal/internal/metrics"
	secretDomain "github.com/allisson/qrseal/internal/secretstore/domain"
)

const (
	flightKey      = "secret"
	metricsDomain  = "secretstore"
	metricsFetchOp = "secret_fetch"
)

// fetchResult is what a flight hands to every caller that joined it.
type fetchResult struct {
	secret     secretDomain.Secret
	generation uint64
}

// SecretCache is the single-flight secret cache.
//
// At most one fetch runs at a time. Callers that arrive while a fetch is in
// flight wait for it instead of starting their own. A cached secret is read
// without locking. Invalidate bumps the generation; a fetch that started
// under an older generation still answers the callers that joined it but is
// never stored, and callers that observed the newer generation fetch again.
type SecretCache struct {
	fetcher      SecretFetcher
	fetchTimeout time.Duration
	metrics      metrics.BusinessMetrics
	logger       *slog.Logger

	group      singleflight.Group
	mu         sync.Mutex // serializes storing a result with Invalidate
	cached     atomic.Pointer[secretDomain.Secret]
	generation atomic.Uint64
	inFlight   atomic.Int32
}

// NewSecretCache creates an empty cache in front of fetcher.
// A non-positive fetchTimeout disables the fetch deadline.
func NewSecretCache(
	fetcher SecretFetcher,
	fetchTimeout time.Duration,
	businessMetrics metrics.BusinessMetrics,
	logger *slog.Logger,
) *SecretCache {
	if businessMetrics == nil {
		businessMetrics = metrics.NewNoOpBusinessMetrics()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SecretCache{
		fetcher:      fetcher,
		fetchTimeout: fetchTimeout,
		metrics:      businessMetrics,
		logger:       logger,
	}
}

// GetSecret returns the cached secret or joins (or starts) the single fetch.
//
// If ctx ends first the caller gets ErrSecretUnavailable, but the fetch keeps
// running for the other callers and its result is still cached.
func (c *SecretCache) GetSecret(ctx context.Context) (secretDomain.Secret, error) {
	for {
		if secret := c.cached.Load(); secret != nil {
			return *secret, nil
		}

		if err := ctx.Err(); err != nil {
			return secretDomain.Secret{}, apperrors.Join(secretDomain.ErrSecretUnavailable, err)
		}

		want := c.generation.Load()
		ch := c.group.DoChan(flightKey, func() (any, error) {
			return c.fetch(ctx)
		})

		select {
		case res := <-ch:
			if res.Err != nil {
				return secretDomain.Secret{}, res.Err
			}
			result := res.Val.(fetchResult)
			if result.generation >= want {
				return result.secret, nil
			}
			// Joined a flight that started before an invalidation this caller saw.
		case <-ctx.Done():
			return secretDomain.Secret{}, apperrors.Join(secretDomain.ErrSecretUnavailable, ctx.Err())
		}
	}
}

// fetch runs inside the flight. It must never panic and never leave the
// cache stuck in the fetching state.
func (c *SecretCache) fetch(ctx context.Context) (fetchResult, error) {
	generation := c.generation.Load()
	if secret := c.cached.Load(); secret != nil {
		return fetchResult{secret: *secret, generation: generation}, nil
	}

	c.inFlight.Add(1)
	defer c.inFlight.Add(-1)

	start := time.Now()
	secret, err := c.fetchOnce(ctx)
	if err == nil && secret.IsZero() {
		err = apperrors.Wrap(secretDomain.ErrSecretFieldMissing, "fetcher returned an empty secret")
	}

	if err != nil {
		c.record(ctx, metrics.StatusError, start)
		c.logger.WarnContext(ctx, "failed to fetch secret",
			slog.Duration("duration", time.Since(start)),
			slog.Any("error", err),
		)
		return fetchResult{}, apperrors.Join(secretDomain.ErrSecretUnavailable, err)
	}

	c.mu.Lock()
	stored := c.generation.Load() == generation
	if stored {
		c.cached.Store(&secret)
	}
	c.mu.Unlock()

	if !stored {
		c.record(ctx, metrics.StatusDiscarded, start)
		c.logger.InfoContext(ctx, "discarded secret fetched before invalidation")
		return fetchResult{secret: secret, generation: generation}, nil
	}

	c.record(ctx, metrics.StatusSuccess, start)
	c.logger.InfoContext(ctx, "secret fetched and cached", slog.Duration("duration", time.Since(start)))
	return fetchResult{secret: secret, generation: generation}, nil
}

// fetchOnce calls the fetcher detached from the triggering caller's
// cancellation, bounded by the configured timeout.
func (c *SecretCache) fetchOnce(ctx context.Context) (secret secretDomain.Secret, err error) {
	fetchCtx := context.WithoutCancel(ctx)
	if c.fetchTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(fetchCtx, c.fetchTimeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			secret = secretDomain.Secret{}
			err = fmt.Errorf("secret fetcher panicked: %v", r)
		}
	}()

	return c.fetcher.Fetch(fetchCtx)
}

func (c *SecretCache) record(ctx context.Context, status string, start time.Time) {
	metrics.Observe(ctx, c.metrics, metricsDomain, metricsFetchOp, status, start)
}

// Invalidate drops the cached secret. A fetch in flight is allowed to finish
// but its result is not cached.
func (c *SecretCache) Invalidate(ctx context.Context) {
	c.mu.Lock()
	c.generation.Add(1)
	c.cached.Store(nil)
	c.mu.Unlock()

	c.logger.InfoContext(ctx, "secret cache invalidated")
}

// State reports cached, fetching or unfetched, in that order of precedence.
func (c *SecretCache) State() secretDomain.State {
	if c.cached.Load() != nil {
		return secretDomain.StateCached
	}
	if c.inFlight.Load() > 0 {
		return secretDomain.StateFetching
	}
	return secretDomain.StateUnfetched
}
