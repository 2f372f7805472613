package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	secretDomain "github.com/allisson/qrseal/internal/secretstore/domain"
)

// fakeFetcher counts calls and, when gate is set, blocks each call until a
// value is sent on it.
type fakeFetcher struct {
	calls   atomic.Int32
	started chan struct{}
	gate    chan struct{}
	fetch   func(ctx context.Context, call int32) (secretDomain.Secret, error)
}

func (f *fakeFetcher) Fetch(ctx context.Context) (secretDomain.Secret, error) {
	call := f.calls.Add(1)
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.gate != nil {
		<-f.gate
	}
	return f.fetch(ctx, call)
}

func constantSecret(value string) func(context.Context, int32) (secretDomain.Secret, error) {
	return func(context.Context, int32) (secretDomain.Secret, error) {
		return secretDomain.NewSecret(value), nil
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSecretCache_GetSecret(t *testing.T) {
	t.Run("Success_FetchesOnceThenCached", func(t *testing.T) {
		fetcher := &fakeFetcher{fetch: constantSecret("s3cret")}
		cache := NewSecretCache(fetcher, time.Second, nil, discardLogger())
		assert.Equal(t, secretDomain.StateUnfetched, cache.State())

		for range 5 {
			secret, err := cache.GetSecret(t.Context())
			require.NoError(t, err)
			assert.True(t, secret.Equal(secretDomain.NewSecret("s3cret")))
		}

		assert.Equal(t, int32(1), fetcher.calls.Load())
		assert.Equal(t, secretDomain.StateCached, cache.State())
	})

	t.Run("Success_ConcurrentCallersShareOneFetch", func(t *testing.T) {
		fetcher := &fakeFetcher{
			started: make(chan struct{}, 1),
			gate:    make(chan struct{}),
			fetch:   constantSecret("shared"),
		}
		cache := NewSecretCache(fetcher, time.Second, nil, discardLogger())

		const callers = 50
		results := make([]secretDomain.Secret, callers)
		errs := make([]error, callers)

		var wg sync.WaitGroup
		for i := range callers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				results[i], errs[i] = cache.GetSecret(context.Background())
			}()
		}

		<-fetcher.started
		assert.Equal(t, secretDomain.StateFetching, cache.State())
		// let the other callers pile up behind the in-flight fetch
		time.Sleep(50 * time.Millisecond)
		close(fetcher.gate)
		wg.Wait()

		assert.Equal(t, int32(1), fetcher.calls.Load())
		for i := range callers {
			require.NoError(t, errs[i])
			assert.True(t, results[i].Equal(secretDomain.NewSecret("shared")))
		}
	})

	t.Run("Error_FailureIsNotCached", func(t *testing.T) {
		fetcher := &fakeFetcher{
			fetch: func(_ context.Context, call int32) (secretDomain.Secret, error) {
				if call == 1 {
					return secretDomain.Secret{}, secretDomain.ErrSecretNotFound
				}
				return secretDomain.NewSecret("second"), nil
			},
		}
		cache := NewSecretCache(fetcher, time.Second, nil, discardLogger())

		_, err := cache.GetSecret(t.Context())
		assert.ErrorIs(t, err, secretDomain.ErrSecretUnavailable)
		assert.ErrorIs(t, err, secretDomain.ErrSecretNotFound)
		assert.Equal(t, secretDomain.StateUnfetched, cache.State())

		secret, err := cache.GetSecret(t.Context())
		require.NoError(t, err)
		assert.True(t, secret.Equal(secretDomain.NewSecret("second")))
		assert.Equal(t, int32(2), fetcher.calls.Load())
	})

	t.Run("Error_FieldMissing", func(t *testing.T) {
		fetcher := &fakeFetcher{
			fetch: func(context.Context, int32) (secretDomain.Secret, error) {
				return secretDomain.Secret{}, secretDomain.ErrSecretFieldMissing
			},
		}
		cache := NewSecretCache(fetcher, time.Second, nil, discardLogger())

		_, err := cache.GetSecret(t.Context())
		assert.ErrorIs(t, err, secretDomain.ErrSecretUnavailable)
		assert.ErrorIs(t, err, secretDomain.ErrSecretFieldMissing)
	})

	t.Run("Error_EmptySecret", func(t *testing.T) {
		fetcher := &fakeFetcher{fetch: constantSecret("")}
		cache := NewSecretCache(fetcher, time.Second, nil, discardLogger())

		_, err := cache.GetSecret(t.Context())
		assert.ErrorIs(t, err, secretDomain.ErrSecretUnavailable)
		assert.Equal(t, secretDomain.StateUnfetched, cache.State())
	})

	t.Run("Error_PanicIsRecovered", func(t *testing.T) {
		fetcher := &fakeFetcher{
			fetch: func(context.Context, int32) (secretDomain.Secret, error) {
				panic("boom")
			},
		}
		cache := NewSecretCache(fetcher, time.Second, nil, discardLogger())

		_, err := cache.GetSecret(t.Context())
		require.ErrorIs(t, err, secretDomain.ErrSecretUnavailable)
		assert.Contains(t, err.Error(), "boom")
		assert.Equal(t, secretDomain.StateUnfetched, cache.State())
	})

	t.Run("Error_FetchTimeout", func(t *testing.T) {
		fetcher := &fakeFetcher{
			fetch: func(ctx context.Context, call int32) (secretDomain.Secret, error) {
				if call == 1 {
					<-ctx.Done()
					return secretDomain.Secret{}, ctx.Err()
				}
				return secretDomain.NewSecret("after-timeout"), nil
			},
		}
		cache := NewSecretCache(fetcher, 20*time.Millisecond, nil, discardLogger())

		_, err := cache.GetSecret(t.Context())
		assert.ErrorIs(t, err, secretDomain.ErrSecretUnavailable)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Equal(t, secretDomain.StateUnfetched, cache.State())

		secret, err := cache.GetSecret(t.Context())
		require.NoError(t, err)
		assert.True(t, secret.Equal(secretDomain.NewSecret("after-timeout")))
	})

	t.Run("Error_CallerCancelledFetchStillCaches", func(t *testing.T) {
		fetcher := &fakeFetcher{
			started: make(chan struct{}, 1),
			gate:    make(chan struct{}),
			fetch:   constantSecret("late"),
		}
		cache := NewSecretCache(fetcher, time.Second, nil, discardLogger())

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() {
			_, err := cache.GetSecret(ctx)
			done <- err
		}()

		<-fetcher.started
		cancel()
		err := <-done
		assert.ErrorIs(t, err, secretDomain.ErrSecretUnavailable)
		assert.ErrorIs(t, err, context.Canceled)

		close(fetcher.gate)
		require.Eventually(t, func() bool {
			return cache.State() == secretDomain.StateCached
		}, time.Second, 5*time.Millisecond)

		secret, err := cache.GetSecret(t.Context())
		require.NoError(t, err)
		assert.True(t, secret.Equal(secretDomain.NewSecret("late")))
		assert.Equal(t, int32(1), fetcher.calls.Load())
	})

	t.Run("Error_AlreadyCancelledContext", func(t *testing.T) {
		fetcher := &fakeFetcher{fetch: constantSecret("unused")}
		cache := NewSecretCache(fetcher, time.Second, nil, discardLogger())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := cache.GetSecret(ctx)
		assert.ErrorIs(t, err, secretDomain.ErrSecretUnavailable)
		assert.Equal(t, int32(0), fetcher.calls.Load())
	})
}

func TestSecretCache_Invalidate(t *testing.T) {
	t.Run("Success_RefetchesExactlyOnce", func(t *testing.T) {
		fetcher := &fakeFetcher{
			fetch: func(_ context.Context, call int32) (secretDomain.Secret, error) {
				if call == 1 {
					return secretDomain.NewSecret("first"), nil
				}
				return secretDomain.NewSecret("rotated"), nil
			},
		}
		cache := NewSecretCache(fetcher, time.Second, nil, discardLogger())

		_, err := cache.GetSecret(t.Context())
		require.NoError(t, err)

		cache.Invalidate(t.Context())
		assert.Equal(t, secretDomain.StateUnfetched, cache.State())

		var wg sync.WaitGroup
		for range 20 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				secret, err := cache.GetSecret(context.Background())
				assert.NoError(t, err)
				assert.True(t, secret.Equal(secretDomain.NewSecret("rotated")))
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(2), fetcher.calls.Load())
	})

	t.Run("Success_EmptyCacheIsNoOp", func(t *testing.T) {
		fetcher := &fakeFetcher{fetch: constantSecret("x")}
		cache := NewSecretCache(fetcher, time.Second, nil, discardLogger())

		cache.Invalidate(t.Context())
		assert.Equal(t, secretDomain.StateUnfetched, cache.State())
		assert.Equal(t, int32(0), fetcher.calls.Load())
	})

	t.Run("Success_DuringFetchDiscardsResult", func(t *testing.T) {
		fetcher := &fakeFetcher{
			started: make(chan struct{}, 2),
			gate:    make(chan struct{}, 2),
			fetch: func(_ context.Context, call int32) (secretDomain.Secret, error) {
				if call == 1 {
					return secretDomain.NewSecret("stale"), nil
				}
				return secretDomain.NewSecret("fresh"), nil
			},
		}
		cache := NewSecretCache(fetcher, time.Second, nil, discardLogger())

		early := make(chan secretDomain.Secret, 1)
		go func() {
			secret, err := cache.GetSecret(context.Background())
			assert.NoError(t, err)
			early <- secret
		}()
		<-fetcher.started

		cache.Invalidate(t.Context())

		late := make(chan secretDomain.Secret, 1)
		go func() {
			secret, err := cache.GetSecret(context.Background())
			assert.NoError(t, err)
			late <- secret
		}()

		// release the stale fetch; the late caller must trigger a second one
		fetcher.gate <- struct{}{}
		assert.True(t, (<-early).Equal(secretDomain.NewSecret("stale")))

		<-fetcher.started
		fetcher.gate <- struct{}{}
		assert.True(t, (<-late).Equal(secretDomain.NewSecret("fresh")))

		assert.Equal(t, int32(2), fetcher.calls.Load())
		secret, err := cache.GetSecret(t.Context())
		require.NoError(t, err)
		assert.True(t, secret.Equal(secretDomain.NewSecret("fresh")))
	})
}

func TestWarmUp(t *testing.T) {
	t.Run("Success_AfterRetries", func(t *testing.T) {
		fetcher := &fakeFetcher{
			fetch: func(_ context.Context, call int32) (secretDomain.Secret, error) {
				if call < 3 {
					return secretDomain.Secret{}, errors.New("store unreachable")
				}
				return secretDomain.NewSecret("warm"), nil
			},
		}
		cache := NewSecretCache(fetcher, time.Second, nil, discardLogger())

		err := WarmUp(t.Context(), cache, 10*time.Second, discardLogger())
		require.NoError(t, err)
		assert.Equal(t, int32(3), fetcher.calls.Load())
		assert.Equal(t, secretDomain.StateCached, cache.State())
	})

	t.Run("Error_GivesUp", func(t *testing.T) {
		fetcher := &fakeFetcher{
			fetch: func(context.Context, int32) (secretDomain.Secret, error) {
				return secretDomain.Secret{}, secretDomain.ErrSecretNotFound
			},
		}
		cache := NewSecretCache(fetcher, time.Second, nil, discardLogger())

		err := WarmUp(t.Context(), cache, 300*time.Millisecond, discardLogger())
		assert.ErrorIs(t, err, secretDomain.ErrSecretUnavailable)
		assert.GreaterOrEqual(t, fetcher.calls.Load(), int32(1))
	})
}
