package usecase

import (
	"context"
	"time"

	envelopeDomain "github.com/allisson/qrseal/internal/envelope/domain"
	"github.com/allisson/qrseal/internal/metrics"
)

// envelopeUseCaseWithMetrics decorates EnvelopeUseCase with metrics instrumentation.
type envelopeUseCaseWithMetrics struct {
	next    EnvelopeUseCase
	metrics metrics.BusinessMetrics
}

// NewEnvelopeUseCaseWithMetrics wraps an EnvelopeUseCase with metrics recording.
func NewEnvelopeUseCaseWithMetrics(useCase EnvelopeUseCase, m metrics.BusinessMetrics) EnvelopeUseCase {
	return &envelopeUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (e *envelopeUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	metrics.Observe(ctx, e.metrics, "envelope", operation, metrics.StatusFor(err), start)
}

// EncryptConfig records metrics for envelope encryption.
func (e *envelopeUseCaseWithMetrics) EncryptConfig(
	ctx context.Context,
	cfg *envelopeDomain.TenantConfig,
) (string, error) {
	start := time.Now()
	text, err := e.next.EncryptConfig(ctx, cfg)
	e.record(ctx, "envelope_encrypt", start, err)
	return text, err
}

// DecryptConfig records metrics for envelope decryption.
func (e *envelopeUseCaseWithMetrics) DecryptConfig(
	ctx context.Context,
	envelopeText string,
) (*envelopeDomain.TenantConfig, error) {
	start := time.Now()
	cfg, err := e.next.DecryptConfig(ctx, envelopeText)
	e.record(ctx, "envelope_decrypt", start, err)
	return cfg, err
}

// ClearCache records metrics for cache invalidation.
func (e *envelopeUseCaseWithMetrics) ClearCache(ctx context.Context) {
	start := time.Now()
	e.next.ClearCache(ctx)
	e.record(ctx, "envelope_clear_cache", start, nil)
}
