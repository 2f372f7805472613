package commands

import (
	"context"
	"fmt"
	"log/slog"

	envelopeUseCase "github.com/allisson/qrseal/internal/envelope/usecase"
)

// RunDecryptConfig opens envelopeText, or the text read from streams.Reader when
// envelopeText is empty, and prints the tenant config as JSON.
func RunDecryptConfig(
	ctx context.Context,
	useCase envelopeUseCase.EnvelopeUseCase,
	logger *slog.Logger,
	streams IOTuple,
	envelopeText string,
) error {
	input, err := readArgOrInput(envelopeText, streams.Reader)
	if err != nil {
		return err
	}
	if input == "" {
		return fmt.Errorf("envelope is required (pass --envelope or pipe it on stdin)")
	}

	tenant, err := useCase.DecryptConfig(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to decrypt config: %w", err)
	}

	logger.Info("tenant config decrypted", slog.String("tenant_id", tenant.TenantID))

	return writeJSON(streams.Writer, tenant)
}
