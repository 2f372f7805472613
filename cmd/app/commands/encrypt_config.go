package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	envelopeDomain "github.com/allisson/qrseal/internal/envelope/domain"
	envelopeUseCase "github.com/allisson/qrseal/internal/envelope/usecase"
)

// RunEncryptConfig seals a tenant config read as JSON from configJSON, or
// from streams.Reader when configJSON is empty, and prints the envelope text.
//
// Output formats:
//   - text: the envelope text on its own line
//   - json: {"envelope": "..."}
func RunEncryptConfig(
	ctx context.Context,
	useCase envelopeUseCase.EnvelopeUseCase,
	logger *slog.Logger,
	streams IOTuple,
	configJSON string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	input, err := readArgOrInput(configJSON, streams.Reader)
	if err != nil {
		return err
	}
	if input == "" {
		return fmt.Errorf("tenant config JSON is required (pass --config or pipe it on stdin)")
	}

	var tenant envelopeDomain.TenantConfig
	decoder := json.NewDecoder(strings.NewReader(input))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&tenant); err != nil {
		return fmt.Errorf("invalid tenant config JSON: %w", err)
	}

	envelopeText, err := useCase.EncryptConfig(ctx, &tenant)
	if err != nil {
		return fmt.Errorf("failed to encrypt config: %w", err)
	}

	logger.Info("tenant config encrypted", slog.String("tenant_id", tenant.TenantID))

	if format == "json" {
		return writeJSON(streams.Writer, map[string]string{"envelope": envelopeText})
	}
	_, err = fmt.Fprintln(streams.Writer, envelopeText)
	return err
}
