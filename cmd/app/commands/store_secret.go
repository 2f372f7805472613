package commands

import (
	"context"
	"fmt"
	"log/slog"

	validation "github.com/jellydator/validation"

	secretDomain "github.com/allisson/qrseal/internal/secretstore/domain"
	secretUseCase "github.com/allisson/qrseal/internal/secretstore/usecase"
	customValidation "github.com/allisson/qrseal/internal/validation"
)

// RunStoreSecret writes value, or the value read from streams.Reader when
// value is empty, into the secret field of the configured document. Other
// fields of the document are preserved.
func RunStoreSecret(
	ctx context.Context,
	writer secretUseCase.SecretWriter,
	location secretDomain.Location,
	logger *slog.Logger,
	streams IOTuple,
	value string,
) error {
	input, err := readArgOrInput(value, streams.Reader)
	if err != nil {
		return err
	}

	if err := validation.Validate(input, validation.Required, customValidation.NotBlank); err != nil {
		return fmt.Errorf("invalid secret value: %w", err)
	}

	if err := writer.PutSecret(ctx, location, input); err != nil {
		return fmt.Errorf("failed to store secret: %w", err)
	}

	logger.Info("shared secret stored", slog.String("location", location.String()))
	_, _ = fmt.Fprintf(streams.Writer, "secret stored at %s\n", location)
	return nil
}
