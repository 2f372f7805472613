package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	authDomain "github.com/allisson/qrseal/internal/auth/domain"
	authUseCase "github.com/allisson/qrseal/internal/auth/usecase"
)

// RunCreateClient creates an API client from a JSON array of policy
// documents, taken from policiesJSON or read from streams.Reader when it is
// empty. The generated secret is printed once.
func RunCreateClient(
	ctx context.Context,
	clientUseCase authUseCase.ClientUseCase,
	logger *slog.Logger,
	streams IOTuple,
	name string,
	isActive bool,
	policiesJSON string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	raw, err := readArgOrInput(policiesJSON, streams.Reader)
	if err != nil {
		return err
	}

	var policies []authDomain.PolicyDocument
	if err := json.Unmarshal([]byte(raw), &policies); err != nil {
		return fmt.Errorf("failed to parse policies JSON: %w", err)
	}

	output, err := clientUseCase.Create(ctx, &authDomain.CreateClientInput{
		Name:     name,
		IsActive: isActive,
		Policies: policies,
	})
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	logger.Info("client created",
		slog.String("client_id", output.ID.String()),
		slog.String("name", name),
		slog.Bool("is_active", isActive),
	)

	if format == "json" {
		return writeJSON(streams.Writer, map[string]string{
			"client_id": output.ID.String(),
			"secret":    output.PlainSecret,
		})
	}

	_, _ = fmt.Fprintf(streams.Writer, "Client ID: %s\n", output.ID)
	_, _ = fmt.Fprintf(streams.Writer, "Secret: %s\n", output.PlainSecret)
	_, _ = fmt.Fprintln(streams.Writer, "The secret is shown only once.")
	return nil
}
