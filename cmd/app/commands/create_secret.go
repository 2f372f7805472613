package commands

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"

	"github.com/allisson/qrseal/internal/config"
	cryptoDomain "github.com/allisson/qrseal/internal/crypto/domain"
	cryptoService "github.com/allisson/qrseal/internal/crypto/service"
)

// MinSecretLength is the smallest number of random bytes create-secret accepts.
const MinSecretLength = 16

type createSecretOutput struct {
	SecretProvider   string `json:"secret_provider"`
	SecretValue      string `json:"secret_value,omitempty"`
	KMSKeyURI        string `json:"kms_key_uri,omitempty"`
	SecretCiphertext string `json:"secret_ciphertext,omitempty"`
}

// RunCreateSecret generates a random shared secret of length bytes, encoded
// as standard base64, and prints the environment variables that configure it.
//
// Without kmsKeyURI the plaintext secret is printed for the env provider.
// With kmsKeyURI the secret is wrapped by the KMS key and only the ciphertext
// is printed, for the kms provider. The raw secret is zeroed after use.
func RunCreateSecret(
	ctx context.Context,
	kmsService cryptoService.KMSService,
	logger *slog.Logger,
	writer io.Writer,
	length int,
	kmsKeyURI string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}
	if length < MinSecretLength {
		return fmt.Errorf("secret length must be at least %d bytes", MinSecretLength)
	}

	raw := make([]byte, length)
	defer cryptoDomain.Zero(raw)
	if _, err := rand.Read(raw); err != nil {
		return fmt.Errorf("failed to generate secret: %w", err)
	}
	encoded := []byte(base64.StdEncoding.EncodeToString(raw))
	defer cryptoDomain.Zero(encoded)

	out := createSecretOutput{SecretProvider: config.SecretProviderEnv}

	if kmsKeyURI == "" {
		out.SecretValue = string(encoded)
	} else {
		ciphertext, err := kmsService.WrapSecret(ctx, kmsKeyURI, encoded)
		if err != nil {
			return err
		}

		out.SecretProvider = config.SecretProviderKMS
		out.KMSKeyURI = kmsKeyURI
		out.SecretCiphertext = base64.StdEncoding.EncodeToString(ciphertext)
	}

	logger.Info("shared secret created",
		slog.String("secret_provider", out.SecretProvider),
		slog.Int("length", length),
	)

	if format == "json" {
		return writeJSON(writer, out)
	}

	_, _ = fmt.Fprintln(writer, "# Shared secret configuration")
	_, _ = fmt.Fprintln(writer, "# Every party that seals or opens envelopes must use the same secret")
	_, _ = fmt.Fprintln(writer)
	_, _ = fmt.Fprintf(writer, "SECRET_PROVIDER=%q\n", out.SecretProvider)
	if out.SecretProvider == config.SecretProviderKMS {
		_, _ = fmt.Fprintf(writer, "KMS_KEY_URI=%q\n", out.KMSKeyURI)
		_, _ = fmt.Fprintf(writer, "SECRET_CIPHERTEXT=%q\n", out.SecretCiphertext)
		return nil
	}
	_, _ = fmt.Fprintf(writer, "SECRET_VALUE=%q\n", out.SecretValue)
	return nil
}
