package domain

import (
	"github.com/allisson/qrseal/internal/errors"
)

// Cryptographic operation error definitions.
//
// These domain-specific errors wrap standard errors from internal/errors
// to provide context for cryptographic failures. All errors are mapped to
// appropriate HTTP status codes by the error handling layer.
var (
	// ErrUnsupportedAlgorithm indicates the requested encryption algorithm is not supported.
	//
	// Supported algorithms: AESGCM (AES-256-GCM), ChaCha20 (ChaCha20-Poly1305)
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates the cryptographic key size is invalid.
	//
	// Cipher keys must be exactly 32 bytes (256 bits) for both algorithms.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrMalformedEnvelope indicates the envelope text is not valid base64 or
	// decodes to fewer than MinEnvelopeSize bytes. Returned before any
	// decryption is attempted.
	//
	// HTTP Status: 422 Unprocessable Entity
	ErrMalformedEnvelope = errors.Wrap(errors.ErrInvalidInput, "malformed envelope")

	// ErrAuthenticationFailed indicates tag verification failed while opening
	// an envelope.
	//
	// This error can occur due to:
	//   - Wrong derived key (the secret differs from the one used to seal)
	//   - Envelope bytes have been tampered with or corrupted
	//   - Envelope has been truncated past its tag
	//
	// For security reasons, the specific cause is not disclosed and no
	// partial plaintext is ever returned.
	//
	// HTTP Status: 422 Unprocessable Entity
	ErrAuthenticationFailed = errors.Wrap(errors.ErrInvalidInput, "authentication failed")
)
