// Package domain defines the cryptographic primitives used to seal tenant
// configuration envelopes: algorithms, derived keys and the envelope layout.
package domain

// Algorithm represents the cryptographic algorithm used for encryption.
//
// All supported algorithms provide Authenticated Encryption with Associated Data (AEAD),
// ensuring both confidentiality and authenticity of encrypted data. Both use a 12-byte
// nonce and a 16-byte tag, so envelopes have the same layout whichever one sealed them.
//
// Algorithm selection guidelines:
//   - Use AESGCM whenever envelopes are opened by browser or mobile decoders (default)
//   - Use ChaCha20 only when every party that opens envelopes is a Go service
type Algorithm string

const (
	// AESGCM represents the AES-256-GCM authenticated encryption algorithm.
	//
	// This is the interoperable choice: WebCrypto, Android and iOS decoders
	// all open AES-256-GCM envelopes with the same derived key.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 represents the ChaCha20-Poly1305 authenticated encryption algorithm.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

const (
	// KeySize is the size in bytes of a derived key (256 bits).
	KeySize = 32

	// NonceSize is the size in bytes of the random nonce prepended to every envelope.
	NonceSize = 12

	// TagSize is the size in bytes of the authentication tag appended to every envelope.
	TagSize = 16

	// MinEnvelopeSize is the smallest valid envelope: a nonce and a tag around
	// an empty ciphertext.
	MinEnvelopeSize = NonceSize + TagSize
)

// ParseAlgorithm converts a string to an Algorithm.
// Returns ErrUnsupportedAlgorithm if the algorithm is not supported.
func ParseAlgorithm(alg string) (Algorithm, error) {
	switch Algorithm(alg) {
	case AESGCM:
		return AESGCM, nil
	case ChaCha20:
		return ChaCha20, nil
	default:
		return "", ErrUnsupportedAlgorithm
	}
}
