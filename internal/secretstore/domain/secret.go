// Package domain defines the shared secret, where it lives in the remote
// configuration store, and the states of the in-process secret cache.
package domain

import (
	"crypto/subtle"
	"log/slog"
)

// Secret is the opaque shared value the cipher key is derived from.
//
// It is immutable: the value is held in an unexported string and Bytes
// returns a copy. String and LogValue redact it so a Secret can be passed to
// fmt or slog without leaking.
type Secret struct {
	value string
}

// NewSecret wraps a raw secret value.
func NewSecret(value string) Secret {
	return Secret{value: value}
}

// Bytes returns a fresh copy of the secret value.
func (s Secret) Bytes() []byte {
	return []byte(s.value)
}

// IsZero reports whether the secret is empty.
func (s Secret) IsZero() bool {
	return s.value == ""
}

// Equal compares two secrets in constant time.
func (s Secret) Equal(other Secret) bool {
	return subtle.ConstantTimeCompare([]byte(s.value), []byte(other.value)) == 1
}

// String implements fmt.Stringer without revealing the value.
func (s Secret) String() string {
	return "[REDACTED]"
}

// LogValue implements slog.LogValuer without revealing the value.
func (s Secret) LogValue() slog.Value {
	return slog.StringValue("[REDACTED]")
}

// Location identifies the secret inside the remote configuration store as a
// namespace/document/field triple. Encrypting and decrypting parties must
// agree on it.
type Location struct {
	Namespace string
	Document  string
	Field     string
}

// Default location shared with the web and mobile clients.
const (
	DefaultNamespace = "config"
	DefaultDocument  = "encryption"
	DefaultField     = "qr_key"
)

// DefaultLocation returns config/encryption#qr_key.
func DefaultLocation() Location {
	return Location{
		Namespace: DefaultNamespace,
		Document:  DefaultDocument,
		Field:     DefaultField,
	}
}

// Key returns the store key of the document, "<namespace>:<document>".
func (l Location) Key() string {
	return l.Namespace + ":" + l.Document
}

// String returns "<namespace>/<document>#<field>".
func (l Location) String() string {
	return l.Namespace + "/" + l.Document + "#" + l.Field
}

// State is the observable state of the secret cache.
type State string

const (
	// StateUnfetched means no secret is cached and no fetch is running.
	// A failed or discarded fetch also leaves the cache here.
	StateUnfetched State = "unfetched"

	// StateFetching means a fetch is in flight and callers are joining it.
	StateFetching State = "fetching"

	// StateCached means the secret is cached and served without I/O.
	StateCached State = "cached"
)
