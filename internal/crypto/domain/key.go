package domain

import (
	"crypto/sha256"
	"crypto/subtle"
)

// DerivedKey is the fixed-size cipher key obtained from a shared secret.
//
// It is an array rather than a slice so its length is enforced by the type
// system. A DerivedKey is never stored apart from the secret it came from;
// callers derive it per operation and Zero it when done.
type DerivedKey [KeySize]byte

// DeriveKey turns a secret of any length into a 32-byte key using SHA-256.
//
// The derivation is deterministic (the same secret always yields the same key)
// and one-way. It must stay SHA-256 over the raw secret bytes: browser and
// mobile decoders derive their key the same way.
func DeriveKey(secret []byte) DerivedKey {
	return DerivedKey(sha256.Sum256(secret))
}

// Bytes returns the key as a slice backed by the key array.
func (k *DerivedKey) Bytes() []byte {
	return k[:]
}

// Equal reports whether two keys are identical, in constant time.
func (k *DerivedKey) Equal(other *DerivedKey) bool {
	return subtle.ConstantTimeCompare(k[:], other[:]) == 1
}

// Zero overwrites the key material.
func (k *DerivedKey) Zero() {
	Zero(k[:])
}

// Zero securely overwrites a byte slice with zeros to clear sensitive data from memory.
func Zero(b []byte) {
	clear(b)
}
