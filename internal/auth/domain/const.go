// Package domain defines the API clients allowed to call the envelope
// endpoints, the policies granting them capabilities and the bearer tokens
// they authenticate with.
package domain

// Capability names one protected envelope operation.
type Capability string

const (
	// EncryptCapability allows sealing tenant configs.
	EncryptCapability Capability = "encrypt"

	// DecryptCapability allows opening envelopes, which reveals tenant credentials.
	DecryptCapability Capability = "decrypt"

	// ClearCacheCapability allows dropping the cached shared secret.
	ClearCacheCapability Capability = "clear_cache"
)

// Capabilities lists every capability a policy may grant.
var Capabilities = []Capability{
	EncryptCapability,
	DecryptCapability,
	ClearCacheCapability,
}
