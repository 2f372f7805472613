package domain

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/qrseal/internal/validation"
)

// PolicyDocument grants capabilities on the request paths matching Path.
//
// Path is "*" for every path, an exact path such as "/v1/envelopes/decrypt",
// or a prefix ending in "/*" such as "/v1/envelopes/*".
type PolicyDocument struct {
	Path         string       `json:"path"`
	Capabilities []Capability `json:"capabilities"`
}

// Client is a caller of the envelope API.
type Client struct {
	ID        uuid.UUID
	Secret    string //nolint:gosec // argon2id hash, never the plain secret
	Name      string
	IsActive  bool
	Policies  []PolicyDocument
	CreatedAt time.Time
}

func matchPath(policyPath, requestPath string) bool {
	if policyPath == "*" {
		return true
	}
	if prefix, ok := strings.CutSuffix(policyPath, "/*"); ok {
		return strings.HasPrefix(requestPath, prefix+"/")
	}
	return policyPath == requestPath
}

// IsAllowed reports whether any policy matching path grants capability.
// Matching is case-sensitive.
func (c *Client) IsAllowed(path string, capability Capability) bool {
	if path == "" || capability == "" {
		return false
	}
	for _, policy := range c.Policies {
		if matchPath(policy.Path, path) && slices.Contains(policy.Capabilities, capability) {
			return true
		}
	}
	return false
}

// CreateClientInput describes a new client. Its secret is always generated.
type CreateClientInput struct {
	Name     string
	IsActive bool
	Policies []PolicyDocument
}

// Validate checks the name and every policy.
func (i *CreateClientInput) Validate() error {
	return validation.ValidateStruct(i,
		validation.Field(&i.Name,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&i.Policies,
			validation.Required,
			validation.Each(validation.By(validatePolicyDocument)),
		),
	)
}

func validatePolicyDocument(value any) error {
	policy, ok := value.(PolicyDocument)
	if !ok {
		return validation.NewError("validation_policy_type", "must be a policy document")
	}

	allowed := make([]any, len(Capabilities))
	for i, capability := range Capabilities {
		allowed[i] = capability
	}

	return validation.ValidateStruct(&policy,
		validation.Field(&policy.Path,
			validation.Required,
			customValidation.NotBlank,
			customValidation.NoWhitespace,
			validation.Length(1, 500),
		),
		validation.Field(&policy.Capabilities,
			validation.Required,
			validation.Each(validation.In(allowed...)),
		),
	)
}

// CreateClientOutput carries the plain secret, shown once and never stored.
type CreateClientOutput struct {
	ID          uuid.UUID
	PlainSecret string
}
