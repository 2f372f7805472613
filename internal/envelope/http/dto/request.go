// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	envelopeDomain "github.com/allisson/qrseal/internal/envelope/domain"
	customValidation "github.com/allisson/qrseal/internal/validation"
)

// EncryptRequest is the tenant config to seal. It has the fields of
// TenantConfig and shares its JSON codec, so numbers stay json.Number and
// unknown top-level keys are carried in Extra.
type EncryptRequest struct {
	TenantID         string         `json:"tenantId"`
	APIURL           string         `json:"apiUrl"`
	AuthURL          string         `json:"authUrl,omitempty"`
	ClientID         string         `json:"clientId,omitempty"`
	ClientSecret     string         `json:"clientSecret,omitempty"`
	AdditionalConfig map[string]any `json:"additionalConfig,omitempty"`
	Extra            map[string]any `json:"-"`
}

// UnmarshalJSON decodes the body with the tenant config codec.
func (r *EncryptRequest) UnmarshalJSON(data []byte) error {
	var cfg envelopeDomain.TenantConfig
	if err := cfg.UnmarshalJSON(data); err != nil {
		return err
	}
	*r = EncryptRequest(cfg)
	return nil
}

// MarshalJSON encodes the request the way TenantConfig does.
func (r EncryptRequest) MarshalJSON() ([]byte, error) {
	return envelopeDomain.TenantConfig(r).MarshalJSON()
}

// ToDomain converts the request to a tenant config.
func (r *EncryptRequest) ToDomain() *envelopeDomain.TenantConfig {
	cfg := envelopeDomain.TenantConfig(*r)
	return &cfg
}

// Validate checks if the encrypt request is valid.
func (r *EncryptRequest) Validate() error {
	return r.ToDomain().Validate()
}

// DecryptRequest carries envelope text as produced by the encrypt endpoint.
type DecryptRequest struct {
	Envelope string `json:"envelope"`
}

// Validate checks if the decrypt request is valid.
func (r *DecryptRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Envelope,
			validation.Required,
			customValidation.NotBlank,
		),
	)
}
