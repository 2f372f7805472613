package dto

import (
	envelopeDomain "github.com/allisson/qrseal/internal/envelope/domain"
)

// EncryptResponse holds the printable envelope text.
type EncryptResponse struct {
	Envelope string `json:"envelope"`
}

// TenantConfigResponse is a decrypted tenant config, extra top-level keys included.
type TenantConfigResponse struct {
	TenantID         string         `json:"tenantId"`
	APIURL           string         `json:"apiUrl"`
	AuthURL          string         `json:"authUrl,omitempty"`
	ClientID         string         `json:"clientId,omitempty"`
	ClientSecret     string         `json:"clientSecret,omitempty"`
	AdditionalConfig map[string]any `json:"additionalConfig,omitempty"`
	Extra            map[string]any `json:"-"`
}

// MarshalJSON encodes the response the way TenantConfig does.
func (r TenantConfigResponse) MarshalJSON() ([]byte, error) {
	return envelopeDomain.TenantConfig(r).MarshalJSON()
}

// MapTenantConfigToResponse converts a domain tenant config to an API response.
func MapTenantConfigToResponse(cfg *envelopeDomain.TenantConfig) TenantConfigResponse {
	return TenantConfigResponse(*cfg)
}
