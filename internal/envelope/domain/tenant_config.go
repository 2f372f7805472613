package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/qrseal/internal/errors"
	customValidation "github.com/allisson/qrseal/internal/validation"
)

// TenantConfig is the record a scannable code carries: where a tenant's API
// lives and how the app authenticates to it. JSON names are shared with the
// web and mobile decoders and must not change.
//
// Top-level keys other than the named fields are kept in Extra so records
// produced by other encoders survive a decrypt and re-encrypt untouched.
// Numbers decode as json.Number and are never rounded through float64.
type TenantConfig struct {
	TenantID         string         `json:"tenantId"`
	APIURL           string         `json:"apiUrl"`
	AuthURL          string         `json:"authUrl,omitempty"`
	ClientID         string         `json:"clientId,omitempty"`
	ClientSecret     string         `json:"clientSecret,omitempty"`
	AdditionalConfig map[string]any `json:"additionalConfig,omitempty"`
	Extra            map[string]any `json:"-"`
}

// tenantConfigFields has the JSON layout of TenantConfig without its methods.
type tenantConfigFields TenantConfig

var tenantConfigFieldNames = []string{
	"tenantId",
	"apiUrl",
	"authUrl",
	"clientId",
	"clientSecret",
	"additionalConfig",
}

var errNotAnObject = apperrors.New("tenant config must be a JSON object")

// Validate checks required fields and URL shapes. It is the policy applied
// before encryption; decrypted records only get a structural check.
func (c *TenantConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.TenantID,
			validation.Required,
			customValidation.NotBlank,
			customValidation.NoWhitespace,
			validation.Length(1, 255),
		),
		validation.Field(&c.APIURL,
			validation.Required,
			customValidation.AbsoluteURL,
		),
		validation.Field(&c.AuthURL,
			customValidation.AbsoluteURL,
		),
		validation.Field(&c.Extra,
			validation.By(noNamedFieldKeys),
		),
	)
}

func (c *TenantConfig) validateStructure() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.TenantID, validation.Required),
		validation.Field(&c.APIURL, validation.Required),
	)
}

func noNamedFieldKeys(value any) error {
	extra, _ := value.(map[string]any)
	for name := range extra {
		if slices.Contains(tenantConfigFieldNames, name) {
			return validation.NewError(
				"validation_named_field",
				fmt.Sprintf("%q must be set through its named field", name),
			)
		}
	}
	return nil
}

// Normalize returns a deep copy in canonical form. An empty additionalConfig
// is the same record as an absent one and normalizes to nil, and every
// number becomes a json.Number holding its JSON text.
func (c TenantConfig) Normalize() TenantConfig {
	c.AdditionalConfig = normalizeObject(c.AdditionalConfig)
	c.Extra = normalizeObject(c.Extra)
	return c
}

func normalizeObject(m map[string]any) map[string]any {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch x := v.(type) {
	case nil, string, bool, json.Number:
		return x
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, item := range x {
			out[k] = normalizeValue(item)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = normalizeValue(item)
		}
		return out
	default:
		// Go numbers and typed collections take their JSON shape.
		data, err := json.Marshal(x)
		if err != nil {
			return x
		}
		var out any
		if err := decodeJSON(data, &out); err != nil {
			return x
		}
		return out
	}
}

// MarshalJSON writes the named fields in struct order followed by the Extra
// keys in sorted order.
func (c TenantConfig) MarshalJSON() ([]byte, error) {
	known, err := encodeJSON(tenantConfigFields(c))
	if err != nil {
		return nil, err
	}
	if len(c.Extra) == 0 {
		return known, nil
	}

	var buf bytes.Buffer
	buf.Write(known[:len(known)-1])
	for _, name := range slices.Sorted(maps.Keys(c.Extra)) {
		if slices.Contains(tenantConfigFieldNames, name) {
			return nil, apperrors.Wrapf(ErrInvalidTenantConfig, "extra key %q collides with a named field", name)
		}
		key, err := encodeJSON(name)
		if err != nil {
			return nil, err
		}
		value, err := encodeJSON(c.Extra[name])
		if err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object. Named fields match case-sensitively;
// every other key lands in Extra.
func (c *TenantConfig) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := decodeJSON(data, &fields); err != nil {
		return err
	}
	if fields == nil {
		return errNotAnObject
	}

	var cfg TenantConfig
	for name, raw := range fields {
		var err error
		switch name {
		case "tenantId":
			err = decodeJSON(raw, &cfg.TenantID)
		case "apiUrl":
			err = decodeJSON(raw, &cfg.APIURL)
		case "authUrl":
			err = decodeJSON(raw, &cfg.AuthURL)
		case "clientId":
			err = decodeJSON(raw, &cfg.ClientID)
		case "clientSecret":
			err = decodeJSON(raw, &cfg.ClientSecret)
		case "additionalConfig":
			err = decodeJSON(raw, &cfg.AdditionalConfig)
		default:
			var value any
			err = decodeJSON(raw, &value)
			if cfg.Extra == nil {
				cfg.Extra = make(map[string]any)
			}
			cfg.Extra[name] = value
		}
		if err != nil {
			return apperrors.Wrapf(err, "field %q", name)
		}
	}

	*c = cfg
	return nil
}

// MarshalCanonical serializes the normalized record to its canonical bytes:
// struct field order, optional fields omitted when empty, map keys sorted and
// no HTML escaping. The same record always yields the same bytes.
func (c TenantConfig) MarshalCanonical() ([]byte, error) {
	return encodeJSON(c.Normalize())
}

// ParseTenantConfig parses decrypted bytes into a record. Only the structure
// is checked: a JSON object with string tenantId and apiUrl present and
// optional fields of the right type. Anything else is ErrMalformedPayload.
func ParseTenantConfig(data []byte) (*TenantConfig, error) {
	var cfg TenantConfig
	if err := cfg.UnmarshalJSON(data); err != nil {
		return nil, apperrors.Wrapf(ErrMalformedPayload, "payload is not a tenant config object: %v", err)
	}

	if err := cfg.validateStructure(); err != nil {
		return nil, apperrors.Wrap(ErrMalformedPayload, err.Error())
	}

	cfg = cfg.Normalize()
	return &cfg, nil
}

func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// decodeJSON decodes exactly one JSON value, keeping numbers as json.Number.
func decodeJSON(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); !apperrors.Is(err, io.EOF) {
		return apperrors.New("unexpected data after JSON value")
	}
	return nil
}
