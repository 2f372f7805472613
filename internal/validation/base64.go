package validation

import (
	"encoding/base64"

	validation "github.com/jellydator/validation"
)

// StdBase64 validates padded standard base64, the encoding create-secret
// prints for KMS-wrapped secrets. Empty strings pass; combine with Required.
var StdBase64 = validation.By(func(value any) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_base64_type", "must be a string")
	}
	if s == "" {
		return nil
	}
	if _, err := base64.StdEncoding.Strict().DecodeString(s); err != nil {
		return validation.NewError("validation_base64", "must be padded standard base64")
	}
	return nil
})
