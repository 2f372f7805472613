package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIssueTokenRequest_Validate(t *testing.T) {
	tests := []struct {
		name      string
		request   IssueTokenRequest
		shouldErr bool
	}{
		{name: "valid", request: IssueTokenRequest{ClientID: "id", ClientSecret: "secret"}},
		{name: "missing client_id", request: IssueTokenRequest{ClientSecret: "secret"}, shouldErr: true},
		{name: "blank client_secret", request: IssueTokenRequest{ClientID: "id", ClientSecret: "  "}, shouldErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.shouldErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
