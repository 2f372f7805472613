package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClient_IsAllowed(t *testing.T) {
	client := &Client{
		Policies: []PolicyDocument{
			{Path: "/v1/envelopes/*", Capabilities: []Capability{EncryptCapability}},
			{Path: "/v1/envelopes/decrypt", Capabilities: []Capability{DecryptCapability}},
		},
	}

	tests := []struct {
		name       string
		path       string
		capability Capability
		expected   bool
	}{
		{"prefix grants encrypt", "/v1/envelopes/encrypt", EncryptCapability, true},
		{"exact path grants decrypt", "/v1/envelopes/decrypt", DecryptCapability, true},
		{"decrypt not granted elsewhere", "/v1/envelopes/cache/clear", DecryptCapability, false},
		{"capability never granted", "/v1/envelopes/cache/clear", ClearCacheCapability, false},
		{"prefix needs a separator", "/v1/envelopesX", EncryptCapability, false},
		{"case-sensitive", "/V1/envelopes/encrypt", EncryptCapability, false},
		{"empty path", "", EncryptCapability, false},
		{"empty capability", "/v1/envelopes/encrypt", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, client.IsAllowed(tt.path, tt.capability))
		})
	}

	t.Run("wildcard grants everything listed", func(t *testing.T) {
		admin := &Client{Policies: []PolicyDocument{{Path: "*", Capabilities: Capabilities}}}
		for _, capability := range Capabilities {
			assert.True(t, admin.IsAllowed("/v1/envelopes/cache/clear", capability))
		}
	})

	t.Run("no policies", func(t *testing.T) {
		assert.False(t, (&Client{}).IsAllowed("/v1/envelopes/encrypt", EncryptCapability))
	})
}

func TestCreateClientInput_Validate(t *testing.T) {
	valid := func() CreateClientInput {
		return CreateClientInput{
			Name:     "scanner",
			IsActive: true,
			Policies: []PolicyDocument{{Path: "*", Capabilities: []Capability{DecryptCapability}}},
		}
	}

	tests := []struct {
		name      string
		mutate    func(in *CreateClientInput)
		shouldErr bool
	}{
		{name: "valid", mutate: func(in *CreateClientInput) {}},
		{name: "blank name", mutate: func(in *CreateClientInput) { in.Name = "  " }, shouldErr: true},
		{name: "no policies", mutate: func(in *CreateClientInput) { in.Policies = nil }, shouldErr: true},
		{
			name:      "empty path",
			mutate:    func(in *CreateClientInput) { in.Policies[0].Path = "" },
			shouldErr: true,
		},
		{
			name:      "no capabilities",
			mutate:    func(in *CreateClientInput) { in.Policies[0].Capabilities = nil },
			shouldErr: true,
		},
		{
			name:      "unknown capability",
			mutate:    func(in *CreateClientInput) { in.Policies[0].Capabilities = []Capability{"rotate"} },
			shouldErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid()
			tt.mutate(&in)
			err := in.Validate()
			if tt.shouldErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestToken_IsExpired(t *testing.T) {
	now := time.Now()
	token := &Token{ExpiresAt: now}

	assert.True(t, token.IsExpired(now))
	assert.True(t, token.IsExpired(now.Add(time.Second)))
	assert.False(t, token.IsExpired(now.Add(-time.Second)))
}
