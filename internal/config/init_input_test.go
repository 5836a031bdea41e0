package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitInput_Validate(t *testing.T) {
	tests := []struct {
		name    string
		in      InitInput
		wantErr string
	}{
		{"gcp ok", InitInput{Provider: ProviderGCP, Project: "p"}, ""},
		{"gcp missing project", InitInput{Provider: ProviderGCP}, "project is required"},
		{"azure missing project", InitInput{Provider: ProviderAzure}, "project is required"},
		{"aws missing region", InitInput{Provider: ProviderAWS}, "region is required"},
		{"static missing zones", InitInput{Provider: ProviderStatic}, "at least one zone"},
		{"hetzner ok", InitInput{Provider: ProviderHetzner}, ""},
		{"unknown provider", InitInput{Provider: "vsphere"}, "provider must be one of"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestInitInput_ToConfig(t *testing.T) {
	in := InitInput{
		Provider:        ProviderGCP,
		Project:         " my-project ",
		Region:          "us-central1",
		CredentialsFile: "key.json",
	}
	cfg := in.ToConfig()

	assert.Equal(t, "my-project", cfg.Spec.Provider.Project)
	assert.Equal(t, "us-central1", cfg.Spec.Provider.Region)
	assert.Equal(t, DefaultTemplatePath, cfg.Spec.Template.Path)
	assert.Equal(t, DefaultOutputPath, cfg.Spec.Template.Output)
	assert.Equal(t, DefaultPlaceholder, cfg.Spec.Template.Placeholder)
	assert.Equal(t, DefaultAPIVersion, cfg.APIVersion)
}
