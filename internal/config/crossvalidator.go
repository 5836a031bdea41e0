package config

import (
	"fmt"
	"strings"
	"time"
)

// CrossCheck is a validation result entry for semantic/cross-field checks.
type CrossCheck struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // pass | warning | error
	Message string `json:"message"`
}

// CrossValidate runs semantic checks that the JSON schema cannot express.
func CrossValidate(cfg *Config) ([]CrossCheck, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	checks := make([]CrossCheck, 0, 8)
	add := func(name, status, message string) {
		checks = append(checks, CrossCheck{Name: name, Status: status, Message: message})
	}

	p := cfg.Spec.Provider
	switch strings.ToLower(p.Name) {
	case ProviderGCP:
		if strings.TrimSpace(p.Project) == "" {
			add("provider-project", "error", "gcp provider requires spec.provider.project")
		}
		if p.CredentialsFile == "" {
			add("provider-credentials", "warning", "no credentialsFile set; application default credentials will be used")
		}
	case ProviderAzure:
		if strings.TrimSpace(p.Project) == "" {
			add("provider-project", "error", "azure provider requires spec.provider.project (subscription ID)")
		}
	case ProviderAWS:
		if strings.TrimSpace(p.Region) == "" {
			add("provider-region", "error", "aws provider requires spec.provider.region")
		}
	case ProviderHetzner:
		if p.CredentialsFile == "" {
			add("provider-credentials", "warning", "no credentialsFile set; HCLOUD_TOKEN will be used")
		}
	case ProviderStatic:
		if len(p.Zones) == 0 {
			add("provider-zones", "error", "static provider requires at least one entry in spec.provider.zones")
		}
	default:
		add("provider-name", "error", fmt.Sprintf("invalid provider %q (expected one of %s)", p.Name, strings.Join(Providers, ", ")))
	}

	if strings.TrimSpace(cfg.Spec.Template.Placeholder) == "" {
		add("template-placeholder", "error", "template placeholder must not be empty")
	}
	if cfg.Spec.Template.Path == cfg.Spec.Template.Output {
		add("template-output", "error", "template path and output path must differ; rendering would overwrite the template")
	}

	if _, err := time.ParseDuration(cfg.Spec.Retry.BaseDelay); err != nil {
		add("retry-base-delay", "error", fmt.Sprintf("invalid retry.baseDelay %q", cfg.Spec.Retry.BaseDelay))
	}
	if _, err := time.ParseDuration(cfg.Spec.Retry.MaxDelay); err != nil {
		add("retry-max-delay", "error", fmt.Sprintf("invalid retry.maxDelay %q", cfg.Spec.Retry.MaxDelay))
	}

	seen := map[string]bool{}
	for _, z := range p.Zones {
		if seen[z] {
			add("provider-zones-duplicate", "warning", fmt.Sprintf("zone %q is listed more than once", z))
		}
		seen[z] = true
	}

	if len(checks) == 0 {
		add("config", "pass", "configuration is consistent")
	}
	return checks, nil
}

// FirstError returns the first error-level check as an error, or nil.
func FirstError(checks []CrossCheck) error {
	for _, c := range checks {
		if c.Status == "error" {
			return fmt.Errorf("invalid configuration (%s): %s", c.Name, c.Message)
		}
	}
	return nil
}
