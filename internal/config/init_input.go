package config

import (
	"fmt"
	"strings"
)

// InitInput holds the answers collected by `zonectl init`, either from the
// wizard or from flags in non-interactive mode.
type InitInput struct {
	Provider        string
	Project         string
	Region          string
	CredentialsFile string
	TemplatePath    string
	OutputPath      string
	WorkingDir      string
	Zones           []string
}

func (in *InitInput) Validate() error {
	if in == nil {
		return fmt.Errorf("init input cannot be nil")
	}
	if err := validateOneOf("provider", in.Provider, Providers); err != nil {
		return err
	}
	switch in.Provider {
	case ProviderGCP, ProviderAzure:
		if strings.TrimSpace(in.Project) == "" {
			return fmt.Errorf("project is required for provider %s", in.Provider)
		}
	case ProviderAWS:
		if strings.TrimSpace(in.Region) == "" {
			return fmt.Errorf("region is required for provider aws")
		}
	case ProviderStatic:
		if len(in.Zones) == 0 {
			return fmt.Errorf("at least one zone is required for provider static")
		}
	}
	return nil
}

// ToConfig builds a Config from the input with defaults applied.
func (in *InitInput) ToConfig() *Config {
	cfg := &Config{
		Spec: Spec{
			Provider: Provider{
				Name:            in.Provider,
				Project:         strings.TrimSpace(in.Project),
				Region:          strings.TrimSpace(in.Region),
				CredentialsFile: strings.TrimSpace(in.CredentialsFile),
				Zones:           in.Zones,
			},
			Template: Template{
				Path:   in.TemplatePath,
				Output: in.OutputPath,
			},
			Terraform: Terraform{WorkingDir: in.WorkingDir},
		},
	}
	ApplyDefaults(cfg)
	return cfg
}

func validateOneOf(field, value string, allowed []string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("%s must be one of: %s", field, strings.Join(allowed, ", "))
}
