package config

import (
	"path/filepath"
	"time"
)

const (
	DefaultAPIVersion       = "zonectl/v1"
	DefaultKind             = "ZoneFailover"
	DefaultProvider         = ProviderGCP
	DefaultTemplatePath     = "server_tf_template"
	DefaultOutputPath       = "server.tf"
	DefaultPlaceholder      = "__ZONE_PLACEHOLDER__"
	DefaultTerraformBinary  = "terraform"
	DefaultWorkingDir       = "."
	DefaultRetryMaxAttempts = 3
	DefaultRetryBaseDelay   = "1s"
	DefaultRetryMaxDelay    = "30s"
)

// ApplyDefaults fills in default values for optional fields that were not
// specified in the YAML. It is called after parsing and before validation.
func ApplyDefaults(cfg *Config) {
	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultAPIVersion
	}
	if cfg.Kind == "" {
		cfg.Kind = DefaultKind
	}

	if cfg.Spec.Provider.Name == "" {
		cfg.Spec.Provider.Name = DefaultProvider
	}

	if cfg.Spec.Template.Path == "" {
		cfg.Spec.Template.Path = DefaultTemplatePath
	}
	if cfg.Spec.Template.Output == "" {
		cfg.Spec.Template.Output = DefaultOutputPath
	}
	if cfg.Spec.Template.Placeholder == "" {
		cfg.Spec.Template.Placeholder = DefaultPlaceholder
	}

	if cfg.Spec.Terraform.Binary == "" {
		cfg.Spec.Terraform.Binary = DefaultTerraformBinary
	}
	if cfg.Spec.Terraform.WorkingDir == "" {
		cfg.Spec.Terraform.WorkingDir = DefaultWorkingDir
	}

	if cfg.Spec.Retry.MaxAttempts == 0 {
		cfg.Spec.Retry.MaxAttempts = DefaultRetryMaxAttempts
	}
	if cfg.Spec.Retry.BaseDelay == "" {
		cfg.Spec.Retry.BaseDelay = DefaultRetryBaseDelay
	}
	if cfg.Spec.Retry.MaxDelay == "" {
		cfg.Spec.Retry.MaxDelay = DefaultRetryMaxDelay
	}
}

// Default returns a config with every default applied.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ResolvePath resolves p against the terraform working directory unless it
// is already absolute.
func (c *Config) ResolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Spec.Terraform.WorkingDir, p)
}

// Delays parses the retry delays. Unparseable values fall back to defaults;
// CrossValidate reports them.
func (r Retry) Delays() (base, max time.Duration) {
	base, err := time.ParseDuration(r.BaseDelay)
	if err != nil || base <= 0 {
		base, _ = time.ParseDuration(DefaultRetryBaseDelay)
	}
	max, err = time.ParseDuration(r.MaxDelay)
	if err != nil || max <= 0 {
		max, _ = time.ParseDuration(DefaultRetryMaxDelay)
	}
	return base, max
}
