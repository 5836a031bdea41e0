// Package config provides the configuration schema, loader, validator, and
// default values for zonectl.yaml.
package config

// Provider names accepted in spec.provider.name.
const (
	ProviderGCP     = "gcp"
	ProviderAzure   = "azure"
	ProviderHetzner = "hetzner"
	ProviderAWS     = "aws"
	ProviderStatic  = "static"
)

// Providers lists every supported zone source, in the order shown to users.
var Providers = []string{ProviderGCP, ProviderAzure, ProviderHetzner, ProviderAWS, ProviderStatic}

// Config is the root struct matching zonectl.yaml.
type Config struct {
	APIVersion string `yaml:"apiVersion" json:"apiVersion"` // "zonectl/v1"
	Kind       string `yaml:"kind" json:"kind"`             // "ZoneFailover"
	Spec       Spec   `yaml:"spec" json:"spec"`
}

// Spec contains the failover run settings.
type Spec struct {
	Provider  Provider  `yaml:"provider" json:"provider"`
	Exclude   []string  `yaml:"exclude,omitempty" json:"exclude,omitempty"`
	Template  Template  `yaml:"template" json:"template"`
	Terraform Terraform `yaml:"terraform" json:"terraform"`
	Retry     Retry     `yaml:"retry" json:"retry"`
}

// Provider selects where zones come from and how to authenticate.
type Provider struct {
	Name            string   `yaml:"name" json:"name"`
	Project         string   `yaml:"project,omitempty" json:"project,omitempty"` // GCP project, Azure subscription, AWS profile
	Region          string   `yaml:"region,omitempty" json:"region,omitempty"`
	CredentialsFile string   `yaml:"credentialsFile,omitempty" json:"credentialsFile,omitempty"`
	Zones           []string `yaml:"zones,omitempty" json:"zones,omitempty"` // static provider only
}

// Template describes the zone configuration artifact.
type Template struct {
	Path        string `yaml:"path" json:"path"`
	Output      string `yaml:"output" json:"output"`
	Placeholder string `yaml:"placeholder" json:"placeholder"`
}

// Terraform configures the provisioning tool invocation.
type Terraform struct {
	Binary     string `yaml:"binary" json:"binary"`
	WorkingDir string `yaml:"workingDir" json:"workingDir"`
}

// Retry configures backoff for zone listing requests. Delays are Go duration
// strings ("1s", "500ms").
type Retry struct {
	MaxAttempts int    `yaml:"maxAttempts" json:"maxAttempts"`
	BaseDelay   string `yaml:"baseDelay" json:"baseDelay"`
	MaxDelay    string `yaml:"maxDelay" json:"maxDelay"`
}
