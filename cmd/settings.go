package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"

	"github.com/kjourdan1/zonectl/internal/config"
	"github.com/kjourdan1/zonectl/internal/exitcode"
	"github.com/kjourdan1/zonectl/internal/output"
	"github.com/kjourdan1/zonectl/internal/render"
	"github.com/kjourdan1/zonectl/internal/zones"
)

const defaultConfigFile = "zonectl.yaml"

func configPath() string {
	if p := strings.TrimSpace(viper.GetString("config")); p != "" {
		return p
	}
	return defaultConfigFile
}

// readSettings loads zonectl.yaml and overlays flags and ZONECTL_* variables.
// A missing default file is not an error; flags alone can describe a run.
func readSettings() (*config.Config, error) {
	path := configPath()
	explicit := strings.TrimSpace(viper.GetString("config")) != ""

	cfg, err := config.Load(path)
	switch {
	case err == nil:
		output.Debug("Using config file", "path", path)
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		output.Debug("No zonectl.yaml found, using defaults and flags")
		cfg = config.Default()
	default:
		return nil, exitcode.Wrap(exitcode.Validation, fmt.Errorf("loading config: %w", err))
	}

	overlay := func(key string, dst *string) {
		if v := strings.TrimSpace(viper.GetString(key)); v != "" {
			*dst = v
		}
	}
	overlay("provider", &cfg.Spec.Provider.Name)
	overlay("project", &cfg.Spec.Provider.Project)
	overlay("region", &cfg.Spec.Provider.Region)
	overlay("credentials", &cfg.Spec.Provider.CredentialsFile)
	overlay("workdir", &cfg.Spec.Terraform.WorkingDir)
	if zs := stringList("zones"); len(zs) > 0 {
		cfg.Spec.Provider.Zones = zs
	}
	if ex := stringList("exclude"); len(ex) > 0 {
		cfg.Spec.Exclude = append(cfg.Spec.Exclude, ex...)
	}
	return cfg, nil
}

// stringList reads a list setting. Flags arrive already split; environment
// values such as ZONECTL_ZONES=a,b are split on commas here.
func stringList(key string) []string {
	var out []string
	for _, v := range viper.GetStringSlice(key) {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// loadSettings is readSettings followed by schema and semantic validation.
func loadSettings() (*config.Config, error) {
	cfg, err := readSettings()
	if err != nil {
		return nil, err
	}

	result, err := config.Validate(cfg)
	if err != nil {
		return nil, exitcode.Wrap(exitcode.Validation, err)
	}
	if !result.Valid {
		first := result.Errors[0]
		return nil, exitcode.Wrap(exitcode.Validation,
			fmt.Errorf("schema validation failed with %d error(s): %s: %s", len(result.Errors), first.Field, first.Description))
	}

	checks, err := config.CrossValidate(cfg)
	if err != nil {
		return nil, exitcode.Wrap(exitcode.Validation, err)
	}
	for _, c := range checks {
		if c.Status == "warning" {
			output.Warn(c.Message)
		}
	}
	if err := config.FirstError(checks); err != nil {
		return nil, exitcode.Wrap(exitcode.Validation, err)
	}
	return cfg, nil
}

func newRenderer(cfg *config.Config) render.Renderer {
	return render.Renderer{
		TemplatePath: cfg.ResolvePath(cfg.Spec.Template.Path),
		OutputPath:   cfg.ResolvePath(cfg.Spec.Template.Output),
		Placeholder:  cfg.Spec.Template.Placeholder,
	}
}

func retryConfig(cfg *config.Config) zones.RetryConfig {
	base, max := cfg.Spec.Retry.Delays()
	return zones.RetryConfig{MaxAttempts: cfg.Spec.Retry.MaxAttempts, BaseDelay: base, MaxDelay: max}
}

// newLister is replaced in tests.
var newLister = func(ctx context.Context, p config.Provider, rc zones.RetryConfig) (zones.Lister, error) {
	return zones.New(ctx, p, rc)
}

// listZones enumerates zones behind a spinner and drops excluded ones.
func listZones(ctx context.Context, cfg *config.Config) ([]string, error) {
	p := cfg.Spec.Provider
	var names []string
	err := output.WithSpinner(fmt.Sprintf("Listing %s zones", p.Name), func() error {
		lister, err := newLister(ctx, p, retryConfig(cfg))
		if err != nil {
			return err
		}
		names, err = lister.ListZones(ctx, zones.Query{Project: p.Project, Region: p.Region})
		return err
	})
	if err != nil {
		return nil, withFix(err)
	}
	return zones.Exclude(names, cfg.Spec.Exclude), nil
}

// withFix attaches a suggestion to enumeration errors without hiding their
// type from exitcode.Of.
func withFix(err error) error {
	var (
		authn *zones.AuthenticationError
		authz *zones.AuthorizationError
	)
	switch {
	case errors.As(err, &authn):
		return output.WrapErrorWithFix(err, "listing zones", "check spec.provider.credentialsFile or pass --credentials")
	case errors.As(err, &authz):
		return output.WrapErrorWithFix(err, "listing zones", "grant the credential permission to list zones in the project")
	default:
		return fmt.Errorf("listing zones: %w", err)
	}
}

func formatZones(names []string) string {
	return "[" + strings.Join(names, ", ") + "]"
}
