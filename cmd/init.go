package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kjourdan1/zonectl/internal/azauth"
	"github.com/kjourdan1/zonectl/internal/config"
	"github.com/kjourdan1/zonectl/internal/exitcode"
	"github.com/kjourdan1/zonectl/internal/output"
	"github.com/kjourdan1/zonectl/internal/wizard"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create zonectl.yaml and a starter template",
	Long: `Writes zonectl.yaml (or the path given with --config).

Without --non-interactive, a wizard asks for the provider, project, region
and credentials file. With --non-interactive the values come from flags and
ZONECTL_* environment variables.

If the template file does not exist yet, a starter template containing
__ZONE_PLACEHOLDER__ is written next to it.

Existing files are never overwritten unless --force is specified.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

var (
	initNonInteractive bool
	initForce          bool
	initTemplatePath   string
	initOutputPath     string
)

// newInitPrompter is replaced in tests.
var newInitPrompter = func() wizard.Prompter { return wizard.NewSurveyPrompter() }

func init() {
	initCmd.Flags().BoolVar(&initNonInteractive, "non-interactive", false, "take every answer from flags and environment")
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite existing files")
	initCmd.Flags().StringVar(&initTemplatePath, "template", "", "template file (default: server_tf_template)")
	initCmd.Flags().StringVar(&initOutputPath, "output", "", "rendered file (default: server.tf)")

	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	in := config.InitInput{
		Provider:        strings.TrimSpace(viper.GetString("provider")),
		Project:         strings.TrimSpace(viper.GetString("project")),
		Region:          strings.TrimSpace(viper.GetString("region")),
		CredentialsFile: strings.TrimSpace(viper.GetString("credentials")),
		WorkingDir:      strings.TrimSpace(viper.GetString("workdir")),
		Zones:           stringList("zones"),
		TemplatePath:    initTemplatePath,
		OutputPath:      initOutputPath,
	}
	if in.Provider == config.ProviderAzure && in.Project == "" {
		if sub, err := azauth.DetectSubscriptionID(); err == nil {
			output.Info("Detected Azure subscription from Azure CLI", "subscription", sub)
			in.Project = sub
		}
	}

	path := configPath()
	if _, err := os.Stat(path); err == nil && !initForce {
		return exitcode.Wrap(exitcode.Validation, fmt.Errorf("%s already exists, use --force to overwrite", path))
	}

	if initNonInteractive {
		if in.Provider == "" {
			in.Provider = config.DefaultProvider
		}
		if err := in.Validate(); err != nil {
			return exitcode.Wrap(exitcode.Validation, fmt.Errorf("invalid init input: %w", err))
		}
	} else {
		answers, err := wizard.NewInitWizard(newInitPrompter()).Run(in)
		if err != nil {
			if errors.Is(err, wizard.ErrCancelled) {
				output.Warn("init wizard cancelled")
				return nil
			}
			return exitcode.Wrap(exitcode.Validation, fmt.Errorf("running init wizard: %w", err))
		}
		in = *answers
	}

	cfg := in.ToConfig()
	validation, err := config.Validate(cfg)
	if err != nil {
		return exitcode.Wrap(exitcode.Validation, fmt.Errorf("validating config: %w", err))
	}
	if !validation.Valid {
		for _, v := range validation.Errors {
			output.Error(fmt.Sprintf("%s: %s", v.Field, v.Description))
		}
		return exitcode.Wrap(exitcode.Validation, fmt.Errorf("config validation failed"))
	}

	if err := config.Save(cfg, path); err != nil {
		return exitcode.Wrap(exitcode.FileAccess, err)
	}
	written := []string{path}

	tmpl := cfg.ResolvePath(cfg.Spec.Template.Path)
	if _, err := os.Stat(tmpl); errors.Is(err, os.ErrNotExist) || initForce {
		if err := writeStarterTemplate(tmpl, cfg.Spec.Provider.Name, cfg.Spec.Template.Placeholder); err != nil {
			return exitcode.Wrap(exitcode.FileAccess, err)
		}
		written = append(written, tmpl)
	} else {
		output.Info("Keeping existing template", "file", tmpl)
	}

	if jsonOutput {
		output.JSON(map[string]interface{}{"files": written, "provider": cfg.Spec.Provider.Name})
		return nil
	}
	output.Success(fmt.Sprintf("Init complete: wrote %d file(s)", len(written)))
	for _, p := range written {
		output.Info("generated", "file", p)
	}
	output.Info("Next: zonectl doctor, then zonectl run --dry-run")
	return nil
}

func writeStarterTemplate(path, provider, placeholder string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating parent directory for %s: %w", path, err)
	}
	body, ok := starterTemplates[provider]
	if !ok {
		body = starterTemplates[""]
	}
	body = strings.ReplaceAll(body, "ZONE", placeholder)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return fmt.Errorf("writing template %s: %w", path, err)
	}
	return nil
}

// starterTemplates are minimal configurations per provider. "ZONE" marks
// where the configured placeholder goes.
var starterTemplates = map[string]string{
	config.ProviderGCP: `resource "google_compute_instance" "server" {
  name         = "server-ZONE"
  machine_type = "e2-small"
  zone         = "ZONE"

  boot_disk {
    initialize_params {
      image = "debian-cloud/debian-12"
    }
  }

  network_interface {
    network = "default"
  }
}
`,
	config.ProviderAWS: `resource "aws_instance" "server" {
  ami               = var.ami
  instance_type     = "t3.micro"
  availability_zone = "ZONE"
}

variable "ami" {
  type = string
}
`,
	config.ProviderHetzner: `resource "hcloud_server" "server" {
  name        = "server-ZONE"
  server_type = "cx22"
  image       = "debian-12"
  datacenter  = "ZONE"
}
`,
	"": `locals {
  zone = "ZONE"
}

output "zone" {
  value = local.zone
}
`,
}
