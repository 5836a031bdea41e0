// Package cmd implements the Cobra-based CLI for zonectl.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kjourdan1/zonectl/internal/exitcode"
	"github.com/kjourdan1/zonectl/internal/output"
)

var (
	cfgFile    string
	verbosity  int
	jsonOutput bool // --json flag for machine-readable output
)

// rootCmd is the top-level command for zonectl.
var rootCmd = &cobra.Command{
	Use:   "zonectl",
	Short: "Zone failover provisioning with Terraform",
	Long: `zonectl provisions a Terraform configuration in the first availability zone
that accepts it.

It lists the zones of a cloud project, then for each zone in order:
  1. renders the template, replacing __ZONE_PLACEHOLDER__ with the zone
  2. runs terraform init, plan and apply in the working directory
  3. stops at the first zone where all three succeed

Supported zone sources: gcp, azure, hetzner, aws and a static list.
Settings live in zonectl.yaml; flags and ZONECTL_* environment variables
override them.

Workflow: init → doctor → zones → run`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		output.Stdout = cmd.OutOrStdout()
		output.SetOutput(cmd.ErrOrStderr())
		output.Init(verbosity > 0, jsonOutput)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return exitcode.Wrap(exitcode.Validation, err)
	})

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: zonectl.yaml)")
	pf.CountVarP(&verbosity, "verbose", "v", "increase verbosity (-v, -vv)")
	pf.BoolVar(&jsonOutput, "json", false, "output results as JSON (machine-readable)")
	pf.String("provider", "", "zone source: gcp, azure, hetzner, aws or static")
	pf.String("project", "", "GCP project, Azure subscription ID or AWS profile")
	pf.String("region", "", "only consider zones in this region")
	pf.String("credentials", "", "provider credentials file")
	pf.String("workdir", "", "terraform working directory")
	pf.StringSlice("zones", nil, "zone list for the static provider")
	pf.StringSlice("exclude", nil, "zones to skip")

	for _, name := range []string{"config", "provider", "project", "region", "credentials", "workdir", "zones", "exclude"} {
		_ = viper.BindPFlag(name, pf.Lookup(name))
	}
}

func initConfig() {
	viper.SetEnvPrefix("ZONECTL")
	viper.AutomaticEnv()
}
