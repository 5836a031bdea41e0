package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kjourdan1/zonectl/internal/exitcode"
	"github.com/kjourdan1/zonectl/internal/failover"
	"github.com/kjourdan1/zonectl/internal/output"
	"github.com/kjourdan1/zonectl/internal/terraform"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Provision in the first zone that accepts the configuration",
	Long: `List the provider's zones and try them in order.

For each zone the template is rendered into the working directory and
terraform init, plan and apply are run. The first failing step moves on to
the next zone; the run stops at the first zone where apply succeeds.
Nothing is rolled back in zones that failed.

Use --dry-run to stop after a successful plan without applying.

Exit codes: 0 success, 2 invalid configuration, 3 credential rejected,
4 provider API failure, 5 template or output file problem, 6 no zone succeeded.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

var (
	runDryRun     bool
	runTranscript string
)

func init() {
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "run init and plan only; report the first zone that would be used")
	runCmd.Flags().StringVar(&runTranscript, "transcript", "stdout", "where terraform output goes: stdout, stderr, none or a file path")

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}

	binary, err := terraform.LookPath(cfg.Spec.Terraform.Binary)
	if err != nil {
		return exitcode.Wrap(exitcode.Validation, output.WrapErrorWithFix(err, "preflight", "install terraform or set spec.terraform.binary"))
	}
	output.Debug("Using terraform", "path", binary)

	transcript, closeTranscript, err := openTranscript(cmd, runTranscript)
	if err != nil {
		return err
	}
	defer closeTranscript()

	names, err := listZones(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	if !jsonOutput {
		fmt.Fprintf(cmd.OutOrStdout(), "Available zones: %s\n", formatZones(names))
	}

	driver := failover.New(
		newRenderer(cfg),
		terraform.ExecRunner{Binary: binary, Dir: cfg.Spec.Terraform.WorkingDir},
		failover.WithDryRun(runDryRun),
		failover.WithTranscript(transcript),
	)
	outcome, err := driver.Run(cmd.Context(), names)
	if err != nil {
		return err
	}

	if jsonOutput {
		if outcome.Succeeded {
			output.JSON(outcome)
		} else {
			output.JSONFailure(outcome, outcome.Err(), exitcode.Exhausted)
		}
	} else {
		printRunSummary(cmd.ErrOrStderr(), outcome)
	}

	if !outcome.Succeeded {
		return exitcode.Wrap(exitcode.Exhausted, outcome.Err())
	}
	return nil
}

func printRunSummary(w io.Writer, o failover.Outcome) {
	fmt.Fprintln(w)
	for _, a := range o.Attempts {
		if a.FailedStep == "" {
			color.New(color.FgGreen).Fprintf(w, "   ✅ %-24s ok\n", a.Zone)
			continue
		}
		color.New(color.FgRed).Fprintf(w, "   ❌ %-24s %s failed (exit %d)\n", a.Zone, a.FailedStep, a.Result.ExitCode)
	}
	fmt.Fprintln(w)

	switch {
	case o.Succeeded && o.DryRun:
		color.New(color.FgYellow, color.Bold).Fprintf(w, "⚡ [DRY-RUN] Zone %s would be used. No infrastructure changes were applied.\n", o.Zone)
	case o.Succeeded:
		color.New(color.FgGreen, color.Bold).Fprintf(w, "✅ Successfully created the server in zone %s\n", o.Zone)
	default:
		color.New(color.FgRed, color.Bold).Fprintf(w, "❌ Could not create the server in any of the %d zone(s).\n", len(o.Attempts))
	}
}

// openTranscript resolves the --transcript destination. In JSON mode stdout
// is reserved for the result document, so "stdout" falls back to stderr.
func openTranscript(cmd *cobra.Command, dest string) (io.Writer, func(), error) {
	noop := func() {}
	switch strings.ToLower(strings.TrimSpace(dest)) {
	case "", "stdout":
		if jsonOutput {
			return cmd.ErrOrStderr(), noop, nil
		}
		return cmd.OutOrStdout(), noop, nil
	case "stderr":
		return cmd.ErrOrStderr(), noop, nil
	case "none":
		return io.Discard, noop, nil
	}
	f, err := os.Create(dest)
	if err != nil {
		return nil, nil, exitcode.Wrap(exitcode.FileAccess, fmt.Errorf("opening transcript: %w", err))
	}
	return f, func() { f.Close() }, nil
}
