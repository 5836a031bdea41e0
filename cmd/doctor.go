package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/kjourdan1/zonectl/internal/config"
	"github.com/kjourdan1/zonectl/internal/doctor"
	"github.com/kjourdan1/zonectl/internal/exitcode"
	"github.com/kjourdan1/zonectl/internal/output"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check prerequisites and environment readiness",
	Long: `Verify that terraform is installed, that the template exists and contains
the zone placeholder, that the working directory is writable and that the
provider credential can be found. No cloud API is called.

Each check reports ✅ (pass), ❌ (fail), or ⚠️ (warning) with an
actionable fix suggestion.

Exit code 0 if all critical checks pass, 2 otherwise.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	cfg, err := readSettings()
	if err != nil {
		output.Warn("Could not load configuration, checking defaults", "error", err)
		cfg = config.Default()
	}

	summary := doctor.RunAll(cmd.Context(), doctor.NewRealExecutor(), cfg)
	doctor.PrintResults(summary)

	if summary.HasFailure {
		return exitcode.Wrap(exitcode.Validation, errors.New("doctor found failing checks"))
	}
	return nil
}
