package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kjourdan1/zonectl/internal/config"
	"github.com/kjourdan1/zonectl/internal/exitcode"
	"github.com/kjourdan1/zonectl/internal/output"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate zonectl.yaml",
	Long: `Runs the configuration checks that 'zonectl run' performs before touching
any cloud API:

  1. zonectl.yaml schema validation
  2. Cross-validation (provider requirements, template paths, retry delays)

Flags and ZONECTL_* variables are applied before validating.`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

var validateStrict bool

func init() {
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "fail on warnings")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	cfg, err := readSettings()
	if err != nil {
		return err
	}

	schemaResult, err := config.Validate(cfg)
	if err != nil {
		return exitcode.Wrap(exitcode.Validation, fmt.Errorf("schema validation error: %w", err))
	}

	checks := make([]config.CrossCheck, 0, 8)
	if schemaResult.Valid {
		checks = append(checks, config.CrossCheck{Name: "schema", Status: "pass", Message: "zonectl.yaml matches schema"})
	} else {
		for _, e := range schemaResult.Errors {
			checks = append(checks, config.CrossCheck{Name: "schema", Status: "error", Message: fmt.Sprintf("%s: %s", e.Field, e.Description)})
		}
	}

	cross, err := config.CrossValidate(cfg)
	if err != nil {
		return exitcode.Wrap(exitcode.Validation, fmt.Errorf("cross validation failed: %w", err))
	}
	checks = append(checks, cross...)

	errorsCount, warningsCount := 0, 0
	for _, c := range checks {
		switch c.Status {
		case "error":
			errorsCount++
		case "warning":
			warningsCount++
		}
	}

	if jsonOutput {
		output.JSON(map[string]interface{}{
			"config":   configPath(),
			"checks":   checks,
			"errors":   errorsCount,
			"warnings": warningsCount,
		})
	} else {
		w := cmd.ErrOrStderr()
		fmt.Fprintf(w, "🔎 Validating: %s\n\n", configPath())
		for _, c := range checks {
			icon := "✅"
			switch c.Status {
			case "warning":
				icon = "⚠️"
			case "error":
				icon = "❌"
			}
			fmt.Fprintf(w, "  %s %s: %s\n", icon, c.Name, c.Message)
		}
		fmt.Fprintln(w)
	}

	if errorsCount > 0 {
		return exitcode.Wrap(exitcode.Validation, fmt.Errorf("%d validation error(s) found", errorsCount))
	}
	if warningsCount > 0 && validateStrict {
		return exitcode.Wrap(exitcode.Validation, fmt.Errorf("%d warning(s) found (strict mode)", warningsCount))
	}

	if !jsonOutput {
		color.New(color.FgGreen, color.Bold).Fprintf(cmd.ErrOrStderr(), "✅ Validation passed (%d checks, %d warnings)\n", len(checks), warningsCount)
	}
	return nil
}
