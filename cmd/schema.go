package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kjourdan1/zonectl/internal/config"
	"github.com/kjourdan1/zonectl/internal/exitcode"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Export the zonectl.yaml JSON Schema",
	Long: `Print the JSON Schema that zonectl.yaml is validated against, for editor
integration.

Examples:
  zonectl schema                      # print schema to stdout
  zonectl schema --output schema.json # write to file`,
	Args: cobra.NoArgs,
	RunE: runSchemaExport,
}

var schemaOutputFile string

func init() {
	schemaCmd.Flags().StringVarP(&schemaOutputFile, "output", "o", "", "write schema to file instead of stdout")

	rootCmd.AddCommand(schemaCmd)
}

func runSchemaExport(cmd *cobra.Command, _ []string) error {
	data := config.GetSchema()
	if len(data) == 0 {
		return exitcode.Wrap(exitcode.Validation, fmt.Errorf("no embedded schema available"))
	}

	if schemaOutputFile == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}

	if err := os.MkdirAll(filepath.Dir(schemaOutputFile), 0o755); err != nil {
		return exitcode.Wrap(exitcode.FileAccess, err)
	}
	if err := os.WriteFile(schemaOutputFile, data, 0o644); err != nil {
		return exitcode.Wrap(exitcode.FileAccess, err)
	}
	color.New(color.FgGreen).Fprintf(cmd.ErrOrStderr(), "✅ Schema written to %s\n", schemaOutputFile)
	return nil
}
