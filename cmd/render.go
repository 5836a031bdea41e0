package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kjourdan1/zonectl/internal/output"
)

var renderCmd = &cobra.Command{
	Use:   "render <zone>",
	Short: "Render the template for one zone",
	Long: `Write the template with every placeholder replaced by <zone> to the
configured output file. With --stdout the result is printed instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

var renderStdout bool

func init() {
	renderCmd.Flags().BoolVar(&renderStdout, "stdout", false, "print the rendered file instead of writing it")

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := readSettings()
	if err != nil {
		return err
	}
	r := newRenderer(cfg)
	zone := args[0]

	if renderStdout {
		content, err := r.Content(zone)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(content)
		return err
	}

	if err := r.Render(zone); err != nil {
		return err
	}
	if jsonOutput {
		output.JSON(map[string]string{"zone": zone, "output": r.OutputPath})
		return nil
	}
	color.New(color.FgGreen).Fprintf(cmd.ErrOrStderr(), "✅ Rendered %s for zone %s\n", r.OutputPath, zone)
	return nil
}
