package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kjourdan1/zonectl/internal/output"
)

var zonesCmd = &cobra.Command{
	Use:   "zones",
	Short: "List the zones a run would try, in order",
	Long: `Enumerate the provider's zones with the same region and exclude filters
as 'zonectl run', without rendering or running terraform.`,
	Args: cobra.NoArgs,
	RunE: runZones,
}

func init() {
	rootCmd.AddCommand(zonesCmd)
}

func runZones(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}

	names, err := listZones(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	if jsonOutput {
		output.JSON(map[string]interface{}{
			"provider": cfg.Spec.Provider.Name,
			"project":  cfg.Spec.Provider.Project,
			"region":   cfg.Spec.Provider.Region,
			"zones":    names,
		})
		return nil
	}
	for _, z := range names {
		fmt.Fprintln(cmd.OutOrStdout(), z)
	}
	output.Info(fmt.Sprintf("%d zone(s)", len(names)))
	return nil
}
