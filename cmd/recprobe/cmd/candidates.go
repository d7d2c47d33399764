/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ssargent/recprobe/pkg/registry"
	"github.com/ssargent/recprobe/pkg/report"
)

// candidatesCmd represents the candidates command
var candidatesCmd = &cobra.Command{
	Use:   "candidates",
	Short: "List candidate layouts",
	Long: `List the candidates of a set with their layout, record size and field names.
Candidates that failed validation are listed with the reason.

--save writes the set as a YAML or TOML candidate table that can be edited
and passed back with --candidates-file.

Examples:
  recprobe candidates
  recprobe candidates --set nav-v1
  recprobe candidates --all
  recprobe candidates --set nav-v2 --save ./lab.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog := container.Catalog()
		all, _ := cmd.Flags().GetBool("all")
		save, _ := cmd.Flags().GetString("save")

		sets := []string{catalog.DefaultSet()}
		if all {
			sets = catalog.Sets()
		}

		for i, set := range sets {
			reg, err := catalog.Registry(set)
			if err != nil {
				return err
			}
			if i > 0 {
				cmd.Println()
			}
			if err := report.RenderCandidates(cmd.OutOrStdout(), set, reg.Entries()); err != nil {
				return err
			}

			if save != "" && !all {
				specs := make([]registry.CandidateSpec, 0, reg.Len())
				for _, desc := range reg.ListCandidates() {
					specs = append(specs, registry.SpecFromDescriptor(desc))
				}
				if err := registry.SaveFile(save, specs); err != nil {
					return err
				}
				cmd.Printf("\nSaved %d candidates to %s\n", len(specs), save)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(candidatesCmd)

	candidatesCmd.Flags().Bool("all", false, "List every known set")
	candidatesCmd.Flags().String("save", "", "Write the set to a .yaml or .toml candidate table")
	candidatesCmd.MarkFlagsMutuallyExclusive("all", "save")
}
