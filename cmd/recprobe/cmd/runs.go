/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ssargent/recprobe/pkg/archive"
	"github.com/ssargent/recprobe/pkg/export"
	"github.com/ssargent/recprobe/pkg/report"
)

// runsCmd represents the runs command
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect archived run reports",
	Long: `List, show and delete run reports stored in the archive. The archive
directory is taken from archive.dir (or --archive-dir), whether or not
archiving of new runs is enabled.`,
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived runs, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		arch, err := openArchive()
		if err != nil {
			return err
		}
		entries, err := arch.List()
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			cmd.Println("No archived runs")
			return nil
		}

		data := make([][]string, 0, len(entries))
		for _, e := range entries {
			data = append(data, []string{e.ID, e.CreatedAt, e.Source, e.Set, strconv.Itoa(e.Candidates)})
		}
		return report.RenderTable(cmd.OutOrStdout(), "Archived runs",
			[]string{"ID", "Created", "Source", "Set", "Candidates"}, data)
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show an archived run report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		arch, err := openArchive()
		if err != nil {
			return err
		}
		r, err := arch.Get(args[0])
		if err != nil {
			return err
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return export.WriteJSON(cmd.OutOrStdout(), r)
		}
		return report.Render(cmd.OutOrStdout(), r)
	},
}

var runsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an archived run report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		arch, err := openArchive()
		if err != nil {
			return err
		}
		if err := arch.Delete(args[0]); err != nil {
			return err
		}
		cmd.Printf("Deleted run %s\n", args[0])
		return nil
	},
}

// openArchive opens the configured archive even when archiving is disabled
func openArchive() (*archive.Archive, error) {
	container.Config().Archive.Enabled = true
	return container.Archive()
}

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(runsListCmd, runsShowCmd, runsDeleteCmd)

	runsShowCmd.Flags().Bool("json", false, "Print the report as JSON")
}
