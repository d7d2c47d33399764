/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ssargent/recprobe/pkg/export"
	"github.com/ssargent/recprobe/pkg/payload"
	"github.com/ssargent/recprobe/pkg/probe"
	"github.com/ssargent/recprobe/pkg/report"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Decode a file against every candidate layout",
	Long: `Decode a byte range of a file against every candidate of a set and print
one row per candidate: layout, record size, records decoded, why decoding
stopped and the first record's values.

Unless --no-export is given, a CSV per decoded candidate, summary.csv and
report.json are written to the output directory.

Examples:
  recprobe run nav_0001.fmnav
  recprobe run nav_0001.fmnav --set nav-v1 --budget 500
  recprobe run nav_0001.fmnav --offset 64 --length 4096 --candidates A_Qffff,E_Qfff
  recprobe run nav_0001.fmnav --candidates-file ./lab.yaml --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := container.Config()
		flags := cmd.Flags()

		rng := payload.Range{Offset: cfg.Input.Offset, Length: cfg.Input.Length}
		if flags.Changed("offset") {
			rng.Offset, _ = flags.GetInt64("offset")
		}
		if flags.Changed("length") {
			rng.Length, _ = flags.GetInt("length")
		}
		if flags.Changed("rows") {
			cfg.Export.CSVRows, _ = flags.GetInt("rows")
		}
		noExport, _ := flags.GetBool("no-export")
		asJSON, _ := flags.GetBool("json")
		candidates, _ := flags.GetStringSlice("candidates")

		buf, err := payload.ReadFile(args[0], rng)
		if err != nil {
			return err
		}

		return runAndPrint(cmd, probe.Request{
			Source:     report.Source{Name: filepath.Base(args[0]), Offset: rng.Offset},
			Buffer:     buf,
			Candidates: candidates,
		}, !noExport, asJSON)
	},
}

// runAndPrint executes req and prints the report the way run and sweep share
func runAndPrint(cmd *cobra.Command, req probe.Request, withExport, asJSON bool) error {
	runner, err := container.Runner(withExport, nil)
	if err != nil {
		return err
	}
	run, err := runner.Run(cmd.Context(), req)
	if run == nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON {
		if werr := export.WriteJSON(out, run.Report); werr != nil {
			return werr
		}
	} else {
		if rerr := report.Render(out, run.Report); rerr != nil {
			return rerr
		}
		if len(run.Files) > 0 {
			cmd.Printf("\nWrote %d files to %s\n", len(run.Files), container.Config().Export.OutputDir)
		}
		if run.Report.ID != "" {
			cmd.Printf("Archived as %s\n", run.Report.ID)
		}
	}
	return err
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Int64("offset", 0, "Byte offset into the file where decoding starts")
	runCmd.Flags().Int("length", 0, "Number of bytes to decode (0 reads to the end)")
	runCmd.Flags().StringSlice("candidates", nil, "Only evaluate these candidates")
	runCmd.Flags().Bool("no-export", false, "Do not write CSV and JSON files")
	runCmd.Flags().Int("rows", 0, "Maximum rows per candidate CSV")
	runCmd.Flags().Bool("json", false, "Print the report as JSON")
	runCmd.Flags().StringP("output-dir", "o", "", "Directory for exported files")

	_ = v.BindPFlag("export.output_dir", runCmd.Flags().Lookup("output-dir"))
}
