/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ssargent/recprobe/pkg/payload"
	"github.com/ssargent/recprobe/pkg/probe"
	"github.com/ssargent/recprobe/pkg/registry"
	"github.com/ssargent/recprobe/pkg/report"
)

// sweepCmd represents the sweep command
var sweepCmd = &cobra.Command{
	Use:   "sweep <file>",
	Short: "Decode every byte offset of fixed-size blocks as each primitive type",
	Long: `Split a byte range of a file into blocks of --block-size bytes and decode
one value per block at every byte offset, for each type code in --codes and
both byte orders. Each (code, order, offset) is its own candidate, named
sweep_<code>_<le|be>_<offset>, so the usual report, CSV export and archive
apply. A column that changes smoothly from block to block points at a real
field.

The default codes hHiIfe try int16, uint16, int32, uint32, float32 and
float16. The same sweep can be selected in run and serve as the candidate
set sweep-<block-size>[-<codes>].

Examples:
  recprobe sweep imu_0001.fmimr --offset 1024 --block-size 33
  recprobe sweep imu_0001.fmimr --offset 1024 --block-size 33 --codes fe --blocks 111`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := container.Config()
		flags := cmd.Flags()

		blockSize, _ := flags.GetInt("block-size")
		codes, _ := flags.GetString("codes")
		blocks, _ := flags.GetInt("blocks")
		if _, err := registry.Sweep(blockSize, codes); err != nil {
			return err
		}

		rng := payload.Range{Offset: cfg.Input.Offset, Length: cfg.Input.Length}
		if flags.Changed("offset") {
			rng.Offset, _ = flags.GetInt64("offset")
		}
		if flags.Changed("length") {
			rng.Length, _ = flags.GetInt("length")
		}
		noExport, _ := flags.GetBool("no-export")
		asJSON, _ := flags.GetBool("json")

		buf, err := payload.ReadFile(args[0], rng)
		if err != nil {
			return err
		}

		return runAndPrint(cmd, probe.Request{
			Source: report.Source{Name: filepath.Base(args[0]), Offset: rng.Offset},
			Buffer: buf,
			Set:    registry.SweepSetName(blockSize, codes),
			Budget: blocks,
		}, !noExport, asJSON)
	},
}

func init() {
	rootCmd.AddCommand(sweepCmd)

	sweepCmd.Flags().Int("block-size", 33, "Size of one block in bytes")
	sweepCmd.Flags().String("codes", registry.DefaultSweepCodes, "Type codes to try at every offset")
	sweepCmd.Flags().Int("blocks", 0, "Maximum blocks to decode per candidate (0 uses decode.budget)")
	sweepCmd.Flags().Int64("offset", 0, "Byte offset where the first block starts, e.g. past a header")
	sweepCmd.Flags().Int("length", 0, "Number of bytes to sweep (0 reads to the end)")
	sweepCmd.Flags().Bool("no-export", false, "Do not write CSV and JSON files")
	sweepCmd.Flags().Bool("json", false, "Print the report as JSON")
}
