/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ssargent/recprobe/pkg/synth"
)

// synthCmd represents the synth command
var synthCmd = &cobra.Command{
	Use:   "synth <file>",
	Short: "Write a synthetic record stream for one candidate",
	Long: `Encode records with a candidate's layout and write them to a file. Field 0
holds timestamps start + i*step, field j of record i holds i*j (plus j/4
for float fields). Decoding the file with 'recprobe run' shows what a
correct layout looks like next to the wrong ones.

Examples:
  recprobe synth nav.bin --candidate A_Qffff
  recprobe synth nav.bin --set nav-v1 --candidate B_QiiiH --records 250 --trailing 7`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		name, _ := flags.GetString("candidate")

		opts := synth.DefaultOptions()
		opts.Records, _ = flags.GetInt("records")
		opts.Start, _ = flags.GetUint64("start")
		opts.Step, _ = flags.GetUint64("step")
		opts.Trailing, _ = flags.GetInt("trailing")

		catalog := container.Catalog()
		set := catalog.DefaultSet()
		reg, err := catalog.Registry(set)
		if err != nil {
			return err
		}
		desc, ok := reg.Lookup(name)
		if !ok {
			return fmt.Errorf("candidate %q not found in set %s", name, set)
		}

		buf, err := synth.Generate(desc, opts)
		if err != nil {
			return err
		}
		if err := os.WriteFile(args[0], buf, 0600); err != nil {
			return fmt.Errorf("failed to write %s: %w", args[0], err)
		}

		cmd.Printf("Wrote %d %s records (%d bytes) to %s\n", opts.Records, desc.Layout(), len(buf), args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(synthCmd)

	defaults := synth.DefaultOptions()
	synthCmd.Flags().String("candidate", "", "Candidate whose layout is written")
	synthCmd.Flags().Int("records", defaults.Records, "Number of records")
	synthCmd.Flags().Uint64("start", defaults.Start, "Timestamp of the first record")
	synthCmd.Flags().Uint64("step", defaults.Step, "Timestamp increment per record")
	synthCmd.Flags().Int("trailing", 0, "Garbage bytes appended after the last record")
	_ = synthCmd.MarkFlagRequired("candidate")
}
