/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ssargent/recprobe/pkg/config"
	"github.com/ssargent/recprobe/pkg/di"
	"github.com/ssargent/recprobe/pkg/logging"
)

// skipSetup marks commands that run without a loaded configuration
const skipSetup = "skip-setup"

var (
	container *di.Container
	v         = viper.New()
)

// SetContainer injects a container, bypassing configuration loading (for testing)
func SetContainer(c *di.Container) {
	container = c
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "recprobe",
	Short: "recprobe - binary record layout prober",
	Long: `recprobe decodes an undocumented fixed-record binary file against a set of
candidate record layouts and reports, per candidate, how many records decoded,
why decoding stopped and what the values look like. A human then judges which
layout is plausible.

Configuration is read from ~/.config/recprobe/config.yaml (see 'recprobe init'),
then overridden by RECPROBE_* environment variables and command line flags.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations[skipSetup] == "true" || container != nil {
			return nil
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		container = di.NewContainer(cfg, logger)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if container == nil {
			return nil
		}
		return container.Close()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if err := rootCmd.Execute(); err != nil {
		logrus.WithError(err).Error("recprobe failed")
		os.Exit(1)
	}
}

// overrides maps config keys to the persistent flags that set them
var overrides = map[string]string{
	"logging.level":          "log-level",
	"logging.format":         "log-format",
	"decode.budget":          "budget",
	"decode.workers":         "workers",
	"decode.candidate_set":   "set",
	"decode.candidates_file": "candidates-file",
	"archive.enabled":        "archive",
	"archive.dir":            "archive-dir",
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Config file (default ~/.config/recprobe/config.yaml)")
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	flags.String("log-format", "text", "Log format (text or json)")
	flags.Int("budget", 0, "Maximum records decoded per candidate")
	flags.Int("workers", 0, "Candidates decoded concurrently")
	flags.String("set", "", "Candidate set to evaluate")
	flags.String("candidates-file", "", "YAML or TOML candidate table")
	flags.Bool("archive", false, "Store run reports in the archive")
	flags.String("archive-dir", "", "Archive directory")

	for key, flag := range overrides {
		_ = v.BindPFlag(key, flags.Lookup(flag))
	}
	_ = v.BindPFlag("config", flags.Lookup("config"))

	v.SetEnvPrefix("RECPROBE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// loadConfig reads the config file, if any, then applies env and flag
// overrides. An explicitly named config file must exist.
func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()

	path := v.GetString("config")
	explicit := path != ""
	if !explicit {
		path = config.GetDefaultConfigPath()
	}
	if explicit || config.ConfigExists(path) {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	applyOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func applyOverrides(cfg *config.Config) {
	if v.IsSet("logging.level") {
		cfg.Logging.Level = v.GetString("logging.level")
	}
	if v.IsSet("logging.format") {
		cfg.Logging.Format = v.GetString("logging.format")
	}
	if v.IsSet("decode.budget") {
		cfg.Decode.Budget = v.GetInt("decode.budget")
	}
	if v.IsSet("decode.workers") {
		cfg.Decode.Workers = v.GetInt("decode.workers")
	}
	if v.IsSet("decode.candidate_set") {
		cfg.Decode.CandidateSet = v.GetString("decode.candidate_set")
	}
	if v.IsSet("decode.candidates_file") {
		cfg.Decode.CandidatesFile = v.GetString("decode.candidates_file")
	}
	if v.IsSet("archive.enabled") {
		cfg.Archive.Enabled = v.GetBool("archive.enabled")
	}
	if v.IsSet("archive.dir") {
		cfg.Archive.Dir = v.GetString("archive.dir")
	}
	if v.IsSet("export.output_dir") {
		cfg.Export.OutputDir = v.GetString("export.output_dir")
	}
	if v.IsSet("export.csv_rows") {
		cfg.Export.CSVRows = v.GetInt("export.csv_rows")
	}
	if v.IsSet("server.port") {
		cfg.Server.Port = v.GetInt("server.port")
	}
	if v.IsSet("server.bind") {
		cfg.Server.Bind = v.GetString("server.bind")
	}
	if v.IsSet("server.api_key") {
		cfg.Server.APIKey = v.GetString("server.api_key")
	}
	if v.IsSet("server.max_body_bytes") {
		cfg.Server.MaxBodyBytes = v.GetInt64("server.max_body_bytes")
	}
}
