/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ssargent/recprobe/pkg/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long: `Write a configuration file with the default settings to --config or
~/.config/recprobe/config.yaml. An existing file is kept unless --force is
given.

Examples:
  recprobe init
  recprobe init --with-api-key
  recprobe init --config ./recprobe.yaml --force`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipSetup: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		withAPIKey, _ := cmd.Flags().GetBool("with-api-key")

		path := v.GetString("config")
		if path == "" {
			path = config.GetDefaultConfigPath()
		}

		if config.ConfigExists(path) && !force {
			cmd.Printf("Configuration already exists at %s. Use --force to overwrite.\n", path)
			return nil
		}

		cfg, err := config.BootstrapConfig(path, withAPIKey)
		if err != nil {
			return err
		}

		cmd.Printf("✅ Configuration created at %s\n", path)
		if cfg.Server.APIKey != "" {
			cmd.Printf("API key: %s\n", cfg.Server.APIKey)
			cmd.Printf("⚠️  Store this key securely! It is also saved in %s\n", path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().Bool("force", false, "Overwrite an existing configuration")
	initCmd.Flags().Bool("with-api-key", false, "Generate an API key for the REST server")
}
