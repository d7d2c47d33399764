/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the recprobe configuration
type Config struct {
	Input   Input   `yaml:"input"`
	Decode  Decode  `yaml:"decode"`
	Summary Summary `yaml:"summary"`
	Export  Export  `yaml:"export"`
	Archive Archive `yaml:"archive"`
	Server  Server  `yaml:"server"`
	Logging Logging `yaml:"logging"`
}

// Input selects the byte range of an input file that is decoded
type Input struct {
	Offset int64 `yaml:"offset"`
	Length int   `yaml:"length"`
}

// Decode controls candidate evaluation
type Decode struct {
	Budget         int    `yaml:"budget"`
	Workers        int    `yaml:"workers"`
	CandidateSet   string `yaml:"candidate_set"`
	CandidatesFile string `yaml:"candidates_file,omitempty"`
}

// Summary controls the statistics computed per candidate
type Summary struct {
	HistogramBins  int `yaml:"histogram_bins"`
	TimestampField int `yaml:"timestamp_field"`
	DeltaSample    int `yaml:"delta_sample"`
}

// Export controls the files written by a run
type Export struct {
	Enabled   bool   `yaml:"enabled"`
	OutputDir string `yaml:"output_dir"`
	CSVRows   int    `yaml:"csv_rows"`
}

// Archive controls persistence of run reports
type Archive struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
}

// Server contains HTTP API configuration
type Server struct {
	Port         int    `yaml:"port"`
	Bind         string `yaml:"bind"`
	APIKey       string `yaml:"api_key,omitempty"`
	MaxBodyBytes int64  `yaml:"max_body_bytes"`
}

// Logging contains logging configuration
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Decode: Decode{
			Budget:       10000,
			Workers:      4,
			CandidateSet: "nav-v2",
		},
		Summary: Summary{
			HistogramBins:  100,
			TimestampField: 0,
			DeltaSample:    2000,
		},
		Export: Export{
			Enabled:   true,
			OutputDir: "./decoded_output",
			CSVRows:   5000,
		},
		Archive: Archive{
			Enabled: false,
			Dir:     "./data/runs",
		},
		Server: Server{
			Port:         8080,
			Bind:         "127.0.0.1",
			MaxBodyBytes: 64 << 20,
		},
		Logging: Logging{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate checks value ranges
func (c *Config) Validate() error {
	var errs []error
	if c.Input.Offset < 0 {
		errs = append(errs, fmt.Errorf("input.offset must not be negative"))
	}
	if c.Input.Length < 0 {
		errs = append(errs, fmt.Errorf("input.length must not be negative"))
	}
	if c.Decode.Budget <= 0 {
		errs = append(errs, fmt.Errorf("decode.budget must be positive"))
	}
	if c.Decode.Workers <= 0 {
		errs = append(errs, fmt.Errorf("decode.workers must be positive"))
	}
	if c.Decode.CandidateSet == "" && c.Decode.CandidatesFile == "" {
		errs = append(errs, fmt.Errorf("decode.candidate_set or decode.candidates_file is required"))
	}
	if c.Summary.HistogramBins <= 0 {
		errs = append(errs, fmt.Errorf("summary.histogram_bins must be positive"))
	}
	if c.Summary.TimestampField < -1 {
		errs = append(errs, fmt.Errorf("summary.timestamp_field must be -1 (disabled) or a field index"))
	}
	if c.Export.Enabled && c.Export.OutputDir == "" {
		errs = append(errs, fmt.Errorf("export.output_dir is required when export is enabled"))
	}
	if c.Archive.Enabled && c.Archive.Dir == "" {
		errs = append(errs, fmt.Errorf("archive.dir is required when the archive is enabled"))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port out of range: %d", c.Server.Port))
	}
	if c.Server.MaxBodyBytes <= 0 {
		errs = append(errs, fmt.Errorf("server.max_body_bytes must be positive"))
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format))
	}
	return errors.Join(errs...)
}

// LoadConfig loads configuration from the specified path. Keys missing from
// the file keep their default values.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveConfig saves the configuration to the specified path with secure permissions
func SaveConfig(config *Config, configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// 0600: the file may hold the API key
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GenerateSecureKey generates a cryptographically secure random key
func GenerateSecureKey(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate secure key: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// BootstrapConfig writes a default configuration, optionally with a
// generated API key for the HTTP server
func BootstrapConfig(configPath string, withAPIKey bool) (*Config, error) {
	config := DefaultConfig()

	if withAPIKey {
		key, err := GenerateSecureKey(32)
		if err != nil {
			return nil, fmt.Errorf("failed to generate API key: %w", err)
		}
		config.Server.APIKey = key
	}

	if err := SaveConfig(config, configPath); err != nil {
		return nil, fmt.Errorf("failed to save bootstrap config: %w", err)
	}

	return config, nil
}

// GetDefaultConfigPath returns the default configuration path for the current platform
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./recprobe.yaml"
	}

	// ~/.config/recprobe/config.yaml on Linux and macOS
	configDir := filepath.Join(homeDir, ".config", "recprobe")
	return filepath.Join(configDir, "config.yaml")
}

// ConfigExists checks if a configuration file exists
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}
