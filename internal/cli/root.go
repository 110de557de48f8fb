// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of databox.

package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global configuration
	globalConfig *Config
)

// Config holds global CLI configuration
type Config struct {
	// ConfigFile is the path to the server configuration file
	ConfigFile string

	// OutputFormat controls output formatting (json, text)
	OutputFormat string
}

// NewConfig returns a Config with defaults applied.
func NewConfig() *Config {
	return &Config{
		OutputFormat: "text",
	}
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "databox",
	Short: "databox - utility API server and toolbox",
	Long: `databox serves a collection of small utility APIs over REST and
exposes the same operations on the command line.

Operations:
  - secret:     split and reconstruct secrets with Shamir's scheme
  - password:   generate random passwords and passphrases
  - server:     run the REST API server`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	globalConfig = NewConfig()

	rootCmd.PersistentFlags().StringVar(&globalConfig.ConfigFile, "config", "",
		"config file (default is ./databox.yaml)")
	rootCmd.PersistentFlags().StringVarP(&globalConfig.OutputFormat, "output", "o", "text",
		"output format (text, json)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(secretCmd)
	rootCmd.AddCommand(passwordCmd)
	rootCmd.AddCommand(passphraseCmd)
}

// getConfig returns the global configuration
func getConfig() *Config {
	return globalConfig
}

// handleError prints an error and exits with code 1
func handleError(err error) {
	printer := NewPrinter(globalConfig.OutputFormat, os.Stderr)
	_ = printer.PrintError(err)
	os.Exit(1)
}
