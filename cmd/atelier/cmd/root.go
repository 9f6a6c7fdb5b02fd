// Package cmd provides the CLI commands for the Atelier backend.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/atelier-store/atelier/internal/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "atelier",
	Short: "Atelier - account and catalog backend",
	Long: `Atelier is the HTTP backend for the Atelier store: phone-number
accounts with role-based access control, and a product catalog.

Quick start:
  1. Create a config file: atelier.yaml
  2. Run: atelier start

Configuration:
  Config is loaded from atelier.yaml in the current directory,
  $HOME/.atelier/, or /etc/atelier/.

  Environment variables can override config values with the ATELIER_ prefix.
  Example: ATELIER_SERVER_HTTP_ADDR=:9090

Commands:
  start          Start the HTTP server
  hash-password  Generate an argon2id hash for a password
  version        Print version information`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./atelier.yaml)")
}

func initConfig() {
	config.InitViper(cfgFile)
}
