// Package main is the entry point for the chatcast CLI.
//
// Chatcast can be run either as a library (SDK) or as a standalone binary
// with optional YAML configuration. This CLI provides the standalone binary.
//
// Usage:
//
//	chatcast serve                      # Start with defaults on :8080
//	chatcast serve -c chatcast.yaml     # Start with a config file
//	chatcast validate -c chatcast.yaml  # Validate configuration
//	chatcast version                    # Show version info
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version information - set by GoReleaser at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const defaultEnvFile = ".env"

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "chatcast",
	Short: "A tiny real-time chat broadcast server",
	Long: `Chatcast is a tiny real-time chat server.

Clients submit messages with an HTML form POST to /message and every
connected browser receives them live over Server-Sent Events on /events.

Quick start:
  1. Run: chatcast serve
  2. Open http://localhost:8080 in two browser tabs
  3. Send a message from one tab and watch it appear in both

Example config:
  title: Team Chat
  port: 8080
  buffer_capacity: 1024
  keep_alive: 15s`,
	PersistentPreRunE: loadEnvFile,
	SilenceUsage:      true,
}

// loadEnvFile loads KEY=VALUE pairs into the process environment before any
// config is read, so ${VAR} references in the YAML can see them. An explicit
// --env-file must exist; the default .env is optional.
func loadEnvFile(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("env-file")
	explicit := cmd.Flags().Changed("env-file")
	if path == "" {
		path = defaultEnvFile
	}

	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error, just exit with code 1
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build date of this chatcast binary.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "chatcast %s\n", version)
		fmt.Fprintf(cmd.OutOrStdout(), "  commit: %s\n", commit)
		fmt.Fprintf(cmd.OutOrStdout(), "  built:  %s\n", date)
	},
}

func init() {
	rootCmd.PersistentFlags().String("env-file", "", "path to a dotenv file loaded before the config (default \".env\" if present)")
	rootCmd.AddCommand(versionCmd)
}
