package main

import (
	"fmt"

	"github.com/jpalmerr/chatcast/config"
	"github.com/spf13/cobra"
)

// validateCmd validates a config file without starting the server.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a config file",
	Long: `Validate a chatcast configuration file without starting the server.

This command parses the YAML, expands environment variables, and validates
all fields. It's useful for CI/CD pipelines or pre-deployment checks.

Exit codes:
  0 - Config is valid
  1 - Config is invalid (error details printed to stderr)

Example:
  chatcast validate -c chatcast.yaml
  chatcast validate --env-file prod.env -c /etc/chatcast/chatcast.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	_ = validateCmd.MarkFlagRequired("config")
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	title := cfg.Title
	if title == "" {
		title = "chatcast"
	}
	static := cfg.StaticDir
	if static == "" {
		static = "(embedded)"
	}
	keepAlive := cfg.KeepAliveDuration().String()
	if cfg.KeepAliveDuration() == 0 {
		keepAlive = "disabled"
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Config is valid!\n")
	fmt.Fprintf(out, "  Title:           %s\n", title)
	fmt.Fprintf(out, "  Port:            %d\n", cfg.Port)
	fmt.Fprintf(out, "  Buffer capacity: %d\n", cfg.BufferCapacity)
	fmt.Fprintf(out, "  Keep-alive:      %s\n", keepAlive)
	fmt.Fprintf(out, "  Write timeout:   %s\n", cfg.WriteTimeout.Duration())
	fmt.Fprintf(out, "  Static dir:      %s\n", static)
	fmt.Fprintf(out, "  Log level:       %s\n", cfg.LogLevel)

	return nil
}
