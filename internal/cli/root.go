package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfg    *Config
	client *Client
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "sportctl",
		Short: "CLI tool for the sports session scheduler API",
		Long: `sportctl is a CLI tool for interacting with the sports session scheduler JSON API.

It covers accounts, sports, scheduling and joining sessions, and the
administrative sessions report. The token from signup or signin is saved
to the token file and reused by later commands.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Output != "text" && cfg.Output != "json" {
				return fmt.Errorf("--output must be text or json")
			}

			// Load token from file if not provided via flag/env
			if err := cfg.LoadToken(); err != nil {
				return err
			}

			// Create HTTP client
			client = NewClient(cfg.ServerURL, cfg.Token)
			if cfg.Verbose {
				client.SetTrace(cmd.ErrOrStderr())
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: SPORTCTL_SERVER)")
	rootCmd.PersistentFlags().StringVar(&cfg.Token, "token", cfg.Token, "Access token (env: SPORTCTL_TOKEN)")
	rootCmd.PersistentFlags().StringVar(&cfg.TokenFile, "token-file", cfg.TokenFile, "Token file path (env: SPORTCTL_TOKEN_FILE)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")

	// Add subcommands
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newSportCmd())
	rootCmd.AddCommand(newSessionCmd())
	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		NewOutput(cfg.Output, root.ErrOrStderr()).PrintError(err)
		os.Exit(1)
	}
}

// output returns a formatter writing to the command's stdout
func output(cmd *cobra.Command) *Output {
	return NewOutput(cfg.Output, cmd.OutOrStdout())
}
