package cli

import (
	"io"
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
		Use:   "pelada",
		Short: "CLI tool for the pelada roster API",
		Long: `pelada is a CLI tool for the pelada roster API.

It checks players in and out of the weekly match roster, shows the
remaining slots and draws balanced teams.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var verbose io.Writer
			if cfg.Verbose {
				verbose = cmd.ErrOrStderr()
			}

			// Create HTTP client
			client = NewClient(cfg.ServerURL, verbose)
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: PELADA_SERVER)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")

	// Add subcommands
	rootCmd.AddCommand(newPlayersCmd())
	rootCmd.AddCommand(newRosterCmd())
	rootCmd.AddCommand(newTeamsCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newOutput(cmd *cobra.Command) *Output {
	return NewOutput(cfg.Output, cmd.OutOrStdout())
}
