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
		Use:   "guestctl",
		Short: "CLI tool for the guest list API",
		Long: `guestctl is a CLI tool for running the guest list server.

Guests can register, cancel and bring friends. Everything under the admin
routes (capacity, event details, blacklist, policy) needs --token.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Output != "text" && cfg.Output != "json" {
				return fmt.Errorf("unknown output format %q", cfg.Output)
			}
			client = NewClient(cfg.ServerURL, cfg.Token)
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: GUESTCTL_SERVER)")
	rootCmd.PersistentFlags().StringVar(&cfg.Token, "token", cfg.Token, "Admin token (env: GUESTCTL_TOKEN)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")

	// Add subcommands
	rootCmd.AddCommand(newHealthCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newKnownCmd())
	rootCmd.AddCommand(newGuestCmd())
	rootCmd.AddCommand(newSlotsCmd())
	rootCmd.AddCommand(newEventCmd())
	rootCmd.AddCommand(newPriceCmd())
	rootCmd.AddCommand(newPolicyCmd())
	rootCmd.AddCommand(newFriendsCmd())
	rootCmd.AddCommand(newBlacklistCmd())
	rootCmd.AddCommand(newHashTokenCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// printResult writes the result using the configured output format
func printResult(cmd *cobra.Command, data any) {
	NewOutputTo(cfg.Output, cmd.OutOrStdout()).Print(data)
}
