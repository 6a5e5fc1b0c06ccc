package cli

import (
	"net/url"

	"github.com/spf13/cobra"
)

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result HealthResult

			if err := client.Get("/api/v1/health", &result); err != nil {
				return err
			}

			printResult(cmd, result)
			return nil
		},
	}
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show registration statistics (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Stats

			if err := client.Get("/api/v1/admin/stats", &result); err != nil {
				return err
			}

			printResult(cmd, result)
			return nil
		},
	}
}

func newKnownCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "known <handle>",
		Short: "Look up the identity last seen with a handle (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result KnownUser

			if err := client.Get("/api/v1/admin/known/"+url.PathEscape(args[0]), &result); err != nil {
				return err
			}

			printResult(cmd, result)
			return nil
		},
	}
}
